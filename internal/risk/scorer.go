package risk

// Drop-off risk scoring for an in-progress onboarding session. Pure weighted
// thresholds over behavioral counters; every constant lives in Weights so the
// tuning can change (or be replaced by a model) without touching call sites.

// Counters is the behavioral snapshot reported by the client per step.
type Counters struct {
	StepSeconds        int `json:"step_seconds"`
	SessionSeconds     int `json:"session_seconds"`
	FieldsCompleted    int `json:"fields_completed"`
	FieldsRequired     int `json:"fields_required"`
	ValidationFailures int `json:"validation_failures"`
	HelpRequests       int `json:"help_requests"`
	TabHiddenEvents    int `json:"tab_hidden_events"`
	FieldRevisits      int `json:"field_revisits"`
}

// Weights holds every threshold and weight used by Score and Assess.
type Weights struct {
	StepTimeThresholdSeconds    int
	StepTimeWeight              float64
	SessionTimeThresholdSeconds int
	SessionCompletionRatio      float64
	SessionTimeWeight           float64
	FailureThreshold            int
	FailureWeight               float64
	TabHiddenThreshold          int
	TabHiddenWeightPerEvent     float64
	TabHiddenCap                float64
	HelpRequestThreshold        int
	HelpRequestWeight           float64
	RevisitThreshold            int
	RevisitWeight               float64
	HighTier                    float64
	MediumTier                  float64
}

// DefaultWeights is the hand-tuned production configuration.
func DefaultWeights() Weights {
	return Weights{
		StepTimeThresholdSeconds:    120,
		StepTimeWeight:              0.3,
		SessionTimeThresholdSeconds: 900,
		SessionCompletionRatio:      0.5,
		SessionTimeWeight:           0.2,
		FailureThreshold:            3,
		FailureWeight:               0.2,
		TabHiddenThreshold:          2,
		TabHiddenWeightPerEvent:     0.1,
		TabHiddenCap:                0.2,
		HelpRequestThreshold:        2,
		HelpRequestWeight:           0.1,
		RevisitThreshold:            4,
		RevisitWeight:               0.1,
	}
}

// Score maps counters to a drop-off risk in [0,1]. Monotonic non-decreasing
// in every counter.
func Score(c Counters, w Weights) float64 {
	score := 0.0

	if c.StepSeconds > w.StepTimeThresholdSeconds {
		score += w.StepTimeWeight
	}
	if c.SessionSeconds > w.SessionTimeThresholdSeconds && completion(c) < w.SessionCompletionRatio {
		score += w.SessionTimeWeight
	}
	if c.ValidationFailures > w.FailureThreshold {
		score += w.FailureWeight
	}
	if extra := c.TabHiddenEvents - w.TabHiddenThreshold; extra > 0 {
		add := float64(extra) * w.TabHiddenWeightPerEvent
		if add > w.TabHiddenCap {
			add = w.TabHiddenCap
		}
		score += add
	}
	if c.HelpRequests > w.HelpRequestThreshold {
		score += w.HelpRequestWeight
	}
	if c.FieldRevisits > w.RevisitThreshold {
		score += w.RevisitWeight
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func completion(c Counters) float64 {
	if c.FieldsRequired <= 0 {
		return 1
	}
	return float64(c.FieldsCompleted) / float64(c.FieldsRequired)
}

// Intervention is the caller-facing payload for an at-risk session. Nil when
// the score is below the medium tier.
type Intervention struct {
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Actions []string `json:"actions"`
}

// Assess maps a score onto the intervention tiers.
func Assess(score float64, w Weights) *Intervention {
	high := w.HighTier
	if high == 0 {
		high = 0.7
	}
	medium := w.MediumTier
	if medium == 0 {
		medium = 0.5
	}
	switch {
	case score > high:
		return &Intervention{
			Level:   "high",
			Message: "It looks like you might be stuck. Want to chat with our assistant, or save your progress and finish later?",
			Actions: []string{"chat_with_assistant", "save_and_exit", "skip_optional_fields"},
		}
	case score > medium:
		return &Intervention{
			Level:   "medium",
			Message: "Need a hand with this step? The assistant can fill in details from your documents.",
			Actions: []string{"chat_with_assistant", "show_field_help"},
		}
	}
	return nil
}
