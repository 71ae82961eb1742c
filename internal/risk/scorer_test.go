package risk

import "testing"

func TestScoreBounds(t *testing.T) {
	w := DefaultWeights()

	if s := Score(Counters{}, w); s != 0 {
		t.Fatalf("zero counters score = %v, want 0", s)
	}

	// everything over threshold: sum of weights is 1.0 with defaults and must
	// stay clamped to [0,1] regardless
	c := Counters{
		StepSeconds:        999,
		SessionSeconds:     9999,
		FieldsCompleted:    0,
		FieldsRequired:     12,
		ValidationFailures: 10,
		HelpRequests:       10,
		TabHiddenEvents:    50,
		FieldRevisits:      20,
	}
	s := Score(c, w)
	if s < 0 || s > 1 {
		t.Fatalf("score out of range: %v", s)
	}
	if s != 1 {
		t.Fatalf("maxed counters score = %v, want 1", s)
	}
}

func TestScoreMonotonicPerCounter(t *testing.T) {
	w := DefaultWeights()
	base := Counters{
		StepSeconds:        60,
		SessionSeconds:     600,
		FieldsCompleted:    4,
		FieldsRequired:     12,
		ValidationFailures: 1,
		HelpRequests:       1,
		TabHiddenEvents:    1,
		FieldRevisits:      1,
	}
	baseScore := Score(base, w)

	bump := []func(Counters) Counters{
		func(c Counters) Counters { c.StepSeconds += 300; return c },
		func(c Counters) Counters { c.SessionSeconds += 3000; return c },
		func(c Counters) Counters { c.ValidationFailures += 5; return c },
		func(c Counters) Counters { c.HelpRequests += 5; return c },
		func(c Counters) Counters { c.TabHiddenEvents += 5; return c },
		func(c Counters) Counters { c.FieldRevisits += 5; return c },
	}
	for i, f := range bump {
		if got := Score(f(base), w); got < baseScore {
			t.Fatalf("bump %d decreased score: %v < %v", i, got, baseScore)
		}
	}
}

func TestTabHiddenCap(t *testing.T) {
	w := DefaultWeights()
	few := Counters{TabHiddenEvents: 4}
	many := Counters{TabHiddenEvents: 40}
	if Score(few, w) != Score(many, w) {
		t.Fatalf("tab hidden contribution should cap: %v vs %v", Score(few, w), Score(many, w))
	}
}

func TestSessionTimeNeedsLowCompletion(t *testing.T) {
	w := DefaultWeights()
	slow := Counters{SessionSeconds: 1200, FieldsCompleted: 2, FieldsRequired: 12}
	slowButDone := Counters{SessionSeconds: 1200, FieldsCompleted: 11, FieldsRequired: 12}
	if Score(slow, w) <= Score(slowButDone, w) {
		t.Fatalf("long session with low completion should score higher: %v vs %v",
			Score(slow, w), Score(slowButDone, w))
	}
}

func TestAssessTiers(t *testing.T) {
	w := DefaultWeights()

	if iv := Assess(0.3, w); iv != nil {
		t.Fatalf("low score should not intervene: %+v", iv)
	}
	iv := Assess(0.6, w)
	if iv == nil || iv.Level != "medium" {
		t.Fatalf("expected medium intervention, got %+v", iv)
	}
	iv = Assess(0.8, w)
	if iv == nil || iv.Level != "high" || iv.Message == "" || len(iv.Actions) == 0 {
		t.Fatalf("expected high intervention, got %+v", iv)
	}
}
