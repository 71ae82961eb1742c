package wizard

// Step is one stage of the linear onboarding sequence.
type Step string

const (
	StepWelcome        Step = "welcome"
	StepBusinessInfo   Step = "business_info"
	StepDocumentUpload Step = "document_upload"
	StepFormCompletion Step = "form_completion"
	StepVerification   Step = "verification"
	StepReview         Step = "review"
	StepSubmitted      Step = "submitted"
)

// Order defines the strict forward progression. The engine never moves a
// session backward; backward navigation is a direct user overwrite.
var Order = []Step{
	StepWelcome,
	StepBusinessInfo,
	StepDocumentUpload,
	StepFormCompletion,
	StepVerification,
	StepReview,
	StepSubmitted,
}

// Index returns the position of s in the progression, or -1 for unknown steps.
func (s Step) Index() int {
	for i, step := range Order {
		if step == s {
			return i
		}
	}
	return -1
}

// Before reports whether s comes strictly before other.
func (s Step) Before(other Step) bool {
	return s.Index() < other.Index()
}

// Valid reports whether s is a defined step.
func (s Step) Valid() bool { return s.Index() >= 0 }
