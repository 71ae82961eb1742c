package wizard

import (
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/docs"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/validate"
)

// gate returns true when the transition out of a step may fire. Gates are
// static field-presence predicates over the accumulated record and uploads.
type gate func(rec *merchant.Record, uploads []docs.UploadedDocument) bool

var gates = map[Step]gate{
	StepWelcome: func(rec *merchant.Record, _ []docs.UploadedDocument) bool {
		return rec.BusinessName != ""
	},
	StepBusinessInfo: func(rec *merchant.Record, _ []docs.UploadedDocument) bool {
		return rec.BusinessName != "" && rec.OwnerName != "" &&
			(rec.GSTIN != "" || rec.PAN != "")
	},
	StepDocumentUpload: func(_ *merchant.Record, uploads []docs.UploadedDocument) bool {
		// presence gates this transition, not validation status
		done, total := docs.MandatoryUploaded(uploads)
		return done == total
	},
	StepFormCompletion: func(rec *merchant.Record, _ []docs.UploadedDocument) bool {
		done, total := rec.Completed()
		return done == total
	},
	// the verification step's checks are delegated to external registries and
	// cannot fail in this design, so it always advances
	StepVerification: func(*merchant.Record, []docs.UploadedDocument) bool {
		return true
	},
	// review → submitted only fires on an explicit submit (see Submit)
}

// Advance evaluates the gates from the current step and returns the furthest
// step reached. Called after every record or document mutation. Strictly
// forward-only: data for a later step is stored but the pointer holds until
// every earlier gate is satisfied. A single patch may open several gates, so
// gates run to a fixed point.
func Advance(cur Step, rec *merchant.Record, uploads []docs.UploadedDocument) Step {
	if !cur.Valid() {
		cur = StepWelcome
	}
	for {
		g, ok := gates[cur]
		if !ok || !g(rec, uploads) {
			return cur
		}
		next := Order[cur.Index()+1]
		if next == StepSubmitted {
			// explicit submit only
			return cur
		}
		cur = next
	}
}

// Submit attempts the final review → submitted transition. It re-validates
// every required field and only accepts when the session sits at review, the
// terms were accepted, and no outstanding issues remain.
func Submit(cur Step, rec *merchant.Record, acceptTerms bool) (Step, []validate.Outcome, bool) {
	var issues []validate.Outcome
	for _, f := range merchant.RequiredFields {
		if out := validate.Field(f, rec.Get(f)); !out.Valid {
			issues = append(issues, out)
		}
	}
	if cur != StepReview || !acceptTerms || len(issues) > 0 {
		return cur, issues, false
	}
	return StepSubmitted, nil, true
}

// Progress is the caller-facing snapshot of how far a session has come.
type Progress struct {
	CurrentStep       Step    `json:"current_step"`
	CompletedSteps    []Step  `json:"completed_steps"`
	PercentComplete   float64 `json:"percent_complete"`
	FieldsCompleted   int     `json:"fields_completed"`
	FieldsRequired    int     `json:"fields_required"`
	DocumentsUploaded int     `json:"documents_uploaded"`
	DocumentsRequired int     `json:"documents_required"`
}

// Report computes the progress payload for a session snapshot.
func Report(cur Step, rec *merchant.Record, uploads []docs.UploadedDocument) Progress {
	idx := cur.Index()
	if idx < 0 {
		idx = 0
	}
	completed := make([]Step, 0, idx)
	for _, s := range Order[:idx] {
		completed = append(completed, s)
	}

	fieldsDone, fieldsTotal := rec.Completed()
	docsDone, docsTotal := docs.MandatoryUploaded(uploads)

	return Progress{
		CurrentStep:       cur,
		CompletedSteps:    completed,
		PercentComplete:   float64(idx) / float64(len(Order)-1) * 100,
		FieldsCompleted:   fieldsDone,
		FieldsRequired:    fieldsTotal,
		DocumentsUploaded: docsDone,
		DocumentsRequired: docsTotal,
	}
}
