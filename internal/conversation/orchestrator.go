package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/validate"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/metrics"
)

const apologyReply = "Sorry, the assistant is having trouble right now. Your progress is saved — please try again in a moment, or keep filling the form directly."

// Orchestrator turns a free-text utterance into a reply, a set of suggested
// quick actions and a validated record patch. It owns no decision logic
// beyond sequencing the model calls; the step engine decides progression.
//
// A nil model is a supported configuration: the orchestrator then answers
// with canned per-step guidance and extracts nothing.
type Orchestrator struct {
	model model.ToolCallingChatModel
}

func NewOrchestrator(m model.ToolCallingChatModel) *Orchestrator {
	return &Orchestrator{model: m}
}

// Result is the assembled response payload. Patch holds validated,
// normalized values; the caller applies it through the record pathway and
// then asks the engine whether to advance.
type Result struct {
	Reply   string             `json:"reply"`
	Actions []string           `json:"actions"`
	Intent  Intent             `json:"intent,omitempty"`
	Patch   merchant.Patch     `json:"patch,omitempty"`
	Issues  []validate.Outcome `json:"issues,omitempty"`
}

// Respond handles one user message against a session snapshot. Model
// failures degrade to an apology with an unchanged patch; they are logged
// and never propagated.
func (o *Orchestrator) Respond(ctx context.Context, step wizard.Step, rec *merchant.Record, text string) Result {
	if o.model == nil {
		metrics.AssistantCalls.WithLabelValues("fallback").Inc()
		return Result{
			Reply:   fallbackReply(step, rec),
			Actions: quickActions(step),
		}
	}

	intent, err := o.classifyIntent(ctx, text)
	if err != nil {
		logger.Warnf("conversation: intent classification failed: %v", err)
		intent = IntentProvideInfo
	}

	reply, err := o.generateReply(ctx, step, rec, text)
	if err != nil {
		logger.Errorf("conversation: reply generation failed: %v", err)
		metrics.AssistantCalls.WithLabelValues("error").Inc()
		return Result{Reply: apologyReply, Actions: quickActions(step), Intent: intent}
	}

	extracted := o.extractFields(ctx, text, reply)
	valid, issues := validate.Patch(extracted)
	for _, issue := range issues {
		metrics.ValidationFailures.WithLabelValues(issue.Field).Inc()
	}

	metrics.AssistantCalls.WithLabelValues("ok").Inc()
	return Result{
		Reply:   reply,
		Actions: quickActions(step),
		Intent:  intent,
		Patch:   valid,
		Issues:  issues,
	}
}

func (o *Orchestrator) generateReply(ctx context.Context, step wizard.Step, rec *merchant.Record, text string) (string, error) {
	systemPrompt := `You are the onboarding guide for a merchant payments platform. You help a small-business owner complete their application, one step at a time.
Rules:
- Answer briefly and concretely, in plain language.
- When the user states a detail (business name, PAN, GSTIN, phone, bank details, address), acknowledge it.
- If the user seems stuck, tell them exactly which detail the current step still needs.
- Never invent registry data or claim a document was verified.`

	var sb strings.Builder
	sb.WriteString("Current step: ")
	sb.WriteString(string(step))
	if missing := rec.MissingRequired(); len(missing) > 0 {
		sb.WriteString("\nStill needed: ")
		sb.WriteString(strings.Join(missing, ", "))
	}
	sb.WriteString("\nUser message: ")
	sb.WriteString(text)

	reply, err := o.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(sb.String()),
	})
	if err != nil {
		return "", err
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return "", fmt.Errorf("model returned empty reply")
	}
	return strings.TrimSpace(reply.Content), nil
}

// toolArguments finds the forced tool call in a model reply.
func toolArguments(msg *schema.Message, toolName string) string {
	if msg == nil {
		return ""
	}
	for _, call := range msg.ToolCalls {
		if strings.EqualFold(call.Function.Name, toolName) {
			return strings.TrimSpace(call.Function.Arguments)
		}
	}
	return ""
}

// quickActions are the per-step suggestions surfaced next to the reply.
func quickActions(step wizard.Step) []string {
	switch step {
	case wizard.StepWelcome:
		return []string{"tell_business_name", "how_does_this_work"}
	case wizard.StepBusinessInfo:
		return []string{"enter_owner_name", "enter_pan", "enter_gstin"}
	case wizard.StepDocumentUpload:
		return []string{"upload_business_proof", "upload_identity_proof", "upload_bank_proof"}
	case wizard.StepFormCompletion:
		return []string{"fill_missing_fields", "lookup_pincode", "lookup_ifsc"}
	case wizard.StepVerification, wizard.StepReview:
		return []string{"review_details", "submit_application"}
	case wizard.StepSubmitted:
		return []string{"check_status"}
	}
	return nil
}

// fallbackReply gives deterministic hand-holding when no model is wired.
func fallbackReply(step wizard.Step, rec *merchant.Record) string {
	switch step {
	case wizard.StepWelcome:
		return "Welcome! Let's get your business onboarded. What is your business called?"
	case wizard.StepBusinessInfo:
		if missing := rec.MissingRequired(); len(missing) > 0 {
			return "Thanks! Next I need the owner's name and your PAN or GSTIN."
		}
		return "Your business details look complete. Let's move on to documents."
	case wizard.StepDocumentUpload:
		return "Please upload your business proof, identity proof and a bank statement or cancelled cheque."
	case wizard.StepFormCompletion:
		missing := rec.MissingRequired()
		if len(missing) > 0 {
			return "Almost there. Still needed: " + strings.Join(missing, ", ") + "."
		}
		return "All fields are in. Let's verify your details."
	case wizard.StepVerification:
		return "We're verifying your details against the registries. This usually completes immediately."
	case wizard.StepReview:
		return "Please review your application and submit when you're ready."
	case wizard.StepSubmitted:
		return "Your application has been submitted. We'll be in touch shortly."
	}
	return "Let's continue with your onboarding."
}
