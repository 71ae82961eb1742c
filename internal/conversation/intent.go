package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Intent labels what the user is trying to do with a message.
type Intent string

const (
	IntentProvideInfo Intent = "provide_info"
	IntentAskHelp     Intent = "ask_help"
	IntentUpload      Intent = "upload_intent"
	IntentNavigate    Intent = "navigate"
	IntentSubmit      Intent = "submit"
	IntentSmalltalk   Intent = "smalltalk"
)

const intentToolName = "submit_onboarding_intent"

func intentTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: intentToolName,
		Desc: "Submit the classified intent of the merchant's message",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"intent": {
				Type: schema.String,
				Desc: "what the user is trying to do",
				Enum: []string{
					string(IntentProvideInfo), string(IntentAskHelp), string(IntentUpload),
					string(IntentNavigate), string(IntentSubmit), string(IntentSmalltalk),
				},
				Required: true,
			},
		}),
	}
}

// classifyIntent runs a tool-forced call and decodes the structured result.
// A missing or malformed payload falls back to provide_info.
func (o *Orchestrator) classifyIntent(ctx context.Context, text string) (Intent, error) {
	toolModel, err := o.model.WithTools([]*schema.ToolInfo{intentTool()})
	if err != nil {
		return IntentProvideInfo, fmt.Errorf("bind intent tool: %w", err)
	}

	systemPrompt := `Classify the merchant's message for an onboarding wizard. Call the tool ` + intentToolName + ` with the single best intent. Do not answer in text.`
	reply, err := toolModel.Generate(ctx,
		[]*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(text),
		},
		model.WithToolChoice(schema.ToolChoiceForced),
	)
	if err != nil {
		return IntentProvideInfo, err
	}

	payload := toolArguments(reply, intentToolName)
	if payload == "" {
		return IntentProvideInfo, fmt.Errorf("intent tool payload missing")
	}
	var decision struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(payload), &decision); err != nil {
		return IntentProvideInfo, fmt.Errorf("unmarshal intent decision: %w", err)
	}
	switch Intent(decision.Intent) {
	case IntentProvideInfo, IntentAskHelp, IntentUpload, IntentNavigate, IntentSubmit, IntentSmalltalk:
		return Intent(decision.Intent), nil
	}
	return IntentProvideInfo, nil
}
