package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
)

// fakeChatModel answers tool-bound calls with a canned tool payload and plain
// calls with a canned reply. failAll makes every call error.
type fakeChatModel struct {
	boundTool string
	toolArgs  map[string]string
	reply     string
	failAll   bool
}

func (f *fakeChatModel) Generate(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.failAll {
		return nil, fmt.Errorf("upstream unavailable")
	}
	if f.boundTool != "" {
		return &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				{Function: schema.FunctionCall{Name: f.boundTool, Arguments: f.toolArgs[f.boundTool]}},
			},
		}, nil
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return nil, fmt.Errorf("no tools")
	}
	clone := *f
	clone.boundTool = tools[0].Name
	return &clone, nil
}

func TestRespondExtractsValidatedPatch(t *testing.T) {
	fake := &fakeChatModel{
		reply: "Got it, ABC Traders. What is your PAN?",
		toolArgs: map[string]string{
			intentToolName:  `{"intent":"provide_info"}`,
			extractToolName: `{"business_name":"ABC Traders","pan":"abcde1234f","phone":"12345"}`,
		},
	}
	o := NewOrchestrator(fake)

	rec := merchant.NewRecord()
	res := o.Respond(context.Background(), wizard.StepBusinessInfo, &rec, "My shop is ABC Traders, PAN abcde1234f, phone 12345")

	require.Equal(t, IntentProvideInfo, res.Intent)
	require.Equal(t, "Got it, ABC Traders. What is your PAN?", res.Reply)
	require.Equal(t, "ABC Traders", res.Patch[merchant.FieldBusinessName])
	require.Equal(t, "ABCDE1234F", res.Patch[merchant.FieldPAN])
	require.NotContains(t, res.Patch, merchant.FieldPhone)

	var phoneIssue bool
	for _, issue := range res.Issues {
		if issue.Field == merchant.FieldPhone {
			phoneIssue = true
			require.NotEmpty(t, issue.Error)
		}
	}
	require.True(t, phoneIssue)
}

func TestRespondModelFailureApologizes(t *testing.T) {
	o := NewOrchestrator(&fakeChatModel{failAll: true})

	rec := merchant.NewRecord()
	res := o.Respond(context.Background(), wizard.StepFormCompletion, &rec, "help")

	require.Equal(t, apologyReply, res.Reply)
	require.Empty(t, res.Patch)
	require.NotEmpty(t, res.Actions)
}

func TestRespondNilModelFallsBack(t *testing.T) {
	o := NewOrchestrator(nil)

	rec := merchant.NewRecord()
	res := o.Respond(context.Background(), wizard.StepWelcome, &rec, "hi")

	require.Contains(t, res.Reply, "Welcome")
	require.Empty(t, res.Patch)
	require.Equal(t, []string{"tell_business_name", "how_does_this_work"}, res.Actions)
}

func TestDecodeExtractionRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unknown key", `{"business_name":"X","shoe_size":"9"}`},
		{"wrong type", `{"pincode":411001}`},
		{"not json", `pincode=411001`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, decodeExtraction(tt.payload))
		})
	}
}

func TestDecodeExtractionTrimsAndDropsEmpty(t *testing.T) {
	p := decodeExtraction(`{"city":"  Pune ","state":""}`)
	require.Equal(t, merchant.Patch{merchant.FieldCity: "Pune"}, p)
}
