package conversation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
)

const extractToolName = "submit_extracted_fields"

// extractedFields is the strict schema for the extraction tool call. Typed
// string fields so any shape mismatch from the model (numbers, nesting,
// stray keys) fails the decode and yields an empty extraction rather than a
// crash or a polluted patch.
type extractedFields struct {
	BusinessName      string `json:"business_name,omitempty"`
	GSTIN             string `json:"gstin,omitempty"`
	PAN               string `json:"pan,omitempty"`
	OwnerName         string `json:"owner_name,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	AddressLine       string `json:"address_line,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Pincode           string `json:"pincode,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	IFSC              string `json:"ifsc,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	AccountType       string `json:"account_type,omitempty"`
	BusinessCategory  string `json:"business_category,omitempty"`
	MonthlyVolume     string `json:"monthly_volume,omitempty"`
	AvgTicketSize     string `json:"avg_ticket_size,omitempty"`
}

func (e extractedFields) patch() merchant.Patch {
	p := merchant.Patch{}
	put := func(field, value string) {
		if strings.TrimSpace(value) != "" {
			p[field] = strings.TrimSpace(value)
		}
	}
	put(merchant.FieldBusinessName, e.BusinessName)
	put(merchant.FieldGSTIN, e.GSTIN)
	put(merchant.FieldPAN, e.PAN)
	put(merchant.FieldOwnerName, e.OwnerName)
	put(merchant.FieldEmail, e.Email)
	put(merchant.FieldPhone, e.Phone)
	put(merchant.FieldAddressLine, e.AddressLine)
	put(merchant.FieldCity, e.City)
	put(merchant.FieldState, e.State)
	put(merchant.FieldPincode, e.Pincode)
	put(merchant.FieldBankAccountNumber, e.BankAccountNumber)
	put(merchant.FieldIFSC, e.IFSC)
	put(merchant.FieldAccountHolderName, e.AccountHolderName)
	put(merchant.FieldAccountType, e.AccountType)
	put(merchant.FieldBusinessCategory, e.BusinessCategory)
	put(merchant.FieldMonthlyVolume, e.MonthlyVolume)
	put(merchant.FieldAvgTicketSize, e.AvgTicketSize)
	return p
}

func extractTool() *schema.ToolInfo {
	fields := map[string]*schema.ParameterInfo{
		"business_name":       {Type: schema.String, Desc: "registered or trade name of the business"},
		"gstin":               {Type: schema.String, Desc: "15-character GST identification number"},
		"pan":                 {Type: schema.String, Desc: "10-character PAN"},
		"owner_name":          {Type: schema.String, Desc: "full name of the owner"},
		"email":               {Type: schema.String, Desc: "contact email"},
		"phone":               {Type: schema.String, Desc: "10-digit mobile number"},
		"address_line":        {Type: schema.String, Desc: "street address"},
		"city":                {Type: schema.String, Desc: "city"},
		"state":               {Type: schema.String, Desc: "state"},
		"pincode":             {Type: schema.String, Desc: "6-digit PIN code"},
		"bank_account_number": {Type: schema.String, Desc: "bank account number"},
		"ifsc":                {Type: schema.String, Desc: "11-character IFSC"},
		"account_holder_name": {Type: schema.String, Desc: "name on the bank account"},
		"account_type":        {Type: schema.String, Desc: "current or savings", Enum: merchant.AccountTypes},
		"business_category":   {Type: schema.String, Desc: "business category", Enum: merchant.BusinessCategories},
		"monthly_volume":      {Type: schema.String, Desc: "estimated monthly volume"},
		"avg_ticket_size":     {Type: schema.String, Desc: "estimated average transaction size"},
	}
	return &schema.ToolInfo{
		Name:        extractToolName,
		Desc:        "Submit merchant record fields explicitly mentioned in the conversation. Omit anything the user did not state.",
		ParamsOneOf: schema.NewParamsOneOfByParams(fields),
	}
}

// extractFields asks the model to pull structured fields out of the exchange.
// Best effort: any failure or shape mismatch yields an empty patch.
func (o *Orchestrator) extractFields(ctx context.Context, userText, replyText string) merchant.Patch {
	toolModel, err := o.model.WithTools([]*schema.ToolInfo{extractTool()})
	if err != nil {
		logger.Warnf("conversation: bind extraction tool: %v", err)
		return merchant.Patch{}
	}

	systemPrompt := `Extract merchant application fields from the exchange below. Call the tool ` + extractToolName + ` with only the fields the user explicitly stated. Never guess or fill placeholders. Do not answer in text.`
	var sb strings.Builder
	sb.WriteString("User: ")
	sb.WriteString(userText)
	sb.WriteString("\nAssistant: ")
	sb.WriteString(replyText)

	reply, err := toolModel.Generate(ctx,
		[]*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(sb.String()),
		},
		model.WithToolChoice(schema.ToolChoiceForced),
	)
	if err != nil {
		logger.Warnf("conversation: field extraction failed: %v", err)
		return merchant.Patch{}
	}

	return decodeExtraction(toolArguments(reply, extractToolName))
}

// decodeExtraction strictly decodes the tool payload. Unknown keys or wrong
// types invalidate the whole extraction.
func decodeExtraction(payload string) merchant.Patch {
	if payload == "" {
		return merchant.Patch{}
	}
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	var fields extractedFields
	if err := dec.Decode(&fields); err != nil {
		logger.Warnf("conversation: extraction payload rejected: %v", err)
		return merchant.Patch{}
	}
	return fields.patch()
}
