package merchant

import "strings"

// Source identifies who populated a record field. Precedence between sources
// is decided in Apply, not by callers.
type Source string

const (
	SourceUser       Source = "user"
	SourceDocument   Source = "document"
	SourceEnrichment Source = "enrichment"
	SourceAssistant  Source = "assistant"
)

// Canonical field names. Handlers, document mapping and LLM extraction all
// address the record through these keys.
const (
	FieldBusinessName      = "business_name"
	FieldLegalForm         = "legal_form"
	FieldGSTIN             = "gstin"
	FieldPAN               = "pan"
	FieldOwnerName         = "owner_name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldAddressLine       = "address_line"
	FieldCity              = "city"
	FieldState             = "state"
	FieldPincode           = "pincode"
	FieldBankAccountNumber = "bank_account_number"
	FieldIFSC              = "ifsc"
	FieldBankName          = "bank_name"
	FieldAccountHolderName = "account_holder_name"
	FieldAccountType       = "account_type"
	FieldBusinessCategory  = "business_category"
	FieldMonthlyVolume     = "monthly_volume"
	FieldAvgTicketSize     = "avg_ticket_size"
)

// LegalFormSoleProprietorship is the only legal form the wizard onboards.
const LegalFormSoleProprietorship = "sole_proprietorship"

// AccountTypes and BusinessCategories are the closed enums accepted for the
// corresponding fields.
var (
	AccountTypes       = []string{"current", "savings"}
	BusinessCategories = []string{
		"retail", "food_and_beverage", "services", "electronics",
		"fashion", "healthcare", "education", "travel", "other",
	}
)

// RequiredFields is the gate list for completing the form step: all of these
// must be non-empty before the wizard moves to verification.
var RequiredFields = []string{
	FieldBusinessName,
	FieldOwnerName,
	FieldEmail,
	FieldPhone,
	FieldPAN,
	FieldAddressLine,
	FieldCity,
	FieldState,
	FieldPincode,
	FieldBankAccountNumber,
	FieldIFSC,
	FieldBusinessCategory,
}

// Record is the merchant application being accumulated across the wizard.
// Sources tracks, per populated field, where the value came from.
type Record struct {
	BusinessName      string `json:"business_name,omitempty" bson:"business_name,omitempty"`
	LegalForm         string `json:"legal_form,omitempty" bson:"legal_form,omitempty"`
	GSTIN             string `json:"gstin,omitempty" bson:"gstin,omitempty"`
	PAN               string `json:"pan,omitempty" bson:"pan,omitempty"`
	OwnerName         string `json:"owner_name,omitempty" bson:"owner_name,omitempty"`
	Email             string `json:"email,omitempty" bson:"email,omitempty"`
	Phone             string `json:"phone,omitempty" bson:"phone,omitempty"`
	AddressLine       string `json:"address_line,omitempty" bson:"address_line,omitempty"`
	City              string `json:"city,omitempty" bson:"city,omitempty"`
	State             string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode           string `json:"pincode,omitempty" bson:"pincode,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty" bson:"bank_account_number,omitempty"`
	IFSC              string `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
	BankName          string `json:"bank_name,omitempty" bson:"bank_name,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty" bson:"account_holder_name,omitempty"`
	AccountType       string `json:"account_type,omitempty" bson:"account_type,omitempty"`
	BusinessCategory  string `json:"business_category,omitempty" bson:"business_category,omitempty"`
	MonthlyVolume     string `json:"monthly_volume,omitempty" bson:"monthly_volume,omitempty"`
	AvgTicketSize     string `json:"avg_ticket_size,omitempty" bson:"avg_ticket_size,omitempty"`

	Sources map[string]Source `json:"sources,omitempty" bson:"sources,omitempty"`
}

// Patch is a partial record keyed by canonical field name.
type Patch map[string]string

// NewRecord returns a record with the fixed legal form pre-set.
func NewRecord() Record {
	return Record{
		LegalForm: LegalFormSoleProprietorship,
		Sources:   map[string]Source{},
	}
}

func (r *Record) fieldRef(name string) *string {
	switch name {
	case FieldBusinessName:
		return &r.BusinessName
	case FieldLegalForm:
		return &r.LegalForm
	case FieldGSTIN:
		return &r.GSTIN
	case FieldPAN:
		return &r.PAN
	case FieldOwnerName:
		return &r.OwnerName
	case FieldEmail:
		return &r.Email
	case FieldPhone:
		return &r.Phone
	case FieldAddressLine:
		return &r.AddressLine
	case FieldCity:
		return &r.City
	case FieldState:
		return &r.State
	case FieldPincode:
		return &r.Pincode
	case FieldBankAccountNumber:
		return &r.BankAccountNumber
	case FieldIFSC:
		return &r.IFSC
	case FieldBankName:
		return &r.BankName
	case FieldAccountHolderName:
		return &r.AccountHolderName
	case FieldAccountType:
		return &r.AccountType
	case FieldBusinessCategory:
		return &r.BusinessCategory
	case FieldMonthlyVolume:
		return &r.MonthlyVolume
	case FieldAvgTicketSize:
		return &r.AvgTicketSize
	}
	return nil
}

// KnownField reports whether name is a canonical record field.
func KnownField(name string) bool {
	r := Record{}
	return r.fieldRef(name) != nil
}

// Get returns the current value of a canonical field, or "" for unknown names.
func (r *Record) Get(name string) string {
	if ref := r.fieldRef(name); ref != nil {
		return *ref
	}
	return ""
}

// Apply merges a patch into the record and returns the subset of fields that
// actually changed. Precedence:
//   - user values always overwrite (last-write-wins for direct edits);
//   - document/enrichment/assistant values only fill empty fields and never
//     replace a user-entered value (first-write-wins among machine sources).
//
// Unknown field names and empty values are ignored. PAN, GSTIN and IFSC are
// normalized to uppercase on the way in.
func (r *Record) Apply(p Patch, src Source) Patch {
	applied := Patch{}
	for name, value := range p {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		ref := r.fieldRef(name)
		if ref == nil {
			continue
		}
		switch name {
		case FieldPAN, FieldGSTIN, FieldIFSC:
			value = strings.ToUpper(value)
		}
		if src != SourceUser {
			if *ref != "" {
				continue
			}
		}
		if *ref == value {
			continue
		}
		*ref = value
		if r.Sources == nil {
			r.Sources = map[string]Source{}
		}
		r.Sources[name] = src
		applied[name] = value
	}
	return applied
}

// Completed returns how many of the required fields are populated, and the
// required total.
func (r *Record) Completed() (done, total int) {
	total = len(RequiredFields)
	for _, f := range RequiredFields {
		if r.Get(f) != "" {
			done++
		}
	}
	return done, total
}

// MissingRequired lists required fields that are still empty.
func (r *Record) MissingRequired() []string {
	var missing []string
	for _, f := range RequiredFields {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
