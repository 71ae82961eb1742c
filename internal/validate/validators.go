package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
)

// Severity classifies a validation outcome for the caller's UI.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Outcome is the result of validating a single field. Validators are total:
// they never return an error value of their own, invalid input always comes
// back as Valid=false with a message and suggestion.
type Outcome struct {
	Field      string   `json:"field"`
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Severity   Severity `json:"severity"`
	Normalized string   `json:"normalized,omitempty"`
}

var (
	panRe     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinRe   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]$`)
	ifscRe    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	emailRe   = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	phoneTrim = regexp.MustCompile(`[\s\-().+]`)
	acctTrim  = regexp.MustCompile(`[\s\-]`)
)

func ok(field, normalized string) Outcome {
	return Outcome{Field: field, Valid: true, Severity: SeverityInfo, Normalized: normalized}
}

func fail(field, msg, suggestion string) Outcome {
	return Outcome{Field: field, Valid: false, Error: msg, Suggestion: suggestion, Severity: SeverityError}
}

// Field validates a single raw value against the rule registered for the
// canonical field name. Fields without a dedicated rule only get a presence
// check (info severity) so callers can validate any record field uniformly.
func Field(name, raw string) Outcome {
	switch name {
	case merchant.FieldPAN:
		return pan(raw)
	case merchant.FieldGSTIN:
		return gstin(raw)
	case merchant.FieldPhone:
		return phone(raw)
	case merchant.FieldEmail:
		return email(raw)
	case merchant.FieldPincode:
		return pincode(raw)
	case merchant.FieldIFSC:
		return ifsc(raw)
	case merchant.FieldBankAccountNumber:
		return accountNumber(raw)
	case merchant.FieldAccountType:
		return oneOf(name, raw, merchant.AccountTypes)
	case merchant.FieldBusinessCategory:
		return oneOf(name, raw, merchant.BusinessCategories)
	}
	if strings.TrimSpace(raw) == "" {
		return Outcome{Field: name, Valid: false, Error: "value is required", Severity: SeverityInfo}
	}
	return ok(name, strings.TrimSpace(raw))
}

func pan(raw string) Outcome {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if len(v) != 10 {
		return fail(merchant.FieldPAN,
			fmt.Sprintf("PAN must be exactly 10 characters, got %d", len(v)),
			"use the format 5 letters, 4 digits, 1 letter, e.g. ABCDE1234F")
	}
	if !panRe.MatchString(v) {
		return fail(merchant.FieldPAN,
			"PAN format is invalid",
			"use the format 5 letters, 4 digits, 1 letter, e.g. ABCDE1234F")
	}
	return ok(merchant.FieldPAN, v)
}

func gstin(raw string) Outcome {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if len(v) != 15 {
		return fail(merchant.FieldGSTIN,
			fmt.Sprintf("GSTIN must be exactly 15 characters, got %d", len(v)),
			"e.g. 27ABCDE1234F1Z5 (2-digit state code + PAN + entity code + Z + check digit)")
	}
	if !gstinRe.MatchString(v) {
		return fail(merchant.FieldGSTIN,
			"GSTIN format is invalid",
			"e.g. 27ABCDE1234F1Z5 (2-digit state code + PAN + entity code + Z + check digit)")
	}
	return ok(merchant.FieldGSTIN, v)
}

func phone(raw string) Outcome {
	v := phoneTrim.ReplaceAllString(raw, "")
	if !digitsRe.MatchString(v) || len(v) != 10 {
		return fail(merchant.FieldPhone,
			"phone number must be exactly 10 digits",
			"enter a 10-digit Indian mobile number, e.g. 9876543210")
	}
	switch v[0] {
	case '6', '7', '8', '9':
		return ok(merchant.FieldPhone, v)
	}
	return fail(merchant.FieldPhone,
		"phone number must start with 6, 7, 8 or 9",
		"enter a 10-digit Indian mobile number, e.g. 9876543210")
}

func email(raw string) Outcome {
	v := strings.TrimSpace(raw)
	if !emailRe.MatchString(v) {
		return fail(merchant.FieldEmail,
			"email address is not valid",
			"use the form name@example.com")
	}
	return ok(merchant.FieldEmail, v)
}

func pincode(raw string) Outcome {
	v := strings.TrimSpace(raw)
	if len(v) != 6 || !digitsRe.MatchString(v) || v[0] == '0' {
		return fail(merchant.FieldPincode,
			"PIN code must be 6 digits and cannot start with 0",
			"e.g. 400001")
	}
	return ok(merchant.FieldPincode, v)
}

func ifsc(raw string) Outcome {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if len(v) != 11 {
		return fail(merchant.FieldIFSC,
			fmt.Sprintf("IFSC must be exactly 11 characters, got %d", len(v)),
			"4 bank letters, a zero, then 6 characters, e.g. HDFC0001234")
	}
	if !ifscRe.MatchString(v) {
		return fail(merchant.FieldIFSC,
			"IFSC format is invalid",
			"4 bank letters, a zero, then 6 characters, e.g. HDFC0001234")
	}
	return ok(merchant.FieldIFSC, v)
}

func accountNumber(raw string) Outcome {
	v := acctTrim.ReplaceAllString(raw, "")
	if !digitsRe.MatchString(v) || len(v) < 9 || len(v) > 18 {
		return fail(merchant.FieldBankAccountNumber,
			"account number must be 9 to 18 digits",
			"digits only, spaces and hyphens are stripped automatically")
	}
	return ok(merchant.FieldBankAccountNumber, v)
}

func oneOf(field, raw string, allowed []string) Outcome {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if v == a {
			return ok(field, v)
		}
	}
	return fail(field,
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
		"pick one of the listed values")
}

// Patch validates every entry of a patch, returning outcomes for the invalid
// ones and a cleaned patch of normalized valid values. Used by the document
// and conversation pathways so bad extracted data never reaches the record.
func Patch(p merchant.Patch) (valid merchant.Patch, issues []Outcome) {
	valid = merchant.Patch{}
	for name, value := range p {
		out := Field(name, value)
		if !out.Valid {
			issues = append(issues, out)
			continue
		}
		valid[name] = out.Normalized
	}
	return valid, issues
}
