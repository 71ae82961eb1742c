package docs

import (
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
)

// fieldMap translates extracted document keys into canonical record fields,
// per category. Keys the OCR provider emits that have no mapping are kept on
// the document but never reach the record.
var fieldMap = map[Category]map[string]string{
	CategoryBusinessProof: {
		"business_name":    merchant.FieldBusinessName,
		"trade_name":       merchant.FieldBusinessName,
		"gstin":            merchant.FieldGSTIN,
		"pan":              merchant.FieldPAN,
		"registered_address": merchant.FieldAddressLine,
	},
	CategoryIdentityProof: {
		"name":          merchant.FieldOwnerName,
		"holder_name":   merchant.FieldOwnerName,
		"pan":           merchant.FieldPAN,
	},
	CategoryBankProof: {
		"account_number": merchant.FieldBankAccountNumber,
		"ifsc":           merchant.FieldIFSC,
		"bank_name":      merchant.FieldBankName,
		"holder_name":    merchant.FieldAccountHolderName,
	},
	CategoryAddressProof: {
		"address": merchant.FieldAddressLine,
		"city":    merchant.FieldCity,
		"state":   merchant.FieldState,
		"pincode": merchant.FieldPincode,
	},
}

// MapFields converts an extraction result into a record patch for the
// document's category. The patch carries no precedence itself; the record's
// Apply rules (machine sources only fill empty fields) decide what lands.
func MapFields(cat Category, extracted map[string]string) merchant.Patch {
	patch := merchant.Patch{}
	table, ok := fieldMap[cat]
	if !ok {
		return patch
	}
	for key, value := range extracted {
		if target, ok := table[key]; ok && value != "" {
			patch[target] = value
		}
	}
	return patch
}
