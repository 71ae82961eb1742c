package docs

import "context"

// Extractor abstracts the external OCR/entity-extraction provider.
type Extractor interface {
	Extract(ctx context.Context, cat Category, fileName string, data []byte) (map[string]string, error)
}

// MockExtractor stands in for the OCR provider. It returns canned extractions
// per category, deterministic for a given input, which keeps the upload
// pathway exercisable end to end without the provider.
type MockExtractor struct {
	// Canned overrides the built-in extraction per category when set.
	Canned map[Category]map[string]string
}

var defaultExtractions = map[Category]map[string]string{
	CategoryBusinessProof: {
		"business_name":      "ABC Traders",
		"gstin":              "27ABCDE1234F1Z5",
		"pan":                "ABCDE1234F",
		"registered_address": "14 MG Road",
	},
	CategoryIdentityProof: {
		"name": "Asha Patel",
		"pan":  "ABCDE1234F",
	},
	CategoryBankProof: {
		"account_number": "123456789012",
		"ifsc":           "HDFC0001234",
		"bank_name":      "HDFC Bank",
		"holder_name":    "Asha Patel",
	},
	CategoryAddressProof: {
		"address": "14 MG Road",
		"city":    "Pune",
		"state":   "Maharashtra",
		"pincode": "411001",
	},
}

func (m *MockExtractor) Extract(_ context.Context, cat Category, _ string, _ []byte) (map[string]string, error) {
	src := defaultExtractions
	if m != nil && m.Canned != nil {
		src = m.Canned
	}
	fields, ok := src[cat]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, nil
}
