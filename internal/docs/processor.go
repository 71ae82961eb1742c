package docs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/validate"
)

// expectedKeys drive the confidence heuristic: how much of what we expect the
// provider to find for a category actually came back. The starred key is the
// one the category exists to prove; missing it halves the score.
var expectedKeys = map[Category][]string{
	CategoryBusinessProof: {"business_name", "gstin", "pan", "registered_address"},
	CategoryIdentityProof: {"name", "pan"},
	CategoryBankProof:     {"account_number", "ifsc", "bank_name", "holder_name"},
	CategoryAddressProof:  {"address", "city", "state", "pincode"},
}

var keyField = map[Category]string{
	CategoryBusinessProof: "gstin",
	CategoryIdentityProof: "pan",
	CategoryBankProof:     "account_number",
	CategoryAddressProof:  "pincode",
}

const invalidThreshold = 0.5

// Processor runs one upload through extraction, confidence scoring and field
// mapping. It owns no storage; the session service persists the result.
type Processor struct {
	extractor Extractor
}

func NewProcessor(e Extractor) *Processor {
	if e == nil {
		e = &MockExtractor{}
	}
	return &Processor{extractor: e}
}

// Process extracts fields from an upload and scores the result. The returned
// document is final: it is never re-validated after later record edits.
func (p *Processor) Process(ctx context.Context, cat Category, fileName string, data []byte) (UploadedDocument, error) {
	doc := UploadedDocument{
		ID:        uuid.NewString(),
		Category:  cat,
		FileName:  fileName,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if !ValidCategory(cat) {
		return doc, fmt.Errorf("unknown document category %q", cat)
	}

	fields, err := p.extractor.Extract(ctx, cat, fileName, data)
	if err != nil {
		// provider failure degrades to an empty extraction, not an error
		doc.Fields = map[string]string{}
		doc.Confidence = 0
		doc.Status = StatusInvalid
		doc.Issues = []string{"extraction failed, please upload a clearer copy"}
		return doc, nil
	}
	doc.Fields = fields

	confidence, issues := score(cat, fields)
	doc.Confidence = confidence
	doc.Issues = issues
	if confidence < invalidThreshold {
		doc.Status = StatusInvalid
	} else {
		doc.Status = StatusValid
	}
	return doc, nil
}

// score is the document confidence heuristic: coverage of expected keys,
// weighted down by format failures on the values and by a missing key field.
func score(cat Category, fields map[string]string) (float64, []string) {
	expected := expectedKeys[cat]
	if len(expected) == 0 {
		return 0, []string{"unrecognized document category"}
	}

	var issues []string
	found := 0
	for _, key := range expected {
		if fields[key] == "" {
			issues = append(issues, fmt.Sprintf("could not read %s from the document", key))
			continue
		}
		found++
	}
	confidence := float64(found) / float64(len(expected))

	// format-check the extracted values that map onto validated record fields
	for key, target := range fieldMap[cat] {
		value := fields[key]
		if value == "" {
			continue
		}
		if out := validate.Field(target, value); !out.Valid && out.Severity == validate.SeverityError {
			confidence -= 0.15
			issues = append(issues, fmt.Sprintf("%s looks malformed: %s", key, out.Error))
		}
	}

	if fields[keyField[cat]] == "" {
		confidence *= 0.5
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence, issues
}
