package docs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
)

func TestProcessBankProof(t *testing.T) {
	p := NewProcessor(nil)
	doc, err := p.Process(context.Background(), CategoryBankProof, "statement.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if doc.Status != StatusValid {
		t.Fatalf("status = %q issues=%v confidence=%v", doc.Status, doc.Issues, doc.Confidence)
	}
	if doc.Confidence <= 0.5 || doc.Confidence > 1 {
		t.Fatalf("confidence = %v", doc.Confidence)
	}
	if doc.ID == "" || doc.CreatedAt.IsZero() {
		t.Fatalf("document identity not set: %+v", doc)
	}

	patch := MapFields(doc.Category, doc.Fields)
	if patch[merchant.FieldIFSC] != "HDFC0001234" || patch[merchant.FieldBankAccountNumber] != "123456789012" {
		t.Fatalf("mapped patch = %v", patch)
	}
}

func TestProcessUnknownCategory(t *testing.T) {
	p := NewProcessor(nil)
	if _, err := p.Process(context.Background(), Category("selfie"), "x.jpg", nil); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestProcessLowConfidence(t *testing.T) {
	p := NewProcessor(&MockExtractor{Canned: map[Category]map[string]string{
		CategoryBusinessProof: {"business_name": "ABC Traders"}, // missing gstin, pan, address
	}})
	doc, err := p.Process(context.Background(), CategoryBusinessProof, "b.jpg", nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if doc.Status != StatusInvalid {
		t.Fatalf("expected invalid status, got %q (%v)", doc.Status, doc.Confidence)
	}
	if len(doc.Issues) == 0 {
		t.Fatalf("expected issues for missing keys")
	}
}

func TestProcessMalformedValueLowersConfidence(t *testing.T) {
	good := NewProcessor(nil)
	bad := NewProcessor(&MockExtractor{Canned: map[Category]map[string]string{
		CategoryBankProof: {
			"account_number": "12", // too short
			"ifsc":           "HDFC0001234",
			"bank_name":      "HDFC Bank",
			"holder_name":    "Asha Patel",
		},
	}})
	g, _ := good.Process(context.Background(), CategoryBankProof, "a", nil)
	b, _ := bad.Process(context.Background(), CategoryBankProof, "a", nil)
	if b.Confidence >= g.Confidence {
		t.Fatalf("malformed value should lower confidence: %v >= %v", b.Confidence, g.Confidence)
	}
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, Category, string, []byte) (map[string]string, error) {
	return nil, errors.New("ocr provider down")
}

func TestProcessExtractorFailureDegrades(t *testing.T) {
	p := NewProcessor(failingExtractor{})
	doc, err := p.Process(context.Background(), CategoryIdentityProof, "id.jpg", nil)
	if err != nil {
		t.Fatalf("provider failure must not surface as an error: %v", err)
	}
	if doc.Status != StatusInvalid || doc.Confidence != 0 || len(doc.Issues) == 0 {
		t.Fatalf("degraded document = %+v", doc)
	}
}

func TestMapFieldsIdempotentInput(t *testing.T) {
	fields := map[string]string{"name": "Asha Patel", "pan": "ABCDE1234F", "noise": "x"}
	p1 := MapFields(CategoryIdentityProof, fields)
	p2 := MapFields(CategoryIdentityProof, fields)
	if !reflect.DeepEqual(p1, p2) {
		t.Fatalf("mapping not deterministic: %v vs %v", p1, p2)
	}
	if _, ok := p1["noise"]; ok {
		t.Fatalf("unmapped key leaked into patch: %v", p1)
	}
}

func TestMandatoryUploaded(t *testing.T) {
	uploads := []UploadedDocument{
		{Category: CategoryBusinessProof, Status: StatusInvalid},
		{Category: CategoryBankProof, Status: StatusInvalid},
	}
	done, total := MandatoryUploaded(uploads)
	if done != 2 || total != 3 {
		t.Fatalf("mandatory = %d/%d", done, total)
	}
	if HasCategory(uploads, CategoryIdentityProof) {
		t.Fatalf("identity proof should be missing")
	}
}
