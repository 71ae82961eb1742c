package docs

import "time"

// Category classifies an uploaded KYC document.
type Category string

const (
	CategoryBusinessProof Category = "business_proof"
	CategoryIdentityProof Category = "identity_proof"
	CategoryBankProof     Category = "bank_proof"
	CategoryAddressProof  Category = "address_proof"
)

// MandatoryCategories gate the document_upload step. Presence is what counts,
// not validation status.
var MandatoryCategories = []Category{
	CategoryBusinessProof,
	CategoryIdentityProof,
	CategoryBankProof,
}

// ValidCategory reports whether c is an accepted upload category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryBusinessProof, CategoryIdentityProof, CategoryBankProof, CategoryAddressProof:
		return true
	}
	return false
}

// Status is the verdict of the extraction confidence check.
type Status string

const (
	StatusPending Status = "pending"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// UploadedDocument is one processed upload. Immutable once created; later
// record edits never trigger re-validation.
type UploadedDocument struct {
	ID         string            `json:"id" bson:"id"`
	Category   Category          `json:"category" bson:"category"`
	FileName   string            `json:"file_name,omitempty" bson:"file_name,omitempty"`
	ObjectKey  string            `json:"object_key,omitempty" bson:"object_key,omitempty"`
	Fields     map[string]string `json:"fields" bson:"fields"`
	Confidence float64           `json:"confidence" bson:"confidence"`
	Status     Status            `json:"status" bson:"status"`
	Issues     []string          `json:"issues,omitempty" bson:"issues,omitempty"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
}

// HasCategory reports whether uploads contains at least one document of cat.
func HasCategory(uploads []UploadedDocument, cat Category) bool {
	for _, d := range uploads {
		if d.Category == cat {
			return true
		}
	}
	return false
}

// MandatoryUploaded counts how many mandatory categories are covered.
func MandatoryUploaded(uploads []UploadedDocument) (done, total int) {
	total = len(MandatoryCategories)
	for _, cat := range MandatoryCategories {
		if HasCategory(uploads, cat) {
			done++
		}
	}
	return done, total
}
