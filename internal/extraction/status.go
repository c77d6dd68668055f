package extraction

import (
	"claimscan/internal/domain"
)

// FieldStatus is the review state of one extracted field.
type FieldStatus struct {
	Status     domain.FieldValidationStatus `json:"status"`
	Confidence float64                      `json:"confidence"`
	Messages   []string                     `json:"messages"`
}

// ComputeFieldStatuses derives a review status for every field of doc.
// Matched fields at or below unsureBelow confidence are unsure.
func ComputeFieldStatuses(doc *domain.DocumentExtraction, unsureBelow float64) map[string]*FieldStatus {
	failed := make(map[string]string, len(doc.Errors))
	for _, e := range doc.Errors {
		failed[e.Field] = e.Error
	}

	statuses := make(map[string]*FieldStatus, len(doc.PerFieldResults))
	for name, r := range doc.PerFieldResults {
		fs := &FieldStatus{Confidence: r.Confidence, Messages: []string{}}
		fs.Messages = append(fs.Messages, r.PatternErrors...)

		switch msg, isErr := failed[name]; {
		case isErr:
			fs.Status = domain.FieldStatusError
			fs.Messages = append(fs.Messages, msg)
		case !r.Matched:
			fs.Status = domain.FieldStatusMissing
		case r.Confidence <= unsureBelow:
			fs.Status = domain.FieldStatusUnsure
		default:
			fs.Status = domain.FieldStatusValid
		}
		statuses[name] = fs
	}
	return statuses
}
