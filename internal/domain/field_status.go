package domain

// FieldValidationStatus is the review state derived for a single extracted field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusMissing FieldValidationStatus = "missing"
	FieldStatusError   FieldValidationStatus = "error"
)
