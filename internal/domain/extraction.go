package domain

import "time"

// FieldExtractionResult is the outcome of extracting a single field from a document.
// TransformedValue is nil and Confidence is 0 exactly when Matched is false.
// PatternIndex is -1 when no pattern matched.
type FieldExtractionResult struct {
	Matched          bool     `json:"matched"`
	ExtractedValue   *string  `json:"extracted_value"`
	TransformedValue any      `json:"transformed_value"`
	Confidence       float64  `json:"confidence"`
	PatternIndex     int      `json:"pattern_index"`
	PatternErrors    []string `json:"pattern_errors,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// FieldError records a field that could not be processed.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// VersionMatch is the layout version the detector believes produced a document.
type VersionMatch struct {
	VersionID       string   `json:"version_id"`
	TemplateID      string   `json:"template_id,omitempty"`
	Confidence      float64  `json:"confidence"`
	MatchedFeatures []string `json:"matched_features"`
	TotalFeatures   int      `json:"total_features"`
}

// DocumentExtraction is the aggregated result of running a template over one document.
type DocumentExtraction struct {
	TemplateID            string                            `json:"template_id"`
	TemplateVersion       string                            `json:"template_version"`
	Data                  map[string]any                    `json:"data"`
	DetectedVersionID     string                            `json:"detected_version_id"`
	VersionConfidence     float64                           `json:"version_confidence"`
	MatchedFeatureCount   int                               `json:"matched_feature_count"`
	TotalFeatureCount     int                               `json:"total_feature_count"`
	OverallConfidence     float64                           `json:"overall_confidence"`
	FieldsMatchedCount    int                               `json:"fields_matched_count"`
	TotalFieldsCount      int                               `json:"total_fields_count"`
	RequiredFieldsMissing []string                          `json:"required_fields_missing"`
	Errors                []FieldError                      `json:"errors"`
	Warnings              []string                          `json:"warnings"`
	PerFieldResults       map[string]*FieldExtractionResult `json:"per_field_results"`
	ProcessedAt           time.Time                         `json:"processed_at"`
}
