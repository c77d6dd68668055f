package extraction

import (
	"fmt"

	"claimscan/internal/domain"
	"claimscan/internal/template"
	"claimscan/internal/transform"
)

// FieldExtractor applies one field definition to a document text.
type FieldExtractor struct {
	lib    *transform.Library
	scorer *Scorer
}

// NewFieldExtractor creates a FieldExtractor backed by lib.
func NewFieldExtractor(lib *transform.Library) *FieldExtractor {
	return &FieldExtractor{lib: lib, scorer: NewScorer(lib)}
}

// Extract tries the field's patterns in order and stops at the first one that
// captures a non-blank value. Later patterns are never evaluated, even when
// they would score higher.
//
// A pattern that cannot be used is recorded in PatternErrors and the next one
// is tried. The returned error is a field processing failure: the value was
// captured but its transformations could not produce a result. The result is
// non-nil in every case.
func (e *FieldExtractor) Extract(text string, f *template.FieldDefinition) (*domain.FieldExtractionResult, error) {
	result := &domain.FieldExtractionResult{PatternIndex: -1}

	for i, p := range f.Patterns {
		capture, ok, err := p.Find(text)
		if err != nil {
			result.PatternErrors = append(result.PatternErrors, fmt.Sprintf("pattern %d: %v", i, err))
			continue
		}
		if !ok {
			continue
		}

		raw := capture
		result.ExtractedValue = &raw
		result.PatternIndex = i

		value, err := e.lib.Apply(f.Transformations, capture)
		if err != nil {
			result.Error = err.Error()
			return result, fmt.Errorf("transforming field %s: %w", f.Name, err)
		}

		result.Matched = true
		result.TransformedValue = value
		result.Confidence = e.scorer.Score(value, f)
		return result, nil
	}

	return result, nil
}
