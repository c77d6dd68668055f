// Package template defines rental-agreement extraction templates, the registry
// that resolves them, and the detector that guesses which layout produced a text.
package template

import "claimscan/internal/domain"

// FieldDefinition is the extraction rule bundle for one data point.
// Patterns are tried in order and the first match wins, so authors list the
// most specific pattern first.
type FieldDefinition struct {
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Description     string    `json:"description"`
	Required        bool      `json:"required"`
	Patterns        []Pattern `json:"patterns"`
	Transformations []string  `json:"transformations"`
	Validations     []string  `json:"validations"`
}

// TemplateDefinition describes one document layout family. Fields keep their
// declaration order, which is also the extraction order.
type TemplateDefinition struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	ParentID    string            `json:"parent_id,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
}

// Field returns the field with the given name.
func (t *TemplateDefinition) Field(name string) (*FieldDefinition, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// VersionSignature identifies a known layout variant.
type VersionSignature struct {
	ID         string   `json:"id"`
	Body       Pattern  `json:"body_pattern"`
	Weight     float64  `json:"weight"`
	Features   []string `json:"feature_field_names"`
	TemplateID string   `json:"template_id,omitempty"`
}

// ResolvedTemplate is a template with its parent merged in and, when a text was
// supplied, the detected layout version attached.
type ResolvedTemplate struct {
	TemplateDefinition
	DetectedVersion *domain.VersionMatch `json:"detected_version,omitempty"`
}
