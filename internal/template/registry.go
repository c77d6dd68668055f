package template

import (
	"fmt"

	"claimscan/internal/domain"
	"claimscan/internal/transform"
)

// Registry is the read-only catalog of templates. It is built once at startup
// and safe for concurrent use afterwards.
type Registry struct {
	templates map[string]*TemplateDefinition
	order     []string
	detector  *Detector
}

// NewRegistry validates the definitions and signatures and builds a Registry.
// baseID names the template whose first patterns the detector uses for
// feature checks.
func NewRegistry(lib *transform.Library, defs []TemplateDefinition, signatures []VersionSignature, baseID string) (*Registry, error) {
	r := &Registry{templates: make(map[string]*TemplateDefinition, len(defs))}

	for i := range defs {
		def := &defs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("%w: template at index %d has no id", domain.ErrInvalidTemplate, i)
		}
		if _, dup := r.templates[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", domain.ErrInvalidTemplate, def.ID)
		}
		if err := validateFields(lib, def); err != nil {
			return nil, err
		}
		r.templates[def.ID] = def
		r.order = append(r.order, def.ID)
	}

	for _, id := range r.order {
		def := r.templates[id]
		if def.ParentID == "" {
			continue
		}
		parent, ok := r.templates[def.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: template %q extends unknown template %q", domain.ErrInvalidTemplate, id, def.ParentID)
		}
		if parent.ParentID != "" {
			return nil, fmt.Errorf("%w: template %q extends %q which itself has a parent", domain.ErrInvalidTemplate, id, def.ParentID)
		}
	}

	base, ok := r.templates[baseID]
	if !ok {
		return nil, fmt.Errorf("%w: base template %q is not registered", domain.ErrInvalidTemplate, baseID)
	}
	for _, sig := range signatures {
		if _, err := sig.Body.Matches(""); err != nil {
			return nil, fmt.Errorf("%w: signature %q body pattern: %v", domain.ErrInvalidTemplate, sig.ID, err)
		}
		if sig.Weight < 0 || sig.Weight > 1 {
			return nil, fmt.Errorf("%w: signature %q weight %v outside [0,1]", domain.ErrInvalidTemplate, sig.ID, sig.Weight)
		}
		for _, f := range sig.Features {
			if _, ok := base.Field(f); !ok {
				return nil, fmt.Errorf("%w: signature %q feature %q is not a field of %q", domain.ErrInvalidTemplate, sig.ID, f, baseID)
			}
		}
		if sig.TemplateID != "" {
			if _, ok := r.templates[sig.TemplateID]; !ok {
				return nil, fmt.Errorf("%w: signature %q selects unknown template %q", domain.ErrInvalidTemplate, sig.ID, sig.TemplateID)
			}
		}
	}
	r.detector = NewDetector(signatures, base)

	return r, nil
}

func validateFields(lib *transform.Library, def *TemplateDefinition) error {
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: template %q has a field with no name", domain.ErrInvalidTemplate, def.ID)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: template %q declares field %q twice", domain.ErrInvalidTemplate, def.ID, f.Name)
		}
		seen[f.Name] = true
		for _, name := range f.Transformations {
			if _, ok := lib.Transform(name); !ok {
				return fmt.Errorf("%w: field %s.%s uses unknown transformation %q", domain.ErrInvalidTemplate, def.ID, f.Name, name)
			}
		}
		for _, name := range f.Validations {
			if _, ok := lib.Validation(name); !ok {
				return fmt.Errorf("%w: field %s.%s uses unknown validation %q", domain.ErrInvalidTemplate, def.ID, f.Name, name)
			}
		}
	}
	return nil
}

// AvailableTemplates returns every registered template id in registration order.
func (r *Registry) AvailableTemplates() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// Detector returns the version detector.
func (r *Registry) Detector() *Detector {
	return r.detector
}

// GetTemplate resolves a template and merges in its parent.
func (r *Registry) GetTemplate(id string) (*ResolvedTemplate, error) {
	def, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}

	resolved := &ResolvedTemplate{TemplateDefinition: *def}
	if def.ParentID != "" {
		parent := r.templates[def.ParentID]
		resolved.Fields = MergeFields(parent.Fields, def.Fields)
	} else {
		resolved.Fields = append([]FieldDefinition(nil), def.Fields...)
	}
	return resolved, nil
}

// GetTemplateFor resolves a template and attaches the version detected in text.
func (r *Registry) GetTemplateFor(id, text string) (*ResolvedTemplate, error) {
	resolved, err := r.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	match := r.detector.Detect(text)
	resolved.DetectedVersion = &match
	return resolved, nil
}

// MergeFields unions parent and child field lists. A child field replaces the
// parent field of the same name in the parent's position; fields only the child
// declares follow in the child's order.
func MergeFields(parent, child []FieldDefinition) []FieldDefinition {
	overrides := make(map[string]int, len(child))
	for i, f := range child {
		overrides[f.Name] = i
	}

	merged := make([]FieldDefinition, 0, len(parent)+len(child))
	used := make(map[string]bool, len(child))
	for _, f := range parent {
		if i, ok := overrides[f.Name]; ok {
			merged = append(merged, child[i])
			used[f.Name] = true
			continue
		}
		merged = append(merged, f)
	}
	for _, f := range child {
		if !used[f.Name] {
			merged = append(merged, f)
		}
	}
	return merged
}
