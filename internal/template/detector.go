package template

import (
	"sort"

	"claimscan/internal/domain"
)

// DefaultVersionID is reported when no signature matches.
const DefaultVersionID = "standard"

// defaultVersionConfidence is reported with DefaultVersionID.
const defaultVersionConfidence = 0.5

// Detector scores a text against known layout signatures.
type Detector struct {
	signatures []VersionSignature
	base       *TemplateDefinition
}

// NewDetector creates a Detector. Feature fields are looked up in base, and
// only their first pattern is consulted.
func NewDetector(signatures []VersionSignature, base *TemplateDefinition) *Detector {
	return &Detector{signatures: signatures, base: base}
}

// Detect returns the best matching signature, or the standard default when
// none match. Confidence is weight * (0.7 + 0.3 * featureConfidence).
func (d *Detector) Detect(text string) domain.VersionMatch {
	var candidates []domain.VersionMatch
	for i := range d.signatures {
		sig := &d.signatures[i]
		ok, err := sig.Body.Matches(text)
		if err != nil || !ok {
			continue
		}

		matched := d.matchedFeatures(sig.Features, text)
		featureConfidence := 0.0
		if len(sig.Features) > 0 {
			featureConfidence = float64(len(matched)) / float64(len(sig.Features))
		}

		candidates = append(candidates, domain.VersionMatch{
			VersionID:       sig.ID,
			TemplateID:      sig.TemplateID,
			Confidence:      sig.Weight * (0.7 + 0.3*featureConfidence),
			MatchedFeatures: matched,
			TotalFeatures:   len(sig.Features),
		})
	}

	if len(candidates) == 0 {
		return domain.VersionMatch{
			VersionID:       DefaultVersionID,
			Confidence:      defaultVersionConfidence,
			MatchedFeatures: []string{},
			TotalFeatures:   0,
		}
	}

	// Stable so equal scores keep declaration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates[0]
}

func (d *Detector) matchedFeatures(features []string, text string) []string {
	matched := make([]string, 0, len(features))
	if d.base == nil {
		return matched
	}
	for _, name := range features {
		field, ok := d.base.Field(name)
		if !ok || len(field.Patterns) == 0 {
			continue
		}
		if _, found, err := field.Patterns[0].Find(text); err == nil && found {
			matched = append(matched, name)
		}
	}
	return matched
}
