package extraction

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"claimscan/internal/template"
	"claimscan/internal/transform"
)

var (
	identifierFormat = regexp.MustCompile(`^[A-Z0-9-]+$`)
	properNameFormat = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*$`)
)

// Scorer computes the heuristic trust estimate for an extracted value.
// Weights are fixed; review routing depends on them.
type Scorer struct {
	lib *transform.Library
}

// NewScorer creates a Scorer that evaluates validations from lib.
func NewScorer(lib *transform.Library) *Scorer {
	return &Scorer{lib: lib}
}

// Score returns a confidence in [0,1] for value v extracted for field f.
func (s *Scorer) Score(v any, f *template.FieldDefinition) float64 {
	if v == nil {
		return 0
	}

	score := 0.5
	if len(f.Validations) > 0 {
		// Names are checked when the registry is built; an unknown one simply fails.
		passed, _ := s.lib.Check(f.Validations, v)
		score += 0.3 * float64(passed) / float64(len(f.Validations))
	} else {
		score += 0.15
	}

	if f.Required && truthy(v) {
		score += 0.2
	}

	switch x := v.(type) {
	case string:
		n := utf8.RuneCountInString(x)
		if n < 2 {
			score *= 0.5
		}
		if n > 100 {
			score *= 0.8
		}
		if identifierFormat.MatchString(x) {
			score *= 1.1
		}
		if properNameFormat.MatchString(x) {
			score *= 1.1
		}
	case bool:
		score = 1.0
	default:
		if n, ok := number(v); ok && n >= 0 && n < 1_000_000 {
			score *= 1.1
		}
	}

	if mentionsDisplayName(f) {
		score *= 1.1
	}

	return math.Max(0, math.Min(1, score))
}

// mentionsDisplayName reports whether any of the field's own patterns spells
// out its display name.
func mentionsDisplayName(f *template.FieldDefinition) bool {
	if f.DisplayName == "" {
		return false
	}
	name := strings.ToLower(f.DisplayName)
	for _, p := range f.Patterns {
		if strings.Contains(strings.ToLower(p.Source()), name) {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	}
	if n, ok := number(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	}
	return 0, false
}
