package extraction_test

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"claimscan/internal/extraction"
	"claimscan/internal/template"
	"claimscan/internal/transform"
)

func TestScore_RequiredIdentifierClampsToOne(t *testing.T) {
	f := &template.FieldDefinition{
		Name:        "raNumber",
		DisplayName: "Rental Agreement Number",
		Required:    true,
		Patterns:    template.Patterns(`(?i)RENTAL AGREEMENT NUMBER\s*(\d{6,10})`),
		Validations: []string{"isNotEmpty"},
	}

	score := extraction.NewScorer(transform.Default()).Score("12345678", f)
	assert.Equal(t, 1.0, score)
}

func TestScore_InvalidVINKeepsFormatBoostOnly(t *testing.T) {
	resolved, err := template.Default().GetTemplate(template.StandardTemplateID)
	if !assert.NoError(t, err) {
		return
	}
	f, ok := resolved.Field("carVIN")
	if !assert.True(t, ok) {
		return
	}

	score := extraction.NewScorer(transform.Default()).Score("1HGCM82633A00435", f)
	assert.InDelta(t, 0.55, score, 1e-9)
}

func TestScore_Formula(t *testing.T) {
	plain := &template.FieldDefinition{Name: "f", DisplayName: "Unrelated"}
	numeric := &template.FieldDefinition{Name: "f", Validations: []string{"isNumeric"}}
	required := &template.FieldDefinition{Name: "f", Required: true, Validations: []string{"isNotEmpty", "isNumeric"}}
	contextual := &template.FieldDefinition{
		Name:        "carMake",
		DisplayName: "Make",
		Patterns:    template.Patterns(`(?i)\bMAKE:\s*(\w+)`),
		Validations: []string{"isNotEmpty"},
	}

	tests := []struct {
		name  string
		value any
		field *template.FieldDefinition
		want  float64
	}{
		{"nil", nil, plain, 0},
		{"no_validations", "ab c", plain, 0.65},
		{"single_char", "x", plain, 0.325},
		{"single_char_identifier", "A", plain, 0.65 * 0.5 * 1.1},
		{"long_string", strings.Repeat("a", 150), plain, 0.65 * 0.8},
		{"proper_name", "John Smith", plain, 0.65 * 1.1},
		{"identifier", "AB-12", plain, 0.65 * 1.1},
		{"bool_true", true, plain, 1.0},
		{"bool_false", false, plain, 1.0},
		{"small_number", 2021.0, numeric, 0.8 * 1.1},
		{"negative_number", -5.0, plain, 0.65},
		{"million", 1_000_000.0, plain, 0.65},
		{"required_half_valid", "abc", required, 0.5 + 0.15 + 0.2},
		{"required_empty_string", "", required, 0.5 * 0.5},
		{"contextual_boost", "Honda", contextual, 0.8 * 1.1 * 1.1},
	}
	scorer := extraction.NewScorer(transform.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.Score(tt.value, tt.field), 1e-9)
		})
	}
}

func TestScore_AlwaysWithinUnitInterval(t *testing.T) {
	gofakeit.Seed(42)
	scorer := extraction.NewScorer(transform.Default())
	fields := []*template.FieldDefinition{
		{Name: "a"},
		{Name: "b", Required: true, Validations: []string{"isNotEmpty", "isNumeric", "isValidVIN"}},
		{Name: "c", DisplayName: "c", Required: true, Patterns: template.Patterns(`C(.)`), Validations: []string{"isNotEmpty"}},
	}

	for i := 0; i < 500; i++ {
		values := []any{
			gofakeit.LetterN(uint(gofakeit.Number(0, 400))),
			gofakeit.Sentence(gofakeit.Number(1, 60)),
			strings.ToUpper(gofakeit.LetterN(uint(gofakeit.Number(1, 30)))),
			gofakeit.Name(),
			gofakeit.Numerify("#################"),
			gofakeit.Float64Range(-1e9, 1e9),
			gofakeit.Bool(),
		}
		for _, v := range values {
			for _, f := range fields {
				s := scorer.Score(v, f)
				assert.GreaterOrEqual(t, s, 0.0, "value %v", v)
				assert.LessOrEqual(t, s, 1.0, "value %v", v)
			}
		}
	}
}
