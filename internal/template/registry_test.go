package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimscan/internal/domain"
	"claimscan/internal/template"
	"claimscan/internal/transform"
)

func field(name string, patterns ...string) template.FieldDefinition {
	return template.FieldDefinition{Name: name, DisplayName: name, Patterns: template.Patterns(patterns...)}
}

func names(fields []template.FieldDefinition) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestDefaultRegistry_AvailableTemplates(t *testing.T) {
	ids := template.Default().AvailableTemplates()
	assert.Equal(t, []string{"standard", "rental_agreement_v2", "legacy_contract"}, ids)
}

func TestDefaultRegistry_AllPatternsCompile(t *testing.T) {
	for _, def := range template.BuiltinTemplates() {
		for _, f := range def.Fields {
			require.NotEmpty(t, f.Patterns, "%s.%s", def.ID, f.Name)
			for _, p := range f.Patterns {
				assert.NoError(t, p.Err(), "%s.%s", def.ID, f.Name)
			}
		}
	}
	for _, sig := range template.BuiltinSignatures() {
		assert.NoError(t, sig.Body.Err(), sig.ID)
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	_, err := template.Default().GetTemplate("nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestGetTemplate_ChildOverridesParent(t *testing.T) {
	resolved, err := template.Default().GetTemplate(template.V2TemplateID)
	require.NoError(t, err)

	standard, err := template.Default().GetTemplate(template.StandardTemplateID)
	require.NoError(t, err)

	assert.Len(t, resolved.Fields, len(standard.Fields)+2)
	assert.Equal(t, "raNumber", resolved.Fields[0].Name)
	assert.Equal(t, "RA Number", resolved.Fields[0].DisplayName, "child definition replaces parent")

	vin, ok := resolved.Field("carVIN")
	require.True(t, ok)
	assert.Contains(t, vin.Patterns[0].Source(), "VEHICLE")

	got := names(resolved.Fields)
	assert.Equal(t, []string{"claimNumber", "odometerOut"}, got[len(got)-2:])
	assert.Nil(t, resolved.DetectedVersion)
}

func TestGetTemplate_ReturnsIndependentFieldSlice(t *testing.T) {
	a, err := template.Default().GetTemplate(template.StandardTemplateID)
	require.NoError(t, err)
	a.Fields[0].DisplayName = "mutated"

	b, err := template.Default().GetTemplate(template.StandardTemplateID)
	require.NoError(t, err)
	assert.Equal(t, "Rental Agreement Number", b.Fields[0].DisplayName)
}

func TestGetTemplateFor_AttachesDetectedVersion(t *testing.T) {
	resolved, err := template.Default().GetTemplateFor(template.StandardTemplateID, fixture(t, "v2_agreement.txt"))
	require.NoError(t, err)
	require.NotNil(t, resolved.DetectedVersion)
	assert.Equal(t, template.V2TemplateID, resolved.DetectedVersion.VersionID)
	assert.Equal(t, template.StandardTemplateID, resolved.ID)
}

func TestRegistry_Has(t *testing.T) {
	r := template.Default()
	assert.True(t, r.Has(template.LegacyTemplateID))
	assert.False(t, r.Has("nonexistent"))
	assert.False(t, r.Has(""))
}

func TestMergeFields(t *testing.T) {
	parent := []template.FieldDefinition{field("a", `(a)`), field("b", `(b)`), field("c", `(c)`)}
	child := []template.FieldDefinition{field("d", `(d)`), field("b", `(B)`)}

	merged := template.MergeFields(parent, child)

	assert.Equal(t, []string{"a", "b", "c", "d"}, names(merged))
	assert.Equal(t, "(B)", merged[1].Patterns[0].Source())
}

func TestNewRegistry_Validation(t *testing.T) {
	lib := transform.Default()
	base := template.TemplateDefinition{ID: "base", Fields: []template.FieldDefinition{field("x", `(x)`)}}

	tests := []struct {
		name string
		defs []template.TemplateDefinition
		sigs []template.VersionSignature
		msg  string
	}{
		{
			name: "duplicate_id",
			defs: []template.TemplateDefinition{base, base},
			msg:  "duplicate template id",
		},
		{
			name: "unknown_parent",
			defs: []template.TemplateDefinition{base, {ID: "child", ParentID: "ghost"}},
			msg:  "unknown template",
		},
		{
			name: "multi_level_parent",
			defs: []template.TemplateDefinition{
				base,
				{ID: "child", ParentID: "base"},
				{ID: "grandchild", ParentID: "child"},
			},
			msg: "itself has a parent",
		},
		{
			name: "duplicate_field",
			defs: []template.TemplateDefinition{{ID: "base", Fields: []template.FieldDefinition{field("x", `(x)`), field("x", `(y)`)}}},
			msg:  "declares field",
		},
		{
			name: "unknown_transformation",
			defs: []template.TemplateDefinition{{ID: "base", Fields: []template.FieldDefinition{{Name: "x", Transformations: []string{"shout"}}}}},
			msg:  "unknown transformation",
		},
		{
			name: "unknown_validation",
			defs: []template.TemplateDefinition{{ID: "base", Fields: []template.FieldDefinition{{Name: "x", Validations: []string{"isHappy"}}}}},
			msg:  "unknown validation",
		},
		{
			name: "missing_base",
			defs: []template.TemplateDefinition{{ID: "other"}},
			msg:  "base template",
		},
		{
			name: "signature_weight",
			defs: []template.TemplateDefinition{base},
			sigs: []template.VersionSignature{{ID: "s", Body: template.Compile(`x`), Weight: 1.5}},
			msg:  "outside [0,1]",
		},
		{
			name: "signature_feature",
			defs: []template.TemplateDefinition{base},
			sigs: []template.VersionSignature{{ID: "s", Body: template.Compile(`x`), Weight: 1, Features: []string{"nope"}}},
			msg:  "is not a field",
		},
		{
			name: "signature_body_does_not_compile",
			defs: []template.TemplateDefinition{base},
			sigs: []template.VersionSignature{{ID: "s", Body: template.Compile(`(unclosed`), Weight: 1}},
			msg:  `signature "s" body pattern`,
		},
		{
			name: "signature_body_missing",
			defs: []template.TemplateDefinition{base},
			sigs: []template.VersionSignature{{ID: "s", Weight: 1}},
			msg:  "never compiled",
		},
		{
			name: "signature_template",
			defs: []template.TemplateDefinition{base},
			sigs: []template.VersionSignature{{ID: "s", Body: template.Compile(`x`), Weight: 1, TemplateID: "ghost"}},
			msg:  "selects unknown template",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := template.NewRegistry(lib, tt.defs, tt.sigs, "base")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
