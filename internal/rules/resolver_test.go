package rules

import (
	"testing"

	"shutter-pricing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dep(field string, values ...string) *domain.Dependency {
	return &domain.Dependency{Field: field, Values: values}
}

func movementFields() []domain.FieldDefinition {
	return []domain.FieldDefinition{
		{ID: "movementType", Type: domain.FieldRadio, Default: "manuel"},
		{ID: "motorMarka", Type: domain.FieldSelect, Default: "mosel", DependsOn: dep("movementType", "motorlu")},
		{ID: "motorModel", Type: domain.FieldSelect, DependsOn: dep("motorMarka", "mosel", "somfy")},
		{ID: "manuelSekli", Type: domain.FieldSelect, DependsOn: dep("movementType", "manuel")},
		{ID: "makaraTipi", Type: domain.FieldSelect, DependsOn: dep("manuelSekli", "makarali")},
		{ID: "sectionCount", Type: domain.FieldNumber, Default: 1},
	}
}

func TestResolve_CascadesThroughChain(t *testing.T) {
	fields := movementFields()
	state := domain.State{
		"movementType": "manuel",
		"motorMarka":   "mosel",
		"motorModel":   "sel_60-20",
		"manuelSekli":  "",
		"makaraTipi":   "",
	}

	out := Resolve(fields, state, []string{"movementType"})

	assert.Equal(t, "", out["motorModel"], "grandchild resets when its grandparent breaks the chain")
	assert.Equal(t, "mosel", out["motorMarka"], "invalid field with a default keeps the default")
	assert.Equal(t, "sel_60-20", state["motorModel"], "input state is not modified")
}

func TestResolve_ResetsEditedHiddenField(t *testing.T) {
	fields := movementFields()
	state := domain.State{"movementType": "manuel", "motorMarka": "mosel", "motorModel": "sel_60-20", "manuelSekli": "makarali", "makaraTipi": "x"}

	out := Resolve(fields, state, []string{"motorModel"})
	assert.Equal(t, "", out["motorModel"], "edited field without a default resets when hidden")

	out = Resolve(fields, state, []string{"makaraTipi"})
	assert.Equal(t, "x", out["makaraTipi"], "edited field with a holding chain is kept")

	out = Resolve(fields, domain.State{"movementType": "manuel", "motorMarka": "somfy"}, []string{"motorMarka"})
	assert.Equal(t, "mosel", out["motorMarka"], "edited hidden field falls back to its default")
}

func TestResolve_Idempotent(t *testing.T) {
	fields := movementFields()
	state := domain.State{"movementType": "motorlu", "motorMarka": "", "motorModel": "sel_60-20", "manuelSekli": "makarali", "makaraTipi": "x"}
	changed := []string{"movementType", "motorMarka"}

	once := Resolve(fields, state, changed)
	twice := Resolve(fields, once, changed)

	assert.True(t, once.Equal(twice))
	assert.Equal(t, "", once["makaraTipi"])
	assert.Equal(t, "", once["motorModel"])
}

func TestResolve_OrderIndependent(t *testing.T) {
	fields := movementFields()
	state := domain.State{"movementType": "manuel", "motorMarka": "somfy", "motorModel": "boost_15", "manuelSekli": "makasli", "makaraTipi": "y"}

	a := Resolve(fields, state, []string{"movementType", "manuelSekli"})
	b := Resolve(fields, state, []string{"manuelSekli", "movementType"})

	assert.True(t, a.Equal(b))
}

func TestResolve_CyclicSchemaTerminates(t *testing.T) {
	fields := []domain.FieldDefinition{
		{ID: "a", DependsOn: dep("b", "1")},
		{ID: "b", DependsOn: dep("a", "1")},
	}
	out := Resolve(fields, domain.State{"a": "1", "b": "1"}, []string{"a"})
	assert.NotNil(t, out)
}

func TestIsVisible(t *testing.T) {
	fields := movementFields()

	assert.True(t, IsVisible(fields, domain.State{"movementType": "motorlu", "motorMarka": "mosel"}, "motorModel"))
	assert.False(t, IsVisible(fields, domain.State{"movementType": "manuel", "motorMarka": "mosel"}, "motorModel"))
	assert.True(t, IsVisible(fields, domain.State{}, "movementType"))
	assert.False(t, IsVisible(fields, domain.State{}, "unknown"))

	visible := VisibleFields(fields, domain.State{"movementType": "manuel"})
	ids := make([]string, 0, len(visible))
	for _, f := range visible {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"movementType", "manuelSekli", "sectionCount"}, ids)
}

func TestDefaultState(t *testing.T) {
	s := DefaultState(movementFields())
	require.Len(t, s, 3)
	assert.Equal(t, "manuel", s["movementType"])
	assert.Equal(t, float64(1), s["sectionCount"])
}
