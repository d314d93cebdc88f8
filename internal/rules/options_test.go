package rules

import (
	"testing"

	"shutter-pricing-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func postSchema(productID string) domain.ProductSchema {
	var opts []domain.FieldOption
	for _, id := range []string{
		"mini_dikme", "mini_orta_dikme", "midi_dikme", "midi_orta_dikme",
		"mini_pvc_dikme", "mini_pvc_orta_dikme", "midi_pvc_dikme", "midi_pvc_orta_dikme",
	} {
		opts = append(opts, domain.FieldOption{ID: id})
	}
	return domain.ProductSchema{
		ProductID: productID,
		Tabs: []domain.Tab{{
			ID:     "frame",
			Fields: []domain.FieldDefinition{{ID: "dikmeType", Options: opts}, {ID: "dikmeColor"}},
		}},
	}
}

func postIDs(s domain.ProductSchema) []string {
	f, _ := s.Field("dikmeType")
	var ids []string
	for _, o := range f.Options {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestNarrowSchema(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		optionID string
		typeID   int
		want     []string
	}{
		{"single section distan", "panjur", "distan", 1, []string{"mini_dikme", "midi_dikme"}},
		{"multi section distan", "panjur", "distan", 2, []string{"mini_dikme", "mini_orta_dikme", "midi_dikme", "midi_orta_dikme"}},
		{"single section monoblok", "panjur", "monoblok", 0, []string{"mini_pvc_dikme", "midi_pvc_dikme"}},
		{"multi section monoblok", "panjur", "monoblok", 3, []string{"mini_pvc_dikme", "mini_pvc_orta_dikme", "midi_pvc_dikme", "midi_pvc_orta_dikme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postIDs(NarrowSchema(postSchema(tt.product), tt.optionID, tt.typeID)))
		})
	}
}

func TestNarrowSchema_LeavesOthersUntouched(t *testing.T) {
	original := postSchema("panjur")
	_ = NarrowSchema(original, "distan", 1)
	assert.Len(t, postIDs(original), 8, "input schema is not modified")

	assert.Len(t, postIDs(NarrowSchema(postSchema("sineklik"), "distan", 1)), 8)
	assert.Len(t, postIDs(NarrowSchema(original, "", 1)), 8)
	assert.Len(t, postIDs(NarrowSchema(original, "unknown", 1)), 8)
}

func TestNarrowSchema_MovesFilteredDefault(t *testing.T) {
	s := postSchema("panjur")
	s.Tabs[0].Fields[0].Default = "mini_dikme"

	narrowed := NarrowSchema(s, "monoblok", 1)

	f, _ := narrowed.Field("dikmeType")
	assert.Equal(t, "mini_pvc_dikme", f.Default)
	orig, _ := s.Field("dikmeType")
	assert.Equal(t, "mini_dikme", orig.Default)
}
