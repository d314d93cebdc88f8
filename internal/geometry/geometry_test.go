package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemWidth(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		convention string
		postType   string
		want       float64
	}{
		{"posts excluded mini", 1000, PostsExcluded, "mini_dikme", 1096},
		{"posts excluded midi", 1000, PostsExcluded, "midi_dikme", 1114},
		{"single post", 1000, SinglePost, "mini_dikme", 1043},
		{"posts included", 1000, PostsIncluded, "midi_dikme", 990},
		{"unknown convention", 1000, "", "midi_dikme", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SystemWidth(tt.width, tt.convention, tt.postType))
		})
	}
}

func TestSystemHeight(t *testing.T) {
	assert.Equal(t, 2165.0, SystemHeight(2000, BoxExcluded, "165mm"))
	assert.Equal(t, 2000.0, SystemHeight(2000, BoxIncluded, "165mm"))
}

func TestLamelCount(t *testing.T) {
	assert.Equal(t, 49, LamelCount(2000, "137mm", "39_sl"))
	assert.Equal(t, 35, LamelCount(2000, "165mm", "55_sl"))
	assert.Equal(t, 0, LamelCount(2000, "165mm", ""))
}

func TestLamelWidthAndPostHeight(t *testing.T) {
	assert.Equal(t, 1021.0, LamelWidth(1096, "mini_dikme"))
	assert.Equal(t, 1006.0, LamelWidth(1096, "midi_dikme"))

	assert.Equal(t, 1383.0, PostHeight(1500, "137mm", "mini_dikme"))
	assert.Equal(t, 1388.0, PostHeight(1500, "137mm", "midi_dikme"))
	assert.Equal(t, 0.0, PostHeight(1500, "137mm", "mini_orta_dikme"))
	assert.Equal(t, 0.0, PostHeight(1500, "137mm", "midi_pvc_orta_dikme"))
}

func TestBoxHeightAndThickness(t *testing.T) {
	assert.Equal(t, 250.0, BoxHeight("250mm"))
	assert.Equal(t, 0.0, BoxHeight(""))
	assert.Equal(t, 45.0, ThicknessMM("45_se"))
	assert.Equal(t, 1431.5, LamelHeight(1500, BoxIncluded, "137mm"))
	assert.Equal(t, 1500.0, LamelHeight(1500, BoxExcluded, "137mm"))
}

func TestLamelSpecs(t *testing.T) {
	assert.True(t, LamelSpecs[0].Fits(2000, 2000))
	assert.False(t, LamelSpecs[0].Fits(2400, 2400))
	assert.True(t, LamelSpecs[0].Fits(2400, 2000), "area within 5.5 m²")
	assert.Equal(t, MaterialExtruded, MaterialFor("45_se"))
	assert.Equal(t, MaterialCoated, MaterialFor("39_sl"))
	assert.Equal(t, []string{"45_se", "55_se"}, FamilyThicknesses(MaterialExtruded))
}

func TestMaxLamelHeight(t *testing.T) {
	assert.Equal(t, 1500.0, MaxLamelHeight("137mm", "39_sl", Manual))
	assert.Equal(t, 1100.0, MaxLamelHeight("137mm", "39_sl", Motorized))
	assert.Equal(t, 0.0, MaxLamelHeight("137mm", "55_sl", Manual))
	assert.Equal(t, 0.0, MaxLamelHeight("250mm", "39_sl", Motorized))
	assert.Equal(t, 0.0, MaxLamelHeight("165mm", "39_sl", ""))
}
