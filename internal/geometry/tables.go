package geometry

import "strings"

// Movement types.
const (
	Manual    = "manuel"
	Motorized = "motorlu"
)

// Lamel materials paired with thickness suffixes.
const (
	MaterialExtruded = "aluminyum_ekstruzyon"   // "_se" thicknesses
	MaterialCoated   = "aluminyum_poliuretanli" // "_sl" thicknesses
)

// LamelSpec bounds the curtain a lamel thickness can carry.
type LamelSpec struct {
	Thickness string
	MaxWidth  float64 // mm
	MaxHeight float64 // mm
	MaxArea   float64 // m²
}

// Fits reports whether a width × height curtain is within the lamel limits.
func (l LamelSpec) Fits(width, height float64) bool {
	area := width * height / 1e6
	return (width <= l.MaxWidth && height <= l.MaxHeight) || area <= l.MaxArea
}

// LamelSpecs is ordered; the first fitting record is preferred.
var LamelSpecs = []LamelSpec{
	{Thickness: "39_sl", MaxWidth: 2300, MaxHeight: 2400, MaxArea: 5.5},
	{Thickness: "55_sl", MaxWidth: 3200, MaxHeight: 3100, MaxArea: 10},
	{Thickness: "45_se", MaxWidth: 4250, MaxHeight: 3500, MaxArea: 14},
	{Thickness: "55_se", MaxWidth: 5500, MaxHeight: 4000, MaxArea: 22},
}

// MaterialFor maps a thickness label to its material by suffix.
func MaterialFor(thickness string) string {
	switch {
	case strings.HasSuffix(thickness, "_se"):
		return MaterialExtruded
	case strings.HasSuffix(thickness, "_sl"):
		return MaterialCoated
	}
	return ""
}

// BoxSizes are the candidate head boxes, smallest first.
var BoxSizes = []string{"137mm", "165mm", "205mm", "250mm"}

type heightLimit struct{ manual, motorized float64 }

// Zero entries mark an unsupported box/thickness pair.
var maxLamelHeights = map[string]map[string]heightLimit{
	"137": {
		"39_sl": {1500, 1100},
		"45_se": {1000, 1000},
	},
	"165": {
		"39_sl": {2400, 2250},
		"45_se": {2000, 1750},
		"55_sl": {1800, 1600},
		"55_se": {1800, 1600},
	},
	"205": {
		"39_sl": {3500, 3500},
		"45_se": {3500, 3500},
		"55_sl": {3000, 2750},
		"55_se": {3000, 2750},
	},
	"250": {
		"45_se": {4000, 4000},
		"55_sl": {4500, 4500},
		"55_se": {4500, 4500},
	},
}

// MaxLamelHeight returns the largest curtain height a box carries, or 0 when unsupported.
func MaxLamelHeight(boxType, thickness, movement string) float64 {
	limit := maxLamelHeights[strings.TrimSuffix(boxType, "mm")][thickness]
	if movement == Motorized {
		return limit.motorized
	}
	if movement == Manual {
		return limit.manual
	}
	return 0
}

// MotorIDs lists motor models in catalog order.
var MotorIDs = []string{"sel_60-10", "sel_60-20", "sel_60-30", "sel_60-50", "boost_15", "boost_35", "boost_55"}

// motorCapacity is the curtain area in m² each motor lifts, per thickness.
var motorCapacity = map[string]map[string]float64{
	"39_sl": {"sel_60-10": 8.6, "sel_60-20": 13.2, "sel_60-30": 19.6, "sel_60-50": 26.4, "boost_15": 6.5, "boost_35": 15.2, "boost_55": 23.9},
	"55_sl": {"sel_60-10": 7.6, "sel_60-20": 11.7, "sel_60-30": 17.3, "sel_60-50": 23.4, "boost_15": 5.7, "boost_35": 13.4, "boost_55": 21.1},
	"45_se": {"sel_60-10": 0, "sel_60-20": 4.1, "sel_60-30": 6.1, "sel_60-50": 8.3, "boost_15": 2, "boost_35": 4.7, "boost_55": 7.5},
	"55_se": {"sel_60-10": 0, "sel_60-20": 5, "sel_60-30": 7.5, "sel_60-50": 10.1, "boost_15": 2.5, "boost_35": 5.8, "boost_55": 9.1},
}

// MotorCapacity returns the lifting capacity of motor for thickness in m².
func MotorCapacity(thickness, motor string) float64 {
	return motorCapacity[thickness][motor]
}

// FamilyThicknesses lists the thicknesses of the material family, in LamelSpecs order.
func FamilyThicknesses(material string) []string {
	suffix := "_sl"
	if material == MaterialExtruded {
		suffix = "_se"
	}
	var out []string
	for _, spec := range LamelSpecs {
		if strings.HasSuffix(spec.Thickness, suffix) {
			out = append(out, spec.Thickness)
		}
	}
	return out
}

// MotorBrandPrefix maps a brand to the prefix of its motor ids.
func MotorBrandPrefix(brand string) string {
	if brand == "mosel" {
		return "sel_"
	}
	return "boost_"
}
