// Package sineklik prices insect screens. Four variants are supported: pleated
// (plise), hinged (menteseli), fixed (sabit) and sliding (surme).
package sineklik

import (
	"math"
	"strings"

	"shutter-pricing-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductID is the catalog product id of insect screens.
const ProductID = "sineklik"

// Variants.
const (
	Plise     = "plise"
	Menteseli = "menteseli"
	Sabit     = "sabit"
	Surme     = "surme"
)

// Opening styles.
const (
	OpenInward    = "iceAcilim"
	OpenOutward   = "disaAcilim"
	PliseVertical = "dikey"
	PliseSideways = "yatay"
	PliseDouble   = "double"
	PliseCentral  = "centralPack"
	FrameSillless = "esiksiz"
	MeshNormal    = "normal"
	MeshPetProof  = "kedi"
)

type selections struct {
	variant       string
	width, height float64
	color         string
	frame         string
	hingedOpening string
	pliseOpening  string
	mesh          string
}

func readSelections(s domain.State) selections {
	return selections{
		variant:       strings.ToLower(s.String("sineklikType")),
		width:         s.Number("width"),
		height:        s.Number("height"),
		color:         s.String("color"),
		frame:         s.String("kasaType"),
		hingedOpening: s.String("menteseliOpeningType"),
		pliseOpening:  s.String("pliseOpeningType"),
		mesh:          s.String("tulType"),
	}
}

// light reports whether the colour takes the light-coloured hardware.
func (s selections) light() bool {
	return s.color == "metalik_gri" || s.color == "beyaz"
}

func (s selections) twoPanels() bool {
	return s.pliseOpening == PliseDouble || s.pliseOpening == PliseCentral
}

// pliseRun is the mesh length of a pleated screen in mm.
func (s selections) pliseRun() float64 {
	switch {
	case s.frame == FrameSillless:
		return s.height - 31
	case s.pliseOpening == PliseVertical:
		return s.width - 55
	}
	return s.height - 55
}

func num(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func perMetre(price decimal.Decimal, mm float64) decimal.Decimal {
	return price.Mul(num(mm)).Div(decimal.NewFromInt(1000))
}

func ceil1(f float64) float64 {
	return math.Ceil(f*10) / 10
}
