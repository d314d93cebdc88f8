package sineklik

import (
	"fmt"

	"shutter-pricing-service/internal/catalog"
	"shutter-pricing-service/internal/domain"
)

// Profile descriptions as they appear in the price list.
const (
	hingedFrameProfile = "İçe Açılım Sineklik Kasa Profili"
	hingedSashProfile  = "İçe Açılım Sineklik Kanat Profili"
	slidingRailProfile = "Sürme Sineklik Ray Profili"
	slidingSashProfile = "Sürme Sineklik Kanat Profili"
	pliseFrameProfile  = "Plise Kasa Profili"
	pliseSillProfile   = "Plise Düşük Eşik Profili"
	pliseSashProfile   = "Plise Kanat Profili"
)

// cut is one profile piece: a length in mm and how many of them.
type cut struct {
	length float64
	qty    float64
}

// cuts prices each cut of the profile matching fragment in the screen colour.
func cuts(cat *catalog.Catalog, fragment, color string, pieces ...cut) []domain.SelectedProduct {
	profile, ok := cat.ProfileWithColor(fragment, color)
	if !ok {
		return nil
	}
	out := make([]domain.SelectedProduct, 0, len(pieces))
	for _, c := range pieces {
		ppp := perMetre(profile.UnitPrice(), c.length)
		out = append(out, domain.NewSelectedProduct(profile.WithMeasurement(c.length, ppp), c.qty, fmt.Sprintf("%gmm", c.length)))
	}
	return out
}

// Products prices the frame and sash profiles cut for the configured variant.
func (Calculator) Products(in domain.CalculationInput) []domain.SelectedProduct {
	sel := readSelections(in.State)
	cat := catalog.New(in.Prices)
	w, h := sel.width, sel.height

	var out []domain.SelectedProduct
	switch sel.variant {
	case Menteseli:
		if sel.hingedOpening != OpenOutward {
			out = append(out, cuts(cat, hingedFrameProfile, sel.color, cut{w - 110, 2}, cut{h - 110, 2})...)
		}
		trim := 84.0
		if sel.hingedOpening == OpenOutward {
			trim = 50
		}
		out = append(out, cuts(cat, hingedSashProfile, sel.color, cut{h - trim, 2}, cut{w - trim, 2})...)
	case Sabit:
		out = append(out, cuts(cat, hingedSashProfile, sel.color, cut{w - 84, 2}, cut{h - 84, 2})...)
	case Surme:
		out = append(out, cuts(cat, slidingRailProfile, sel.color, cut{w - 84, 2}, cut{h - 84, 2})...)
		out = append(out, cuts(cat, slidingSashProfile, sel.color, cut{w, 2}, cut{h, 2})...)
	case Plise:
		out = append(out, pliseFrame(cat, sel)...)
		sash := h - 94
		if sel.pliseOpening == PliseVertical {
			sash = w - 94
		}
		out = append(out, cuts(cat, pliseSashProfile, sel.color, cut{sash, 1})...)
	}
	return out
}

// pliseFrame is the frame of a pleated screen. A sill-less frame drops one
// horizontal bar for sideways opening, one vertical bar for double opening,
// and adds the low sill profile.
func pliseFrame(cat *catalog.Catalog, sel selections) []domain.SelectedProduct {
	horizontal, vertical := 2.0, 2.0
	sillless := sel.frame == FrameSillless
	if sillless {
		switch sel.pliseOpening {
		case PliseSideways:
			horizontal = 1
		case PliseDouble:
			vertical = 1
		}
	}
	out := cuts(cat, pliseFrameProfile, sel.color, cut{sel.width - 50, horizontal}, cut{sel.height - 50, vertical})
	if out == nil {
		return nil
	}
	if sillless {
		out = append(out, cuts(cat, pliseSillProfile, sel.color, cut{sel.width - 4, 1})...)
	}
	return out
}
