package panjur

import (
	"shutter-pricing-service/internal/catalog"
	"shutter-pricing-service/internal/domain"
)

// Calculator prices roller shutters. The zero value is ready to use.
type Calculator struct{}

// Products prices the curtain, posts, box, roller tube and automation from the
// product catalog. Lines whose catalog entry is missing are left out.
func (Calculator) Products(in domain.CalculationInput) []domain.SelectedProduct {
	cat := catalog.New(in.Prices)
	sel := readSelections(in.State)
	m := measure(sel, in.SectionCount)

	postColor := sel.postColor
	if postColor == "" {
		postColor = sel.lamelColor
	}

	var out []domain.SelectedProduct
	add := func(p *domain.SelectedProduct) {
		if p != nil {
			out = append(out, *p)
		}
	}

	add(cat.Lamel(sel.lamelThickness, sel.lamelType, sel.lamelColor, m.lamelCount, m.lamelWidth))
	add(cat.BottomRail(sel.subPart, sel.subPartColor, m.lamelWidth))
	add(cat.Posts(sel.postType, postColor, m.postCount, m.postHeight))
	front, back := cat.Box(sel.boxType, sel.boxColor, m.systemWidth)
	add(front)
	add(back)
	add(cat.TubeProfile(sel.movement, sel.width))
	add(cat.Remote(sel.remote))
	add(cat.SmartHome(sel.smartHome))
	add(cat.Receiver(sel.receiver, fieldByID(in.Fields, "receiver")))
	return out
}
