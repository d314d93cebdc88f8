package panjur

import (
	"fmt"
	"strings"

	"shutter-pricing-service/internal/catalog"
	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/geometry"
)

const brushSeal = "067x550 Standart Kıl Fitil"

var reducerKit = []string{
	"40 boru başı rulmanlı siyah",
	"rulman 12x28",
	"panjur redüktörü beyaz",
	"redüktör boru başı 40 mm-C 371 uyumlu",
	"Ara kol-C 371 uyumlu",
	"Çevirme kolu-1200 mm",
}

var lockingRailKit = []string{
	"alt parça sürgüsü yuvarlak galvaniz",
	"alt parça sürgüsü yassı galvaniz",
}

// picker collects accessory lines, skipping misses and empty quantities.
type picker struct {
	cat *catalog.Catalog
	out []domain.CatalogItem
}

func (p *picker) push(item domain.CatalogItem, qty float64) bool {
	if qty <= 0 {
		return false
	}
	p.out = append(p.out, item.WithQuantity(qty))
	return true
}

func (p *picker) named(fragment string, qty float64) bool {
	item, ok := p.cat.Containing(fragment)
	if !ok {
		return false
	}
	return p.push(item, qty)
}

func sideCapDescription(boxType, color string) string {
	size := strings.TrimSuffix(boxType, "mm")
	switch size {
	case "137", "165", "205":
		return fmt.Sprintf("%s Yan Kapak 45 Pimli %s", size, catalog.NormalizeColor(color))
	case "250":
		return fmt.Sprintf("250 Yan Kapak 45 Motor %s", catalog.NormalizeColor(color))
	}
	return ""
}

// hangerCount is the number of steel hangers for a lamel width.
func hangerCount(lamelWidth float64) float64 {
	switch {
	case lamelWidth <= 1000:
		return 2
	case lamelWidth <= 1500:
		return 4
	case lamelWidth <= 2250:
		return 6
	case lamelWidth <= 3500:
		return 8
	}
	return 10
}

// Accessories selects the hardware of the configured shutter from the
// accessory catalog.
func (Calculator) Accessories(in domain.CalculationInput) []domain.CatalogItem {
	sel := readSelections(in.State)
	m := measure(sel, in.SectionCount)
	p := &picker{cat: catalog.New(in.Accessories)}
	mini := geometry.IsMini(sel.postType)

	if desc := sideCapDescription(sel.boxType, sel.boxColor); desc != "" {
		p.named(desc, 1)
	}

	switch {
	case sel.movement == geometry.Motorized:
		p.named("60 boru başı rulmanlı siyah", 1)
		p.named("rulman 12x28", 1)
		if sel.boxType == "250mm" {
			p.named("plaket 100x100 12 mm pimli galvaniz", 1)
		}
	case sel.movement == geometry.Manual && sel.manualStyle == "makarali":
		p.named("40 boru başı rulmanlı siyah", 1)
		if sel.boxType == "137mm" {
			p.named("40x125 kasnak rulmanlı siyah", 1)
		} else {
			p.named("40x140 kasnak rulmanlı siyah", 1)
		}
		p.named("rulman 12x28", 2)
		p.named("winde otomatik makara", 1)
		p.named("kordon geçme makarası 14 mm pvc", 1)
	case sel.movement == geometry.Manual && sel.manualStyle == "reduktorlu":
		for _, name := range reducerKit {
			p.named(name, 1)
		}
	}

	if sel.postType != "" {
		capType, hanger, gasket := "sl-55", "170 mm ( SL 55 )", "55'lik alt parça lastiği gri"
		if mini {
			capType, hanger, gasket = "sl-39", "130 mm ( SL 39 )", "39'luk alt parça lastiği gri"
		}

		caps := m.lamelCount
		if caps%2 != 0 {
			caps++
		}
		if p.named("pvc tapa "+capType, float64(caps)) {
			p.named("zımba teli 5", float64(caps))
		}
		p.named("çelik askı "+hanger, hangerCount(m.lamelWidth))
		p.named(gasket, m.lamelWidth/1000)
	}

	if sel.postAdapter == "var" {
		if item, ok := p.cat.HeightAdapter(sel.postColor); ok {
			length := (m.postHeight - geometry.NotchAllowance(sel.postType)) / 1000
			item.Unit = "metre"
			p.push(item, length*float64(m.postCount))
		}
	}

	if (sel.lamelThickness == "39_sl" || sel.lamelThickness == "45_se") && sel.manualStyle == "makarali" {
		p.named("stoper konik", 1)
	}

	if sel.subPart == "kilitli_alt_parca" {
		for _, name := range lockingRailKit {
			p.named(name, 1)
		}
	}

	if strings.HasPrefix(sel.postType, "midi_") && sel.boxType == "250mm" {
		p.named("55'lik lamel denge makarası", 1)
	}

	if mini && sel.lamelThickness == "39_sl" && sel.lamelType == geometry.MaterialCoated &&
		sel.movement == geometry.Manual && sel.pulleyStyle == "makasli" {
		p.named("panjur dikme makası", float64(m.postCount))
		p.named("panjur dikme menteşesi", float64(m.postCount))
	}

	if sel.movement == geometry.Motorized {
		if motor, ok := p.cat.Motor(sel.motorBrand, sel.motorModel, sel.motorStyle); ok {
			p.push(motor, 1)
		}
	}

	if seal, ok := p.cat.ExactAny(brushSeal); ok {
		seal.Unit = "Metre"
		p.push(seal, m.postHeight/1000*2)
	}

	return p.out
}
