package catalog

import (
	"fmt"
	"strings"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/geometry"
)

// Shutter catalog categories.
const (
	TypeLamel      = "panjur_lamel_profilleri"
	TypeBottomRail = "panjur_alt_parça_profilleri"
	TypePost       = "panjur_dikme_profilleri"
	TypeBox        = "kutu_profilleri"
	TypeRemote     = "otomasyon_kumandalar"
	TypeSmartHome  = "akilli_ev_sistemleri"
	TypeReceiver   = "otomasyon_alıcılar"
	TypeMotor      = "panjur_motorlari"
	TypeScreen     = "sineklik_profilleri"
)

// LamelDescription is the catalog text of a lamel, e.g. "39 mm Alüminyum Poliüretanlı Lamel Beyaz".
func LamelDescription(thickness, material, color string) string {
	prefix, _, _ := strings.Cut(thickness, "_")
	kind := "Ekstrüzyon"
	if material == geometry.MaterialCoated {
		kind = "Poliüretanlı"
	}
	return fmt.Sprintf("%s mm Alüminyum %s Lamel %s", prefix, kind, color)
}

// BottomRailDescription is e.g. "Kilitli Alt Parça Antrasit Gri".
func BottomRailDescription(subPart, color string) string {
	kind, _, _ := strings.Cut(subPart, "_")
	return fmt.Sprintf("%s Alt Parça %s", titleWord(kind), color)
}

// PostDescription is e.g. "Mini Dikme 53 mm Beyaz" or "Midi Dikme 60 mm Beyaz".
func PostDescription(postType, color string) string {
	if geometry.IsMini(postType) {
		return fmt.Sprintf("Mini Dikme 53 mm %s", color)
	}
	return fmt.Sprintf("Midi Dikme 60 mm %s", color)
}

// BoxDescriptions returns the front and back profile texts of a box.
func BoxDescriptions(boxType, color string) (front, back string) {
	size := strings.TrimSuffix(boxType, "mm")
	return fmt.Sprintf("%s - ÖN 45 Alüminyum Kutu %s", size, color),
		fmt.Sprintf("%s - ARKA 90 Alüminyum Kutu %s", size, color)
}

func mm(v float64) string {
	return fmt.Sprintf("%g mm", v)
}

// Lamel prices the curtain slats. The line quantity is the total slat length in
// metres and Pieces carries the slat count.
func (c *Catalog) Lamel(thickness, material, color string, count int, lamelWidth float64) *domain.SelectedProduct {
	item, ok := c.exactWithFallback(TypeLamel, color, func(col string) string {
		return LamelDescription(thickness, material, col)
	})
	if !ok || count <= 0 || lamelWidth <= 0 {
		return nil
	}
	item.Unit = "Metre"
	p := domain.NewSelectedProduct(item, lamelWidth/1000*float64(count), mm(lamelWidth))
	p.Pieces = count
	return &p
}

// BottomRail prices the bottom rail, one per curtain.
func (c *Catalog) BottomRail(subPart, color string, lamelWidth float64) *domain.SelectedProduct {
	if subPart == "" {
		return nil
	}
	item, ok := c.exactWithFallback(TypeBottomRail, color, func(col string) string {
		return BottomRailDescription(subPart, col)
	})
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, 1, mm(lamelWidth))
	return &p
}

// Posts prices the side posts, count pieces cut at postHeight.
func (c *Catalog) Posts(postType, color string, count int, postHeight float64) *domain.SelectedProduct {
	if postType == "" || count <= 0 {
		return nil
	}
	item, ok := c.exactWithFallback(TypePost, color, func(col string) string {
		return PostDescription(postType, col)
	})
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, float64(count), mm(postHeight))
	return &p
}

// Box prices the front and back box profiles; either may be missing independently.
func (c *Catalog) Box(boxType, color string, systemWidth float64) (front, back *domain.SelectedProduct) {
	if boxType == "" {
		return nil, nil
	}
	pick := func(back bool) *domain.SelectedProduct {
		item, ok := c.exactWithFallback(TypeBox, color, func(col string) string {
			f, b := BoxDescriptions(boxType, col)
			if back {
				return b
			}
			return f
		})
		if !ok {
			return nil
		}
		item.Unit = "Adet"
		p := domain.NewSelectedProduct(item, 1, mm(systemWidth))
		return &p
	}
	return pick(false), pick(true)
}

// TubeProfile prices the octagonal roller tube; the cut is the raw width less the drive end.
func (c *Catalog) TubeProfile(movement string, width float64) *domain.SelectedProduct {
	fragment, cut := "60mm Sekizgen Boru 0,60", width-80
	if movement == geometry.Manual {
		fragment, cut = "40mm Sekizgen Boru 0,40", width-60
	}
	item, ok := c.Containing(fragment)
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, 1, mm(cut))
	return &p
}

// Remote matches a remote-control option id against the automation catalog,
// tolerating Turkish letters written in ASCII.
func (c *Catalog) Remote(remote string) *domain.SelectedProduct {
	if remote == "" || remote == "yok" {
		return nil
	}
	name := NormalizeName(remote)
	folded := FoldTurkish(name)
	item, ok := c.Find(func(it domain.CatalogItem) bool {
		if !strings.EqualFold(it.Type, TypeRemote) {
			return false
		}
		return strings.Contains(FoldTurkish(it.Description), folded) || strings.Contains(it.Description, name)
	})
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, 1, "")
	return &p
}

var smartHomeNames = map[string]string{
	"mosel_dd_7002_b":         "Mosel DD 7002 B",
	"somfy_tahoma_switch_pro": "Somfy TAHOMA SWİTCH Pro",
}

// SmartHome prices the smart-home hub option.
func (c *Catalog) SmartHome(option string) *domain.SelectedProduct {
	if option == "" || option == "yok" {
		return nil
	}
	name, ok := smartHomeNames[option]
	if !ok {
		name = smartHomeNames["somfy_tahoma_switch_pro"]
	}
	item, ok := c.ContainingIn(TypeSmartHome, name, false)
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, 1, "")
	return &p
}

// Receiver resolves the receiver option name from the field definition and
// matches it exactly in the receiver catalog.
func (c *Catalog) Receiver(receiver string, field *domain.FieldDefinition) *domain.SelectedProduct {
	if receiver == "" || receiver == "yok" || field == nil {
		return nil
	}
	opt, ok := field.Option(receiver)
	if !ok || opt.Name == "" {
		return nil
	}
	item, ok := c.Exact(TypeReceiver, opt.Name)
	if !ok {
		return nil
	}
	item.Unit = "Adet"
	p := domain.NewSelectedProduct(item, 1, "")
	return &p
}

// MotorDescription is the lower-cased search key of a motor, e.g.
// "mosel sel 60-20 alıcılı motor".
func MotorDescription(brand, model, style string) string {
	kind := "Motor"
	if strings.HasPrefix(style, "alicili_") {
		kind = "Alıcılı Motor"
	}
	return strings.ToLower(fmt.Sprintf("%s %s %s", brand, strings.ReplaceAll(model, "_", " "), kind))
}

// Motor finds the tubular motor for brand, model and drive style.
func (c *Catalog) Motor(brand, model, style string) (domain.CatalogItem, bool) {
	if brand == "" || model == "" || style == "" {
		return domain.CatalogItem{}, false
	}
	return c.ContainingIn(TypeMotor, MotorDescription(brand, model, style), true)
}

// HeightAdapter finds the post height adapter profile matching the post colour.
func (c *Catalog) HeightAdapter(postColor string) (domain.CatalogItem, bool) {
	needle := strings.ToLower(NormalizeColor(postColor))
	return c.Find(func(it domain.CatalogItem) bool {
		return it.Type == TypeScreen && strings.Contains(strings.ToLower(it.Description), needle)
	})
}
