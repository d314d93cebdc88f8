package sineklik

import (
	"math"

	"shutter-pricing-service/internal/catalog"
	"shutter-pricing-service/internal/domain"
)

// Accessory stock codes.
const (
	meshNormal      = "378212401900"
	meshPetProof    = "378212701900"
	pliseMeshNormal = "378151200200"
	pliseMeshPet    = "378212201900"

	gasketLight = "378335101100"
	gasketDark  = "378335201100"

	hingedFrameCornerLight = "378317031200"
	hingedFrameCornerDark  = "378317041200"
	hingedSashCorner       = "378317051200"
	windowHingeLight       = "378332232000"
	windowHingeDark        = "378332251100"

	fixedCornerLight = "378332101100"
	fixedCornerDark  = "378332102000"

	slidingFrameBlock = "378143260000"
	slidingSashBlock  = "378143270000"
	slidingWheel      = "378143280000"

	pliseTape           = "378313041200"
	pliseRope           = "378314001200"
	pliseBead           = "378317021200"
	pliseMagnet         = "378322001200"
	pliseKitSillLight   = "378250161200"
	pliseKitSillDark    = "378261801900"
	pliseKitFramedLight = "378242201900"
	pliseKitFramedDark  = "378250141200"
)

// pleatFactor is the pleat depth in metres per mesh piece.
const pleatFactor = 0.03

// Calculator prices insect screens. The zero value is ready to use.
type Calculator struct{}

type lines struct {
	cat *catalog.Catalog
	out []domain.CatalogItem
}

func (l *lines) add(item domain.CatalogItem) {
	l.out = append(l.out, item)
}

// counted adds the item for code at a fixed quantity.
func (l *lines) counted(code string, qty float64) {
	if item, ok := l.cat.ByStockCode(code); ok {
		l.add(item.WithQuantity(qty))
	}
}

// measured adds one piece priced by its measurement.
func (l *lines) measured(code string, measurement float64) {
	item, ok := l.cat.ByStockCode(code)
	if !ok {
		return
	}
	ppp := item.UnitPrice().Mul(num(measurement))
	l.add(item.WithMeasurement(measurement, ppp).WithQuantity(1))
}

func pick(light bool, lightCode, darkCode string) string {
	if light {
		return lightCode
	}
	return darkCode
}

// Accessories selects the mesh, gaskets and hardware for the configured variant.
func (Calculator) Accessories(in domain.CalculationInput) []domain.CatalogItem {
	sel := readSelections(in.State)
	l := &lines{cat: catalog.New(in.Accessories)}

	switch sel.variant {
	case Menteseli:
		flatMesh(l, sel)
		gasket(l, sel)
		if sel.hingedOpening != OpenOutward {
			l.counted(pick(sel.light(), hingedFrameCornerLight, hingedFrameCornerDark), 4)
		}
		l.counted(hingedSashCorner, 4)
		if sel.hingedOpening != OpenInward {
			l.counted(pick(sel.light(), windowHingeLight, windowHingeDark), 4)
		}
	case Sabit:
		flatMesh(l, sel)
		gasket(l, sel)
		l.counted(pick(sel.light(), fixedCornerLight, fixedCornerDark), 4)
	case Surme:
		flatMesh(l, sel)
		gasket(l, sel)
		l.counted(slidingFrameBlock, 4)
		l.counted(slidingSashBlock, 4)
		l.counted(slidingWheel, 2)
	case Plise:
		pliseAccessories(l, sel)
	}
	return l.out
}

// flatMesh is the mesh of hinged, fixed and sliding screens, priced per m².
func flatMesh(l *lines, sel selections) {
	var code string
	switch sel.mesh {
	case MeshNormal:
		code = meshNormal
	case MeshPetProof:
		code = meshPetProof
	default:
		return
	}
	l.measured(code, sel.width/1000*(sel.height/1000))
}

// gasket runs around the frame, priced per metre.
func gasket(l *lines, sel selections) {
	l.measured(pick(sel.light(), gasketLight, gasketDark), (sel.width+sel.height)*2/1000)
}

func ropeCount(span float64) float64 {
	switch {
	case span < 1500:
		return 4
	case span < 2100:
		return 6
	}
	return 8
}

func pliseAccessories(l *lines, sel selections) {
	run := sel.pliseRun()

	var meshCode string
	switch sel.mesh {
	case MeshNormal:
		meshCode = pliseMeshNormal
	case MeshPetProof:
		meshCode = pliseMeshPet
	}
	if mesh, ok := l.cat.ByStockCode(meshCode); ok && meshCode != "" {
		span := sel.width
		if sel.pliseOpening == PliseVertical {
			span = sel.height
		}
		pieces := math.Ceil(span/30 + 2)
		ppp := mesh.UnitPrice().Mul(num(pleatFactor)).Mul(num(run / 1000))
		panels := 1
		if sel.twoPanels() {
			pieces = math.Ceil(pieces / 2)
			panels = 2
		}
		for i := 0; i < panels; i++ {
			l.add(mesh.WithMeasurement(run/1000*pleatFactor*pieces, ppp).WithQuantity(pieces))
		}
	}

	if tape, ok := l.cat.ByStockCode(pliseTape); ok {
		qty := 4.0
		if sel.pliseOpening == PliseVertical || sel.pliseOpening == PliseSideways {
			qty = 2
		}
		l.add(tape.WithMeasurement(run, perMetre(tape.UnitPrice(), run)).WithQuantity(qty))
	}

	rope, hasRope := l.cat.ByStockCode(pliseRope)
	if hasRope {
		measurement := ceil1((sel.width + sel.height + 150) / 1000)
		var qty float64
		if sel.pliseOpening == PliseVertical {
			qty = ropeCount(sel.width)
		} else {
			qty = ropeCount(sel.height)
			if sel.twoPanels() {
				qty *= 2
				measurement /= 2
			}
		}
		rope = rope.WithMeasurement(measurement, rope.UnitPrice().Mul(num(measurement))).WithQuantity(qty)
		l.add(rope)
	}

	if bead, ok := l.cat.ByStockCode(pliseBead); ok && hasRope {
		qty := rope.Quantity
		if qty == 0 {
			qty = 1
		}
		price := bead.UnitPrice()
		bead.PricePerPiece = &price
		l.add(bead.WithQuantity(qty))
	}

	kitCode := pick(sel.light(), pliseKitFramedLight, pliseKitFramedDark)
	if sel.frame == FrameSillless {
		kitCode = pick(sel.light(), pliseKitSillLight, pliseKitSillDark)
	}
	if kit, ok := l.cat.ByStockCode(kitCode); ok {
		price := kit.UnitPrice()
		kit.PricePerPiece = &price
		l.add(kit.WithQuantity(1))
	}

	if sel.pliseOpening == PliseDouble {
		if magnet, ok := l.cat.ByStockCode(pliseMagnet); ok {
			measurement := sel.height - 50
			l.add(magnet.WithMeasurement(measurement, perMetre(magnet.UnitPrice(), measurement)).WithQuantity(2))
		}
	}
}
