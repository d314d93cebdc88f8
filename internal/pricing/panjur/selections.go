// Package panjur builds the bill of materials of a roller shutter: the main
// profiles priced from the product catalog and the hardware priced from the
// accessory catalog.
package panjur

import (
	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/geometry"
)

// ProductID is the catalog product id of roller shutters.
const ProductID = "panjur"

// selections is the typed view of a shutter configuration state.
type selections struct {
	width, height  float64
	postConvention string
	boxConvention  string
	postType       string
	boxType        string
	lamelThickness string
	lamelType      string
	lamelColor     string
	subPart        string
	subPartColor   string
	postColor      string
	boxColor       string
	postAdapter    string
	movement       string
	manualStyle    string
	pulleyStyle    string
	motorBrand     string
	motorModel     string
	motorStyle     string
	remote         string
	smartHome      string
	receiver       string
}

func readSelections(s domain.State) selections {
	sel := selections{
		width:          s.Number("width"),
		height:         s.Number("height"),
		postConvention: s.String("dikmeOlcuAlmaSekli"),
		boxConvention:  s.String("kutuOlcuAlmaSekli"),
		postType:       s.String("dikmeType"),
		boxType:        s.String("boxType"),
		lamelThickness: s.String("lamelTickness"),
		lamelType:      s.String("lamelType"),
		lamelColor:     s.String("lamel_color"),
		subPart:        s.String("subPart"),
		subPartColor:   s.String("subPart_color"),
		postColor:      s.String("dikme_color"),
		boxColor:       s.String("box_color"),
		postAdapter:    s.String("dikmeAdapter"),
		movement:       s.String("movementType"),
		manualStyle:    s.String("manuelSekli"),
		pulleyStyle:    s.String("makaraliTip"),
		motorBrand:     s.String("motorMarka"),
		motorModel:     s.String("motorModel"),
		motorStyle:     s.String("motorSekli"),
		remote:         s.String("remote"),
		smartHome:      s.String("smarthome"),
		receiver:       s.String("receiver"),
	}
	if sel.subPartColor == "" {
		sel.subPartColor = sel.lamelColor
	}
	return sel
}

// measurements are the derived dimensions shared by products and accessories.
type measurements struct {
	systemWidth  float64
	systemHeight float64
	lamelWidth   float64
	lamelCount   int
	postHeight   float64
	postCount    int
}

func measure(sel selections, sectionCount int) measurements {
	if sectionCount <= 0 {
		sectionCount = 1
	}
	m := measurements{
		systemWidth:  geometry.SystemWidth(sel.width, sel.postConvention, sel.postType),
		systemHeight: geometry.SystemHeight(sel.height, sel.boxConvention, sel.boxType),
		postCount:    sectionCount * 2,
	}
	m.lamelWidth = geometry.LamelWidth(m.systemWidth, sel.postType)
	m.lamelCount = geometry.LamelCount(m.systemHeight, sel.boxType, sel.lamelThickness)
	m.postHeight = geometry.PostHeight(m.systemHeight, sel.boxType, sel.postType)
	return m
}

func fieldByID(fields []domain.FieldDefinition, id string) *domain.FieldDefinition {
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i]
		}
	}
	return nil
}
