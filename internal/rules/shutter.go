package rules

import (
	"strings"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/geometry"
)

// Shutter field ids the option filters read and write.
const (
	FieldWidth          = "width"
	FieldHeight         = "height"
	FieldLamelType      = "lamelType"
	FieldLamelThickness = "lamelTickness"
	FieldBoxType        = "boxType"
	FieldBoxConvention  = "kutuOlcuAlmaSekli"
	FieldMovementType   = "movementType"
	FieldMotorBrand     = "motorMarka"
	FieldMotorModel     = "motorModel"
)

func findField(fields []domain.FieldDefinition, id string) (domain.FieldDefinition, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return domain.FieldDefinition{}, false
}

// namedOption prefers the schema's label for id and falls back to fallback.
func namedOption(def domain.FieldDefinition, id, fallback string) domain.FieldOption {
	if o, ok := def.Option(id); ok {
		return o
	}
	return domain.FieldOption{ID: id, Name: fallback}
}

// BoxSizeFilter offers every box able to carry the curtain height and always
// selects the smallest one, including after a direct edit of the box.
type BoxSizeFilter struct{}

func (BoxSizeFilter) Triggers() []string {
	return []string{FieldWidth, FieldHeight, FieldLamelType, FieldBoxConvention, FieldLamelThickness, FieldMovementType, FieldBoxType}
}

func (BoxSizeFilter) Apply(fields []domain.FieldDefinition, state domain.State) FilterResult {
	height := state.Number(FieldHeight)
	thickness := state.String(FieldLamelThickness)
	movement := state.String(FieldMovementType)
	convention := state.String(FieldBoxConvention)
	def, _ := findField(fields, FieldBoxType)

	var valid []domain.FieldOption
	for _, box := range geometry.BoxSizes {
		limit := geometry.MaxLamelHeight(box, thickness, movement)
		if limit > 0 && geometry.LamelHeight(height, convention, box) <= limit {
			valid = append(valid, namedOption(def, box, strings.ToUpper(box)))
		}
	}

	res := FilterResult{Field: FieldBoxType, Options: valid}
	if len(valid) == 0 {
		res.Warning = &Warning{Field: FieldBoxType, Code: WarnNoValidBox, Message: "no box can carry the selected curtain height"}
		return res
	}
	state[FieldBoxType] = valid[0].ID
	return res
}

// LamelThicknessFilter keeps the lamel thickness on one rated for the
// dimensions. A rated choice is kept; anything else moves to the first rated
// thickness. The material always follows the thickness.
type LamelThicknessFilter struct{}

func (LamelThicknessFilter) Triggers() []string {
	return []string{FieldWidth, FieldHeight, FieldLamelThickness, FieldLamelType}
}

func (LamelThicknessFilter) Apply(fields []domain.FieldDefinition, state domain.State) FilterResult {
	width, height := state.Number(FieldWidth), state.Number(FieldHeight)
	def, _ := findField(fields, FieldLamelThickness)

	var valid []domain.FieldOption
	for _, spec := range geometry.LamelSpecs {
		if spec.Fits(width, height) {
			valid = append(valid, namedOption(def, spec.Thickness, spec.Thickness))
		}
	}

	res := FilterResult{Field: FieldLamelThickness, Options: valid}
	if len(valid) == 0 {
		res.Warning = &Warning{Field: FieldLamelThickness, Code: WarnNoValidLamel, Message: "no lamel is rated for the selected dimensions"}
		return res
	}
	chosen := state.String(FieldLamelThickness)
	if !hasOption(valid, chosen) {
		chosen = valid[0].ID
	}
	state[FieldLamelThickness] = chosen
	state[FieldLamelType] = geometry.MaterialFor(chosen)
	return res
}

// MotorModelFilter keeps the motor models of the chosen brand able to lift the
// curtain area. When none can, the shutter is downgraded to manual operation.
type MotorModelFilter struct{}

func (MotorModelFilter) Triggers() []string {
	return []string{FieldWidth, FieldHeight, FieldLamelType, FieldMovementType, FieldMotorBrand, FieldMotorModel}
}

func (MotorModelFilter) Apply(fields []domain.FieldDefinition, state domain.State) FilterResult {
	width, height := state.Number(FieldWidth), state.Number(FieldHeight)
	material := state.String(FieldLamelType)
	if state.String(FieldMovementType) != geometry.Motorized || width == 0 || height == 0 || material == "" {
		return FilterResult{}
	}

	area := width * height / 1e6
	thicknesses := geometry.FamilyThicknesses(material)
	prefix := geometry.MotorBrandPrefix(state.String(FieldMotorBrand))

	lifts := make(map[string]bool)
	for _, motor := range geometry.MotorIDs {
		if !strings.HasPrefix(motor, prefix) {
			continue
		}
		for _, th := range thicknesses {
			if c := geometry.MotorCapacity(th, motor); c > 0 && c >= area {
				lifts[motor] = true
				break
			}
		}
	}

	var allowed []domain.FieldOption
	if def, ok := findField(fields, FieldMotorModel); ok && len(def.Options) > 0 {
		for _, o := range def.Options {
			if lifts[o.ID] {
				allowed = append(allowed, o)
			}
		}
	} else {
		for _, motor := range geometry.MotorIDs {
			if lifts[motor] {
				allowed = append(allowed, domain.FieldOption{ID: motor, Name: motor})
			}
		}
	}

	if len(allowed) == 0 {
		state[FieldMovementType] = geometry.Manual
		return FilterResult{
			Field:   FieldMotorModel,
			Warning: &Warning{Field: FieldMovementType, Code: WarnMotorDowngraded, Message: "no motor lifts the selected dimensions, movement set to manual"},
		}
	}
	if !hasOption(allowed, state.String(FieldMotorModel)) {
		state[FieldMotorModel] = allowed[0].ID
	}
	return FilterResult{Field: FieldMotorModel, Options: allowed}
}
