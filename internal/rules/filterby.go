package rules

import (
	"shutter-pricing-service/internal/domain"
)

// AllowedOptions narrows f's options by every filterBy rule whose source field
// currently holds a string or number listed in the rule's valueMap.
func AllowedOptions(f domain.FieldDefinition, state domain.State) []domain.FieldOption {
	allowed := f.Options
	for _, rule := range f.FilterBy {
		switch state[rule.Field].(type) {
		case string, float64, int, int64:
		default:
			continue
		}
		ids, ok := rule.ValueMap[state.String(rule.Field)]
		if !ok {
			continue
		}
		keep := make(map[string]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		narrowed := make([]domain.FieldOption, 0, len(allowed))
		for _, o := range allowed {
			if keep[o.ID] {
				narrowed = append(narrowed, o)
			}
		}
		allowed = narrowed
	}
	return allowed
}

func hasOption(options []domain.FieldOption, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// ApplyFilterBy keeps every filtered field on an allowed option. A value outside
// the allowed set moves to the field's default when allowed, else to the first
// allowed option; a single remaining option is always selected. A field whose
// rules leave no option keeps its value and is reported as a warning. It returns
// the new state, the allowed options per filtered field and the warnings.
func ApplyFilterBy(fields []domain.FieldDefinition, state domain.State) (domain.State, map[string][]domain.FieldOption, []Warning) {
	out := state.Clone()
	options := make(map[string][]domain.FieldOption)
	var warnings []Warning
	for _, f := range fields {
		if len(f.FilterBy) == 0 || len(f.Options) == 0 {
			continue
		}
		allowed := AllowedOptions(f, out)
		options[f.ID] = allowed
		if len(allowed) == 0 {
			warnings = append(warnings, Warning{Field: f.ID, Code: WarnNoAllowedOption, Message: "no option of " + f.ID + " is allowed by the current selection"})
			continue
		}
		current := out.String(f.ID)
		if len(allowed) == 1 {
			if current != allowed[0].ID {
				out[f.ID] = allowed[0].ID
			}
			continue
		}
		if hasOption(allowed, current) {
			continue
		}
		if def := domain.ValueString(f.Default); f.HasDefault() && hasOption(allowed, def) {
			out[f.ID] = def
		} else {
			out[f.ID] = allowed[0].ID
		}
	}
	return out, options, warnings
}
