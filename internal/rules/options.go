package rules

import (
	"shutter-pricing-service/internal/domain"
)

// FieldPostType is narrowed by the shutter option and section count.
const FieldPostType = "dikmeType"

type postFamily struct {
	single []string
	multi  []string // sections > 1 also allow the middle posts
}

var shutterPostFamilies = map[string]postFamily{
	"distan": {
		single: []string{"mini_dikme", "midi_dikme"},
		multi:  []string{"mini_dikme", "mini_orta_dikme", "midi_dikme", "midi_orta_dikme"},
	},
	"monoblok": {
		single: []string{"mini_pvc_dikme", "midi_pvc_dikme"},
		multi:  []string{"mini_pvc_dikme", "mini_pvc_orta_dikme", "midi_pvc_dikme", "midi_pvc_orta_dikme"},
	},
}

// NarrowSchema returns a copy of the schema with the post types restricted to
// what the shutter option and section count (typeID) allow. A default that was
// filtered out moves to the first remaining option. Other products and unknown
// options come back unchanged.
func NarrowSchema(s domain.ProductSchema, optionID string, typeID int) domain.ProductSchema {
	family, ok := shutterPostFamilies[optionID]
	if s.ProductID != "panjur" || !ok {
		return s
	}
	ids := family.single
	if typeID > 1 {
		ids = family.multi
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	out := s
	out.Tabs = make([]domain.Tab, len(s.Tabs))
	for i, tab := range s.Tabs {
		out.Tabs[i] = tab
		if tab.ID != "frame" {
			continue
		}
		fields := make([]domain.FieldDefinition, len(tab.Fields))
		copy(fields, tab.Fields)
		for j := range fields {
			if fields[j].ID != FieldPostType {
				continue
			}
			var opts []domain.FieldOption
			for _, o := range fields[j].Options {
				if keep[o.ID] {
					opts = append(opts, o)
				}
			}
			fields[j].Options = opts
			if d := fields[j].Default; d != nil && !hasOption(opts, domain.ValueString(d)) && len(opts) > 0 {
				fields[j].Default = opts[0].ID
			}
		}
		out.Tabs[i].Fields = fields
	}
	return out
}
