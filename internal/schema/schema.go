// Package schema loads product field definitions from TOML files and turns
// them into the domain tree the rules engine walks.
package schema

import (
	"github.com/m-mizutani/goerr/v2"

	"shutter-pricing-service/internal/domain"
)

// File is one product schema as written on disk.
type File struct {
	ProductID string `toml:"product_id"`
	Name      string `toml:"name"`
	Tabs      []Tab  `toml:"tabs"`
}

// Tab groups fields on one configuration page.
type Tab struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Fields []Field `toml:"fields"`
}

// Field is a field definition. Default and DependsOn.Value keep whatever
// TOML type was written; conversion normalises them.
type Field struct {
	ID        string       `toml:"id"`
	Name      string       `toml:"name"`
	Type      string       `toml:"type"`
	Min       *float64     `toml:"min"`
	Max       *float64     `toml:"max"`
	Default   any          `toml:"default"`
	Disabled  bool         `toml:"disabled"`
	DependsOn *DependsOn   `toml:"dependsOn"`
	FilterBy  []FilterRule `toml:"filterBy"`
	Options   []Option     `toml:"options"`
}

// DependsOn accepts `value = "x"` as well as `value = ["x", "y"]`.
type DependsOn struct {
	Field string `toml:"field"`
	Value any    `toml:"value"`
}

type FilterRule struct {
	Field    string              `toml:"field"`
	ValueMap map[string][]string `toml:"valueMap"`
}

type Option struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Color string `toml:"color"`
	Image string `toml:"image"`
}

// Validate checks if the Field is valid on its own.
func (f *Field) Validate() error {
	if f.ID == "" {
		return goerr.New("field ID is required", goerr.V(fieldKey, f.Name))
	}
	t := domain.FieldType(f.Type)
	if !t.Valid() {
		return goerr.Wrap(ErrInvalidFieldType, "unknown type", goerr.V(fieldKey, f.ID), goerr.V("type", f.Type))
	}
	if (t == domain.FieldSelect || t == domain.FieldRadio) && len(f.Options) == 0 && len(f.FilterBy) == 0 {
		return goerr.Wrap(ErrMissingOptions, "no options provided", goerr.V(fieldKey, f.ID))
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return goerr.Wrap(ErrInvalidRange, "bad numeric range", goerr.V(fieldKey, f.ID), goerr.V("min", *f.Min), goerr.V("max", *f.Max))
	}

	optionIDs := make(map[string]bool)
	for _, o := range f.Options {
		if optionIDs[o.ID] {
			return goerr.Wrap(ErrDuplicateOptionID, "found duplicate", goerr.V(fieldKey, f.ID), goerr.V(optionKey, o.ID))
		}
		optionIDs[o.ID] = true
	}
	return nil
}

// Validate checks the whole file: duplicate ids across tabs and references
// from dependsOn and filterBy.
func (s *File) Validate() error {
	if s.ProductID == "" {
		return ErrMissingProductID
	}

	tabIDs := make(map[string]bool)
	fieldIDs := make(map[string]bool)
	for _, tab := range s.Tabs {
		if tabIDs[tab.ID] {
			return goerr.Wrap(ErrDuplicateTabID, "found duplicate", goerr.V(tabKey, tab.ID))
		}
		tabIDs[tab.ID] = true

		for i := range tab.Fields {
			f := &tab.Fields[i]
			if err := f.Validate(); err != nil {
				return goerr.Wrap(err, "invalid field", goerr.V(tabKey, tab.ID))
			}
			if fieldIDs[f.ID] {
				return goerr.Wrap(ErrDuplicateFieldID, "found duplicate", goerr.V(fieldKey, f.ID))
			}
			fieldIDs[f.ID] = true
		}
	}

	// References may point forward, so they are checked once every id is known.
	for _, tab := range s.Tabs {
		for _, f := range tab.Fields {
			if f.DependsOn != nil && !fieldIDs[f.DependsOn.Field] {
				return goerr.Wrap(ErrUnknownDependency, "dangling dependsOn", goerr.V(fieldKey, f.ID), goerr.V("depends_on", f.DependsOn.Field))
			}
			for _, rule := range f.FilterBy {
				if !fieldIDs[rule.Field] {
					return goerr.Wrap(ErrUnknownFilterSource, "dangling filterBy", goerr.V(fieldKey, f.ID), goerr.V("filter_by", rule.Field))
				}
			}
		}
	}
	return nil
}

// ToDomain converts a validated file into a domain.ProductSchema.
func (s *File) ToDomain() domain.ProductSchema {
	tabs := make([]domain.Tab, len(s.Tabs))
	for i, tab := range s.Tabs {
		fields := make([]domain.FieldDefinition, len(tab.Fields))
		for j, f := range tab.Fields {
			fields[j] = f.toDomain()
		}
		tabs[i] = domain.Tab{ID: tab.ID, Name: tab.Name, Fields: fields}
	}
	return domain.ProductSchema{ProductID: s.ProductID, Name: s.Name, Tabs: tabs}
}

func (f Field) toDomain() domain.FieldDefinition {
	def := domain.FieldDefinition{
		ID:       f.ID,
		Name:     f.Name,
		Type:     domain.FieldType(f.Type),
		Min:      f.Min,
		Max:      f.Max,
		Default:  domain.Normalize(f.Default),
		Disabled: f.Disabled,
	}
	if len(f.Options) > 0 {
		def.Options = make([]domain.FieldOption, len(f.Options))
		for i, o := range f.Options {
			def.Options[i] = domain.FieldOption{ID: o.ID, Name: o.Name, Color: o.Color, Image: o.Image}
		}
	}
	if f.DependsOn != nil {
		def.DependsOn = &domain.Dependency{Field: f.DependsOn.Field, Values: dependencyValues(f.DependsOn.Value)}
	}
	for _, rule := range f.FilterBy {
		def.FilterBy = append(def.FilterBy, domain.FilterRule{Field: rule.Field, ValueMap: rule.ValueMap})
	}
	return def
}

func dependencyValues(v any) domain.DependencyValues {
	switch t := v.(type) {
	case nil:
		return domain.DependencyValues{}
	case []any:
		out := make(domain.DependencyValues, 0, len(t))
		for _, item := range t {
			out = append(out, domain.ValueString(domain.Normalize(item)))
		}
		return out
	}
	return domain.DependencyValues{domain.ValueString(domain.Normalize(v))}
}
