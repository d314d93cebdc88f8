package domain

import (
	"encoding/json"
	"fmt"
)

// FieldType is the input kind of a configuration field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// FieldOption is one selectable value of a select or radio field.
type FieldOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

// DependencyValues decodes both a single value and a list of values.
type DependencyValues []string

func (v *DependencyValues) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		out := make(DependencyValues, 0, len(list))
		for _, item := range list {
			out = append(out, ValueString(item))
		}
		*v = out
		return nil
	}
	var single any
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("domain: invalid dependsOn value: %w", err)
	}
	*v = DependencyValues{ValueString(single)}
	return nil
}

// Dependency makes a field visible only while Field holds one of Values.
type Dependency struct {
	Field  string           `json:"field"`
	Values DependencyValues `json:"value"`
}

// Allows reports whether value satisfies the dependency.
func (d Dependency) Allows(value string) bool {
	for _, v := range d.Values {
		if v == value {
			return true
		}
	}
	return false
}

// FilterRule narrows a field's options by the value of another field.
type FilterRule struct {
	Field    string              `json:"field"`
	ValueMap map[string][]string `json:"valueMap"`
}

// FieldDefinition describes one configurable field of a product.
type FieldDefinition struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      FieldType     `json:"type"`
	Options   []FieldOption `json:"options,omitempty"`
	Min       *float64      `json:"min,omitempty"`
	Max       *float64      `json:"max,omitempty"`
	Default   any           `json:"default,omitempty"` // nil when the field has no default
	DependsOn *Dependency   `json:"dependsOn,omitempty"`
	FilterBy  []FilterRule  `json:"filterBy,omitempty"`
	Disabled  bool          `json:"disabled,omitempty"`
}

// HasDefault reports whether a default value is declared.
func (f FieldDefinition) HasDefault() bool {
	return f.Default != nil
}

// ResetValue is the value a field falls back to when its dependency breaks.
func (f FieldDefinition) ResetValue() any {
	if f.Default != nil {
		return f.Default
	}
	return ""
}

// Option returns the option with the given id.
func (f FieldDefinition) Option(id string) (FieldOption, bool) {
	for _, o := range f.Options {
		if o.ID == id {
			return o, true
		}
	}
	return FieldOption{}, false
}

// Tab groups fields on one configuration page.
type Tab struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// ProductSchema is the field-definition tree of one product.
type ProductSchema struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Tabs      []Tab  `json:"tabs"`
}

// Fields flattens all tabs in declared order.
func (s ProductSchema) Fields() []FieldDefinition {
	var out []FieldDefinition
	for _, t := range s.Tabs {
		out = append(out, t.Fields...)
	}
	return out
}

// Field finds a field by id across tabs.
func (s ProductSchema) Field(id string) (FieldDefinition, bool) {
	for _, t := range s.Tabs {
		for _, f := range t.Fields {
			if f.ID == id {
				return f, true
			}
		}
	}
	return FieldDefinition{}, false
}
