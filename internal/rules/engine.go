package rules

import (
	"shutter-pricing-service/internal/domain"
)

// Warning codes reported by filterBy and the product filters.
const (
	WarnNoValidBox      = "no_valid_box"
	WarnNoValidLamel    = "no_valid_lamel"
	WarnMotorDowngraded = "motor_downgraded"
	WarnNoAllowedOption = "no_allowed_option"
)

// Warning tells the caller a filter could not satisfy the configuration.
type Warning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FilterResult is what one product filter produced. Options is nil when the
// filter did not run to completion.
type FilterResult struct {
	Field   string
	Options []domain.FieldOption
	Warning *Warning
}

// Filter is a product-specific option rule. Apply may write to state; the
// engine only hands it a working copy.
type Filter interface {
	// Triggers lists the keys whose change runs the filter; empty means always.
	Triggers() []string
	Apply(fields []domain.FieldDefinition, state domain.State) FilterResult
}

// Outcome is the settled result of one edit.
type Outcome struct {
	State    domain.State                    `json:"state"`
	Warnings []Warning                       `json:"warnings"`
	Options  map[string][]domain.FieldOption `json:"options"`
}

// Engine runs the resolver, filterBy and the filters registered for a product.
type Engine struct {
	filters map[string][]Filter
}

func NewEngine() *Engine {
	return &Engine{filters: make(map[string][]Filter)}
}

// NewDefaultEngine registers the shutter filters in the order they depend on
// each other: thickness, then box, then motor.
func NewDefaultEngine() *Engine {
	e := NewEngine()
	e.Register("panjur", LamelThicknessFilter{}, BoxSizeFilter{}, MotorModelFilter{})
	return e
}

// Register appends filters for productID. It must not be called concurrently with Apply.
func (e *Engine) Register(productID string, filters ...Filter) {
	e.filters[productID] = append(e.filters[productID], filters...)
}

func triggered(f Filter, changed map[string]bool) bool {
	keys := f.Triggers()
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if changed[k] {
			return true
		}
	}
	return false
}

// Apply settles next after an edit from prev. Keys changed by one round feed
// the next round until nothing moves; the number of rounds is bounded by the
// number of fields. Neither prev nor next is modified.
func (e *Engine) Apply(productID string, fields []domain.FieldDefinition, prev, next domain.State) Outcome {
	out := Outcome{
		State:    next.Clone(),
		Warnings: []Warning{},
		Options:  make(map[string][]domain.FieldOption),
	}
	seen := make(map[Warning]bool)
	warn := func(w Warning) {
		if !seen[w] {
			seen[w] = true
			out.Warnings = append(out.Warnings, w)
		}
	}
	filters := e.filters[productID]

	changed := prev.ChangedKeys(next)
	for round := 0; round <= len(fields) && len(changed) > 0; round++ {
		before := out.State.Clone()

		state := Resolve(fields, out.State, changed)
		state, options, warnings := ApplyFilterBy(fields, state)
		for id, opts := range options {
			out.Options[id] = opts
		}
		for _, w := range warnings {
			warn(w)
		}

		touched := make(map[string]bool)
		for _, k := range changed {
			touched[k] = true
		}
		for _, k := range before.ChangedKeys(state) {
			touched[k] = true
		}

		for _, f := range filters {
			if !triggered(f, touched) {
				continue
			}
			snapshot := state.Clone()
			res := f.Apply(fields, state)
			if res.Field != "" && res.Options != nil {
				out.Options[res.Field] = res.Options
			}
			if res.Warning != nil {
				warn(*res.Warning)
			}
			for _, k := range snapshot.ChangedKeys(state) {
				touched[k] = true
			}
		}

		out.State = state
		changed = before.ChangedKeys(state)
	}
	return out
}
