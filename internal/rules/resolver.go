// Package rules keeps a configuration state consistent with its field schema:
// dependency resets, filterBy narrowing and the product-specific option filters.
package rules

import (
	"sort"

	"shutter-pricing-service/internal/domain"
)

type fieldIndex map[string]*domain.FieldDefinition

func indexFields(fields []domain.FieldDefinition) fieldIndex {
	idx := make(fieldIndex, len(fields))
	for i := range fields {
		if _, dup := idx[fields[i].ID]; !dup {
			idx[fields[i].ID] = &fields[i]
		}
	}
	return idx
}

// chainValid walks dependsOn up to a root field. A field already seen on the
// walk counts as valid so cyclic schemas terminate.
func chainValid(f *domain.FieldDefinition, state domain.State, idx fieldIndex, seen map[string]bool) bool {
	if f.DependsOn == nil {
		return true
	}
	if seen[f.ID] {
		return true
	}
	seen[f.ID] = true
	parentValue := state.String(f.DependsOn.Field)
	if parentValue == "" || !f.DependsOn.Allows(parentValue) {
		return false
	}
	parent, ok := idx[f.DependsOn.Field]
	if !ok {
		return true
	}
	return chainValid(parent, state, idx, seen)
}

// IsVisible reports whether the field's full dependsOn chain holds in state.
func IsVisible(fields []domain.FieldDefinition, state domain.State, id string) bool {
	idx := indexFields(fields)
	f, ok := idx[id]
	if !ok {
		return false
	}
	return chainValid(f, state, idx, map[string]bool{})
}

// VisibleFields filters fields down to the ones whose chain holds.
func VisibleFields(fields []domain.FieldDefinition, state domain.State) []domain.FieldDefinition {
	idx := indexFields(fields)
	var out []domain.FieldDefinition
	for i := range fields {
		if chainValid(&fields[i], state, idx, map[string]bool{}) {
			out = append(out, fields[i])
		}
	}
	return out
}

// DefaultState seeds a state from declared defaults.
func DefaultState(fields []domain.FieldDefinition) domain.State {
	s := domain.State{}
	for _, f := range fields {
		if f.HasDefault() {
			s[f.ID] = domain.Normalize(f.Default)
		}
	}
	return s
}

// depth is the length of the dependsOn chain above a field.
func depth(f *domain.FieldDefinition, idx fieldIndex, seen map[string]bool) int {
	if f.DependsOn == nil || seen[f.ID] {
		return 0
	}
	seen[f.ID] = true
	parent, ok := idx[f.DependsOn.Field]
	if !ok {
		return 1
	}
	return 1 + depth(parent, idx, seen)
}

// dependents returns the indices of every field transitively depending on keys,
// ordered parents first and then by schema position.
func dependents(fields []domain.FieldDefinition, idx fieldIndex, keys map[string]bool) []int {
	children := make(map[string][]int)
	for i := range fields {
		if d := fields[i].DependsOn; d != nil {
			children[d.Field] = append(children[d.Field], i)
		}
	}

	queue := make([]string, 0, len(keys))
	for k := range keys {
		queue = append(queue, k)
	}
	sort.Strings(queue)

	affected := make(map[int]bool)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, ci := range children[id] {
			if !affected[ci] {
				affected[ci] = true
				queue = append(queue, fields[ci].ID)
			}
		}
	}

	order := make([]int, 0, len(affected))
	depths := make(map[int]int, len(affected))
	for i := range affected {
		order = append(order, i)
		depths[i] = depth(&fields[i], idx, map[string]bool{})
	}
	sort.Slice(order, func(a, b int) bool {
		if depths[order[a]] != depths[order[b]] {
			return depths[order[a]] < depths[order[b]]
		}
		return order[a] < order[b]
	})
	return order
}

// Resolve resets every field whose dependency chain no longer holds after the
// changed keys were edited, the edited fields included. Invalid fields fall back
// to their default or "", and a final pass forces declared defaults on any field
// still invalid. The
// result does not depend on the order of changed, and resolving the result
// again with the same keys returns it unchanged. state is never modified.
func Resolve(fields []domain.FieldDefinition, state domain.State, changed []string) domain.State {
	out := state.Clone()
	if len(fields) == 0 {
		return out
	}
	idx := indexFields(fields)

	keys := make(map[string]bool, len(changed))
	for _, k := range changed {
		keys[k] = true
	}

	set := func(f *domain.FieldDefinition, v any) bool {
		if domain.ValueString(out[f.ID]) == domain.ValueString(v) {
			return false
		}
		out[f.ID] = domain.Normalize(v)
		keys[f.ID] = true
		return true
	}

	edited := make([]string, 0, len(keys))
	for k := range keys {
		edited = append(edited, k)
	}
	sort.Strings(edited)
	for _, k := range edited {
		if f, ok := idx[k]; ok && !chainValid(f, out, idx, map[string]bool{}) {
			set(f, f.ResetValue())
		}
	}

	for round := 0; round <= len(fields); round++ {
		moved := false

		order := dependents(fields, idx, keys)
		for pass := 0; pass <= len(fields); pass++ {
			passMoved := false
			for _, i := range order {
				f := &fields[i]
				if !chainValid(f, out, idx, map[string]bool{}) && set(f, f.ResetValue()) {
					passMoved = true
				}
			}
			if !passMoved {
				break
			}
			moved = true
		}

		for pass := 0; pass <= len(fields); pass++ {
			passMoved := false
			for i := range fields {
				f := &fields[i]
				if f.DependsOn == nil || !f.HasDefault() {
					continue
				}
				if !chainValid(f, out, idx, map[string]bool{}) && set(f, f.Default) {
					passMoved = true
				}
			}
			if !passMoved {
				break
			}
			moved = true
		}

		if !moved {
			break
		}
	}
	return out
}
