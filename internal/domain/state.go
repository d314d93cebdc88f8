package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// State maps field ids to their current values (string, float64 or bool).
// Transitions never mutate a State in place; they return a new one.
type State map[string]any

// Clone returns a shallow copy; values are scalars so the copy is independent.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String returns the value of key in its string form, "" when unset.
func (s State) String(key string) string {
	return ValueString(s[key])
}

// Number reads key as a number. Missing or non-numeric values read as zero.
func (s State) Number(key string) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Merge returns a copy of s with changes applied on top.
func (s State) Merge(changes map[string]any) State {
	out := s.Clone()
	for k, v := range changes {
		out[k] = Normalize(v)
	}
	return out
}

// ChangedKeys lists the keys whose values differ between s and next, sorted.
func (s State) ChangedKeys(next State) []string {
	seen := make(map[string]bool, len(next))
	var keys []string
	for k, v := range next {
		seen[k] = true
		if ValueString(s[k]) != ValueString(v) {
			keys = append(keys, k)
		}
	}
	for k, v := range s {
		if !seen[k] && ValueString(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Equal compares two states by the string form of every value.
func (s State) Equal(other State) bool {
	return len(s.ChangedKeys(other)) == 0
}

// ValueString renders a state value the way dependency rules compare them.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// Normalize folds integer kinds into float64 so decoded JSON and TOML values compare alike.
func Normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	}
	return v
}
