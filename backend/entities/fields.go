// Package entities builds domain values from untrusted, already JSON-decoded input. Fields are
// checked in a fixed order and the first failure is reported as a CreationError naming it.
package entities

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"aulavirtual/backend/apperr"
)

// Input is a decoded JSON object. Numbers arrive as float64 or json.Number.
type Input map[string]any

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (in Input) has(field string) bool {
	v, ok := in[field]
	return ok && v != nil
}

func missing(field string) error {
	return apperr.Creation(field, fmt.Sprintf("Missing required field: %s", field))
}

func invalid(field, format string, args ...any) error {
	return apperr.Creation(field, fmt.Sprintf("Invalid field %s: ", field)+fmt.Sprintf(format, args...))
}

func (in Input) requiredString(field string) (string, error) {
	if !in.has(field) {
		return "", missing(field)
	}
	s, ok := in[field].(string)
	if !ok {
		return "", invalid(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", missing(field)
	}
	return s, nil
}

func (in Input) optionalString(field string) (string, error) {
	if !in.has(field) {
		return "", nil
	}
	s, ok := in[field].(string)
	if !ok {
		return "", invalid(field, "must be a string")
	}
	return strings.TrimSpace(s), nil
}

// number rejects numeric strings on purpose: "10" is not a number.
func number(field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalid(field, "must be a number")
		}
		return f, nil
	}
	return 0, invalid(field, "must be a number")
}

func integer(field string, v any) (int, error) {
	f, err := number(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalid(field, "must be an integer")
	}
	return int(f), nil
}

func (in Input) requiredInt(field string) (int, error) {
	if !in.has(field) {
		return 0, missing(field)
	}
	return integer(field, in[field])
}

func (in Input) optionalInt(field string) (*int, error) {
	if !in.has(field) {
		return nil, nil
	}
	n, err := integer(field, in[field])
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (in Input) optionalBool(field string, def bool) (bool, error) {
	if !in.has(field) {
		return def, nil
	}
	b, ok := in[field].(bool)
	if !ok {
		return false, invalid(field, "must be a boolean")
	}
	return b, nil
}

func parseDate(field string, v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, apperr.Creation(field, fmt.Sprintf("Invalid date format for field %s", field))
}

func (in Input) requiredDate(field string) (time.Time, error) {
	if !in.has(field) {
		return time.Time{}, missing(field)
	}
	return parseDate(field, in[field])
}

func (in Input) optionalDate(field string) (*time.Time, error) {
	if !in.has(field) {
		return nil, nil
	}
	t, err := parseDate(field, in[field])
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (in Input) optionalStrings(field string) ([]string, error) {
	if !in.has(field) {
		return []string{}, nil
	}
	raw, ok := in[field].([]any)
	if !ok {
		if ss, ok := in[field].([]string); ok {
			return ss, nil
		}
		return nil, invalid(field, "must be a list of strings")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(field, "must be a list of strings")
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

// present is used by the patch appliers: a key sent as null counts as absent.
func (in Input) present(field string) bool {
	return in.has(field)
}

// sent reports whether the key was sent at all. Optional pointer fields use it so that an
// explicit null clears them.
func (in Input) sent(field string) bool {
	_, ok := in[field]
	return ok
}
