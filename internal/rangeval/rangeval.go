// Package rangeval parses the numeric range notation used in scene files.
//
// Supported formats:
//   - Fixed value: "1500" → min=1500, max=1500
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9
//   - Single bracketed value: "[5]" → min=5, max=5
//
// In YAML a range may also be written as a two element sequence: [0.7, 0.9].
package rangeval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned for strings that are neither a number nor a range.
var ErrSyntax = errors.New("invalid range syntax")

// Range is an inclusive numeric range.
type Range struct {
	Min, Max float64
}

// Fixed returns the range [v v].
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Parse parses a fixed value or a bracketed range.
func Parse(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty value: %w", ErrSyntax)
	}

	if !strings.HasPrefix(s, "[") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Range{}, fmt.Errorf("%q: %w", s, ErrSyntax)
		}
		return Fixed(v), nil
	}

	if !strings.HasSuffix(s, "]") {
		return Range{}, fmt.Errorf("%q: missing closing bracket: %w", s, ErrSyntax)
	}

	// 范围格式: "[min max]" 或 "[value]"
	parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	vals := make([]float64, 0, 2)
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Range{}, fmt.Errorf("%q: %w", s, ErrSyntax)
		}
		vals = append(vals, v)
	}

	switch len(vals) {
	case 1:
		return Fixed(vals[0]), nil
	case 2:
		return Range{Min: vals[0], Max: vals[1]}, nil
	default:
		return Range{}, fmt.Errorf("%q: want 1 or 2 values, got %d: %w", s, len(vals), ErrSyntax)
	}
}

// UnmarshalYAML accepts scalars ("[0.7 0.9]", 1500) and two element sequences.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil

	case yaml.SequenceNode:
		var vals []float64
		if err := node.Decode(&vals); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch len(vals) {
		case 1:
			*r = Fixed(vals[0])
		case 2:
			*r = Range{Min: vals[0], Max: vals[1]}
		default:
			return fmt.Errorf("line %d: want 1 or 2 values, got %d: %w", node.Line, len(vals), ErrSyntax)
		}
		return nil

	default:
		return fmt.Errorf("line %d: range must be a scalar or a sequence: %w", node.Line, ErrSyntax)
	}
}

// MarshalYAML writes fixed ranges as numbers and others in bracket notation.
func (r Range) MarshalYAML() (interface{}, error) {
	if r.IsFixed() {
		return r.Min, nil
	}
	return r.String(), nil
}

// IsFixed reports whether min equals max.
func (r Range) IsFixed() bool {
	return r.Min == r.Max
}

// Ints returns the bounds rounded to the nearest integers.
func (r Range) Ints() (int, int) {
	return int(math.Round(r.Min)), int(math.Round(r.Max))
}

// String formats the range in bracket notation.
func (r Range) String() string {
	return "[" + strconv.FormatFloat(r.Min, 'g', -1, 64) + " " + strconv.FormatFloat(r.Max, 'g', -1, 64) + "]"
}
