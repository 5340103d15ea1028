package gradebook

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize coerces a raw upstream value into a strict optional number.
// Gradebook feeds are loosely typed: scores arrive as floats, quoted
// strings, "--" placeholders, or are simply absent. Anything that is not
// a finite number becomes nil; Normalize never returns NaN and never
// panics.
func Normalize(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return f64(float64(t))
	case int32:
		return f64(float64(t))
	case int64:
		return f64(float64(t))
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return finite(n)
		}
		return nil
	case string:
		return parseLoose(t)
	default:
		return nil
	}
}

func finite(n float64) *float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return f64(n)
}

// parseLoose accepts "87.5" and also "87.5 pts" style suffixes, taking
// the leading field when the whole string does not parse.
func parseLoose(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(n)
	}
	if sp := strings.Fields(s); len(sp) > 0 {
		if n, err := strconv.ParseFloat(sp[0], 64); err == nil {
			return finite(n)
		}
	}
	return nil
}
