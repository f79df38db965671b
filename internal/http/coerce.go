package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toNumber coerces a decoded JSON value to a finite float64. JSON numbers
// arrive as float64; numeric strings are accepted the way the frontend sends
// them. Anything else (including NaN/Inf-producing strings) is invalid.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toTravelers defaults to one traveler when the field is absent, invalid or
// zero.
func toTravelers(v any) int {
	if n, ok := toNumber(v); ok && int(n) != 0 {
		return int(n)
	}
	return 1
}

// toStringList keeps interests only when they arrived list-shaped; elements
// are stringified the way the old document schema casted them.
func toStringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(e))
		}
	}
	return out
}
