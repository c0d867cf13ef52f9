package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a loosely typed JSON number (number or numeric string).
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberOr returns the parsed number when it is non-zero, otherwise def.
func NumberOr(v interface{}, def float64) float64 {
	if f, ok := ParseNumber(v); ok && f != 0 {
		return f
	}
	return def
}

// RoundInt rounds half away from zero.
func RoundInt(f float64) int {
	return int(math.Round(f))
}
