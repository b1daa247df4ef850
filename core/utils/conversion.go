package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt converts loosely typed values, such as header values, Redis hash
// fields and JSON numbers, to int. Unparseable input yields 0. Fractional
// values are truncated.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return floatToInt(v)
	case float32:
		return floatToInt(float64(v))
	case string:
		return parseInt(v)
	case []byte:
		return parseInt(string(v))
	default:
		return parseInt(fmt.Sprintf("%v", v))
	}
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatToInt(f)
	}
	return 0
}

func floatToInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// ToString converts a loosely typed value to string. Numbers decoded from JSON
// as float64 are written without exponent, so 12345678 stays "12345678".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
