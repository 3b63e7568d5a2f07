package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat converts spreadsheet cell values to float64 using explicit type
// switching. The sheets API returns unformatted values as float64 or string
// depending on the cell; anything non-numeric converts to 0.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	case []byte:
		return ToFloat(string(v))
	case nil:
		return 0
	default:
		f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
		return f
	}
}

// ToInt converts a cell value to int, truncating any fractional part.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		return int(ToFloat(s))
	case []byte:
		return ToInt(string(v))
	default:
		return int(ToFloat(val))
	}
}

// ToCount coerces a cell value to a non-negative integer count.
// Non-numeric or missing inputs coerce to 0; negative values are folded
// to their absolute value.
func ToCount(val any) int {
	n := ToInt(val)
	if n < 0 {
		return -n
	}
	return n
}

// ToString converts various cell value types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	case float64:
		// Whole numbers should not render as "50.000000"
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsNumeric reports whether a cell value holds a usable number.
func IsNumeric(val any) bool {
	switch v := val.(type) {
	case float64, float32, int, int64, int32:
		return true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}
