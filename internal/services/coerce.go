package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		return strings.Join(coerceStringList(val), ", ")
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStringList accepts a list, a single scalar or nil and always returns a
// non-nil slice of trimmed, non-empty strings.
func coerceStringList(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := coerceString(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func truncateList(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
