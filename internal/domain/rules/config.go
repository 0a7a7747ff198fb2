package rules

import "strconv"

// configFloat baca threshold dari config bag dengan fallback default.
// Trigger configs arrive as JSON maps, so numbers can show up as
// float64, int, or string.
func configFloat(config map[string]any, key string, def float64) float64 {
	if config == nil {
		return def
	}
	switch v := config[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// configValue ambil nilai mentah untuk routing hints
func configValue(config map[string]any, key string) (any, bool) {
	if config == nil {
		return nil, false
	}
	v, ok := config[key]
	return v, ok
}
