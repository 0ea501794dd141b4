package template

import "fmt"

// Loose accessors over JSON-decoded maps. JSON numbers arrive as float64;
// anything convertible is accepted, anything else decodes to a zero value.

func str(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func boolean(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func mapValue(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	if mv, ok := m[key].(map[string]interface{}); ok {
		return mv
	}
	return map[string]interface{}{}
}

func sliceValue(m map[string]interface{}, key string) []interface{} {
	if m == nil {
		return nil
	}
	if sv, ok := m[key].([]interface{}); ok {
		return sv
	}
	return nil
}

func strSlice(m map[string]interface{}, key string) []string {
	raw := sliceValue(m, key)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, Stringify(v))
	}
	return out
}

// grid decodes a 2-D cell grid, stringifying every cell.
func grid(m map[string]interface{}, key string) [][]string {
	raw := sliceValue(m, key)
	if raw == nil {
		return nil
	}
	out := make([][]string, 0, len(raw))
	for _, r := range raw {
		row, ok := r.([]interface{})
		if !ok {
			continue
		}
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, Stringify(c))
		}
		out = append(out, cells)
	}
	return out
}

func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}

// IsNumeric reports whether a raw value is a number or a numeric-looking
// string. Used by the validator for fields like exercise_table weeks.
func IsNumeric(v interface{}) bool {
	switch n := v.(type) {
	case int, int32, int64, float32, float64:
		return true
	case string:
		var f float64
		_, err := fmt.Sscanf(n, "%f", &f)
		return err == nil
	}
	return false
}

// Stringify renders any scalar the way template output expects: integral
// floats print without a trailing ".0".
func Stringify(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
