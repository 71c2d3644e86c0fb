package declare

import (
	"github.com/spineapi/skelfile"
)

func normFloat32(v interface{}) float32 {
	switch v := v.(type) {
	case int:
		return float32(v)
	case uint:
		return float32(v)
	case uint8:
		return float32(v)
	case uint16:
		return float32(v)
	case uint32:
		return float32(v)
	case uint64:
		return float32(v)
	case int8:
		return float32(v)
	case int16:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	case float32:
		return v
	case float64:
		return float32(v)
	}

	return 0
}

func normInt(v interface{}) int {
	switch v := v.(type) {
	case int:
		return v
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	}

	return 0
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, uint, uint8, uint16, uint32, uint64,
		int8, int16, int32, int64, float32, float64:
		return true
	}
	return false
}

func normBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func normString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// normColor accepts a skelfile.Color, a hex string of 6 or 8 digits, or a
// number packed as 0xRRGGBBAA. Anything else is white.
func normColor(v interface{}) skelfile.Color {
	switch v := v.(type) {
	case skelfile.Color:
		return v
	case string:
		if c, err := skelfile.ParseColor(v); err == nil {
			return c
		}
	default:
		if isNumber(v) {
			return skelfile.ColorFromRGBA(uint32(normInt(v)))
		}
	}
	return skelfile.White
}

// normEnum accepts a value of the enum type or its name.
func normEnum[T any](v interface{}, parse func(string) (T, bool)) (T, bool) {
	switch v := v.(type) {
	case T:
		return v, true
	case string:
		return parse(v)
	}
	var zero T
	return zero, false
}

// normFloats flattens numbers and slices of numbers into one list.
func normFloats(values []interface{}) []float32 {
	var list []float32
	for _, v := range values {
		switch v := v.(type) {
		case []float32:
			list = append(list, v...)
		case []float64:
			for _, f := range v {
				list = append(list, float32(f))
			}
		case []int:
			for _, i := range v {
				list = append(list, float32(i))
			}
		default:
			if isNumber(v) {
				list = append(list, normFloat32(v))
			}
		}
	}
	return list
}

// normInts flattens numbers and slices of ints into one list.
func normInts(values []interface{}) []int {
	var list []int
	for _, v := range values {
		switch v := v.(type) {
		case []int:
			list = append(list, v...)
		default:
			if isNumber(v) {
				list = append(list, normInt(v))
			}
		}
	}
	return list
}

// normStrings flattens strings and slices of strings into one list.
func normStrings(values []interface{}) []string {
	var list []string
	for _, v := range values {
		switch v := v.(type) {
		case []string:
			list = append(list, v...)
		case string:
			list = append(list, v)
		}
	}
	return list
}
