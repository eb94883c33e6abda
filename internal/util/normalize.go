package util

import "reflect"

// Normalize converts a caller-supplied value into the document value domain:
// string-keyed mappings, generic sequences, and scalars. Typed slices and
// maps ([]string, map[string]int, ...) are rewritten to []interface{} and
// map[string]interface{} so that values written through Set compare and
// append cleanly against values decoded from disk. Composite results share no
// mutable state with the input.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil

	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out

	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t

	default:
		return normalizeReflect(reflect.ValueOf(v))
	}
}

func normalizeReflect(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			// Non-string keys cannot appear in a document mapping; leave
			// the value for the encoder to reject.
			return rv.Interface()
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out

	default:
		// Structs and remaining scalar kinds pass through unchanged; the
		// encoder decides whether they are representable.
		return rv.Interface()
	}
}
