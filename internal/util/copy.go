package util

import "reflect"

// DeepCopy creates a deep copy of a document value. It has fast paths for the
// YAML value domain (string-keyed mappings, sequences, scalars) and falls
// back to reflection for anything else a caller might hand to Set. Cyclic
// values are handled by returning the partially built copy when a map, slice,
// or pointer is revisited.
func DeepCopy(src interface{}) interface{} {
	if src == nil {
		return nil
	}
	ctx := make(map[uintptr]interface{})
	return deepCopyRecursive(src, ctx)
}

func deepCopyRecursive(src interface{}, ctx map[uintptr]interface{}) interface{} {
	if src == nil {
		return nil
	}

	original := reflect.ValueOf(src)
	kind := original.Kind()

	// Only maps, slices, and pointers can participate in a cycle.
	if kind == reflect.Map || kind == reflect.Slice || kind == reflect.Ptr {
		if cpy, exists := ctx[original.Pointer()]; exists {
			return cpy
		}
	}

	switch v := src.(type) {
	case map[string]interface{}:
		cpy := make(map[string]interface{}, len(v))
		// Register before recursing so cycles resolve to the copy.
		ctx[original.Pointer()] = cpy
		for key, value := range v {
			cpy[key] = deepCopyRecursive(value, ctx)
		}
		return cpy

	case []interface{}:
		cpy := make([]interface{}, len(v))
		ctx[original.Pointer()] = cpy
		for i, value := range v {
			cpy[i] = deepCopyRecursive(value, ctx)
		}
		return cpy

	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v

	default:
		return deepCopyReflection(original, ctx)
	}
}

// deepCopyReflection handles values outside the YAML fast paths, such as
// typed slices ([]string) or structs passed to Set before encoding
// normalizes them.
func deepCopyReflection(original reflect.Value, ctx map[uintptr]interface{}) interface{} {
	if !original.IsValid() {
		return nil
	}

	switch original.Kind() {
	case reflect.Ptr:
		if original.IsNil() {
			return original.Interface()
		}
		cpy := reflect.New(original.Type().Elem())
		ctx[original.Pointer()] = cpy.Interface()
		elem := deepCopyRecursive(original.Elem().Interface(), ctx)
		if elem != nil {
			cpy.Elem().Set(reflect.ValueOf(elem))
		}
		return cpy.Interface()

	case reflect.Map:
		if original.IsNil() {
			return original.Interface()
		}
		cpy := reflect.MakeMapWithSize(original.Type(), original.Len())
		ctx[original.Pointer()] = cpy.Interface()
		iter := original.MapRange()
		for iter.Next() {
			val := deepCopyRecursive(iter.Value().Interface(), ctx)
			if val == nil {
				cpy.SetMapIndex(iter.Key(), reflect.Zero(original.Type().Elem()))
			} else {
				cpy.SetMapIndex(iter.Key(), reflect.ValueOf(val))
			}
		}
		return cpy.Interface()

	case reflect.Slice:
		if original.IsNil() {
			return original.Interface()
		}
		cpy := reflect.MakeSlice(original.Type(), original.Len(), original.Len())
		ctx[original.Pointer()] = cpy.Interface()
		for i := 0; i < original.Len(); i++ {
			val := deepCopyRecursive(original.Index(i).Interface(), ctx)
			if val != nil {
				cpy.Index(i).Set(reflect.ValueOf(val))
			}
		}
		return cpy.Interface()

	case reflect.Array, reflect.Struct:
		cpy := reflect.New(original.Type()).Elem()
		cpy.Set(original)
		return cpy.Interface()

	default:
		return original.Interface()
	}
}
