// Package utils holds reflection helpers for moving between Go structs and
// the map-shaped records the query engine works on.
package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// StructToMap converts a Go struct into a map[string]any keyed by the fields'
// JSON names.
//
// Unlike a JSON round trip, field values keep their Go types: an int field
// stays an int, a time.Time stays a time.Time. This matters for record
// filtering, where values are compared with == and no coercion happens.
//
// Naming follows encoding/json: the `json:"name"` tag wins over the field
// name, `json:"-"` skips the field, `omitempty` drops zero values, and
// untagged embedded structs are flattened into the parent.
//
// The input `record` must be a struct or a non-nil pointer to a struct.
//
// Example:
//
//	type User struct {
//		Name string `json:"name"`
//		Age  int    `json:"age,omitempty"`
//	}
//	m, err := StructToMap(User{Name: "Ada", Age: 36})
//	// m == map[string]any{"name": "Ada", "age": 36}
func StructToMap[T any](record T) (map[string]any, error) {
	val := reflect.ValueOf(record)

	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	result := make(map[string]any, val.NumField())
	collectFields(val, result)
	return result, nil
}

// collectFields walks the exported fields of a struct value into out.
func collectFields(val reflect.Value, out map[string]any) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fv := val.Field(i)

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		if field.Anonymous && field.Tag.Get("json") == "" {
			// values reached through an unexported embedding cannot be read back out
			if !field.IsExported() {
				continue
			}
			embedded := fv
			if embedded.Kind() == reflect.Ptr {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectFields(embedded, out)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = fv.Interface()
	}
}

// jsonFieldName resolves the key a struct field is stored under.
func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// MapToStruct converts a `map[string]any` into a new instance of the generic
// struct type `T`. It is the inverse of StructToMap and relies on
// encoding/json, so JSON tags on `T` decide which keys land in which fields.
//
// `T` must be a struct type or a pointer to one.
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T

	if input == nil {
		return zero, fmt.Errorf("MapToStruct: input map cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got interface")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to marshal input map to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to unmarshal JSON to target struct: %w", err)
	}

	return result, nil
}
