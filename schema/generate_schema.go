package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Generate builds a JSON schema for the given Go type using reflection.
// Tool input structs can annotate fields with json, description, enum,
// required, and constraint tags and get a complete schema for free:
//
//	type RenameInput struct {
//	  Path    string `json:"path" description:"File to rename"`
//	  NewName string `json:"new_name" description:"New name for the file"`
//	  Force   bool   `json:"force,omitempty" description:"Overwrite an existing file"`
//	}
//	s, err := schema.Generate(RenameInput{})
func Generate(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("cannot generate schema for nil value")
	}
	prop, err := propertyForType(t)
	if err != nil {
		return nil, err
	}
	isStruct := t.Kind() == reflect.Struct ||
		(t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct)
	if !isStruct {
		return &Schema{Type: prop.Type}, nil
	}
	additionalProps := false
	return &Schema{
		Type:                 prop.Type,
		Properties:           prop.Properties,
		Required:             prop.Required,
		AdditionalProperties: &additionalProps,
	}, nil
}

func propertyForType(t reflect.Type) (*Property, error) {
	switch t.Kind() {
	case reflect.String:
		return &Property{Type: String}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Property{Type: Integer}, nil

	case reflect.Float32, reflect.Float64:
		return &Property{Type: Number}, nil

	case reflect.Bool:
		return &Property{Type: Boolean}, nil

	case reflect.Slice, reflect.Array:
		items, err := propertyForType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to reflect array/slice element type: %w", err)
		}
		return &Property{Type: Array, Items: items}, nil

	case reflect.Struct:
		return propertyForStruct(t)

	case reflect.Ptr:
		// A pointer field reflects as its element type, marked nullable.
		underlying, err := propertyForType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to reflect pointer underlying type: %w", err)
		}
		nullable := true
		underlying.Nullable = &nullable
		return underlying, nil

	case reflect.Interface:
		// No type constraint, so any JSON value is accepted.
		return &Property{}, nil

	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind().String())
	}
}

func propertyForStruct(t reflect.Type) (*Property, error) {
	properties := make(map[string]*Property)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonName, jsonRequired := jsonFieldName(field)
		if jsonName == "-" {
			continue
		}
		prop, err := propertyForType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to reflect field %s: %w", field.Name, err)
		}
		applyTagConstraints(prop, field)
		if isRequired(field, jsonRequired) {
			required = append(required, jsonName)
		}
		properties[jsonName] = prop
	}

	additionalProps := false
	return &Property{
		Type:                 Object,
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &additionalProps,
	}, nil
}

// jsonFieldName returns the field's JSON name and whether the json tag
// implies the field is required (no omitempty flag).
func jsonFieldName(field reflect.StructField) (name string, required bool) {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return field.Name, true
	}
	parts := strings.Split(jsonTag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	required = true
	for _, part := range parts[1:] {
		if part == "omitempty" {
			required = false
			break
		}
	}
	return name, required
}

// applyTagConstraints copies constraint tags from the struct field onto the
// property: description, enum, nullable, pattern, format, and the numeric
// bounds.
func applyTagConstraints(prop *Property, field reflect.StructField) {
	if desc := field.Tag.Get("description"); desc != "" {
		prop.Description = desc
	}
	if enum := field.Tag.Get("enum"); enum != "" {
		prop.Enum = strings.Split(enum, ",")
	}
	if nullable := field.Tag.Get("nullable"); nullable != "" {
		if val, err := strconv.ParseBool(nullable); err == nil {
			prop.Nullable = &val
		}
	}
	if pattern := field.Tag.Get("pattern"); pattern != "" {
		prop.Pattern = &pattern
	}
	if format := field.Tag.Get("format"); format != "" {
		prop.Format = &format
	}
	prop.MinLength = intTag(field, "minLength")
	prop.MaxLength = intTag(field, "maxLength")
	prop.Minimum = floatTag(field, "minimum")
	prop.Maximum = floatTag(field, "maximum")
	prop.MinItems = intTag(field, "minItems")
	prop.MaxItems = intTag(field, "maxItems")
}

func intTag(field reflect.StructField, name string) *int {
	raw := field.Tag.Get(name)
	if raw == "" {
		return nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &val
}

func floatTag(field reflect.StructField, name string) *float64 {
	raw := field.Tag.Get(name)
	if raw == "" {
		return nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &val
}

// isRequired reports whether the field is required. An explicit required
// tag wins over the json tag's omitempty flag.
func isRequired(field reflect.StructField, jsonRequired bool) bool {
	if req := field.Tag.Get("required"); req != "" {
		if val, err := strconv.ParseBool(req); err == nil {
			return val
		}
	}
	return jsonRequired
}
