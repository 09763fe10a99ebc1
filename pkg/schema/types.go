package schema

import (
	"fmt"
	"math"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// Type defines the contract for attribute validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(v domain.Value) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(v domain.Value) error {
	if v.Kind() != domain.KindString {
		return fmt.Errorf("expected string, got %s", v.Kind())
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Validate(v domain.Value) error {
	switch v.Kind() {
	case domain.KindInt:
		return nil
	case domain.KindFloat:
		// Datasheet expressions always evaluate to floats.
		f, _ := v.AsFloat()
		if f == math.Trunc(f) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %s", v.Kind())
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Validate(v domain.Value) error {
	if _, ok := v.AsFloat(); !ok {
		return fmt.Errorf("expected float, got %s", v.Kind())
	}
	return nil
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Validate(v domain.Value) error {
	if v.Kind() != domain.KindBool {
		return fmt.Errorf("expected bool, got %s", v.Kind())
	}
	return nil
}

type treeType struct{}

func (treeType) Name() string { return "any" }

func (treeType) Validate(domain.Value) error { return nil }

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elem.Name())
}

func (t sliceType) Validate(v domain.Value) error {
	items, ok := v.AsList()
	if !ok {
		return fmt.Errorf("expected list, got %s", v.Kind())
	}
	for i, e := range items {
		if err := t.elem.Validate(e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type customType struct {
	name     string
	validate func(domain.Value) error
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(v domain.Value) error { return t.validate(v) }

// String creates a string type validator.
func String() Type { return stringType{} }

// Int creates an integer type validator.
func Int() Type { return intType{} }

// Float creates a float type validator. Integers are accepted.
func Float() Type { return floatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return boolType{} }

// Any accepts every value, including trees.
func Any() Type { return treeType{} }

// Slice creates a list validator for elements of the given type.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// Custom creates a type with a user-defined validation function.
func Custom(name string, validate func(domain.Value) error) Type {
	return customType{name: name, validate: validate}
}

// ParseType converts a type name to a Type.
// Supports "string", "int", "float", "bool", "any" and lists such as "[int]".
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of attribute names to type strings into a Schema.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
