package openapi

import (
	"fmt"
	"sort"
)

// ExtensionNamespace is the vendor key carrying form hints.
const ExtensionNamespace = "x-formstate"

// Document is a loaded payload and the source it came from.
type Document struct {
	Source Source
	Data   []byte
}

// Operation is the part of an OpenAPI operation a form is built from.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
}

// Schema is a request body or one of its properties, reduced to the
// keywords that become form fields and validation rules.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Enum        []any
	Default     any

	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	MinItems  *int

	Extensions map[string]any
}

// Hints returns the x-formstate object, or nil when it is absent or not an
// object.
func (s Schema) Hints() map[string]any {
	hints, _ := s.Extensions[ExtensionNamespace].(map[string]any)
	return hints
}

// Extension returns one x-formstate hint as text.
func (s Schema) Extension(key string) string {
	if value, ok := s.Hints()[key]; ok && value != nil {
		return fmt.Sprint(value)
	}
	return ""
}

// PropertyNames lists the properties in name order.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether name is listed in the schema's required set.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
