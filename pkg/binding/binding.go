// Package binding turns raw input strings into typed field values. The value
// kind is decided once, when the field is bound, from the field's declared
// type; parsing never guesses from the input.
package binding

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Kind is the typed shape a field's value takes.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "text"
	}
}

// KindOf maps a declared field type to its value kind.
func KindOf(fieldType model.FieldType) Kind {
	switch fieldType {
	case model.FieldTypeNumber:
		return KindNumber
	case model.FieldTypeCheckbox:
		return KindBool
	case model.FieldTypeList:
		return KindList
	default:
		return KindText
	}
}

// Binding parses and formats values for one field.
type Binding struct {
	Name    string
	Kind    Kind
	Options []string
}

// Bind resolves the binding for field.
func Bind(field model.Field) Binding {
	return Binding{
		Name:    field.Name,
		Kind:    KindOf(field.Type),
		Options: append([]string(nil), field.Options...),
	}
}

// Parse converts raw input. Numbers map "" and unparseable text to NaN, the
// way a number input reports an empty or invalid entry; checkboxes accept
// true/false, on/off, yes/no and 1/0.
func (b Binding) Parse(raw string) any {
	switch b.Kind {
	case KindNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return math.NaN()
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case KindBool:
		return parseBool(raw)
	case KindList:
		return []validation.Item{}
	default:
		return raw
	}
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "yes", "y", "1", "checked":
		return true
	default:
		return false
	}
}

// Zero is the value of an untouched field of this kind.
func (b Binding) Zero() any {
	switch b.Kind {
	case KindNumber:
		return math.NaN()
	case KindBool:
		return false
	case KindList:
		return []validation.Item{}
	default:
		return ""
	}
}

// Coerce converts a default or decoded value (YAML ints, JSON numbers,
// strings) into the binding's kind. Values that cannot be represented fall
// back to Zero.
func (b Binding) Coerce(value any) any {
	if value == nil {
		return b.Zero()
	}
	switch b.Kind {
	case KindNumber:
		switch typed := value.(type) {
		case float64:
			return typed
		case float32:
			return float64(typed)
		case int:
			return float64(typed)
		case int64:
			return float64(typed)
		case string:
			return b.Parse(typed)
		}
		return b.Zero()
	case KindBool:
		switch typed := value.(type) {
		case bool:
			return typed
		case string:
			return parseBool(typed)
		}
		return b.Zero()
	case KindList:
		if items, ok := value.([]validation.Item); ok {
			return items
		}
		return b.Zero()
	default:
		if s, ok := value.(string); ok {
			return s
		}
		return fmt.Sprint(value)
	}
}

// Format renders a value for display in an input. NaN renders as "".
func (b Binding) Format(value any) string {
	return validation.AsString(value)
}
