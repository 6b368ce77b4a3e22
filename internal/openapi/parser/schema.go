package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// converter copies kin-openapi schemas into pkg/openapi ones. A schema
// already on the current path is emitted as its bare $ref, which ends
// recursive definitions.
type converter struct {
	onPath map[*openapi3.Schema]bool
}

func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	c := converter{onPath: map[*openapi3.Schema]bool{}}
	return c.convert(ref)
}

func (c converter) convert(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	src := ref.Value
	if src == nil || c.onPath[src] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	c.onPath[src] = true
	defer delete(c.onPath, src)

	out := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        primaryType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
		Required:    cloneSlice(src.Required),
		Enum:        cloneSlice(src.Enum),
		Minimum:     copyPtr(src.Min),
		Maximum:     copyPtr(src.Max),
		MinLength:   nonZero(src.MinLength),
		MaxLength:   intPtr(src.MaxLength),
		MinItems:    nonZero(src.MinItems),
		Extensions:  formHints(src.Extensions),
	}
	for name, prop := range src.Properties {
		if out.Properties == nil {
			out.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		}
		out.Properties[name] = c.convert(prop)
	}
	if src.Items != nil {
		items := c.convert(src.Items)
		out.Items = &items
	}
	return out
}

// primaryType drops "null" from 3.1 type lists.
func primaryType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, t := range types.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	return append([]T(nil), in...)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonZero(n uint64) *int {
	if n == 0 {
		return nil
	}
	v := int(n)
	return &v
}

func intPtr(p *uint64) *int {
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}

// formHints keeps only the x-formstate namespace, trimming its keys. A
// namespace that is not an object is kept as is so lint can report it.
func formHints(raw map[string]any) map[string]any {
	value, ok := raw[pkgopenapi.ExtensionNamespace]
	if !ok {
		return nil
	}
	hints, ok := value.(map[string]any)
	if !ok {
		return map[string]any{pkgopenapi.ExtensionNamespace: value}
	}
	if len(hints) == 0 {
		return nil
	}
	trimmed := make(map[string]any, len(hints))
	for key, v := range hints {
		trimmed[strings.TrimSpace(key)] = v
	}
	return map[string]any{pkgopenapi.ExtensionNamespace: trimmed}
}
