package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// Builder converts OpenAPI operations into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	return &Builder{opts: options}
}

// Build turns the operation's request body into a FormModel. Object
// properties become fields, arrays of objects become list fields, and
// min/max/minLength/maxLength/pattern/minItems keywords become rules.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if op.ID == "" {
		return FormModel{}, errFormIDMissing
	}
	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: operation %q: request body must be an object, got %q", op.ID, body.Type)
	}
	if len(body.Properties) == 0 {
		return FormModel{}, fmt.Errorf("model builder: operation %q: request body has no properties", op.ID)
	}

	form := FormModel{
		ID:          op.ID,
		Title:       firstNonEmpty(op.Summary, body.Title, b.opts.labeler()(op.ID)),
		Description: firstNonEmpty(op.Description, body.Description),
		Mode:        body.Extension("mode"),
		Metadata: map[string]string{
			"method": strings.ToUpper(op.Method),
			"path":   op.Path,
		},
	}
	fields, err := b.fieldsFromObject(body, true)
	if err != nil {
		return FormModel{}, fmt.Errorf("model builder: operation %q: %w", op.ID, err)
	}
	form.Fields = fields
	return Normalize(form, b.opts)
}

func (b *Builder) fieldsFromObject(schema pkgopenapi.Schema, topLevel bool) ([]Field, error) {
	names := schema.PropertyNames()
	sortByOrder(names, schema.Properties)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		field, err := b.fieldFromSchema(name, schema.Properties[name], schema.IsRequired(name), topLevel)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// sortByOrder orders properties by their x-formstate order hint, then by name.
func sortByOrder(names []string, props map[string]pkgopenapi.Schema) {
	order := func(name string) int {
		if n, err := strconv.Atoi(props[name].Extension("order")); err == nil {
			return n
		}
		return 1 << 30
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
}

func (b *Builder) fieldFromSchema(name string, schema pkgopenapi.Schema, required, topLevel bool) (Field, error) {
	field := Field{
		Name:        name,
		Required:    required,
		Label:       firstNonEmpty(schema.Extension("label"), schema.Title),
		Placeholder: schema.Extension("placeholder"),
		Description: schema.Description,
		Default:     schema.Default,
		VisibleWhen: schema.Extension("visibleWhen"),
	}

	switch schema.Type {
	case "array":
		if !topLevel {
			return Field{}, fmt.Errorf("field %q: nested arrays are not supported", name)
		}
		if schema.Items == nil || (schema.Items.Type != "object" && len(schema.Items.Properties) == 0) {
			return Field{}, fmt.Errorf("field %q: arrays must hold objects", name)
		}
		items, err := b.fieldsFromObject(*schema.Items, false)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		field.Type = FieldTypeList
		field.Items = items
		field.Default = nil
		if schema.MinItems != nil {
			field.Validations = append(field.Validations, rule(ValidationRuleMinItems, "value", strconv.Itoa(*schema.MinItems)))
		}
		return field, nil
	case "object":
		return Field{}, fmt.Errorf("field %q: nested objects are not supported", name)
	case "boolean":
		field.Type = FieldTypeCheckbox
	case "integer", "number":
		field.Type = FieldTypeNumber
	default:
		field.Type = stringKind(schema)
	}

	if len(schema.Enum) > 0 {
		field.Type = FieldTypeSelect
		for _, option := range schema.Enum {
			field.Options = append(field.Options, fmt.Sprint(option))
		}
	}
	applyValidations(&field, schema)
	return field, nil
}

func stringKind(schema pkgopenapi.Schema) FieldType {
	switch schema.Format {
	case "email":
		return FieldTypeEmail
	case "password":
		return FieldTypePassword
	case "textarea":
		return FieldTypeTextArea
	}
	if schema.MaxLength != nil && *schema.MaxLength > 255 {
		return FieldTypeTextArea
	}
	return FieldTypeText
}

func applyValidations(field *Field, schema pkgopenapi.Schema) {
	if field.Required {
		field.Validations = append(field.Validations, rule(ValidationRuleRequired))
	}
	if schema.Minimum != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMin, "value", formatFloat(*schema.Minimum)))
	}
	if schema.Maximum != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMax, "value", formatFloat(*schema.Maximum)))
	}
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMinLength, "value", strconv.Itoa(*schema.MinLength)))
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMaxLength, "value", strconv.Itoa(*schema.MaxLength)))
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, rule(ValidationRulePattern, "pattern", schema.Pattern))
	}
	if field.Type == FieldTypeEmail {
		field.Validations = append(field.Validations, rule(ValidationRuleEmail))
	}
	if other := schema.Extension("matches"); other != "" {
		field.Validations = append(field.Validations, rule(ValidationRuleMatches, "field", other))
	}
	if gate := schema.Extension("requiredIf"); gate != "" {
		field.Validations = append(field.Validations, rule(ValidationRuleRequiredIf, "field", gate))
	}
}

func rule(kind string, params ...string) ValidationRule {
	out := ValidationRule{Kind: kind}
	for i := 0; i+1 < len(params); i += 2 {
		if out.Params == nil {
			out.Params = make(map[string]string)
		}
		out.Params[params[i]] = params[i+1]
	}
	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
