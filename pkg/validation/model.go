package validation

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// ModelOption configures FromModel.
type ModelOption func(*modelOptions)

type modelOptions struct {
	compiler   visibility.Compiler
	translator Translator
	locale     string
}

// WithCompiler sets the compiler used for visibleWhen rules.
func WithCompiler(compiler visibility.Compiler) ModelOption {
	return func(opts *modelOptions) {
		opts.compiler = compiler
	}
}

// WithMessages routes default messages through t for locale.
func WithMessages(t Translator, locale string) ModelOption {
	return func(opts *modelOptions) {
		opts.translator = t
		opts.locale = locale
	}
}

// FromModel builds a Schema from the validation rules declared on a form
// model. Every field is registered, even without rules, so Paths covers the
// whole form. visibleWhen expressions become gates.
func FromModel(form model.FormModel, options ...ModelOption) (*Schema, error) {
	opts := modelOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.compiler == nil {
		opts.compiler = expr.New()
	}

	schema, err := schemaFromFields(form.Fields, opts)
	if err != nil {
		return nil, fmt.Errorf("validation: form %q: %w", form.ID, err)
	}
	schema.WithTranslator(opts.translator, opts.locale)
	if err := schema.Check(form); err != nil {
		return nil, err
	}
	return schema, nil
}

func schemaFromFields(fields []model.Field, opts modelOptions) (*Schema, error) {
	schema := New()
	for _, field := range fields {
		if field.IsList() {
			item, err := schemaFromFields(field.Items, opts)
			if err != nil {
				return nil, fmt.Errorf("list %q: %w", field.Name, err)
			}
			schema.Each(field.Name, item)
			for _, rule := range field.Validations {
				if rule.Kind != model.ValidationRuleMinItems {
					continue
				}
				n, err := strconv.Atoi(rule.Params["value"])
				if err != nil {
					return nil, fmt.Errorf("list %q: minItems: %w", field.Name, err)
				}
				schema.MinItems(field.Name, n, rule.Params["message"])
			}
		} else {
			rules, err := rulesFromField(field)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}
			schema.Field(field.Name, rules...)
		}

		if field.VisibleWhen == "" {
			continue
		}
		compiled, err := opts.compiler.Compile(field.VisibleWhen)
		if err != nil {
			return nil, fmt.Errorf("field %q: visibleWhen: %w", field.Name, err)
		}
		schema.Gate(field.Name, GateFromRule(compiled))
	}
	return schema, nil
}

// GateFromRule adapts a compiled visibility rule into a schema gate. Rule
// evaluation errors hide the field.
func GateFromRule(rule visibility.Rule) GateFunc {
	return func(scope Scope) bool {
		ctx := visibility.Context{Values: scope.Values}
		if scope.Item != nil {
			ctx.Item = scope.Item.Values
		}
		ok, err := rule.Eval(ctx)
		return err == nil && ok
	}
}

func rulesFromField(field model.Field) ([]Rule, error) {
	var rules []Rule
	hasRequired := false
	for _, spec := range field.Validations {
		rule, err := ruleFromSpec(spec)
		if err != nil {
			return nil, err
		}
		if spec.Kind == model.ValidationRuleRequired {
			hasRequired = true
		}
		if msg := spec.Params["message"]; msg != "" {
			rule = rule.WithMessage(msg)
		}
		rules = append(rules, rule)
	}
	if field.Required && !hasRequired {
		rules = append([]Rule{Required()}, rules...)
	}
	return rules, nil
}

func ruleFromSpec(spec model.ValidationRule) (Rule, error) {
	switch spec.Kind {
	case model.ValidationRuleRequired:
		return Required(), nil
	case model.ValidationRuleMin, model.ValidationRuleMax:
		n, err := strconv.ParseFloat(spec.Params["value"], 64)
		if err != nil {
			return Rule{}, fmt.Errorf("%s: %w", spec.Kind, err)
		}
		if spec.Kind == model.ValidationRuleMin {
			return Min(n), nil
		}
		return Max(n), nil
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
		n, err := strconv.Atoi(spec.Params["value"])
		if err != nil {
			return Rule{}, fmt.Errorf("%s: %w", spec.Kind, err)
		}
		if spec.Kind == model.ValidationRuleMinLength {
			return MinLength(n), nil
		}
		return MaxLength(n), nil
	case model.ValidationRulePattern:
		rule := Pattern(spec.Params["pattern"], spec.Params["label"])
		return rule, rule.Err()
	case model.ValidationRuleEmail:
		return Email(), nil
	case model.ValidationRuleMatches:
		return Matches(spec.Params["field"]), nil
	case model.ValidationRuleRequiredIf:
		return RequiredIf(spec.Params["field"]), nil
	default:
		return Rule{}, fmt.Errorf("unsupported rule %q", spec.Kind)
	}
}
