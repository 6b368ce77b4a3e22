package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errFormIDMissing    = errors.New("model: form id is required")
	errFieldNameMissing = errors.New("model: field name is required")
	errListItemsMissing = errors.New("model: list field requires item fields")
)

var knownRules = map[string]struct{}{
	ValidationRuleRequired:   {},
	ValidationRuleMin:        {},
	ValidationRuleMax:        {},
	ValidationRuleMinLength:  {},
	ValidationRuleMaxLength:  {},
	ValidationRulePattern:    {},
	ValidationRuleEmail:      {},
	ValidationRuleMatches:    {},
	ValidationRuleRequiredIf: {},
	ValidationRuleMinItems:   {},
}

var knownTypes = map[FieldType]struct{}{
	FieldTypeText:     {},
	FieldTypePassword: {},
	FieldTypeTextArea: {},
	FieldTypeEmail:    {},
	FieldTypeNumber:   {},
	FieldTypeCheckbox: {},
	FieldTypeSelect:   {},
	FieldTypeList:     {},
}

// Normalize fills labels and default kinds, then validates the definition.
func Normalize(form FormModel, opts Options) (FormModel, error) {
	form.Fields = cloneFields(form.Fields)
	defaultKinds(form.Fields)
	applyLabels(form.Fields, opts.labeler())
	if err := validateForm(form); err != nil {
		return FormModel{}, err
	}
	return form, nil
}

func defaultKinds(fields []Field) {
	for i := range fields {
		if fields[i].Type == "" {
			if len(fields[i].Items) > 0 {
				fields[i].Type = FieldTypeList
			} else {
				fields[i].Type = FieldTypeText
			}
		}
		defaultKinds(fields[i].Items)
	}
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field
		out[i].Items = cloneFields(field.Items)
		if len(field.Validations) > 0 {
			out[i].Validations = append([]ValidationRule(nil), field.Validations...)
		}
		if len(field.Options) > 0 {
			out[i].Options = append([]string(nil), field.Options...)
		}
	}
	return out
}

func validateForm(form FormModel) error {
	if strings.TrimSpace(form.ID) == "" {
		return errFormIDMissing
	}
	if err := validateFields(form.Fields, true); err != nil {
		return fmt.Errorf("model: form %q: %w", form.ID, err)
	}
	return nil
}

func validateFields(fields []Field, topLevel bool) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			return errFieldNameMissing
		}
		if strings.Contains(field.Name, ".") {
			return fmt.Errorf("field %q: names cannot contain '.'", field.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("field %q: duplicate name", field.Name)
		}
		seen[field.Name] = struct{}{}

		if _, ok := knownTypes[field.Type]; !ok {
			return fmt.Errorf("field %q: unknown type %q", field.Name, field.Type)
		}
		if field.Type == FieldTypeSelect && len(field.Options) == 0 {
			return fmt.Errorf("field %q: select requires options", field.Name)
		}
		if field.IsList() {
			if !topLevel {
				return fmt.Errorf("field %q: lists cannot be nested", field.Name)
			}
			if len(field.Items) == 0 {
				return fmt.Errorf("field %q: %w", field.Name, errListItemsMissing)
			}
			if err := validateFields(field.Items, false); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
		for _, rule := range field.Validations {
			if err := validateRule(rule); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
	}
	return nil
}

func validateRule(rule ValidationRule) error {
	if _, ok := knownRules[rule.Kind]; !ok {
		return fmt.Errorf("unknown rule %q", rule.Kind)
	}
	switch rule.Kind {
	case ValidationRuleMin, ValidationRuleMax:
		if _, err := strconv.ParseFloat(rule.Params["value"], 64); err != nil {
			return fmt.Errorf("rule %s: value must be numeric", rule.Kind)
		}
	case ValidationRuleMinLength, ValidationRuleMaxLength, ValidationRuleMinItems:
		if n, err := strconv.Atoi(rule.Params["value"]); err != nil || n < 0 {
			return fmt.Errorf("rule %s: value must be a non-negative integer", rule.Kind)
		}
	case ValidationRulePattern:
		if rule.Params["pattern"] == "" {
			return errors.New("rule pattern: pattern is required")
		}
	case ValidationRuleMatches, ValidationRuleRequiredIf:
		if rule.Params["field"] == "" {
			return fmt.Errorf("rule %s: field is required", rule.Kind)
		}
	}
	return nil
}
