// Package native emulates constraint validation the way a host document
// reports it: each field is checked on its own against the constraints
// declared on it and the host supplies the message.
package native

import (
	"sort"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Host reports whether value satisfies field's constraints, and the message
// to show when it does not.
type Host interface {
	Validity(field model.Field, value any) (valid bool, message string)
}

// HostFunc adapts a function into a Host.
type HostFunc func(field model.Field, value any) (bool, string)

func (fn HostFunc) Validity(field model.Field, value any) (bool, string) {
	return fn(field, value)
}

// issueHost is implemented by hosts that can classify a failure.
type issueHost interface {
	Constraint(field model.Field, value any) (validation.Issue, bool)
}

// Elements is the built-in Host. It checks required, type=email,
// pattern, maxLength, minLength, min and max in that order and reports the
// first failure with browser-style wording. Cross-field rules are not
// constraints and are ignored.
type Elements struct {
	Locale     string
	Translator validation.Translator
}

// Validity implements Host.
func (e Elements) Validity(field model.Field, value any) (bool, string) {
	issue, failed := e.Constraint(field, value)
	if !failed {
		return true, ""
	}
	return false, issue.Message
}

// Constraint returns the first broken constraint as an issue.
func (e Elements) Constraint(field model.Field, value any) (validation.Issue, bool) {
	scope := validation.Scope{Locale: e.Locale, Translator: e.Translator}
	for _, rule := range constraints(field) {
		if issue, failed := rule.Apply(field.Name, value, scope); failed {
			return issue, true
		}
	}
	return validation.Issue{}, false
}

var priority = map[string]int{
	model.ValidationRuleRequired:  0,
	model.ValidationRuleEmail:     1,
	model.ValidationRulePattern:   2,
	model.ValidationRuleMaxLength: 3,
	model.ValidationRuleMinLength: 4,
	model.ValidationRuleMin:       5,
	model.ValidationRuleMax:       6,
}

type constraint struct {
	kind string
	rule validation.Rule
}

func constraints(field model.Field) []validation.Rule {
	var found []constraint
	seen := make(map[string]bool)
	add := func(kind string, rule validation.Rule) {
		if seen[kind] {
			return
		}
		seen[kind] = true
		found = append(found, constraint{kind: kind, rule: rule})
	}

	if field.Required {
		add(model.ValidationRuleRequired, validation.ValueMissing())
	}
	if field.Type == model.FieldTypeEmail {
		add(model.ValidationRuleEmail, validation.Email())
	}
	for _, spec := range field.Validations {
		switch spec.Kind {
		case model.ValidationRuleRequired:
			add(spec.Kind, validation.ValueMissing())
		case model.ValidationRuleEmail:
			add(spec.Kind, validation.Email())
		case model.ValidationRulePattern:
			if rule := validation.Pattern(spec.Params["pattern"], spec.Params["label"]); rule.Err() == nil {
				add(spec.Kind, rule)
			}
		case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
			n, err := strconv.Atoi(spec.Params["value"])
			if err != nil {
				continue
			}
			if spec.Kind == model.ValidationRuleMinLength {
				add(spec.Kind, validation.MinLength(n))
			} else {
				add(spec.Kind, validation.MaxLength(n))
			}
		case model.ValidationRuleMin, model.ValidationRuleMax:
			n, err := strconv.ParseFloat(spec.Params["value"], 64)
			if err != nil {
				continue
			}
			if spec.Kind == model.ValidationRuleMin {
				add(spec.Kind, validation.Min(n))
			} else {
				add(spec.Kind, validation.Max(n))
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return priority[found[i].kind] < priority[found[j].kind]
	})
	rules := make([]validation.Rule, len(found))
	for i, c := range found {
		rules[i] = c.rule
	}
	return rules
}
