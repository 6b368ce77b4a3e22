package model

import internalmodel "github.com/goliatone/go-formstate/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypePassword = internalmodel.FieldTypePassword
	FieldTypeTextArea = internalmodel.FieldTypeTextArea
	FieldTypeEmail    = internalmodel.FieldTypeEmail
	FieldTypeNumber   = internalmodel.FieldTypeNumber
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeList     = internalmodel.FieldTypeList
)

const (
	ValidationRuleRequired   = internalmodel.ValidationRuleRequired
	ValidationRuleMin        = internalmodel.ValidationRuleMin
	ValidationRuleMax        = internalmodel.ValidationRuleMax
	ValidationRuleMinLength  = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength  = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern    = internalmodel.ValidationRulePattern
	ValidationRuleEmail      = internalmodel.ValidationRuleEmail
	ValidationRuleMatches    = internalmodel.ValidationRuleMatches
	ValidationRuleRequiredIf = internalmodel.ValidationRuleRequiredIf
	ValidationRuleMinItems   = internalmodel.ValidationRuleMinItems
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

// Rule builds a ValidationRule from alternating param name/value pairs.
func Rule(kind string, params ...string) ValidationRule {
	rule := ValidationRule{Kind: kind}
	for i := 0; i+1 < len(params); i += 2 {
		if rule.Params == nil {
			rule.Params = make(map[string]string, len(params)/2)
		}
		rule.Params[params[i]] = params[i+1]
	}
	return rule
}

// Normalize fills derived defaults (labels, missing kinds) and checks the
// definition for structural mistakes such as duplicate names or lists
// without item fields.
func Normalize(form FormModel) (FormModel, error) {
	return internalmodel.Normalize(form, internalmodel.Options{})
}

// DefaultLabeler turns a field name such as "confirmPassword" into
// "Confirm Password".
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
