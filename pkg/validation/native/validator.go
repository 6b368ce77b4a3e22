package native

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Validator asks a Host about every revealed field of a form. Issues the host
// cannot express, such as cross-field mismatches and list sizes, come from
// the schema and never replace a host message.
type Validator struct {
	form   model.FormModel
	host   Host
	schema *validation.Schema
}

// NewValidator pairs form with host. schema supplies visibility and the
// non-constraint rules; it may be nil.
func NewValidator(form model.FormModel, host Host, schema *validation.Schema) *Validator {
	if host == nil {
		host = Elements{}
	}
	return &Validator{form: form, host: host, schema: schema}
}

// Validate implements formstate.Validator.
func (v *Validator) Validate(values validation.Values) validation.Errors {
	errs := make(validation.Errors)
	for _, field := range v.form.Fields {
		if field.IsList() {
			for _, item := range values.Items(field.Name) {
				for _, sub := range field.Items {
					path := validation.ItemPath(field.Name, item.ID, sub.Name)
					v.check(errs, path, sub, item.Values[sub.Name], values)
				}
			}
			continue
		}
		value, _ := values.Lookup(field.Name)
		v.check(errs, field.Name, field, value, values)
	}
	if v.schema != nil {
		errs.Merge(v.schema.Validate(values))
	}
	return errs
}

func (v *Validator) check(errs validation.Errors, path string, field model.Field, value any, values validation.Values) {
	if v.schema != nil && !v.schema.Visible(path, values) {
		return
	}
	if coded, ok := v.host.(issueHost); ok {
		if issue, failed := coded.Constraint(field, value); failed {
			issue.Path = path
			errs.Add(issue)
		}
		return
	}
	valid, message := v.host.Validity(field, value)
	if valid {
		return
	}
	code := validation.CodePattern
	if validation.IsBlank(value) {
		code = validation.CodeRequired
	}
	errs.Add(validation.Issue{Path: path, Code: code, Message: message})
}
