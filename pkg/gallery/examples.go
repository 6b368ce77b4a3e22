package gallery

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const notesPlaceholder = "Enter your notes..."

// countNameForm is the count/name/notes form most pages share. Nil rule
// slices leave count and name unchecked.
func countNameForm(id, title, mode string, countRules, nameRules []model.ValidationRule) model.FormModel {
	return model.FormModel{
		ID:    id,
		Title: title,
		Mode:  mode,
		Fields: []model.Field{
			{
				Name:        "count",
				Type:        model.FieldTypeNumber,
				Label:       "Count",
				Placeholder: "Count",
				Required:    hasRule(countRules, model.ValidationRuleRequired),
				Validations: countRules,
			},
			{
				Name:        "name",
				Type:        model.FieldTypeText,
				Label:       "Name",
				Placeholder: "Name",
				Required:    hasRule(nameRules, model.ValidationRuleRequired),
				Validations: nameRules,
			},
			{Name: "hasNotes", Type: model.FieldTypeCheckbox, Label: "Add notes"},
			{
				Name:        "notes",
				Type:        model.FieldTypeTextArea,
				Label:       "Notes",
				Placeholder: notesPlaceholder,
				VisibleWhen: "hasNotes",
			},
		},
	}
}

func hasRule(rules []model.ValidationRule, kind string) bool {
	for _, rule := range rules {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

// browserRules are the constraints the uncontrolled pages declare on their
// inputs: required count >= 1 and required name of 3+ characters.
func browserRules() (count, name []model.ValidationRule) {
	count = []model.ValidationRule{
		model.Rule(model.ValidationRuleRequired),
		model.Rule(model.ValidationRuleMin, "value", "1"),
	}
	name = []model.ValidationRule{
		model.Rule(model.ValidationRuleRequired),
		model.Rule(model.ValidationRuleMinLength, "value", "3"),
	}
	return count, name
}

func countNameSummary(values map[string]any) string {
	return fmt.Sprintf("Count: %v, Name: %v", values["count"], values["name"])
}

func home() Example {
	return Example{
		Path:        "/",
		Title:       "Home",
		Description: "Form handling techniques and the libraries behind them",
		Color:       "gray",
		Component:   "App",
	}
}

func badExample() Example {
	return Example{
		Path:        "/bad-example",
		Title:       "Bad Example",
		Description: "Component defined inside parent (causes re-renders)",
		Color:       "red",
		Component:   "BadExample",
		FormCounter: "Form (inside BadExample)",
		Placement:   Inline,
		form: func() model.FormModel {
			return countNameForm("bad-example", "Form Component", "change", nil, nil)
		},
		summary: countNameSummary,
	}
}

func betterExample() Example {
	return Example{
		Path:        "/better-example",
		Title:       "Better Example",
		Description: "Component defined outside parent (proper pattern)",
		Color:       "green",
		Component:   "BetterExample",
		FormCounter: "Form (outside BetterExample)",
		Placement:   Hoisted,
		form: func() model.FormModel {
			return countNameForm("better-example", "Form Component", "change", nil, nil)
		},
		summary: countNameSummary,
	}
}

func refExample() Example {
	return Example{
		Path:        "/ref-example",
		Title:       "Ref Example (Uncontrolled)",
		Description: "Uses refs to access form values (not controlled by React state)",
		Color:       "purple",
		Component:   "RefExample",
		FormCounter: "Ref Form",
		Placement:   Isolated,
		native:      true,
		form: func() model.FormModel {
			count, name := browserRules()
			return countNameForm("ref-example", "Ref Form", "native", count, name)
		},
		summary: countNameSummary,
	}
}

func formDataExample() Example {
	return Example{
		Path:        "/formdata-example",
		Title:       "FormData Example (Uncontrolled)",
		Description: "Uses FormData API to access form values (no refs, no state)",
		Color:       "orange",
		Component:   "FormDataExample",
		FormCounter: "FormData Form",
		Placement:   Isolated,
		native:      true,
		form: func() model.FormModel {
			count, name := browserRules()
			return countNameForm("formdata-example", "FormData Form", "native", count, name)
		},
		summary: countNameSummary,
	}
}

func stateExample() Example {
	return Example{
		Path:        "/state-example",
		Title:       "State Example (Controlled)",
		Description: "Uses controlled inputs with real-time validation (shows errors immediately)",
		Color:       "teal",
		Component:   "StateExample",
		FormCounter: "Form",
		Placement:   Hoisted,
		form: func() model.FormModel {
			count, name := browserRules()
			return countNameForm("state-example", "State Form", "touched", count, name)
		},
		summary: countNameSummary,
	}
}

const shortNameMessage = "Please lengthen this text to 3 characters or more."

func hookUncontrolled() Example {
	return Example{
		Path:        "/rhf-uncontrolled",
		Title:       "React Hook Form (Uncontrolled)",
		Description: "Uses react-hook-form with uncontrolled inputs via register()",
		Color:       "pink",
		Component:   "ReactHookFormUncontrolled",
		FormCounter: "Form",
		Placement:   Isolated,
		form: func() model.FormModel {
			count, _ := browserRules()
			name := []model.ValidationRule{
				model.Rule(model.ValidationRuleRequired),
				model.Rule(model.ValidationRuleMinLength, "value", "3", "message", shortNameMessage),
			}
			return countNameForm("rhf-uncontrolled", "React Hook Form (Uncontrolled)", "submit", count, name)
		},
		summary: countNameSummary,
	}
}

func hookControlled() Example {
	return Example{
		Path:        "/rhf-controlled",
		Title:       "React Hook Form (Controlled)",
		Description: "Uses react-hook-form with controlled inputs via Controller",
		Color:       "indigo",
		Component:   "ReactHookFormControlled",
		FormCounter: "Form",
		Placement:   Hoisted,
		form: func() model.FormModel {
			count, _ := browserRules()
			name := []model.ValidationRule{
				model.Rule(model.ValidationRuleRequired),
				model.Rule(model.ValidationRuleMinLength, "value", "3", "message", shortNameMessage),
			}
			return countNameForm("rhf-controlled", "React Hook Form (Controlled)", "change", count, name)
		},
		summary: countNameSummary,
	}
}

func fieldArray() Example {
	return Example{
		Path:        "/rhf-field-array",
		Title:       "React Hook Form (Field Array)",
		Description: "Uses useFieldArray for dynamic form fields (add/remove tasks)",
		Color:       "cyan",
		Component:   "ReactHookFormFieldArray",
		FormCounter: "Project Task Manager",
		Placement:   Hoisted,
		SubmitLabel: "Submit Project",
		form:        projectForm,
		summary: func(values map[string]any) string {
			tasks, _ := values["tasks"].([]map[string]any)
			return fmt.Sprintf("Project: %v\nTasks: %d", values["projectName"], len(tasks))
		},
	}
}

func projectForm() model.FormModel {
	return model.FormModel{
		ID:    "rhf-field-array",
		Title: "Project Task Manager",
		Mode:  "submit",
		Fields: []model.Field{
			{
				Name:        "projectName",
				Type:        model.FieldTypeText,
				Label:       "Project Name",
				Placeholder: "Enter project name",
				Required:    true,
				Validations: []model.ValidationRule{
					model.Rule(model.ValidationRuleRequired, "message", "Project name is required"),
					model.Rule(model.ValidationRuleMinLength, "value", "3", "message", "Project name must be at least 3 characters"),
				},
			},
			{
				Name:  "tasks",
				Type:  model.FieldTypeList,
				Label: "Tasks",
				Validations: []model.ValidationRule{
					model.Rule(model.ValidationRuleMinItems, "value", "1"),
				},
				Items: []model.Field{
					{
						Name:        "title",
						Type:        model.FieldTypeText,
						Label:       "Task Title",
						Placeholder: "Task title",
						Required:    true,
						Validations: []model.ValidationRule{
							model.Rule(model.ValidationRuleRequired, "message", "Task title is required"),
							model.Rule(model.ValidationRuleMinLength, "value", "3", "message", "Title must be at least 3 characters"),
						},
					},
					{
						Name:        "description",
						Type:        model.FieldTypeTextArea,
						Label:       "Description",
						Placeholder: "Task description (optional)",
					},
					{
						Name:    "priority",
						Type:    model.FieldTypeSelect,
						Label:   "Priority",
						Options: []string{"low", "medium", "high"},
						Default: "medium",
					},
					{Name: "isUrgent", Type: model.FieldTypeCheckbox, Label: "Mark as urgent?"},
					{
						Name:        "urgentNote",
						Type:        model.FieldTypeText,
						Label:       "Urgent Note",
						Placeholder: "Why is this urgent?",
						VisibleWhen: "item.isUrgent",
					},
				},
			},
		},
	}
}

func schemaExample() Example {
	return Example{
		Path:        "/zod-example",
		Title:       "Zod Validation Example",
		Description: "Uses Zod for type-safe schema validation with React Hook Form",
		Color:       "violet",
		Component:   "ZodExample",
		FormCounter: "Form",
		Placement:   Hoisted,
		form:        signupForm,
		schema:      SignupSchema,
		summary: func(values map[string]any) string {
			return fmt.Sprintf("Email: %v, Age: %v", values["email"], values["age"])
		},
	}
}

func signupForm() model.FormModel {
	return model.FormModel{
		ID:    "zod-example",
		Title: "Sign Up",
		Mode:  "change",
		Fields: []model.Field{
			{Name: "email", Type: model.FieldTypeEmail, Label: "Email", Placeholder: "email@example.com", Required: true},
			{Name: "age", Type: model.FieldTypeNumber, Label: "Age", Placeholder: "Age", Required: true},
			{Name: "password", Type: model.FieldTypePassword, Label: "Password", Placeholder: "Password", Required: true},
			{Name: "confirmPassword", Type: model.FieldTypePassword, Label: "Confirm Password", Placeholder: "Confirm Password", Required: true},
			{Name: "hasNotes", Type: model.FieldTypeCheckbox, Label: "Add notes"},
			{
				Name:        "notes",
				Type:        model.FieldTypeTextArea,
				Label:       "Notes",
				Placeholder: notesPlaceholder,
				Required:    true,
				VisibleWhen: "hasNotes",
			},
		},
	}
}

// SignupSchema is the sign-up schema composed in code: per-field rules plus
// the password confirmation and notes refinements.
func SignupSchema() *validation.Schema {
	hasNotes := func(s validation.Scope) bool { return validation.Truthy(s.Lookup("hasNotes")) }
	return validation.New().
		Field("email",
			validation.Required().WithMessage("Email is required"),
			validation.Email().WithMessage("Invalid email address"),
		).
		Field("age",
			validation.Required().WithMessage("Expected number, received nan"),
			validation.Min(18).WithMessage("Must be at least 18 years old"),
			validation.Max(100).WithMessage("Must be at most 100 years old"),
		).
		Field("password",
			validation.Required().WithMessage("Password must be at least 8 characters"),
			validation.MinLength(8).WithMessage("Password must be at least 8 characters"),
			validation.Contains("[A-Z]", "").WithMessage("Password must contain at least one uppercase letter"),
			validation.Contains("[a-z]", "").WithMessage("Password must contain at least one lowercase letter"),
			validation.Contains("[0-9]", "").WithMessage("Password must contain at least one number"),
		).
		Field("confirmPassword", validation.Required().WithMessage("Please confirm your password")).
		Field("hasNotes").
		Field("notes").
		Gate("notes", hasNotes).
		Refine("confirmPassword", func(s validation.Scope) bool {
			return validation.AsString(s.Lookup("password")) == validation.AsString(s.Lookup("confirmPassword"))
		}, "Passwords do not match").
		RefineCode("notes", validation.CodeConditionalRequired, func(s validation.Scope) bool {
			return !hasNotes(s) || !validation.IsBlank(s.Lookup("notes"))
		}, "Notes are required when 'Add notes' is checked")
}
