package model

// Decorator adjusts a form model after it is built.
type Decorator interface {
	Decorate(*FormModel) error
}

type DecoratorFunc func(*FormModel) error

func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Apply runs decorators in order, stopping at the first error.
func Apply(form *FormModel, decorators ...Decorator) error {
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(form); err != nil {
			return err
		}
	}
	return nil
}

// Overlay copies presentation from src onto the fields of the same name:
// labels, placeholders, descriptions, visibility rules and the messages of
// rules whose kind both sides share. Fields src does not name are left
// alone and src fields missing from the form are ignored. A non-empty src
// title, description or mode replaces the form's.
func Overlay(src FormModel) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		form.Title = pick(src.Title, form.Title)
		form.Description = pick(src.Description, form.Description)
		form.Mode = pick(src.Mode, form.Mode)
		overlayFields(form.Fields, src.Fields)
		return nil
	})
}

func overlayFields(dst, src []Field) {
	byName := make(map[string]Field, len(src))
	for _, f := range src {
		byName[f.Name] = f
	}
	for i := range dst {
		from, ok := byName[dst[i].Name]
		if !ok {
			continue
		}
		to := &dst[i]
		to.Label = pick(from.Label, to.Label)
		to.Placeholder = pick(from.Placeholder, to.Placeholder)
		to.Description = pick(from.Description, to.Description)
		to.VisibleWhen = pick(from.VisibleWhen, to.VisibleWhen)
		overlayMessages(to.Validations, from.Validations)
		overlayFields(to.Items, from.Items)
	}
}

func overlayMessages(dst, src []ValidationRule) {
	for _, from := range src {
		msg := from.Params["message"]
		if msg == "" {
			continue
		}
		for i := range dst {
			if dst[i].Kind != from.Kind {
				continue
			}
			params := make(map[string]string, len(dst[i].Params)+1)
			for k, v := range dst[i].Params {
				params[k] = v
			}
			params["message"] = msg
			dst[i].Params = params
		}
	}
}

func pick(override, current string) string {
	if override != "" {
		return override
	}
	return current
}
