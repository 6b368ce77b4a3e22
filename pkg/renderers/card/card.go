// Package card renders a form machine as a themed HTML card.
package card

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplates loads templates from files instead of the embedded set. The
// file system must provide form.html, field.html and control.html.
func WithTemplates(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	files fs.FS

	once sync.Once
	tmpl *pongo2.Template
	err  error
}

var _ render.Renderer = (*Renderer)(nil)

// TemplatesFS returns the embedded templates rooted at form.html.
func TemplatesFS() fs.FS {
	sub, _ := fs.Sub(templatesFS, "templates")
	return sub
}

// New returns a card renderer over the embedded templates.
func New(options ...Option) *Renderer {
	r := &Renderer{files: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) template() (*pongo2.Template, error) {
	r.once.Do(func() {
		set := pongo2.NewSet("card", pongo2.NewFSLoader(r.files))
		r.tmpl, r.err = set.FromFile("form.html")
		if r.err != nil {
			r.err = fmt.Errorf("card: load template: %w", r.err)
		}
	})
	return r.tmpl, r.err
}

// Render draws the machine's current values and visible errors. Each call
// counts as one render of options.Counter.
func (r *Renderer) Render(ctx context.Context, m *formstate.Machine, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("card: machine is required")
	}
	tmpl, err := r.template()
	if err != nil {
		return nil, err
	}

	data := viewContext(m, options)
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return nil, fmt.Errorf("card: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func viewContext(m *formstate.Machine, options render.RenderOptions) pongo2.Context {
	form := m.Form()
	method := strings.ToLower(options.Method)
	if method == "" {
		method = "post"
	}
	title := form.Title
	if title == "" {
		title = model.DefaultLabeler(form.ID)
	}

	data := pongo2.Context{
		"form": map[string]any{
			"id":          form.ID,
			"title":       title,
			"description": sanitize(form.Description),
		},
		"fields":      fieldViews(m, form.Fields),
		"form_errors": render.MergeFormErrors(options.FormErrors),
		"method":      method,
		"action":      options.Action,
		"novalidate":  m.Mode() != formstate.ModeNative,
		"state":       m.State().String(),
		"submitting":  m.IsSubmitting(),
	}
	if options.Theme != nil {
		data["style"] = render.CSSVarsStyle(options.Theme.CSSVars)
	}
	if options.Counter != nil {
		options.Counter.Render()
		data["badge"] = map[string]any{
			"label": options.Counter.Label(),
			"count": options.Counter.Count(),
		}
	}
	if options.Submitted != nil {
		if out, err := render.Serialize(options.Submitted, render.FormatPretty); err == nil {
			data["submitted"] = string(out)
		}
	}
	return data
}

func fieldViews(m *formstate.Machine, fields []model.Field) []map[string]any {
	views := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		if !field.IsList() {
			views = append(views, controlView(m, field, field.Name))
			continue
		}
		items := make([]map[string]any, 0)
		canRemove := m.CanRemove(field.Name)
		for _, id := range m.ItemIDs(field.Name) {
			controls := make([]map[string]any, 0, len(field.Items))
			for _, sub := range field.Items {
				controls = append(controls, controlView(m, sub, validation.ItemPath(field.Name, id, sub.Name)))
			}
			items = append(items, map[string]any{
				"id":         id,
				"fields":     controls,
				"can_remove": canRemove,
			})
		}
		views = append(views, map[string]any{
			"list":     true,
			"path":     field.Name,
			"label":    label(field),
			"required": field.Required,
			"items":    items,
			"error":    m.VisibleError(field.Name),
		})
	}
	return views
}

func controlView(m *formstate.Machine, field model.Field, path string) map[string]any {
	b := m.Binding(path)
	value := m.Value(path)
	view := map[string]any{
		"path":        path,
		"label":       label(field),
		"type":        inputType(field),
		"value":       b.Format(value),
		"required":    field.Required,
		"placeholder": field.Placeholder,
		"options":     field.Options,
		"help":        sanitize(field.Description),
		"attrs":       constraintAttrs(field),
		"visible":     m.Visible(path),
		"error":       m.VisibleError(path),
	}
	if b.Kind == binding.KindBool {
		view["checked"] = validation.Truthy(value)
	}
	return view
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func inputType(field model.Field) string {
	switch field.Type {
	case model.FieldTypeTextArea, model.FieldTypeSelect, model.FieldTypeCheckbox,
		model.FieldTypeNumber, model.FieldTypeEmail, model.FieldTypePassword:
		return string(field.Type)
	default:
		return "text"
	}
}

func constraintAttrs(field model.Field) []map[string]string {
	var attrs []map[string]string
	if field.Required {
		attrs = append(attrs, map[string]string{"name": "required", "value": "required"})
	}
	for _, rule := range field.Validations {
		var name string
		switch rule.Kind {
		case model.ValidationRuleMin:
			name = "min"
		case model.ValidationRuleMax:
			name = "max"
		case model.ValidationRuleMinLength:
			name = "minlength"
		case model.ValidationRuleMaxLength:
			name = "maxlength"
		case model.ValidationRulePattern:
			attrs = append(attrs, map[string]string{"name": "pattern", "value": rule.Params["pattern"]})
			continue
		default:
			continue
		}
		attrs = append(attrs, map[string]string{"name": name, "value": rule.Params["value"]})
	}
	return attrs
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitize keeps the inline markup used in help text (code, emphasis, links)
// and drops everything else.
func sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
		policy.AllowElements("code", "strong", "em", "b", "i", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AllowStandardURLs()
	})
	return strings.TrimSpace(policy.Sanitize(trimmed))
}
