// Package text renders a form machine as styled terminal text.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Styles groups the lipgloss styles used by the renderer.
type Styles struct {
	Title lipgloss.Style
	Muted lipgloss.Style
	Label lipgloss.Style
	Error lipgloss.Style
}

// DefaultStyles returns bold titles, dim help text and red errors.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		Label: lipgloss.NewStyle().Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}),
	}
}

// Option configures the renderer.
type Option func(*Renderer)

// WithStyles replaces the default styles.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	styles Styles
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{styles: DefaultStyles()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes one line per revealed field with its current value, followed
// by its visible error. Hidden fields are skipped.
func (r *Renderer) Render(ctx context.Context, m *formstate.Machine, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("text: machine is required")
	}

	form := m.Form()
	var b strings.Builder
	title := form.Title
	if title == "" {
		title = model.DefaultLabeler(form.ID)
	}
	b.WriteString(r.styles.Title.Render(title))
	if options.Counter != nil {
		options.Counter.Render()
		b.WriteString("\n")
		b.WriteString(options.Counter.Badge())
	}
	b.WriteString("\n")
	if form.Description != "" {
		b.WriteString(r.styles.Muted.Render(form.Description))
		b.WriteString("\n")
	}
	for _, msg := range render.MergeFormErrors(options.FormErrors) {
		b.WriteString(r.styles.Error.Render("! " + msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, field := range form.Fields {
		if field.IsList() {
			r.writeList(&b, m, field)
			continue
		}
		r.writeField(&b, m, field, field.Name, "")
	}

	if options.Submitted != nil {
		out, err := render.Serialize(options.Submitted, render.FormatPretty)
		if err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		b.WriteString("\n")
		b.WriteString(r.styles.Label.Render("Submitted"))
		b.WriteString("\n")
		b.Write(out)
	}
	return []byte(b.String()), nil
}

func (r *Renderer) writeList(b *strings.Builder, m *formstate.Machine, field model.Field) {
	fmt.Fprintf(b, "%s\n", r.styles.Label.Render(label(field)))
	for i, id := range m.ItemIDs(field.Name) {
		fmt.Fprintf(b, "  #%d\n", i+1)
		for _, sub := range field.Items {
			r.writeField(b, m, sub, validation.ItemPath(field.Name, id, sub.Name), "    ")
		}
	}
	if msg := m.VisibleError(field.Name); msg != "" {
		fmt.Fprintf(b, "  %s\n", r.styles.Error.Render(msg))
	}
}

func (r *Renderer) writeField(b *strings.Builder, m *formstate.Machine, field model.Field, path, indent string) {
	if !m.Visible(path) {
		return
	}
	bound := m.Binding(path)
	value := m.Value(path)

	name := label(field)
	if field.Required {
		name += " *"
	}
	if bound.Kind == binding.KindBool {
		mark := "[ ]"
		if validation.Truthy(value) {
			mark = "[x]"
		}
		fmt.Fprintf(b, "%s%s %s\n", indent, mark, name)
	} else {
		shown := bound.Format(value)
		if field.Type == model.FieldTypePassword && shown != "" {
			shown = strings.Repeat("*", len([]rune(shown)))
		}
		if shown == "" {
			shown = r.styles.Muted.Render(field.Placeholder)
		}
		fmt.Fprintf(b, "%s%s: %s\n", indent, r.styles.Label.Render(name), shown)
	}
	if msg := m.VisibleError(path); msg != "" {
		fmt.Fprintf(b, "%s  %s\n", indent, r.styles.Error.Render(msg))
	}
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}
