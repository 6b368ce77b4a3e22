package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const (
	defaultMaxRounds   = 3
	defaultMaxAttempts = 3
)

const (
	listActionAdd    = "Add another"
	listActionRemove = "Remove one"
	listActionDone   = "Done"
)

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the visible fields of a machine, writes each answer through the machine
// and submits at the end, re-asking invalid fields until the form is
// accepted or the round limit runs out.
type Renderer struct {
	driver            PromptDriver
	format            render.Format
	maxRounds         int
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:      NewSurveyDriver(),
		format:      render.FormatJSON,
		maxRounds:   defaultMaxRounds,
		maxAttempts: defaultMaxAttempts,
		theme:       DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.format.ContentType()
}

// Render runs an interactive session against m and returns the accepted
// submission serialized in the configured format.
func (r *Renderer) Render(ctx context.Context, m *formstate.Machine, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("tui: machine is nil")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	form := m.Form()
	if title := strings.TrimSpace(form.Title); title != "" {
		if err := r.driver.Info(ctx, r.theme.Key.Render(title)); err != nil {
			return nil, err
		}
	}
	for _, msg := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.Error.Render(msg)); err != nil {
			return nil, err
		}
	}

	for round := 0; round < r.maxRounds; round++ {
		retry := round > 0
		for _, field := range form.Fields {
			var err error
			if field.IsList() {
				err = r.askList(ctx, m, field, retry)
			} else {
				err = r.askField(ctx, m, field.Name, field, retry)
			}
			if err != nil {
				return nil, err
			}
		}

		var accepted map[string]any
		if m.Submit(func(values map[string]any) { accepted = values }) {
			return r.finish(ctx, accepted)
		}
		if err := r.reportErrors(ctx, m); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d submit attempts", ErrRejected, r.maxRounds)
}

func (r *Renderer) finish(ctx context.Context, values map[string]any) ([]byte, error) {
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	if err := r.driver.Info(ctx, r.theme.Success.Render("Submitted")); err != nil {
		return nil, err
	}
	return render.Serialize(values, r.format)
}

func (r *Renderer) reportErrors(ctx context.Context, m *formstate.Machine) error {
	paths := m.Errors().Paths()
	if len(paths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(paths)+1)
	lines = append(lines, r.theme.Error.Render(fmt.Sprintf("%d field(s) need attention:", len(paths))))
	for _, path := range paths {
		msg := m.VisibleError(path)
		if msg == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s", r.theme.Key.Render(path), r.theme.Muted.Render(msg)))
	}
	return r.driver.Info(ctx, strings.Join(lines, "\n"))
}

// askField prompts path until its displayed error clears or the attempt
// budget runs out. Retry rounds only revisit fields that show an error.
func (r *Renderer) askField(ctx context.Context, m *formstate.Machine, path string, field model.Field, retry bool) error {
	if !m.Visible(path) {
		return nil
	}
	if retry && m.VisibleError(path) == "" {
		return nil
	}
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := r.prompt(ctx, m, path, field); err != nil {
			return err
		}
		m.SetFieldTouched(path)
		msg := m.VisibleError(path)
		if msg == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.Error.Render(msg)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prompt(ctx context.Context, m *formstate.Machine, path string, field model.Field) error {
	b := m.Binding(path)
	current := m.Value(path)
	label := displayLabel(field)

	switch {
	case b.Kind == binding.KindBool:
		checked, _ := current.(bool)
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: field.Description})
		if err != nil {
			return err
		}
		m.SetFieldValue(path, ok)
	case field.Type == model.FieldTypeSelect && len(field.Options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, b.Format(current)),
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		raw := ""
		if idx >= 0 && idx < len(field.Options) {
			raw = field.Options[idx]
		}
		m.SetFieldInput(path, raw)
	case field.Type == model.FieldTypeTextArea:
		raw, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: b.Format(current), Help: field.Description})
		if err != nil {
			return err
		}
		m.SetFieldInput(path, raw)
	case field.Type == model.FieldTypePassword:
		raw, err := r.driver.Password(ctx, InputConfig{Message: label, Help: field.Description})
		if err != nil {
			return err
		}
		m.SetFieldInput(path, raw)
	default:
		cfg := InputConfig{Message: label, Default: b.Format(current), Help: field.Description}
		if b.Kind == binding.KindNumber {
			cfg.Check = numberCheck(b)
		}
		raw, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		m.SetFieldInput(path, raw)
	}
	return nil
}

// numberCheck rejects text that is not blank and does not parse as a number.
// Blank input still reaches the machine so required rules can report it.
func numberCheck(b binding.Binding) func(string) error {
	return func(raw string) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		if n, ok := b.Parse(raw).(float64); ok && !math.IsNaN(n) {
			return nil
		}
		msg, err := validation.DefaultCatalog.Translate("en", validation.MessageInvalidNumber)
		if err != nil {
			return err
		}
		return errors.New(msg)
	}
}

func (r *Renderer) askList(ctx context.Context, m *formstate.Machine, field model.Field, retry bool) error {
	if !m.Visible(field.Name) {
		return nil
	}
	for _, id := range m.ItemIDs(field.Name) {
		if err := r.askItem(ctx, m, field, id, retry); err != nil {
			return err
		}
	}
	if retry && m.VisibleError(field.Name) == "" {
		return nil
	}

	label := displayLabel(field)
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("%s (%d items)", label, len(m.ItemIDs(field.Name))),
			Options: []string{listActionAdd, listActionRemove, listActionDone},
		})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			id := m.Append(field.Name, nil)
			if err := r.askItem(ctx, m, field, id, false); err != nil {
				return err
			}
		case 1:
			if err := r.removeItem(ctx, m, field); err != nil {
				return err
			}
		default:
			m.SetFieldTouched(field.Name)
			if msg := m.VisibleError(field.Name); msg != "" {
				if err := r.driver.Info(ctx, r.theme.Error.Render(msg)); err != nil {
					return err
				}
			}
			return nil
		}
	}
}

func (r *Renderer) askItem(ctx context.Context, m *formstate.Machine, field model.Field, id string, retry bool) error {
	for _, sub := range field.Items {
		if err := r.askField(ctx, m, formstate.ItemPath(field.Name, id, sub.Name), sub, retry); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) removeItem(ctx context.Context, m *formstate.Machine, field model.Field) error {
	if !m.CanRemove(field.Name) {
		return r.driver.Info(ctx, r.theme.Muted.Render(
			fmt.Sprintf("%s needs at least %d item(s)", displayLabel(field), m.MinItems(field.Name))))
	}
	ids := m.ItemIDs(field.Name)
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = itemLabel(m, field, id, i)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Remove which item?", Options: labels})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(ids) {
		return nil
	}
	m.Remove(field.Name, ids[idx])
	return nil
}

func itemLabel(m *formstate.Machine, field model.Field, id string, index int) string {
	label := "#" + strconv.Itoa(index+1)
	if len(field.Items) == 0 {
		return label
	}
	first := validation.AsString(m.Value(formstate.ItemPath(field.Name, id, field.Items[0].Name)))
	if first == "" {
		return label
	}
	return label + " " + first
}

func displayLabel(field model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	if field.Required {
		label += " *"
	}
	return label
}
