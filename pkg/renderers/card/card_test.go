package card

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/rendercount"
)

func notesForm() model.FormModel {
	return model.FormModel{
		ID:          "stateExample",
		Title:       "State Form",
		Description: `Uses <code>useState</code><script>alert(1)</script>`,
		Fields: []model.Field{
			{Name: "count", Type: model.FieldTypeNumber, Required: true, Validations: []model.ValidationRule{
				model.Rule(model.ValidationRuleMin, "value", "1"),
			}},
			{Name: "hasNotes", Type: model.FieldTypeCheckbox, Label: "Add notes?"},
			{Name: "notes", Type: model.FieldTypeTextArea, VisibleWhen: "hasNotes", Placeholder: "Enter your notes..."},
			{Name: "tasks", Type: model.FieldTypeList, Items: []model.Field{
				{Name: "title", Type: model.FieldTypeText, Required: true},
			}},
		},
	}
}

func TestRenderShowsVisibleErrorsOnly(t *testing.T) {
	t.Parallel()

	m, err := formstate.FromModel(notesForm(), formstate.WithIDGenerator(func() string { return "item1" }))
	require.NoError(t, err)

	r := New()
	out, err := r.Render(context.Background(), m, render.RenderOptions{})
	require.NoError(t, err)
	html := string(out)
	require.Contains(t, html, `<h2 class="fs-card__title">State Form</h2>`)
	require.Contains(t, html, "<code>useState</code>")
	require.NotContains(t, html, "<script>")
	require.NotContains(t, html, "Please fill out this field.")
	require.NotContains(t, html, "Enter your notes...")
	require.Contains(t, html, `name="tasks.item1.title"`)
	require.Contains(t, html, ` min="1"`)
	require.NotContains(t, html, `name="_remove"`)

	m.SetFieldValue("hasNotes", true)
	require.False(t, m.Submit(nil))
	out, err = r.Render(context.Background(), m, render.RenderOptions{FormErrors: []string{"Try again"}})
	require.NoError(t, err)
	html = string(out)
	require.Contains(t, html, "Please fill out this field.")
	require.Contains(t, html, "Enter your notes...")
	require.Contains(t, html, " checked")
	require.Contains(t, html, "Try again")
	require.Equal(t, 2, strings.Count(html, `class="fs-error"`))
}

func TestRenderCountsAndThemes(t *testing.T) {
	t.Parallel()

	m, err := formstate.FromModel(notesForm())
	require.NoError(t, err)

	selection, err := render.NewManifestSelector(render.DefaultManifest()).Select("", "purple")
	require.NoError(t, err)

	counter := rendercount.New("Parent", "purple")
	r := New()
	opts := render.RenderOptions{Counter: counter, Theme: render.ThemeConfig(selection, nil)}
	_, err = r.Render(context.Background(), m, opts)
	require.NoError(t, err)
	out, err := r.Render(context.Background(), m, opts)
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "Parent | Render Count: 2")
	require.Contains(t, html, "--accent: #9333ea")
	require.Equal(t, "text/html; charset=utf-8", r.ContentType())
}
