package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/rendercount"
	"github.com/goliatone/go-formstate/pkg/renderers/text"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	renderFormat string
	renderSets   []string
	renderSubmit bool
	renderFormID string

	renderServerErrs string
)

var renderCmd = &cobra.Command{
	Use:   "render <route|file>",
	Short: "Render a form's state as HTML or text",
	Long: `Render a gallery example or a form definition after applying edits.

Each --set path=value is parsed through the field's binding and marks the
field touched, so errors show the way they would after the user left the
field. List items are addressed by position: tasks.0.title. --submit runs a
submit after the edits. --server-errors submits against a JSON error payload
as a backend would return it ({"path": ["message", ...]}); keys may be JSON
pointers or dotted paths and unknown keys show as form-level errors.

Examples:
  formstate render /state-example --set name=ab
  formstate render zod-example --format text --set email=nope --submit
  formstate render rhf-field-array --set tasks.1.title=Ship --submit
  formstate render signup.yaml --set email=a@b.co --server-errors taken.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "renderer name, alias or media type (html, card, text, text/plain)")
	renderCmd.Flags().StringArrayVar(&renderSets, "set", nil, "path=value edit to apply (repeatable)")
	renderCmd.Flags().BoolVar(&renderSubmit, "submit", false, "submit after applying edits")
	renderCmd.Flags().StringVar(&renderFormID, "id", "", "form id inside a definition file with several forms")
	renderCmd.Flags().StringVar(&renderServerErrs, "server-errors", "", "JSON error payload to submit against (implies --submit)")
}

func runRender(cmd *cobra.Command, args []string) error {
	tracker := rendercount.NewTracker()
	t, err := loadTarget(args[0], renderFormID, tracker)
	if err != nil {
		return err
	}
	defer t.close()

	m := t.machine
	for _, assignment := range renderSets {
		if err := applyAssignment(m, assignment); err != nil {
			return err
		}
	}

	opts := formstate.RenderOptions{}
	switch {
	case renderServerErrs != "":
		payload, err := loadErrorPayload(renderServerErrs)
		if err != nil {
			return err
		}
		check := render.NewPayloadCheck(m.Form(), func(context.Context, validation.Values) (map[string][]string, error) {
			return payload, nil
		})
		accepted, err := m.AwaitSubmit(cmd.Context(), check, func(values map[string]any) { opts.Submitted = values })
		if err != nil {
			return err
		}
		opts.FormErrors = check.FormErrors()
		log.Debug(log.CatRender, "server errors applied", "file", renderServerErrs, "accepted", accepted)
	case renderSubmit:
		m.Submit(func(values map[string]any) { opts.Submitted = values })
	}
	if opts.Theme, err = resolveTheme(t); err != nil {
		return err
	}
	if t.demo != nil {
		opts.Counter = t.demo.Form()
	}

	registry, err := formstate.NewRegistry(text.New())
	if err != nil {
		return err
	}
	name := renderFormat
	if !registry.Has(name) {
		return fmt.Errorf("unknown format %q (available: %v)", name, registry.List())
	}
	out, err := formstate.Render(cmd.Context(), registry, name, m, opts)
	if err != nil {
		return err
	}
	log.Debug(log.CatRender, "rendered", "form", m.Form().ID, "format", name, "bytes", len(out))
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// resolveTheme selects cfg.Theme from the built-in manifest. The variant is
// cfg.Variant, or the example's color when none is configured.
func resolveTheme(t *target) (*theme.RendererConfig, error) {
	variant := cfg.Variant
	if variant == "" && t.example != nil {
		variant = t.example.Color
	}
	selector := render.NewManifestSelector(render.DefaultManifest())
	selection, err := selector.Select(cfg.Theme, variant)
	if err != nil {
		return nil, err
	}
	return render.ThemeConfig(selection, nil), nil
}

func loadErrorPayload(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("server errors: parse %s: %w", path, err)
	}
	return payload, nil
}
