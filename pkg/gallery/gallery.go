// Package gallery holds the example forms shown by the formstate CLI: one
// route per technique, each with its form definition, validation mode and
// render-count placement.
package gallery

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/validation/native"
)

// ErrUnknownRoute is returned by Find when no example is mounted at a path.
var ErrUnknownRoute = errors.New("gallery: unknown route")

// Example is one gallery page.
type Example struct {
	Path        string
	Title       string
	Description string
	Color       string
	// Component and FormCounter name the parent and child render counters.
	Component   string
	FormCounter string
	Placement   Placement
	// SubmitLabel is the text of the submit action. Empty means "Submit".
	SubmitLabel string

	form    func() model.FormModel
	schema  func() *validation.Schema
	native  bool
	summary func(values map[string]any) string
}

// Form returns a fresh copy of the example's form definition.
func (e Example) Form() model.FormModel {
	if e.form == nil {
		return model.FormModel{}
	}
	return e.form()
}

// Native reports whether messages come from the native constraint host.
func (e Example) Native() bool {
	return e.native
}

// NewMachine builds a machine for the example. Native examples validate
// through native.Elements; schema examples use the schema composed in code.
func (e Example) NewMachine(options ...formstate.Option) (*formstate.Machine, error) {
	if e.form == nil {
		return nil, fmt.Errorf("%w %q: no form", ErrUnknownRoute, e.Path)
	}
	form := e.Form()

	var schema *validation.Schema
	switch {
	case e.schema != nil:
		schema = e.schema()
	case e.native:
		built, err := validation.FromModel(form)
		if err != nil {
			return nil, fmt.Errorf("gallery %s: %w", e.Path, err)
		}
		schema = built
		options = append([]formstate.Option{formstate.WithValidator(native.NewValidator(form, native.Elements{}, built))}, options...)
	}

	m, err := formstate.FromModelWith(form, schema, options...)
	if err != nil {
		return nil, fmt.Errorf("gallery %s: %w", e.Path, err)
	}
	log.Debug(log.CatGallery, "machine mounted", "route", e.Path, "mode", m.Mode())
	return m, nil
}

// Summarize formats accepted values the way the example reports a submit.
// Examples without a custom summary fall back to the pretty serializer.
func (e Example) Summarize(values map[string]any) string {
	if e.summary != nil {
		return e.summary(values)
	}
	out, err := render.Serialize(values, render.FormatPretty)
	if err != nil {
		return fmt.Sprint(values)
	}
	return strings.TrimRight(string(out), "\n")
}

// Theme resolves the example's accent color against the built-in manifest.
func (e Example) Theme() (*theme.RendererConfig, error) {
	selector := render.NewManifestSelector(render.DefaultManifest())
	selection, err := selector.Select("", e.Color)
	if err != nil {
		return nil, fmt.Errorf("gallery %s: %w", e.Path, err)
	}
	return render.ThemeConfig(selection, nil), nil
}

// Routes returns the gallery pages in navigation order, Home first.
func Routes() []Example {
	return []Example{
		home(),
		badExample(),
		betterExample(),
		refExample(),
		formDataExample(),
		stateExample(),
		hookUncontrolled(),
		hookControlled(),
		fieldArray(),
		schemaExample(),
	}
}

// Lookup finds an example by path. The leading slash is optional and the
// form id is accepted too.
func Lookup(route string) (Example, bool) {
	route = strings.TrimSpace(route)
	path := "/" + strings.TrimPrefix(route, "/")
	for _, e := range Routes() {
		if e.Path == path || (e.form != nil && e.Form().ID == route) {
			return e, true
		}
	}
	return Example{}, false
}

// Find is Lookup with an error for unknown routes.
func Find(route string) (Example, error) {
	e, ok := Lookup(route)
	if !ok {
		return Example{}, fmt.Errorf("%w %q", ErrUnknownRoute, route)
	}
	return e, nil
}
