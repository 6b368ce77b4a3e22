package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/rendercount"
)

// RenderOptions carry per-render data that does not belong in the form model.
type RenderOptions struct {
	// Theme supplies tokens and partial overrides. See ThemeConfig.
	Theme *theme.RendererConfig
	// Counter, when set, is bumped once per render and its badge is drawn
	// next to the form title.
	Counter *rendercount.Counter
	// Action and Method populate the form element of HTML renderers.
	Action string
	Method string
	// FormErrors are messages that belong to no field, typically the Form
	// half of MapErrorPayload or PayloadCheck.FormErrors.
	FormErrors []string
	// Submitted is the payload of the last accepted submit, shown as a
	// confirmation when set.
	Submitted map[string]any
}
