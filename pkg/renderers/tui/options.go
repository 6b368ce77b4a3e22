package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formstate/pkg/render"
)

// Theme styles the messages the session prints between prompts.
type Theme struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultTheme uses the red/green accents of the HTML card.
func DefaultTheme() Theme {
	return Theme{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}),
		Success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		Key:     lipgloss.NewStyle().Bold(true),
	}
}

// SubmitTransformer mutates accepted values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects how the accepted submission is serialized.
func WithOutputFormat(format render.Format) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithMaxRounds limits how many submit attempts a session makes before
// giving up with ErrRejected.
func WithMaxRounds(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// WithMaxAttempts limits how many times a single field is re-asked while it
// shows an error.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithSubmitTransformer mutates accepted values prior to serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme replaces the message styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
