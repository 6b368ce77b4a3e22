package render

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the theme built into the HTML renderer.
const DefaultThemeName = "formstate"

// DefaultManifest describes the built-in look: a neutral card with a red error
// accent and one variant per example color.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":  "#3b82f6",
			"error":   "#dc2626",
			"surface": "#ffffff",
			"border":  "#d1d5db",
			"text":    "#1f2937",
		},
		Variants: map[string]theme.Variant{
			"purple": {Tokens: map[string]string{"accent": "#9333ea"}},
			"green":  {Tokens: map[string]string{"accent": "#16a34a"}},
			"orange": {Tokens: map[string]string{"accent": "#f97316"}},
			"teal":   {Tokens: map[string]string{"accent": "#0d9488"}},
			"indigo": {Tokens: map[string]string{"accent": "#4f46e5"}},
			"blue":   {Tokens: map[string]string{"accent": "#3b82f6"}},
			"red":    {Tokens: map[string]string{"accent": "#ef4444"}},
			"pink":   {Tokens: map[string]string{"accent": "#ec4899"}},
			"cyan":   {Tokens: map[string]string{"accent": "#06b6d4"}},
			"violet": {Tokens: map[string]string{"accent": "#8b5cf6"}},
			"gray":   {Tokens: map[string]string{"accent": "#6b7280"}},
			"dark": {Tokens: map[string]string{
				"surface": "#111827",
				"border":  "#374151",
				"text":    "#f9fafb",
			}},
		},
	}
}

// ManifestSelector resolves themes from registered manifests. It implements
// theme.ThemeSelector.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewManifestSelector registers manifests; the first becomes the default.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		s.Register(manifest)
	}
	return s
}

// Register adds or replaces a manifest.
func (s *ManifestSelector) Register(manifest *theme.Manifest) {
	if manifest == nil || manifest.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	if s.fallback == "" {
		s.fallback = manifest.Name
	}
}

// Select implements theme.ThemeSelector. Empty names pick the default theme;
// unknown variants are an error.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.fallback
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// ThemeConfig flattens a selection into renderer configuration: variant
// tokens override manifest tokens, every token also becomes a --token CSS
// variable and fallbacks fill partials the theme does not override.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}
	if selection == nil || selection.Manifest == nil {
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}
	for key, value := range manifest.Templates {
		cfg.Partials[key] = value
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			cfg.Tokens[key] = value
		}
		for key, value := range variant.Templates {
			cfg.Partials[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// CSSVarsStyle renders CSS variables as a sorted inline style declaration.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
