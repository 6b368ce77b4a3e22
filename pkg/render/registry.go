package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

var (
	ErrRendererRequired = errors.New("render: renderer is required")
	ErrRendererNotFound = errors.New("render: renderer not found")
	ErrRendererExists   = errors.New("render: renderer already registered")
)

// Registry resolves renderers by name, alias or media type. The first
// renderer registered is the default.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]Renderer
	aliases   map[string]string
	defaultID string
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Renderer),
		aliases: make(map[string]string),
	}
}

// Register adds renderer under its Name and any aliases.
func (r *Registry) Register(renderer Renderer, aliases ...string) error {
	if renderer == nil {
		return ErrRendererRequired
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range append([]string{name}, aliases...) {
		if r.taken(key) {
			return fmt.Errorf("%w: %q", ErrRendererExists, key)
		}
	}
	r.byName[name] = renderer
	for _, alias := range aliases {
		r.aliases[alias] = name
	}
	if r.defaultID == "" {
		r.defaultID = name
	}
	return nil
}

func (r *Registry) taken(key string) bool {
	_, named := r.byName[key]
	_, aliased := r.aliases[key]
	return named || aliased
}

// Get resolves key. An empty key selects the default; a key containing "/"
// is matched against each renderer's media type, ignoring parameters.
func (r *Registry) Get(key string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer := r.resolve(key); renderer != nil {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, key)
}

func (r *Registry) resolve(key string) Renderer {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return r.byName[r.defaultID]
	case strings.Contains(key, "/"):
		want := mediaType(key)
		for _, name := range r.sortedNames() {
			if mediaType(r.byName[name].ContentType()) == want {
				return r.byName[name]
			}
		}
		return nil
	}
	if name, ok := r.aliases[key]; ok {
		key = name
	}
	return r.byName[key]
}

func mediaType(value string) string {
	if parsed, _, err := mime.ParseMediaType(value); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(value))
}

// SetDefault changes the renderer Get returns for an empty key.
func (r *Registry) SetDefault(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	renderer := r.resolve(key)
	if renderer == nil {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, key)
	}
	r.defaultID = renderer.Name()
	return nil
}

// Has reports whether Get would resolve key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(key) != nil
}

// List returns the registered names in order; aliases are not listed.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
