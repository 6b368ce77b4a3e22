// Package rendercount counts how many times a view rendered between mounts.
package rendercount

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette maps badge color names to light/dark colors.
var Palette = map[string]lipgloss.AdaptiveColor{
	"blue":   {Light: "#1E40AF", Dark: "#93C5FD"},
	"red":    {Light: "#991B1B", Dark: "#FCA5A5"},
	"green":  {Light: "#166534", Dark: "#86EFAC"},
	"purple": {Light: "#6B21A8", Dark: "#D8B4FE"},
	"orange": {Light: "#9A3412", Dark: "#FDBA74"},
	"teal":   {Light: "#115E59", Dark: "#5EEAD4"},
	"pink":   {Light: "#9D174D", Dark: "#F9A8D4"},
	"indigo": {Light: "#3730A3", Dark: "#A5B4FC"},
	"cyan":   {Light: "#155E75", Dark: "#67E8F9"},
	"violet": {Light: "#5B21B6", Dark: "#C4B5FD"},
	"gray":   {Light: "#1F2937", Dark: "#D1D5DB"},
}

// Counter is a monotonic render counter owned by one mounted view.
type Counter struct {
	Name  string
	Color string
	count int
}

// New returns a counter at zero. Unknown colors fall back to blue.
func New(name, color string) *Counter {
	if _, ok := Palette[color]; !ok {
		color = "blue"
	}
	return &Counter{Name: name, Color: color}
}

// Render records one render and returns the new count.
func (c *Counter) Render() int {
	c.count++
	return c.count
}

// Count reports renders since the counter was created.
func (c *Counter) Count() int {
	return c.count
}

// Label is the unstyled badge text.
func (c *Counter) Label() string {
	return fmt.Sprintf("%s | Render Count: %d", c.Name, c.count)
}

// Badge renders the label as a rounded, colored pill.
func (c *Counter) Badge() string {
	color := Palette[c.Color]
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(c.Label())
}

// Tracker keeps one counter per mount key. Remount starts a fresh counter,
// the way a remounted view loses its render history.
type Tracker struct {
	mu       sync.Mutex
	counters map[string]*Counter
	mounts   map[string]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		counters: make(map[string]*Counter),
		mounts:   make(map[string]int),
	}
}

// Counter returns the counter mounted under key, creating it on first use.
func (t *Tracker) Counter(key, name, color string) *Counter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.counters[key]; ok {
		return c
	}
	c := New(name, color)
	t.counters[key] = c
	t.mounts[key]++
	return c
}

// Remount replaces the counter under key with a fresh one and returns it.
func (t *Tracker) Remount(key string) *Counter {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, color := key, "blue"
	if old, ok := t.counters[key]; ok {
		name, color = old.Name, old.Color
	}
	c := New(name, color)
	t.counters[key] = c
	t.mounts[key]++
	return c
}

// Mounts reports how many times key has been mounted.
func (t *Tracker) Mounts(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mounts[key]
}
