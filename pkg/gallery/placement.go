package gallery

import (
	"fmt"

	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rendercount"
)

// Placement says where the form view lives relative to the page that owns
// the state, which decides how often each of them renders.
type Placement int

const (
	// Inline declares the form view inside the page: every page update
	// builds a new view, so the form remounts and its counter restarts.
	Inline Placement = iota
	// Hoisted declares the form view once. It stays mounted and re-renders
	// with every page update.
	Hoisted
	// Isolated keeps state out of the page. The form re-renders only for
	// updates to its own fields and the page only for submits and resets.
	Isolated
)

func (p Placement) String() string {
	switch p {
	case Inline:
		return "inline"
	case Hoisted:
		return "hoisted"
	case Isolated:
		return "isolated"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// Demo is a mounted example: a machine plus the page and form render
// counters driven by its updates.
type Demo struct {
	Example Example

	machine *formstate.Machine
	tracker *rendercount.Tracker
	pageKey string
	formKey string
	unsubs  []func()
}

// Mount builds the example's machine and wires its counters into tracker.
// Both views render once on mount.
func Mount(e Example, tracker *rendercount.Tracker, options ...formstate.Option) (*Demo, error) {
	if tracker == nil {
		tracker = rendercount.NewTracker()
	}
	m, err := e.NewMachine(options...)
	if err != nil {
		return nil, err
	}
	d := &Demo{
		Example: e,
		machine: m,
		tracker: tracker,
		pageKey: e.Path + "#page",
		formKey: e.Path + "#form",
	}
	d.Page().Render()
	d.Form().Render()

	switch e.Placement {
	case Inline:
		d.unsubs = append(d.unsubs, m.Subscribe(func(formstate.Event) {
			d.Page().Render()
			d.tracker.Remount(d.formKey).Render()
		}))
	case Hoisted:
		d.unsubs = append(d.unsubs, m.Subscribe(func(formstate.Event) {
			d.Page().Render()
			d.Form().Render()
		}))
	case Isolated:
		d.unsubs = append(d.unsubs,
			m.Subscribe(func(ev formstate.Event) {
				if ev.Kind == formstate.EventSubmit || ev.Kind == formstate.EventReset {
					d.Page().Render()
				}
			}),
			m.Subscribe(func(formstate.Event) {
				d.Form().Render()
			}, append(m.Schema().FieldNames(), m.Schema().ListNames()...)...),
		)
	}
	log.Debug(log.CatGallery, "demo mounted", "route", e.Path, "placement", e.Placement)
	return d, nil
}

// Machine returns the demo's state machine.
func (d *Demo) Machine() *formstate.Machine {
	return d.machine
}

// Page returns the counter of the page owning the state.
func (d *Demo) Page() *rendercount.Counter {
	return d.tracker.Counter(d.pageKey, d.Example.Component, d.Example.Color)
}

// Form returns the counter of the currently mounted form view.
func (d *Demo) Form() *rendercount.Counter {
	return d.tracker.Counter(d.formKey, d.Example.FormCounter, d.Example.Color)
}

// FormMounts reports how many times the form view has been mounted.
func (d *Demo) FormMounts() int {
	return d.tracker.Mounts(d.formKey)
}

// Close detaches the counters from the machine.
func (d *Demo) Close() {
	for _, unsub := range d.unsubs {
		unsub()
	}
	d.unsubs = nil
}
