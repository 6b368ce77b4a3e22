package formstate

import "strings"

// EventKind classifies a state update.
type EventKind int

const (
	EventValue EventKind = iota
	EventTouched
	EventErrors
	EventList
	EventSubmit
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventValue:
		return "value"
	case EventTouched:
		return "touched"
	case EventErrors:
		return "errors"
	case EventList:
		return "list"
	case EventSubmit:
		return "submit"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one state update. Paths lists the affected field paths;
// nil means the whole form.
type Event struct {
	Kind  EventKind
	Paths []string
	State State
}

// Affects reports whether the event touches path. List names match their
// item paths and the other way round.
func (e Event) Affects(path string) bool {
	if e.Paths == nil {
		return true
	}
	for _, changed := range e.Paths {
		if changed == path ||
			strings.HasPrefix(path, changed+".") ||
			strings.HasPrefix(changed, path+".") {
			return true
		}
	}
	return false
}

type subscription struct {
	fn    func(Event)
	paths []string
}

// Subscribe registers fn for updates affecting any of paths, or every update
// when no path is given. The returned function unsubscribes.
func (m *Machine) Subscribe(fn func(Event), paths ...string) func() {
	if fn == nil {
		return func() {}
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = subscription{fn: fn, paths: append([]string(nil), paths...)}
	return func() {
		delete(m.subs, id)
	}
}

func (m *Machine) emit(kind EventKind, paths ...string) {
	event := Event{Kind: kind, Paths: paths, State: m.state}
	if kind == EventSubmit || kind == EventReset {
		event.Paths = nil
	}
	for id := 0; id < m.nextID; id++ {
		sub, ok := m.subs[id]
		if !ok {
			continue
		}
		if len(sub.paths) == 0 || affectsAny(event, sub.paths) {
			sub.fn(event)
		}
	}
}

func affectsAny(event Event, paths []string) bool {
	for _, path := range paths {
		if event.Affects(path) {
			return true
		}
	}
	return false
}
