package gallery

import (
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var priorityColors = map[string]string{
	"low":    "green",
	"medium": "gray",
	"high":   "red",
}

// TaskAccent is the accent color of one task, derived from its priority.
type TaskAccent struct {
	ID       string
	Priority string
	Color    string
}

// PriorityColor maps a task priority to its badge color. Unknown priorities
// are gray.
func PriorityColor(priority string) string {
	if color, ok := priorityColors[priority]; ok {
		return color
	}
	return "gray"
}

// TaskAccents projects the priority of every task in m, in list order. It
// reads live values, so it is current right after an edit.
func TaskAccents(m *formstate.Machine) []TaskAccent {
	projected := m.Project("tasks", "priority")
	out := make([]TaskAccent, len(projected))
	for i, entry := range projected {
		priority := validation.AsString(entry.Value)
		out[i] = TaskAccent{ID: entry.ID, Priority: priority, Color: PriorityColor(priority)}
	}
	return out
}
