package formstate

import (
	"fmt"
	"strings"
)

// State is the lifecycle phase of a form.
type State int

const (
	// Pristine: no value has been edited since creation or Reset.
	Pristine State = iota
	// Editing: values changed since the last settle.
	Editing
	// Submitting: a submit ticket is outstanding.
	Submitting
	// Settled: the last submit finished, accepted or rejected.
	Settled
)

func (s State) String() string {
	switch s {
	case Pristine:
		return "pristine"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode selects when validation runs. Display is always gated by touched or a
// submit attempt.
type Mode int

const (
	// ModeSubmit validates on submit only. After the first submit attempt,
	// touched fields revalidate on change.
	ModeSubmit Mode = iota
	// ModeTouched validates a field once it has been touched and on every
	// change after that. Editing one field never revalidates another, so a
	// conditional field revealed again keeps no error until it is touched or
	// edited.
	ModeTouched
	// ModeChange revalidates every field on every change.
	ModeChange
	// ModeNative validates on submit only, with messages supplied by a
	// constraint host (see pkg/validation/native).
	ModeNative
)

func (m Mode) String() string {
	switch m {
	case ModeSubmit:
		return "submit"
	case ModeTouched:
		return "touched"
	case ModeChange:
		return "change"
	case ModeNative:
		return "native"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the mode names plus the onSubmit/onTouched/onBlur/
// onChange/all aliases used in form definitions. An empty string is
// ModeSubmit.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "submit", "onsubmit":
		return ModeSubmit, nil
	case "touched", "ontouched", "blur", "onblur":
		return ModeTouched, nil
	case "change", "onchange", "all", "live":
		return ModeChange, nil
	case "native":
		return ModeNative, nil
	default:
		return ModeSubmit, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// live reports whether the mode revalidates a touched field on change before
// any submit attempt.
func (m Mode) live() bool {
	return m == ModeTouched || m == ModeChange
}
