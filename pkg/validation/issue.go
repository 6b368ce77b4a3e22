package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Code classifies why a field failed validation.
type Code string

const (
	CodeRequired            Code = "required"
	CodeRange               Code = "range"
	CodeLength              Code = "length"
	CodePattern             Code = "pattern"
	CodeMismatch            Code = "mismatch"
	CodeConditionalRequired Code = "conditional_required"
	CodeInvalidType         Code = "invalid_type"
	// CodeServer marks issues reported by a backend after submit.
	CodeServer Code = "server"
)

// Issue is a single validation failure attached to a field path. Params keeps
// the structured inputs used to build Message (min, length, pattern, ...).
type Issue struct {
	Path    string         `json:"path"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// Empty reports whether the issue carries no message. An empty message means
// the field is valid.
func (i Issue) Empty() bool {
	return strings.TrimSpace(i.Message) == ""
}

// Errors maps field paths to the first issue recorded for them.
type Errors map[string]Issue

// Add records the issue unless the path already holds a non-empty one. It
// reports whether the issue was stored.
func (e Errors) Add(issue Issue) bool {
	if e == nil || issue.Empty() {
		return false
	}
	if existing, ok := e[issue.Path]; ok && !existing.Empty() {
		return false
	}
	e[issue.Path] = issue
	return true
}

// Message returns the message stored for path, or "" when the path is valid.
func (e Errors) Message(path string) string {
	if e == nil {
		return ""
	}
	return e[path].Message
}

// Has reports whether path holds a non-empty issue.
func (e Errors) Has(path string) bool {
	return e.Message(path) != ""
}

// Valid reports whether no path holds a non-empty issue.
func (e Errors) Valid() bool {
	for _, issue := range e {
		if !issue.Empty() {
			return false
		}
	}
	return true
}

// Paths returns the failing paths in lexical order.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e))
	for path, issue := range e {
		if issue.Empty() {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Merge copies issues from other without overriding paths that already fail.
func (e Errors) Merge(other Errors) Errors {
	if e == nil {
		e = make(Errors, len(other))
	}
	for _, path := range other.Paths() {
		e.Add(other[path])
	}
	return e
}

// Clone returns a shallow copy of the map.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for path, issue := range e {
		out[path] = issue
	}
	return out
}

// Messages flattens the non-empty issues into path -> message.
func (e Errors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for _, path := range e.Paths() {
		out[path] = e[path].Message
	}
	return out
}

// Err returns nil when the errors are valid, otherwise an error summarising
// the first failures.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return &Failure{Errors: e.Clone()}
}

// Failure wraps Errors so callers at error-returning boundaries can surface
// validation results through errors.As.
type Failure struct {
	Errors Errors
}

func (f *Failure) Error() string {
	const maxShown = 3
	paths := f.Errors.Paths()
	var b strings.Builder
	b.WriteString("validation: ")
	for i, path := range paths {
		if i == maxShown {
			fmt.Fprintf(&b, "; ... (total %d)", len(paths))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s at %s", f.Errors[path].Code, path)
	}
	return b.String()
}
