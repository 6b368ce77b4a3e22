package formstate

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// FormState is a point-in-time copy of a machine. Mutating it does not affect
// the machine.
type FormState struct {
	State           State
	Values          validation.Values
	Errors          validation.Errors
	Touched         map[string]bool
	IsSubmitting    bool
	SubmitAttempted bool
	SubmitCount     int
	// Accepted reports whether the last settled submit called onAccept.
	Accepted bool
}

// store holds the mutable maps behind a Machine, keyed by field path.
type store struct {
	values  validation.Values
	errors  validation.Errors
	touched map[string]bool
}

func newStore(initial validation.Values) *store {
	values := initial.Clone()
	if values == nil {
		values = validation.Values{}
	}
	return &store{
		values:  values,
		errors:  make(validation.Errors),
		touched: make(map[string]bool),
	}
}

func (s *store) setError(path string, issue validation.Issue, failed bool) bool {
	previous := s.errors[path]
	if !failed || issue.Empty() {
		if _, ok := s.errors[path]; !ok {
			return false
		}
		delete(s.errors, path)
		return true
	}
	issue.Path = path
	s.errors[path] = issue
	return previous.Message != issue.Message || previous.Code != issue.Code
}

// replaceErrors swaps in errs and returns the paths whose issue changed.
func (s *store) replaceErrors(errs validation.Errors) []string {
	var changed []string
	for path, previous := range s.errors {
		next, ok := errs[path]
		if !ok || next.Empty() || next.Message != previous.Message || next.Code != previous.Code {
			changed = append(changed, path)
		}
	}
	next := make(validation.Errors, len(errs))
	for path, issue := range errs {
		if issue.Empty() {
			continue
		}
		next[path] = issue
		if _, existed := s.errors[path]; !existed {
			changed = append(changed, path)
		}
	}
	s.errors = next
	return changed
}

// dropPrefix removes errors and touched flags under prefix, used when a list
// item goes away.
func (s *store) dropPrefix(prefix string) {
	for path := range s.errors {
		if strings.HasPrefix(path, prefix) {
			delete(s.errors, path)
		}
	}
	for path := range s.touched {
		if strings.HasPrefix(path, prefix) {
			delete(s.touched, path)
		}
	}
}

func cloneTouched(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for path, ok := range src {
		if ok {
			out[path] = true
		}
	}
	return out
}
