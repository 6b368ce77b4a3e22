package formstate

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// SubmitTicket identifies one submit window. It freezes the values the
// submit was started with.
type SubmitTicket struct {
	seq        uint64
	generation uint64
	writes     uint64
	values     validation.Values
}

// Values returns a copy of the values frozen when the submit began.
func (t *SubmitTicket) Values() validation.Values {
	if t == nil {
		return nil
	}
	return t.values.Clone()
}

// BeginSubmit opens a submit window: every field is marked touched, the
// attempt is recorded and the machine enters Submitting. An earlier
// outstanding ticket becomes stale.
func (m *Machine) BeginSubmit() *SubmitTicket {
	m.submitSeq++
	ticket := &SubmitTicket{
		seq:        m.submitSeq,
		generation: m.generation,
		writes:     m.writes,
		values:     m.st.values.Clone(),
	}
	m.pending = ticket
	m.submitAttempted = true
	for _, path := range m.Paths() {
		m.st.touched[path] = true
	}
	for _, list := range m.schema.ListNames() {
		m.st.touched[list] = true
	}
	m.transition(Submitting)
	m.emit(EventSubmit)
	return ticket
}

func (m *Machine) current(ticket *SubmitTicket) bool {
	return ticket != nil && m.pending == ticket && ticket.generation == m.generation
}

// ResolveSubmit closes the window opened by ticket as one update: the
// validator runs over the current values, visible asyncErrs are merged
// behind its issues and the machine settles. onAccept runs exactly once when
// the form is valid and no value changed since BeginSubmit. Stale tickets
// are ignored and report false.
func (m *Machine) ResolveSubmit(ticket *SubmitTicket, asyncErrs validation.Errors, onAccept func(values map[string]any)) bool {
	if !m.current(ticket) {
		m.logger.Debug("stale submit ignored", "seq", ticketSeq(ticket), "current", m.submitSeq)
		return false
	}
	m.pending = nil

	errs := m.validate()
	errs.Merge(m.visibleOnly(asyncErrs))
	changedDuringWindow := m.writes != ticket.writes
	m.st.replaceErrors(errs)

	m.submitCount++
	m.accepted = errs.Valid() && !changedDuringWindow
	if changedDuringWindow {
		m.logger.Debug("submit rejected", "reason", "values changed", "seq", ticket.seq)
	}
	if m.accepted {
		m.st.errors = make(validation.Errors)
		if onAccept != nil {
			onAccept(ticket.values.Plain())
		}
	}
	m.transition(Settled)
	m.logger.Debug("submit settled", "seq", ticket.seq, "accepted", m.accepted, "errors", len(errs))
	m.emit(EventSubmit)
	return m.accepted
}

// AbandonSubmit drops ticket without settling, returning the machine to
// Editing. Errors and touched flags are left as they are.
func (m *Machine) AbandonSubmit(ticket *SubmitTicket) {
	if !m.current(ticket) {
		return
	}
	m.pending = nil
	m.transition(Editing)
	m.logger.Debug("submit abandoned", "seq", ticket.seq)
	m.emit(EventSubmit)
}

func ticketSeq(ticket *SubmitTicket) uint64 {
	if ticket == nil {
		return 0
	}
	return ticket.seq
}

// FieldTicket identifies an out-of-band check of one field.
type FieldTicket struct {
	Path       string
	seq        uint64
	generation uint64
}

// BeginFieldCheck records the field's current write position so a later
// result can tell whether it is still about the latest value.
func (m *Machine) BeginFieldCheck(path string) FieldTicket {
	return FieldTicket{Path: path, seq: m.fieldSeq[path], generation: m.generation}
}

// ResolveFieldCheck applies issue to the ticket's field unless a newer
// SetFieldValue hit that path or the machine was reset. An empty issue
// clears the field. It reports whether the result was applied.
func (m *Machine) ResolveFieldCheck(ticket FieldTicket, issue validation.Issue) bool {
	if ticket.generation != m.generation || m.fieldSeq[ticket.Path] != ticket.seq {
		m.logger.Debug("stale field check ignored", "path", ticket.Path)
		return false
	}
	if !issue.Empty() && !m.Visible(ticket.Path) {
		return false
	}
	if m.st.setError(ticket.Path, issue, !issue.Empty()) {
		m.emit(EventErrors, ticket.Path)
	}
	return true
}

// AsyncValidator consults an external source. It receives a copy of the
// values and must not touch the machine.
type AsyncValidator interface {
	ValidateAsync(ctx context.Context, values validation.Values) (validation.Errors, error)
}

// AsyncValidatorFunc adapts a function into an AsyncValidator.
type AsyncValidatorFunc func(ctx context.Context, values validation.Values) (validation.Errors, error)

func (fn AsyncValidatorFunc) ValidateAsync(ctx context.Context, values validation.Values) (validation.Errors, error) {
	return fn(ctx, values)
}

type asyncResult struct {
	errs validation.Errors
	err  error
}

// AwaitSubmit opens a submit window, runs v on its own goroutine and resolves
// the window on the calling goroutine once v returns. If ctx ends first or v
// fails the window is abandoned and the error returned.
func (m *Machine) AwaitSubmit(ctx context.Context, v AsyncValidator, onAccept func(values map[string]any)) (bool, error) {
	ticket := m.BeginSubmit()
	if v == nil {
		return m.ResolveSubmit(ticket, nil, onAccept), nil
	}

	done := make(chan asyncResult, 1)
	go func(values validation.Values) {
		errs, err := v.ValidateAsync(ctx, values)
		done <- asyncResult{errs: errs, err: err}
	}(ticket.Values())

	select {
	case <-ctx.Done():
		m.AbandonSubmit(ticket)
		return false, ctx.Err()
	case res := <-done:
		if res.err != nil {
			m.AbandonSubmit(ticket)
			return false, fmt.Errorf("formstate: async validation: %w", res.err)
		}
		return m.ResolveSubmit(ticket, res.errs, onAccept), nil
	}
}
