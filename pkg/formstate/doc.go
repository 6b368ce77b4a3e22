// Package formstate implements the form validation state machine: one
// Machine per form instance tracks values, touched flags and errors, decides
// when validation runs (the Mode) and when errors are shown (VisibleError),
// and gates submission on a clean validation pass.
//
// A Machine is not safe for concurrent use. All mutations happen on the
// caller's event goroutine; asynchronous checks are expressed as tickets
// (BeginSubmit/ResolveSubmit, BeginFieldCheck/ResolveFieldCheck) that are
// resolved back on that goroutine and ignored once stale.
package formstate
