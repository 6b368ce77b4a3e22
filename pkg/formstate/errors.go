package formstate

import "errors"

var (
	// ErrUnknownMode is returned by ParseMode for unrecognised names.
	ErrUnknownMode = errors.New("formstate: unknown mode")
	// ErrNoSchema is returned when a machine is built without a schema.
	ErrNoSchema = errors.New("formstate: schema is required")
	// ErrUnknownList is returned when list options name a non-list field.
	ErrUnknownList = errors.New("formstate: unknown list")
)
