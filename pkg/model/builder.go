package model

import (
	"github.com/goliatone/go-formstate/internal/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// Builder converts OpenAPI operations into form models.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*model.Options)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	opts := model.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return model.New(opts)
}

// Finding is one problem reported by Lint.
type Finding = model.Finding

// Lint checks the x-formstate hints of op against what the builder reads.
func Lint(op pkgopenapi.Operation) []Finding {
	return model.Lint(op)
}
