package openapi

import (
	"context"
	"io/fs"
)

// Loader reads the raw payload behind a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser turns a loaded document into operations keyed by operationId.
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

// DefaultMediaTypes are tried in order when picking a request body schema.
var DefaultMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Options is shared by loaders and parsers; each reads the fields it needs.
type Options struct {
	FileSystem  fs.FS
	ResolveRefs bool
	MediaTypes  []string
}

type Option func(*Options)

// WithFileSystem backs SourceFromFS lookups.
func WithFileSystem(files fs.FS) Option {
	return func(o *Options) { o.FileSystem = files }
}

// WithReferenceResolution toggles external $ref loading and document
// validation. It is on by default.
func WithReferenceResolution(enabled bool) Option {
	return func(o *Options) { o.ResolveRefs = enabled }
}

// WithMediaTypes replaces the preferred request body media types.
func WithMediaTypes(types ...string) Option {
	return func(o *Options) { o.MediaTypes = append([]string(nil), types...) }
}

// NewOptions applies options over the defaults.
func NewOptions(options ...Option) Options {
	o := Options{ResolveRefs: true, MediaTypes: DefaultMediaTypes}
	for _, opt := range options {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
