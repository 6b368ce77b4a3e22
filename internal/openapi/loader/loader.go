// Package loader reads OpenAPI payloads from disk, an fs.FS or memory.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

var (
	// ErrNoFileSystem is returned for fs sources when no fs.FS was configured.
	ErrNoFileSystem = errors.New("openapi loader: no filesystem configured")
	ErrEmptyPayload = errors.New("openapi loader: document is empty")
)

type Loader struct {
	files fs.FS
}

var _ pkgopenapi.Loader = (*Loader)(nil)

func New(options pkgopenapi.Options) *Loader {
	return &Loader{files: options.FileSystem}
}

// Load reads src. Every kind yields a non-empty payload or an error naming
// the source.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}
	if src.Location == "" && src.Kind != pkgopenapi.SourceBytes {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind)
	}

	data, err := l.read(src)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: read %s: %w", src, err)
	}
	if len(data) == 0 {
		return pkgopenapi.Document{}, fmt.Errorf("%w: %s", ErrEmptyPayload, src)
	}
	return pkgopenapi.Document{Source: src, Data: data}, nil
}

func (l *Loader) read(src pkgopenapi.Source) ([]byte, error) {
	switch src.Kind {
	case pkgopenapi.SourceFile:
		return os.ReadFile(src.Location)
	case pkgopenapi.SourceFS:
		if l.files == nil {
			return nil, ErrNoFileSystem
		}
		return fs.ReadFile(l.files, src.Location)
	case pkgopenapi.SourceBytes:
		return src.Inline(), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}
