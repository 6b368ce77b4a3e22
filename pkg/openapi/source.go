package openapi

import (
	"fmt"
	"path/filepath"
)

// SourceKind says where a loader reads a document from.
type SourceKind string

const (
	SourceFile  SourceKind = "file"
	SourceFS    SourceKind = "fs"
	SourceBytes SourceKind = "bytes"
)

// Source names an OpenAPI document. Inline sources carry their payload.
type Source struct {
	Kind     SourceKind
	Location string
	data     []byte
}

// SourceFromFile points at a path on disk.
func SourceFromFile(path string) Source {
	return Source{Kind: SourceFile, Location: filepath.Clean(path)}
}

// SourceFromFS points at an entry of the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{Kind: SourceFS, Location: name}
}

// SourceFromBytes wraps an in-memory document; name is only used in errors.
func SourceFromBytes(name string, data []byte) Source {
	return Source{Kind: SourceBytes, Location: name, data: append([]byte(nil), data...)}
}

// Inline returns the payload of a bytes source.
func (s Source) Inline() []byte {
	return append([]byte(nil), s.data...)
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Location)
}
