package formdef

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrNotFound is returned by Store.Form for unknown ids.
var ErrNotFound = errors.New("formdef: form not found")

// Store indexes loaded forms by id.
type Store struct {
	forms   map[string]model.FormModel
	sources map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		forms:   make(map[string]model.FormModel),
		sources: make(map[string]string),
	}
}

// LoadFS walks the provided filesystem and parses JSON/YAML definition files.
// When fsys is nil or no definition files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if err := store.Add(form, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single definition file from disk.
func LoadFile(path string) ([]model.FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Add stores form under its id. Duplicate ids are rejected.
func (s *Store) Add(form model.FormModel, source string) error {
	id := strings.TrimSpace(form.ID)
	if previous, exists := s.sources[id]; exists {
		return fmt.Errorf("formdef: duplicate form %q (files %s and %s)", id, previous, source)
	}
	s.forms[id] = form
	s.sources[id] = source
	return nil
}

// Form returns the form stored under id.
func (s *Store) Form(id string) (model.FormModel, error) {
	if s != nil {
		if form, ok := s.forms[id]; ok {
			return form, nil
		}
	}
	return model.FormModel{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Source reports the file a form was read from.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// IDs lists the stored form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms []model.FormModel `json:"forms" yaml:"forms"`
}

// Parse decodes a definition document. JSON is tried first, then YAML.
// source only labels errors.
func Parse(data []byte, source string) ([]model.FormModel, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("formdef: file %s is empty", source)
	}

	forms, err := decode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("formdef: parse %s: %w", source, err)
	}

	out := make([]model.FormModel, 0, len(forms))
	for _, form := range forms {
		normalised, err := model.Normalize(form)
		if err != nil {
			return nil, fmt.Errorf("formdef: %s: %w", source, err)
		}
		out = append(out, normalised)
	}
	return out, nil
}

func decode(data []byte) ([]model.FormModel, error) {
	if data[0] == '{' {
		var doc documentFile
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if len(doc.Forms) > 0 {
			return doc.Forms, nil
		}
		var form model.FormModel
		if err := json.Unmarshal(data, &form); err != nil {
			return nil, err
		}
		return []model.FormModel{form}, nil
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Forms) > 0 {
		return doc.Forms, nil
	}
	var form model.FormModel
	if err := yaml.Unmarshal(data, &form); err != nil {
		return nil, err
	}
	return []model.FormModel{form}, nil
}

// Marshal encodes form as YAML, the format the CLI prints definitions in.
func Marshal(form model.FormModel) ([]byte, error) {
	return yaml.Marshal(form)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
