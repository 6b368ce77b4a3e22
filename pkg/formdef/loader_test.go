package formdef

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
)

func TestLoadFSReadsYAMLAndJSON(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(`
id: contact
fields:
  - name: name
    required: true
  - name: tasks
    items:
      - name: title
`)},
		"forms/pair.json": {Data: []byte(`{"forms": [
  {"id": "a", "fields": [{"name": "x", "type": "number", "default": 3}]},
  {"id": "b", "fields": [{"name": "y", "type": "checkbox"}]}
]}`)},
		"forms/README.md": {Data: []byte("ignored")},
	}

	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "contact"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	contact, err := store.Form("contact")
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if contact.Fields[0].Type != model.FieldTypeText || contact.Fields[0].Label != "Name" {
		t.Fatalf("expected normalised field, got %+v", contact.Fields[0])
	}
	if contact.Fields[1].Type != model.FieldTypeList {
		t.Fatalf("expected list kind, got %q", contact.Fields[1].Type)
	}
	if store.Source("a") != "forms/pair.json" {
		t.Fatalf("unexpected source %q", store.Source("a"))
	}

	a, _ := store.Form("a")
	if a.Fields[0].Default != 3.0 {
		t.Fatalf("expected JSON number default, got %#v", a.Fields[0].Default)
	}

	if _, err := store.Form("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFSRejectsDuplicatesAndBrokenFiles(t *testing.T) {
	t.Parallel()

	_, err := LoadFS(fstest.MapFS{
		"one.yaml": {Data: []byte("id: same\nfields: [{name: a}]\n")},
		"two.yml":  {Data: []byte("id: same\nfields: [{name: b}]\n")},
	})
	if err == nil || !strings.Contains(err.Error(), `duplicate form "same"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	_, err = LoadFS(fstest.MapFS{"empty.json": {Data: []byte("  ")}})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	_, err = LoadFS(fstest.MapFS{"bad.yaml": {Data: []byte("id: bad\nfields:\n  - name: a\n    type: date\n")}})
	if err == nil || !strings.Contains(err.Error(), `unknown type "date"`) {
		t.Fatalf("expected normalise error, got %v", err)
	}

	store, err := LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store for nil fs, got %v %v", store, err)
	}
}

func TestLoadFileSignupFixture(t *testing.T) {
	t.Parallel()

	forms, err := LoadFile(filepath.Join("..", "..", "testdata", "forms", "signup.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(forms) != 1 || forms[0].ID != "signup" || forms[0].Mode != "touched" {
		t.Fatalf("unexpected forms: %+v", forms)
	}
	notes, ok := forms[0].Field("notes")
	if !ok || notes.VisibleWhen != "hasNotes" {
		t.Fatalf("expected gated notes field, got %+v", notes)
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	t.Parallel()

	form, err := model.Normalize(model.FormModel{ID: "x", Fields: []model.Field{
		{Name: "age", Type: model.FieldTypeNumber, Validations: []model.ValidationRule{model.Rule("min", "value", "18")}},
	}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	data, err := Marshal(form)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	parsed, err := Parse(data, "inline")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(form, parsed[0]); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "x.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
}
