package openapi_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate"
	pkgmodel "github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

func TestLoaderParserIntegration(t *testing.T) {
	ctx := context.Background()

	fixture := filepath.Join("testdata", "project.yaml")
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "project.yaml")
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	parser := formstate.NewParser()

	docFile, err := formstate.NewLoader().Load(ctx, pkgopenapi.SourceFromFile(filePath))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	fromFile, err := parser.Operations(ctx, docFile)
	if err != nil {
		t.Fatalf("parse file document: %v", err)
	}

	loaderFS := formstate.NewLoader(pkgopenapi.WithFileSystem(os.DirFS("testdata")))
	docFS, err := loaderFS.Load(ctx, pkgopenapi.SourceFromFS("project.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	fromFS, err := parser.Operations(ctx, docFS)
	if err != nil {
		t.Fatalf("parse fs document: %v", err)
	}
	if len(fromFile) != len(fromFS) {
		t.Fatalf("expected same operations from both sources, got %d and %d", len(fromFile), len(fromFS))
	}

	form, err := pkgmodel.NewBuilder().Build(fromFile["createProject"])
	if err != nil {
		t.Fatalf("build form: %v", err)
	}

	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	want := []string{"projectName", "owner", "budget", "hasNotes", "notes", "tasks"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if form.Mode != "touched" {
		t.Fatalf("expected mode from x-formstate, got %q", form.Mode)
	}
}

func TestLoaderRejectsMissingFileSystem(t *testing.T) {
	_, err := formstate.NewLoader().Load(context.Background(), pkgopenapi.SourceFromFS("project.yaml"))
	if err == nil {
		t.Fatalf("expected error without a configured filesystem")
	}
}
