package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, *formstate.Machine, RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrRendererRequired) {
		t.Fatalf("expected ErrRendererRequired, got %v", err)
	}
	if err := r.Register(stubRenderer{name: " "}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
	if err := r.Register(stubRenderer{name: "html", contentType: "text/html; charset=utf-8"}, "card"); err != nil {
		t.Fatalf("register html: %v", err)
	}
	if err := r.Register(stubRenderer{name: "html"}); !errors.Is(err, ErrRendererExists) {
		t.Fatalf("expected ErrRendererExists for a taken name, got %v", err)
	}
	if err := r.Register(stubRenderer{name: "other"}, "card"); !errors.Is(err, ErrRendererExists) {
		t.Fatalf("expected ErrRendererExists for a taken alias, got %v", err)
	}
	if r.Has("other") {
		t.Fatalf("a rejected registration must not leave a renderer behind")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubRenderer{name: "html", contentType: "text/html; charset=utf-8"}, "card"); err != nil {
		t.Fatalf("register html: %v", err)
	}
	if err := r.Register(stubRenderer{name: "text", contentType: "text/plain; charset=utf-8"}, "plain"); err != nil {
		t.Fatalf("register text: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{key: "", want: "html"},
		{key: "text", want: "text"},
		{key: "card", want: "html"},
		{key: " plain ", want: "text"},
		{key: "text/plain", want: "text"},
		{key: "TEXT/HTML; charset=utf-8", want: "html"},
	}
	for _, tt := range tests {
		got, err := r.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%q): %v", tt.key, err)
		}
		if got.Name() != tt.want {
			t.Fatalf("Get(%q) = %s, want %s", tt.key, got.Name(), tt.want)
		}
	}
	for _, key := range []string{"pdf", "application/pdf"} {
		if _, err := r.Get(key); !errors.Is(err, ErrRendererNotFound) {
			t.Fatalf("Get(%q): expected ErrRendererNotFound, got %v", key, err)
		}
	}

	if err := r.SetDefault("plain"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if got, _ := r.Get(""); got.Name() != "text" {
		t.Fatalf("expected text default, got %s", got.Name())
	}
	if err := r.SetDefault("pdf"); !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"html", "text"}, r.List()); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}
