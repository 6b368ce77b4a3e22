// Package formstate wires the form pipeline together: OpenAPI or YAML
// definitions become form models, models become validation machines, and
// machines render through the registered renderers.
package formstate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/formdef"
	machine "github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/card"
)

// ErrOperationNotFound is returned when an OpenAPI document has no operation
// with the requested id.
var ErrOperationNotFound = errors.New("formstate: operation not found")

// RenderOptions aliases render.RenderOptions for callers of the root package.
type RenderOptions = render.RenderOptions

// LoadOperation loads an OpenAPI document and builds the form model for the
// operation's request body. options reach both the loader and the parser.
func LoadOperation(ctx context.Context, source pkgopenapi.Source, operationID string, options ...pkgopenapi.Option) (model.FormModel, error) {
	doc, err := NewLoader(options...).Load(ctx, source)
	if err != nil {
		return model.FormModel{}, err
	}
	return OperationForm(ctx, doc, operationID, options...)
}

// OperationForm builds the form model for operationID from a loaded document.
func OperationForm(ctx context.Context, doc pkgopenapi.Document, operationID string, options ...pkgopenapi.Option) (model.FormModel, error) {
	ops, err := NewParser(options...).Operations(ctx, doc)
	if err != nil {
		return model.FormModel{}, err
	}
	op, ok := ops[operationID]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %q (available: %v)", ErrOperationNotFound, operationID, sortedIDs(ops))
	}
	return model.NewBuilder().Build(op)
}

// MachineFromOpenAPI is LoadOperation followed by machine construction.
func MachineFromOpenAPI(ctx context.Context, source pkgopenapi.Source, operationID string, options ...machine.Option) (*machine.Machine, error) {
	form, err := LoadOperation(ctx, source, operationID)
	if err != nil {
		return nil, err
	}
	return machine.FromModel(form, options...)
}

// MachineFromFile builds a machine from a YAML or JSON definition file. When
// the file holds several forms, id picks one; an empty id takes the first.
func MachineFromFile(path, id string, options ...machine.Option) (*machine.Machine, error) {
	forms, err := formdef.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, form := range forms {
		if id == "" || form.ID == id {
			return machine.FromModel(form, options...)
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", formdef.ErrNotFound, id, path)
}

// LintDocument loads an OpenAPI document and lints the form hints of every
// operation, ordered by operation id.
func LintDocument(ctx context.Context, source pkgopenapi.Source, options ...pkgopenapi.Option) ([]model.Finding, error) {
	doc, err := NewLoader(options...).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	ops, err := NewParser(options...).Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	var found []model.Finding
	for _, id := range sortedIDs(ops) {
		found = append(found, model.Lint(ops[id])...)
	}
	return found, nil
}

// NewRegistry returns a registry holding the HTML card renderer as default,
// also reachable as "card", plus any extra renderers supplied.
func NewRegistry(extra ...render.Renderer) (*render.Registry, error) {
	registry := render.NewRegistry()
	if err := registry.Register(card.New(), "card"); err != nil {
		return nil, err
	}
	for _, r := range extra {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Render resolves rendererName (empty selects the default) and renders m.
func Render(ctx context.Context, registry *render.Registry, rendererName string, m *machine.Machine, options RenderOptions) ([]byte, error) {
	if registry == nil {
		var err error
		if registry, err = NewRegistry(); err != nil {
			return nil, err
		}
	}
	r, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, m, options)
}

func sortedIDs(ops map[string]pkgopenapi.Operation) []string {
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
