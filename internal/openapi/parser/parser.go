// Package parser converts kin-openapi documents into pkg/openapi operations.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

var (
	ErrNoPaths      = errors.New("openapi parser: document does not contain any paths")
	ErrNoOperations = errors.New("openapi parser: no operations extracted")
	// ErrDuplicateOperation is returned when two operations share an id.
	ErrDuplicateOperation = errors.New("openapi parser: duplicate operation id")
)

type Parser struct {
	resolveRefs bool
	mediaTypes  []string
}

var _ pkgopenapi.Parser = (*Parser)(nil)

func New(options pkgopenapi.Options) *Parser {
	mediaTypes := options.MediaTypes
	if len(mediaTypes) == 0 {
		mediaTypes = pkgopenapi.DefaultMediaTypes
	}
	return &Parser{resolveRefs: options.ResolveRefs, mediaTypes: mediaTypes}
}

// Operations keys every operation by operationId. Anonymous operations get
// "<method>:<path>" with the method lower-cased.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}

	paths := spec.Paths.Map()
	routes := make([]string, 0, len(paths))
	for route := range paths {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	out := make(map[string]pkgopenapi.Operation)
	for _, route := range routes {
		item := paths[route]
		if item == nil {
			continue
		}
		for method, raw := range item.Operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if raw == nil {
				continue
			}
			op := p.operation(strings.ToUpper(method), route, raw)
			if prev, dup := out[op.ID]; dup {
				return nil, fmt.Errorf("%w: %q on %s %s and %s %s",
					ErrDuplicateOperation, op.ID, prev.Method, prev.Path, op.Method, op.Path)
			}
			out[op.ID] = op
		}
	}
	if len(out) == 0 {
		return nil, ErrNoOperations
	}
	return out, nil
}

func (p *Parser) load(ctx context.Context, doc pkgopenapi.Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("openapi parser: %s is empty", doc.Source)
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: p.resolveRefs}
	spec, err := loader.LoadFromData(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load %s: %w", doc.Source, err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, ErrNoPaths
	}
	if p.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate %s: %w", doc.Source, err)
		}
	}
	return spec, nil
}

func (p *Parser) operation(method, route string, raw *openapi3.Operation) pkgopenapi.Operation {
	id := raw.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + route
	}
	return pkgopenapi.Operation{
		ID:          id,
		Method:      method,
		Path:        route,
		Summary:     raw.Summary,
		Description: raw.Description,
		RequestBody: p.requestBody(raw.RequestBody),
	}
}

// requestBody picks the first preferred media type present, then any
// media type in name order.
func (p *Parser) requestBody(body *openapi3.RequestBodyRef) pkgopenapi.Schema {
	if body == nil {
		return pkgopenapi.Schema{}
	}
	if body.Value == nil {
		return pkgopenapi.Schema{Ref: body.Ref}
	}
	content := body.Value.Content
	for _, mediaType := range p.mediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if mt := content[name]; mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	return pkgopenapi.Schema{}
}
