package formstate

import (
	internalLoader "github.com/goliatone/go-formstate/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formstate/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// NewLoader returns the file, fs.FS and in-memory document loader.
func NewLoader(options ...pkgopenapi.Option) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewOptions(options...))
}

// NewParser returns the kin-openapi backed parser. It validates documents
// and resolves references unless WithReferenceResolution(false) is given.
func NewParser(options ...pkgopenapi.Option) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewOptions(options...))
}
