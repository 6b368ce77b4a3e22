package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

const (
	hintMode        = "mode"
	hintOrder       = "order"
	hintLabel       = "label"
	hintPlaceholder = "placeholder"
	hintVisibleWhen = "visibleWhen"
	hintMatches     = "matches"
	hintRequiredIf  = "requiredIf"
)

// formHints are read from the request body, fieldHints from its properties
// and list item properties.
var (
	formHints  = []string{hintMode}
	fieldHints = []string{hintOrder, hintLabel, hintPlaceholder, hintVisibleWhen, hintMatches, hintRequiredIf}
)

// Finding is one problem with the x-formstate hints of an operation.
type Finding struct {
	Operation string
	Location  string
	Message   string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s -> %s", f.Operation, f.Location, f.Message)
}

// IsHintKey reports whether the builder reads key at either level.
func IsHintKey(key string) bool {
	return contains(formHints, key) || contains(fieldHints, key)
}

// Lint reports hints the builder would ignore or reject: unknown keys, hint
// namespaces that are not objects, non-numeric order values, visibleWhen
// rules that do not compile or read missing fields, and matches/requiredIf
// targets that are not sibling properties. Findings are sorted by location.
func Lint(op pkgopenapi.Operation) []Finding {
	l := linter{op: op.ID}
	body := op.RequestBody
	l.hints([]string{"requestBody"}, body, formHints)
	l.object([]string{"requestBody"}, body, nil)

	sort.SliceStable(l.found, func(i, j int) bool {
		if l.found[i].Location == l.found[j].Location {
			return l.found[i].Message < l.found[j].Message
		}
		return l.found[i].Location < l.found[j].Location
	})
	return l.found
}

type linter struct {
	op    string
	found []Finding
}

func (l *linter) add(path []string, format string, args ...any) {
	l.found = append(l.found, Finding{
		Operation: l.op,
		Location:  strings.Join(path, "."),
		Message:   fmt.Sprintf(format, args...),
	})
}

// object lints every property of schema. parent holds the top-level
// property names when schema is a list item.
func (l *linter) object(path []string, schema pkgopenapi.Schema, parent map[string]pkgopenapi.Schema) {
	for _, name := range schema.PropertyNames() {
		prop := schema.Properties[name]
		at := appendPath(path, "properties", name)
		l.hints(at, prop, fieldHints)
		l.references(at, prop, schema.Properties, parent)
		if prop.Type == "array" && prop.Items != nil && parent == nil {
			l.hints(appendPath(at, "items"), *prop.Items, nil)
			l.object(appendPath(at, "items"), *prop.Items, schema.Properties)
		}
	}
}

func (l *linter) hints(path []string, schema pkgopenapi.Schema, allowed []string) {
	raw, present := schema.Extensions[pkgopenapi.ExtensionNamespace]
	if !present {
		return
	}
	hints, ok := raw.(map[string]any)
	if !ok {
		l.add(path, "%s must be an object, found %T", pkgopenapi.ExtensionNamespace, raw)
		return
	}

	keys := make([]string, 0, len(hints))
	for key := range hints {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		at := appendPath(path, pkgopenapi.ExtensionNamespace, key)
		switch {
		case key == "":
			l.add(path, "extension key is empty")
		case !contains(allowed, key) && IsHintKey(key):
			l.add(at, "hint %q is not supported here", key)
		case !contains(allowed, key):
			l.add(at, "unknown hint %q", key)
		case key == hintOrder:
			if _, err := strconv.Atoi(fmt.Sprint(hints[key])); err != nil {
				l.add(at, "order must be an integer, found %v", hints[key])
			}
		}
	}
}

func (l *linter) references(path []string, schema pkgopenapi.Schema, siblings, parent map[string]pkgopenapi.Schema) {
	if rule := schema.Extension(hintVisibleWhen); rule != "" {
		compiled, err := expr.Compile(rule)
		if err != nil {
			l.add(appendPath(path, pkgopenapi.ExtensionNamespace, hintVisibleWhen), "%v", err)
		} else {
			for _, dep := range compiled.Deps() {
				if !resolves(dep, siblings, parent) {
					l.add(appendPath(path, pkgopenapi.ExtensionNamespace, hintVisibleWhen), "rule reads unknown field %q", dep)
				}
			}
		}
	}
	for _, key := range []string{hintMatches, hintRequiredIf} {
		target := schema.Extension(key)
		if target == "" {
			continue
		}
		if _, ok := siblings[target]; !ok {
			l.add(appendPath(path, pkgopenapi.ExtensionNamespace, key), "%s names unknown sibling %q", key, target)
		}
	}
}

// resolves reports whether a rule dependency names a field in scope. Item
// rules see their own item first, then the top-level fields.
func resolves(dep string, siblings, parent map[string]pkgopenapi.Schema) bool {
	if _, ok := siblings[dep]; ok {
		return true
	}
	_, ok := parent[dep]
	return ok
}

func appendPath(path []string, parts ...string) []string {
	out := make([]string, 0, len(path)+len(parts))
	out = append(out, path...)
	return append(out, parts...)
}

func contains(values []string, key string) bool {
	for _, value := range values {
		if value == key {
			return true
		}
	}
	return false
}
