package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// GateFunc reports whether a conditional field is currently revealed.
type GateFunc func(scope Scope) bool

type fieldEntry struct {
	name  string
	rules []Rule
}

type refinement struct {
	path    string
	code    Code
	message string
	fn      func(scope Scope) bool
}

type listEntry struct {
	name     string
	item     *Schema
	minItems int
	message  string
}

// Schema composes per-field rules, list item schemas and refinements into a
// single validator. Validate is pure: it reads values and returns Errors.
type Schema struct {
	fields     []fieldEntry
	index      map[string]int
	lists      []*listEntry
	refines    []refinement
	gates      map[string]GateFunc
	translator Translator
	locale     string
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{
		index: make(map[string]int),
		gates: make(map[string]GateFunc),
	}
}

// Field appends rules to name. Rules run in declaration order and the first
// failure wins.
func (s *Schema) Field(name string, rules ...Rule) *Schema {
	if idx, ok := s.index[name]; ok {
		s.fields[idx].rules = append(s.fields[idx].rules, rules...)
		return s
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, fieldEntry{name: name, rules: append([]Rule(nil), rules...)})
	return s
}

// Refine attaches a cross-field check to path. fn returns true when the form
// is valid. Refinements run after every field rule and never replace an issue
// already recorded at path.
func (s *Schema) Refine(path string, fn func(scope Scope) bool, message string) *Schema {
	return s.RefineCode(path, CodeMismatch, fn, message)
}

// RefineCode is Refine with an explicit issue code.
func (s *Schema) RefineCode(path string, code Code, fn func(scope Scope) bool, message string) *Schema {
	s.refines = append(s.refines, refinement{path: path, code: code, message: message, fn: fn})
	return s
}

// Each validates every item of list against item. Item issues are keyed by
// ItemPath so they follow the item when the list is reordered.
func (s *Schema) Each(list string, item *Schema) *Schema {
	s.list(list).item = item
	return s
}

// MinItems requires list to hold at least n items.
func (s *Schema) MinItems(list string, n int, message string) *Schema {
	entry := s.list(list)
	entry.minItems = n
	entry.message = message
	return s
}

func (s *Schema) list(name string) *listEntry {
	for _, entry := range s.lists {
		if entry.name == name {
			return entry
		}
	}
	entry := &listEntry{name: name}
	s.lists = append(s.lists, entry)
	return entry
}

// Gate makes field conditional: it is validated only while gate returns true.
func (s *Schema) Gate(field string, gate GateFunc) *Schema {
	if gate == nil {
		delete(s.gates, field)
		return s
	}
	s.gates[field] = gate
	return s
}

// WithTranslator routes default messages through t for locale.
func (s *Schema) WithTranslator(t Translator, locale string) *Schema {
	s.translator = t
	s.locale = locale
	return s
}

// Localized returns a copy of s whose default messages go through t for
// locale. s is left untouched. The copy shares rules and item schemas with
// s.
func (s *Schema) Localized(t Translator, locale string) *Schema {
	out := &Schema{
		fields:     append([]fieldEntry(nil), s.fields...),
		index:      make(map[string]int, len(s.index)),
		lists:      append([]*listEntry(nil), s.lists...),
		refines:    append([]refinement(nil), s.refines...),
		gates:      make(map[string]GateFunc, len(s.gates)),
		translator: t,
		locale:     locale,
	}
	for name, idx := range s.index {
		out.index[name] = idx
	}
	for name, gate := range s.gates {
		out.gates[name] = gate
	}
	return out
}

// FieldNames lists top-level fields with rules, in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, entry := range s.fields {
		names = append(names, entry.name)
	}
	return names
}

// ListNames lists the fields validated as repeated groups.
func (s *Schema) ListNames() []string {
	names := make([]string, 0, len(s.lists))
	for _, entry := range s.lists {
		names = append(names, entry.name)
	}
	return names
}

// ItemSchema returns the schema applied to each item of list.
func (s *Schema) ItemSchema(list string) (*Schema, bool) {
	for _, entry := range s.lists {
		if entry.name == list && entry.item != nil {
			return entry.item, true
		}
	}
	return nil, false
}

// Paths enumerates every addressable field path for values: declared fields
// followed by the item paths of each list, in item order.
func (s *Schema) Paths(values Values) []string {
	paths := s.FieldNames()
	for _, entry := range s.lists {
		if entry.item == nil {
			continue
		}
		for _, item := range values.Items(entry.name) {
			for _, field := range entry.item.FieldNames() {
				paths = append(paths, ItemPath(entry.name, item.ID, field))
			}
		}
	}
	return paths
}

// Visible reports whether path is revealed under values. Paths without a gate
// are always visible.
func (s *Schema) Visible(path string, values Values) bool {
	scope := s.scope(values)
	if list, id, field, ok := SplitItemPath(path); ok {
		item, found := values.Item(list, id)
		sub, hasSchema := s.ItemSchema(list)
		if !found || !hasSchema {
			return true
		}
		itemScope := scope
		itemScope.List = list
		itemScope.Item = &item
		return sub.gateOpen(field, itemScope)
	}
	return s.gateOpen(path, scope)
}

func (s *Schema) gateOpen(field string, scope Scope) bool {
	gate, ok := s.gates[field]
	if !ok {
		return true
	}
	return gate(scope)
}

func (s *Schema) scope(values Values) Scope {
	return Scope{Values: values, Locale: s.locale, Translator: s.translator}
}

// Validate runs every rule against values. Hidden conditional fields are
// skipped. The result only holds failing paths.
func (s *Schema) Validate(values Values) Errors {
	errs := make(Errors)
	s.validateInto(errs, s.scope(values))
	return errs
}

// ValidatePath returns the issue Validate would report for path.
func (s *Schema) ValidatePath(values Values, path string) (Issue, bool) {
	issue, ok := s.Validate(values)[path]
	return issue, ok
}

func (s *Schema) validateInto(errs Errors, scope Scope) {
	for _, entry := range s.fields {
		if !s.gateOpen(entry.name, scope) {
			continue
		}
		path := scope.Path(entry.name)
		var value any
		if scope.Item != nil {
			value = scope.Item.Values[entry.name]
		} else {
			value, _ = scope.Values.Lookup(entry.name)
		}
		for _, rule := range entry.rules {
			if issue, failed := rule.Apply(path, value, scope); failed {
				errs.Add(issue)
				break
			}
		}
	}

	for _, entry := range s.lists {
		items := scope.Values.Items(entry.name)
		if entry.minItems > 0 && len(items) < entry.minItems {
			errs.Add(Issue{
				Path:    entry.name,
				Code:    CodeLength,
				Message: scope.message(MessageMinItems, entry.message, "min", entry.minItems),
				Params:  map[string]any{"min": entry.minItems, "length": len(items)},
			})
		}
		if entry.item == nil {
			continue
		}
		for i := range items {
			itemScope := scope
			itemScope.List = entry.name
			itemScope.Item = &items[i]
			entry.item.validateInto(errs, itemScope)
		}
	}

	for _, ref := range s.refines {
		if !s.gateOpen(ref.path, scope) {
			continue
		}
		if ref.fn(scope) {
			continue
		}
		path := scope.Path(ref.path)
		errs.Add(Issue{
			Path:    path,
			Code:    ref.code,
			Message: scope.message(string(ref.code), ref.message),
		})
	}
}

var (
	ErrUnknownField = errors.New("validation: unknown field")
	ErrUnknownList  = errors.New("validation: unknown list")
)

// Check reports programming errors in the schema against the form it
// validates: invalid patterns, rules on undeclared fields, cross-field rules
// naming undeclared fields and list schemas on non-list fields.
func (s *Schema) Check(form model.FormModel) error {
	return s.check(form.Fields, nil)
}

func (s *Schema) check(fields []model.Field, outer []model.Field) error {
	var errs []error
	declared := make(map[string]model.Field, len(fields)+len(outer))
	for _, field := range outer {
		declared[field.Name] = field
	}
	for _, field := range fields {
		declared[field.Name] = field
	}
	exists := func(name string) bool {
		_, ok := declared[strings.TrimPrefix(name, "item.")]
		return ok
	}

	for _, entry := range s.fields {
		if !exists(entry.name) {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownField, entry.name))
		}
		for _, rule := range entry.rules {
			if err := rule.Err(); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", entry.name, err))
			}
			if rule.Ref != "" && !exists(rule.Ref) {
				errs = append(errs, fmt.Errorf("field %q: %w %q", entry.name, ErrUnknownField, rule.Ref))
			}
		}
	}
	for _, ref := range s.refines {
		if !exists(ref.path) {
			errs = append(errs, fmt.Errorf("refinement: %w %q", ErrUnknownField, ref.path))
		}
	}
	for name := range s.gates {
		if !exists(name) {
			errs = append(errs, fmt.Errorf("gate: %w %q", ErrUnknownField, name))
		}
	}
	for _, entry := range s.lists {
		field, ok := declared[entry.name]
		if !ok || !field.IsList() {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownList, entry.name))
			continue
		}
		if entry.item == nil {
			continue
		}
		if err := entry.item.check(field.Items, fields); err != nil {
			errs = append(errs, fmt.Errorf("list %q: %w", entry.name, err))
		}
	}
	return errors.Join(errs...)
}
