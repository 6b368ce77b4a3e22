package render

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ErrorMapping is an error payload split into field messages keyed by
// machine path and messages that belong to the whole form.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Issues keeps the first message of each field as an issue with code.
func (m ErrorMapping) Issues(code validation.Code) validation.Errors {
	errs := make(validation.Errors, len(m.Fields))
	for path, messages := range m.Fields {
		if len(messages) > 0 {
			errs.Add(validation.Issue{Path: path, Code: code, Message: messages[0]})
		}
	}
	return errs
}

// MergeFormErrors joins message lists, trimming blanks and repeats. Order of
// first appearance is kept.
func MergeFormErrors(existing []string, extras ...string) []string {
	return dedupe(append(append([]string(nil), existing...), extras...))
}

// MapErrorPayload routes a backend error payload onto form paths. Keys may be
// JSON pointers ("/tasks/1/title"), dotted or bracketed paths
// ("$.data.tasks[1].title"), and may sit under a body/data style wrapper.
// List positions and item ids both resolve to the item's identity in values.
// Keys naming no known field are kept as form messages.
func MapErrorPayload(form model.FormModel, values validation.Values, payload map[string][]string) ErrorMapping {
	out := ErrorMapping{Fields: map[string][]string{}}
	for key, messages := range payload {
		messages = dedupe(messages)
		if len(messages) == 0 {
			continue
		}
		if path, ok := fieldPath(form, values, key); ok {
			out.Fields[path] = append(out.Fields[path], messages...)
		} else {
			out.Form = append(out.Form, messages...)
		}
	}
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	out.Form = dedupe(out.Form)
	return out
}

func dedupe(messages []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, msg := range messages {
		msg = strings.TrimSpace(msg)
		if msg != "" && !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return out
}

var formLevelKeys = map[string]bool{
	"": true, "form": true, "base": true, "__all__": true,
	"non_field_errors": true, "non-field-errors": true,
}

var wrapperKeys = map[string]bool{
	"body": true, "request": true, "payload": true, "data": true, "attributes": true,
}

// fieldPath resolves key to the deepest known path. A list key whose item
// or sub-field cannot be resolved falls back to the list itself.
func fieldPath(form model.FormModel, values validation.Values, key string) (string, bool) {
	segs := segments(key)
	for len(segs) > 0 && wrapperKeys[strings.ToLower(segs[0])] {
		segs = segs[1:]
	}
	if len(segs) == 0 || formLevelKeys[strings.ToLower(segs[0])] {
		return "", false
	}
	field, ok := form.Field(segs[0])
	if !ok {
		return "", false
	}
	if !field.IsList() || len(segs) < 3 {
		return field.Name, true
	}
	id, ok := itemAt(values.Items(field.Name), segs[1])
	if !ok {
		return field.Name, true
	}
	for _, sub := range field.Items {
		if sub.Name == segs[2] {
			return validation.ItemPath(field.Name, id, sub.Name), true
		}
	}
	return field.Name, true
}

// itemAt accepts an item id or a zero-based position.
func itemAt(items []validation.Item, seg string) (string, bool) {
	for _, item := range items {
		if item.ID == seg {
			return item.ID, true
		}
	}
	if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(items) {
		return items[i].ID, true
	}
	return "", false
}

// segments splits a pointer or dotted key, unescaping JSON pointer tokens.
func segments(key string) []string {
	key = strings.TrimLeft(strings.TrimSpace(key), "#$./")
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)
	var out []string
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '.' || r == '/' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~"))
	}
	return out
}

// PayloadFunc asks a backend about values and returns its error payload,
// keyed the way MapErrorPayload accepts. A nil payload means no errors.
type PayloadFunc func(ctx context.Context, values validation.Values) (map[string][]string, error)

// PayloadCheck adapts a PayloadFunc into a formstate.AsyncValidator. Field
// messages become CodeServer issues; form messages of the last run are
// available from FormErrors for RenderOptions.FormErrors.
type PayloadCheck struct {
	form  model.FormModel
	fetch PayloadFunc

	mu   sync.Mutex
	last []string
}

func NewPayloadCheck(form model.FormModel, fetch PayloadFunc) *PayloadCheck {
	return &PayloadCheck{form: form, fetch: fetch}
}

func (c *PayloadCheck) ValidateAsync(ctx context.Context, values validation.Values) (validation.Errors, error) {
	if c.fetch == nil {
		return nil, errors.New("render: payload check has no fetch function")
	}
	payload, err := c.fetch(ctx, values)
	if err != nil {
		return nil, err
	}
	mapped := MapErrorPayload(c.form, values, payload)
	c.mu.Lock()
	c.last = mapped.Form
	c.mu.Unlock()
	return mapped.Issues(validation.CodeServer), nil
}

// FormErrors returns the form-level messages of the most recent run.
func (c *PayloadCheck) FormErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.last...)
}
