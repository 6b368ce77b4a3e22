package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

func TestLintAcceptsBuilderHints(t *testing.T) {
	t.Parallel()

	if found := Lint(projectOperation()); len(found) != 0 {
		t.Fatalf("expected no findings, got %v", found)
	}
}

func TestLintReportsBrokenHints(t *testing.T) {
	t.Parallel()

	hints := func(values map[string]any) map[string]any {
		return map[string]any{pkgopenapi.ExtensionNamespace: values}
	}
	op := pkgopenapi.Operation{
		ID: "broken",
		RequestBody: pkgopenapi.Schema{
			Type:       "object",
			Extensions: hints(map[string]any{"mode": "touched", "label": "Form"}),
			Properties: map[string]pkgopenapi.Schema{
				"name":    {Type: "string", Extensions: hints(map[string]any{"order": "first", "widget": "fancy"})},
				"confirm": {Type: "string", Extensions: hints(map[string]any{"matches": "password"})},
				"notes":   {Type: "string", Extensions: hints(map[string]any{"visibleWhen": "hasNotes &&"})},
				"extra":   {Type: "string", Extensions: map[string]any{pkgopenapi.ExtensionNamespace: "label"}},
				"tasks": {
					Type: "array",
					Items: &pkgopenapi.Schema{
						Type: "object",
						Properties: map[string]pkgopenapi.Schema{
							"isUrgent":   {Type: "boolean"},
							"urgentNote": {Type: "string", Extensions: hints(map[string]any{"visibleWhen": "item.isUrgent && name"})},
							"reason":     {Type: "string", Extensions: hints(map[string]any{"visibleWhen": "item.isBlocked"})},
						},
					},
				},
			},
		},
	}

	var got []string
	for _, f := range Lint(op) {
		got = append(got, f.Location+" | "+f.Message)
	}
	want := []string{
		`requestBody.properties.confirm.x-formstate.matches | matches names unknown sibling "password"`,
		"requestBody.properties.extra | x-formstate must be an object, found string",
		`requestBody.properties.name.x-formstate.order | order must be an integer, found first`,
		`requestBody.properties.name.x-formstate.widget | unknown hint "widget"`,
		"requestBody.properties.notes.x-formstate.visibleWhen | " + lintCompileError(t, "hasNotes &&"),
		`requestBody.properties.tasks.items.properties.reason.x-formstate.visibleWhen | rule reads unknown field "isBlocked"`,
		`requestBody.x-formstate.label | hint "label" is not supported here`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func lintCompileError(t *testing.T, rule string) string {
	t.Helper()
	found := Lint(pkgopenapi.Operation{RequestBody: pkgopenapi.Schema{
		Properties: map[string]pkgopenapi.Schema{
			"x": {Extensions: map[string]any{pkgopenapi.ExtensionNamespace: map[string]any{"visibleWhen": rule}}},
		},
	}})
	if len(found) != 1 {
		t.Fatalf("expected one finding for %q, got %v", rule, found)
	}
	return found[0].Message
}

func TestIsHintKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"mode", "order", "visibleWhen", "requiredIf"} {
		if !IsHintKey(key) {
			t.Fatalf("expected %q to be a hint key", key)
		}
	}
	if IsHintKey("widget") {
		t.Fatalf("widget is not a hint key")
	}
}
