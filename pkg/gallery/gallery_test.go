package gallery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rendercount"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestRoutesFollowNavigationOrder(t *testing.T) {
	t.Parallel()

	var paths []string
	for _, e := range Routes() {
		paths = append(paths, e.Path)
	}
	want := []string{
		"/",
		"/bad-example",
		"/better-example",
		"/ref-example",
		"/formdata-example",
		"/state-example",
		"/rhf-uncontrolled",
		"/rhf-controlled",
		"/rhf-field-array",
		"/zod-example",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupAcceptsPathsAndIDs(t *testing.T) {
	t.Parallel()

	for _, route := range []string{"/zod-example", "zod-example", " zod-example "} {
		e, ok := Lookup(route)
		require.True(t, ok, route)
		require.Equal(t, "Zod Validation Example", e.Title)
	}

	home, ok := Lookup("")
	require.True(t, ok)
	require.Equal(t, "Home", home.Title)

	_, err := Find("/missing")
	require.ErrorIs(t, err, ErrUnknownRoute)

	_, err = home.NewMachine()
	require.ErrorIs(t, err, ErrUnknownRoute)
}

func TestEveryExampleBuildsInItsMode(t *testing.T) {
	t.Parallel()

	modes := map[string]formstate.Mode{
		"/bad-example":      formstate.ModeChange,
		"/better-example":   formstate.ModeChange,
		"/ref-example":      formstate.ModeNative,
		"/formdata-example": formstate.ModeNative,
		"/state-example":    formstate.ModeTouched,
		"/rhf-uncontrolled": formstate.ModeSubmit,
		"/rhf-controlled":   formstate.ModeChange,
		"/rhf-field-array":  formstate.ModeSubmit,
		"/zod-example":      formstate.ModeChange,
	}
	for _, e := range Routes()[1:] {
		m, err := e.NewMachine()
		require.NoError(t, err, e.Path)
		require.Equal(t, modes[e.Path], m.Mode(), e.Path)
		require.Equal(t, formstate.Pristine, m.State(), e.Path)

		cfg, err := e.Theme()
		require.NoError(t, err, e.Path)
		require.Equal(t, e.Color, cfg.Variant)
		require.NotEmpty(t, cfg.Tokens["accent"])
	}
}

func TestStateExampleShowsBrowserMessagesOnceTouched(t *testing.T) {
	t.Parallel()

	m, err := stateExample().NewMachine()
	require.NoError(t, err)

	m.SetFieldInput("name", "ab")
	require.Equal(t, "", m.VisibleError("name"))

	m.SetFieldTouched("name")
	require.Equal(t,
		"Please lengthen this text to 3 characters or more (you are currently using 2 characters).",
		m.VisibleError("name"))
	require.Equal(t, "", m.VisibleError("count"))

	m.SetFieldInput("count", "0")
	m.SetFieldTouched("count")
	require.Equal(t, "Value must be greater than or equal to 1.", m.VisibleError("count"))
}

func TestNativeExampleReportsOnSubmit(t *testing.T) {
	t.Parallel()

	e := formDataExample()
	require.True(t, e.Native())

	m, err := e.NewMachine()
	require.NoError(t, err)

	m.SetFieldInput("name", "ab")
	m.SetFieldTouched("name")
	require.Equal(t, "", m.VisibleError("name"))

	require.False(t, m.Submit(nil))
	require.Equal(t, "Please fill out this field.", m.VisibleError("count"))

	m.SetFieldInput("count", "2")
	m.SetFieldInput("name", "Ada")
	var summary string
	require.True(t, m.Submit(func(values map[string]any) { summary = e.Summarize(values) }))
	require.Equal(t, "Count: 2, Name: Ada", summary)
}

func TestHookExamplesUseShortNameMessage(t *testing.T) {
	t.Parallel()

	for _, e := range []Example{hookUncontrolled(), hookControlled()} {
		m, err := e.NewMachine()
		require.NoError(t, err)
		m.SetFieldInput("name", "ab")
		m.SetFieldInput("count", "1")
		require.False(t, m.Submit(nil), e.Path)
		require.Equal(t, "Please lengthen this text to 3 characters or more.", m.VisibleError("name"), e.Path)
	}
}

func TestSchemaExampleMessages(t *testing.T) {
	t.Parallel()

	m, err := schemaExample().NewMachine()
	require.NoError(t, err)

	m.SetFieldInput("email", "nope")
	m.SetFieldTouched("email")
	require.Equal(t, "Invalid email address", m.VisibleError("email"))

	m.SetFieldInput("age", "17")
	m.SetFieldTouched("age")
	require.Equal(t, "Must be at least 18 years old", m.VisibleError("age"))

	m.SetFieldInput("password", "password1")
	m.SetFieldTouched("password")
	require.Equal(t, "Password must contain at least one uppercase letter", m.VisibleError("password"))

	m.SetFieldInput("password", "PASSWORD1")
	require.Equal(t, "Password must contain at least one lowercase letter", m.VisibleError("password"))

	m.SetFieldInput("password", "Password1")
	m.SetFieldInput("confirmPassword", "Password2")
	m.SetFieldTouched("confirmPassword")
	require.Equal(t, "Passwords do not match", m.VisibleError("confirmPassword"))

	m.SetFieldValue("hasNotes", true)
	require.False(t, m.Submit(nil))
	require.Equal(t, "Notes are required when 'Add notes' is checked", m.VisibleError("notes"))

	m.SetFieldValue("hasNotes", false)
	require.Equal(t, "", m.VisibleError("notes"))
	require.False(t, m.Errors().Has("notes"))
}

func TestSchemaExampleRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	errs := SignupSchema().Validate(validation.Values{"password": ""})
	require.Equal(t, "Password must be at least 8 characters", errs.Message("password"))

	m, err := schemaExample().NewMachine()
	require.NoError(t, err)
	m.SetFieldInput("email", "ada@example.com")
	m.SetFieldInput("age", "30")

	require.False(t, m.Submit(nil))
	require.Equal(t, "Password must be at least 8 characters", m.VisibleError("password"))
	require.Equal(t, "Please confirm your password", m.VisibleError("confirmPassword"))
}

func TestFieldArrayAccentsAndSummary(t *testing.T) {
	t.Parallel()

	e := fieldArray()
	m, err := e.NewMachine()
	require.NoError(t, err)

	first := m.ItemIDs("tasks")
	require.Len(t, first, 1)
	require.False(t, m.CanRemove("tasks"))
	require.Equal(t, []TaskAccent{{ID: first[0], Priority: "medium", Color: "gray"}}, TaskAccents(m))

	second := m.Append("tasks", map[string]any{"priority": "high"})
	require.True(t, m.CanRemove("tasks"))
	require.Equal(t, "red", TaskAccents(m)[1].Color)

	m.SetFieldValue(formstate.ItemPath("tasks", first[0], "priority"), "low")
	require.Equal(t, "green", TaskAccents(m)[0].Color)

	note := formstate.ItemPath("tasks", second, "urgentNote")
	require.False(t, m.Visible(note))
	m.SetFieldValue(formstate.ItemPath("tasks", second, "isUrgent"), true)
	require.True(t, m.Visible(note))

	require.False(t, m.Submit(nil))
	require.Equal(t, "Project name is required", m.VisibleError("projectName"))
	require.Equal(t, "Task title is required", m.VisibleError(formstate.ItemPath("tasks", first[0], "title")))

	m.SetFieldInput("projectName", "Apollo")
	m.SetFieldInput(formstate.ItemPath("tasks", first[0], "title"), "Write docs")
	m.SetFieldInput(formstate.ItemPath("tasks", second, "title"), "Sh")
	require.Equal(t, "Title must be at least 3 characters", m.VisibleError(formstate.ItemPath("tasks", second, "title")))
	m.SetFieldInput(formstate.ItemPath("tasks", second, "title"), "Ship it")

	var summary string
	require.True(t, m.Submit(func(values map[string]any) { summary = e.Summarize(values) }))
	require.Equal(t, "Project: Apollo\nTasks: 2", summary)
}

func TestPriorityColorFallsBackToGray(t *testing.T) {
	t.Parallel()

	require.Equal(t, "red", PriorityColor("high"))
	require.Equal(t, "gray", PriorityColor("urgent"))
}

func TestPlacementCounters(t *testing.T) {
	t.Parallel()

	type counts struct {
		Page, Form, Mounts int
	}
	cases := []struct {
		example Example
		typing  counts
		submit  counts
	}{
		// Typing twice: two page updates. Submit adds begin and settle.
		{badExample(), counts{Page: 3, Form: 1, Mounts: 3}, counts{Page: 5, Form: 1, Mounts: 5}},
		{betterExample(), counts{Page: 3, Form: 3, Mounts: 1}, counts{Page: 5, Form: 5, Mounts: 1}},
		{refExample(), counts{Page: 1, Form: 3, Mounts: 1}, counts{Page: 3, Form: 5, Mounts: 1}},
	}
	for _, tc := range cases {
		tracker := rendercount.NewTracker()
		d, err := Mount(tc.example, tracker)
		require.NoError(t, err)

		require.Equal(t, 1, d.Page().Count())
		require.Equal(t, 1, d.Form().Count())

		d.Machine().SetFieldInput("name", "A")
		d.Machine().SetFieldInput("name", "Ad")
		require.Equal(t, tc.typing, counts{d.Page().Count(), d.Form().Count(), d.FormMounts()}, tc.example.Path)

		d.Machine().Submit(nil)
		require.Equal(t, tc.submit, counts{d.Page().Count(), d.Form().Count(), d.FormMounts()}, tc.example.Path)

		d.Close()
		d.Machine().SetFieldInput("name", "Ada")
		require.Equal(t, tc.submit.Page, d.Page().Count(), tc.example.Path)
	}
}

func TestDependenciesListRuntimeModulesFirst(t *testing.T) {
	t.Parallel()

	deps := Dependencies()
	require.NotEmpty(t, deps)
	seenDev := false
	for _, dep := range deps {
		require.NotEmpty(t, dep.Version, dep.Path)
		if dep.Dev {
			seenDev = true
			continue
		}
		require.False(t, seenDev, "runtime module %s listed after dev modules", dep.Path)
	}
	require.True(t, seenDev)
}
