package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/goliatone/go-formstate/pkg/model"
)

func signupSchema() *Schema {
	return New().
		Field("email",
			Required().WithMessage("Email is required"),
			Email().WithMessage("Invalid email address"),
		).
		Field("age",
			Required().WithMessage("Age is required"),
			Min(18).WithMessage("Must be at least 18 years old"),
			Max(100).WithMessage("Must be at most 100 years old"),
		).
		Field("password",
			MinLength(8).WithMessage("Password must be at least 8 characters"),
			Contains("[A-Z]", "").WithMessage("Password must contain at least one uppercase letter"),
		).
		Field("confirmPassword", Required().WithMessage("Please confirm your password")).
		Field("hasNotes").
		Field("notes").
		Refine("confirmPassword", func(s Scope) bool {
			return s.Lookup("password") == s.Lookup("confirmPassword")
		}, "Passwords do not match").
		RefineCode("notes", CodeConditionalRequired, func(s Scope) bool {
			return !Truthy(s.Lookup("hasNotes")) || !IsBlank(s.Lookup("notes"))
		}, "Notes are required when 'Add notes' is checked")
}

func TestSchemaFieldRulesFirstFailureWins(t *testing.T) {
	t.Parallel()

	errs := signupSchema().Validate(Values{
		"email":           "",
		"age":             math.NaN(),
		"password":        "short",
		"confirmPassword": "",
		"hasNotes":        false,
		"notes":           "",
	})

	require.Equal(t, "Email is required", errs.Message("email"))
	require.Equal(t, CodeRequired, errs["email"].Code)
	require.Equal(t, "Age is required", errs.Message("age"))
	require.Equal(t, "Password must be at least 8 characters", errs.Message("password"))
	require.Equal(t, "Please confirm your password", errs.Message("confirmPassword"))
	require.False(t, errs.Has("notes"))
}

func TestSchemaRangeAndPattern(t *testing.T) {
	t.Parallel()

	schema := signupSchema()
	base := Values{
		"email":           "a@b.co",
		"age":             17.0,
		"password":        "lowercase1",
		"confirmPassword": "lowercase1",
	}

	errs := schema.Validate(base)
	require.Equal(t, "Must be at least 18 years old", errs.Message("age"))
	require.Equal(t, CodeRange, errs["age"].Code)
	require.Equal(t, "Password must contain at least one uppercase letter", errs.Message("password"))
	require.Equal(t, CodePattern, errs["password"].Code)

	base["age"] = 101.0
	require.Equal(t, "Must be at most 100 years old", schema.Validate(base).Message("age"))

	base["email"] = "not-an-email"
	require.Equal(t, "Invalid email address", schema.Validate(base).Message("email"))
}

func TestSchemaRefinementAttachesToDependentPath(t *testing.T) {
	t.Parallel()

	errs := signupSchema().Validate(Values{
		"email":           "a@b.co",
		"age":             30.0,
		"password":        "Password1",
		"confirmPassword": "Password2",
		"hasNotes":        true,
		"notes":           "",
	})

	require.Equal(t, []string{"confirmPassword", "notes"}, errs.Paths())
	require.Equal(t, "Passwords do not match", errs.Message("confirmPassword"))
	require.Equal(t, CodeMismatch, errs["confirmPassword"].Code)
	require.Equal(t, "Notes are required when 'Add notes' is checked", errs.Message("notes"))
	require.Equal(t, CodeConditionalRequired, errs["notes"].Code)
	require.False(t, errs.Has("password"))
}

func TestSchemaRefinementNeverOverridesFieldIssue(t *testing.T) {
	t.Parallel()

	errs := signupSchema().Validate(Values{
		"email":           "a@b.co",
		"age":             30.0,
		"password":        "Password1",
		"confirmPassword": "",
	})
	require.Equal(t, "Please confirm your password", errs.Message("confirmPassword"))
}

func TestDefaultBrowserMessages(t *testing.T) {
	t.Parallel()

	schema := New().
		Field("name", Required(), MinLength(3)).
		Field("count", Required(), Min(1))

	errs := schema.Validate(Values{"name": "", "count": math.NaN()})
	require.Equal(t, "Please fill out this field.", errs.Message("name"))
	require.Equal(t, "Please fill out this field.", errs.Message("count"))

	errs = schema.Validate(Values{"name": "ab", "count": 0.0})
	require.Equal(t,
		"Please lengthen this text to 3 characters or more (you are currently using 2 characters).",
		errs.Message("name"))
	require.Equal(t, "Value must be greater than or equal to 1.", errs.Message("count"))
	require.Equal(t, 2, errs["name"].Params["length"])
}

func TestMinRejectsNonNumericText(t *testing.T) {
	t.Parallel()

	errs := New().Field("count", Min(1)).Validate(Values{"count": "abc"})
	require.Equal(t, CodeInvalidType, errs["count"].Code)
	require.Equal(t, "Please enter a number.", errs.Message("count"))
}

func TestMessagesUseTranslator(t *testing.T) {
	t.Parallel()

	catalog := Catalog{"es": {MessageRequired: "Complete este campo."}}
	schema := New().Field("name", Required()).WithTranslator(catalog, "es-MX")
	require.Equal(t, "Complete este campo.", schema.Validate(Values{}).Message("name"))

	schema.WithTranslator(catalog, "fr")
	require.Equal(t, "Please fill out this field.", schema.Validate(Values{}).Message("name"))
}

func TestLocalizedLeavesReceiverUntouched(t *testing.T) {
	t.Parallel()

	catalog := Catalog{"es": {MessageRequired: "Complete este campo."}}
	base := New().Field("name", Required()).Gate("name", func(Scope) bool { return true })
	local := base.Localized(catalog, "es")

	require.Equal(t, "Complete este campo.", local.Validate(Values{}).Message("name"))
	require.Equal(t, "Please fill out this field.", base.Validate(Values{}).Message("name"))

	local.Field("extra", Required())
	require.Equal(t, []string{"name"}, base.FieldNames())
}

func TestCatalogMergeOverlaysWithoutMutating(t *testing.T) {
	t.Parallel()

	extra := Catalog{
		"en": {MessageRequired: "Required."},
		"es": {MessageRequired: "Obligatorio."},
	}
	merged := DefaultCatalog.Merge(extra)

	got, err := merged.Translate("en", MessageRequired)
	require.NoError(t, err)
	require.Equal(t, "Required.", got)

	got, err = merged.Translate("es", MessageRangeMin, "min", 1)
	require.NoError(t, err)
	require.Equal(t, "Value must be greater than or equal to 1.", got)

	require.Equal(t, "Please fill out this field.", DefaultCatalog["en"][MessageRequired])
}

func TestEachValidatesItemsByIdentity(t *testing.T) {
	t.Parallel()

	task := New().
		Field("title",
			Required().WithMessage("Task title is required"),
			MinLength(3).WithMessage("Title must be at least 3 characters"),
		).
		Field("isUrgent").
		Field("urgentNote", RequiredIf("item.isUrgent")).
		Gate("urgentNote", func(s Scope) bool { return Truthy(s.Lookup("item.isUrgent")) })

	schema := New().
		Field("projectName", Required().WithMessage("Project name is required")).
		Each("tasks", task).
		MinItems("tasks", 1, "")

	values := Values{
		"projectName": "Apollo",
		"tasks": []Item{
			{ID: "a", Values: Values{"title": "ok title", "isUrgent": true, "urgentNote": ""}},
			{ID: "b", Values: Values{"title": "x", "isUrgent": false, "urgentNote": ""}},
		},
	}

	errs := schema.Validate(values)
	require.Equal(t, []string{"tasks.a.urgentNote", "tasks.b.title"}, errs.Paths())
	require.Equal(t, "Title must be at least 3 characters", errs.Message(ItemPath("tasks", "b", "title")))
	require.Equal(t, CodeConditionalRequired, errs["tasks.a.urgentNote"].Code)

	require.True(t, schema.Visible("tasks.a.urgentNote", values))
	require.False(t, schema.Visible("tasks.b.urgentNote", values))

	require.Equal(t, []string{
		"projectName",
		"tasks.a.title", "tasks.a.isUrgent", "tasks.a.urgentNote",
		"tasks.b.title", "tasks.b.isUrgent", "tasks.b.urgentNote",
	}, schema.Paths(values))

	values["tasks"] = []Item{}
	require.Equal(t, "Please add at least 1 items.", schema.Validate(values).Message("tasks"))
}

func TestGatedFieldSkippedWhileHidden(t *testing.T) {
	t.Parallel()

	schema := New().
		Field("hasNotes").
		Field("notes", Required()).
		Gate("notes", func(s Scope) bool { return Truthy(s.Lookup("hasNotes")) })

	require.True(t, schema.Validate(Values{"hasNotes": false, "notes": ""}).Valid())
	require.True(t, schema.Validate(Values{"hasNotes": true, "notes": ""}).Has("notes"))
}

func TestErrorsErrSummarises(t *testing.T) {
	t.Parallel()

	errs := Errors{}
	require.NoError(t, errs.Err())

	errs.Add(Issue{Path: "b", Code: CodeRequired, Message: "x"})
	errs.Add(Issue{Path: "a", Code: CodeRange, Message: "y"})
	require.False(t, errs.Add(Issue{Path: "a", Code: CodeMismatch, Message: "z"}))

	err := errs.Err()
	require.Error(t, err)
	require.Equal(t, "validation: range at a; required at b", err.Error())

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "y", failure.Errors.Message("a"))
}

func TestCheckReportsProgrammingErrors(t *testing.T) {
	t.Parallel()

	form := model.FormModel{
		ID: "demo",
		Fields: []model.Field{
			{Name: "password", Type: model.FieldTypePassword},
			{Name: "tasks", Type: model.FieldTypeList, Items: []model.Field{{Name: "title"}}},
		},
	}

	require.NoError(t, New().Field("password", MinLength(8)).Check(form))

	err := New().
		Field("confirm", Matches("password")).
		Field("password", Pattern("([a-z", "")).
		Each("tasks", New().Field("missing")).
		Each("password", New()).
		Check(form)
	require.Error(t, err)
	for _, fragment := range []string{`unknown field "confirm"`, "invalid pattern", `list "tasks"`, `unknown list "password"`} {
		require.True(t, strings.Contains(err.Error(), fragment), "expected %q in %v", fragment, err)
	}
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestValidateOnlyReportsFailingPathsProperty(t *testing.T) {
	t.Parallel()

	schema := signupSchema()
	rapid.Check(t, func(t *rapid.T) {
		values := Values{
			"email":           rapid.SampledFrom([]string{"", "a@b.co", "nope"}).Draw(t, "email"),
			"age":             rapid.SampledFrom([]float64{math.NaN(), 0, 18, 50, 100, 101}).Draw(t, "age"),
			"password":        rapid.StringMatching(`[a-zA-Z0-9]{0,12}`).Draw(t, "password"),
			"confirmPassword": rapid.StringMatching(`[a-zA-Z0-9]{0,12}`).Draw(t, "confirm"),
			"hasNotes":        rapid.Bool().Draw(t, "hasNotes"),
			"notes":           rapid.SampledFrom([]string{"", "note"}).Draw(t, "notes"),
		}

		first := schema.Validate(values)
		second := schema.Validate(values.Clone())
		if len(first) != len(second) {
			t.Fatalf("validate is not deterministic: %v vs %v", first, second)
		}
		for path, issue := range first {
			if issue.Empty() {
				t.Fatalf("empty issue stored at %s", path)
			}
			if issue.Path != path {
				t.Fatalf("issue path %q stored under %q", issue.Path, path)
			}
			if second.Message(path) != issue.Message {
				t.Fatalf("message for %s differs between runs", path)
			}
		}
		if first.Valid() != (len(first.Paths()) == 0) {
			t.Fatalf("Valid disagrees with Paths")
		}
	})
}
