package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

func TestDependentsInvertsRules(t *testing.T) {
	t.Parallel()

	rules := map[string]visibility.Rule{
		"notes":      expr.MustCompile("hasNotes"),
		"summary":    expr.MustCompile("hasNotes && priority == high"),
		"urgentNote": expr.MustCompile("item.isUrgent"),
		"name":       visibility.Always,
	}

	want := map[string][]string{
		"hasNotes": {"notes", "summary"},
		"priority": {"summary"},
		"isUrgent": {"urgentNote"},
	}
	if diff := cmp.Diff(want, visibility.Dependents(rules)); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestAlwaysIsVisible(t *testing.T) {
	t.Parallel()

	ok, err := visibility.Always.Eval(visibility.Context{})
	if err != nil || !ok {
		t.Fatalf("expected Always to be visible, got %v (%v)", ok, err)
	}
}
