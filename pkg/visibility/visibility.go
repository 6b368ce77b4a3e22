// Package visibility decides whether conditional fields are revealed. Rules
// are small boolean expressions over sibling values ("hasNotes",
// `item.isUrgent == true`) compiled once and evaluated on every update.
package visibility

import "sort"

// Context carries the values a rule reads. Item holds the current list item
// when the rule belongs to an item field; plain identifiers resolve against
// Item first and then Values. Extras exposes caller data under "extras.".
type Context struct {
	Values map[string]any
	Item   map[string]any
	Extras map[string]any
}

// Rule is a compiled visibility expression.
type Rule interface {
	// Eval reports whether the guarded field is revealed.
	Eval(ctx Context) (bool, error)
	// Deps lists the identifiers the rule reads, without the "item." prefix,
	// in first-use order.
	Deps() []string
	String() string
}

// Compiler turns rule source into a Rule.
type Compiler interface {
	Compile(rule string) (Rule, error)
}

// Evaluator determines whether a field should be visible based on a rule
// string and the current values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Always is the rule of fields without a visibleWhen expression.
var Always Rule = always{}

type always struct{}

func (always) Eval(Context) (bool, error) { return true, nil }
func (always) Deps() []string             { return nil }
func (always) String() string             { return "" }

// Dependents inverts a field -> rule map into gate -> guarded fields, so a
// change to a gate can find the fields whose visibility it drives.
func Dependents(rules map[string]Rule) map[string][]string {
	out := make(map[string][]string)
	for field, rule := range rules {
		if rule == nil {
			continue
		}
		for _, dep := range rule.Deps() {
			out[dep] = append(out[dep], field)
		}
	}
	for _, fields := range out {
		sort.Strings(fields)
	}
	return out
}
