package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

type node interface {
	eval(ctx visibility.Context) bool
}

// logical is an n-ary && or ||, evaluated left to right with short circuit.
type logical struct {
	or    bool
	terms []node
}

func join(or bool, left, right node) node {
	if l, ok := left.(logical); ok && l.or == or {
		return logical{or: or, terms: append(l.terms, right)}
	}
	return logical{or: or, terms: []node{left, right}}
}

func (n logical) eval(ctx visibility.Context) bool {
	for _, term := range n.terms {
		if term.eval(ctx) == n.or {
			return n.or
		}
	}
	return !n.or
}

type negation struct{ inner node }

func (n negation) eval(ctx visibility.Context) bool { return !n.inner.eval(ctx) }

type operand struct {
	null   bool
	isBool bool
	isNum  bool
	text   string
	num    float64
	flag   bool
}

func numberOperand(raw string) (operand, error) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return operand{}, fmt.Errorf("visibility/expr: invalid number literal %q", raw)
	}
	return operand{isNum: true, num: n, text: raw}, nil
}

// test reads one identifier. Without an operator it checks truthiness.
type test struct {
	ref string
	op  tokenKind
	rhs operand
	cmp bool
}

func (n test) eval(ctx visibility.Context) bool {
	value, found := resolve(ctx, n.ref)
	if !n.cmp {
		return found && truthy(value)
	}
	switch n.op {
	case tokenEq:
		return n.equal(value)
	case tokenNeq:
		return !n.equal(value)
	}
	got, ok := number(value)
	if !ok || !n.rhs.isNum {
		return false
	}
	switch n.op {
	case tokenLt:
		return got < n.rhs.num
	case tokenLte:
		return got <= n.rhs.num
	case tokenGt:
		return got > n.rhs.num
	case tokenGte:
		return got >= n.rhs.num
	}
	return false
}

func (n test) equal(value any) bool {
	switch {
	case n.rhs.null:
		return value == nil
	case n.rhs.isBool:
		return boolean(value) == n.rhs.flag
	case n.rhs.isNum:
		got, ok := number(value)
		return ok && got == n.rhs.num
	default:
		return text(value) == n.rhs.text
	}
}

// resolve looks key up in the scope its prefix names. Bare keys try the
// current item first, then the form values.
func resolve(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		return dig(ctx.Extras, rest)
	}
	if rest, ok := strings.CutPrefix(key, "item."); ok {
		return dig(ctx.Item, rest)
	}
	if v, ok := dig(ctx.Item, key); ok {
		return v, true
	}
	return dig(ctx.Values, key)
}

// dig tries the whole dotted key first, then walks nested maps.
func dig(scope map[string]any, key string) (any, bool) {
	if key == "" || len(scope) == 0 {
		return nil, false
	}
	if v, ok := scope[key]; ok {
		return v, true
	}
	var cur any = scope
	for _, part := range strings.Split(key, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]string:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

func boolean(value any) bool {
	if s, ok := value.(string); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return truthy(value)
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
