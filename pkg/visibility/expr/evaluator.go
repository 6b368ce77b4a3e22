package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Evaluator compiles and evaluates visibility rules.
//
// Supported syntax:
//   - truthiness: `hasNotes`, `item.isUrgent`
//   - comparisons: `priority == "high"`, `count != 0`, `note == null`
//   - numeric ordering: `age >= 18`, `item.estimate < 3`
//   - composition: `a && !b`, `(a || b) && c`
//
// Compiled rules are cached by source text, so Eval can be called on every
// update without reparsing.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*Compiled
}

var (
	_ visibility.Evaluator = (*Evaluator)(nil)
	_ visibility.Compiler  = (*Evaluator)(nil)
)

func New() *Evaluator {
	return &Evaluator{cache: make(map[string]*Compiled)}
}

// Compile parses rule, reusing a cached result for identical source.
func (e *Evaluator) Compile(rule string) (visibility.Rule, error) {
	compiled, err := e.compile(rule)
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

func (e *Evaluator) compile(rule string) (*Compiled, error) {
	source := strings.TrimSpace(rule)
	e.mu.RLock()
	cached, ok := e.cache[source]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	compiled, err := Compile(source)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.cache[source] = compiled
	e.mu.Unlock()
	return compiled, nil
}

// Eval compiles (or reuses) rule and evaluates it against ctx.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	compiled, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	return compiled.Eval(ctx)
}

// Compiled is a parsed rule.
type Compiled struct {
	source string
	root   node
	deps   []string
}

// Compile parses a rule without caching. An empty rule is always true.
func Compile(rule string) (*Compiled, error) {
	source := strings.TrimSpace(rule)
	compiled := &Compiled{source: source}
	if source == "" {
		return compiled, nil
	}
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	compiled.root = root
	compiled.deps = p.deps
	return compiled, nil
}

// MustCompile is Compile that panics on malformed rules.
func MustCompile(rule string) *Compiled {
	compiled, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return compiled
}

func (c *Compiled) Eval(ctx visibility.Context) (bool, error) {
	if c == nil || c.root == nil {
		return true, nil
	}
	return c.root.eval(ctx), nil
}

func (c *Compiled) Deps() []string {
	return append([]string(nil), c.deps...)
}

func (c *Compiled) String() string {
	return c.source
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

var operators = []struct {
	text string
	kind tokenKind
}{
	{"==", tokenEq},
	{"!=", tokenNeq},
	{"<=", tokenLte},
	{">=", tokenGte},
	{"<", tokenLt},
	{">", tokenGt},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"!", tokenNot},
	{"(", tokenLParen},
	{")", tokenRParen},
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || strings.IndexByte("()!=<>&|\"'", ch) >= 0
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		matched := false
		for _, op := range operators {
			if strings.HasPrefix(input[i:], op.text) {
				tokens = append(tokens, token{kind: op.kind, raw: op.text})
				i += len(op.text)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		switch ch {
		case '=', '&', '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q; use %q", string(ch), strings.Repeat(string(ch), 2))
		case '"', '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			raw := input[i : end+1]
			if ch == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
			continue
		}

		start := i
		for i < len(input) && !isDelimiter(input[i]) {
			i++
		}
		raw := input[start:i]
		switch lower := strings.ToLower(raw); {
		case lower == "true" || lower == "false":
			tokens = append(tokens, token{kind: tokenBool, raw: lower})
		case lower == "null" || lower == "nil":
			tokens = append(tokens, token{kind: tokenNull, raw: "null"})
		case looksLikeNumber(raw):
			tokens = append(tokens, token{kind: tokenNumber, raw: raw})
		default:
			tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
		}
	}
	return tokens, nil
}

func closingQuote(input string, open int) int {
	quote := input[open]
	for i := open + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}
