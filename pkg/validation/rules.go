package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Scope is what a rule can read besides the value under test: the whole form
// and, for rules inside a list item schema, the item being validated.
type Scope struct {
	Values     Values
	List       string
	Item       *Item
	Locale     string
	Translator Translator
}

// Lookup resolves a name relative to the scope. "item.<field>" reads the
// current item; plain names read the item first and fall back to the form.
func (s Scope) Lookup(name string) any {
	if field, ok := strings.CutPrefix(name, "item."); ok {
		if s.Item == nil {
			return nil
		}
		return s.Item.Values[field]
	}
	if s.Item != nil {
		if value, ok := s.Item.Values[name]; ok {
			return value
		}
	}
	value, _ := s.Values.Lookup(name)
	return value
}

// Path qualifies a field name with the scope's list item, when there is one.
func (s Scope) Path(field string) string {
	if s.Item == nil || s.List == "" {
		return field
	}
	return ItemPath(s.List, s.Item.ID, field)
}

func (s Scope) message(key, override string, args ...any) string {
	if override != "" {
		return Interpolate(override, args...)
	}
	if s.Translator != nil {
		if msg, err := s.Translator.Translate(s.Locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	msg, err := DefaultCatalog.Translate(s.Locale, key, args...)
	if err != nil {
		return key
	}
	return msg
}

// Rule is a single field constraint. The zero Rule never fails.
type Rule struct {
	Code    Code
	Key     string
	Message string
	// Ref names the other field a cross-field rule reads.
	Ref string

	test func(value any, scope Scope) (bool, map[string]any)
	err  error
}

// WithMessage overrides the rule message. Placeholders such as {min} are
// still interpolated.
func (r Rule) WithMessage(message string) Rule {
	r.Message = message
	return r
}

// Err reports a construction problem such as an invalid pattern.
func (r Rule) Err() error {
	return r.err
}

// Apply evaluates the rule. failed is true when value breaks the rule.
func (r Rule) Apply(path string, value any, scope Scope) (issue Issue, failed bool) {
	if r.test == nil || r.err != nil {
		return Issue{}, false
	}
	ok, params := r.test(value, scope)
	if ok {
		return Issue{}, false
	}
	code := r.Code
	key := r.Key
	if invalid, _ := params["invalid"].(bool); invalid {
		code = CodeInvalidType
		key = MessageInvalidNumber
		delete(params, "invalid")
	}
	message := r.Message
	if code == CodeInvalidType {
		message = ""
	}
	return Issue{
		Path:    path,
		Code:    code,
		Message: scope.message(key, message, paramsToArgs(params, "min", "max", "length", "pattern", "field")...),
		Params:  params,
	}, true
}

// Required fails on blank values: empty text, NaN numbers, unchecked
// checkboxes and empty lists.
func Required() Rule {
	return Rule{
		Code: CodeRequired,
		Key:  MessageRequired,
		test: func(value any, _ Scope) (bool, map[string]any) {
			return !IsBlank(value), nil
		},
	}
}

// ValueMissing is Required as a browser's required constraint applies it:
// only the empty string counts as missing text, whitespace is a value.
func ValueMissing() Rule {
	return Rule{
		Code: CodeRequired,
		Key:  MessageRequired,
		test: func(value any, _ Scope) (bool, map[string]any) {
			if text, ok := value.(string); ok {
				return text != "", nil
			}
			return !IsBlank(value), nil
		},
	}
}

// Min fails when a filled-in number is below n. Blank values pass so presence
// stays the job of Required.
func Min(n float64) Rule {
	return Rule{
		Code: CodeRange,
		Key:  MessageRangeMin,
		test: func(value any, _ Scope) (bool, map[string]any) {
			if IsBlank(value) {
				return true, nil
			}
			num, ok := AsNumber(value)
			if !ok {
				return false, map[string]any{"invalid": true}
			}
			return num >= n, map[string]any{"min": n, "value": num}
		},
	}
}

// Max fails when a filled-in number is above n.
func Max(n float64) Rule {
	return Rule{
		Code: CodeRange,
		Key:  MessageRangeMax,
		test: func(value any, _ Scope) (bool, map[string]any) {
			if IsBlank(value) {
				return true, nil
			}
			num, ok := AsNumber(value)
			if !ok {
				return false, map[string]any{"invalid": true}
			}
			return num <= n, map[string]any{"max": n, "value": num}
		},
	}
}

// MinLength fails when non-empty text is shorter than n characters.
func MinLength(n int) Rule {
	return Rule{
		Code: CodeLength,
		Key:  MessageLengthMin,
		test: func(value any, _ Scope) (bool, map[string]any) {
			text := AsString(value)
			if text == "" {
				return true, nil
			}
			length := utf8.RuneCountInString(text)
			return length >= n, map[string]any{"min": n, "length": length}
		},
	}
}

// MaxLength fails when text is longer than n characters.
func MaxLength(n int) Rule {
	return Rule{
		Code: CodeLength,
		Key:  MessageLengthMax,
		test: func(value any, _ Scope) (bool, map[string]any) {
			length := utf8.RuneCountInString(AsString(value))
			return length <= n, map[string]any{"max": n, "length": length}
		},
	}
}

// Pattern fails when non-empty text does not match expr. label names the
// pattern in the message; the expression itself is used when label is empty.
// The whole value must match, as with the HTML pattern attribute.
func Pattern(expr, label string) Rule {
	rule := Rule{Code: CodePattern, Key: MessagePattern}
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		rule.err = fmt.Errorf("validation: invalid pattern %q: %w", expr, err)
		return rule
	}
	if label == "" {
		label = expr
	}
	rule.test = func(value any, _ Scope) (bool, map[string]any) {
		text := AsString(value)
		if text == "" {
			return true, nil
		}
		return re.MatchString(text), map[string]any{"pattern": label}
	}
	return rule
}

// Contains fails when non-empty text has no match for expr anywhere. It backs
// checks such as "at least one uppercase letter".
func Contains(expr, label string) Rule {
	rule := Rule{Code: CodePattern, Key: MessagePattern}
	re, err := regexp.Compile(expr)
	if err != nil {
		rule.err = fmt.Errorf("validation: invalid pattern %q: %w", expr, err)
		return rule
	}
	if label == "" {
		label = expr
	}
	rule.test = func(value any, _ Scope) (bool, map[string]any) {
		text := AsString(value)
		if text == "" {
			return true, nil
		}
		return re.MatchString(text), map[string]any{"pattern": label}
	}
	return rule
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email fails when non-empty text is not shaped like an email address.
func Email() Rule {
	return Rule{
		Code: CodePattern,
		Key:  MessageEmail,
		test: func(value any, _ Scope) (bool, map[string]any) {
			text := strings.TrimSpace(AsString(value))
			if text == "" {
				return true, nil
			}
			return emailPattern.MatchString(text), map[string]any{"pattern": "email"}
		},
	}
}

// Matches fails when the value differs from the field named other. The issue
// lands on the field carrying the rule.
func Matches(other string) Rule {
	return Rule{
		Code: CodeMismatch,
		Key:  MessageMismatch,
		Ref:  other,
		test: func(value any, scope Scope) (bool, map[string]any) {
			return AsString(value) == AsString(scope.Lookup(other)), map[string]any{"field": other}
		},
	}
}

// RequiredIf fails on a blank value while the gate field is truthy.
func RequiredIf(gate string) Rule {
	return Rule{
		Code: CodeConditionalRequired,
		Key:  MessageConditionalRequired,
		Ref:  gate,
		test: func(value any, scope Scope) (bool, map[string]any) {
			if !Truthy(scope.Lookup(gate)) {
				return true, nil
			}
			return !IsBlank(value), map[string]any{"field": gate}
		},
	}
}

// Custom wraps an arbitrary predicate. fn returns true when value is valid.
func Custom(code Code, message string, fn func(value any, scope Scope) bool) Rule {
	return Rule{
		Code:    code,
		Key:     string(code),
		Message: message,
		test: func(value any, scope Scope) (bool, map[string]any) {
			return fn(value, scope), nil
		},
	}
}
