package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Message keys passed to a Translator. Range and length failures carry the
// violated side so the wording can differ.
const (
	MessageRequired            = "validation.required"
	MessageRangeMin            = "validation.range.min"
	MessageRangeMax            = "validation.range.max"
	MessageLengthMin           = "validation.length.min"
	MessageLengthMax           = "validation.length.max"
	MessagePattern             = "validation.pattern"
	MessageEmail               = "validation.email"
	MessageMismatch            = "validation.mismatch"
	MessageConditionalRequired = "validation.conditional_required"
	MessageInvalidNumber       = "validation.invalid_number"
	MessageMinItems            = "validation.min_items"
)

// ErrMissingMessage is returned by translators that have no entry for a key.
var ErrMissingMessage = errors.New("validation: missing message")

// Translator resolves a message key into display text. args are alternating
// name/value pairs used as placeholders, e.g. "min", 3, "length", 1.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// Catalog is a locale -> key -> template dictionary. Templates reference
// placeholders as {name}.
type Catalog map[string]map[string]string

// DefaultCatalog holds the browser-style English messages.
var DefaultCatalog = Catalog{
	"en": {
		MessageRequired:            "Please fill out this field.",
		MessageRangeMin:            "Value must be greater than or equal to {min}.",
		MessageRangeMax:            "Value must be less than or equal to {max}.",
		MessageLengthMin:           "Please lengthen this text to {min} characters or more (you are currently using {length} characters).",
		MessageLengthMax:           "Please shorten this text to {max} characters or less (you are currently using {length} characters).",
		MessagePattern:             "Please match the requested format: {pattern}.",
		MessageEmail:               "Please enter an email address.",
		MessageMismatch:            "Value must match {field}.",
		MessageConditionalRequired: "Please fill out this field.",
		MessageInvalidNumber:       "Please enter a number.",
		MessageMinItems:            "Please add at least {min} items.",
	},
}

// Merge returns a catalog holding c's messages overlaid with other's. Neither
// input is modified.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for _, src := range []Catalog{c, other} {
		for locale, messages := range src {
			if out[locale] == nil {
				out[locale] = make(map[string]string, len(messages))
			}
			for key, tmpl := range messages {
				out[locale][key] = tmpl
			}
		}
	}
	return out
}

// Translate looks up key for locale, falling back to "en" and then to the
// base language of locale ("en-GB" -> "en").
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if messages, ok := c[candidate]; ok {
			if tmpl, ok := messages[key]; ok {
				return Interpolate(tmpl, args...), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingMessage, key)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base, _, found := strings.Cut(locale, "-"); found {
			chain = append(chain, base)
		}
	}
	return append(chain, "en")
}

// Interpolate replaces {name} placeholders with the paired values from args.
func Interpolate(tmpl string, args ...any) string {
	if len(args) < 2 {
		return tmpl
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		name, ok := args[i].(string)
		if !ok {
			continue
		}
		pairs = append(pairs, "{"+name+"}", formatArg(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func formatArg(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64, int:
		return AsString(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func paramsToArgs(params map[string]any, order ...string) []any {
	args := make([]any, 0, len(order)*2)
	for _, name := range order {
		if value, ok := params[name]; ok {
			args = append(args, name, value)
		}
	}
	return args
}
