package render

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Format selects how an accepted submission is serialized.
type Format string

const (
	// FormatJSON emits application/json.
	FormatJSON Format = "json"
	// FormatForm emits application/x-www-form-urlencoded. List items are
	// addressed by position: tasks[0].title.
	FormatForm Format = "form"
	// FormatPretty emits sorted key=value lines.
	FormatPretty Format = "pretty"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = fmt.Errorf("render: unknown format")

// ParseFormat resolves a format name. An empty name is FormatJSON.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatForm, "urlencoded":
		return FormatForm, nil
	case FormatPretty, "text":
		return FormatPretty, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, raw)
	}
}

// ContentType reports the media type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatForm:
		return "application/x-www-form-urlencoded"
	case FormatPretty:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Serialize encodes the plain snapshot handed to onAccept. Empty numbers
// (NaN) encode as null in JSON and as an empty string elsewhere.
func Serialize(values map[string]any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.Marshal(jsonSafe(values))
	case FormatForm:
		out := url.Values{}
		flatten("", values, out)
		return []byte(out.Encode()), nil
	case FormatPretty:
		var b strings.Builder
		writePretty(&b, "", values)
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

func jsonSafe(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = jsonSafe(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonSafe(item)
		}
		return out
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	default:
		return v
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			flatten(join(prefix, key), v[key], out)
		}
	case []map[string]any:
		for i, item := range v {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, out)
		}
	default:
		out.Set(prefix, scalar(v))
	}
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			writePretty(b, join(prefix, key), v[key])
		}
	case []map[string]any:
		if len(v) == 0 {
			fmt.Fprintf(b, "%s=[]\n", prefix)
		}
		for i, item := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, scalar(v))
		}
	}
}

func scalar(value any) string {
	if value == nil {
		return ""
	}
	if s := validation.AsString(value); s != "" || validation.IsBlank(value) {
		return s
	}
	return fmt.Sprint(value)
}
