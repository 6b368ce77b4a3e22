package validation

import (
	"math"
	"strconv"
	"strings"
)

// Values holds typed field values keyed by field name. Scalars are string,
// float64 or bool; list fields hold []Item.
type Values map[string]any

// Item is one entry of a repeated field group. ID is stable for the life of
// the item and never derived from its position.
type Item struct {
	ID     string `json:"id"`
	Values Values `json:"values"`
}

// ItemPath addresses a field inside a list item.
func ItemPath(list, id, field string) string {
	return list + "." + id + "." + field
}

// SplitItemPath reverses ItemPath. ok is false for top-level paths.
func SplitItemPath(path string) (list, id, field string, ok bool) {
	parts := strings.SplitN(path, ".", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// Lookup resolves a top-level name or an item path.
func (v Values) Lookup(path string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if value, ok := v[path]; ok {
		return value, true
	}
	list, id, field, ok := SplitItemPath(path)
	if !ok {
		return nil, false
	}
	item, found := v.Item(list, id)
	if !found {
		return nil, false
	}
	value, ok := item.Values[field]
	return value, ok
}

// Items returns the list stored under name.
func (v Values) Items(name string) []Item {
	if v == nil {
		return nil
	}
	items, _ := v[name].([]Item)
	return items
}

// Item finds the list entry with the given id.
func (v Values) Item(list, id string) (Item, bool) {
	for _, item := range v.Items(list) {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Set stores value at a top-level name or an item path. Unknown item ids are
// ignored and reported as false.
func (v Values) Set(path string, value any) bool {
	if v == nil {
		return false
	}
	list, id, field, ok := SplitItemPath(path)
	if !ok {
		v[path] = value
		return true
	}
	items := v.Items(list)
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].Values == nil {
			items[i].Values = Values{}
		}
		items[i].Values[field] = value
		return true
	}
	return false
}

// Clone deep-copies the values including list items.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case []Item:
		items := make([]Item, len(typed))
		for i, item := range typed {
			items[i] = Item{ID: item.ID, Values: item.Values.Clone()}
		}
		return items
	case Values:
		return typed.Clone()
	case map[string]any:
		return Values(typed).Clone()
	case []any:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = cloneValue(entry)
		}
		return out
	default:
		return value
	}
}

// Plain converts the values into a snapshot made of maps, slices and scalars.
// Lists become ordered []map[string]any and item ids are dropped.
func (v Values) Plain() map[string]any {
	out := make(map[string]any, len(v))
	for key, value := range v {
		out[key] = plainValue(value)
	}
	return out
}

func plainValue(value any) any {
	switch typed := value.(type) {
	case []Item:
		items := make([]map[string]any, len(typed))
		for i, item := range typed {
			items[i] = item.Values.Plain()
		}
		return items
	case Values:
		return typed.Plain()
	default:
		return value
	}
}

// Truthy mirrors the loose truthiness used by gating fields: false, "", NaN,
// zero and empty lists are falsy.
func Truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return strings.TrimSpace(typed) != ""
	case float64:
		return typed != 0 && !math.IsNaN(typed)
	case int:
		return typed != 0
	case []Item:
		return len(typed) > 0
	default:
		return true
	}
}

// IsBlank reports whether value counts as "not filled in" for presence
// checks. Whitespace-only text, NaN numbers and false checkboxes are blank.
func IsBlank(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case float64:
		return math.IsNaN(typed)
	case bool:
		return !typed
	case []Item:
		return len(typed) == 0
	default:
		return false
	}
}

// AsString renders scalar values as text.
func AsString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if math.IsNaN(typed) {
			return ""
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

// AsNumber coerces value into a float64. ok is false for blanks, NaN and
// text that does not parse.
func AsNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) {
			return 0, false
		}
		return typed, true
	case int:
		return float64(typed), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
