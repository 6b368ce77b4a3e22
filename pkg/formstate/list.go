package formstate

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ItemValue pairs a list item identity with one of its field values.
type ItemValue struct {
	ID    string
	Value any
}

// ItemPath addresses field inside the list item id: "tasks.<id>.title".
func ItemPath(list, id, field string) string {
	return validation.ItemPath(list, id, field)
}

// newItem builds an item with a fresh identity. Item fields start at their
// kind's zero value (or model default) and defaults override them.
func (m *Machine) newItem(list string, defaults map[string]any) validation.Item {
	item := validation.Item{ID: m.newID(), Values: validation.Values{}}
	if field, ok := m.form.Field(list); ok {
		for _, sub := range field.Items {
			item.Values[sub.Name] = binding.Bind(sub).Coerce(sub.Default)
		}
	}
	for key, value := range defaults {
		b, bound := m.bindings[list+"."+key]
		if bound {
			value = b.Coerce(value)
		}
		item.Values[key] = value
	}
	return item
}

// Items returns a copy of the list's items in order.
func (m *Machine) Items(list string) []validation.Item {
	items := m.st.values.Items(list)
	out := make([]validation.Item, len(items))
	for i, item := range items {
		out[i] = validation.Item{ID: item.ID, Values: item.Values.Clone()}
	}
	return out
}

// ItemIDs returns the list's identities in order.
func (m *Machine) ItemIDs(list string) []string {
	items := m.st.values.Items(list)
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// MinItems reports the size below which Remove refuses to shrink list.
func (m *Machine) MinItems(list string) int {
	if n, ok := m.minItems[list]; ok {
		return n
	}
	return DefaultMinItems
}

// CanRemove reports whether Remove would succeed on list, so a renderer can
// hide the remove control on the last remaining item.
func (m *Machine) CanRemove(list string) bool {
	return len(m.st.values.Items(list)) > m.MinItems(list)
}

// Append adds a new item at the end of list and returns its identity.
func (m *Machine) Append(list string, defaults map[string]any) string {
	item := m.newItem(list, defaults)
	items := append(m.Items(list), item)
	m.st.values[list] = items
	m.afterListChange("append", list, item.ID)
	return item.ID
}

// Remove deletes the item id from list together with its errors and touched
// flags. It refuses to go below the list minimum and reports whether the item
// was removed.
func (m *Machine) Remove(list, id string) bool {
	items := m.Items(list)
	index := indexOf(items, id)
	if index < 0 || !m.CanRemove(list) {
		m.logger.Debug("remove refused", "list", list, "id", id, "size", len(items))
		return false
	}
	m.st.values[list] = append(items[:index], items[index+1:]...)
	m.st.dropPrefix(list + "." + id + ".")
	for path := range m.fieldSeq {
		if strings.HasPrefix(path, list+"."+id+".") {
			delete(m.fieldSeq, path)
		}
	}
	m.afterListChange("remove", list, id)
	return true
}

// Move places item id at index, clamped to the list bounds. Errors and
// touched flags follow the item because they are keyed by identity.
func (m *Machine) Move(list, id string, index int) bool {
	items := m.Items(list)
	from := indexOf(items, id)
	if from < 0 {
		return false
	}
	index = max(0, min(index, len(items)-1))
	if index == from {
		return true
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:index], append([]validation.Item{item}, items[index:]...)...)
	m.st.values[list] = items
	m.afterListChange("move", list, id)
	return true
}

func (m *Machine) afterListChange(op, list, id string) {
	m.writes++
	m.markEdited()
	changed := []string{list}
	switch {
	case m.mode == ModeChange:
		changed = append(changed, m.st.replaceErrors(m.validate())...)
	case m.submitAttempted && m.mode != ModeNative && m.st.touched[list]:
		m.revalidatePath(list)
	}
	m.logger.Debug("list "+op, "list", list, "id", id, "size", len(m.st.values.Items(list)))
	m.emit(EventList, changed...)
}

// Project reads field from every item of list, in order, straight from the
// live values.
func (m *Machine) Project(list, field string) []ItemValue {
	items := m.st.values.Items(list)
	out := make([]ItemValue, len(items))
	for i, item := range items {
		out[i] = ItemValue{ID: item.ID, Value: item.Values[field]}
	}
	return out
}

func indexOf(items []validation.Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
