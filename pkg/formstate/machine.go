package formstate

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Validator is the pure validation contract the machine runs. A
// *validation.Schema satisfies it; native.Validator swaps in host-supplied
// messages.
type Validator interface {
	Validate(values validation.Values) validation.Errors
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(values validation.Values) validation.Errors

func (fn ValidatorFunc) Validate(values validation.Values) validation.Errors {
	return fn(values)
}

// DefaultMinItems is the smallest size Remove shrinks a list to unless
// configured otherwise.
const DefaultMinItems = 1

// Machine is the form validation state machine.
type Machine struct {
	form      model.FormModel
	schema    *validation.Schema
	validator Validator
	mode      Mode
	logger    Logger
	newID     func() string
	messages  validation.Translator
	locale    string

	bindings map[string]binding.Binding
	minItems map[string]int
	initial  validation.Values

	st              *store
	state           State
	submitAttempted bool
	submitCount     int
	accepted        bool

	// generation invalidates every outstanding ticket on Reset.
	generation uint64
	submitSeq  uint64
	pending    *SubmitTicket
	writes     uint64
	fieldSeq   map[string]uint64

	subs   map[int]subscription
	nextID int
}

// Option configures a Machine.
type Option func(*Machine)

// WithMode selects the validation trigger mode.
func WithMode(mode Mode) Option {
	return func(m *Machine) {
		m.mode = mode
	}
}

// WithValidator replaces the schema as the source of errors. The schema still
// drives visibility and the set of field paths.
func WithValidator(v Validator) Option {
	return func(m *Machine) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithLogger routes transition traces to logger.
func WithLogger(logger Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMessages routes the schema's default messages through t for locale.
// Messages set explicitly on a rule are left alone.
func WithMessages(t validation.Translator, locale string) Option {
	return func(m *Machine) {
		m.messages = t
		m.locale = locale
	}
}

// WithIDGenerator overrides the list item identity source (uuid v4 by
// default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithMinItems sets the size below which Remove refuses to shrink list.
func WithMinItems(list string, n int) Option {
	return func(m *Machine) {
		if n < 0 {
			n = 0
		}
		m.minItems[list] = n
	}
}

// WithInitialValues overrides the initial values derived from model defaults.
func WithInitialValues(values validation.Values) Option {
	return func(m *Machine) {
		for key, value := range values.Clone() {
			m.initial[key] = value
		}
	}
}

func newMachine(schema *validation.Schema, opts []Option) *Machine {
	m := &Machine{
		schema:   schema,
		mode:     ModeSubmit,
		logger:   nopLogger{},
		newID:    func() string { return uuid.New().String() },
		bindings: make(map[string]binding.Binding),
		minItems: make(map[string]int),
		initial:  validation.Values{},
		fieldSeq: make(map[string]uint64),
		subs:     make(map[int]subscription),
	}
	m.validator = schema
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.messages != nil {
		local := schema.Localized(m.messages, m.locale)
		if m.validator == Validator(schema) {
			m.validator = local
		}
		m.schema = local
	}
	return m
}

// New creates a machine over schema seeded with initial values. List items
// without an ID receive one.
func New(schema *validation.Schema, initial validation.Values, opts ...Option) (*Machine, error) {
	if schema == nil {
		return nil, ErrNoSchema
	}
	m := newMachine(schema, append([]Option{WithInitialValues(initial)}, opts...))
	for key, value := range m.initial {
		if items, ok := value.([]validation.Item); ok {
			m.initial[key] = m.assignIDs(items)
		}
	}
	m.st = newStore(m.initial)
	m.logger.Debug("machine created", "mode", m.mode, "fields", len(schema.FieldNames()))
	return m, nil
}

// FromModel builds the schema from the model's rules, binds every field and
// derives initial values from field defaults. Lists start with max(min, 1)
// items unless a default provides them.
func FromModel(form model.FormModel, opts ...Option) (*Machine, error) {
	return FromModelWith(form, nil, opts...)
}

// FromModelWith is FromModel with an explicit schema, for forms whose rules
// are composed in code (refinements, custom rules).
func FromModelWith(form model.FormModel, schema *validation.Schema, opts ...Option) (*Machine, error) {
	if schema == nil {
		built, err := validation.FromModel(form)
		if err != nil {
			return nil, fmt.Errorf("formstate: %w", err)
		}
		schema = built
	} else if err := schema.Check(form); err != nil {
		return nil, fmt.Errorf("formstate: %w", err)
	}

	if form.Mode != "" {
		mode, err := ParseMode(form.Mode)
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithMode(mode)}, opts...)
	}

	m := newMachine(schema, opts)
	m.form = form
	for _, field := range form.Fields {
		m.bindings[field.Name] = binding.Bind(field)
		for _, item := range field.Items {
			m.bindings[field.Name+"."+item.Name] = binding.Bind(item)
		}
		if _, set := m.minItems[field.Name]; field.IsList() && !set {
			m.minItems[field.Name] = listMinimum(field)
		}
	}
	for list := range m.minItems {
		if field, ok := form.Field(list); !ok || !field.IsList() {
			return nil, fmt.Errorf("%w %q", ErrUnknownList, list)
		}
	}
	for _, field := range form.Fields {
		if _, overridden := m.initial[field.Name]; overridden {
			continue
		}
		if field.IsList() {
			m.initial[field.Name] = m.defaultItems(field)
			continue
		}
		m.initial[field.Name] = m.bindings[field.Name].Coerce(field.Default)
	}
	for key, value := range m.initial {
		if items, ok := value.([]validation.Item); ok {
			m.initial[key] = m.assignIDs(items)
		}
	}

	m.st = newStore(m.initial)
	m.logger.Debug("machine created", "form", form.ID, "mode", m.mode, "fields", len(form.Fields))
	return m, nil
}

func listMinimum(field model.Field) int {
	for _, rule := range field.Validations {
		if rule.Kind == model.ValidationRuleMinItems {
			if n, err := strconv.Atoi(rule.Params["value"]); err == nil {
				return n
			}
		}
	}
	return DefaultMinItems
}

func (m *Machine) defaultItems(field model.Field) []validation.Item {
	var items []validation.Item
	if defaults, ok := field.Default.([]any); ok {
		for _, entry := range defaults {
			raw, _ := entry.(map[string]any)
			items = append(items, m.newItem(field.Name, raw))
		}
	}
	for len(items) < max(m.minItems[field.Name], 1) {
		items = append(items, m.newItem(field.Name, nil))
	}
	return items
}

func (m *Machine) assignIDs(items []validation.Item) []validation.Item {
	out := make([]validation.Item, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = m.newID()
		}
		out[i] = validation.Item{ID: item.ID, Values: item.Values.Clone()}
	}
	return out
}

// Form returns the model the machine was built from, if any.
func (m *Machine) Form() model.FormModel {
	return m.form
}

// Schema returns the composed validator.
func (m *Machine) Schema() *validation.Schema {
	return m.schema
}

// Mode reports the configured trigger mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// State reports the lifecycle phase.
func (m *Machine) State() State {
	return m.state
}

// IsSubmitting reports whether a submit ticket is outstanding.
func (m *Machine) IsSubmitting() bool {
	return m.state == Submitting
}

// SubmitAttempted reports whether Submit or BeginSubmit ran since creation
// or the last Reset.
func (m *Machine) SubmitAttempted() bool {
	return m.submitAttempted
}

// Binding returns the binding for path. Item paths resolve through their
// list's item field; unknown paths bind as text.
func (m *Machine) Binding(path string) binding.Binding {
	if b, ok := m.bindings[path]; ok {
		return b
	}
	if list, _, field, ok := validation.SplitItemPath(path); ok {
		if b, ok := m.bindings[list+"."+field]; ok {
			return b
		}
	}
	return binding.Binding{Name: path, Kind: binding.KindText}
}

// Value returns the current value at path.
func (m *Machine) Value(path string) any {
	value, _ := m.st.values.Lookup(path)
	return value
}

// Values returns a copy of every value.
func (m *Machine) Values() validation.Values {
	return m.st.values.Clone()
}

// Error returns the stored issue for path regardless of display gating.
func (m *Machine) Error(path string) validation.Issue {
	return m.st.errors[path]
}

// Errors returns a copy of the stored errors.
func (m *Machine) Errors() validation.Errors {
	return m.st.errors.Clone()
}

// Touched reports whether path has been touched.
func (m *Machine) Touched(path string) bool {
	return m.st.touched[path]
}

// Visible reports whether path is currently revealed.
func (m *Machine) Visible(path string) bool {
	return m.schema.Visible(path, m.st.values)
}

// Paths lists every field path of the form under the current values.
func (m *Machine) Paths() []string {
	return m.schema.Paths(m.st.values)
}

// VisibleError returns the message to display for path: empty unless the
// field is touched or a submit was attempted, and the field is revealed.
func (m *Machine) VisibleError(path string) string {
	message := m.st.errors.Message(path)
	if message == "" {
		return ""
	}
	if !m.st.touched[path] && !m.submitAttempted {
		return ""
	}
	if !m.Visible(path) {
		return ""
	}
	return message
}

// Dirty reports whether path differs from its initial value. New list items
// are always dirty.
func (m *Machine) Dirty(path string) bool {
	initial, ok := m.initial.Lookup(path)
	if !ok {
		_, exists := m.st.values.Lookup(path)
		return exists
	}
	return !sameValue(initial, m.Value(path))
}

// IsDirty reports whether any value differs from the initial values.
func (m *Machine) IsDirty() bool {
	for key := range m.st.values {
		if m.listChanged(key) || (!isList(m.st.values[key]) && m.Dirty(key)) {
			return true
		}
	}
	return false
}

func (m *Machine) listChanged(list string) bool {
	current, ok := m.st.values[list].([]validation.Item)
	if !ok {
		return false
	}
	initial := m.initial.Items(list)
	if len(current) != len(initial) {
		return true
	}
	for i, item := range current {
		if item.ID != initial[i].ID {
			return true
		}
		for field, value := range item.Values {
			if !sameValue(initial[i].Values[field], value) {
				return true
			}
		}
	}
	return false
}

func isList(value any) bool {
	_, ok := value.([]validation.Item)
	return ok
}

func sameValue(a, b any) bool {
	if validation.IsBlank(a) && validation.IsBlank(b) {
		_, aBool := a.(bool)
		_, bBool := b.(bool)
		return aBool == bBool
	}
	return validation.AsString(a) == validation.AsString(b)
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() FormState {
	return FormState{
		State:           m.state,
		Values:          m.st.values.Clone(),
		Errors:          m.st.errors.Clone(),
		Touched:         cloneTouched(m.st.touched),
		IsSubmitting:    m.state == Submitting,
		SubmitAttempted: m.submitAttempted,
		SubmitCount:     m.submitCount,
		Accepted:        m.accepted,
	}
}

func (m *Machine) transition(to State) {
	if m.state == to {
		return
	}
	m.logger.Debug("transition", "from", m.state, "to", to)
	m.state = to
}

// markEdited moves Pristine and Settled forms back to Editing. An
// outstanding submit keeps its Submitting state.
func (m *Machine) markEdited() {
	if m.state != Submitting {
		m.transition(Editing)
	}
}

func (m *Machine) validate() validation.Errors {
	errs := m.validator.Validate(m.st.values)
	return m.visibleOnly(errs)
}

func (m *Machine) visibleOnly(errs validation.Errors) validation.Errors {
	out := make(validation.Errors, len(errs))
	for path, issue := range errs {
		if issue.Empty() || !m.schema.Visible(path, m.st.values) {
			continue
		}
		out[path] = issue
	}
	return out
}

// revalidatePath recomputes the error at path from the current values.
func (m *Machine) revalidatePath(path string) bool {
	issue, failed := m.validate()[path]
	return m.st.setError(path, issue, failed)
}

// clearHidden drops errors on fields whose gate is closed. Values are kept.
func (m *Machine) clearHidden() []string {
	var cleared []string
	for path := range m.st.errors {
		if !m.schema.Visible(path, m.st.values) {
			delete(m.st.errors, path)
			cleared = append(cleared, path)
		}
	}
	return cleared
}

// SetFieldValue stores value at path and revalidates according to the mode.
// Unknown list items are ignored.
func (m *Machine) SetFieldValue(path string, value any) {
	if !m.st.values.Set(path, value) {
		m.logger.Debug("set ignored", "path", path)
		return
	}
	m.writes++
	m.fieldSeq[path]++
	m.markEdited()

	changed := []string{path}
	switch {
	case m.mode == ModeChange:
		changed = append(changed, m.st.replaceErrors(m.validate())...)
	case m.mode == ModeTouched && m.st.touched[path]:
		m.revalidatePath(path)
	case m.mode == ModeSubmit && m.submitAttempted && m.st.touched[path]:
		m.revalidatePath(path)
	}
	changed = append(changed, m.clearHidden()...)
	m.emit(EventValue, changed...)
}

// SetFieldInput parses raw through the field's binding and stores the result.
func (m *Machine) SetFieldInput(path, raw string) {
	m.SetFieldValue(path, m.Binding(path).Parse(raw))
}

// SetFieldTouched marks path as touched. In the live modes it also recomputes
// the field's error; calling it again with unchanged values has no further
// effect.
func (m *Machine) SetFieldTouched(path string) {
	wasTouched := m.st.touched[path]
	m.st.touched[path] = true

	errorChanged := false
	if m.mode.live() {
		errorChanged = m.revalidatePath(path)
	}
	if wasTouched && !errorChanged {
		return
	}
	m.emit(EventTouched, path)
}

// Submit validates every field regardless of touched state, marks them all
// touched and, when no errors remain, calls onAccept once with a plain
// snapshot of the values. It reports whether the submit was accepted.
func (m *Machine) Submit(onAccept func(values map[string]any)) bool {
	ticket := m.BeginSubmit()
	return m.ResolveSubmit(ticket, nil, onAccept)
}

// Reset returns the machine to Pristine with its initial values, as a fresh
// mount would. Outstanding tickets become stale.
func (m *Machine) Reset() {
	m.generation++
	m.pending = nil
	m.st = newStore(m.initial)
	m.submitAttempted = false
	m.submitCount = 0
	m.accepted = false
	m.fieldSeq = make(map[string]uint64)
	m.transition(Pristine)
	m.emit(EventReset)
}
