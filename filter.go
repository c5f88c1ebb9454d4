package listctl

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultDateFormat is the strftime format used by DateFilter unless
// overridden with WithFormat.
const DefaultDateFormat = "%Y-%m-%d"

// ApplyFunc narrows a collection with a control's bound value. Use Apply to
// build one from a typed function.
type ApplyFunc func(collection any, value any) any

// Apply adapts a typed narrowing function to ApplyFunc. When the collection
// or the value does not have the expected type, the collection is returned
// unchanged.
//
//	listctl.NewTextFilter("name").OnApply(listctl.Apply(
//	    func(q *Query, name string) *Query { return q.Where("name LIKE ?", "%"+name+"%") },
//	))
func Apply[C, V any](fn func(C, V) C) ApplyFunc {
	return func(collection any, value any) any {
		c, ok := collection.(C)
		if !ok {
			return collection
		}
		v, ok := value.(V)
		if !ok {
			return collection
		}
		return fn(c, v)
	}
}

// filterImpl is the kind-specific half of a filter.
type filterImpl interface {
	// clean extracts the value from params. A nil value means "no value"
	// and triggers the default.
	clean(params Params) (any, error)
	// display renders a value for the summary.
	display(value any) string
	// queryValue renders a value as it appears in the query string.
	queryValue(value any) string
}

// filter carries the state shared by every filter kind. F is the concrete
// filter type, returned by the fluent setters so declarations chain.
type filter[F any] struct {
	Component

	self           F
	impl           filterImpl
	filterType     string
	name           string
	label          string
	summaryLabel   string
	def            any
	includeDefault bool
	apply          ApplyFunc

	value    any
	bound    bool
	cleanErr error
}

func (f *filter[F]) initFilter(self F, node Node, impl filterImpl, filterType, name string, opts []Option) {
	if name == "" {
		panic(configErr("New", KindFilter, ErrMissingName))
	}
	f.self = self
	f.impl = impl
	f.filterType = filterType
	f.name = name
	f.init(node, KindFilter, true, opts)
}

// Name returns the request parameter the filter reads.
func (f *filter[F]) Name() string {
	return f.name
}

// Label returns the filter's label.
func (f *filter[F]) Label() string {
	return f.label
}

// FilterType returns the client renderer tag ("text", "choice", ...).
func (f *filter[F]) FilterType() string {
	return f.filterType
}

// Bound reports whether HandleRequest has run.
func (f *filter[F]) Bound() bool {
	return f.bound
}

// RawValue returns the bound value: the cleaned request value, or the
// default when cleaning yielded no value. Nil before binding.
func (f *filter[F]) RawValue() any {
	return f.value
}

// DefaultValue returns the configured default, or nil.
func (f *filter[F]) DefaultValue() any {
	return f.def
}

// CleanErr returns why the last clean produced no value, if it failed.
func (f *filter[F]) CleanErr() error {
	return f.cleanErr
}

// WithLabel sets the label shown next to the input.
func (f *filter[F]) WithLabel(label string) F {
	f.label = label
	return f.self
}

// WithSummaryLabel sets the label used in the summary instead of Label.
func (f *filter[F]) WithSummaryLabel(label string) F {
	f.summaryLabel = label
	return f.self
}

// IncludeDefaultInSummary reports the filter in the summary even when it
// holds its default value.
func (f *filter[F]) IncludeDefaultInSummary() F {
	f.includeDefault = true
	return f.self
}

// OnApply sets the function that narrows a collection with the bound value.
func (f *filter[F]) OnApply(fn ApplyFunc) F {
	f.apply = fn
	return f.self
}

// HandleRequest cleans the filter's value out of params, falling back to
// the default when cleaning yields no value. Clean failures are recorded,
// never raised.
func (f *filter[F]) HandleRequest(params Params) {
	v, err := f.impl.clean(params)
	f.cleanErr = err
	if v == nil {
		v = f.def
	}
	f.value = v
	f.bound = true
}

// ApplyTo narrows collection with the bound value. Without an apply
// function, or with a falsy value, collection is returned unchanged.
func (f *filter[F]) ApplyTo(collection any) any {
	if f.apply == nil || !truthy(f.value) {
		return collection
	}
	return f.apply(collection, f.value)
}

// SummaryEntries reports the bound value, unless it is the default and
// defaults are excluded, or it is falsy.
func (f *filter[F]) SummaryEntries() []SummaryEntry {
	if !f.includeDefault && sameValue(f.value, f.def) {
		return nil
	}
	if e, ok := f.entryFor(f.value); ok {
		return []SummaryEntry{e}
	}
	return nil
}

func (f *filter[F]) entryFor(v any) (SummaryEntry, bool) {
	if !truthy(v) {
		return SummaryEntry{}, false
	}
	label := f.summaryLabel
	if label == "" {
		label = f.label
	}
	qv := f.impl.queryValue(v)
	return SummaryEntry{
		Name:         f.name,
		Label:        label,
		DisplayValue: f.impl.display(v),
		Value:        qv,
		Actions:      []Action{RemoveValue(f.name, qv), SubmitForm()},
	}, true
}

// TextFilter is a free-text input. An absent parameter cleans to "", never
// to the default.
type TextFilter struct {
	filter[*TextFilter]
}

// NewTextFilter creates a text filter reading the parameter name.
func NewTextFilter(name string, opts ...Option) *TextFilter {
	f := &TextFilter{}
	f.initFilter(f, f, f, "text", name, opts)
	return f
}

// WithDefault sets the default value.
func (f *TextFilter) WithDefault(v string) *TextFilter {
	f.def = v
	return f
}

// Value returns the bound text.
func (f *TextFilter) Value() string {
	s, _ := f.value.(string)
	return s
}

func (f *TextFilter) clean(params Params) (any, error) {
	v, _ := params.Value(f.name)
	return v, nil
}

func (f *TextFilter) display(v any) string    { return fmt.Sprint(v) }
func (f *TextFilter) queryValue(v any) string { return fmt.Sprint(v) }

// BooleanFilter is a checkbox. Any non-empty parameter value is true.
type BooleanFilter struct {
	filter[*BooleanFilter]
	raw string
}

// NewBooleanFilter creates a boolean filter reading the parameter name.
func NewBooleanFilter(name string, opts ...Option) *BooleanFilter {
	f := &BooleanFilter{}
	f.initFilter(f, f, f, "boolean", name, opts)
	return f
}

// WithDefault sets the default value. An absent parameter still cleans to
// false, so the default never becomes the bound value; it only decides
// which state the summary treats as default and leaves out.
func (f *BooleanFilter) WithDefault(v bool) *BooleanFilter {
	f.def = v
	return f
}

// Value returns the bound flag.
func (f *BooleanFilter) Value() bool {
	b, _ := f.value.(bool)
	return b
}

func (f *BooleanFilter) clean(params Params) (any, error) {
	f.raw, _ = params.Value(f.name)
	return f.raw != "", nil
}

// Boolean entries carry no display value; the label says it all.
func (f *BooleanFilter) display(any) string { return "" }

func (f *BooleanFilter) queryValue(any) string {
	if f.raw == "" {
		return "1"
	}
	return f.raw
}

// DateFilter parses a date with a strftime format. Empty or unparsable
// input cleans to no value.
type DateFilter struct {
	filter[*DateFilter]
	format string
}

// NewDateFilter creates a date filter reading the parameter name.
func NewDateFilter(name string, opts ...Option) *DateFilter {
	f := &DateFilter{format: DefaultDateFormat}
	f.initFilter(f, f, f, "date", name, opts)
	return f
}

// WithFormat sets the strftime format used to parse and display dates.
func (f *DateFilter) WithFormat(format string) *DateFilter {
	f.format = format
	return f
}

// WithDefault sets the default date.
func (f *DateFilter) WithDefault(t time.Time) *DateFilter {
	f.def = t
	return f
}

// Format returns the strftime format.
func (f *DateFilter) Format() string {
	return f.format
}

// ClientFormat returns the format in the date picker's syntax, sent to the
// client widget.
func (f *DateFilter) ClientFormat() string {
	return pickerFormat(f.format)
}

// Value returns the bound date and whether one is set.
func (f *DateFilter) Value() (time.Time, bool) {
	t, ok := f.value.(time.Time)
	return t, ok
}

func (f *DateFilter) clean(params Params) (any, error) {
	v, _ := params.Value(f.name)
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	layout, err := strftime.Layout(f.format)
	if err != nil {
		return nil, fmt.Errorf("date format %q: %w", f.format, err)
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (f *DateFilter) display(v any) string {
	return f.formatValue(v)
}

func (f *DateFilter) queryValue(v any) string {
	return f.formatValue(v)
}

func (f *DateFilter) formatValue(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		return ""
	}
	return strftime.Format(f.format, t)
}

// pickerDirectives maps strftime directives to the date picker's
// PHP-style tokens. Directives without an equivalent are dropped.
var pickerDirectives = map[byte]string{
	'a': "D", 'A': "l", 'b': "M", 'B': "F", 'd': "d", 'f': "u",
	'H': "H", 'I': "h", 'j': "z", 'm': "m", 'M': "i", 'p': "A",
	'S': "s", 'w': "w", 'W': "W", 'y': "y", 'Y': "Y", 'z': "O",
	'Z': "T", '%': "%",
}

func pickerFormat(format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			sb.WriteByte(format[i])
			continue
		}
		i++
		sb.WriteString(pickerDirectives[format[i]])
	}
	return sb.String()
}

// Choice is one allowed value of a choice or radio filter.
type Choice struct {
	Value string
	Label string
}

type choices []Choice

func (cs choices) has(v string) bool {
	return slices.ContainsFunc(cs, func(c Choice) bool { return c.Value == v })
}

func (cs choices) label(v string) string {
	for _, c := range cs {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}

// ChoiceFilter is a select input restricted to a fixed list of choices.
// Values outside the list clean to no selection.
//
// With AllowMultiple, every value sent for the parameter is read; unknown
// values are dropped and request order and duplicates are kept.
type ChoiceFilter struct {
	filter[*ChoiceFilter]
	choices  choices
	multiple bool
}

// NewChoiceFilter creates a choice filter reading the parameter name.
func NewChoiceFilter(name string, cs []Choice, opts ...Option) *ChoiceFilter {
	f := &ChoiceFilter{choices: cs}
	f.initFilter(f, f, f, "choice", name, opts)
	return f
}

// AllowMultiple lets the filter hold several values.
func (f *ChoiceFilter) AllowMultiple() *ChoiceFilter {
	f.multiple = true
	return f
}

// WithDefault sets the default choice.
func (f *ChoiceFilter) WithDefault(v string) *ChoiceFilter {
	f.def = v
	return f
}

// Choices returns the allowed choices.
func (f *ChoiceFilter) Choices() []Choice {
	return f.choices
}

// Multiple reports whether the filter holds several values.
func (f *ChoiceFilter) Multiple() bool {
	return f.multiple
}

// Value returns the bound choice of a single-valued filter.
func (f *ChoiceFilter) Value() (string, bool) {
	s, ok := f.value.(string)
	return s, ok
}

// Values returns the bound choices of a multi-valued filter.
func (f *ChoiceFilter) Values() []string {
	vs, _ := f.value.([]string)
	return vs
}

func (f *ChoiceFilter) clean(params Params) (any, error) {
	if !f.multiple {
		v, ok := params.Value(f.name)
		if ok && f.choices.has(v) {
			return v, nil
		}
		return nil, nil
	}
	vs := []string{}
	for _, v := range params.Values(f.name) {
		if f.choices.has(v) {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		if d, _ := f.def.(string); d != "" {
			return []string{d}, nil
		}
	}
	return vs, nil
}

// SummaryEntries reports one entry per selected value.
func (f *ChoiceFilter) SummaryEntries() []SummaryEntry {
	if !f.multiple {
		return f.filter.SummaryEntries()
	}
	var entries []SummaryEntry
	for _, v := range f.Values() {
		if !f.includeDefault && sameValue(v, f.def) {
			continue
		}
		if e, ok := f.entryFor(v); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (f *ChoiceFilter) display(v any) string {
	s, _ := v.(string)
	return f.choices.label(s)
}

func (f *ChoiceFilter) queryValue(v any) string {
	s, _ := v.(string)
	return s
}

// RadioFilter is a single choice rendered as radio buttons.
type RadioFilter struct {
	filter[*RadioFilter]
	choices choices
}

// NewRadioFilter creates a radio filter reading the parameter name.
func NewRadioFilter(name string, cs []Choice, opts ...Option) *RadioFilter {
	f := &RadioFilter{choices: cs}
	f.initFilter(f, f, f, "radio", name, opts)
	return f
}

// WithDefault sets the default choice.
func (f *RadioFilter) WithDefault(v string) *RadioFilter {
	f.def = v
	return f
}

// Choices returns the allowed choices.
func (f *RadioFilter) Choices() []Choice {
	return f.choices
}

// Value returns the bound choice.
func (f *RadioFilter) Value() (string, bool) {
	s, ok := f.value.(string)
	return s, ok
}

func (f *RadioFilter) clean(params Params) (any, error) {
	v, ok := params.Value(f.name)
	if ok && f.choices.has(v) {
		return v, nil
	}
	return nil, nil
}

func (f *RadioFilter) display(v any) string {
	s, _ := v.(string)
	return f.choices.label(s)
}

func (f *RadioFilter) queryValue(v any) string {
	s, _ := v.(string)
	return s
}

// truthy reports whether a bound value counts as set.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

func sameValue(a, b any) bool {
	switch a := a.(type) {
	case time.Time:
		t, ok := b.(time.Time)
		return ok && a.Equal(t)
	case []string:
		vs, ok := b.([]string)
		return ok && slices.Equal(a, vs)
	}
	if _, ok := b.([]string); ok {
		return false
	}
	return a == b
}
