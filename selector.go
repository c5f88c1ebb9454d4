package listctl

import "strings"

// Default parameter names of the selector kinds.
const (
	DefaultLayoutName = "layout"
	DefaultSortName   = "sort"
)

// ClassSelected is added to a selector's button while it is selected.
const ClassSelected = "is-selected"

// selector carries the state shared by selector kinds. Selectors sharing a
// name are mutually exclusive: at most one ends binding selected.
type selector[S any] struct {
	Component

	self         S
	selectorType string
	name         string
	value        string
	isDefault    bool
	summaryLabel string
	summaryValue string
	apply        ApplyFunc

	selected bool
}

func (s *selector[S]) initSelector(self S, node Node, selectorType, name, value string, opts []Option) {
	if name == "" {
		panic(configErr("New", KindSelector, ErrMissingName))
	}
	s.self = self
	s.selectorType = selectorType
	s.name = name
	s.value = value
	s.init(node, KindSelector, false, opts)
}

// Name returns the request parameter the selector matches.
func (s *selector[S]) Name() string {
	return s.name
}

// Value returns the parameter value that selects this option.
func (s *selector[S]) Value() string {
	return s.value
}

// SelectorType returns the client renderer tag ("layout", "sort").
func (s *selector[S]) SelectorType() string {
	return s.selectorType
}

// IsDefault reports whether the option is selected when the request picks
// none.
func (s *selector[S]) IsDefault() bool {
	return s.isDefault
}

// IsSelected reports whether the option is selected. Only authoritative
// once the Binder has resolved defaults.
func (s *selector[S]) IsSelected() bool {
	return s.selected
}

func (s *selector[S]) setSelected(selected bool) {
	s.selected = selected
}

// Default marks the option as the group's default.
func (s *selector[S]) Default() S {
	s.isDefault = true
	return s.self
}

// Named overrides the request parameter name.
func (s *selector[S]) Named(name string) S {
	if name == "" {
		panic(configErr("Named", KindSelector, ErrMissingName))
	}
	s.name = name
	return s.self
}

// WithSummaryLabel sets the label shown in the summary.
func (s *selector[S]) WithSummaryLabel(label string) S {
	s.summaryLabel = label
	return s.self
}

// WithSummaryValue sets the value shown in the summary instead of the
// option's text.
func (s *selector[S]) WithSummaryValue(value string) S {
	s.summaryValue = value
	return s.self
}

// OnApply sets the function that narrows a collection while the option is
// selected. It receives the option's value.
func (s *selector[S]) OnApply(fn ApplyFunc) S {
	s.apply = fn
	return s.self
}

// With declares the option's content, usually its label.
func (s *selector[S]) With(children ...any) S {
	s.mustSetChildren(children)
	return s.self
}

// HandleRequest selects the option when the request sends its value.
func (s *selector[S]) HandleRequest(params Params) {
	v, ok := params.Value(s.name)
	s.selected = ok && v == s.value
}

// RewriteChildren wraps the declared children in a single Button that
// selects the option, or deselects it when already selected, then submits
// the form.
func (s *selector[S]) RewriteChildren() error {
	action := SetValue(s.name, s.value)
	var opts []Option
	if s.selected {
		action = RemoveValue(s.name, s.value)
		opts = append(opts, WithClasses(ClassSelected))
	}
	button := NewButton(opts...).OnClick(action, SubmitForm())
	if err := button.SetChildren(toAny(s.children)...); err != nil {
		return err
	}
	return s.setRendered(button)
}

// SummaryEntries reports the option while it is selected, unless it is the
// default.
func (s *selector[S]) SummaryEntries() []SummaryEntry {
	if !s.selected || s.isDefault {
		return nil
	}
	display := s.summaryValue
	if display == "" {
		display = textContent(s.children)
	}
	if display == "" {
		display = s.value
	}
	return []SummaryEntry{{
		Name:         s.name,
		Label:        s.summaryLabel,
		DisplayValue: display,
		Value:        s.value,
		Actions:      []Action{RemoveValue(s.name, s.value), SubmitForm()},
	}}
}

// ApplyTo narrows collection while the option is selected.
func (s *selector[S]) ApplyTo(collection any) any {
	if s.apply == nil || !s.selected {
		return collection
	}
	return s.apply(collection, s.value)
}

// LayoutSelector picks how results are displayed. The selected layout's
// Template tells the page which results template to render.
type LayoutSelector struct {
	selector[*LayoutSelector]
	Template string
}

// NewLayoutSelector creates a layout option matched on the "layout"
// parameter.
func NewLayoutSelector(value string, opts ...Option) *LayoutSelector {
	s := &LayoutSelector{}
	s.initSelector(s, s, "layout", DefaultLayoutName, value, opts)
	return s
}

// WithTemplate sets the results template used while the layout is
// selected.
func (s *LayoutSelector) WithTemplate(name string) *LayoutSelector {
	s.Template = name
	return s
}

// SortSelector picks the ordering of results.
type SortSelector struct {
	selector[*SortSelector]
}

// NewSortSelector creates a sort option matched on the "sort" parameter.
func NewSortSelector(value string, opts ...Option) *SortSelector {
	s := &SortSelector{}
	s.initSelector(s, s, "sort", DefaultSortName, value, opts)
	return s
}

func toAny(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// textContent concatenates the Text content below nodes, in order.
func textContent(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		for m := range Flatten(n) {
			if t, ok := m.(*Text); ok {
				sb.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
