// Package declare builds list-controls trees from YAML documents.
//
// A document is one node; containers list their children, and a bare
// string child is a text leaf:
//
//	kind: list_controls
//	children:
//	  - kind: columns
//	    children:
//	      - kind: filter
//	        type: text
//	        name: name
//	        label: Name
//	      - kind: filter
//	        type: choice
//	        name: color
//	        multiple: true
//	        choices:
//	          - {value: red, label: Red}
//	          - {value: blue, label: Blue}
//	  - kind: selector
//	    type: layout
//	    value: grid
//	    is_default: true
//	    children: [Grid]
//	  - kind: summary
//	    reset_label: Clear all
//
// Apply functions cannot be written in YAML; attach them by control name
// with Tree.OnApply.
package declare

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"

	"github.com/pthm/listctl"
)

// ErrUnknownKind is returned for a node whose kind (or filter or selector
// type) is not known.
var ErrUnknownKind = errors.New("declare: unknown kind")

// ErrInvalidValue is returned for a field value of the wrong shape, such
// as an unparsable default.
var ErrInvalidValue = errors.New("declare: invalid value")

// Tree is a parsed declaration. It implements listctl.TreeBuilder and
// builds fresh nodes on every call.
type Tree struct {
	root     decl
	appliers map[string]listctl.ApplyFunc
}

// Parse parses a YAML declaration and checks that it builds.
func Parse(data []byte) (*Tree, error) {
	t := &Tree{appliers: make(map[string]listctl.ApplyFunc)}
	if err := yaml.Unmarshal(data, &t.root); err != nil {
		return nil, fmt.Errorf("declare: parse: %w", err)
	}
	if _, err := t.Build(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads and parses the declaration at path.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("declare: read %s: %w", path, err)
	}
	return Parse(data)
}

// OnApply attaches fn to every filter and selector named name.
func (t *Tree) OnApply(name string, fn listctl.ApplyFunc) *Tree {
	t.appliers[name] = fn
	return t
}

// Build creates the tree's nodes.
func (t *Tree) Build() (node listctl.Node, err error) {
	// Constructors panic on configuration errors.
	defer func() {
		if r := recover(); r != nil {
			cfgErr, ok := r.(*listctl.ConfigurationError)
			if !ok {
				panic(r)
			}
			node, err = nil, cfgErr
		}
	}()
	return t.build(&t.root)
}

// BuildTree implements listctl.TreeBuilder. A declaration that stopped
// building since Parse panics with its configuration error.
func (t *Tree) BuildTree() listctl.Node {
	n, err := t.Build()
	if err != nil {
		var cfgErr *listctl.ConfigurationError
		if errors.As(err, &cfgErr) {
			panic(cfgErr)
		}
		panic(err)
	}
	return n
}

type choiceDecl struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type actionDecl struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	URL   string `yaml:"url"`
	Ref   string `yaml:"ref"`
}

type decl struct {
	Kind     string            `yaml:"kind"`
	Type     string            `yaml:"type"`
	Style    map[string]string `yaml:"style"`
	Classes  string            `yaml:"classes"`
	Children []decl            `yaml:"children"`
	Actions  []actionDecl      `yaml:"actions"`

	// Layout
	Float     string `yaml:"float"`
	Ref       string `yaml:"ref"`
	Collapsed bool   `yaml:"collapsed"`
	Content   string `yaml:"content"`
	Size      string `yaml:"size"`
	ClassName string `yaml:"class_name"`

	// Filters and selectors
	Name           string       `yaml:"name"`
	Label          string       `yaml:"label"`
	SummaryLabel   string       `yaml:"summary_label"`
	Default        string       `yaml:"default"`
	IncludeDefault bool         `yaml:"include_default_in_summary"`
	Format         string       `yaml:"format"`
	Multiple       bool         `yaml:"multiple"`
	Choices        []choiceDecl `yaml:"choices"`
	Value          string       `yaml:"value"`
	IsDefault      bool         `yaml:"is_default"`
	Template       string       `yaml:"template"`
	SummaryValue   string       `yaml:"summary_value"`

	// Summary
	ResetLabel  string  `yaml:"reset_label"`
	SearchParam *string `yaml:"search_param"`
	SearchLabel string  `yaml:"search_label"`

	line int
}

func (d *decl) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*d = decl{Kind: string(listctl.KindText), Content: n.Value, line: n.Line}
		return nil
	}
	type plain decl
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = n.Line
	return nil
}

func (t *Tree) build(d *decl) (listctl.Node, error) {
	opts := d.options()
	var n listctl.Node
	var err error

	switch listctl.Kind(d.Kind) {
	case listctl.KindListControls:
		n = listctl.NewListControls(opts...)
	case listctl.KindBlock:
		b := listctl.NewBlock(opts...)
		if d.Float != "" {
			b.FloatTo(listctl.Float(d.Float))
		}
		n = b
	case listctl.KindColumns:
		n = listctl.NewColumns(opts...)
	case listctl.KindPanel:
		p := listctl.NewPanel(d.Ref, opts...)
		if d.Collapsed {
			p.Collapse()
		}
		n = p
	case listctl.KindButton:
		b := listctl.NewButton(opts...)
		actions, err := d.actions()
		if err != nil {
			return nil, err
		}
		n = b.OnClick(actions...)
	case listctl.KindSpacer:
		n = listctl.NewSpacer(opts...)
	case listctl.KindDivider:
		n = listctl.NewDivider(opts...)
	case listctl.KindIcon:
		n = listctl.NewIcon(d.ClassName, opts...)
	case listctl.KindText:
		text := listctl.NewText(d.Content, opts...)
		if d.Size != "" {
			text.Sized(listctl.TextSize(d.Size))
		}
		n = text
	case listctl.KindHTML:
		n = listctl.NewHTML(d.Content, opts...)
	case listctl.KindFilter:
		n, err = t.buildFilter(d, opts)
	case listctl.KindSelector:
		n, err = t.buildSelector(d, opts)
	case listctl.KindSummary:
		s := listctl.NewSummary(opts...).WithResetLabel(d.ResetLabel)
		if d.SearchParam != nil {
			label := d.SearchLabel
			if label == "" {
				label = listctl.DefaultSearchLabel
			}
			s.WithSearch(*d.SearchParam, label)
		} else if d.SearchLabel != "" {
			s.WithSearch(listctl.DefaultSearchParam, d.SearchLabel)
		}
		n = s
	default:
		return nil, d.errorf(ErrUnknownKind, "%q", d.Kind)
	}
	if err != nil {
		return nil, err
	}

	if d.Children == nil {
		return n, nil
	}
	children := make([]any, 0, len(d.Children))
	for i := range d.Children {
		child, err := t.build(&d.Children[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if c, ok := n.(interface{ SetChildren(...any) error }); ok {
		if err := c.SetChildren(children...); err != nil {
			return nil, fmt.Errorf("declare: line %d: %w", d.line, err)
		}
	}
	return n, nil
}

func (t *Tree) buildFilter(d *decl, opts []listctl.Option) (listctl.Node, error) {
	apply := t.appliers[d.Name]

	switch d.Type {
	case "text":
		f := listctl.NewTextFilter(d.Name, opts...).WithLabel(d.Label).WithSummaryLabel(d.SummaryLabel)
		if d.Default != "" {
			f.WithDefault(d.Default)
		}
		if d.IncludeDefault {
			f.IncludeDefaultInSummary()
		}
		if apply != nil {
			f.OnApply(apply)
		}
		return f, nil
	case "boolean":
		f := listctl.NewBooleanFilter(d.Name, opts...).WithLabel(d.Label).WithSummaryLabel(d.SummaryLabel)
		if d.Default != "" {
			v, err := strconv.ParseBool(d.Default)
			if err != nil {
				return nil, d.errorf(ErrInvalidValue, "boolean default %q", d.Default)
			}
			f.WithDefault(v)
		}
		if d.IncludeDefault {
			f.IncludeDefaultInSummary()
		}
		if apply != nil {
			f.OnApply(apply)
		}
		return f, nil
	case "date":
		f := listctl.NewDateFilter(d.Name, opts...).WithLabel(d.Label).WithSummaryLabel(d.SummaryLabel)
		if d.Format != "" {
			f.WithFormat(d.Format)
		}
		if d.Default != "" {
			v, err := parseDate(f.Format(), d.Default)
			if err != nil {
				return nil, d.errorf(ErrInvalidValue, "date default %q: %v", d.Default, err)
			}
			f.WithDefault(v)
		}
		if d.IncludeDefault {
			f.IncludeDefaultInSummary()
		}
		if apply != nil {
			f.OnApply(apply)
		}
		return f, nil
	case "choice":
		f := listctl.NewChoiceFilter(d.Name, d.choices(), opts...).WithLabel(d.Label).WithSummaryLabel(d.SummaryLabel)
		if d.Multiple {
			f.AllowMultiple()
		}
		if d.Default != "" {
			f.WithDefault(d.Default)
		}
		if d.IncludeDefault {
			f.IncludeDefaultInSummary()
		}
		if apply != nil {
			f.OnApply(apply)
		}
		return f, nil
	case "radio":
		f := listctl.NewRadioFilter(d.Name, d.choices(), opts...).WithLabel(d.Label).WithSummaryLabel(d.SummaryLabel)
		if d.Default != "" {
			f.WithDefault(d.Default)
		}
		if d.IncludeDefault {
			f.IncludeDefaultInSummary()
		}
		if apply != nil {
			f.OnApply(apply)
		}
		return f, nil
	default:
		return nil, d.errorf(ErrUnknownKind, "filter type %q", d.Type)
	}
}

func (t *Tree) buildSelector(d *decl, opts []listctl.Option) (listctl.Node, error) {
	switch d.Type {
	case "layout":
		s := listctl.NewLayoutSelector(d.Value, opts...).WithTemplate(d.Template)
		if d.Name != "" {
			s.Named(d.Name)
		}
		if d.IsDefault {
			s.Default()
		}
		if apply := t.appliers[s.Name()]; apply != nil {
			s.OnApply(apply)
		}
		return s.WithSummaryLabel(d.SummaryLabel).WithSummaryValue(d.SummaryValue), nil
	case "sort":
		s := listctl.NewSortSelector(d.Value, opts...)
		if d.Name != "" {
			s.Named(d.Name)
		}
		if d.IsDefault {
			s.Default()
		}
		if apply := t.appliers[s.Name()]; apply != nil {
			s.OnApply(apply)
		}
		return s.WithSummaryLabel(d.SummaryLabel).WithSummaryValue(d.SummaryValue), nil
	default:
		return nil, d.errorf(ErrUnknownKind, "selector type %q", d.Type)
	}
}

func (d *decl) options() []listctl.Option {
	var opts []listctl.Option
	if len(d.Style) > 0 {
		opts = append(opts, listctl.WithStyle(d.Style))
	}
	if d.Classes != "" {
		opts = append(opts, listctl.WithClasses(d.Classes))
	}
	return opts
}

func (d *decl) choices() []listctl.Choice {
	out := make([]listctl.Choice, 0, len(d.Choices))
	for _, c := range d.Choices {
		label := c.Label
		if label == "" {
			label = c.Value
		}
		out = append(out, listctl.Choice{Value: c.Value, Label: label})
	}
	return out
}

func (d *decl) actions() ([]listctl.Action, error) {
	out := make([]listctl.Action, 0, len(d.Actions))
	for _, a := range d.Actions {
		switch listctl.ActionType(a.Type) {
		case listctl.ActionSetValue:
			out = append(out, listctl.SetValue(a.Name, a.Value))
		case listctl.ActionRemoveValue:
			out = append(out, listctl.RemoveValue(a.Name, a.Value))
		case listctl.ActionLink:
			out = append(out, listctl.Link(a.URL))
		case listctl.ActionTogglePanel:
			out = append(out, listctl.TogglePanel(a.Ref))
		case listctl.ActionCollapsePanel:
			out = append(out, listctl.CollapsePanel(a.Ref))
		case listctl.ActionClearSearchInput:
			out = append(out, listctl.ClearSearchInput())
		case listctl.ActionSubmitForm:
			out = append(out, listctl.SubmitForm())
		default:
			return nil, d.errorf(ErrUnknownKind, "action type %q", a.Type)
		}
	}
	return out, nil
}

func (d *decl) errorf(sentinel error, format string, args ...any) error {
	return &listctl.ConfigurationError{
		Op:   fmt.Sprintf("declare line %d", d.line),
		Kind: listctl.Kind(d.Kind),
		Err:  fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...),
	}
}

func parseDate(format, value string) (time.Time, error) {
	layout, err := strftime.Layout(format)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, value)
}
