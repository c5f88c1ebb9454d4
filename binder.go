package listctl

import (
	"fmt"
	"log/slog"
)

// BindState is the position of a Binder in the binding lifecycle. States
// only move forward, one step at a time.
type BindState int

const (
	StateBuild      BindState = iota // waiting for Bind; the tree is not built yet
	StateClean                       // nodes read the request parameters
	StateDefaults                    // selector groups resolve their selection
	StateRewrite                     // nodes rewrite their children
	StateDerive                      // summaries derive from the final tree
	StateBound                       // binding complete; ready to serialize
	StateSerialized                  // serialized; no further binding allowed
)

func (s BindState) String() string {
	switch s {
	case StateBuild:
		return "build"
	case StateClean:
		return "clean"
	case StateDefaults:
		return "defaults"
	case StateRewrite:
		return "rewrite"
	case StateDerive:
		return "derive"
	case StateBound:
		return "bound"
	case StateSerialized:
		return "serialized"
	default:
		return fmt.Sprintf("BindState(%d)", int(s))
	}
}

// Binder drives the per-request binding of a list-controls tree.
//
// A Binder is request-scoped: create one per request, call Bind with the
// request parameters, then read the result:
//
//	b := listctl.NewBinder(listctl.BuildFunc(buildControls))
//	if err := b.Bind(listctl.QueryParams(r)); err != nil {
//	    return err // a *ConfigurationError: the declaration is broken
//	}
//	products = listctl.ApplyControls(b, products)
//	state, _ := b.Serialize()
//
// Bind runs the lifecycle exactly once: Build, Clean, Defaults, Rewrite,
// Derive. Frameworks that invoke their hooks several times per request can
// call Bind freely; only the first call does any work.
type Binder struct {
	builder TreeBuilder
	logger  *slog.Logger

	state   BindState
	started bool
	err     error
	root    Node
	names   []string
	groups  map[string][]Named
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithLogger sets the logger used for lifecycle debug output.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) BinderOption {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder creates a Binder that declares its tree with builder.
func NewBinder(builder TreeBuilder, opts ...BinderOption) *Binder {
	b := &Binder{
		builder: builder,
		groups:  make(map[string][]Named),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// State returns the current lifecycle state.
func (b *Binder) State() BindState {
	return b.state
}

// Root returns the bound tree, or nil before Bind.
func (b *Binder) Root() Node {
	return b.root
}

// Bind builds the tree and binds it to params.
//
// A *ConfigurationError raised while the tree is declared is returned as
// is; it signals a programming error, not bad input. Malformed parameters
// never fail binding: the affected controls fall back to their defaults.
//
// Calls after the first return the first call's result without touching
// the tree. Once the tree has been serialized, Bind returns ErrBindClosed.
func (b *Binder) Bind(params Params) error {
	if b.state == StateSerialized {
		return ErrBindClosed
	}
	if b.started {
		return b.err
	}
	b.started = true
	b.err = b.bind(params)
	return b.err
}

func (b *Binder) bind(params Params) error {
	root, err := b.build()
	if err != nil {
		return err
	}
	b.root = root

	b.advance(StateClean)
	b.clean(params)

	b.advance(StateDefaults)
	b.resolveDefaults()

	b.advance(StateRewrite)
	if err := b.rewrite(); err != nil {
		return err
	}

	b.advance(StateDerive)
	b.derive()

	b.advance(StateBound)
	return nil
}

// build calls the tree builder, turning configuration panics from the
// fluent declaration API back into errors.
func (b *Binder) build() (root Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfgErr, ok := r.(*ConfigurationError)
			if !ok {
				panic(r)
			}
			root, err = nil, cfgErr
		}
	}()
	root = b.builder.BuildTree()
	if root == nil {
		return nil, configErr("BuildTree", "", ErrMissingRoot)
	}
	return root, nil
}

func (b *Binder) advance(next BindState) {
	b.state = next
	b.logger.Debug("listctl: bind", "state", next.String())
}

func (b *Binder) clean(params Params) {
	for n := range Flatten(b.root) {
		if h, ok := n.(RequestHandler); ok {
			h.HandleRequest(params)
		}
		named, ok := n.(Named)
		if !ok {
			continue
		}
		name := named.Name()
		if r, ok := n.(cleanReporter); ok && r.CleanErr() != nil {
			b.logger.Debug("listctl: clean failed, using default",
				"name", name, "error", r.CleanErr())
		}
		if _, seen := b.groups[name]; !seen {
			b.names = append(b.names, name)
		}
		b.groups[name] = append(b.groups[name], named)
	}
}

// resolveDefaults leaves at most one selected selector per name. When the
// request selected several, the first in tree order wins; when it selected
// none, the first default wins.
func (b *Binder) resolveDefaults() {
	for _, name := range b.names {
		var selectors []selectable
		for _, n := range b.groups[name] {
			if s, ok := n.(selectable); ok {
				selectors = append(selectors, s)
			}
		}
		hasSelected := false
		for _, s := range selectors {
			if !s.IsSelected() {
				continue
			}
			if hasSelected {
				s.setSelected(false)
				b.logger.Debug("listctl: ambiguous selection, keeping first",
					"name", name, "id", s.ID())
				continue
			}
			hasSelected = true
		}
		if hasSelected {
			continue
		}
		for _, s := range selectors {
			if s.IsDefault() {
				s.setSelected(true)
				break
			}
		}
	}
}

func (b *Binder) rewrite() error {
	// Collect first: rewriting changes what Flatten walks.
	var rewriters []ChildRewriter
	for n := range Flatten(b.root) {
		if r, ok := n.(ChildRewriter); ok {
			rewriters = append(rewriters, r)
		}
	}
	for _, r := range rewriters {
		if err := r.RewriteChildren(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Binder) derive() {
	nodes := Flatten(b.root)
	for n := range nodes {
		if d, ok := n.(TreeDeriver); ok {
			d.DeriveFromTree(nodes)
		}
	}
}

// Serialize returns the bound tree in its wire form. It may be called any
// number of times; once called, the tree can no longer be bound.
func (b *Binder) Serialize() (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.state < StateBound {
		return nil, ErrNotBound
	}
	b.state = StateSerialized
	return Serialize(b.root), nil
}

// Names returns the request parameter names used by the tree's controls,
// in tree order. Hosts use it to keep these parameters away from their own
// query handling.
func (b *Binder) Names() []string {
	return b.names
}

// Summary returns the active controls. It is the derived list of the
// first Summary node, or, for trees without one, the same projection taken
// directly from the tree.
func (b *Binder) Summary() []SummaryEntry {
	if b.root == nil || b.state < StateBound {
		return nil
	}
	for n := range Flatten(b.root) {
		if s, ok := n.(*Summary); ok {
			return s.Entries()
		}
	}
	var entries []SummaryEntry
	for n := range Flatten(b.root) {
		if p, ok := n.(SummaryProvider); ok {
			entries = append(entries, p.SummaryEntries()...)
		}
	}
	return entries
}

// SelectedLayout returns the selected layout option, or nil.
func (b *Binder) SelectedLayout() *LayoutSelector {
	if b.root == nil {
		return nil
	}
	for n := range Flatten(b.root) {
		if l, ok := n.(*LayoutSelector); ok && l.IsSelected() {
			return l
		}
	}
	return nil
}

// ApplyControls passes collection through every control of the bound tree,
// in tree order, and returns the narrowed collection. Controls whose apply
// function returns a value of another type are skipped.
func ApplyControls[C any](b *Binder, collection C) C {
	if b.root == nil {
		return collection
	}
	for n := range Flatten(b.root) {
		a, ok := n.(CollectionApplier)
		if !ok {
			continue
		}
		if next, ok := a.ApplyTo(collection).(C); ok {
			collection = next
		}
	}
	return collection
}
