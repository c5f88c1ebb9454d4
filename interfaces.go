package listctl

import "iter"

// The binding lifecycle dispatches on these capabilities. A node takes
// part in a phase by implementing the matching interface; nodes that
// implement none of them are pure layout.

// RequestHandler is implemented by nodes that resolve state from the
// request parameters during the clean phase.
type RequestHandler interface {
	Node
	HandleRequest(params Params)
}

// Named is implemented by nodes bound to a request parameter. The Binder
// groups nodes by name to resolve mutually exclusive selections.
type Named interface {
	Node
	Name() string
}

// ChildRewriter is implemented by nodes that replace their children once
// default selections are resolved.
type ChildRewriter interface {
	Node
	RewriteChildren() error
}

// SummaryProvider is implemented by nodes that report active state to a
// Summary.
type SummaryProvider interface {
	Node
	SummaryEntries() []SummaryEntry
}

// TreeDeriver is implemented by nodes computed from the final, rewritten
// tree.
type TreeDeriver interface {
	Node
	DeriveFromTree(nodes iter.Seq[Node])
}

// CollectionApplier is implemented by nodes that narrow a data collection
// with their bound value. See ApplyControls.
type CollectionApplier interface {
	Node
	ApplyTo(collection any) any
}

// selectable is implemented by selectors; default resolution flips the
// selection of group members.
type selectable interface {
	Named
	IsSelected() bool
	IsDefault() bool
	setSelected(selected bool)
}

// cleanReporter exposes the last clean failure of a filter.
type cleanReporter interface {
	CleanErr() error
}

// TreeBuilder declares the tree for one request. It is called once per
// Binder and must return a fresh tree each time: bound trees carry
// request state and are never reused.
type TreeBuilder interface {
	BuildTree() Node
}

// BuildFunc adapts a function to TreeBuilder.
type BuildFunc func() Node

// BuildTree calls f.
func (f BuildFunc) BuildTree() Node {
	return f()
}
