package listctl

import (
	"iter"

	"github.com/google/uuid"
)

// Kind identifies the concrete variant of a Node. It is emitted as the
// "kind" field of every serialized node and selects the client renderer.
type Kind string

const (
	KindListControls Kind = "list_controls"
	KindBlock        Kind = "block"
	KindColumns      Kind = "columns"
	KindPanel        Kind = "panel"
	KindSpacer       Kind = "spacer"
	KindDivider      Kind = "divider"
	KindIcon         Kind = "icon"
	KindText         Kind = "text"
	KindButton       Kind = "button"
	KindHTML         Kind = "html"
	KindFilter       Kind = "filter"
	KindSelector     Kind = "selector"
	KindSummary      Kind = "summary"
)

// Node is one element of a declared list-controls tree.
//
// Every node kind embeds Component, which carries the universal fields
// (kind, identity, style, extra classes, children). The unexported method
// keeps the set of kinds closed to types built on Component.
type Node interface {
	Kind() Kind
	ID() string
	Children() []Node
	component() *Component
}

// Option configures the universal fields of a node at construction.
type Option func(*Component)

// WithStyle sets the node's style properties. Keys are CSS property names
// ("margin-left"); they are converted to camelCase when serialized.
func WithStyle(style map[string]string) Option {
	return func(c *Component) {
		if c.Style == nil {
			c.Style = make(map[string]string, len(style))
		}
		for k, v := range style {
			c.Style[k] = v
		}
	}
}

// WithClasses appends extra CSS classes to the node.
func WithClasses(classes string) Option {
	return func(c *Component) {
		c.ExtraClasses = joinClasses(c.ExtraClasses, classes)
	}
}

// Component is the base embedded by every node kind.
//
// Children are write-once: they are declared by exactly one SetChildren (or
// With) call. A rewrite during binding installs a separate rendered list and
// never touches the declared one, so OriginalChildren always returns what
// the tree author wrote.
type Component struct {
	Style        map[string]string
	ExtraClasses string

	kind        Kind
	id          string
	leaf        bool
	children    []Node
	childrenSet bool
	rendered    []Node
	self        Node // The concrete node that embeds this
}

// init wires the base fields. Called by every constructor.
func (c *Component) init(self Node, kind Kind, leaf bool, opts []Option) {
	c.self = self
	c.kind = kind
	c.leaf = leaf
	c.id = uuid.NewString()
	for _, opt := range opts {
		opt(c)
	}
}

func (c *Component) component() *Component {
	return c
}

// Kind returns the node's kind tag.
func (c *Component) Kind() Kind {
	return c.kind
}

// ID returns the node's identity, a random UUID assigned at construction.
// The client renderer uses it as a reconciliation key.
func (c *Component) ID() string {
	return c.id
}

// Children returns the children in effect: the rendered children installed
// during binding when present, otherwise the declared ones.
func (c *Component) Children() []Node {
	if c.rendered != nil {
		return c.rendered
	}
	return c.children
}

// OriginalChildren returns the children as declared, ignoring any rewrite.
func (c *Component) OriginalChildren() []Node {
	return c.children
}

// HasChildren reports whether children have been declared.
func (c *Component) HasChildren() bool {
	return c.childrenSet
}

// SetChildren declares the node's children.
//
// Children may be Nodes or strings; a string becomes a Text leaf. Returns a
// *ConfigurationError if children were already declared, if the kind is a
// leaf, or if a child has an unsupported type.
func (c *Component) SetChildren(children ...any) error {
	if c.leaf {
		return configErr("SetChildren", c.kind, ErrChildrenForbidden)
	}
	if c.childrenSet {
		return configErr("SetChildren", c.kind, ErrChildrenAlreadySet)
	}
	nodes := make([]Node, 0, len(children))
	for _, child := range children {
		switch v := child.(type) {
		case Node:
			nodes = append(nodes, v)
		case string:
			nodes = append(nodes, NewText(v))
		default:
			return configErr("SetChildren", c.kind, ErrInvalidChild)
		}
	}
	c.children = nodes
	c.childrenSet = true
	return nil
}

// mustSetChildren backs the fluent With methods.
func (c *Component) mustSetChildren(children []any) {
	if err := c.SetChildren(children...); err != nil {
		panic(err)
	}
}

// setRendered installs the post-bind children. Only one rewrite is allowed.
func (c *Component) setRendered(nodes ...Node) error {
	if c.rendered != nil {
		return configErr("RewriteChildren", c.kind, ErrChildrenAlreadySet)
	}
	if nodes == nil {
		nodes = []Node{}
	}
	c.rendered = nodes
	return nil
}

// Flatten returns every node reachable from this one, itself first.
// See Flatten.
func (c *Component) Flatten() iter.Seq[Node] {
	return Flatten(c.self)
}

// Flatten returns a lazy depth-first, pre-order sequence of root and every
// node below it, following Children. The order equals declaration order and
// the sequence can be ranged over any number of times.
func Flatten(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(root, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, child := range n.Children() {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

func joinClasses(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
