package listctl

import "github.com/microcosm-cc/bluemonday"

// Float positions a Block inside its parent.
type Float string

const (
	FloatLeft  Float = "left"
	FloatRight Float = "right"
)

// TextSize selects the typographic scale of a Text leaf.
type TextSize string

const (
	TextLarge   TextSize = "large"
	TextMedium  TextSize = "medium"
	TextRegular TextSize = "regular"
	TextSmall   TextSize = "small"
)

// htmlPolicy sanitizes HTML leaf content. Content is rendered unescaped by
// the client: scripts and event handlers go, presentation markup (class,
// style) stays so icons and badges render as written.
var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyling()
	p.AllowStyles(
		"color", "background-color", "font-weight", "font-style",
		"margin", "margin-left", "margin-right", "padding", "display",
	).Globally()
	return p
}

// ListControls is the root of a list-controls tree.
type ListControls struct {
	Component
}

// NewListControls creates a tree root.
func NewListControls(opts ...Option) *ListControls {
	n := &ListControls{}
	n.init(n, KindListControls, false, opts)
	return n
}

// With declares the root's children. Panics with a *ConfigurationError if
// children were already declared.
func (n *ListControls) With(children ...any) *ListControls {
	n.mustSetChildren(children)
	return n
}

// Block groups children, optionally floated to one side.
type Block struct {
	Component
	Float Float
}

// NewBlock creates a block.
func NewBlock(opts ...Option) *Block {
	n := &Block{}
	n.init(n, KindBlock, false, opts)
	return n
}

// FloatTo floats the block to the given side.
func (n *Block) FloatTo(f Float) *Block {
	n.Float = f
	return n
}

// With declares the block's children.
func (n *Block) With(children ...any) *Block {
	n.mustSetChildren(children)
	return n
}

// Columns lays its children out side by side.
type Columns struct {
	Component
}

// NewColumns creates a column layout.
func NewColumns(opts ...Option) *Columns {
	n := &Columns{}
	n.init(n, KindColumns, false, opts)
	return n
}

// With declares the columns.
func (n *Columns) With(children ...any) *Columns {
	n.mustSetChildren(children)
	return n
}

// Panel is a collapsible region. Buttons address it by Ref through
// TogglePanel and CollapsePanel actions.
type Panel struct {
	Component
	Ref       string
	Collapsed bool
}

// NewPanel creates a panel addressed by ref.
func NewPanel(ref string, opts ...Option) *Panel {
	n := &Panel{Ref: ref}
	n.init(n, KindPanel, false, opts)
	return n
}

// Collapse makes the panel start collapsed.
func (n *Panel) Collapse() *Panel {
	n.Collapsed = true
	return n
}

// With declares the panel's children.
func (n *Panel) With(children ...any) *Panel {
	n.mustSetChildren(children)
	return n
}

// Button is a clickable control that runs its actions in order.
type Button struct {
	Component
	Actions []Action
}

// NewButton creates a button with no actions.
func NewButton(opts ...Option) *Button {
	n := &Button{}
	n.init(n, KindButton, false, opts)
	return n
}

// OnClick appends actions to the button.
func (n *Button) OnClick(actions ...Action) *Button {
	n.Actions = append(n.Actions, actions...)
	return n
}

// With declares the button's content.
func (n *Button) With(children ...any) *Button {
	n.mustSetChildren(children)
	return n
}

// Spacer adds vertical space.
type Spacer struct {
	Component
}

// NewSpacer creates a spacer.
func NewSpacer(opts ...Option) *Spacer {
	n := &Spacer{}
	n.init(n, KindSpacer, true, opts)
	return n
}

// Divider draws a horizontal rule.
type Divider struct {
	Component
}

// NewDivider creates a divider.
func NewDivider(opts ...Option) *Divider {
	n := &Divider{}
	n.init(n, KindDivider, true, opts)
	return n
}

// Icon renders an icon font glyph.
type Icon struct {
	Component
	ClassName string
}

// NewIcon creates an icon with the given CSS class names.
func NewIcon(className string, opts ...Option) *Icon {
	n := &Icon{ClassName: className}
	n.init(n, KindIcon, true, opts)
	return n
}

// Text is a run of plain text.
type Text struct {
	Component
	Content string
	Size    TextSize
}

// NewText creates a regular-sized text leaf.
func NewText(content string, opts ...Option) *Text {
	n := &Text{Content: content, Size: TextRegular}
	n.init(n, KindText, true, opts)
	return n
}

// Sized sets the text size.
func (n *Text) Sized(size TextSize) *Text {
	n.Size = size
	return n
}

// HTML is a leaf of raw markup. Content is sanitized at construction; class
// and common style properties are kept.
type HTML struct {
	Component
	Content string
}

// NewHTML creates an HTML leaf.
func NewHTML(content string, opts ...Option) *HTML {
	n := &HTML{Content: htmlPolicy.Sanitize(content)}
	n.init(n, KindHTML, true, opts)
	return n
}
