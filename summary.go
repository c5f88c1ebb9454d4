package listctl

import "iter"

// Defaults for the search entry of a Summary.
const (
	DefaultSearchParam = "q"
	DefaultSearchLabel = "Search"
)

// SummaryEntry describes one active control: what it is, what it is set
// to, and the actions that clear it.
type SummaryEntry struct {
	Name         string
	Label        string
	DisplayValue string
	Value        string
	Actions      []Action
}

// Serialize returns the wire form of the entry.
func (e SummaryEntry) Serialize() map[string]any {
	return map[string]any{
		"name":         e.Name,
		"label":        e.Label,
		"displayValue": e.DisplayValue,
		"value":        e.Value,
		"actions":      serializeActions(e.Actions),
	}
}

// Summary lists every active filter and selector of the tree, in tree
// order, so users can see and clear them at a glance.
//
// The list is derived after all other nodes have bound and rewritten
// themselves. When the request carries a search query, an entry for it
// comes first.
type Summary struct {
	Component

	// ResetLabel, when set, labels a clear-all button shown by the client
	// once more than one entry is active.
	ResetLabel string
	// SearchParam names the search query parameter.
	SearchParam string
	// SearchLabel labels the search entry.
	SearchLabel string

	search  string
	entries []SummaryEntry
	derived bool
}

// NewSummary creates a summary.
func NewSummary(opts ...Option) *Summary {
	n := &Summary{
		SearchParam: DefaultSearchParam,
		SearchLabel: DefaultSearchLabel,
	}
	n.init(n, KindSummary, true, opts)
	return n
}

// WithResetLabel sets the label of the clear-all button.
func (n *Summary) WithResetLabel(label string) *Summary {
	n.ResetLabel = label
	return n
}

// WithSearch changes the search parameter and its label. An empty param
// disables the search entry.
func (n *Summary) WithSearch(param, label string) *Summary {
	n.SearchParam = param
	n.SearchLabel = label
	return n
}

// HandleRequest records the search query.
func (n *Summary) HandleRequest(params Params) {
	if n.SearchParam == "" {
		return
	}
	n.search, _ = params.Value(n.SearchParam)
}

// DeriveFromTree collects the entries of every SummaryProvider in nodes,
// in order. Only the first call has an effect.
func (n *Summary) DeriveFromTree(nodes iter.Seq[Node]) {
	if n.derived {
		return
	}
	n.derived = true
	if n.search != "" {
		n.entries = append(n.entries, SummaryEntry{
			Name:         n.SearchParam,
			Label:        n.SearchLabel,
			DisplayValue: n.search,
			Value:        n.search,
			Actions:      []Action{ClearSearchInput(), SubmitForm()},
		})
	}
	for node := range nodes {
		if p, ok := node.(SummaryProvider); ok {
			n.entries = append(n.entries, p.SummaryEntries()...)
		}
	}
}

// Entries returns the derived entries.
func (n *Summary) Entries() []SummaryEntry {
	return n.entries
}
