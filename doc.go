// Package listctl builds the toolbar of an admin list view (filters,
// layout and sort selectors, panels and a summary of what is active) as a
// declarative tree, binds it to a request's query parameters and serializes
// it for a client-side renderer.
//
// # Declaring a tree
//
// A tree is declared in code, once per request, with fluent constructors:
//
//	func controls() listctl.Node {
//	    return listctl.NewListControls().With(
//	        listctl.NewColumns().With(
//	            listctl.NewTextFilter("name").WithLabel("Name"),
//	            listctl.NewBooleanFilter("in_stock").WithLabel("In stock"),
//	        ),
//	        listctl.NewBlock().FloatTo(listctl.FloatRight).With(
//	            listctl.NewLayoutSelector("grid").Default().With("Grid"),
//	            listctl.NewLayoutSelector("list").With("List"),
//	        ),
//	        listctl.NewSummary().WithResetLabel("Clear all"),
//	    )
//	}
//
// Children are write-once and leaf kinds (filters, text, icons, dividers,
// spacers, html, summaries) take none. Breaking either rule, or omitting a
// control's name, is a *ConfigurationError: a programming error that the
// fluent API panics with and the Binder returns from Bind.
//
// # Binding
//
// A Binder drives the lifecycle for one request:
//
//	b := listctl.NewBinder(listctl.BuildFunc(controls))
//	if err := b.Bind(listctl.QueryParams(r)); err != nil {
//	    return err
//	}
//
// Bind builds the tree, lets every control read its parameter (malformed
// values fall back to defaults, never to errors), resolves the selection of
// each selector group, lets selectors wrap their content in a button that
// toggles them, and finally derives the summary from the rewritten tree.
// Bind is idempotent: only the first call does any work.
//
// # Using the result
//
// ApplyControls narrows a collection with every control's apply function,
// SelectedLayout tells the page which results template to render and
// Summary lists the active controls. Serialize (or NewViewContext and Mount
// for a page) produces the client state:
//
//	vc, err := listctl.NewViewContext(b, manifest)
//	listctl.Render(w, r, page(vc))
//
// State tokens (NewEncoder, StateToken, RestoreQuery) carry the active
// controls across requests, signed or encrypted.
package listctl
