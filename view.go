package listctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/listctl/lib/assets"
)

// WidgetBundle is the manifest entry holding the client widget.
const WidgetBundle = "admin_list_controls"

// MountID is the id of the element the client widget renders into.
const MountID = "admin-list-controls"

// ViewContext is what a list page template needs to show the controls.
type ViewContext struct {
	// InitialState is the JSON of {"admin_list_controls": tree}.
	InitialState []byte
	// SelectedLayoutTemplate names the results template of the selected
	// layout, or is empty.
	SelectedLayoutTemplate string
	WidgetJS               []string
	WidgetCSS              []string
}

// NewViewContext serializes a bound tree for a page. The manifest may be
// nil when the page includes the widget assets itself.
func NewViewContext(b *Binder, manifest *assets.Manifest) (ViewContext, error) {
	state, err := InitialState(b)
	if err != nil {
		return ViewContext{}, err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return ViewContext{}, fmt.Errorf("listctl: marshal state: %w", err)
	}

	vc := ViewContext{InitialState: data}
	if l := b.SelectedLayout(); l != nil {
		vc.SelectedLayoutTemplate = l.Template
	}
	if manifest != nil {
		vc.WidgetJS = manifest.JS(WidgetBundle)
		vc.WidgetCSS = manifest.CSS(WidgetBundle)
	}
	return vc, nil
}

// Mount renders the widget's stylesheets, its mount point, the initial
// state script and the widget scripts, in that order.
//
//	listctl.Render(w, r, listctl.Mount(vc))
func Mount(vc ViewContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, href := range vc.WidgetCSS {
			if _, err := fmt.Fprintf(w, `<link rel="stylesheet" href="%s">`, templ.EscapeString(href)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<div id="%s"></div>`, MountID); err != nil {
			return err
		}
		// json.Marshal escapes <, > and &, so the state cannot close the tag.
		if _, err := fmt.Fprintf(w, "<script>window.%s_initial_state = %s;</script>", StateKey, vc.InitialState); err != nil {
			return err
		}
		for _, src := range vc.WidgetJS {
			if _, err := fmt.Fprintf(w, `<script src="%s"></script>`, templ.EscapeString(src)); err != nil {
				return err
			}
		}
		return nil
	})
}
