package main

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/listctl"
)

// listPage renders a product list with its controls above the results.
func listPage(title string, vc listctl.ViewContext, products []Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title></head><body><h1>%s</h1><form method="get">`,
			templ.EscapeString(title), templ.EscapeString(title)); err != nil {
			return err
		}
		if err := listctl.Mount(vc).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</form>`); err != nil {
			return err
		}
		if err := results(vc.SelectedLayoutTemplate, products).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func results(template string, products []Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(products) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No products match.</p>`)
			return err
		}
		if template == templateTable {
			return productTable(w, products)
		}
		return productGrid(w, products)
	})
}

func productGrid(w io.Writer, products []Product) error {
	if _, err := io.WriteString(w, `<ul class="grid">`); err != nil {
		return err
	}
	for _, p := range products {
		if _, err := fmt.Fprintf(w, `<li class="card"><h2>%s</h2><p>%s</p></li>`,
			templ.EscapeString(p.Name), p.PriceString()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul>`)
	return err
}

func productTable(w io.Writer, products []Product) error {
	if _, err := io.WriteString(w, `<table><thead><tr><th>Name</th><th>Category</th><th>Price</th><th>Stock</th></tr></thead><tbody>`); err != nil {
		return err
	}
	for _, p := range products {
		stock := "out"
		if p.InStock {
			stock = "in"
		}
		if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			templ.EscapeString(p.Name), templ.EscapeString(p.Category), p.PriceString(), stock); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</tbody></table>`)
	return err
}
