package main

import (
	_ "embed"
	"time"

	"github.com/pthm/listctl"
	"github.com/pthm/listctl/lib/declare"
)

// Results templates, chosen by the layout selector.
const (
	templateGrid  = "grid"
	templateTable = "table"
)

var categories = []listctl.Choice{
	{Value: "shoes", Label: "Shoes"},
	{Value: "outerwear", Label: "Outerwear"},
	{Value: "accessories", Label: "Accessories"},
}

var sortOrders = map[string]string{
	"newest":     "added_at DESC",
	"price-asc":  "price ASC, id",
	"price-desc": "price DESC, id",
	"name":       "name COLLATE NOCASE, id",
}

func nameContains(q *ProductQuery, name string) *ProductQuery {
	return q.Where("name LIKE ?", "%"+name+"%")
}

func inCategories(q *ProductQuery, cats []string) *ProductQuery {
	args := make([]any, len(cats))
	marks := make([]byte, 0, 2*len(cats))
	for i, c := range cats {
		args[i] = c
		if i > 0 {
			marks = append(marks, ',')
		}
		marks = append(marks, '?')
	}
	return q.Where("category IN ("+string(marks)+")", args...)
}

func inStock(q *ProductQuery, _ bool) *ProductQuery {
	return q.Where("in_stock = 1")
}

func addedSince(q *ProductQuery, t time.Time) *ProductQuery {
	return q.Where("added_at >= ?", t.Unix())
}

func sortBy(q *ProductQuery, value string) *ProductQuery {
	if order, ok := sortOrders[value]; ok {
		return q.OrderBy(order)
	}
	return q
}

// productControls declares the product list toolbar.
func productControls() listctl.Node {
	sortOption := func(value, label string) *listctl.SortSelector {
		return listctl.NewSortSelector(value).
			WithSummaryLabel("Sort").
			OnApply(listctl.Apply(sortBy)).
			With(label)
	}

	return listctl.NewListControls().With(
		listctl.NewBlock().With(
			listctl.NewButton().OnClick(listctl.TogglePanel("filters")).With(
				listctl.NewIcon("icon-filter"),
				"Filters",
			),
			listctl.NewSpacer(),
			sortOption("newest", "Newest").Default(),
			sortOption("price-asc", "Price: low to high"),
			sortOption("price-desc", "Price: high to low"),
			sortOption("name", "Name"),
		),
		listctl.NewBlock().FloatTo(listctl.FloatRight).With(
			listctl.NewLayoutSelector(templateGrid).Default().WithTemplate(templateGrid).
				WithSummaryLabel("Layout").
				With(listctl.NewIcon("icon-grid"), "Grid"),
			listctl.NewLayoutSelector(templateTable).WithTemplate(templateTable).
				WithSummaryLabel("Layout").
				With(listctl.NewIcon("icon-table"), "Table"),
		),
		listctl.NewPanel("filters").Collapse().With(
			listctl.NewColumns().With(
				listctl.NewTextFilter("name").WithLabel("Name").
					OnApply(listctl.Apply(nameContains)),
				listctl.NewChoiceFilter("category", categories).AllowMultiple().
					WithLabel("Category").
					OnApply(listctl.Apply(inCategories)),
				listctl.NewBooleanFilter("in_stock").WithLabel("In stock only").
					OnApply(listctl.Apply(inStock)),
				listctl.NewDateFilter("added").WithLabel("Added since").
					OnApply(listctl.Apply(addedSince)),
			),
		),
		listctl.NewDivider(),
		listctl.NewSummary().WithResetLabel("Clear all").WithSearch("", ""),
	)
}

//go:embed catalog.yaml
var catalogYAML []byte

// catalogControls declares a smaller toolbar from YAML, sharing the
// narrowing functions of the product list.
func catalogControls() (*declare.Tree, error) {
	tree, err := declare.Parse(catalogYAML)
	if err != nil {
		return nil, err
	}
	return tree.
		OnApply("category", listctl.Apply(func(q *ProductQuery, c string) *ProductQuery {
			return q.Where("category = ?", c)
		})).
		OnApply("in_stock", listctl.Apply(inStock)).
		OnApply("sort", listctl.Apply(sortBy)), nil
}
