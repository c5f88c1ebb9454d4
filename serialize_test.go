package listctl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSerializeDeterministic(t *testing.T) {
	b := NewBinder(summaryTree(NewSummary().WithResetLabel("Reset")))
	if err := b.Bind(ParseQuery("name=shoe&layout=list")); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	first, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := b.Serialize()
	if err != nil {
		t.Fatalf("second Serialize: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Serialize not deterministic (-first +second):\n%s", diff)
	}

	a, _ := json.Marshal(first)
	c, _ := json.Marshal(second)
	if string(a) != string(c) {
		t.Error("JSON encodings differ")
	}
}

func TestSerializeBaseFields(t *testing.T) {
	n := NewBlock(
		WithStyle(map[string]string{"margin-left": "4px", "color": "red"}),
		WithClasses("extra"),
	).FloatTo(FloatRight).With("x")

	got := Serialize(n)
	want := map[string]any{
		"kind":         "block",
		"id":           n.ID(),
		"style":        map[string]any{"marginLeft": "4px", "color": "red"},
		"extraClasses": "extra",
		"float":        "right",
		"children": []any{
			map[string]any{
				"kind":         "text",
				"id":           n.Children()[0].ID(),
				"children":     nil,
				"style":        nil,
				"extraClasses": nil,
				"content":      "x",
				"size":         "regular",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeEmptyChildren(t *testing.T) {
	declared := Serialize(NewColumns().With())
	if children, ok := declared["children"].([]any); !ok || len(children) != 0 {
		t.Errorf("declared empty children = %#v, want []any{}", declared["children"])
	}
	undeclared := Serialize(NewColumns())
	if undeclared["children"] != nil {
		t.Errorf("undeclared children = %#v, want nil", undeclared["children"])
	}
}

func TestSerializeKindFields(t *testing.T) {
	date := NewDateFilter("from").WithLabel("From")
	date.HandleRequest(ParseQuery("from=2024-03-09"))

	multi := NewChoiceFilter("color", colors[:2]).AllowMultiple()
	multi.HandleRequest(ParseQuery("color=bar&color=foo"))

	panel := NewPanel("filters").Collapse()

	tests := []struct {
		name string
		node Node
		want map[string]any
	}{
		{
			name: "panel",
			node: panel,
			want: map[string]any{"ref": "filters", "collapsed": true},
		},
		{
			name: "icon",
			node: NewIcon("icon-plus"),
			want: map[string]any{"className": "icon-plus"},
		},
		{
			name: "button",
			node: NewButton().OnClick(TogglePanel("filters")),
			want: map[string]any{"action": []any{map[string]any{
				"kind": "action", "actionType": "toggle_panel", "ref": "filters", "showPanelToggleIcon": true,
			}}},
		},
		{
			name: "date filter",
			node: date,
			want: map[string]any{
				"filterType": "date", "name": "from", "label": "From",
				"value": "2024-03-09", "format": "Y-m-d",
			},
		},
		{
			name: "multiple choice filter",
			node: multi,
			want: map[string]any{
				"filterType": "choice", "name": "color", "label": nil,
				"value":    []any{"bar", "foo"},
				"multiple": true,
				"choices": []any{
					map[string]any{"value": "foo", "label": "Foo"},
					map[string]any{"value": "bar", "label": "Bar"},
				},
			},
		},
		{
			name: "selector",
			node: NewSortSelector("price").Default(),
			want: map[string]any{
				"selectorType": "sort", "name": "sort", "value": "price",
				"isSelected": false, "isDefault": true,
			},
		},
		{
			name: "summary",
			node: NewSummary(),
			want: map[string]any{"summary": []any{}, "resetLabel": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(tt.node)
			for k, v := range tt.want {
				if diff := cmp.Diff(v, got[k]); diff != "" {
					t.Errorf("field %q mismatch (-want +got):\n%s", k, diff)
				}
			}
		})
	}
}

func TestSerializeUnboundDateFilter(t *testing.T) {
	got := Serialize(NewDateFilter("from").WithDefault(time.Time{}))
	if got["value"] != nil {
		t.Errorf("value = %#v, want nil", got["value"])
	}
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"color":               "color",
		"margin-left":         "marginLeft",
		"border-top-width":    "borderTopWidth",
		"-webkit-user-select": "webkitUserSelect",
	}
	for in, want := range tests {
		if got := camelCase(in); got != want {
			t.Errorf("camelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
