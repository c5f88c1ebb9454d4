package listctl

import "strings"

// Serialize turns n and everything below it into the nested structure
// consumed by the client renderer.
//
// Every node carries "kind", "id", "children" (a list, or nil when none
// were declared), "style" (nil when empty), "extraClasses" (nil when empty)
// and the fields of its kind. Serialize does not mutate the tree; calling it
// twice on the same tree yields equal output.
func Serialize(n Node) map[string]any {
	c := n.component()
	m := map[string]any{
		"kind":         string(c.kind),
		"id":           c.id,
		"children":     nil,
		"style":        nil,
		"extraClasses": nil,
	}
	if children := n.Children(); children != nil || c.childrenSet {
		out := make([]any, 0, len(children))
		for _, child := range children {
			out = append(out, Serialize(child))
		}
		m["children"] = out
	}
	if len(c.Style) > 0 {
		style := make(map[string]any, len(c.Style))
		for k, v := range c.Style {
			style[camelCase(k)] = v
		}
		m["style"] = style
	}
	if c.ExtraClasses != "" {
		m["extraClasses"] = c.ExtraClasses
	}

	switch v := n.(type) {
	case *Block:
		m["float"] = nullable(string(v.Float))
	case *Panel:
		m["ref"] = nullable(v.Ref)
		m["collapsed"] = v.Collapsed
	case *Button:
		m["action"] = serializeActions(v.Actions)
	case *Icon:
		m["className"] = v.ClassName
	case *Text:
		m["content"] = v.Content
		m["size"] = string(v.Size)
	case *HTML:
		m["content"] = v.Content
	case *TextFilter:
		serializeFilter(m, &v.filter, v.RawValue())
	case *BooleanFilter:
		serializeFilter(m, &v.filter, v.Value())
	case *DateFilter:
		var value any
		if t, ok := v.Value(); ok {
			value = v.formatValue(t)
		}
		serializeFilter(m, &v.filter, value)
		m["format"] = v.ClientFormat()
	case *ChoiceFilter:
		value := v.RawValue()
		if v.multiple {
			value = toAnySlice(v.Values())
		}
		serializeFilter(m, &v.filter, value)
		m["choices"] = serializeChoices(v.choices)
		m["multiple"] = v.multiple
	case *RadioFilter:
		serializeFilter(m, &v.filter, v.RawValue())
		m["choices"] = serializeChoices(v.choices)
	case *LayoutSelector:
		serializeSelector(m, &v.selector)
	case *SortSelector:
		serializeSelector(m, &v.selector)
	case *Summary:
		entries := make([]any, 0, len(v.entries))
		for _, e := range v.entries {
			entries = append(entries, e.Serialize())
		}
		m["summary"] = entries
		m["resetLabel"] = nullable(v.ResetLabel)
	}
	return m
}

func serializeFilter[F any](m map[string]any, f *filter[F], value any) {
	m["filterType"] = f.filterType
	m["name"] = f.name
	m["label"] = nullable(f.label)
	m["value"] = value
}

func serializeSelector[S any](m map[string]any, s *selector[S]) {
	m["selectorType"] = s.selectorType
	m["name"] = s.name
	m["value"] = s.value
	m["isSelected"] = s.selected
	m["isDefault"] = s.isDefault
}

func serializeChoices(cs choices) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, map[string]any{"value": c.Value, "label": c.Label})
	}
	return out
}

func toAnySlice(vs []string) []any {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		out = append(out, v)
	}
	return out
}

// nullable maps the empty string to nil so the wire shows null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// camelCase converts a hyphenated CSS property ("margin-left") to the
// camelCase form used by DOM style objects ("marginLeft").
func camelCase(prop string) string {
	if !strings.Contains(prop, "-") {
		return prop
	}
	parts := strings.Split(prop, "-")
	var sb strings.Builder
	sb.Grow(len(prop))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || sb.Len() == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}
