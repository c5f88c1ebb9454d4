package listctl

// ActionType identifies the client-side effect of an Action.
type ActionType string

const (
	ActionSetValue         ActionType = "set_value"
	ActionRemoveValue      ActionType = "remove_value"
	ActionLink             ActionType = "link"
	ActionTogglePanel      ActionType = "toggle_panel"
	ActionCollapsePanel    ActionType = "collapse_panel"
	ActionClearSearchInput ActionType = "clear_search_input"
	ActionSubmitForm       ActionType = "submit_form"
)

// Action describes an effect the client performs when a Button (or a
// summary entry) is clicked.
//
// Actions are values: build them with the constructors below and attach
// them to a Button. They are serialized verbatim into the button's action
// list, in the order given:
//
//	listctl.NewButton().
//	    OnClick(listctl.TogglePanel("filters"), listctl.CollapsePanel("export")).
//	    With(listctl.NewIcon("icon icon-search"), "Filters")
type Action struct {
	Type  ActionType
	Name  string // set_value, remove_value
	Value string // set_value, remove_value
	URL   string // link
	Ref   string // toggle_panel, collapse_panel
}

// SetValue sets the query parameter name to value.
func SetValue(name, value string) Action {
	return Action{Type: ActionSetValue, Name: name, Value: value}
}

// RemoveValue removes value from the query parameter name.
func RemoveValue(name, value string) Action {
	return Action{Type: ActionRemoveValue, Name: name, Value: value}
}

// Link navigates to url.
func Link(url string) Action {
	return Action{Type: ActionLink, URL: url}
}

// TogglePanel opens or closes the panel declared with ref.
func TogglePanel(ref string) Action {
	return Action{Type: ActionTogglePanel, Ref: ref}
}

// CollapsePanel closes the panel declared with ref.
func CollapsePanel(ref string) Action {
	return Action{Type: ActionCollapsePanel, Ref: ref}
}

// ClearSearchInput empties the page's search box.
func ClearSearchInput() Action {
	return Action{Type: ActionClearSearchInput}
}

// SubmitForm submits the list form so the new values take effect.
func SubmitForm() Action {
	return Action{Type: ActionSubmitForm}
}

// Serialize returns the wire form of the action.
func (a Action) Serialize() map[string]any {
	m := map[string]any{
		"kind":       "action",
		"actionType": string(a.Type),
	}
	switch a.Type {
	case ActionSetValue, ActionRemoveValue:
		m["name"] = a.Name
		m["value"] = a.Value
	case ActionLink:
		m["url"] = a.URL
	case ActionTogglePanel:
		m["ref"] = a.Ref
		m["showPanelToggleIcon"] = true
	case ActionCollapsePanel:
		m["ref"] = a.Ref
	}
	return m
}

func serializeActions(actions []Action) []any {
	out := make([]any, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Serialize())
	}
	return out
}
