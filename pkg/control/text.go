package control

// Text renders a single line <input>.
type Text struct {
	// Type overrides the input type; defaults to "text".
	Type        string
	Placeholder string
	// Sigil is an optional hint rendered after the input, e.g. a unit.
	Sigil string
}

var _ Variant = Text{}

// NewText returns a Control rendering a text input.
func NewText() *Control {
	return New(Text{})
}

// NewPassword returns a Control rendering a password input. The value is never
// echoed back into the markup.
func NewPassword() *Control {
	return New(Text{Type: "password"})
}

func (t Text) RenderInput(state State) string {
	inputType := t.Type
	if inputType == "" {
		inputType = "text"
	}
	value := state.Value
	if inputType == "password" {
		value = ""
	}
	out := RenderVoidTag("input", []Attr{
		{Name: "type", Value: inputType},
		{Name: "name", Value: state.Name},
		{Name: "value", Value: value},
		{Name: "id", Value: state.ID},
		{Name: "placeholder", Value: t.Placeholder},
		BoolAttr("disabled", state.Disabled),
	})
	if t.Sigil != "" {
		out += RenderTag("span", []Attr{{Name: "class", Value: "form-sigil"}}, Escape(t.Sigil))
	}
	return out
}

func (t Text) ControlClass() string {
	if t.Type == "password" {
		return "form-control-password"
	}
	return "form-control-text"
}
