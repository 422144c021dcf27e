package control

// Static shows the control value as read-only text.
type Static struct{}

var _ Variant = Static{}

// NewStatic returns a Control displaying value.
func NewStatic(value string) *Control {
	return New(Static{}).SetValue(value)
}

func (Static) RenderInput(state State) string {
	return Escape(state.Value)
}

func (Static) ControlClass() string { return "form-control-static" }

// Markup inserts caller-trusted HTML as the input block.
type Markup struct {
	HTML string
}

var _ Variant = Markup{}

// NewMarkup returns a Control wrapping raw markup.
func NewMarkup(markup string) *Control {
	return New(Markup{HTML: markup})
}

func (m Markup) RenderInput(State) string { return m.HTML }

func (Markup) ControlClass() string { return "form-control-markup" }
