package control

// Submit renders the form's submit button and an optional cancel link. The
// button text comes from the control value.
type Submit struct {
	CancelURI  string
	CancelText string
}

var _ Variant = Submit{}

// NewSubmit returns a Control rendering a submit button labelled text.
func NewSubmit(text string) *Control {
	return New(Submit{}).SetValue(text)
}

func (s Submit) RenderInput(state State) string {
	out := ""
	if state.Value != "" {
		out = RenderTag("button", []Attr{
			{Name: "type", Value: "submit"},
			{Name: "name", Value: state.Name},
			{Name: "id", Value: state.ID},
			BoolAttr("disabled", state.Disabled),
		}, Escape(state.Value))
	}
	if s.CancelURI != "" {
		text := s.CancelText
		if text == "" {
			text = "Cancel"
		}
		out += RenderTag("a", []Attr{
			{Name: "href", Value: s.CancelURI},
			{Name: "class", Value: "button grey"},
		}, Escape(text))
	}
	return out
}

func (Submit) ControlClass() string { return "form-control-submit" }
