package control

import "strconv"

// Height presets for TextArea.
const (
	HeightShort = "short"
	HeightTall  = "tall"
)

// TextArea renders a multi-line <textarea>.
type TextArea struct {
	Height string
	Rows   int
}

var _ Variant = TextArea{}

// NewTextArea returns a Control rendering a textarea.
func NewTextArea() *Control {
	return New(TextArea{})
}

func (t TextArea) RenderInput(state State) string {
	rows := ""
	if t.Rows > 0 {
		rows = strconv.Itoa(t.Rows)
	}
	class := ""
	if t.Height != "" {
		class = "form-textarea-" + t.Height
	}
	return RenderTag("textarea", []Attr{
		{Name: "name", Value: state.Name},
		{Name: "id", Value: state.ID},
		{Name: "class", Value: class},
		{Name: "rows", Value: rows},
		BoolAttr("disabled", state.Disabled),
	}, Escape(state.Value))
}

func (TextArea) ControlClass() string { return "form-control-textarea" }
