package control

import "strings"

// Checkbox renders one or more checkboxes sharing a name. When Boxes is empty
// a single box is rendered from the control state, checked when Checked is
// set.
type Checkbox struct {
	Checked bool
	// Text is shown next to the single box.
	Text  string
	Boxes []CheckboxItem
}

// CheckboxItem is one entry in a multi-box checkbox control.
type CheckboxItem struct {
	Value   string
	Label   string
	Checked bool
	ID      string
}

var _ Variant = Checkbox{}

// NewCheckbox returns a Control rendering a single checkbox.
func NewCheckbox(checked bool) *Control {
	return New(Checkbox{Checked: checked})
}

func (c Checkbox) RenderInput(state State) string {
	boxes := c.Boxes
	if len(boxes) == 0 {
		value := state.Value
		if value == "" {
			value = "1"
		}
		boxes = []CheckboxItem{{Value: value, Label: c.Text, Checked: c.Checked, ID: state.ID}}
	}

	var b strings.Builder
	for _, box := range boxes {
		input := RenderVoidTag("input", []Attr{
			{Name: "type", Value: "checkbox"},
			{Name: "name", Value: state.Name},
			{Name: "value", Value: box.Value},
			{Name: "id", Value: box.ID},
			BoolAttr("checked", box.Checked),
			BoolAttr("disabled", state.Disabled),
		})
		label := ""
		if box.Label != "" {
			label = RenderTag("label", []Attr{{Name: "for", Value: box.ID}}, Escape(box.Label))
		}
		b.WriteString(RenderTag("div", []Attr{{Name: "class", Value: "form-checkbox"}}, input+label))
	}
	return b.String()
}

func (Checkbox) ControlClass() string { return "form-control-checkbox" }
