package control

import "strings"

// Option is a single <option> in a Select.
type Option struct {
	Value string
	Label string
}

// Text returns the label, falling back to the value.
func (o Option) Text() string {
	if o.Label == "" {
		return o.Value
	}
	return o.Label
}

// Select renders a <select>. The option whose Value equals the control value
// is marked selected.
type Select struct {
	Options []Option
}

var _ Variant = Select{}

// NewSelect returns a Control rendering a select with options.
func NewSelect(options ...Option) *Control {
	return New(Select{Options: options})
}

func (s Select) RenderInput(state State) string {
	var b strings.Builder
	for _, opt := range s.Options {
		b.WriteString(RenderTag("option", []Attr{
			{Name: "value", Value: opt.Value},
			BoolAttr("selected", opt.Value == state.Value),
		}, Escape(opt.Text())))
	}
	return RenderTag("select", []Attr{
		{Name: "name", Value: state.Name},
		{Name: "id", Value: state.ID},
		BoolAttr("disabled", state.Disabled),
	}, b.String())
}

func (Select) ControlClass() string { return "form-control-select" }
