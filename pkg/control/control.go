package control

import (
	"html"
	"strings"
)

const (
	classControl = "form-control"
	classNoLabel = "form-control-nolabel"
	classLabel   = "form-label"
	classInput   = "form-input"
	classError   = "form-error"
	classCaption = "form-caption"

	errorMarker = "*"
	errorPrefix = "« "

	clearMarker = `<div style="clear: both;"></div>`
)

// Variant supplies the parts of a control that differ between input types.
type Variant interface {
	// RenderInput returns the markup placed inside the input block. The
	// returned string is inserted verbatim.
	RenderInput(state State) string
	// ControlClass returns the CSS class added to the container.
	ControlClass() string
}

// Visibility is implemented by variants that can suppress rendering. Variants
// without it always render.
type Visibility interface {
	ShouldRender(state State) bool
}

// Control couples a State with the Variant that renders its input. Setters
// return the receiver so calls can be chained.
type Control struct {
	state   State
	variant Variant
}

// New wraps variant in a Control with an empty state.
func New(variant Variant) *Control {
	return &Control{variant: variant}
}

// Variant returns the wrapped variant.
func (c *Control) Variant() Variant { return c.variant }

// State returns a copy of the current state.
func (c *Control) State() State { return c.state }

func (c *Control) SetLabel(label string) *Control {
	c.state.Label = label
	return c
}

func (c *Control) Label() string { return c.state.Label }

// SetCaption sets the caption. Captions are not escaped.
func (c *Control) SetCaption(caption string) *Control {
	c.state.Caption = caption
	return c
}

func (c *Control) Caption() string { return c.state.Caption }

func (c *Control) SetError(err Error) *Control {
	c.state.Error = err
	return c
}

func (c *Control) Error() Error { return c.state.Error }

func (c *Control) SetName(name string) *Control {
	c.state.Name = name
	return c
}

func (c *Control) Name() string { return c.state.Name }

func (c *Control) SetValue(value string) *Control {
	c.state.Value = value
	return c
}

func (c *Control) Value() string { return c.state.Value }

// SetID sets the id of the input element rendered by the variant.
func (c *Control) SetID(id string) *Control {
	c.state.ID = id
	return c
}

func (c *Control) ID() string { return c.state.ID }

func (c *Control) SetDisabled(disabled bool) *Control {
	c.state.Disabled = disabled
	return c
}

func (c *Control) Disabled() bool { return c.state.Disabled }

// SetControlID sets the id of the container div.
func (c *Control) SetControlID(id string) *Control {
	c.state.ControlID = id
	return c
}

func (c *Control) ControlID() string { return c.state.ControlID }

// SetControlStyle sets the inline style of the container div.
func (c *Control) SetControlStyle(style string) *Control {
	c.state.ControlStyle = style
	return c
}

func (c *Control) ControlStyle() string { return c.state.ControlStyle }

// ShouldRender reports whether Render produces any output.
func (c *Control) ShouldRender() bool {
	if c == nil || c.variant == nil {
		return false
	}
	if v, ok := c.variant.(Visibility); ok {
		return v.ShouldRender(c.state)
	}
	return true
}

// Render returns the control markup, or "" when the variant hides it.
//
// Output order is fixed: error, label, input, caption, clearing marker.
func (c *Control) Render() string {
	if !c.ShouldRender() {
		return ""
	}

	classes := []string{classControl}
	if custom := strings.TrimSpace(c.variant.ControlClass()); custom != "" {
		classes = append(classes, custom)
	}

	var body strings.Builder

	if text, ok := c.state.Error.text(); ok {
		body.WriteString(`<div class="` + classError + `">`)
		body.WriteString(html.EscapeString(text))
		body.WriteString(`</div>`)
	}

	if c.state.Label != "" {
		body.WriteString(`<label class="` + classLabel + `">`)
		body.WriteString(html.EscapeString(c.state.Label))
		body.WriteString(`:</label>`)
	} else {
		classes = append(classes, classNoLabel)
	}

	body.WriteString(`<div class="` + classInput + `">`)
	body.WriteString(c.variant.RenderInput(c.state))
	body.WriteString(`</div>`)

	if c.state.Caption != "" {
		body.WriteString(`<div class="` + classCaption + `">`)
		body.WriteString(c.state.Caption)
		body.WriteString(`</div>`)
	}

	body.WriteString(clearMarker)

	return RenderTag("div", []Attr{
		{Name: "class", Value: strings.Join(classes, " ")},
		{Name: "id", Value: c.state.ControlID},
		{Name: "style", Value: c.state.ControlStyle},
	}, body.String())
}

// RenderAll concatenates the output of every control, skipping hidden ones.
func RenderAll(controls ...*Control) string {
	var b strings.Builder
	for _, ctrl := range controls {
		b.WriteString(ctrl.Render())
	}
	return b.String()
}
