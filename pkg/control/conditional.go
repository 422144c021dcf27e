package control

import (
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Conditional wraps a Variant and hides it unless Rule evaluates to true
// against Context. Evaluation errors hide the control.
type Conditional struct {
	Variant   Variant
	Rule      string
	Evaluator visibility.Evaluator
	Context   visibility.Context
	// OnError, when set, receives rule evaluation failures.
	OnError func(name, rule string, err error)
}

var (
	_ Variant    = Conditional{}
	_ Visibility = Conditional{}
)

// When wraps the control's variant so it only renders when rule holds.
func (c *Control) When(rule string, evaluator visibility.Evaluator, ctx visibility.Context) *Control {
	c.variant = Conditional{
		Variant:   c.variant,
		Rule:      rule,
		Evaluator: evaluator,
		Context:   ctx,
	}
	return c
}

// SetVariant replaces the variant, e.g. with a Conditional wrapping the
// current one.
func (c *Control) SetVariant(v Variant) *Control {
	c.variant = v
	return c
}

func (c Conditional) RenderInput(state State) string {
	return c.Variant.RenderInput(state)
}

func (c Conditional) ControlClass() string {
	return c.Variant.ControlClass()
}

func (c Conditional) ShouldRender(state State) bool {
	if c.Variant == nil {
		return false
	}
	if inner, ok := c.Variant.(Visibility); ok && !inner.ShouldRender(state) {
		return false
	}
	evaluator := c.Evaluator
	if evaluator == nil {
		evaluator = visibility.Always
	}
	visible, err := evaluator.Eval(state.Name, c.Rule, c.Context)
	if err != nil {
		if c.OnError != nil {
			c.OnError(state.Name, c.Rule, err)
		}
		return false
	}
	return visible
}

// Hidden is a variant that never renders. Useful as a placeholder for controls
// that are feature gated off.
type Hidden struct{}

func (Hidden) RenderInput(State) string { return "" }

func (Hidden) ControlClass() string { return "" }

func (Hidden) ShouldRender(State) bool { return false }
