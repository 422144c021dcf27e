// Package visibility holds the contract behind control.When and schema
// "visibleWhen" rules: a control carries a rule string, and an Evaluator
// decides from the form's bound values whether the control is rendered.
//
// The rule language belongs to the Evaluator. The expr subpackage provides
// the default one.
package visibility

// Evaluator reports whether the control named controlName is rendered.
// controlName is the control's name attribute and is only used to label
// errors; rule is the raw rule string with surrounding whitespace intact.
// A failing rule hides the control.
type Evaluator interface {
	Eval(controlName, rule string, ctx Context) (bool, error)
}

// Context is what a rule can see.
//
// Values is keyed by control name, as submitted or prefilled ("title",
// "auditors", "owner.email"). Evaluators may treat dotted names as nested
// lookups. Extras holds data that is not part of the form, usually viewer
// capabilities such as "canEdit".
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// FormContext builds a Context from string form values, the shape
// url.Values and BuildOptions.Values reduce to. The maps are copied.
func FormContext(values map[string]string, extras map[string]any) Context {
	ctx := Context{
		Values: make(map[string]any, len(values)),
		Extras: make(map[string]any, len(extras)),
	}
	for name, value := range values {
		ctx.Values[name] = value
	}
	for key, value := range extras {
		ctx.Extras[key] = value
	}
	return ctx
}

type EvaluatorFunc func(controlName, rule string, ctx Context) (bool, error)

func (fn EvaluatorFunc) Eval(controlName, rule string, ctx Context) (bool, error) {
	return fn(controlName, rule, ctx)
}

// Always renders every control regardless of its rule.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) {
	return true, nil
})
