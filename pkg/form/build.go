package form

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// BuildOptions controls how schema fields turn into controls.
type BuildOptions struct {
	// Values pre-populates controls by field name.
	Values map[string]string
	// Errors holds server-side validation messages by field name. The first
	// message is shown.
	Errors map[string][]string
	// Submitted marks required fields without a value with the error marker.
	Submitted bool
	Widgets   *widgets.Registry
	// Evaluator runs VisibleWhen rules; defaults to the expr evaluator. Values
	// are exposed to rules as strings.
	Evaluator visibility.Evaluator
	Extras    map[string]any
	// IDPrefix namespaces generated input ids.
	IDPrefix string
	// OnVisibilityError receives rule evaluation failures.
	OnVisibilityError func(name, rule string, err error)
}

// BuildControls converts fields into controls in field order.
func BuildControls(fields []schema.Field, opts BuildOptions) []*control.Control {
	registry := opts.Widgets
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	evaluator := opts.Evaluator
	if evaluator == nil {
		evaluator = expr.New()
	}

	visCtx := visibility.FormContext(opts.Values, opts.Extras)

	controls := make([]*control.Control, 0, len(fields))
	for _, field := range fields {
		value, hasValue := opts.Values[field.Name]
		if !hasValue {
			value = field.Default
		}

		ctrl := control.New(variantFor(registry.ResolveOrDefault(field), field, value)).
			SetName(field.Name).
			SetLabel(field.Label).
			SetID(opts.IDPrefix + field.Name).
			SetDisabled(field.ReadOnly)
		if field.Type != schema.TypeBoolean {
			ctrl.SetValue(value)
		}
		if field.Description != "" {
			ctrl.SetCaption(control.SanitizeCaption(field.Description))
		}
		ctrl.SetError(fieldError(field, value, hasValue, opts))

		if field.VisibleWhen != "" {
			ctrl.SetVariant(control.Conditional{
				Variant:   ctrl.Variant(),
				Rule:      field.VisibleWhen,
				Evaluator: evaluator,
				Context:   visCtx,
				OnError:   opts.OnVisibilityError,
			})
		}
		controls = append(controls, ctrl)
	}
	return controls
}

func variantFor(kind string, field schema.Field, value string) control.Variant {
	switch kind {
	case widgets.KindCheckbox:
		return control.Checkbox{Checked: isTruthy(value)}
	case widgets.KindSelect:
		options := make([]control.Option, 0, len(field.Enum)+1)
		if !field.Required {
			options = append(options, control.Option{Value: "", Label: "-"})
		}
		for _, value := range field.Enum {
			options = append(options, control.Option{Value: value})
		}
		return control.Select{Options: options}
	case widgets.KindTextArea:
		return control.TextArea{Height: control.HeightShort}
	case widgets.KindPassword:
		return control.Text{Type: "password"}
	case widgets.KindStatic:
		return control.Static{}
	default:
		return control.Text{}
	}
}

func fieldError(field schema.Field, value string, hasValue bool, opts BuildOptions) control.Error {
	for _, message := range opts.Errors[field.Name] {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			return control.ErrorMessage(trimmed)
		}
	}
	if opts.Submitted && field.Required && (!hasValue || strings.TrimSpace(value) == "") {
		return control.ErrorMarker()
	}
	return control.Error{}
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
