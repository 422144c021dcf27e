package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/prompt"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

type controlFlags struct {
	kind         string
	label        string
	caption      string
	name         string
	value        string
	id           string
	errMessage   string
	errMarker    bool
	disabled     bool
	controlID    string
	controlStyle string
	options      []string
	interactive  bool
}

func newControlCmd(a *app) *cobra.Command {
	var f controlFlags

	cmd := &cobra.Command{
		Use:   "control",
		Short: "Render a single form control",
		Example: `  formkit control --kind text --label Name --name name --error "Name is required"
  formkit control --kind select --label Action --option accept=Accept --option concern`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := f.build()
			if err != nil {
				return err
			}
			if f.interactive {
				if err := prompt.Fill(cmd.Context(), prompt.NewSurveyDriver(), ctrl); err != nil {
					return err
				}
			}
			a.logger.Debug("rendering control", "kind", f.kind, "name", f.name)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ctrl.Render())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.kind, "kind", widgets.KindText, "text, password, textarea, checkbox, select, static or submit")
	flags.StringVar(&f.label, "label", "", "label text (escaped)")
	flags.StringVar(&f.caption, "caption", "", "caption markup (inserted verbatim)")
	flags.StringVar(&f.name, "name", "", "input name")
	flags.StringVar(&f.value, "value", "", "input value")
	flags.StringVar(&f.id, "id", "", "input id")
	flags.StringVar(&f.errMessage, "error", "", "error message")
	flags.BoolVar(&f.errMarker, "error-marker", false, "show the error marker without a message")
	flags.BoolVar(&f.disabled, "disabled", false, "disable the input")
	flags.StringVar(&f.controlID, "control-id", "", "id of the container")
	flags.StringVar(&f.controlStyle, "control-style", "", "inline style of the container")
	flags.StringArrayVar(&f.options, "option", nil, "select option as value[=label], repeatable")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for the value before rendering")
	return cmd
}

func (f controlFlags) build() (*control.Control, error) {
	var ctrl *control.Control
	switch strings.ToLower(f.kind) {
	case widgets.KindText, "":
		ctrl = control.NewText()
	case widgets.KindPassword:
		ctrl = control.NewPassword()
	case widgets.KindTextArea:
		ctrl = control.NewTextArea()
	case widgets.KindCheckbox:
		ctrl = control.NewCheckbox(f.value != "")
	case widgets.KindSelect:
		options := make([]control.Option, 0, len(f.options))
		for _, raw := range f.options {
			value, label, _ := strings.Cut(raw, "=")
			options = append(options, control.Option{Value: value, Label: label})
		}
		ctrl = control.NewSelect(options...)
	case widgets.KindStatic:
		ctrl = control.NewStatic(f.value)
	case "submit":
		ctrl = control.NewSubmit(f.value)
	default:
		return nil, fmt.Errorf("unknown control kind %q", f.kind)
	}

	ctrl.SetLabel(f.label).
		SetCaption(f.caption).
		SetName(f.name).
		SetID(f.id).
		SetDisabled(f.disabled).
		SetControlID(f.controlID).
		SetControlStyle(f.controlStyle)
	if f.value != "" {
		ctrl.SetValue(f.value)
	}

	switch {
	case f.errMessage != "":
		ctrl.SetError(control.ErrorMessage(f.errMessage))
	case f.errMarker:
		ctrl.SetError(control.ErrorMarker())
	}
	return ctrl, nil
}
