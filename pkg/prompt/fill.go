package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
)

// Fill asks for a value for every visible, editable control and stores the
// answers back on the controls. Static, markup and submit controls are
// skipped. Required fields are those whose error is the marker; an empty
// answer for them is re-prompted by the driver's validator.
func Fill(ctx context.Context, driver Driver, controls ...*control.Control) error {
	if driver == nil {
		return errors.New("prompt: driver is required")
	}
	for _, ctrl := range controls {
		if !ctrl.ShouldRender() || ctrl.Disabled() {
			continue
		}
		if err := fillOne(ctx, driver, ctrl); err != nil {
			return fmt.Errorf("prompt: %s: %w", ctrl.Name(), err)
		}
	}
	return nil
}

func fillOne(ctx context.Context, driver Driver, ctrl *control.Control) error {
	message := ctrl.Label()
	if message == "" {
		message = ctrl.Name()
	}
	help := ctrl.Caption()

	var validator func(string) error
	if ctrl.Error().IsMarker() {
		validator = func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("value is required")
			}
			return nil
		}
	}

	switch variant := unwrap(ctrl.Variant()).(type) {
	case control.Static, control.Markup, control.Submit, control.Hidden:
		return nil
	case control.Checkbox:
		if len(variant.Boxes) > 0 {
			return nil
		}
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Help: help, Default: variant.Checked})
		if err != nil {
			return err
		}
		variant.Checked = checked
		ctrl.SetVariant(rewrap(ctrl.Variant(), variant))
	case control.Select:
		labels := make([]string, len(variant.Options))
		current := -1
		for i, option := range variant.Options {
			labels[i] = option.Text()
			if option.Value == ctrl.Value() {
				current = i
			}
		}
		if len(labels) == 0 {
			return nil
		}
		idx, err := driver.Select(ctx, SelectConfig{Message: message, Help: help, Options: labels, DefaultIndex: current})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(variant.Options) {
			ctrl.SetValue(variant.Options[idx].Value)
		}
	case control.TextArea:
		value, err := driver.TextArea(ctx, TextAreaConfig{Message: message, Help: help, Default: ctrl.Value()})
		if err != nil {
			return err
		}
		ctrl.SetValue(value)
	case control.Text:
		cfg := InputConfig{Message: message, Help: help, Default: ctrl.Value(), Validator: validator}
		ask := driver.Input
		if variant.Type == "password" {
			cfg.Default = ""
			ask = driver.Password
		}
		value, err := ask(ctx, cfg)
		if err != nil {
			return err
		}
		ctrl.SetValue(value)
	default:
		value, err := driver.Input(ctx, InputConfig{Message: message, Help: help, Default: ctrl.Value(), Validator: validator})
		if err != nil {
			return err
		}
		ctrl.SetValue(value)
	}

	if validator != nil && validator(ctrl.Value()) == nil {
		ctrl.SetError(control.Error{})
	}
	return nil
}

func unwrap(v control.Variant) control.Variant {
	if cond, ok := v.(control.Conditional); ok {
		return unwrap(cond.Variant)
	}
	return v
}

func rewrap(outer, inner control.Variant) control.Variant {
	if cond, ok := outer.(control.Conditional); ok {
		cond.Variant = rewrap(cond.Variant, inner)
		return cond
	}
	return inner
}
