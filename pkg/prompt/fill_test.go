package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
	areas     []string
	confirms  []bool
	selects   []int
	asked     []string
	err       error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, "input:"+cfg.Message)
	if d.err != nil {
		return "", d.err
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (d *scriptedDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, "password:"+cfg.Message)
	out := d.passwords[0]
	d.passwords = d.passwords[1:]
	return out, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, "confirm:"+cfg.Message)
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, "select:"+cfg.Message)
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	d.asked = append(d.asked, "textarea:"+cfg.Message)
	out := d.areas[0]
	d.areas = d.areas[1:]
	return out, nil
}

func TestFill(t *testing.T) {
	title := control.NewText().SetLabel("Title").SetName("title").SetError(control.ErrorMarker())
	secret := control.NewPassword().SetName("secret").SetValue("old")
	body := control.NewTextArea().SetLabel("Body").SetName("body")
	notify := control.NewCheckbox(false).SetLabel("Notify").SetName("notify")
	action := control.NewSelect(
		control.Option{Value: "accept", Label: "Accept"},
		control.Option{Value: "concern"},
	).SetLabel("Action").SetName("action")
	static := control.NewStatic("rXYZ").SetLabel("Commit")
	locked := control.NewText().SetLabel("Locked").SetDisabled(true)
	never := visibility.EvaluatorFunc(func(string, string, visibility.Context) (bool, error) { return false, nil })
	hidden := control.NewText().SetLabel("Hidden").When("never", never, visibility.Context{})
	submit := control.NewSubmit("Save")

	driver := &scriptedDriver{
		inputs:    []string{"Fix selector"},
		passwords: []string{"hunter2"},
		areas:     []string{"line one\nline two"},
		confirms:  []bool{true},
		selects:   []int{1},
	}

	err := Fill(context.Background(), driver, title, secret, body, notify, action, static, locked, hidden, submit)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	wantAsked := []string{
		"input:Title",
		"password:secret",
		"textarea:Body",
		"confirm:Notify",
		"select:Action",
	}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	got := map[string]string{
		"title":  title.Value(),
		"secret": secret.Value(),
		"body":   body.Value(),
		"action": action.Value(),
	}
	want := map[string]string{
		"title":  "Fix selector",
		"secret": "hunter2",
		"body":   "line one\nline two",
		"action": "concern",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !title.Error().IsZero() {
		t.Fatalf("answered required field should clear the marker")
	}
	if box, ok := notify.Variant().(control.Checkbox); !ok || !box.Checked {
		t.Fatalf("checkbox answer not stored: %#v", notify.Variant())
	}
}

func TestFill_ConditionalCheckboxKeepsRule(t *testing.T) {
	notify := control.NewCheckbox(false).SetName("notify").When("true", nil, visibility.Context{})
	driver := &scriptedDriver{confirms: []bool{true}}

	if err := Fill(context.Background(), driver, notify); err != nil {
		t.Fatalf("fill: %v", err)
	}
	cond, ok := notify.Variant().(control.Conditional)
	if !ok {
		t.Fatalf("conditional wrapper lost: %#v", notify.Variant())
	}
	if box := cond.Variant.(control.Checkbox); !box.Checked {
		t.Fatalf("checkbox answer not stored inside wrapper")
	}
}

func TestFill_Errors(t *testing.T) {
	if err := Fill(context.Background(), nil); err == nil {
		t.Fatalf("expected error without driver")
	}

	driver := &scriptedDriver{err: ErrAborted}
	err := Fill(context.Background(), driver, control.NewText().SetName("title"))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("want ErrAborted, got %v", err)
	}
}
