package control_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

const clearMarker = `<div style="clear: both;"></div>`

func TestRender_FullChrome(t *testing.T) {
	ctrl := control.NewText().
		SetLabel("Name <b>").
		SetName("name").
		SetValue("Ada").
		SetError(control.ErrorMarker()).
		SetCaption(`<a href="/help">help</a>`)

	want := `<div class="form-control form-control-text">` +
		`<div class="form-error">*</div>` +
		`<label class="form-label">Name &lt;b&gt;:</label>` +
		`<div class="form-input"><input type="text" name="name" value="Ada"></div>` +
		`<div class="form-caption"><a href="/help">help</a></div>` +
		clearMarker + `</div>`

	if diff := cmp.Diff(want, ctrl.Render()); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ErrorStates(t *testing.T) {
	cases := []struct {
		name string
		err  control.Error
		want string
	}{
		{name: "none", err: control.Error{}, want: ""},
		{name: "marker", err: control.ErrorMarker(), want: `<div class="form-error">*</div>`},
		{name: "message", err: control.ErrorMessage("Required"), want: `<div class="form-error">« Required</div>`},
		{name: "escaped message", err: control.ErrorMessage("<x> & y"), want: `<div class="form-error">« &lt;x&gt; &amp; y</div>`},
		{name: "empty message", err: control.ErrorMessage(""), want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := control.NewStatic("v").SetLabel("L").SetError(tc.err).Render()
			hasBlock := strings.Contains(out, `class="form-error"`)
			if tc.want == "" {
				if hasBlock {
					t.Fatalf("expected no error block, got %s", out)
				}
				return
			}
			if !strings.HasPrefix(out, `<div class="form-control form-control-static">`+tc.want+`<label`) {
				t.Fatalf("error block must come first\nwant prefix: %s\n got: %s", tc.want, out)
			}
		})
	}
}

func TestRender_NoLabelAddsClass(t *testing.T) {
	out := control.NewStatic("value").Render()
	want := `<div class="form-control form-control-static form-control-nolabel">` +
		`<div class="form-input">value</div>` + clearMarker + `</div>`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_LabelEscapedCaptionRaw(t *testing.T) {
	out := control.NewStatic("").
		SetLabel(`"Tom" & <Jerry>`).
		SetCaption(`<em>trusted</em> & raw`).
		Render()

	if !strings.Contains(out, `<label class="form-label">&#34;Tom&#34; &amp; &lt;Jerry&gt;:</label>`) {
		t.Fatalf("label not escaped: %s", out)
	}
	if !strings.Contains(out, `<div class="form-caption"><em>trusted</em> & raw</div>`) {
		t.Fatalf("caption must be inserted verbatim: %s", out)
	}
}

func TestRender_ContainerAttributes(t *testing.T) {
	out := control.NewStatic("x").
		SetLabel("L").
		SetControlID("ctl-1").
		SetControlStyle(`display: "none"`).
		Render()

	prefix := `<div class="form-control form-control-static" id="ctl-1" style="display: &#34;none&#34;">`
	if !strings.HasPrefix(out, prefix) {
		t.Fatalf("unexpected container\nwant prefix: %s\n got: %s", prefix, out)
	}
}

func TestRender_FixedOrder(t *testing.T) {
	out := control.NewText().
		SetLabel("L").
		SetCaption("C").
		SetError(control.ErrorMessage("E")).
		Render()

	order := []string{`form-error`, `form-label`, `form-input`, `form-caption`, `clear: both`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx <= last {
			t.Fatalf("%q out of order in %s", marker, out)
		}
		last = idx
	}
}

func TestRender_ShouldRenderFalse(t *testing.T) {
	ctrl := control.New(control.Hidden{}).
		SetLabel("L").
		SetCaption("C").
		SetError(control.ErrorMarker())
	if out := ctrl.Render(); out != "" {
		t.Fatalf("hidden control rendered %q", out)
	}
	if ctrl.ShouldRender() {
		t.Fatalf("ShouldRender should be false")
	}
}

func TestRender_NilVariant(t *testing.T) {
	if out := control.New(nil).SetLabel("x").Render(); out != "" {
		t.Fatalf("nil variant rendered %q", out)
	}
}

func TestConditional(t *testing.T) {
	evaluator := visibility.EvaluatorFunc(func(name, rule string, ctx visibility.Context) (bool, error) {
		if rule == "broken" {
			return false, errors.New("boom")
		}
		return ctx.Values[rule] == true, nil
	})

	ctx := visibility.Context{Values: map[string]any{"shown": true, "hidden": false}}

	if out := control.NewText().SetName("a").When("shown", evaluator, ctx).Render(); out == "" {
		t.Fatalf("expected shown control to render")
	}
	if out := control.NewText().SetName("b").When("hidden", evaluator, ctx).Render(); out != "" {
		t.Fatalf("expected hidden control to render nothing, got %q", out)
	}

	var reported error
	ctrl := control.New(control.Conditional{
		Variant:   control.Text{},
		Rule:      "broken",
		Evaluator: evaluator,
		OnError:   func(_, _ string, err error) { reported = err },
	})
	if out := ctrl.Render(); out != "" {
		t.Fatalf("evaluation error should hide control, got %q", out)
	}
	if reported == nil {
		t.Fatalf("expected OnError to receive the failure")
	}
}

func TestConditional_RespectsInnerVisibility(t *testing.T) {
	ctrl := control.New(control.Hidden{}).When("", nil, visibility.Context{})
	if ctrl.ShouldRender() {
		t.Fatalf("inner visibility should still apply")
	}
}

func TestRenderAll(t *testing.T) {
	out := control.RenderAll(
		control.NewStatic("one"),
		control.New(control.Hidden{}),
		control.NewStatic("two"),
	)
	if strings.Count(out, `class="form-control `) != 2 {
		t.Fatalf("expected two rendered controls, got %s", out)
	}
}

func TestStateAccessors(t *testing.T) {
	ctrl := control.NewText().
		SetLabel("L").SetCaption("C").SetName("n").SetValue("v").
		SetID("i").SetDisabled(true).SetControlID("cid").SetControlStyle("s").
		SetError(control.ErrorMessage("m"))

	want := control.State{
		Label: "L", Caption: "C", Name: "n", Value: "v", ID: "i", Disabled: true,
		ControlID: "cid", ControlStyle: "s", Error: control.ErrorMessage("m"),
	}
	if diff := cmp.Diff(want, ctrl.State(), cmp.AllowUnexported(control.Error{})); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if ctrl.Error().Message() != "m" || ctrl.Error().IsMarker() {
		t.Fatalf("unexpected error accessors: %+v", ctrl.Error())
	}
}
