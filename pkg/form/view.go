package form

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/control"
)

const viewTemplate = "form.tpl"

//go:embed templates/*.tpl
var templateFiles embed.FS

var (
	templateSetOnce sync.Once
	templateSet     *pongo2.TemplateSet
	templateErr     error
	compiled        *pongo2.Template
)

// HiddenField is rendered as <input type="hidden">.
type HiddenField struct {
	Name  string
	Value string
}

// Option customises a View.
type Option func(*View)

// WithAction sets the form action URI.
func WithAction(action string) Option {
	return func(v *View) { v.action = strings.TrimSpace(action) }
}

// WithMethod sets the HTTP method. Verbs other than GET and POST are sent as
// POST with a hidden _method field.
func WithMethod(method string) Option {
	return func(v *View) { v.method = strings.ToUpper(strings.TrimSpace(method)) }
}

// WithEncType sets the form encoding, e.g. multipart/form-data.
func WithEncType(enctype string) Option {
	return func(v *View) { v.enctype = enctype }
}

// WithID sets the form element id.
func WithID(id string) Option {
	return func(v *View) { v.id = id }
}

// WithHeader renders a heading above the controls.
func WithHeader(header string) Option {
	return func(v *View) { v.header = header }
}

// WithInstructions renders a paragraph above the controls.
func WithInstructions(text string) Option {
	return func(v *View) { v.instructions = text }
}

// WithHidden adds hidden fields such as a CSRF token.
func WithHidden(fields ...HiddenField) Option {
	return func(v *View) { v.hidden = append(v.hidden, fields...) }
}

// WithTheme resolves tokens through selector. Tokens become CSS custom
// properties on the form element.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(v *View) {
		v.themeSelector = selector
		v.themeName = name
		v.themeVariant = variant
	}
}

// WithTemplateFS overrides the embedded templates. files must contain
// form.tpl; it receives the same context as the built-in template.
func WithTemplateFS(files fs.FS) Option {
	return func(v *View) { v.templates = files }
}

// View renders a list of controls inside a <form>.
type View struct {
	action       string
	method       string
	enctype      string
	id           string
	header       string
	instructions string
	hidden       []HiddenField
	controls     []*control.Control
	templates    fs.FS

	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
}

// NewView returns a View defaulting to POST.
func NewView(options ...Option) *View {
	v := &View{method: http.MethodPost}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// AppendControl adds controls in render order.
func (v *View) AppendControl(controls ...*control.Control) *View {
	for _, ctrl := range controls {
		if ctrl != nil {
			v.controls = append(v.controls, ctrl)
		}
	}
	return v
}

// Controls returns the controls added so far.
func (v *View) Controls() []*control.Control {
	return append([]*control.Control(nil), v.controls...)
}

// Render produces the form markup.
func (v *View) Render(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmpl, err := v.template()
	if err != nil {
		return "", err
	}

	method, hidden := v.effectiveMethod()

	hiddenFields := make([]map[string]string, 0, len(hidden))
	for _, field := range hidden {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		hiddenFields = append(hiddenFields, map[string]string{"name": field.Name, "value": field.Value})
	}

	markup := make([]string, 0, len(v.controls))
	for _, ctrl := range v.controls {
		if out := ctrl.Render(); out != "" {
			markup = append(markup, out)
		}
	}

	themeName, themeStyle, err := v.resolveTheme()
	if err != nil {
		return "", err
	}

	out, err := tmpl.Execute(pongo2.Context{
		"method":        strings.ToLower(method),
		"action":        v.action,
		"enctype":       v.enctype,
		"id":            v.id,
		"header":        v.header,
		"instructions":  v.instructions,
		"hidden_fields": hiddenFields,
		"controls":      markup,
		"theme_name":    themeName,
		"theme_style":   themeStyle,
	})
	if err != nil {
		return "", fmt.Errorf("form: execute template: %w", err)
	}
	return out, nil
}

func (v *View) effectiveMethod() (string, []HiddenField) {
	hidden := append([]HiddenField(nil), v.hidden...)
	switch v.method {
	case "", http.MethodPost:
		return http.MethodPost, hidden
	case http.MethodGet:
		return http.MethodGet, hidden
	default:
		return http.MethodPost, append(hidden, HiddenField{Name: "_method", Value: v.method})
	}
}

func (v *View) resolveTheme() (string, string, error) {
	if v.themeSelector == nil {
		return "", "", nil
	}
	selection, err := v.themeSelector.Select(v.themeName, v.themeVariant)
	if err != nil {
		return "", "", fmt.Errorf("form: select theme %q: %w", v.themeName, err)
	}
	if selection == nil {
		return "", "", nil
	}
	return selection.Theme, cssVarsStyle(selectionTokens(selection)), nil
}

func (v *View) template() (*pongo2.Template, error) {
	if v.templates == nil {
		return formTemplate()
	}
	set := pongo2.NewSet("formkit-custom", pongo2.NewFSLoader(v.templates))
	tmpl, err := set.FromFile(viewTemplate)
	if err != nil {
		return nil, fmt.Errorf("form: load custom template: %w", err)
	}
	return tmpl, nil
}

func formTemplate() (*pongo2.Template, error) {
	templateSetOnce.Do(func() {
		sub, err := fs.Sub(templateFiles, "templates")
		if err != nil {
			templateErr = fmt.Errorf("form: templates: %w", err)
			return
		}
		templateSet = pongo2.NewSet("formkit", pongo2.NewFSLoader(sub))
		compiled, templateErr = templateSet.FromFile(viewTemplate)
		if templateErr != nil {
			templateErr = fmt.Errorf("form: load template: %w", templateErr)
		}
	})
	if compiled == nil && templateErr == nil {
		return nil, errors.New("form: template unavailable")
	}
	return compiled, templateErr
}
