package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
)

type formFlags struct {
	source    string
	operation string
	action    string
	method    string
	header    string
	csrf      string
	submit    string
	cancel    string
	values    []string
	errors    []string
	submitted bool
}

func newFormCmd(a *app) *cobra.Command {
	var f formFlags

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Render the request body of an OpenAPI operation as a form",
		Example: `  formkit form --source api.yaml --operation auditCommit
  formkit form --source https://example.com/openapi.yaml --operation auditCommit --value action=concern`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			src, err := schema.ParseSource(f.source)
			if err != nil {
				return err
			}
			op, err := schema.LoadSourceOperation(ctx, src, f.operation,
				schema.WithHTTPClient(http.DefaultClient),
				schema.WithRequestTimeout(a.config.SearchConfig().Timeout),
			)
			if err != nil {
				return err
			}

			values, err := pairs(f.values)
			if err != nil {
				return err
			}
			fieldErrors, err := pairs(f.errors)
			if err != nil {
				return err
			}
			errs := make(map[string][]string, len(fieldErrors))
			for name, message := range fieldErrors {
				errs[name] = []string{message}
			}

			controls := form.BuildControls(op.Fields, form.BuildOptions{
				Values:    values,
				Errors:    errs,
				Submitted: f.submitted,
				IDPrefix:  op.ID + "-",
				OnVisibilityError: func(name, rule string, err error) {
					a.logger.Warn("visibility rule failed", slog.String("control", name), slog.String("rule", rule), slog.Any("error", err))
				},
			})

			options := []form.Option{
				form.WithAction(firstNonEmpty(f.action, op.Path)),
				form.WithMethod(firstNonEmpty(f.method, op.Method)),
				form.WithHeader(firstNonEmpty(f.header, op.Summary)),
			}
			if f.csrf != "" {
				options = append(options, form.WithHidden(form.HiddenField{Name: "__csrf__", Value: f.csrf}))
			}
			view := form.NewView(options...).AppendControl(controls...)
			view.AppendControl(control.New(control.Submit{CancelURI: f.cancel}).SetValue(f.submit))

			out, err := view.Render(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", "", "OpenAPI document path or URL")
	flags.StringVarP(&f.operation, "operation", "o", "", "operation id")
	flags.StringVar(&f.action, "action", "", "form action (defaults to the operation path)")
	flags.StringVar(&f.method, "method", "", "form method (defaults to the operation method)")
	flags.StringVar(&f.header, "header", "", "heading (defaults to the operation summary)")
	flags.StringVar(&f.csrf, "csrf", "", "CSRF token added as a hidden field")
	flags.StringVar(&f.submit, "submit", "Save", "submit button text")
	flags.StringVar(&f.cancel, "cancel", "", "cancel link URI")
	flags.StringArrayVar(&f.values, "value", nil, "field value as name=value, repeatable")
	flags.StringArrayVar(&f.errors, "error", nil, "field error as name=message, repeatable")
	flags.BoolVar(&f.submitted, "submitted", false, "mark missing required fields")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("operation")
	return cmd
}

func pairs(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("expected name=value, got %q", item)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
