package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/internal/logging"
)

// app carries state resolved once in PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	config config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "formkit",
		Short: "Render form controls, build forms from OpenAPI and run search engines",
		Long: `formkit renders form controls and whole forms, selects a search engine
from configuration (Elasticsearch when a host is configured, SQLite
otherwise) and exposes the auditors attachment for commits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a formkit YAML config")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newControlCmd(a),
		newFormCmd(a),
		newSearchCmd(a),
		newAuditorsCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()

	a.config = cfg
	a.logger = logging.New(logCfg)
	a.logger.Debug("configuration loaded", slog.String("path", a.configPath))
	return nil
}
