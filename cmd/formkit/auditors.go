package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/attachment"
	"github.com/goliatone/go-formkit/pkg/diffusion"
	"github.com/goliatone/go-formkit/pkg/phid"
	"github.com/goliatone/go-formkit/pkg/search"
)

// commitFile is the YAML layout accepted by "auditors".
type commitFile struct {
	Commits []struct {
		PHID       string `yaml:"phid"`
		Identifier string `yaml:"identifier"`
		Summary    string `yaml:"summary"`
		Message    string `yaml:"message"`
		Author     string `yaml:"author"`
		Committed  string `yaml:"committed"`
		Audits     []struct {
			Auditor string `yaml:"auditor"`
			Status  string `yaml:"status"`
		} `yaml:"audits"`
	} `yaml:"commits"`
}

type commitOutput struct {
	PHID        phid.PHID                 `json:"phid"`
	Identifier  string                    `json:"identifier"`
	Attachments map[string]map[string]any `json:"attachments"`
}

func newAuditorsCmd(a *app) *cobra.Command {
	var (
		file  string
		only  []string
		index bool
	)
	cmd := &cobra.Command{
		Use:   "auditors",
		Short: "Print commits with the auditors attachment as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := readCommits(file)
			if err != nil {
				return err
			}

			query := diffusion.NewCommitQuery(store)
			for _, raw := range only {
				id, err := phid.Parse(raw)
				if err != nil {
					return err
				}
				query.WithPHIDs(id)
			}

			registry := attachment.NewRegistry()
			registry.MustRegister(diffusion.AuditorsAttachment{})

			results, err := registry.Apply(ctx, query, query.Load, attachment.Request{
				Attachments: map[string]attachment.Spec{diffusion.AuditorsAttachmentKey: {}},
			})
			if err != nil {
				return err
			}

			out := make([]commitOutput, 0, len(results))
			docs := make([]search.Document, 0, len(results))
			for _, result := range results {
				commit, ok := result.Object.(*diffusion.Commit)
				if !ok {
					return fmt.Errorf("unexpected object %T", result.Object)
				}
				out = append(out, commitOutput{
					PHID:        commit.PHID,
					Identifier:  commit.Identifier,
					Attachments: result.Attachments,
				})
				docs = append(docs, commit.SearchDocument())
			}

			if index {
				engine := a.engine()
				defer engine.Close()
				if err := search.ReindexAll(ctx, engine, docs, 4); err != nil {
					return err
				}
				a.logger.Info("commits indexed", slog.String("engine", engine.Name()), slog.Int("count", len(docs)))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a commits list")
	cmd.Flags().StringSliceVar(&only, "phid", nil, "restrict to these commit PHIDs")
	cmd.Flags().BoolVar(&index, "index", false, "also reindex the commits with the configured search engine")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readCommits(path string) (*diffusion.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	var file commitFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse commits %s: %w", path, err)
	}

	store := diffusion.NewStore()
	for i, raw := range file.Commits {
		commit := diffusion.Commit{
			Identifier: raw.Identifier,
			Summary:    raw.Summary,
			Message:    raw.Message,
		}
		if raw.PHID == "" {
			if commit.PHID, err = phid.New(phid.TypeCommit); err != nil {
				return nil, err
			}
		} else if commit.PHID, err = phid.Parse(raw.PHID); err != nil {
			return nil, fmt.Errorf("commit %d: %w", i, err)
		}
		if raw.Author != "" {
			if commit.Author, err = phid.Parse(raw.Author); err != nil {
				return nil, fmt.Errorf("commit %d author: %w", i, err)
			}
		}
		if commit.Committed, err = parseTime(raw.Committed); err != nil {
			return nil, fmt.Errorf("commit %d committed: %w", i, err)
		}
		store.PutCommit(commit)

		for j, audit := range raw.Audits {
			auditor, err := phid.Parse(audit.Auditor)
			if err != nil {
				return nil, fmt.Errorf("commit %d audit %d: %w", i, j, err)
			}
			status := diffusion.AuditStatus(audit.Status)
			if status == "" {
				status = diffusion.AuditStatusAudited
			}
			store.AddAudit(diffusion.AuditRequest{
				CommitPHID:  commit.PHID,
				AuditorPHID: auditor,
				Status:      status,
			})
		}
	}
	return store, nil
}
