package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/phid"
	"github.com/goliatone/go-formkit/pkg/search"
)

// documentFile is the YAML layout accepted by "search index".
type documentFile struct {
	Documents []struct {
		PHID     string `yaml:"phid"`
		Type     string `yaml:"type"`
		Title    string `yaml:"title"`
		Body     string `yaml:"body"`
		Author   string `yaml:"author"`
		Created  string `yaml:"created"`
		Modified string `yaml:"modified"`
	} `yaml:"documents"`
}

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Index and query documents with the configured engine",
		Long: `The engine is chosen from search.elastic.host (or FORMKIT_ELASTIC_HOST):
a non-empty host selects Elasticsearch, otherwise SQLite at
search.database.path is used. Without a database path the SQLite index
lives in memory for the duration of a single command.`,
	}
	cmd.AddCommand(newSearchIndexCmd(a), newSearchQueryCmd(a))
	return cmd
}

func newSearchIndexCmd(a *app) *cobra.Command {
	var (
		file        string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Reindex documents from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine := a.engine()
			defer engine.Close()

			n, err := indexFile(cmd.Context(), engine, file, concurrency)
			if err != nil {
				return err
			}
			a.logger.Info("documents indexed", slog.String("engine", engine.Name()), slog.Int("count", n))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents with %s\n", n, engine.Name())
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a documents list")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "documents indexed in parallel")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSearchQueryCmd(a *app) *cobra.Command {
	var (
		seed    string
		types   []string
		authors []string
		limit   int
		offset  int
	)
	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Print the PHIDs matching a full-text query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine := a.engine()
			defer engine.Close()

			if seed != "" {
				if _, err := indexFile(ctx, engine, seed, 1); err != nil {
					return err
				}
			}

			query := search.Query{Types: types, Limit: limit, Offset: offset}
			if len(args) > 0 {
				query.Text = args[0]
			}
			for _, raw := range authors {
				author, err := phid.Parse(raw)
				if err != nil {
					return err
				}
				query.Authors = append(query.Authors, author)
			}

			results, err := engine.ExecuteSearch(ctx, query)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, result := range results {
				if _, err := fmt.Fprintln(out, result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "index this YAML file before querying")
	cmd.Flags().StringSliceVar(&types, "type", nil, "restrict to document types, e.g. CMIT")
	cmd.Flags().StringSliceVar(&authors, "author", nil, "restrict to author PHIDs")
	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "maximum results")
	cmd.Flags().IntVar(&offset, "offset", 0, "results to skip")
	return cmd
}

func (a *app) engine() search.Engine {
	return search.NewEngine(a.config.SearchConfig(), search.WithLogger(a.logger))
}

func indexFile(ctx context.Context, engine search.Engine, path string, concurrency int) (int, error) {
	docs, err := readDocuments(path)
	if err != nil {
		return 0, err
	}
	if err := search.ReindexAll(ctx, engine, docs, concurrency); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func readDocuments(path string) ([]search.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	var file documentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse documents %s: %w", path, err)
	}

	docs := make([]search.Document, 0, len(file.Documents))
	for i, raw := range file.Documents {
		id, err := phid.Parse(raw.PHID)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		doc := search.Document{
			PHID:  id,
			Type:  strings.ToUpper(raw.Type),
			Title: raw.Title,
			Body:  raw.Body,
		}
		if raw.Author != "" {
			if doc.Author, err = phid.Parse(raw.Author); err != nil {
				return nil, fmt.Errorf("document %d author: %w", i, err)
			}
		}
		if doc.Created, err = parseTime(raw.Created); err != nil {
			return nil, fmt.Errorf("document %d created: %w", i, err)
		}
		if doc.Modified, err = parseTime(raw.Modified); err != nil {
			return nil, fmt.Errorf("document %d modified: %w", i, err)
		}
		if doc.Modified.IsZero() {
			doc.Modified = doc.Created
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseTime(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
