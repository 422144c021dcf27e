package search

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ReindexAll pushes docs into engine with at most concurrency requests in
// flight. The first failure cancels the remaining work.
func ReindexAll(ctx context.Context, engine Engine, docs []Document, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return engine.ReindexDocument(gctx, doc)
		})
	}
	return g.Wait()
}
