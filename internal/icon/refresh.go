package icon

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Target is a shortcut whose icon should be resolved.
type Target struct {
	ID  string
	URL string
}

// ProgressFunc is called after each URL is resolved.
// completed is the number of URLs resolved so far, total is the total count.
type ProgressFunc func(completed, total int)

// RefreshAll resolves every target with at most concurrency lookups in
// flight. Results are returned in target order. Workers never touch the
// store; the caller applies the results afterwards.
func RefreshAll(ctx context.Context, resolver *Resolver, targets []Target, concurrency int, onProgress ProgressFunc) []Result {
	if len(targets) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(targets))

	// Progress tracking
	var progressMu sync.Mutex
	completed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, target := range targets {
		g.Go(func() error {
			result := resolver.Resolve(ctx, target.URL)
			result.ID = target.ID
			results[i] = result

			if onProgress != nil {
				progressMu.Lock()
				completed++
				onProgress(completed, len(targets))
				progressMu.Unlock()
			}
			return nil
		})
	}

	// Workers never return an error; resolution failures become the fallback glyph.
	_ = g.Wait()
	return results
}
