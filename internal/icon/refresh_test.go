package icon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gotest.tools/v3/assert"

	"github.com/nikbrunner/sc/internal/icon"
	"github.com/nikbrunner/sc/internal/model"
)

func TestRefreshAll(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)

		if r.URL.Path == "/missing/favicon.ico" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngHeader)
	}))
	t.Cleanup(srv.Close)

	resolver := icon.NewResolver(icon.ResolverParams{
		Client: srv.Client(),
		Providers: []icon.Provider{{
			Name: "test",
			Candidate: func(u *url.URL) string {
				return srv.URL + u.Path + "/favicon.ico"
			},
		}},
		Logger: zaptest.NewLogger(t),
	})

	targets := []icon.Target{
		{ID: "a", URL: "https://a.example.com/a"},
		{ID: "b", URL: "https://b.example.com/missing"},
		{ID: "c", URL: "https://c.example.com/c"},
		{ID: "d", URL: "not a url"},
		{ID: "e", URL: "https://e.example.com/e"},
	}

	var mu sync.Mutex
	var progress []int
	results := icon.RefreshAll(context.Background(), resolver, targets, 2, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != len(targets) {
			t.Errorf("progress total = %d, want %d", total, len(targets))
		}
		progress = append(progress, completed)
	})

	assert.Equal(t, len(results), len(targets))
	for i, res := range results {
		assert.Equal(t, res.ID, targets[i].ID)
	}
	assert.Equal(t, results[0].Icon, srv.URL+"/a/favicon.ico")
	assert.Equal(t, results[1].Icon, model.FallbackGlyph)
	assert.Equal(t, results[3].Icon, model.FallbackGlyph)
	assert.Assert(t, results[3].Preview == nil)

	assert.DeepEqual(t, progress, []int{1, 2, 3, 4, 5})
	assert.Assert(t, maxInFlight.Load() <= 2, "max in flight = %d", maxInFlight.Load())
}

func TestRefreshAll_Empty(t *testing.T) {
	results := icon.RefreshAll(context.Background(), icon.NewResolver(icon.ResolverParams{}), nil, 4, nil)
	assert.Assert(t, results == nil)
}

func TestRefreshAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := icon.NewResolver(icon.ResolverParams{Providers: sites("/favicon.ico")})
	results := icon.RefreshAll(ctx, resolver, []icon.Target{
		{ID: "a", URL: "https://a.example.com"},
		{ID: "b", URL: "https://b.example.com"},
	}, 0, nil)

	for _, res := range results {
		assert.Equal(t, res.Icon, model.FallbackGlyph)
	}
}
