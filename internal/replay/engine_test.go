package replay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/model"
)

func testCases(n int, url string) []*model.TestCase {
	out := make([]*model.TestCase, n)
	for i := range out {
		out[i] = &model.TestCase{
			TestID:     "test_" + string(rune('a'+i)),
			TestType:   model.TestTypeAuthBypass,
			Method:     "GET",
			URL:        url,
			UseSession: false,
		}
	}
	return out
}

func TestRunProducesOneResultPerTest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Concurrency = 2
	cfg.RatePerSecond = 1000
	engine := New(cfg, nil)

	tests := testCases(5, srv.URL)
	results := engine.Run(context.Background(), tests)

	require.Len(t, results, 5)
	seen := map[string]bool{}
	for i, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.Success)
		assert.Equal(t, tests[i].TestID, r.TestID)
		seen[r.TestID] = true
	}
	assert.Len(t, seen, 5)
}

func TestRunRespectsConcurrencyCap(t *testing.T) {
	var inFlight int32
	var maxObserved int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			cur := atomic.LoadInt32(&maxObserved)
			if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Concurrency = 2
	cfg.RatePerSecond = 1000
	engine := New(cfg, nil)

	engine.Run(context.Background(), testCases(8, srv.URL))

	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxObserved)), 2)
}

func TestRunCancellationProducesFailedResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Concurrency = 4
	cfg.RatePerSecond = 1000
	engine := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := engine.Run(ctx, testCases(3, srv.URL))
	require.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.NotEmpty(t, r.Error)
	}
}

func TestRateLimiterSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Concurrency = 4
	cfg.RatePerSecond = 2.0
	engine := New(cfg, nil)

	start := time.Now()
	engine.Run(context.Background(), testCases(10, srv.URL))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 4500*time.Millisecond)
}
