// Package replay implements the Concurrent Replay Engine (spec.md
// §4.4): every TestCase is executed as an HTTP request under a
// bounded-concurrency semaphore and a global rate spacer. Every task
// produces exactly one TestResult, success or failure, and replay
// never panics or propagates a transport error to the caller.
package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/session"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// Engine replays a TestCase set under bounded concurrency and a
// global rate ceiling.
type Engine struct {
	cfg     *config.Config
	client  *http.Client
	sem     *semaphore.Weighted
	spacer  *spacer
	session *session.Material
}

// New builds an Engine. sessionMaterial may be nil.
func New(cfg *config.Config, sessionMaterial *session.Material) *Engine {
	return &Engine{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		sem:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		spacer:  newSpacer(cfg.RatePerSecond),
		session: sessionMaterial,
	}
}

// Run replays every test case, returning one TestResult per test.
// Cancelling ctx stops launching new requests and causes in-flight
// and not-yet-started tasks to materialize as failed results; results
// already produced are still returned.
func (e *Engine) Run(ctx context.Context, tests []*model.TestCase) []*model.TestResult {
	results := make([]*model.TestResult, len(tests))

	var wg sync.WaitGroup
	wg.Add(len(tests))

	for i, tc := range tests {
		i, tc := i, tc
		go func() {
			defer wg.Done()
			results[i] = e.runOne(ctx, tc)
		}()
	}

	wg.Wait()
	return results
}

func (e *Engine) runOne(ctx context.Context, tc *model.TestCase) *model.TestResult {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return &model.TestResult{
			TestID:    tc.TestID,
			TestType:  tc.TestType,
			Method:    tc.Method,
			URL:       tc.URL,
			Timestamp: now,
			Success:   false,
			Error:     "cancelled: " + err.Error(),
		}
	}
	defer e.sem.Release(1)

	if err := e.spacer.acquire(ctx); err != nil {
		return &model.TestResult{
			TestID:    tc.TestID,
			TestType:  tc.TestType,
			Method:    tc.Method,
			URL:       tc.URL,
			Timestamp: now,
			Success:   false,
			Error:     "cancelled: " + err.Error(),
		}
	}

	req, err := e.buildRequest(ctx, tc)
	if err != nil {
		return &model.TestResult{
			TestID:    tc.TestID,
			TestType:  tc.TestType,
			Method:    tc.Method,
			URL:       tc.URL,
			Timestamp: now,
			Success:   false,
			Error:     "Unexpected error: " + err.Error(),
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		var uerr *url.Error
		errMsg := "Request error: " + err.Error()
		switch {
		case errors.As(err, &uerr) && uerr.Timeout():
			errMsg = "Request timeout"
		case errors.Is(err, context.Canceled):
			errMsg = "cancelled: " + context.Canceled.Error()
		}
		return &model.TestResult{
			TestID:    tc.TestID,
			TestType:  tc.TestType,
			Method:    tc.Method,
			URL:       tc.URL,
			Timestamp: now,
			Success:   false,
			Error:     errMsg,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(e.cfg.MaxBodyBytes)+1))
	if err != nil {
		return &model.TestResult{
			TestID:    tc.TestID,
			TestType:  tc.TestType,
			Method:    tc.Method,
			URL:       tc.URL,
			Timestamp: now,
			Success:   false,
			Error:     "Unexpected error: " + err.Error(),
		}
	}

	bodyText := string(body)
	if len(body) > e.cfg.MaxBodyBytes {
		bodyText = string(body[:e.cfg.MaxBodyBytes]) + fmt.Sprintf("\n... (truncated, exceeded %d bytes)", e.cfg.MaxBodyBytes)
	}

	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &model.TestResult{
		TestID:    tc.TestID,
		TestType:  tc.TestType,
		Method:    tc.Method,
		URL:       tc.URL,
		Timestamp: now,
		Success:   true,
		Response: &model.Response{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Headers:    headers,
			Body:       bodyText,
		},
	}
}

func (e *Engine) buildRequest(ctx context.Context, tc *model.TestCase) (*http.Request, error) {
	var bodyReader io.Reader
	hasJSONBody := tc.Body != nil && vocab.IsBodyMethod(tc.Method)
	if hasJSONBody {
		encoded, err := json.Marshal(tc.Body)
		if err != nil {
			return nil, fmt.Errorf("encode test body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, tc.Method, tc.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if e.session != nil {
		for k, v := range e.session.Headers {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set(e.cfg.ResearcherHeaderName, e.cfg.ResearcherHeaderValue)
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}
	if hasJSONBody {
		req.Header.Set("Content-Type", "application/json")
	}

	if tc.UseSession && e.session != nil {
		for name, value := range e.session.AsMap() {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
	}

	return req, nil
}
