package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/model"
)

func TestAnalyzeAuthBypassSeverity(t *testing.T) {
	requests := []capture.Request{
		{
			Method: "GET", URL: "https://api.example.com/secret",
			Response: &capture.Response{Status: 403, StatusText: "Forbidden", Body: "{}"},
		},
	}
	tests := []*model.TestCase{
		{TestID: "test_1", TestType: model.TestTypeAuthBypass, Method: "GET", URL: "https://api.example.com/secret"},
	}
	results := []*model.TestResult{
		{
			TestID: "test_1", Success: true,
			Response: &model.Response{Status: 200, Body: `{"x":1}`},
		},
	}

	findings := Analyze(requests, tests, results, 0.30)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "finding_1", findings[0].FindingID)
	assert.Equal(t, 403, findings[0].BaselineStatus)
	assert.Equal(t, 200, findings[0].ObservedStatus)
}

func TestAnalyzeSensitiveFieldSeverity(t *testing.T) {
	requests := []capture.Request{
		{
			Method: "GET", URL: "https://api.example.com/profile",
			Response: &capture.Response{Status: 200, Body: `{"user":"a","role":"user"}`},
		},
	}
	tests := []*model.TestCase{
		{TestID: "test_1", TestType: model.TestTypeIDOR, Method: "GET", URL: "https://api.example.com/profile"},
	}
	results := []*model.TestResult{
		{
			TestID: "test_1", Success: true,
			Response: &model.Response{Status: 200, Body: `{"user":"a","role":"admin"}`},
		},
	}

	findings := Analyze(requests, tests, results, 0.30)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityHigh, findings[0].Severity)
}

func TestAnalyzeNoBaselineDropsResult(t *testing.T) {
	tests := []*model.TestCase{
		{TestID: "test_1", TestType: model.TestTypeIDOR, Method: "GET", URL: "https://api.example.com/missing"},
	}
	results := []*model.TestResult{
		{TestID: "test_1", Success: true, Response: &model.Response{Status: 200, Body: "{}"}},
	}

	findings := Analyze(nil, tests, results, 0.30)
	assert.Empty(t, findings)
}

func TestAnalyzeFailedResultSkipped(t *testing.T) {
	requests := []capture.Request{
		{Method: "GET", URL: "https://api.example.com/x", Response: &capture.Response{Status: 200, Body: "{}"}},
	}
	tests := []*model.TestCase{
		{TestID: "test_1", TestType: model.TestTypeIDOR, Method: "GET", URL: "https://api.example.com/x"},
	}
	results := []*model.TestResult{
		{TestID: "test_1", Success: false, Error: "Request timeout"},
	}

	findings := Analyze(requests, tests, results, 0.30)
	assert.Empty(t, findings)
}

func TestBaselineFallbackByMethod(t *testing.T) {
	requests := []capture.Request{
		{Method: "GET", URL: "https://api.example.com/other", Response: &capture.Response{Status: 200, Body: "{}"}},
	}
	tests := []*model.TestCase{
		{TestID: "test_1", TestType: model.TestTypeMethodConfusion, Method: "GET", URL: "https://api.example.com/never-seen"},
	}
	results := []*model.TestResult{
		{TestID: "test_1", Success: true, Response: &model.Response{Status: 200, Body: `{"changed":true}`}},
	}

	findings := Analyze(requests, tests, results, 0.30)
	require.Len(t, findings, 1)
	assert.Equal(t, 200, findings[0].BaselineStatus)
}

func TestReproCommandOmitsHopByHopHeaders(t *testing.T) {
	test := &model.TestCase{Method: "GET", URL: "https://api.example.com/x"}
	result := &model.TestResult{Response: &model.Response{
		Headers: map[string]string{"Content-Length": "10", "Host": "api.example.com", "X-Rate-Limit": "5"},
	}}

	cmd := reproCommand(test, result)
	assert.Contains(t, cmd, "X-Rate-Limit")
	assert.NotContains(t, cmd, "Content-Length")
	assert.NotContains(t, cmd, "Host: api.example.com")
}
