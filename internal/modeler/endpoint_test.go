package modeler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacerecon/surfacerecon/internal/capture"
)

func reqWithResponse(method, rawURL string) capture.Request {
	return capture.Request{
		Method:   method,
		URL:      rawURL,
		Response: &capture.Response{Status: 200, Body: "{}"},
	}
}

func TestModelTemplateInference(t *testing.T) {
	requests := []capture.Request{
		reqWithResponse("GET", "https://api.example.com/api/users/42"),
		reqWithResponse("GET", "https://api.example.com/api/users/43"),
	}

	endpoints, err := Model(requests)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)

	ep := endpoints[0]
	assert.Equal(t, "/api/users/{id:int}", ep.TemplatedPath)
	assert.ElementsMatch(t, []string{"42", "43"}, ep.Parameters["path"]["param_2"])
}

func TestModelUUIDvsIntPrecedence(t *testing.T) {
	requests := []capture.Request{
		reqWithResponse("GET", "https://api.example.com/x/550e8400-e29b-41d4-a716-446655440000"),
		reqWithResponse("GET", "https://api.example.com/x/7"),
	}

	endpoints, err := Model(requests)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)

	assert.Equal(t, "/x/{id:int}", endpoints[0].TemplatedPath)
}

func TestModelGenericParamSegment(t *testing.T) {
	requests := []capture.Request{
		reqWithResponse("GET", "https://api.example.com/blog/alpha"),
		reqWithResponse("GET", "https://api.example.com/blog/beta"),
	}

	endpoints, err := Model(requests)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)

	ep := endpoints[0]
	assert.Equal(t, "/blog/{param}", ep.TemplatedPath)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, ep.Parameters["path"]["param_1"])
}

func TestModelSkipsRequestsWithoutResponse(t *testing.T) {
	requests := []capture.Request{
		{Method: "GET", URL: "https://api.example.com/no-response"},
		reqWithResponse("GET", "https://api.example.com/has-response"),
	}

	endpoints, err := Model(requests)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "/has-response", endpoints[0].TemplatedPath)
}

func TestModelDistinctMethodsStaySeparate(t *testing.T) {
	requests := []capture.Request{
		reqWithResponse("GET", "https://api.example.com/items/1"),
		reqWithResponse("POST", "https://api.example.com/items/1"),
	}

	endpoints, err := Model(requests)
	require.NoError(t, err)
	assert.Len(t, endpoints, 2)
}
