package testgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/idinfer"
	"github.com/surfacerecon/surfacerecon/internal/model"
)

func usersAndProjects() []*model.Endpoint {
	users := &model.Endpoint{
		Method:        "GET",
		TemplatedPath: "/users/{id:int}",
		SampleURL:     "https://api.example.com/users/1",
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {"param_1": {"1", "2"}},
			model.LocationQuery: {},
			model.LocationBody:  {},
		},
	}
	projects := &model.Endpoint{
		Method:        "GET",
		TemplatedPath: "/projects/{id:int}",
		SampleURL:     "https://api.example.com/projects/100",
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {"param_1": {"100"}},
			model.LocationQuery: {},
			model.LocationBody:  {},
		},
	}
	endpoints := []*model.Endpoint{users, projects}
	idinfer.Infer(endpoints)
	return endpoints
}

func TestCrossPoolIDOR(t *testing.T) {
	endpoints := usersAndProjects()
	cfg := config.Default()
	gen := New(cfg)

	tests := gen.Generate(endpoints)

	var sawTargetProject bool
	for _, tc := range tests {
		if tc.TestType == model.TestTypeIDOR && tc.Endpoint == "/users/{id:int}" && tc.URL == "https://api.example.com/users/100" {
			sawTargetProject = true
		}
	}
	assert.True(t, sawTargetProject, "expected an IDOR variant for /users/{id:int} with URL .../users/100")
}

func TestTestCapEnforced(t *testing.T) {
	endpoints := usersAndProjects()
	cfg := config.Default()
	cfg.MaxTestsPerEndpoint = 3
	gen := New(cfg)

	tests := gen.Generate(endpoints)

	counts := map[string]int{}
	for _, tc := range tests {
		counts[tc.Endpoint]++
	}
	for ep, n := range counts {
		assert.LessOrEqual(t, n, 3, "endpoint %s exceeded max_tests_per_endpoint", ep)
	}
}

func TestDestructiveGateDefault(t *testing.T) {
	ep := &model.Endpoint{
		Method:        "GET",
		TemplatedPath: "/things/{id:int}",
		SampleURL:     "https://api.example.com/things/1",
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {"param_1": {"1"}},
			model.LocationQuery: {},
			model.LocationBody:  {},
		},
	}
	cfg := config.Default()
	require.False(t, cfg.AllowDestructive)
	gen := New(cfg)

	tests := gen.Generate([]*model.Endpoint{ep})

	for _, tc := range tests {
		assert.NotEqual(t, "DELETE", tc.Method)
	}
}

func TestSessionFlagCorrectness(t *testing.T) {
	endpoints := usersAndProjects()
	cfg := config.Default()
	gen := New(cfg)

	tests := gen.Generate(endpoints)

	for _, tc := range tests {
		if tc.TestType == model.TestTypeAuthBypass {
			assert.False(t, tc.UseSession, "AUTH_BYPASS must set use_session=false")
		} else {
			assert.True(t, tc.UseSession, "%s must set use_session=true", tc.TestType)
		}
	}
}

func TestGenerateDeterministicWithFixedSeed(t *testing.T) {
	endpoints1 := usersAndProjects()
	endpoints2 := usersAndProjects()
	cfg := config.Default()

	first := New(cfg).Generate(endpoints1)
	second := New(cfg).Generate(endpoints2)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].TestID, second[i].TestID)
		assert.Equal(t, first[i].URL, second[i].URL)
		assert.Equal(t, first[i].TestType, second[i].TestType)
	}
}

func TestMassAssignmentSkipsNonBodyMethods(t *testing.T) {
	ep := &model.Endpoint{
		Method:        "GET",
		TemplatedPath: "/things/{id:int}",
		SampleURL:     "https://api.example.com/things/1",
	}
	gen := New(config.Default())
	assert.Empty(t, gen.massAssignmentVariants(ep))
}
