package idinfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacerecon/surfacerecon/internal/model"
)

func TestInferPathPoolFromValues(t *testing.T) {
	ep := &model.Endpoint{
		Method:        "GET",
		TemplatedPath: "/api/users/{id:int}",
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {"param_2": {"42", "43"}},
			model.LocationQuery: {},
			model.LocationBody:  {},
		},
	}

	Infer([]*model.Endpoint{ep})

	require.NotNil(t, ep.IDPools)
	pool := ep.IDPools["users_id"]
	require.NotNil(t, pool)
	assert.Equal(t, model.LocationPath, pool.Location)
	assert.ElementsMatch(t, []string{"42", "43"}, pool.Integers)
	assert.Empty(t, pool.UUIDs)
	assert.Empty(t, pool.Strings)
	assert.Equal(t, "int", pool.InferredType())
}

func TestInferNameMatchWithoutIDLikeValues(t *testing.T) {
	ep := &model.Endpoint{
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {},
			model.LocationQuery: {"userId": {"alice"}},
			model.LocationBody:  {},
		},
	}

	Infer([]*model.Endpoint{ep})

	pool := ep.IDPools["userId"]
	require.NotNil(t, pool)
	assert.Equal(t, []string{"alice"}, pool.Strings)
	assert.Equal(t, "string", pool.InferredType())
}

func TestInferIgnoresNonIDQueryParam(t *testing.T) {
	ep := &model.Endpoint{
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {},
			model.LocationQuery: {"sort": {"asc", "desc"}},
			model.LocationBody:  {},
		},
	}

	Infer([]*model.Endpoint{ep})
	assert.Nil(t, ep.IDPools)
}

func TestInferBodyPoolRequiresIDLikeValue(t *testing.T) {
	ep := &model.Endpoint{
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {},
			model.LocationQuery: {},
			model.LocationBody:  {"ownerId": {"alice"}, "userId": {"9"}},
		},
	}

	Infer([]*model.Endpoint{ep})

	require.NotNil(t, ep.IDPools)
	assert.Nil(t, ep.IDPools["body.ownerId"])
	pool := ep.IDPools["body.userId"]
	require.NotNil(t, pool)
	assert.Equal(t, []string{"9"}, pool.Integers)
}

func TestInferBucketCapAndDisjointness(t *testing.T) {
	values := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		values = append(values, string(rune('a'+i)))
	}
	ep := &model.Endpoint{
		Parameters: map[string]map[string][]string{
			model.LocationPath:  {"id": values},
			model.LocationQuery: {},
			model.LocationBody:  {},
		},
	}

	Infer([]*model.Endpoint{ep})

	pool := ep.IDPools["id"]
	require.NotNil(t, pool)
	assert.LessOrEqual(t, len(pool.Strings), BucketCap)
	seen := map[string]bool{}
	for _, v := range append(append(append([]string{}, pool.Integers...), pool.UUIDs...), pool.Strings...) {
		assert.False(t, seen[v], "value %q present in more than one bucket", v)
		seen[v] = true
	}
}
