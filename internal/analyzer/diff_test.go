package analyzer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestJSONDiffThreeChangeSets(t *testing.T) {
	a := parseJSON(t, `{"keep":1,"gone":2,"changed":"old"}`)
	b := parseJSON(t, `{"keep":1,"changed":"new","fresh":3}`)

	d := JSON(a, b)

	assert.Contains(t, d.Added, "fresh")
	assert.Contains(t, d.Removed, "gone")
	require.Contains(t, d.Changed, "changed")
	assert.Equal(t, "old", d.Changed["changed"].Old)
	assert.Equal(t, "new", d.Changed["changed"].New)
}

func TestJSONDiffArrayOrderInsensitive(t *testing.T) {
	a := parseJSON(t, `{"items":[3,1,2]}`)
	b := parseJSON(t, `{"items":[1,2,3]}`)

	d := JSON(a, b)
	assert.True(t, d.Empty())
}

func TestJSONDiffNestedPath(t *testing.T) {
	a := parseJSON(t, `{"user":{"role":"user"}}`)
	b := parseJSON(t, `{"user":{"role":"admin"}}`)

	d := JSON(a, b)
	require.Contains(t, d.Changed, "user.role")
	assert.True(t, diffTouchesSensitiveField(d))
}

func TestJSONDiffArrayLengthMismatch(t *testing.T) {
	a := parseJSON(t, `[1,2]`)
	b := parseJSON(t, `[1,2,3]`)

	d := JSON(a, b)
	assert.Contains(t, d.Changed, "")
}

func TestCompareBodiesNonJSONFallback(t *testing.T) {
	d, hasDiff := compareBodies("plain text", "other text")
	require.True(t, hasDiff)
	assert.Contains(t, d.Changed, "")

	_, hasDiff = compareBodies("same", "same")
	assert.False(t, hasDiff)
}
