package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookiesAndHeaders(t *testing.T) {
	dir := t.TempDir()
	cookiePath := filepath.Join(dir, "cookies.json")
	headerPath := filepath.Join(dir, "headers.json")

	require.NoError(t, os.WriteFile(cookiePath, []byte(`[{"name":"session","value":"abc123"}]`), 0o644))
	require.NoError(t, os.WriteFile(headerPath, []byte(`{"X-Custom":"1"}`), 0o644))

	mat, err := Load(cookiePath, headerPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"session": "abc123"}, mat.AsMap())
	assert.Equal(t, "1", mat.Headers["X-Custom"])
}

func TestLoadEmptyPaths(t *testing.T) {
	mat, err := Load("", "")
	require.NoError(t, err)
	assert.Empty(t, mat.Cookies)
	assert.Nil(t, mat.Headers)
}
