package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPath(t *testing.T) {
	root := RootPath()
	ok, err := Exists(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv/trac", "conf", "app.yaml"), Resolve("/srv/trac", filepath.Join("conf", "app.yaml")))
	assert.Equal(t, "/etc/trac.yaml", Resolve("/srv/trac", "/etc/trac.yaml"))
	assert.Equal(t, "", Resolve("/srv/trac", ""))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(file, []byte("users: []\n"), 0o600))

	ok, err := Exists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)
}
