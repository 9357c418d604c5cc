package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_KeepsExistingValues(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TESTUTIL_A=from-file\nTESTUTIL_B=\"quoted\"\n"), 0o600))

	t.Setenv("TESTUTIL_A", "from-env")
	t.Setenv("TESTUTIL_B", "")
	require.NoError(t, os.Unsetenv("TESTUTIL_B"))

	LoadDotEnv(envPath)

	assert.Equal(t, "from-env", os.Getenv("TESTUTIL_A"))
	assert.Equal(t, "quoted", os.Getenv("TESTUTIL_B"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NotPanics(t, func() { LoadDotEnv(filepath.Join(t.TempDir(), "nope")) })
}

func TestFindModuleRoot(t *testing.T) {
	root := FindModuleRoot("")
	require.NotEmpty(t, root)
	assert.FileExists(t, filepath.Join(root, "go.mod"))
}
