package tokenfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileNotFound(t *testing.T) {
	tf, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Nil(t, tf)
	assert.NoError(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	expiry := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Save(path, &File{
		AccessToken: "ya29.abc",
		TokenType:   "Bearer",
		Expiry:      expiry,
		Scope:       "https://www.googleapis.com/auth/drive",
	}))

	tf, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, tf)
	assert.Equal(t, "ya29.abc", tf.AccessToken)
	assert.Equal(t, "Bearer", tf.TokenType)
	assert.True(t, tf.Expiry.Equal(expiry))
	assert.Equal(t, "https://www.googleapis.com/auth/drive", tf.Scope)
	assert.False(t, tf.SavedAt.IsZero())
}

func TestSave_KeepsExplicitSavedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	savedAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	require.NoError(t, Save(path, &File{AccessToken: "a", SavedAt: savedAt}))

	tf, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tf.SavedAt.Equal(savedAt))
}

func TestSave_RejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	assert.Error(t, Save(path, nil))
	assert.Error(t, Save(path, &File{}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSave_CreatesDirectoryAndRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}

	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
	require.NoError(t, Save(path, &File{AccessToken: "a"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DirPerms), dirInfo.Mode().Perm())
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")

	require.NoError(t, Save(path, &File{AccessToken: "first"}))
	require.NoError(t, Save(path, &File{AccessToken: "second"}))

	tf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "second", tf.AccessToken)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "token.json", entries[0].Name())
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json}`), 0o600))

	tf, err := Load(path)
	assert.Nil(t, tf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestLoad_MissingAccessToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token_type":"Bearer"}`), 0o600))

	tf, err := Load(path)
	assert.Nil(t, tf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login required")
}

func TestFile_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Hour), true},
		{"exactly now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{AccessToken: "a", Expiry: tt.expiry}
			assert.Equal(t, tt.want, f.Expired(now))
		})
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, Save(path, &File{AccessToken: "a"}))

	removed, err := Remove(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = Remove(path)
	require.NoError(t, err)
	assert.False(t, removed)
}
