package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aipster/pkg/manager"
)

func TestGetBootstrapsMissingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Applications", FileName)
	store := Open(path)

	pkgs, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pkgs)
	assert.Empty(t, pkgs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n]", string(data))

	// A second read sees the bootstrapped file.
	pkgs, err = store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestGetExistingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "krita", "version": "5.1", "description": "Painting", "url": "https://example.com/krita"},
		{"name": "inkscape", "version": "1.3", "description": "", "url": ""}
	]`), 0o644))

	pkgs, err := Open(path).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []manager.Package{
		{Name: "krita", Version: "5.1", Description: "Painting", URL: "https://example.com/krita"},
		{Name: "inkscape", Version: "1.3"},
	}, pkgs)
}

func TestGetCorruptManifest(t *testing.T) {
	for name, content := range map[string]string{
		"truncated": `[{"name": "krita"`,
		"object":    `{"name": "krita"}`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			pkgs, err := Open(path).Get(context.Background())
			assert.Nil(t, pkgs)
			assert.ErrorIs(t, err, manager.ErrManifestReadFailed)
		})
	}
}

func TestGetNullManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	pkgs, err := Open(path).Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pkgs)
	assert.Empty(t, pkgs)
}

func TestGetUnreadableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The parent "directory" is a regular file.
	_, err := Open(filepath.Join(blocker, FileName)).Get(context.Background())
	assert.ErrorIs(t, err, manager.ErrManifestReadFailed)
}

func TestGetWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	other := flock.New(path + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	_, err = Open(path).Get(ctx)
	assert.ErrorIs(t, err, manager.ErrManifestReadFailed)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/x/y.json", Open("/x/y.json").Path())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", "Applications", FileName), path)
}
