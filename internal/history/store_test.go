package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"aipster/pkg/manager"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenAt(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// recordAt stores an install entry for name with the given age.
func recordAt(t *testing.T, store *Store, name string, age time.Duration) *Entry {
	t.Helper()
	e := NewEntry(manager.ActionInstall, name)
	e.Timestamp = time.Now().Add(-age)
	require.NoError(t, store.Record(e))
	return e
}

func TestOpenUsesDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	store, err := Open()
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, filepath.Join(dir, "aipster", "history.db"))
}

func TestRecordAndCount(t *testing.T) {
	store := openStore(t)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	recordAt(t, store, "krita", 0)
	n, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordSameInstant(t *testing.T) {
	store := openStore(t)

	ts := time.Now()
	for _, name := range []string{"a", "b"} {
		e := NewEntry(manager.ActionRemove, name)
		e.Timestamp = ts
		require.NoError(t, store.Record(e))
	}

	n, _ := store.Count()
	assert.Equal(t, 2, n)
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		recordAt(t, store, name, time.Duration(5-i)*time.Minute)
	}

	all, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "e", all[0].Package)
	assert.Equal(t, "a", all[4].Package)

	limited, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestListSkipsUndecodable(t *testing.T) {
	store := openStore(t)
	recordAt(t, store, "krita", 0)

	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte("zzz"), []byte("{not json"))
	}))

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "krita", entries[0].Package)
}

func TestForPackage(t *testing.T) {
	store := openStore(t)
	for i, name := range []string{"krita", "gimp", "krita", "krita"} {
		recordAt(t, store, name, time.Duration(4-i)*time.Minute)
	}

	entries, err := store.ForPackage("krita", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, _ = store.ForPackage("krita", 2)
	assert.Len(t, entries, 2)

	entries, _ = store.ForPackage("inkscape", 0)
	assert.Empty(t, entries)
}

func TestLast(t *testing.T) {
	store := openStore(t)

	last, err := store.Last()
	require.NoError(t, err)
	assert.Nil(t, last)

	recordAt(t, store, "krita", time.Minute)
	failed := NewEntry(manager.ActionRemove, "gimp")
	failed.Complete(manager.Outcome{Stderr: "gimp is busy"}, errors.New("action execution failed"))
	require.NoError(t, store.Record(failed))

	last, err = store.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, failed.ID, last.ID)
	assert.Equal(t, "gimp is busy", last.Output)
	assert.False(t, last.Success)
}

func TestClear(t *testing.T) {
	store := openStore(t)
	for range 3 {
		recordAt(t, store, "pkg", 0)
	}

	require.NoError(t, store.Clear())
	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	// The bucket is usable again after clearing.
	recordAt(t, store, "pkg", 0)
	n, _ = store.Count()
	assert.Equal(t, 1, n)
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	recordAt(t, store, "ancient", 72*time.Hour)
	recordAt(t, store, "old", 48*time.Hour)
	recordAt(t, store, "fresh", time.Hour)

	deleted, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Package)

	deleted, err = store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSaveReleasesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for _, name := range []string{"krita", "gimp"} {
		require.NoError(t, Save(path, NewEntry(manager.ActionInstall, name)))
	}

	store, err := OpenAt(path)
	require.NoError(t, err)
	defer store.Close()

	n, _ := store.Count()
	assert.Equal(t, 2, n)
}
