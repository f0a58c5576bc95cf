// Package manifest reads the local list of installed packages maintained by
// aip-man.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"aipster/internal/log"
	"aipster/pkg/manager"
)

// FileName is the manifest's name inside the applications directory.
const FileName = "aip_man_pkg_list.json"

// emptyManifest is what aip-man itself writes for a fresh install.
var emptyManifest = []byte("[\n]")

// lockRetryDelay is how often a held lock is polled.
const lockRetryDelay = 50 * time.Millisecond

// Store is a JSON manifest file guarded by a sibling lock file.
type Store struct {
	path string
	lock *flock.Flock
}

// Open returns a store for the manifest at path. Nothing is touched on disk
// until Get is called.
func Open(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// DefaultPath returns ~/Applications/aip_man_pkg_list.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Applications", FileName), nil
}

// Path implements manager.ManifestStore.
func (s *Store) Path() string {
	return s.path
}

// Get implements manager.ManifestStore. When the manifest does not exist, an
// empty one is created (along with its directory) and an empty list is
// returned.
func (s *Store) Get(ctx context.Context) ([]manager.Package, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, manager.NewError(manager.ErrManifestReadFailed, s.path, err)
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, manager.NewError(manager.ErrManifestReadFailed, s.path,
			fmt.Errorf("failed to lock manifest: %w", err))
	}
	if !locked {
		return nil, manager.NewError(manager.ErrManifestReadFailed, s.path,
			errors.New("manifest is locked by another process"))
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			log.Warn("manifest: failed to release lock: %v", err)
		}
	}()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("manifest: %s does not exist, creating", s.path)
		if err := bootstrap(s.path); err != nil {
			return nil, manager.NewError(manager.ErrManifestReadFailed, s.path, err)
		}
		return []manager.Package{}, nil
	}
	if err != nil {
		return nil, manager.NewError(manager.ErrManifestReadFailed, s.path, err)
	}

	var pkgs []manager.Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		return nil, manager.NewError(manager.ErrManifestReadFailed, s.path,
			fmt.Errorf("failed to parse manifest: %w", err))
	}
	if pkgs == nil {
		pkgs = []manager.Package{}
	}

	log.Debug("manifest: read %d installed packages from %s", len(pkgs), s.path)
	return pkgs, nil
}

// bootstrap writes an empty manifest atomically.
func bootstrap(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(emptyManifest); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
