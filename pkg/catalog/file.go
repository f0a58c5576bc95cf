package catalog

import (
	"context"
	"os"

	"aipster/internal/log"
	"aipster/pkg/manager"
)

// FileSource reads the catalog from a local JSON or YAML file, chosen by
// extension.
type FileSource struct {
	Path string
}

// Name implements manager.CatalogSource.
func (s *FileSource) Name() string {
	return s.Path
}

// Fetch implements manager.CatalogSource.
func (s *FileSource) Fetch(ctx context.Context) ([]manager.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.Path, err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.Path, err)
	}

	pkgs, err := Decode(data, FormatFor(s.Path))
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.Path, err)
	}

	log.Debug("catalog: read %d packages from %s", len(pkgs), s.Path)
	return pkgs, nil
}
