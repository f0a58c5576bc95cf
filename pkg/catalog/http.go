package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"aipster/internal/httputil"
	"aipster/internal/log"
	"aipster/pkg/manager"
)

// maxCatalogSize bounds how much of a response body is read.
const maxCatalogSize = 32 << 20

// HTTPSource fetches the catalog from a URL.
type HTTPSource struct {
	URL        string
	Client     *http.Client
	MaxRetries int // Retries on 429 and 5xx; 0 uses the default, -1 disables
}

// Name implements manager.CatalogSource.
func (s *HTTPSource) Name() string {
	return s.URL
}

// Fetch implements manager.CatalogSource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]manager.Package, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.URL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.URL,
			fmt.Errorf("failed to read response: %w", err))
	}

	pkgs, err := Decode(data, FormatFor(req.URL.Path))
	if err != nil {
		return nil, manager.NewError(manager.ErrCatalogFetchFailed, s.URL, err)
	}

	log.Debug("catalog: fetched %d packages from %s in %v", len(pkgs), s.URL, time.Since(start).Round(time.Millisecond))
	return pkgs, nil
}
