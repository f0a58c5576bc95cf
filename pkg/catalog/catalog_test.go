package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aipster/internal/httputil"
	"aipster/pkg/manager"
)

const sampleJSON = `[
	{"name": "krita", "version": "5.2.2", "description": "Digital painting", "url": "https://example.com/krita.AppImage"},
	{"name": "inkscape", "version": "1.3", "description": "Vector graphics", "url": "https://example.com/inkscape.AppImage"}
]`

const sampleYAML = `
- name: krita
  version: 5.2.2
  description: Digital painting
  url: https://example.com/krita.AppImage
- name: inkscape
  version: "1.3"
  description: Vector graphics
  url: https://example.com/inkscape.AppImage
`

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func assertSample(t *testing.T, pkgs []manager.Package) {
	t.Helper()
	require.Len(t, pkgs, 2)
	assert.Equal(t, manager.Package{
		Name:        "krita",
		Version:     "5.2.2",
		Description: "Digital painting",
		URL:         "https://example.com/krita.AppImage",
	}, pkgs[0])
	assert.Equal(t, "inkscape", pkgs[1].Name)
	assert.Equal(t, "1.3", pkgs[1].Version)
}

func TestHTTPSourceFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pkgs.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer ts.Close()

	src := &HTTPSource{URL: ts.URL + "/pkgs.json", Client: ts.Client()}
	pkgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assertSample(t, pkgs)
	assert.Equal(t, ts.URL+"/pkgs.json", src.Name())
}

func TestHTTPSourceFetchYAML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleYAML))
	}))
	defer ts.Close()

	src := &HTTPSource{URL: ts.URL + "/pkgs.yaml", Client: ts.Client()}
	pkgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assertSample(t, pkgs)
}

func TestHTTPSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		retries int
	}{
		{name: "not found", status: http.StatusNotFound, body: "nope"},
		{name: "server error", status: http.StatusInternalServerError, body: "", retries: -1},
		{name: "bad json", status: http.StatusOK, body: `{"name": "krita"`},
		{name: "object instead of list", status: http.StatusOK, body: `{"name": "krita"}`},
		{name: "empty body", status: http.StatusOK, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			src := &HTTPSource{URL: ts.URL + "/pkgs.json", Client: ts.Client(), MaxRetries: tt.retries}
			pkgs, err := src.Fetch(context.Background())
			assert.Nil(t, pkgs)
			require.Error(t, err)
			assert.ErrorIs(t, err, manager.ErrCatalogFetchFailed)
		})
	}
}

func TestHTTPSourceNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	src := &HTTPSource{URL: url + "/pkgs.json"}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, manager.ErrCatalogFetchFailed)

	var merr *manager.Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, url+"/pkgs.json", merr.Op)
}

func TestHTTPSourceRetriesRateLimit(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer ts.Close()

	src := &HTTPSource{URL: ts.URL, Client: ts.Client(), MaxRetries: 2}
	pkgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assertSample(t, pkgs)
	assert.Equal(t, 2, calls)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "pkgs.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	yamlPath := filepath.Join(dir, "pkgs.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			pkgs, err := (&FileSource{Path: path}).Fetch(context.Background())
			require.NoError(t, err)
			assertSample(t, pkgs)
		})
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}).Fetch(context.Background())
	assert.ErrorIs(t, err, manager.ErrCatalogFetchFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeEmptyList(t *testing.T) {
	pkgs, err := Decode([]byte("[\n]"), FormatJSON)
	require.NoError(t, err)
	assert.NotNil(t, pkgs)
	assert.Empty(t, pkgs)

	pkgs, err = Decode([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestNew(t *testing.T) {
	tests := []struct {
		location string
		wantHTTP bool
		wantPath string
		wantErr  bool
	}{
		{location: "", wantHTTP: true},
		{location: "https://example.com/pkgs.json", wantHTTP: true},
		{location: "http://localhost:8080/pkgs.json", wantHTTP: true},
		{location: "file:///tmp/pkgs.json", wantPath: "/tmp/pkgs.json"},
		{location: "file://localhost/tmp/pkgs.json", wantPath: "/tmp/pkgs.json"},
		{location: "file://pkgs.json", wantPath: "pkgs.json"},
		{location: "file://data/pkgs.json", wantPath: "data/pkgs.json"},
		{location: "file:pkgs.json", wantPath: "pkgs.json"},
		{location: "file://", wantErr: true},
		{location: "/tmp/pkgs.yaml", wantPath: "/tmp/pkgs.yaml"},
		{location: "pkgs.json", wantPath: "pkgs.json"},
		{location: "ftp://example.com/pkgs.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			src, err := New(tt.location, nil, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantHTTP {
				h, ok := src.(*HTTPSource)
				require.True(t, ok)
				if tt.location == "" {
					assert.Equal(t, DefaultURL, h.URL)
				}
				return
			}

			f, ok := src.(*FileSource)
			require.True(t, ok)
			assert.Equal(t, tt.wantPath, f.Path)
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("pkgs.json"))
	assert.Equal(t, FormatYAML, FormatFor("pkgs.YAML"))
	assert.Equal(t, FormatYAML, FormatFor("/a/b/pkgs.yml"))
	assert.Equal(t, FormatJSON, FormatFor("/"))
}
