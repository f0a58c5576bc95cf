// Package catalog implements catalog sources: the remote package list served
// over HTTP, and local JSON or YAML copies of it.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"aipster/pkg/manager"
)

// DefaultURL is the package list published for aip-man.
const DefaultURL = "https://raw.githubusercontent.com/blueOkiris/aip-man-pkg-list/main/pkgs.json"

// Format is the encoding of a catalog document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor infers the format from a file name or URL path.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// New returns the source for location. http(s) URLs are fetched with client
// (http.DefaultClient when nil); file:// URLs and plain paths are read from
// disk. An empty location selects DefaultURL.
func New(location string, client *http.Client, maxRetries int) (manager.CatalogSource, error) {
	if location == "" {
		location = DefaultURL
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return &HTTPSource{URL: location, Client: client, MaxRetries: maxRetries}, nil
		case "file":
			return fileURL(u)
		}
	}

	if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("unsupported catalog scheme %q", u.Scheme)
	}

	// Windows drive letters parse as one-letter schemes.
	return &FileSource{Path: location}, nil
}

// fileURL maps a file URL to a local path. "file://pkgs.json" puts the
// name in the host, so a host other than localhost starts a relative path.
func fileURL(u *url.URL) (manager.CatalogSource, error) {
	path := u.Path
	if u.Host != "" && u.Host != "localhost" {
		path = u.Host + u.Path
	}
	if u.Opaque != "" {
		path = u.Opaque
	}
	if path == "" {
		return nil, fmt.Errorf("catalog location %q names no file", u.String())
	}
	return &FileSource{Path: path}, nil
}

// Decode parses a catalog document: a top-level list of package records.
func Decode(data []byte, format Format) ([]manager.Package, error) {
	var pkgs []manager.Package

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &pkgs); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("failed to parse catalog: empty document")
		}
		if err := json.Unmarshal(data, &pkgs); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	}

	if pkgs == nil {
		pkgs = []manager.Package{}
	}
	return pkgs, nil
}
