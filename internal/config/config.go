package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"aipster/pkg/catalog"
)

// DefaultCatalogURL is the package list published for aip-man.
const DefaultCatalogURL = catalog.DefaultURL

// Scorer names accepted in [search].
var validScorers = []string{"levenshtein", "subsequence"}

// Config represents the complete aipster configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Manifest ManifestConfig `toml:"manifest"`
	Executor ExecutorConfig `toml:"executor"`
	Search   SearchConfig   `toml:"search"`
	Output   OutputConfig   `toml:"output"`
}

// GeneralConfig contains general aipster settings.
type GeneralConfig struct {
	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun shows what would happen without executing when true.
	DryRun bool `toml:"dry_run"`

	// History records performed actions in the history database.
	History bool `toml:"history"`
}

// CatalogConfig describes where the package list comes from.
type CatalogConfig struct {
	// URL is an http(s) URL, a file:// URL or a local path.
	URL string `toml:"url"`

	// TimeoutSeconds bounds each HTTP request. 0 disables the timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// MaxRetries is how often rate-limited or failed requests are retried.
	// 0 uses the default of 3 and -1 disables retrying.
	MaxRetries int `toml:"max_retries"`
}

// ManifestConfig locates the installed package list.
type ManifestConfig struct {
	// Path overrides ~/Applications/aip_man_pkg_list.json. A leading ~ is
	// expanded.
	Path string `toml:"path"`
}

// ExecutorConfig describes how actions are carried out.
type ExecutorConfig struct {
	Binary      string `toml:"binary"`
	InstallVerb string `toml:"install_verb"`
	RemoveVerb  string `toml:"remove_verb"`
}

// SearchConfig selects the fuzzy scorer.
type SearchConfig struct {
	Scorer string `toml:"scorer"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			AutoConfirm: false,
			DryRun:      false,
			History:     true,
		},
		Catalog: CatalogConfig{
			URL:            DefaultCatalogURL,
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		Executor: ExecutorConfig{
			Binary:      "aip-man",
			InstallVerb: "install",
			RemoveVerb:  "remove",
		},
		Search: SearchConfig{
			Scorer: "levenshtein",
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
	}
}

// Load reads ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the TOML file at path over the defaults. A missing file
// yields the defaults; an invalid one is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveTo writes c as TOML, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Catalog.TimeoutSeconds < 0 {
		return fmt.Errorf("catalog.timeout_seconds must not be negative, got %d", c.Catalog.TimeoutSeconds)
	}
	if c.Catalog.MaxRetries < -1 {
		return fmt.Errorf("catalog.max_retries must be -1 (off) or more, got %d", c.Catalog.MaxRetries)
	}
	if c.Search.Scorer != "" && !contains(validScorers, c.Search.Scorer) {
		return fmt.Errorf("search.scorer must be one of %s, got %q", strings.Join(validScorers, ", "), c.Search.Scorer)
	}
	if strings.ContainsAny(c.Executor.Binary, " \t") && !filepath.IsAbs(c.Executor.Binary) {
		return fmt.Errorf("executor.binary must be a single command, got %q", c.Executor.Binary)
	}
	return nil
}

// ManifestPath returns the manifest location with ~ expanded.
func (c *Config) ManifestPath() string {
	if c.Manifest.Path == "" {
		return DefaultManifestPath()
	}
	return ExpandHome(c.Manifest.Path)
}

// CatalogLocation returns the catalog URL, or the expanded local path.
func (c *Config) CatalogLocation() string {
	if c.Catalog.URL == "" {
		return DefaultCatalogURL
	}
	return ExpandHome(c.Catalog.URL)
}

// ShouldUseColor is Output.Color unless NO_COLOR is set.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
