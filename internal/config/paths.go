package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"aipster/pkg/manifest"
)

const appName = "aipster"

// baseDir resolves a per-user directory. On Linux and other unixes the XDG
// variable wins, then ~/fallback. macOS and Windows use their native roots.
func baseDir(xdgVar, winVar string, fallback ...string) string {
	home, _ := os.UserHomeDir() //nolint:errcheck
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(os.Getenv(winVar), appName)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// ConfigDir is where config.toml lives.
func ConfigDir() string {
	return baseDir("XDG_CONFIG_HOME", "APPDATA", ".config")
}

// DataDir holds the history database and the TUI log.
func DataDir() string {
	return baseDir("XDG_DATA_HOME", "LOCALAPPDATA", ".local", "share")
}

func ConfigPath() string  { return filepath.Join(ConfigDir(), "config.toml") }
func HistoryPath() string { return filepath.Join(DataDir(), "history.db") }
func LogPath() string     { return filepath.Join(DataDir(), appName+".log") }

// DefaultManifestPath is the package list aip-man maintains under
// ~/Applications. Without a home directory it falls back to the bare name.
func DefaultManifestPath() string {
	path, err := manifest.DefaultPath()
	if err != nil {
		return manifest.FileName
	}
	return path
}

// ExpandHome replaces a leading "~" path element with the home directory.
// Anything else, URLs included, is returned unchanged.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// EnsureDataDir creates DataDir when missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}
