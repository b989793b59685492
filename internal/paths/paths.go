// Package paths resolves where jd keeps its configuration and its data
// (catalog file and object store profiles).
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config and data
// roots.
const AppName = "jd"

// File and directory names inside the config and data directories.
const (
	ConfigFileName = "config.yaml"
	IndexFileName  = "index.json"
	ObjStoreDir    = "objstore"
	CacheDir       = "cache"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "JD_CONFIG_DIR"
	EnvDataDir   = "JD_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/jd (fallback ~/.config/jd)
// macOS:   ~/Library/Application Support/jd
// Windows: %APPDATA%/jd
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/jd (fallback ~/.local/share/jd)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > JD_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > JD_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// DefaultIndexPath is the catalog file inside dataDir.
func DefaultIndexPath(dataDir string) string {
	return filepath.Join(dataDir, IndexFileName)
}

// DefaultObjStoreDir is the directory holding object store profiles inside
// dataDir.
func DefaultObjStoreDir(dataDir string) string {
	return filepath.Join(dataDir, ObjStoreDir)
}

// DefaultCacheDir is where exported copies of items are placed inside
// dataDir.
func DefaultCacheDir(dataDir string) string {
	return filepath.Join(dataDir, CacheDir)
}
