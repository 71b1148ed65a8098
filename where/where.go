// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "DASHREEL_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It honours XDG_CONFIG_HOME on Linux and the equivalent user profile paths on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the DASHREEL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Dashreel))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Dashreel))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Folders resolves the path of the recently scanned folders registry.
func Folders() string {
	return filepath.Join(Config(), "folders.json")
}

// Durations resolves the path of the probed segment duration cache.
func Durations() string {
	return filepath.Join(Cache(), "durations.json")
}

// Temp resolves a volatile directory for transient artifacts such as concat lists and IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Dashreel))
}
