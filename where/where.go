// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "MEDIABRIDGE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the MEDIABRIDGE_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Mediabridge))
}

// State resolves the directory holding data that must survive restarts, such as the session journal.
func State() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "state")
	}
	return ensureDir(filepath.Join(base, constant.Mediabridge))
}

// Logs resolves the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sessions resolves the path of the journal of live media ids.
func Sessions() string {
	return filepath.Join(State(), "sessions.json")
}

// Temp resolves a volatile directory for sockets and other transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Mediabridge))
}
