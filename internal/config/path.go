// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName names the config and data directories.
const AppName = "spend"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns $HOME/.config/spend.
func ConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DataDir returns $HOME/.local/share/spend.
func DataDir() string {
	return ExpandPath(filepath.Join("~", ".local", "share", AppName))
}

// DatabasePath resolves database.path, defaulting under DataDir.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(DataDir(), AppName+".db")
}
