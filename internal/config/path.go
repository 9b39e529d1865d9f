package config

import (
	"os"
	"path/filepath"
	"strings"
)

// SystemConfigPath is the fixed location for machine-wide defaults. Unlike
// the user path it has no XDG override: it is always /etc/voxtype/config.toml.
const SystemConfigPath = "/etc/voxtype/config.toml"

// UserConfigPath applies CLI/XDG/home fallback rules for the per-user config
// location.
func UserConfigPath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "voxtype", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "voxtype", "config.toml"), nil
}
