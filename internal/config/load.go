package config

import (
	"errors"
	"fmt"
	"os"
)

// Loaded captures the resolved config path, the merged configuration, and
// any non-fatal warnings collected while assembling it.
type Loaded struct {
	UserPath string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves the user config path, reads the system and user config
// files (if present), reads the environment, applies the CLI overlay on
// top, and validates the result. Missing files are not an error: their
// layer is simply empty.
func Load(explicitUserPath string, cli Partial) (Loaded, error) {
	userPath, err := UserConfigPath(explicitUserPath)
	if err != nil {
		return Loaded{}, fmt.Errorf("resolve config path: %w", err)
	}

	warnings := make([]Warning, 0)

	systemPartial, systemExists, systemWarnings, err := readLayer(SystemConfigPath, "system")
	if err != nil {
		return Loaded{}, err
	}
	warnings = append(warnings, systemWarnings...)

	userPartial, userExists, userWarnings, err := readLayer(userPath, "user")
	if err != nil {
		return Loaded{}, err
	}
	warnings = append(warnings, userWarnings...)

	envPartial, err := LookupEnviron()
	if err != nil {
		return Loaded{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg := Merge(Default(), systemPartial, userPartial, envPartial, cli)

	validateWarnings, err := Validate(cfg)
	if err != nil {
		return Loaded{}, fmt.Errorf("validate config: %w", err)
	}
	warnings = append(warnings, validateWarnings...)

	return Loaded{
		UserPath: userPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   systemExists || userExists,
	}, nil
}

// readLayer reads and parses one config file layer, tagging its warnings
// with the layer name. A missing file yields a zero Partial, not an error.
func readLayer(path, layer string) (Partial, bool, []Warning, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Partial{}, false, nil, nil
		}
		return Partial{}, false, nil, fmt.Errorf("read %s config %q: %w", layer, path, err)
	}

	partial, warnings, err := ParseFile(string(content))
	if err != nil {
		return Partial{}, false, nil, fmt.Errorf("parse %s config %q: %w", layer, path, err)
	}
	for i := range warnings {
		warnings[i].Layer = layer
	}

	return partial, true, warnings, nil
}
