// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for charterm configuration and data.

package config

import (
	"os"
	"path/filepath"
)

// Root returns the charterm configuration directory.
func Root() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "charterm"), nil
}

func systemConfigPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

// CapturePath resolves the capture database location: the configured
// path, or capture.db next to charterm.json.
func CapturePath(cfg Config) (string, error) {
	if p := cfg.GetString("capture", "path", ""); p != "" {
		return p, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "capture.db"), nil
}
