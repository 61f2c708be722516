// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Built-in values used when charterm.json lacks a key.
// Notes: Mirrors defaults/charterm.json so a hand-trimmed file still works.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("display", Section{
		"driver":   "panel",
		"rows":     4,
		"cols":     20,
		"i2c_bus":  "",
		"i2c_addr": 0x27,
		"charsize": "5x8",
	})
	cfg.RegisterDefaults("terminal", Section{
		"lf_is_crlf":  true,
		"swap_bs_del": false,
		"banner":      "charterm\r\n(c) texelation",
	})
	cfg.RegisterDefaults("link", Section{
		"source":  "stdin",
		"device":  "/dev/ttyACM0",
		"baud":    57600,
		"command": "/bin/sh",
	})
	cfg.RegisterDefaults("capture", Section{
		"enabled": false,
		"path":    "",
	})
	cfg.RegisterDefaults("bell", Section{
		"audible":      false,
		"visual":       true,
		"frequency_hz": 880,
		"duration_ms":  150,
		"volume":       0.5,
		"flash_ms":     120,
	})
	cfg.RegisterDefaults("theme", Section{
		"lit_fg":   "black",
		"lit_bg":   "yellowgreen",
		"unlit_fg": "black",
		"unlit_bg": "darkolivegreen",
		"bezel":    "gray",
	})
}
