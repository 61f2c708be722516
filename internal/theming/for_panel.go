// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/theming/for_panel.go
// Summary: Panel colours from the theme section of charterm.json.

package theming

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/charterm/config"
	"github.com/framegrace/charterm/matrix/panel"
)

// ForPanel returns the default panel styles with any colours named in the
// theme section applied. Unknown colour names are logged and skipped.
func ForPanel(cfg config.Config) panel.Styles {
	styles := panel.DefaultStyles()
	section := cfg.Section("theme")
	if len(section) == 0 {
		return styles
	}
	if c, ok := color(cfg, "lit_fg"); ok {
		styles.Lit = styles.Lit.Foreground(c)
	}
	if c, ok := color(cfg, "lit_bg"); ok {
		styles.Lit = styles.Lit.Background(c)
	}
	if c, ok := color(cfg, "unlit_fg"); ok {
		styles.Unlit = styles.Unlit.Foreground(c)
	}
	if c, ok := color(cfg, "unlit_bg"); ok {
		styles.Unlit = styles.Unlit.Background(c)
	}
	if c, ok := color(cfg, "bezel"); ok {
		styles.Bezel = styles.Bezel.Foreground(c)
	}
	return styles
}

// color accepts W3C names and #rrggbb.
func color(cfg config.Config, key string) (tcell.Color, bool) {
	name := cfg.GetString("theme", key, "")
	if name == "" {
		return tcell.ColorDefault, false
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		log.Printf("Theme: Unknown colour %q for %s", name, key)
		return c, false
	}
	return c, true
}
