// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package theming

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/charterm/config"
	"github.com/framegrace/charterm/matrix/panel"
)

func TestForPanelWithoutThemeKeepsDefaults(t *testing.T) {
	if got, want := ForPanel(config.Config{}), panel.DefaultStyles(); got != want {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestForPanelAppliesColours(t *testing.T) {
	cfg := config.Config{}
	cfg.Set("theme", "lit_fg", "white")
	cfg.Set("theme", "lit_bg", "#0000ff")
	cfg.Set("theme", "unlit_bg", "navy")
	cfg.Set("theme", "bezel", "not-a-colour")

	styles := ForPanel(cfg)
	fg, bg, _ := styles.Lit.Decompose()
	if fg != tcell.ColorWhite {
		t.Fatalf("lit foreground: got %v", fg)
	}
	if bg != tcell.NewHexColor(0x0000ff) {
		t.Fatalf("lit background: got %v", bg)
	}
	if _, bg, _ := styles.Unlit.Decompose(); bg != tcell.ColorNavy {
		t.Fatalf("unlit background: got %v", bg)
	}
	if styles.Bezel != panel.DefaultStyles().Bezel {
		t.Fatal("unknown colour should leave the bezel alone")
	}
}
