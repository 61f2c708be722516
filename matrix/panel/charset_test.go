// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestCharsetNarrow(t *testing.T) {
	cs := NewCharset(&runewidth.Condition{EastAsianWidth: false})
	tests := []struct {
		c    byte
		want rune
	}{
		{0x00, ' '},
		{'A', 'A'},
		{'~' - 1, '}'},
		{0x5C, '¥'},
		{0x7E, '→'},
		{0x7F, '←'},
		{0x11, ' '},
		{0x90, ' '},
		{0xA1, '｡'},
		{0xB1, 'ｱ'},
		{0xDF, '°'},
		{0xE0, 'α'},
		{0xF4, 'Ω'},
		{0xFF, '█'},
	}
	for _, tt := range tests {
		if got := cs.Rune(tt.c); got != tt.want {
			t.Errorf("byte %#x: expected %q, got %q", tt.c, tt.want, got)
		}
	}
}

func TestCharsetNeverWide(t *testing.T) {
	for _, eastAsian := range []bool{false, true} {
		cond := &runewidth.Condition{EastAsianWidth: eastAsian}
		cs := NewCharset(cond)
		for c := 0; c < 256; c++ {
			if w := cond.RuneWidth(cs.Rune(byte(c))); w != 1 {
				t.Fatalf("eastAsian=%v byte %#x: %q has width %d", eastAsian, c, cs.Rune(byte(c)), w)
			}
		}
	}
}

func TestCharsetKanjiFallsBack(t *testing.T) {
	cs := NewCharset(&runewidth.Condition{})
	if got := cs.Rune(0xFA); got != '#' {
		t.Fatalf("expected wide kanji to fall back, got %q", got)
	}
}
