// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/panel/charset.go
// Summary: HD44780 A00 character ROM mapped to Unicode for on-screen rendering.

package panel

import "github.com/mattn/go-runewidth"

// romGlyph pairs the Unicode look-alike for a ROM cell with an ASCII
// fallback for terminals that would draw it wider than one cell.
type romGlyph struct {
	r        rune
	fallback rune
}

// A00 upper half, 0xE0..0xFF.
var a00High = [32]romGlyph{
	{'α', 'a'}, {'ä', 'a'}, {'β', 'B'}, {'ε', 'e'}, {'μ', 'u'}, {'σ', 'o'}, {'ρ', 'p'}, {'g', 'g'},
	{'√', 'V'}, {'¹', '1'}, {'j', 'j'}, {'ˣ', 'x'}, {'¢', 'c'}, {'£', 'L'}, {'ñ', 'n'}, {'ö', 'o'},
	{'p', 'p'}, {'q', 'q'}, {'θ', '0'}, {'∞', '8'}, {'Ω', 'O'}, {'ü', 'u'}, {'Σ', 'E'}, {'π', 'n'},
	{'x', 'x'}, {'y', 'y'}, {'千', '#'}, {'万', '#'}, {'円', '#'}, {'÷', '/'}, {' ', ' '}, {'█', '#'},
}

// Charset maps matrix byte values to the runes the panel draws.
type Charset [256]rune

// NewCharset builds the A00 table. Any look-alike that cond measures as
// anything other than a single cell is replaced by its ASCII fallback so
// the panel grid never shifts. A nil cond uses runewidth.DefaultCondition.
func NewCharset(cond *runewidth.Condition) *Charset {
	if cond == nil {
		cond = runewidth.DefaultCondition
	}
	var cs Charset
	set := func(c int, g romGlyph) {
		if cond.RuneWidth(g.r) == 1 {
			cs[c] = g.r
		} else {
			cs[c] = g.fallback
		}
	}
	for c := 0; c < 256; c++ {
		switch {
		case c == 0:
			cs[c] = ' '
		case c < 0x08:
			// CGRAM slots; custom glyphs are not modelled on screen.
			set(c, romGlyph{'▒', '%'})
		case c < 0x20:
			cs[c] = ' '
		case c == 0x5C:
			set(c, romGlyph{'¥', 'Y'})
		case c == 0x7E:
			set(c, romGlyph{'→', '>'})
		case c == 0x7F:
			set(c, romGlyph{'←', '<'})
		case c < 0x80:
			cs[c] = rune(c)
		case c < 0xA1:
			cs[c] = ' '
		case c == 0xDF:
			set(c, romGlyph{'°', 'o'})
		case c < 0xE0:
			// JIS X 0201 katakana lines up with the halfwidth forms block.
			set(c, romGlyph{rune(0xFF61 + c - 0xA1), '?'})
		default:
			set(c, a00High[c-0xE0])
		}
	}
	return &cs
}

// Rune returns the rune drawn for c.
func (cs *Charset) Rune(c byte) rune { return cs[c] }
