// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_feed.go
// Summary: Byte classification and the printable-character path.
// Usage: Part of the Terminal emulator.

package term

// Control codes understood by Feed.
const (
	NUL byte = 0
	BEL byte = 7
	BS  byte = 8
	HT  byte = 9
	LF  byte = 10
	FF  byte = 12
	CR  byte = 13
	DC1 byte = 17 // backlight off
	DC2 byte = 18 // backlight on
	DC3 byte = 19 // cursor indicator off
	DC4 byte = 20 // cursor indicator on
	DEL byte = 127
)

// Feed processes a single byte. Unassigned codes, including other control
// bytes, are written as glyphs; the matrix decides how they look.
func (t *Terminal) Feed(c byte) {
	switch c {
	case NUL:
	case BEL:
		t.m.Alert()
	case BS:
		if t.cfg.SwapBackspaceDelete {
			t.del()
		} else {
			t.backspace()
		}
	case HT:
		t.tab()
	case LF:
		t.lineFeed()
	case FF:
		t.formFeed()
	case CR:
		t.carriageReturn()
	case DC1:
		t.m.BacklightOff()
	case DC2:
		t.m.BacklightOn()
	case DC3:
		t.m.CursorOff()
	case DC4:
		t.m.CursorOn()
	case DEL:
		if t.cfg.SwapBackspaceDelete {
			t.backspace()
		} else {
			t.del()
		}
	default:
		t.placeChar(c)
	}
}

// Print feeds s up to, but not including, the first zero byte.
func (t *Terminal) Print(s []byte) {
	for _, c := range s {
		if c == NUL {
			return
		}
		t.Feed(c)
	}
}

// PrintString is Print for strings.
func (t *Terminal) PrintString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == NUL {
			return
		}
		t.Feed(s[i])
	}
}

// Write feeds every byte of p, zeros included, and never fails.
func (t *Terminal) Write(p []byte) (int, error) {
	for _, c := range p {
		t.Feed(c)
	}
	return len(p), nil
}

// placeChar stores c at the cursor, draws it and advances, wrapping or
// scrolling when the cursor runs off the right edge.
func (t *Terminal) placeChar(c byte) {
	if t.row >= t.rows || t.cols == 0 {
		// Nothing sensible to do without a valid row.
		return
	}
	t.buf[t.row*t.cols+t.col] = c
	t.m.WriteCharAt(t.row, t.col, c)
	t.col++
	if t.col < t.cols {
		return
	}
	t.col = 0
	if t.row >= t.rows-1 {
		t.scrollUp()
	} else {
		t.row++
	}
	t.syncCursor()
}
