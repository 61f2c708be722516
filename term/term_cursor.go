// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_cursor.go
// Summary: Cursor positioning and non-wrapping cursor motion.
// Usage: Part of the Terminal emulator.

package term

// SetCursor moves the cursor to (row, col). Out-of-range positions are
// ignored.
func (t *Terminal) SetCursor(row, col int) {
	if !t.inBounds(row, col) {
		return
	}
	t.row, t.col = row, col
	t.m.SetCursor(row, col)
}

// Home moves the cursor to the top-left cell.
func (t *Terminal) Home() {
	t.row, t.col = 0, 0
	t.m.SetCursor(0, 0)
}

// syncCursor repositions the hardware cursor at the logical cursor.
func (t *Terminal) syncCursor() {
	t.m.SetCursor(t.row, t.col)
}

// carriageReturn moves to column 0 of the current row.
func (t *Terminal) carriageReturn() {
	t.col = 0
	t.syncCursor()
}

// lineFeed moves down one row, scrolling when already on the last row.
func (t *Terminal) lineFeed() {
	if t.cfg.LineFeedIsCRLF {
		t.carriageReturn()
	}
	if t.row < t.rows-1 {
		t.row++
	} else {
		t.scrollUp()
	}
	t.syncCursor()
}

// backspace moves one column left. It does not wrap to the previous row.
func (t *Terminal) backspace() {
	if t.col > 0 {
		t.col--
		t.syncCursor()
	}
}

// del blanks the cell left of the cursor and leaves the cursor on it.
func (t *Terminal) del() {
	t.backspace()
	t.Feed(' ')
	t.backspace()
}

// tab prints at least one space, then keeps going until the column is a
// multiple of TabStride.
func (t *Terminal) tab() {
	for {
		t.Feed(' ')
		if t.col%TabStride == 0 {
			return
		}
	}
}
