// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_scroll.go
// Summary: Scroll-by-repaint for matrices without hardware scrolling.
// Usage: Part of the Terminal emulator.

package term

// scrollUp shifts the buffer up one row, blanks the last row and repaints
// the whole matrix. The cursor row is left unchanged.
func (t *Terminal) scrollUp() {
	if t.rows == 0 {
		return
	}
	copy(t.buf, t.buf[t.cols:])
	clear(t.buf[(t.rows-1)*t.cols:])
	t.repaint()
	t.syncCursor()
}

// repaint clears the matrix and writes every buffered cell back to it.
func (t *Terminal) repaint() {
	t.m.Clear()
	for row := 0; row < t.rows; row++ {
		base := row * t.cols
		for col := 0; col < t.cols; col++ {
			t.m.WriteCharAt(row, col, t.buf[base+col])
		}
	}
}
