// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_clear.go
// Summary: Screen clearing and form feed.
// Usage: Part of the Terminal emulator.

package term

// Clear blanks the matrix and the buffer and homes the cursor.
func (t *Terminal) Clear() {
	t.m.Clear()
	t.clearBuffer()
	t.Home()
}

// formFeed is Clear triggered from the byte stream.
func (t *Terminal) formFeed() {
	t.Clear()
}

func (t *Terminal) clearBuffer() {
	clear(t.buf)
}
