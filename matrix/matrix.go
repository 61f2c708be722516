// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/matrix.go
// Summary: Capability interface for addressable character-cell displays.
// Usage: Implemented by display drivers, consumed by the term package.
// Notes: The interface has no error returns; drivers absorb their own faults.

// Package matrix describes the narrow surface a character LCD (or anything
// that looks like one) must expose so the terminal emulator can drive it.
package matrix

// Matrix is a fixed-size grid of character cells.
//
// Implementations do not need to track the cursor: the emulator always
// writes with an explicit position and repositions the cursor afterwards.
type Matrix interface {
	// Init performs hardware initialisation. Called once before any other
	// operation that touches the surface.
	Init()

	// Rows and Cols report the geometry. They must be stable for the
	// lifetime of the matrix.
	Rows() int
	Cols() int

	// WriteCharAt places c at (row, col). It must not wrap when col is
	// the last column. A zero byte renders as a space.
	WriteCharAt(row, col int, c byte)

	// SetCursor moves the visible cursor indicator to (row, col).
	SetCursor(row, col int)

	// Clear blanks the whole surface and homes the cursor.
	Clear()

	BacklightOn()
	BacklightOff()
	CursorOn()
	CursorOff()

	// Alert rings the bell, flashes, or does nothing if the device has
	// no way to attract attention.
	Alert()
}

// Blank is the cell value used for unwritten cells. It renders as a space.
const Blank byte = 0

// Glyph returns the byte a surface should display for cell value c.
func Glyph(c byte) byte {
	if c == Blank {
		return ' '
	}
	return c
}
