// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: Minimal byte-driven terminal emulator for character matrices.
// Usage: Construct with New, call Init, then Feed bytes in arrival order.
// Notes: Keeps an in-memory mirror of the display so it can scroll by repaint.

// Package term turns a byte stream into cursor movement, wrapping,
// scrolling and control-code actions on a matrix.Matrix.
//
// A Terminal is not safe for concurrent use. One goroutine owns it and
// feeds it bytes in the order they arrive.
package term

import "github.com/framegrace/charterm/matrix"

// TabStride is the spacing between tab stops.
const TabStride = 5

// Flag bits accepted by FlagsConfig.
const (
	FlagLFIsCRLF  uint8 = 0x01
	FlagSwapBSDel uint8 = 0x02
	FlagNormal    uint8 = 0x00
)

// Config selects the configurable control-code semantics.
type Config struct {
	// LineFeedIsCRLF makes LF perform a carriage return first.
	LineFeedIsCRLF bool
	// SwapBackspaceDelete exchanges the meaning of BS (8) and DEL (127).
	SwapBackspaceDelete bool
}

// FlagsConfig builds a Config from a flag word. Each bit only enables its
// own behaviour.
func FlagsConfig(flags uint8) Config {
	return Config{
		LineFeedIsCRLF:      flags&FlagLFIsCRLF != 0,
		SwapBackspaceDelete: flags&FlagSwapBSDel != 0,
	}
}

// Terminal tracks the logical cursor and screen contents for a matrix.
type Terminal struct {
	m          matrix.Matrix
	cfg        Config
	rows, cols int
	row, col   int
	buf        []byte
}

// New queries the matrix geometry and allocates a blank screen buffer.
// It does not touch the hardware; call Init for that.
func New(m matrix.Matrix, cfg Config) *Terminal {
	rows, cols := m.Rows(), m.Cols()
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Terminal{
		m:    m,
		cfg:  cfg,
		rows: rows,
		cols: cols,
		buf:  make([]byte, rows*cols),
	}
}

// Init clears the buffer, initialises and clears the matrix, and homes
// the cursor.
func (t *Terminal) Init() {
	t.clearBuffer()
	t.m.Init()
	t.m.Clear()
	t.Home()
}

// Config returns the control-code configuration fixed at construction.
func (t *Terminal) Config() Config { return t.cfg }

// Size returns the geometry reported by the matrix at construction.
func (t *Terminal) Size() (rows, cols int) { return t.rows, t.cols }

// Cursor returns the logical cursor position.
func (t *Terminal) Cursor() (row, col int) { return t.row, t.col }

// Cell returns the buffered value at (row, col), or matrix.Blank when
// the position is outside the screen.
func (t *Terminal) Cell(row, col int) byte {
	if !t.inBounds(row, col) {
		return matrix.Blank
	}
	return t.buf[row*t.cols+col]
}

// Line returns a copy of the buffered contents of row.
func (t *Terminal) Line(row int) []byte {
	if row < 0 || row >= t.rows {
		return nil
	}
	return append([]byte(nil), t.buf[row*t.cols:(row+1)*t.cols]...)
}

// BacklightOn, BacklightOff, CursorOn and CursorOff forward to the matrix.
func (t *Terminal) BacklightOn()  { t.m.BacklightOn() }
func (t *Terminal) BacklightOff() { t.m.BacklightOff() }
func (t *Terminal) CursorOn()     { t.m.CursorOn() }
func (t *Terminal) CursorOff()    { t.m.CursorOff() }

func (t *Terminal) inBounds(row, col int) bool {
	return row >= 0 && row < t.rows && col >= 0 && col < t.cols
}
