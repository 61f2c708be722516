// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/recorder.go
// Summary: In-memory Matrix that records calls and mirrors the surface.
// Usage: Test double for the emulator and for host wiring tests.

package matrix

import (
	"fmt"
	"strings"
)

// Op identifies a Matrix method.
type Op int

const (
	OpInit Op = iota
	OpWriteCharAt
	OpSetCursor
	OpClear
	OpBacklightOn
	OpBacklightOff
	OpCursorOn
	OpCursorOff
	OpAlert
)

var opNames = [...]string{
	OpInit:         "Init",
	OpWriteCharAt:  "WriteCharAt",
	OpSetCursor:    "SetCursor",
	OpClear:        "Clear",
	OpBacklightOn:  "BacklightOn",
	OpBacklightOff: "BacklightOff",
	OpCursorOn:     "CursorOn",
	OpCursorOff:    "CursorOff",
	OpAlert:        "Alert",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Call is a single recorded Matrix invocation. Row, Col and Char are only
// meaningful for the ops that take them.
type Call struct {
	Op   Op
	Row  int
	Col  int
	Char byte
}

func (c Call) String() string {
	switch c.Op {
	case OpWriteCharAt:
		return fmt.Sprintf("%s(%d,%d,%q)", c.Op, c.Row, c.Col, c.Char)
	case OpSetCursor:
		return fmt.Sprintf("%s(%d,%d)", c.Op, c.Row, c.Col)
	default:
		return c.Op.String()
	}
}

// Recorder implements Matrix without hardware. Besides the call log it
// keeps the state a real panel would show, so tests can compare it with
// the emulator's own buffer.
type Recorder struct {
	rows, cols int
	cells      []byte
	calls      []Call

	CursorRow, CursorCol int
	Backlight            bool
	CursorVisible        bool
	Alerts               int
	Initialized          bool
}

// NewRecorder returns a blank recorder with the given geometry.
func NewRecorder(rows, cols int) *Recorder {
	return &Recorder{
		rows:  rows,
		cols:  cols,
		cells: make([]byte, rows*cols),
	}
}

func (r *Recorder) record(c Call) { r.calls = append(r.calls, c) }

func (r *Recorder) Init() {
	r.record(Call{Op: OpInit})
	r.Initialized = true
}

func (r *Recorder) Rows() int { return r.rows }
func (r *Recorder) Cols() int { return r.cols }

func (r *Recorder) WriteCharAt(row, col int, c byte) {
	r.record(Call{Op: OpWriteCharAt, Row: row, Col: col, Char: c})
	if row < 0 || row >= r.rows || col < 0 || col >= r.cols {
		return
	}
	r.cells[row*r.cols+col] = c
}

func (r *Recorder) SetCursor(row, col int) {
	r.record(Call{Op: OpSetCursor, Row: row, Col: col})
	r.CursorRow, r.CursorCol = row, col
}

func (r *Recorder) Clear() {
	r.record(Call{Op: OpClear})
	clear(r.cells)
	r.CursorRow, r.CursorCol = 0, 0
}

func (r *Recorder) BacklightOn() {
	r.record(Call{Op: OpBacklightOn})
	r.Backlight = true
}

func (r *Recorder) BacklightOff() {
	r.record(Call{Op: OpBacklightOff})
	r.Backlight = false
}

func (r *Recorder) CursorOn() {
	r.record(Call{Op: OpCursorOn})
	r.CursorVisible = true
}

func (r *Recorder) CursorOff() {
	r.record(Call{Op: OpCursorOff})
	r.CursorVisible = false
}

func (r *Recorder) Alert() {
	r.record(Call{Op: OpAlert})
	r.Alerts++
}

// Calls returns the recorded calls since the last Reset.
func (r *Recorder) Calls() []Call { return r.calls }

// Count returns how many times op was called since the last Reset.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the call log. Surface state is kept.
func (r *Recorder) Reset() { r.calls = r.calls[:0] }

// Cell returns the raw value last written at (row, col).
func (r *Recorder) Cell(row, col int) byte {
	if row < 0 || row >= r.rows || col < 0 || col >= r.cols {
		return Blank
	}
	return r.cells[row*r.cols+col]
}

// Line returns row as display text, blanks rendered as spaces.
func (r *Recorder) Line(row int) string {
	var sb strings.Builder
	for col := 0; col < r.cols; col++ {
		sb.WriteByte(Glyph(r.Cell(row, col)))
	}
	return sb.String()
}

// Lines returns every row as display text.
func (r *Recorder) Lines() []string {
	out := make([]string, r.rows)
	for row := range out {
		out[row] = r.Line(row)
	}
	return out
}
