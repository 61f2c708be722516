// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/harness_test.go
// Summary: Shared helpers for Terminal tests.

package term

import (
	"strings"
	"testing"

	"github.com/framegrace/charterm/matrix"
)

func newTestTerminal(t *testing.T, rows, cols int, cfg Config) (*Terminal, *matrix.Recorder) {
	t.Helper()
	rec := matrix.NewRecorder(rows, cols)
	term := New(rec, cfg)
	term.Init()
	rec.Reset()
	return term, rec
}

// line renders a buffered row as text, blanks shown as spaces.
func line(term *Terminal, row int) string {
	var sb strings.Builder
	for _, c := range term.Line(row) {
		sb.WriteByte(matrix.Glyph(c))
	}
	return sb.String()
}

func assertCursor(t *testing.T, term *Terminal, wantRow, wantCol int) {
	t.Helper()
	row, col := term.Cursor()
	if row != wantRow || col != wantCol {
		t.Fatalf("cursor: expected (%d,%d), got (%d,%d)", wantRow, wantCol, row, col)
	}
}

// assertMirror checks that every buffered cell matches what the recorder shows.
func assertMirror(t *testing.T, term *Terminal, rec *matrix.Recorder) {
	t.Helper()
	rows, cols := term.Size()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if got, want := rec.Cell(row, col), term.Cell(row, col); got != want {
				t.Fatalf("cell (%d,%d): matrix shows %q, buffer holds %q", row, col, got, want)
			}
		}
	}
}

func assertBlank(t *testing.T, term *Terminal) {
	t.Helper()
	rows, cols := term.Size()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if c := term.Cell(row, col); c != matrix.Blank {
				t.Fatalf("cell (%d,%d): expected blank, got %q", row, col, c)
			}
		}
	}
}
