// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package matrix

import "testing"

func TestRecorderTracksSurface(t *testing.T) {
	r := NewRecorder(2, 3)
	var _ Matrix = r

	r.Init()
	r.WriteCharAt(0, 0, 'a')
	r.WriteCharAt(1, 2, 'z')
	r.WriteCharAt(2, 0, 'x')  // off the bottom
	r.WriteCharAt(0, -1, 'y') // off the left
	r.SetCursor(1, 1)
	r.BacklightOn()
	r.CursorOn()
	r.Alert()

	if !r.Initialized || !r.Backlight || !r.CursorVisible || r.Alerts != 1 {
		t.Fatalf("state not tracked: %+v", r)
	}
	if r.CursorRow != 1 || r.CursorCol != 1 {
		t.Fatalf("cursor at (%d,%d)", r.CursorRow, r.CursorCol)
	}
	if got := r.Lines(); got[0] != "a  " || got[1] != "  z" {
		t.Fatalf("unexpected lines %q", got)
	}
	if got := r.Count(OpWriteCharAt); got != 4 {
		t.Fatalf("expected out-of-range writes to be logged too, got %d", got)
	}
	if r.Cell(5, 5) != Blank {
		t.Fatal("out-of-range cell should read blank")
	}
}

func TestRecorderClearAndReset(t *testing.T) {
	r := NewRecorder(1, 2)
	r.WriteCharAt(0, 1, 'q')
	r.SetCursor(0, 1)
	r.BacklightOn()
	r.Clear()

	if r.Line(0) != "  " {
		t.Fatalf("expected blank row after Clear, got %q", r.Line(0))
	}
	if r.CursorRow != 0 || r.CursorCol != 0 {
		t.Fatal("Clear should home the cursor")
	}
	if !r.Backlight {
		t.Fatal("Clear must not touch the backlight")
	}

	r.WriteCharAt(0, 0, 'k')
	r.Reset()
	if len(r.Calls()) != 0 {
		t.Fatalf("expected empty log after Reset, got %v", r.Calls())
	}
	if r.Cell(0, 0) != 'k' {
		t.Fatal("Reset must keep surface state")
	}
}

func TestCallString(t *testing.T) {
	tests := []struct {
		call Call
		want string
	}{
		{Call{Op: OpWriteCharAt, Row: 1, Col: 2, Char: 'x'}, "WriteCharAt(1,2,'x')"},
		{Call{Op: OpSetCursor, Row: 3, Col: 4}, "SetCursor(3,4)"},
		{Call{Op: OpAlert}, "Alert"},
	}
	for _, tt := range tests {
		if got := tt.call.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestGlyph(t *testing.T) {
	if Glyph(Blank) != ' ' || Glyph('A') != 'A' || Glyph(0xDF) != 0xDF {
		t.Fatal("Glyph should only translate the blank cell")
	}
}
