// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build linux

package link

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestRawInputKeepsInterruptSignal(t *testing.T) {
	tests := []struct {
		name  string
		lflag uint32
	}{
		{"cooked terminal", unix.ISIG | unix.ICANON | unix.ECHO | unix.ECHONL | unix.IEXTEN},
		{"signals already off", unix.ICANON | unix.ECHO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tio := unix.Termios{
				Iflag: unix.ICRNL | unix.IXON | unix.BRKINT,
				Oflag: unix.OPOST,
				Cflag: unix.CS7 | unix.PARENB,
				Lflag: tt.lflag,
			}
			rawInput(&tio)

			if tio.Lflag&unix.ISIG == 0 {
				t.Fatal("ISIG cleared: Ctrl-C would be drawn instead of interrupting")
			}
			if tio.Lflag&(unix.ICANON|unix.ECHO|unix.ECHONL|unix.IEXTEN) != 0 {
				t.Fatalf("line discipline left on: lflag %#x", tio.Lflag)
			}
			if tio.Iflag&(unix.ICRNL|unix.IXON|unix.BRKINT) != 0 {
				t.Fatalf("input translation left on: iflag %#x", tio.Iflag)
			}
			if tio.Oflag&unix.OPOST == 0 {
				t.Fatal("output processing should be untouched")
			}
			if tio.Cflag&unix.CSIZE != unix.CS8 || tio.Cflag&unix.PARENB != 0 {
				t.Fatalf("expected 8N1, got cflag %#x", tio.Cflag)
			}
			if tio.Cc[unix.VMIN] != 1 || tio.Cc[unix.VTIME] != 0 {
				t.Fatalf("expected blocking single-byte reads, got VMIN=%d VTIME=%d", tio.Cc[unix.VMIN], tio.Cc[unix.VTIME])
			}
		})
	}
}
