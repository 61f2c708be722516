// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/stdin_linux.go
// Summary: Raw keyboard input that still delivers Ctrl-C as a signal.

//go:build linux

package link

import "golang.org/x/sys/unix"

// makeRawKeepSignals switches fd to byte-at-a-time input without echo or
// line editing. ISIG stays on so Ctrl-C interrupts the process instead of
// reaching the display as a glyph.
func makeRawKeepSignals(fd int) (func() error, error) {
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	old := *tio
	rawInput(tio)
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		return nil, err
	}
	return func() error { return unix.IoctlSetTermios(fd, unix.TCSETS, &old) }, nil
}

// rawInput is term.MakeRaw minus the ISIG and OPOST changes.
func rawInput(tio *unix.Termios) {
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	tio.Lflag |= unix.ISIG
	tio.Cflag &^= unix.CSIZE | unix.PARENB
	tio.Cflag |= unix.CS8
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0
}
