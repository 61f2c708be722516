// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/serial_linux.go
// Summary: Serial device setup: raw mode and line speed via termios.

//go:build linux

package link

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var baudRates = map[int]uint32{
	1200:    unix.B1200,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
}

func openSerial(device string, baud int) (*Conn, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("serial %s: unsupported baud rate %d", device, baud)
	}
	f, err := os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	fd := int(f.Fd())

	old, err := term.MakeRaw(fd)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("raw mode on %s: %w", device, err)
	}
	if err := setSpeed(fd, speed); err != nil {
		term.Restore(fd, old)
		f.Close()
		return nil, fmt.Errorf("set %d baud on %s: %w", baud, device, err)
	}

	return &Conn{
		Reader: f,
		Writer: f,
		label:  fmt.Sprintf("%s %s@%d", SourceSerial, device, baud),
		closer: func() error {
			term.Restore(fd, old)
			return f.Close()
		},
	}, nil
}

// setSpeed programs both directions to speed, 8N1, receiver on, modem
// control lines ignored.
func setSpeed(fd int, speed uint32) error {
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	tio.Cflag &^= unix.CBAUD | unix.CSIZE | unix.PARENB | unix.CSTOPB
	tio.Cflag |= speed | unix.CS8 | unix.CREAD | unix.CLOCAL
	tio.Ispeed = speed
	tio.Ospeed = speed
	// Block until at least one byte arrives.
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, unix.TCSETS, tio)
}
