// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/pty.go
// Summary: Runs a command on a pseudo terminal sized like the display.

package link

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// ptyReader turns the EIO a pty master reports after the child exits into
// a plain EOF.
type ptyReader struct{ f *os.File }

func (r ptyReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if err != nil && errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

func openPTY(command string, rows, cols int) (*Conn, error) {
	if command == "" {
		command = "/bin/sh"
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	// The display understands no escape sequences.
	cmd.Env = append(os.Environ(), "TERM=dumb")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("start %q on pty: %w", command, err)
	}

	return &Conn{
		Reader: ptyReader{f: ptmx},
		Writer: ptmx,
		label:  fmt.Sprintf("%s %s", SourcePTY, command),
		closer: func() error {
			err := ptmx.Close()
			if cmd.Process != nil {
				cmd.Process.Signal(syscall.SIGTERM)
			}
			cmd.Wait()
			return err
		},
	}, nil
}
