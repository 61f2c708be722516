// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/link.go
// Summary: Byte sources that feed the terminal.
// Usage: Open a Conn by kind, then hand its reader to Pump.

// Package link connects the terminal to where its bytes come from: a serial
// device, a command running on a pty, standard input or a stored capture.
// Keystrokes typed at the host go back through Conn.Write.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/framegrace/charterm/internal/capture"
)

// Source kinds accepted by Open.
const (
	SourceStdin  = "stdin"
	SourceSerial = "serial"
	SourcePTY    = "pty"
	SourceReplay = "replay"
)

// DefaultBaud matches the firmware the displays usually sit behind.
const DefaultBaud = 57600

// ErrUnknownSource is returned by Open for an unrecognised kind.
var ErrUnknownSource = errors.New("link: unknown source")

// Options selects and parameterises a source.
type Options struct {
	Kind string

	// Serial
	Device string
	Baud   int

	// PTY
	Command    string
	Rows, Cols int

	// Replay
	Store   *capture.Store
	Session int64
	Speed   float64

	// RawStdin puts an interactive stdin into raw mode. Ctrl-C still raises
	// SIGINT. Leave it off when something else, such as a tcell screen, owns
	// the terminal.
	RawStdin bool
}

// Conn is an open source. Reads yield display bytes; writes carry keys
// back to the far end and are dropped by sources that have none.
type Conn struct {
	io.Reader
	io.Writer
	label  string
	closer func() error
}

// Label describes the source, e.g. for capture session names.
func (c *Conn) Label() string { return c.label }

// Close releases the source. Safe to call more than once.
func (c *Conn) Close() error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer()
}

// Open returns the source described by opts.
func Open(ctx context.Context, opts Options) (*Conn, error) {
	switch opts.Kind {
	case SourceStdin, "":
		return openStdin(opts)
	case SourceSerial:
		baud := opts.Baud
		if baud == 0 {
			baud = DefaultBaud
		}
		return openSerial(opts.Device, baud)
	case SourcePTY:
		return openPTY(opts.Command, opts.Rows, opts.Cols)
	case SourceReplay:
		return openReplay(ctx, opts.Store, opts.Session, opts.Speed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, opts.Kind)
	}
}

func openStdin(opts Options) (*Conn, error) {
	c := &Conn{Reader: os.Stdin, Writer: io.Discard, label: SourceStdin}
	fd := int(os.Stdin.Fd())
	if !opts.RawStdin || !term.IsTerminal(fd) {
		return c, nil
	}
	restore, err := makeRawKeepSignals(fd)
	if err != nil {
		return nil, fmt.Errorf("raw stdin: %w", err)
	}
	c.closer = restore
	return c, nil
}

func openReplay(ctx context.Context, store *capture.Store, session int64, speed float64) (*Conn, error) {
	if store == nil {
		return nil, errors.New("replay: capture store not open")
	}
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	go func() {
		err := store.Replay(ctx, session, pw, speed)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.ErrClosedPipe) {
			log.Printf("Link: Replay of session %d stopped: %v", session, err)
		}
		pw.CloseWithError(err)
	}()
	return &Conn{
		Reader: pr,
		Writer: io.Discard,
		label:  fmt.Sprintf("%s %d", SourceReplay, session),
		closer: func() error {
			cancel()
			return pr.Close()
		},
	}, nil
}
