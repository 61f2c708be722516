// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/pump.go
// Summary: Moves bytes from a source into the terminal, in arrival order.

package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/framegrace/charterm/term"
)

// PumpOptions tune Pump.
type PumpOptions struct {
	// Capture receives every chunk before it is fed. Write failures are
	// logged once and capture is abandoned; the display keeps running.
	Capture io.Writer

	// ClearFirst clears the screen before the first byte is fed, wiping
	// whatever banner was on display.
	ClearFirst bool

	// BeforeFeed and AfterFeed bracket each chunk on the pump goroutine,
	// e.g. to hold display updates until the whole chunk is drawn. They
	// are always called in pairs.
	BeforeFeed func()
	AfterFeed  func()

	// BufferSize is the largest chunk read at once. Zero means 256.
	BufferSize int
}

type readResult struct {
	data []byte
	err  error
}

// Pump feeds src into dst until src reports EOF, a read fails or ctx is
// done. EOF is not an error. The reader runs on its own goroutine so a
// blocked read does not hold up cancellation; the caller unblocks it by
// closing the source.
//
// dst is only touched from the calling goroutine.
func Pump(ctx context.Context, src io.Reader, dst *term.Terminal, opts PumpOptions) error {
	size := opts.BufferSize
	if size <= 0 {
		size = 256
	}

	chunks := make(chan readResult)
	done := make(chan struct{})
	defer close(done)

	go func() {
		reader := bufio.NewReaderSize(src, size)
		for {
			buf := make([]byte, size)
			n, err := reader.Read(buf)
			select {
			case chunks <- readResult{data: buf[:n], err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	first := opts.ClearFirst
	capture := opts.Capture
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-chunks:
			if len(res.data) > 0 {
				if capture != nil {
					if _, err := capture.Write(res.data); err != nil {
						log.Printf("Link: Capture disabled: %v", err)
						capture = nil
					}
				}
				if opts.BeforeFeed != nil {
					opts.BeforeFeed()
				}
				if first {
					dst.Clear()
					first = false
				}
				for _, c := range res.data {
					dst.Feed(c)
				}
				if opts.AfterFeed != nil {
					opts.AfterFeed()
				}
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read source: %w", res.err)
			}
		}
	}
}
