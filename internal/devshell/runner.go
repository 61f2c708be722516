// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Hosts a simulated character display in the local terminal.
// Usage: Used by cmd/charterm when the display driver is "panel".

// Package devshell runs the terminal on a panel drawn in a tcell screen,
// with the link pump feeding it and local keystrokes sent back to the
// source.
package devshell

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/charterm/internal/chime"
	"github.com/framegrace/charterm/internal/link"
	"github.com/framegrace/charterm/matrix"
	"github.com/framegrace/charterm/matrix/panel"
	"github.com/framegrace/charterm/term"
)

// Source is where display bytes come from and where keys go.
type Source interface {
	io.Reader
	io.Writer
}

// Options configure Run.
type Options struct {
	Rows, Cols int
	Title      string
	Styles     *panel.Styles
	Term       term.Config
	Banner     string

	// VisualBell is the length of the reverse-video flash on BEL.
	VisualBell time.Duration
	// Player, when set, sounds Tone on BEL.
	Player chime.Player
	Tone   chime.Tone

	// Capture receives a copy of everything read from the source.
	Capture io.Writer

	// ExitOnEOF ends Run once the source is exhausted. Otherwise the last
	// screen stays up until Ctrl-C, as it would on the hardware.
	ExitOnEOF bool
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

type pumpDone struct{ err error }

// Run draws the panel, feeds it from src and forwards keys until Ctrl-C,
// ctx is done, or the source ends with ExitOnEOF set.
func Run(ctx context.Context, src Source, opts Options) error {
	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panelOpts := []panel.Option{
		panel.WithTitle(opts.Title),
		panel.WithVisualBell(opts.VisualBell),
	}
	if opts.Styles != nil {
		panelOpts = append(panelOpts, panel.WithStyles(*opts.Styles))
	}
	p := panel.New(screen, opts.Rows, opts.Cols, panelOpts...)
	centre(screen, p)

	var m matrix.Matrix = p
	if opts.Player != nil {
		m = chime.Wrap(p, opts.Player, opts.Tone)
	}

	tm := term.New(m, opts.Term)
	tm.Init()
	tm.BacklightOn()
	tm.CursorOn()
	tm.PrintString(opts.Banner)

	pumpExited := make(chan struct{})
	defer func() {
		cancel()
		<-pumpExited
	}()
	go func() {
		defer close(pumpExited)
		err := link.Pump(ctx, src, tm, link.PumpOptions{
			Capture:    opts.Capture,
			ClearFirst: opts.Banner != "",
			BeforeFeed: p.Hold,
			AfterFeed:  p.Flush,
		})
		screen.PostEvent(tcell.NewEventInterrupt(pumpDone{err: err}))
	}()
	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	keys := keyWriter{w: src}
	for {
		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
			if done, ok := tev.Data().(pumpDone); ok {
				if done.err != nil {
					return done.err
				}
				if opts.ExitOnEOF {
					return nil
				}
				log.Printf("Link: Source closed, keeping last screen")
			}
		case *tcell.EventResize:
			screen.Clear()
			centre(screen, p)
			p.Redraw()
			screen.Sync()
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			keys.send(KeyBytes(tev))
		}
	}
}

// centre moves p to the middle of the screen, clamped to the top-left.
func centre(screen tcell.Screen, p *panel.Panel) {
	w, h := screen.Size()
	_, _, pw, ph := p.Bounds()
	x, y := (w-pw)/2, (h-ph)/2
	p.Move(max(x, 0), max(y, 0))
	p.Redraw()
}

// KeyBytes encodes a key event the way a plain serial terminal would.
func KeyBytes(ev *tcell.EventKey) []byte {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if r < utf8.RuneSelf {
			return []byte{byte(r)}
		}
		return []byte(string(r))
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{'\b'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyDelete:
		return []byte{0x7f}
	}
	// Ctrl-A through Ctrl-Z and friends map onto their control codes.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlUnderscore {
		return []byte{byte(k)}
	}
	return nil
}

// keyWriter logs the first failure of a run of failed writes.
type keyWriter struct {
	w      io.Writer
	failed bool
}

func (k *keyWriter) send(b []byte) {
	if len(b) == 0 {
		return
	}
	if _, err := k.w.Write(b); err != nil {
		if !k.failed {
			log.Printf("Link: Key write failed: %v", err)
		}
		k.failed = true
		return
	}
	k.failed = false
}
