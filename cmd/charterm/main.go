// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/charterm/main.go
// Summary: charterm command: feeds a byte stream to a character display.
// Usage: `charterm -source serial -device /dev/ttyACM0` draws a simulated
// panel; `-driver hd44780` drives a real module over I2C.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	xterm "golang.org/x/term"

	"github.com/framegrace/charterm/config"
	"github.com/framegrace/charterm/internal/capture"
	"github.com/framegrace/charterm/internal/chime"
	"github.com/framegrace/charterm/internal/devshell"
	"github.com/framegrace/charterm/internal/link"
	"github.com/framegrace/charterm/internal/theming"
	"github.com/framegrace/charterm/matrix"
	"github.com/framegrace/charterm/matrix/hd44780"
	"github.com/framegrace/charterm/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.System()
	if err := config.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	s, err := settingsFromConfig(cfg)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("charterm", flag.ContinueOnError)
	s.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if err := s.finish(); err != nil {
		return err
	}
	if s.SaveConfig {
		return saveConfig(os.Stdout, cfg, s)
	}
	if err := s.checkStdin(xterm.IsTerminal(int(os.Stdin.Fd()))); err != nil {
		return err
	}

	logFile, err := setupLogging(s.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log.Printf("Charterm: Starting %s driver, %dx%d, source %s", s.Driver, s.Rows, s.Cols, s.Link.Kind)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *capture.Store
	if s.needsStore() {
		store, err = capture.Open(s.CapturePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	if s.Sessions {
		return listSessions(os.Stdout, store)
	}
	s.Link.Store = store

	// The panel host owns the terminal, so stdin stays cooked there.
	s.Link.RawStdin = s.Driver == driverHD44780
	conn, err := link.Open(ctx, s.Link)
	if err != nil {
		return err
	}
	defer conn.Close()

	var tee io.Writer
	if s.Capture {
		sess, err := store.Begin(conn.Label())
		if err != nil {
			return err
		}
		tee = sess
	}

	var player chime.Player
	if s.Audible {
		player, err = chime.OpenSpeaker()
		if err != nil {
			log.Printf("Chime: Speaker unavailable, bell stays silent: %v", err)
			player = nil
		}
	}

	switch s.Driver {
	case driverHD44780:
		return runHD44780(ctx, conn, s, player, tee)
	default:
		styles := theming.ForPanel(cfg)
		return devshell.Run(ctx, conn, devshell.Options{
			Rows:       s.Rows,
			Cols:       s.Cols,
			Title:      conn.Label(),
			Styles:     &styles,
			Term:       s.Term,
			Banner:     s.Banner,
			VisualBell: s.VisualBell,
			Player:     player,
			Tone:       s.Tone,
			Capture:    tee,
			ExitOnEOF:  s.Link.Kind == link.SourcePTY,
		})
	}
}

// runHD44780 drives a real module until the source ends or the process is
// interrupted. Keys typed on stdin go back to the source unless stdin is
// the source.
func runHD44780(ctx context.Context, conn *link.Conn, s settings, player chime.Player, tee io.Writer) error {
	cs, err := s.charSize()
	if err != nil {
		return err
	}
	bus, closer, err := hd44780.OpenI2C(s.I2CBus, uint16(s.I2CAddr))
	if err != nil {
		return err
	}
	defer closer.Close()

	lcd := hd44780.New(bus, s.Rows, s.Cols, hd44780.WithCharSize(cs))
	var m matrix.Matrix = lcd
	if player != nil {
		m = chime.Wrap(lcd, player, s.Tone)
	}

	tm := term.New(m, s.Term)
	tm.Init()
	tm.BacklightOn()
	tm.CursorOn()
	tm.PrintString(s.Banner)

	if s.Link.Kind != link.SourceStdin {
		go func() {
			if _, err := io.Copy(conn, os.Stdin); err != nil {
				log.Printf("Link: Key forwarding stopped: %v", err)
			}
		}()
	}

	err = link.Pump(ctx, conn, tm, link.PumpOptions{
		Capture:    tee,
		ClearFirst: s.Banner != "",
	})
	if busErr := lcd.Err(); busErr != nil {
		log.Printf("HD44780: Last bus error: %v", busErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// saveConfig makes s the stored configuration.
func saveConfig(w io.Writer, cfg config.Config, s settings) error {
	next := config.Clone(cfg)
	s.storeInto(next)
	config.SetSystem(next)
	if err := config.SaveSystem(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

func listSessions(w io.Writer, store *capture.Store) error {
	infos, err := store.Sessions()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tCHUNKS\tBYTES\tSOURCE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n",
			info.ID, info.Started.Format("2006-01-02 15:04:05"), info.Chunks, info.Bytes, info.Label)
	}
	return tw.Flush()
}

func setupLogging(path string) (*os.File, error) {
	if path == "" {
		root, err := config.Root()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(root, "logs", "charterm.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}
