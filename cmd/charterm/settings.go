// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/charterm/settings.go
// Summary: Resolves runtime settings from charterm.json and command-line flags.

package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/framegrace/charterm/config"
	"github.com/framegrace/charterm/internal/chime"
	"github.com/framegrace/charterm/internal/link"
	"github.com/framegrace/charterm/matrix/hd44780"
	"github.com/framegrace/charterm/term"
)

// Display drivers.
const (
	driverPanel   = "panel"
	driverHD44780 = "hd44780"
)

type settings struct {
	Driver   string
	Rows     int
	Cols     int
	I2CBus   string
	I2CAddr  int
	CharSize string

	Term   term.Config
	Banner string

	Link link.Options

	Capture     bool
	CapturePath string
	Replay      int64
	Speed       float64
	Sessions    bool
	SaveConfig  bool

	Audible    bool
	VisualBell time.Duration
	Tone       chime.Tone

	LogPath string
}

// settingsFromConfig reads every section of cfg into settings.
func settingsFromConfig(cfg config.Config) (settings, error) {
	s := settings{
		Driver:   cfg.GetString("display", "driver", driverPanel),
		Rows:     cfg.GetInt("display", "rows", 4),
		Cols:     cfg.GetInt("display", "cols", 20),
		I2CBus:   cfg.GetString("display", "i2c_bus", ""),
		I2CAddr:  cfg.GetInt("display", "i2c_addr", hd44780.DefaultAddr),
		CharSize: cfg.GetString("display", "charsize", "5x8"),
		Term: term.Config{
			LineFeedIsCRLF:      cfg.GetBool("terminal", "lf_is_crlf", true),
			SwapBackspaceDelete: cfg.GetBool("terminal", "swap_bs_del", false),
		},
		Banner: cfg.GetString("terminal", "banner", ""),
		Link: link.Options{
			Kind:    cfg.GetString("link", "source", link.SourceStdin),
			Device:  cfg.GetString("link", "device", "/dev/ttyACM0"),
			Baud:    cfg.GetInt("link", "baud", link.DefaultBaud),
			Command: cfg.GetString("link", "command", "/bin/sh"),
		},
		Capture: cfg.GetBool("capture", "enabled", false),
		Speed:   1,
		Audible: cfg.GetBool("bell", "audible", false),
		Tone: chime.Tone{
			Frequency: cfg.GetFloat("bell", "frequency_hz", chime.DefaultTone.Frequency),
			Duration:  cfg.GetDuration("bell", "duration_ms", chime.DefaultTone.Duration),
			Volume:    cfg.GetFloat("bell", "volume", chime.DefaultTone.Volume),
		},
	}
	if cfg.GetBool("bell", "visual", true) {
		s.VisualBell = cfg.GetDuration("bell", "flash_ms", 120*time.Millisecond)
	}
	path, err := config.CapturePath(cfg)
	if err != nil {
		return s, fmt.Errorf("resolve capture path: %w", err)
	}
	s.CapturePath = path
	return s, nil
}

// bindFlags registers the command-line overrides on fs, defaulting each
// to the value already in s.
func (s *settings) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.Driver, "driver", s.Driver, "Display driver: panel or hd44780")
	fs.IntVar(&s.Rows, "rows", s.Rows, "Display rows")
	fs.IntVar(&s.Cols, "cols", s.Cols, "Display columns")
	fs.StringVar(&s.I2CBus, "i2c-bus", s.I2CBus, "I2C bus name for hd44780 (empty = first bus)")
	fs.IntVar(&s.I2CAddr, "i2c-addr", s.I2CAddr, "I2C address of the PCF8574 backpack")
	fs.StringVar(&s.Link.Kind, "source", s.Link.Kind, "Byte source: stdin, serial, pty or replay")
	fs.StringVar(&s.Link.Device, "device", s.Link.Device, "Serial device")
	fs.IntVar(&s.Link.Baud, "baud", s.Link.Baud, "Serial line speed")
	fs.StringVar(&s.Link.Command, "command", s.Link.Command, "Command to run for the pty source")
	fs.BoolVar(&s.Term.LineFeedIsCRLF, "crlf", s.Term.LineFeedIsCRLF, "Treat LF as CR+LF")
	fs.BoolVar(&s.Term.SwapBackspaceDelete, "swap-bs", s.Term.SwapBackspaceDelete, "Swap the meaning of BS and DEL")
	fs.BoolVar(&s.Capture, "capture", s.Capture, "Record incoming bytes to the capture database")
	fs.StringVar(&s.CapturePath, "capture-db", s.CapturePath, "Capture database path")
	fs.Int64Var(&s.Replay, "replay", 0, "Replay a captured session instead of reading a source")
	fs.Float64Var(&s.Speed, "speed", s.Speed, "Replay speed factor (0 = no delays)")
	fs.BoolVar(&s.Sessions, "sessions", false, "List captured sessions and exit")
	fs.BoolVar(&s.Audible, "beep", s.Audible, "Sound a tone on BEL")
	fs.StringVar(&s.LogPath, "log", s.LogPath, "Log file (default: <config dir>/logs/charterm.log)")
	fs.BoolVar(&s.SaveConfig, "save-config", false, "Write the effective settings to charterm.json and exit")
}

// finish validates s after flag parsing and derives dependent fields.
func (s *settings) finish() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("display size %dx%d is not usable", s.Rows, s.Cols)
	}
	switch s.Driver {
	case driverPanel, driverHD44780:
	default:
		return fmt.Errorf("unknown display driver %q", s.Driver)
	}
	if s.Replay != 0 {
		if s.SaveConfig {
			return errors.New("-save-config cannot be combined with -replay")
		}
		s.Link.Kind = link.SourceReplay
		s.Link.Session = s.Replay
		s.Link.Speed = s.Speed
		// Replaying a capture into itself would grow it forever.
		s.Capture = false
	}
	s.Link.Rows, s.Link.Cols = s.Rows, s.Cols
	return nil
}

// charSize maps the configured font name onto the driver option.
func (s *settings) charSize() (hd44780.CharSize, error) {
	switch s.CharSize {
	case "", "5x8":
		return hd44780.Font5x8, nil
	case "5x10":
		return hd44780.Font5x10, nil
	}
	return 0, fmt.Errorf("unknown character size %q", s.CharSize)
}

// needsStore reports whether the capture database must be opened.
func (s *settings) needsStore() bool {
	return s.Capture || s.Sessions || s.Link.Kind == link.SourceReplay
}

// checkStdin refuses the panel driver on an interactive stdin source:
// the panel host reads keys from the same terminal and the two readers
// would split the input between them.
func (s *settings) checkStdin(stdinIsTTY bool) error {
	if s.Driver != driverPanel || !stdinIsTTY {
		return nil
	}
	if s.Link.Kind != link.SourceStdin && s.Link.Kind != "" {
		return nil
	}
	return errors.New("stdin is a terminal and the panel driver needs it for keys; use -source pty or -source serial, or pipe data in")
}

// storeInto writes s back into cfg using the keys settingsFromConfig reads.
func (s *settings) storeInto(cfg config.Config) {
	cfg.Set("display", "driver", s.Driver)
	cfg.Set("display", "rows", s.Rows)
	cfg.Set("display", "cols", s.Cols)
	cfg.Set("display", "i2c_bus", s.I2CBus)
	cfg.Set("display", "i2c_addr", s.I2CAddr)
	cfg.Set("display", "charsize", s.CharSize)

	cfg.Set("terminal", "lf_is_crlf", s.Term.LineFeedIsCRLF)
	cfg.Set("terminal", "swap_bs_del", s.Term.SwapBackspaceDelete)
	cfg.Set("terminal", "banner", s.Banner)

	cfg.Set("link", "source", s.Link.Kind)
	cfg.Set("link", "device", s.Link.Device)
	cfg.Set("link", "baud", s.Link.Baud)
	cfg.Set("link", "command", s.Link.Command)

	cfg.Set("capture", "enabled", s.Capture)
	if def, err := config.CapturePath(config.Config{}); err != nil || s.CapturePath != def {
		cfg.Set("capture", "path", s.CapturePath)
	}

	cfg.Set("bell", "audible", s.Audible)
	cfg.Set("bell", "visual", s.VisualBell > 0)
	if s.VisualBell > 0 {
		cfg.Set("bell", "flash_ms", int(s.VisualBell/time.Millisecond))
	}
	cfg.Set("bell", "frequency_hz", s.Tone.Frequency)
	cfg.Set("bell", "duration_ms", int(s.Tone.Duration/time.Millisecond))
	cfg.Set("bell", "volume", s.Tone.Volume)
}
