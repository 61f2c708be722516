// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/framegrace/charterm/config"
	"github.com/framegrace/charterm/defaults"
	"github.com/framegrace/charterm/internal/capture"
	"github.com/framegrace/charterm/internal/link"
	"github.com/framegrace/charterm/matrix/hd44780"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	data, err := defaults.SystemConfig()
	if err != nil {
		t.Fatalf("read embedded defaults: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("decode embedded defaults: %v", err)
	}
	cfg.Set("capture", "path", filepath.Join(t.TempDir(), "capture.db"))
	return cfg
}

func parse(t *testing.T, cfg config.Config, args ...string) (settings, error) {
	t.Helper()
	s, err := settingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("settingsFromConfig: %v", err)
	}
	fs := flag.NewFlagSet("charterm", flag.ContinueOnError)
	s.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return s, err
	}
	return s, s.finish()
}

func TestSettingsFromDefaults(t *testing.T) {
	s, err := parse(t, defaultConfig(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Driver != driverPanel || s.Rows != 4 || s.Cols != 20 {
		t.Fatalf("unexpected display %s %dx%d", s.Driver, s.Rows, s.Cols)
	}
	if s.I2CAddr != hd44780.DefaultAddr {
		t.Fatalf("expected I2C address %#x, got %#x", hd44780.DefaultAddr, s.I2CAddr)
	}
	if !s.Term.LineFeedIsCRLF || s.Term.SwapBackspaceDelete {
		t.Fatalf("unexpected terminal config %+v", s.Term)
	}
	if s.Link.Kind != link.SourceStdin || s.Link.Baud != 57600 || s.Link.Device != "/dev/ttyACM0" {
		t.Fatalf("unexpected link %+v", s.Link)
	}
	if s.Link.Rows != 4 || s.Link.Cols != 20 {
		t.Fatalf("pty size not derived from display: %dx%d", s.Link.Rows, s.Link.Cols)
	}
	if s.Tone.Frequency != 880 || s.Tone.Duration != 150*time.Millisecond {
		t.Fatalf("unexpected tone %+v", s.Tone)
	}
	if s.VisualBell == 0 {
		t.Fatal("expected visual bell by default")
	}
	if s.needsStore() {
		t.Fatal("capture store should not be needed by default")
	}
	if !strings.HasPrefix(s.Banner, "charterm") {
		t.Fatalf("unexpected banner %q", s.Banner)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	s, err := parse(t, defaultConfig(t),
		"-rows", "2", "-cols", "16", "-source", "serial", "-device", "/dev/ttyUSB0",
		"-baud", "9600", "-crlf=false", "-swap-bs", "-capture")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Rows != 2 || s.Cols != 16 {
		t.Fatalf("size not overridden: %dx%d", s.Rows, s.Cols)
	}
	if s.Link.Kind != link.SourceSerial || s.Link.Device != "/dev/ttyUSB0" || s.Link.Baud != 9600 {
		t.Fatalf("link not overridden: %+v", s.Link)
	}
	if s.Term.LineFeedIsCRLF || !s.Term.SwapBackspaceDelete {
		t.Fatalf("terminal flags not applied: %+v", s.Term)
	}
	if !s.Capture || !s.needsStore() {
		t.Fatal("capture flag not applied")
	}
}

func TestConfigValuesAreRead(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Set("display", "i2c_addr", "0x3f")
	cfg.Set("display", "driver", driverHD44780)
	cfg.Set("bell", "visual", false)
	cfg.Set("terminal", "swap_bs_del", true)

	s, err := parse(t, cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.I2CAddr != 0x3f || s.Driver != driverHD44780 {
		t.Fatalf("display section ignored: %+v", s)
	}
	if s.VisualBell != 0 {
		t.Fatalf("expected visual bell off, got %v", s.VisualBell)
	}
	if !s.Term.SwapBackspaceDelete {
		t.Fatal("terminal section ignored")
	}
}

func TestReplayFlagSelectsReplaySource(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Set("capture", "enabled", true)
	s, err := parse(t, cfg, "-replay", "7", "-speed", "0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Link.Kind != link.SourceReplay || s.Link.Session != 7 || s.Link.Speed != 0 {
		t.Fatalf("replay not configured: %+v", s.Link)
	}
	if s.Capture {
		t.Fatal("capture must be off while replaying")
	}
	if !s.needsStore() {
		t.Fatal("replay needs the capture store")
	}
}

func TestSettingsRejectBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero rows", []string{"-rows", "0"}},
		{"negative cols", []string{"-cols", "-3"}},
		{"unknown driver", []string{"-driver", "oled"}},
		{"save while replaying", []string{"-replay", "3", "-save-config"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(t, defaultConfig(t), tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCharSize(t *testing.T) {
	tests := []struct {
		in      string
		want    hd44780.CharSize
		wantErr bool
	}{
		{"", hd44780.Font5x8, false},
		{"5x8", hd44780.Font5x8, false},
		{"5x10", hd44780.Font5x10, false},
		{"8x8", 0, true},
	}
	for _, tt := range tests {
		s := settings{CharSize: tt.in}
		got, err := s.charSize()
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestListSessions(t *testing.T) {
	store, err := capture.Open(filepath.Join(t.TempDir(), "capture.db"))
	if err != nil {
		t.Fatalf("capture.Open: %v", err)
	}
	defer store.Close()
	sess, _ := store.Begin("serial /dev/ttyACM0@57600")
	sess.Append([]byte("hello"))
	store.Flush()

	var out bytes.Buffer
	if err := listSessions(&out, store); err != nil {
		t.Fatalf("listSessions: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out.String())
	}
	if !strings.Contains(lines[1], "serial /dev/ttyACM0@57600") || !strings.Contains(lines[1], " 5 ") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestCheckStdin(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		source  string
		tty     bool
		wantErr bool
	}{
		{"panel on interactive stdin", driverPanel, link.SourceStdin, true, true},
		{"panel on default source", driverPanel, "", true, true},
		{"panel on piped stdin", driverPanel, link.SourceStdin, false, false},
		{"panel on pty", driverPanel, link.SourcePTY, true, false},
		{"panel on serial", driverPanel, link.SourceSerial, true, false},
		{"hd44780 on interactive stdin", driverHD44780, link.SourceStdin, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings{Driver: tt.driver, Link: link.Options{Kind: tt.source}}
			err := s.checkStdin(tt.tty)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil && !strings.Contains(err.Error(), "-source pty") {
				t.Fatalf("error lacks a hint: %v", err)
			}
		})
	}
}

func TestStoreIntoRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"defaults", nil},
		{"overrides", []string{
			"-driver", "hd44780", "-rows", "2", "-cols", "16", "-i2c-addr", "63",
			"-source", "serial", "-device", "/dev/ttyUSB1", "-baud", "9600",
			"-crlf=false", "-swap-bs", "-capture", "-beep",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := parse(t, defaultConfig(t), tt.args...)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			cfg := config.Config{}
			want.storeInto(cfg)

			got, err := parse(t, cfg)
			if err != nil {
				t.Fatalf("parse stored: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("stored settings differ:\nwant %+v\ngot  %+v", want, got)
			}
		})
	}
}

func TestSaveConfigWritesSystemFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	s, err := parse(t, defaultConfig(t), "-rows", "2", "-cols", "16", "-source", "pty", "-save-config")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	if err := saveConfig(&out, defaultConfig(t), s); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}

	path := filepath.Join(dir, "charterm", "charterm.json")
	if !strings.Contains(out.String(), path) {
		t.Fatalf("expected %s in output, got %q", path, out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	var disk config.Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if disk.GetInt("display", "rows", 0) != 2 || disk.GetInt("display", "cols", 0) != 16 {
		t.Fatalf("display size not saved: %v", disk.Section("display"))
	}
	if got := disk.GetString("link", "source", ""); got != link.SourcePTY {
		t.Fatalf("expected source pty, got %q", got)
	}
}
