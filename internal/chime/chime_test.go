// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chime

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/framegrace/charterm/matrix"
	"github.com/framegrace/charterm/term"
)

type fakePlayer struct {
	played []beep.Streamer
}

func (p *fakePlayer) Play(s beep.Streamer) { p.played = append(p.played, s) }

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatalf("streamer never finished")
	return nil
}

func TestStreamerLengthAndShape(t *testing.T) {
	tone := Tone{Frequency: 880, Duration: 100 * time.Millisecond, Volume: 1}
	samples := drain(t, NewStreamer(SampleRate, tone))

	if want := SampleRate.N(tone.Duration); len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}
	if samples[0][0] != 0 {
		t.Fatalf("expected the attack to start from silence, got %v", samples[0][0])
	}
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s[0]))
		if s[0] != s[1] {
			t.Fatalf("expected mono output")
		}
	}
	if peak <= 0.1 || peak > 1.0001 {
		t.Fatalf("unexpected peak amplitude %v", peak)
	}
	if last := math.Abs(samples[len(samples)-1][0]); last > 0.05 {
		t.Fatalf("expected the release to fade out, last sample %v", last)
	}
}

func TestSilentTone(t *testing.T) {
	tone := Tone{Frequency: 440, Duration: 20 * time.Millisecond, Volume: 0}
	for _, s := range drain(t, NewStreamer(SampleRate, tone)) {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("expected silence, got %v", s)
		}
	}
}

func TestBellPlaysAndForwards(t *testing.T) {
	rec := matrix.NewRecorder(2, 16)
	player := &fakePlayer{}
	bell := Wrap(rec, player, DefaultTone)

	tm := term.New(bell, term.Config{})
	tm.Init()
	tm.PrintString("a\x07b")

	if len(player.played) != 1 {
		t.Fatalf("expected one tone, got %d", len(player.played))
	}
	if rec.Alerts != 1 {
		t.Fatalf("expected the alert to reach the wrapped matrix")
	}
	if got := rec.Line(0)[:2]; got != "ab" {
		t.Fatalf("expected other calls forwarded, got %q", got)
	}
}

func TestBellWithoutPlayer(t *testing.T) {
	rec := matrix.NewRecorder(1, 8)
	Wrap(rec, nil, DefaultTone).Alert()
	if rec.Alerts != 1 {
		t.Fatalf("expected the alert to be forwarded")
	}
}
