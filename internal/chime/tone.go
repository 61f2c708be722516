// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/chime/tone.go
// Summary: Synthesises the bell tone as a beep.Streamer.

package chime

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate used for the speaker and the synthesised tone.
const SampleRate = beep.SampleRate(44100)

// Tone describes the bell sound.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	// Volume is a linear gain in (0, 1]. Zero is silent.
	Volume float64
}

// DefaultTone is a short A5 ding.
var DefaultTone = Tone{Frequency: 880, Duration: 150 * time.Millisecond, Volume: 0.5}

const attack = 5 * time.Millisecond

// NewStreamer returns exactly rate.N(tone.Duration) samples of a sine at
// the fundamental plus a quieter octave, shaped with a fast attack and a
// release that runs to the end of the tone.
func NewStreamer(rate beep.SampleRate, tone Tone) beep.Streamer {
	total := rate.N(tone.Duration)
	fund := &envelope{
		s:       &sine{freq: tone.Frequency, rate: rate},
		attack:  rate.N(attack),
		total:   total,
		release: total - rate.N(attack),
	}
	over := &envelope{
		s:       &sine{freq: tone.Frequency * 2, rate: rate},
		attack:  rate.N(attack),
		total:   total,
		release: (total - rate.N(attack)) / 2,
	}
	mixed := beep.Mix(gain(fund, 0.7), gain(over, 0.3))
	return beep.Take(total, gain(mixed, tone.Volume))
}

type sine struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
}

func (o *sine) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0], samples[i][1] = v, v
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// envelope ramps up over attack samples, holds, then fades linearly to
// zero over the last release samples, and stops after total samples.
type envelope struct {
	s                      beep.Streamer
	pos                    int
	attack, release, total int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rem := e.total - e.pos; len(samples) > rem {
		samples = samples[:rem]
	}
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.pos < e.attack && e.attack > 0 {
			vol = float64(e.pos) / float64(e.attack)
		}
		if start := e.total - e.release; e.pos >= start && e.release > 0 {
			vol = math.Min(vol, float64(e.total-e.pos)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain wraps s in a beep volume effect; v is linear.
func gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
