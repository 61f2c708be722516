// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/chime/chime.go
// Summary: Matrix decorator that makes BEL audible.
// Usage: chime.Wrap(panel, player, tone) and hand the result to term.New.

// Package chime plays a tone when the terminal rings the bell.
package chime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/framegrace/charterm/matrix"
)

// Player starts a streamer without blocking.
type Player interface {
	Play(s beep.Streamer)
}

// Bell forwards every call to the wrapped matrix and also plays a tone on
// Alert.
type Bell struct {
	matrix.Matrix
	player Player
	tone   Tone
}

// Wrap decorates m. A nil player leaves Alert to m alone.
func Wrap(m matrix.Matrix, player Player, tone Tone) *Bell {
	return &Bell{Matrix: m, player: player, tone: tone}
}

// Alert plays the tone, then lets the wrapped matrix react too.
func (b *Bell) Alert() {
	if b.player != nil {
		b.player.Play(NewStreamer(SampleRate, b.tone))
	}
	b.Matrix.Alert()
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

type speakerPlayer struct{}

func (speakerPlayer) Play(s beep.Streamer) { speaker.Play(s) }

// OpenSpeaker initialises the audio device once per process.
func OpenSpeaker() (Player, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}
	return speakerPlayer{}, nil
}
