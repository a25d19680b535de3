// Package cue plays fire-and-forget audio cues by name.
package cue

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

// Player is the part of *audio.Player a bank needs.
type Player interface {
	IsPlaying() bool
	Rewind() error
	Play()
	Pause()
	SetVolume(volume float64)
}

type entry struct {
	player Player
	volume float64
}

// Bank maps cue names to players. Playing a cue that is still playing is
// ignored; unknown cues are logged once.
type Bank struct {
	cues    map[string]*entry
	missing map[string]bool
}

func NewBank() *Bank {
	return &Bank{
		cues:    make(map[string]*entry),
		missing: make(map[string]bool),
	}
}

var (
	contextOnce sync.Once
	context     *audio.Context
)

// Context returns the process-wide audio context. Ebiten allows only one.
func Context() *audio.Context {
	contextOnce.Do(func() {
		context = audio.CurrentContext()
		if context == nil {
			context = audio.NewContext(SampleRate)
		}
	})
	return context
}

// Add registers p under name.
func (b *Bank) Add(name string, p Player, volume float64) {
	b.cues[name] = &entry{player: p, volume: volume}
	delete(b.missing, name)
}

// Load decodes a cue. WAV data is decoded; anything else is taken as raw
// PCM in the context's native format.
func (b *Bank) Load(ctx *audio.Context, name, path string, data []byte, volume float64) error {
	if strings.HasSuffix(strings.ToLower(path), ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("cue: decode wav %q: %w", path, err)
		}
		p, err := ctx.NewPlayer(stream)
		if err != nil {
			return fmt.Errorf("cue: new player %q: %w", path, err)
		}
		b.Add(name, p, volume)
		return nil
	}
	b.Add(name, ctx.NewPlayerFromBytes(data), volume)
	return nil
}

func (b *Bank) Has(name string) bool {
	_, ok := b.cues[name]
	return ok
}

// Play starts the named cue from the beginning unless it is already playing.
func (b *Bank) Play(name string) {
	e, ok := b.cues[name]
	if !ok {
		if !b.missing[name] {
			log.Printf("cue: unknown cue %q", name)
			b.missing[name] = true
		}
		return
	}
	if e.player == nil || e.player.IsPlaying() {
		return
	}
	e.player.SetVolume(e.volume)
	if err := e.player.Rewind(); err != nil {
		log.Printf("cue: rewind %q: %v", name, err)
		return
	}
	e.player.Play()
}

// Stop pauses the named cue if it is playing.
func (b *Bank) Stop(name string) {
	e, ok := b.cues[name]
	if !ok || e.player == nil || !e.player.IsPlaying() {
		return
	}
	e.player.Pause()
}

// Log prints cues instead of playing them, for headless runs.
type Log struct {
	Prefix string
}

func (l Log) Play(name string) {
	log.Printf("%scue %s", l.Prefix, name)
}
