package cue

import "testing"

type fakePlayer struct {
	playing bool
	plays   int
	rewinds int
	volume  float64
}

func (p *fakePlayer) IsPlaying() bool          { return p.playing }
func (p *fakePlayer) Rewind() error            { p.rewinds++; return nil }
func (p *fakePlayer) Play()                    { p.playing = true; p.plays++ }
func (p *fakePlayer) Pause()                   { p.playing = false }
func (p *fakePlayer) SetVolume(volume float64) { p.volume = volume }

func TestBankPlay(t *testing.T) {
	b := NewBank()
	p := &fakePlayer{}
	b.Add("grunt", p, 0.7)

	b.Play("grunt")
	if p.plays != 1 || p.rewinds != 1 || p.volume != 0.7 {
		t.Fatalf("expected one rewound play at 0.7, got %+v", p)
	}
	b.Play("grunt")
	if p.plays != 1 {
		t.Fatalf("expected a playing cue not to restart, got %d plays", p.plays)
	}

	b.Stop("grunt")
	if p.playing {
		t.Fatalf("expected stop to pause")
	}
	b.Play("grunt")
	if p.plays != 2 {
		t.Fatalf("expected replay after stop, got %d plays", p.plays)
	}
}

func TestBankUnknownCue(t *testing.T) {
	b := NewBank()
	b.Play("missing")
	b.Play("missing")
	if !b.missing["missing"] || b.Has("missing") {
		t.Fatalf("expected unknown cue to be remembered as missing")
	}
	b.Add("missing", &fakePlayer{}, 1)
	if b.missing["missing"] {
		t.Fatalf("expected add to clear the missing mark")
	}
}
