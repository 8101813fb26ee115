package voice

import (
	"math"
	"testing"

	"github.com/oisee/wakefield/pkg/envelope"
)

const sr = 48000.0

func zeroMods() *[OscillatorCount]OscMod {
	return &[OscillatorCount]OscMod{}
}

func TestVoice_FMHistoryZeroedOnDeactivation(t *testing.T) {
	v := New()
	v.Oscillators[0].BaseFrequency = 440
	v.Env.AttackSeconds = 0.001
	v.Env.DecaySeconds = 0.001
	v.Env.ReleaseSeconds = 0.001
	v.NoteOn(60, 1)
	v.NoteOff()

	fm := &FMDepthMatrix{}
	for i := 0; i < int(sr); i++ {
		v.Process(sr, fm, zeroMods())
		if !v.Active {
			break
		}
	}
	if v.Active {
		t.Fatal("voice did not deactivate within 1 second")
	}
	for i, last := range v.lastOutputs {
		if last != 0 {
			t.Fatalf("lastOutputs[%d] = %v after deactivation, want 0", i, last)
		}
	}
}

func TestVoice_ZeroWeightMixIsExactlyZero(t *testing.T) {
	v := New()
	for i := range v.BaseLevel {
		v.BaseLevel[i] = 0
	}
	v.NoteOn(60, 1)
	fm := &FMDepthMatrix{}
	out := v.Process(sr, fm, zeroMods())
	if out != 0 {
		t.Fatalf("mix with all-zero weights = %v, want exactly 0", out)
	}
}

func TestVoice_ActiveImpliesEnvelopeNotOff(t *testing.T) {
	v := New()
	v.NoteOn(60, 1)
	fm := &FMDepthMatrix{}
	if v.Active && v.Env.Stage() == envelope.Off {
		t.Fatal("voice active with envelope Off")
	}
	v.Process(sr, fm, zeroMods())
}

func TestPool_StealsOldestWhenNoneInRelease(t *testing.T) {
	p := NewPool(2)
	for _, v := range p.Voices {
		v.Env.AttackSeconds = 10
		v.Env.DecaySeconds = 10
		v.Env.SustainLevel = 1
	}

	first := p.NoteOn(60)
	p.NoteOn(61) // keep both active; this second allocation is the newer one

	stolen := p.NoteOn(62)
	if stolen != first {
		t.Fatal("expected the oldest voice (note 60) to be stolen")
	}
	if stolen.MIDINote != 62 {
		t.Fatalf("expected stolen voice reassigned to note 62, got %d", stolen.MIDINote)
	}
}

func TestPool_AllocatesFreeVoiceBeforeStealing(t *testing.T) {
	p := NewPool(4)
	v := p.NoteOn(60)
	if !v.Active || v.MIDINote != 60 {
		t.Fatalf("expected an active voice on note 60")
	}
	if p.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", p.ActiveCount())
	}
}

func TestVoice_AttackLevelAndPeakAfter10ms(t *testing.T) {
	v := New()
	v.Oscillators[0].BaseFrequency = 440
	v.Oscillators[0].Morph = 0.5
	v.BaseLevel[0] = 1.0
	for i := 1; i < OscillatorCount; i++ {
		v.BaseLevel[i] = 0
	}
	v.NoteOn(60, 1)

	fm := &FMDepthMatrix{}
	mods := zeroMods()
	peak := 0.0
	const nSamples = 480 // 10ms at 48kHz
	for i := 0; i < nSamples; i++ {
		out := math.Abs(v.Process(sr, fm, mods))
		if out > peak {
			peak = out
		}
	}

	if v.Env.Level() < 0.95 {
		t.Fatalf("envelope level after 10ms = %v, want >= 0.95", v.Env.Level())
	}
	if peak < 0.4 || peak > 0.6 {
		t.Fatalf("peak absolute sample in first 10ms = %v, want within [0.4,0.6]", peak)
	}
}

func TestPool_NoteOffReleasesMatchingVoices(t *testing.T) {
	p := NewPool(4)
	p.NoteOn(60)
	p.NoteOff(60)
	for _, v := range p.Voices {
		if v.MIDINote == 60 && v.Env.Stage() != envelope.Release {
			t.Fatalf("voice on note 60 not in Release after NoteOff, stage=%v", v.Env.Stage())
		}
	}
}
