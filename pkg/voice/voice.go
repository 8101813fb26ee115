// Package voice implements the polyphonic voice: four FM-linked
// oscillators driven by one envelope, and the fixed-size voice pool with
// its stealing policy.
package voice

import (
	"github.com/oisee/wakefield/pkg/envelope"
	"github.com/oisee/wakefield/pkg/osc"
)

// OscillatorCount is the number of audio-rate oscillators per voice.
const OscillatorCount = 4

// FMDepthMatrix is the globally-owned 4x4 mapping from (target, source)
// to a signed depth in [-0.99, +0.99]. It is shared by every voice, not
// copied per voice.
type FMDepthMatrix [OscillatorCount][OscillatorCount]float64

const fmScale = 100.0

// OscMod carries the per-oscillator modulation inputs the ModMatrix
// evaluation produces for one block.
type OscMod struct {
	PitchOctaves float64
	Morph        float64
	Duty         float64
	Ratio        float64
	OffsetHz     float64
	LevelMod     float64
}

// Voice owns four oscillators, one envelope, and the previous-sample FM
// history used to break the cyclic FM dependency.
type Voice struct {
	Active   bool
	MIDINote int

	Oscillators  [OscillatorCount]*osc.Oscillator
	Env          *envelope.Envelope
	BaseLevel    [OscillatorCount]float64
	lastOutputs  [OscillatorCount]float64
	allocatedAt  uint64 // monotonically increasing allocation counter, for oldest-wins stealing
}

// New returns an inactive voice with four oscillators at equal base level.
func New() *Voice {
	v := &Voice{Env: envelope.New()}
	for i := range v.Oscillators {
		v.Oscillators[i] = osc.New()
		v.BaseLevel[i] = 0.25
	}
	return v
}

// NoteOn resets phase and FM history and triggers the envelope.
func (v *Voice) NoteOn(note int, age uint64) {
	v.Active = true
	v.MIDINote = note
	v.allocatedAt = age
	for i := range v.Oscillators {
		v.Oscillators[i].Reset()
		v.Oscillators[i].MIDINote = note
	}
	v.resetFMHistory()
	v.Env.NoteOn()
}

// NoteOff releases the envelope without deactivating the voice; the voice
// deactivates itself once the envelope reaches Off.
func (v *Voice) NoteOff() {
	v.Env.NoteOff()
}

// AllocatedAt returns the pool-assigned allocation age, used for
// oldest-wins stealing and for ranking voices by recency.
func (v *Voice) AllocatedAt() uint64 { return v.allocatedAt }

func (v *Voice) resetFMHistory() {
	for i := range v.lastOutputs {
		v.lastOutputs[i] = 0
	}
}

// Process advances the voice by one sample, given the FM depth matrix
// and per-oscillator modulation inputs for this block, and returns the
// voice's monaural output.
func (v *Voice) Process(sampleRate float64, fm *FMDepthMatrix, mods *[OscillatorCount]OscMod) float64 {
	if !v.Active {
		return 0
	}

	level := v.Env.Process(sampleRate)
	if v.Env.Stage() == envelope.Off {
		v.Active = false
		v.resetFMHistory()
		return 0
	}

	var fmInputs [OscillatorCount]float64
	for target := 0; target < OscillatorCount; target++ {
		var sum float64
		for source := 0; source < OscillatorCount; source++ {
			sum += v.lastOutputs[source] * fm[target][source] * fmScale
		}
		fmInputs[target] = sum
	}

	var currentOutputs [OscillatorCount]float64
	var weightedSum, totalWeight float64
	for i := 0; i < OscillatorCount; i++ {
		m := mods[i]
		out := v.Oscillators[i].Process(sampleRate, fmInputs[i], m.PitchOctaves, m.Morph, m.Duty, m.Ratio, m.OffsetHz)
		currentOutputs[i] = out

		weight := v.BaseLevel[i] + m.LevelMod
		if weight < 0 {
			weight = 0
		}
		weightedSum += out * weight
		totalWeight += weight
	}

	var mix float64
	if totalWeight > 0 {
		mix = weightedSum / totalWeight
	}

	v.lastOutputs = currentOutputs

	return mix * level
}
