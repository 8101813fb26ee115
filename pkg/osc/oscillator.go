package osc

import "math"

// Mode selects how the oscillator's effective frequency is derived.
type Mode int

const (
	// Free runs at BaseFrequency regardless of any MIDI note.
	Free Mode = iota
	// Key tracks a MIDI note relative to C4 (note 60), scaled by Ratio
	// and shifted by OffsetHz.
	Key
)

const twoPow32 = 4294967296.0

// Oscillator is a single audio-rate, phase-distortion / tanh-shaped
// generator. Its phase is kept as a 32-bit fixed-point accumulator so that
// wraparound is exact modulo arithmetic, matching the fixed-size phase
// accumulator named in the data model.
type Oscillator struct {
	Mode Mode

	BaseFrequency float64 // Hz, used in Free mode
	MIDINote      int     // used in Key mode
	Ratio         float64 // Key-mode frequency multiplier
	OffsetHz      float64 // Key-mode frequency offset

	Morph float64 // [0,1]
	Duty  float64 // [0,1]
	Flip  bool

	phase  uint32 // fixed-point fractional-cycle accumulator
	output float64
}

// New returns an oscillator defaulting to a centered morph (sine) and a
// 50% duty cycle.
func New() *Oscillator {
	return &Oscillator{
		Ratio: 1.0,
		Morph: 0.5,
		Duty:  0.5,
	}
}

// Reset zeroes the phase accumulator and cached output; called on note-on.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.output = 0
}

// Output returns the amplitude produced by the most recent call to
// Process; it is this value the FM mixer reads one sample later.
func (o *Oscillator) Output() float64 { return o.output }

// EffectiveFrequency computes the oscillator's base frequency before FM,
// given a pitch modulation in octaves (positive/negative).
func (o *Oscillator) EffectiveFrequency(pitchModOctaves float64) float64 {
	switch o.Mode {
	case Key:
		const c4 = 261.6255653005986 // MIDI note 60
		base := c4*math.Pow(2, float64(o.MIDINote-60)/12.0)*o.Ratio + o.OffsetHz
		return base * math.Pow(2, pitchModOctaves)
	default: // Free
		return o.BaseFrequency * math.Pow(2, pitchModOctaves)
	}
}

// Process advances the oscillator by one sample and returns the new
// amplitude in [-1,+1]. fmHz is the already-computed frequency-modulation
// contribution in Hz-equivalent terms (the caller sums previous-sample
// outputs through the FM depth matrix before calling this). morphMod and
// dutyMod are additive modulation offsets to Morph/Duty for this sample
// only; pitchModOctaves/ratioMod/offsetModHz feed EffectiveFrequency.
func (o *Oscillator) Process(sampleRate float64, fmHz, pitchModOctaves, morphMod, dutyMod, ratioMod, offsetModHz float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	ratio := o.Ratio + ratioMod
	offset := o.OffsetHz + offsetModHz
	savedRatio, savedOffset := o.Ratio, o.OffsetHz
	o.Ratio, o.OffsetHz = ratio, offset
	freq := o.EffectiveFrequency(pitchModOctaves) + fmHz
	o.Ratio, o.OffsetHz = savedRatio, savedOffset

	inc := (freq / sampleRate) * twoPow32
	o.phase = uint32(int64(o.phase) + int64(inc))

	p := float64(o.phase) / twoPow32

	morph := clamp01(o.Morph + morphMod)
	duty := clamp01(o.Duty + dutyMod)

	out := Shape(p, morph, duty)
	if o.Flip {
		out = -out
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		out = 0
	}

	o.output = out
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
