package osc

import "math"

// SyncMode selects whether the LFO runs free or locked to the clock tempo.
type SyncMode int

const (
	SyncOff SyncMode = iota
	SyncStraight
	SyncTriplet
	SyncDotted
)

// LFO is a control-rate generator sharing the oscillator's morph-based
// waveshaping core, with a free-running period or tempo sync.
type LFO struct {
	Sync   SyncMode
	Period float64 // seconds, used when Sync == SyncOff

	Morph float64
	Duty  float64
	Flip  bool

	ResetOnNote bool

	phase      uint32
	lastOutput float64
}

// NewLFO returns a free-running 1 Hz LFO with a centered morph.
func NewLFO() *LFO {
	return &LFO{Period: 1.0, Morph: 0.5, Duty: 0.5}
}

// NoteOn forces the phase to zero if ResetOnNote is set.
func (l *LFO) NoteOn() {
	if l.ResetOnNote {
		l.phase = 0
	}
}

// Frequency returns the LFO's current rate in Hz given the host tempo in
// beats per minute.
func (l *LFO) Frequency(bpm float64) float64 {
	if l.Sync == SyncOff {
		if l.Period <= 0 {
			return 0
		}
		return 1.0 / l.Period
	}
	beatsPerSecond := bpm / 60.0
	switch l.Sync {
	case SyncTriplet:
		return beatsPerSecond * 1.5
	case SyncDotted:
		return beatsPerSecond * (2.0 / 3.0)
	default: // SyncStraight
		return beatsPerSecond
	}
}

// Process advances the LFO by one sample (or one block, called with a
// larger effective sampleRate/n ratio by the caller) and returns the new
// value in [-1,+1]. rateModOctaves, morphMod and dutyMod are additive
// modulation-matrix contributions for this block only, mirroring the
// oscillator's additive-mod Process parameters.
func (l *LFO) Process(sampleRate, bpm, rateModOctaves, morphMod, dutyMod float64) float64 {
	if sampleRate <= 0 {
		return l.lastOutput
	}
	freq := l.Frequency(bpm) * math.Pow(2, rateModOctaves)
	inc := (freq / sampleRate) * twoPow32
	l.phase = uint32(int64(l.phase) + int64(inc))

	p := float64(l.phase) / twoPow32
	out := Shape(p, clamp01(l.Morph+morphMod), clamp01(l.Duty+dutyMod))
	if l.Flip {
		out = -out
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		out = 0
	}
	l.lastOutput = out
	return out
}

// Last returns the most recently produced value without advancing phase.
func (l *LFO) Last() float64 { return l.lastOutput }
