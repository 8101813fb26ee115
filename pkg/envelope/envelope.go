// Package envelope implements the per-voice ADSR envelope with bendable
// attack/release curves.
package envelope

import "math"

// Stage is one of the ADSR states.
type Stage int

const (
	Off Stage = iota
	Attack
	Decay
	Sustain
	Release
)

// minSegmentSeconds clamps attack/decay/release times to prevent division
// by zero and to retain a perceptible transient.
const minSegmentSeconds = 0.001

// Envelope is a per-voice ADSR state machine. releaseStartLevel is kept as
// a struct field (not a function-local static, as the envelope this was
// modeled on mistakenly did) so that every Envelope instance tracks its
// own release starting point independently.
type Envelope struct {
	AttackSeconds  float64
	DecaySeconds   float64
	SustainLevel   float64 // [0,1]
	ReleaseSeconds float64

	AttackBend  float64 // [0,1], 0.5 = linear
	ReleaseBend float64 // [0,1], applied to both decay and release

	stage             Stage
	level             float64
	progress          float64
	releaseStartLevel float64
}

// New returns an envelope in the Off stage with linear (0.5) bends.
func New() *Envelope {
	return &Envelope{
		AttackSeconds:  0.01,
		DecaySeconds:   0.1,
		SustainLevel:   0.7,
		ReleaseSeconds: 0.2,
		AttackBend:     0.5,
		ReleaseBend:    0.5,
	}
}

// Stage returns the current ADSR stage.
func (e *Envelope) Stage() Stage { return e.stage }

// Level returns the current output level in [0,1].
func (e *Envelope) Level() float64 { return e.level }

// NoteOn transitions Off -> Attack (or restarts from any stage into
// Attack at level 0, matching a fresh trigger).
func (e *Envelope) NoteOn() {
	e.stage = Attack
	e.level = 0
	e.progress = 0
}

// NoteOff transitions the envelope into Release, capturing the level at
// the moment of release so release duration is independent of how far
// along attack/decay/sustain the envelope was.
func (e *Envelope) NoteOff() {
	if e.stage == Off {
		return
	}
	e.releaseStartLevel = e.level
	e.stage = Release
	e.progress = 0
}

// applyBend maps linear progress t in [0,1] to t^e where
// e = 10^((bend-0.5)*2). bend=0.5 is the identity transform.
func applyBend(t, bend float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	exp := math.Pow(10, (bend-0.5)*2)
	return math.Pow(t, exp)
}

func clampSeconds(s float64) float64 {
	if s < minSegmentSeconds {
		return minSegmentSeconds
	}
	return s
}

// Process advances the envelope by one sample and returns the new level.
func (e *Envelope) Process(sampleRate float64) float64 {
	if sampleRate <= 0 {
		return e.level
	}

	switch e.stage {
	case Off:
		e.level = 0

	case Attack:
		rate := 1.0 / (clampSeconds(e.AttackSeconds) * sampleRate)
		e.progress += rate
		if e.progress >= 1.0 {
			e.level = 1.0
			e.stage = Decay
			e.progress = 0
		} else {
			e.level = applyBend(e.progress, e.AttackBend)
		}

	case Decay:
		rate := 1.0 / (clampSeconds(e.DecaySeconds) * sampleRate)
		e.progress += rate
		if e.progress >= 1.0 {
			e.level = e.SustainLevel
			e.stage = Sustain
			e.progress = 0
		} else {
			shaped := applyBend(e.progress, e.ReleaseBend)
			e.level = 1.0 - (1.0-e.SustainLevel)*shaped
		}

	case Sustain:
		e.level = e.SustainLevel

	case Release:
		rate := 1.0 / (clampSeconds(e.ReleaseSeconds) * sampleRate)
		e.progress += rate
		if e.progress >= 1.0 || e.level <= 0 {
			e.level = 0
			e.stage = Off
		} else {
			shaped := applyBend(e.progress, e.ReleaseBend)
			e.level = e.releaseStartLevel * (1.0 - shaped)
		}
	}

	return e.level
}
