package param

import "math"

// Smoother is a one-pole low-pass applied to a parameter so that a
// stepped UI change doesn't produce zipper noise. Coefficient is
// recomputed whenever the time constant or sample rate changes.
type Smoother struct {
	TimeSeconds float64
	SampleRate  float64

	current     float64
	target      float64
	coefficient float64
}

// NewSmoother returns a smoother with the given time constant (typically
// ~10ms) at sampleRate, starting settled at initial.
func NewSmoother(timeSeconds, sampleRate, initial float64) *Smoother {
	s := &Smoother{TimeSeconds: timeSeconds, SampleRate: sampleRate, current: initial, target: initial}
	s.recompute()
	return s
}

func (s *Smoother) recompute() {
	if s.TimeSeconds <= 0 || s.SampleRate <= 0 {
		s.coefficient = 1
		return
	}
	s.coefficient = 1 - math.Exp(-1/(s.TimeSeconds*s.SampleRate))
}

// SetTarget updates the value the smoother will converge toward.
func (s *Smoother) SetTarget(v float64) { s.target = v }

// Process advances the smoother by one sample and returns the new
// current value.
func (s *Smoother) Process() float64 {
	s.current += s.coefficient * (s.target - s.current)
	return s.current
}

// Current returns the smoother's value without advancing it.
func (s *Smoother) Current() float64 { return s.current }

// IsSettled reports whether current is within eps of target.
func (s *Smoother) IsSettled(eps float64) bool {
	return math.Abs(s.target-s.current) <= eps
}
