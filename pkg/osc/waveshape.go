// Package osc implements the audio-rate oscillator and the control-rate LFO
// that shares its waveshaping core.
package osc

import "math"

// Shape renders one cycle of the morph-based waveform family at normalized
// phase p in [0,1) given morph m in [0,1] and duty d in [0,1].
//
// m < 0.5 takes the phase-distortion branch (warp the phase around an
// inflection point, then run it through -cos(2*pi*phase)); m >= 0.5 takes
// the tanh-shaping branch, where duty skews the pulse into PWM-style
// asymmetry. This is the single waveshaping core shared by Oscillator and
// LFO, matching how duty only ever affects the tanh branch. m=0.5 lands
// exactly on the tanh branch's zero-amount case (a near-sine), not the
// phase-distortion branch's degenerate zero-inflection ramp.
func Shape(p, m, d float64) float64 {
	if m < 0.5 {
		return phaseDistorted(p, m)
	}
	return tanhShaped(p, m, d)
}

// phaseDistorted implements the morph<0.5 branch: d = 1-2m is the warp
// inflection point; phase below it is stretched to fill [0,0.5), phase
// above it is stretched to fill [0.5,1).
func phaseDistorted(p, m float64) float64 {
	inflection := 1 - 2*m
	warped := phaseshaper(p, inflection)
	return -math.Cos(2 * math.Pi * warped)
}

// phaseshaper performs the piecewise-linear warp around inflection d.
// d = 0.5 leaves phase unwarped (sine); d near 0 compresses the cycle
// toward an impulse-like limit.
func phaseshaper(x, d float64) float64 {
	const eps = 1e-4
	if d < eps {
		d = eps
	}
	if d > 1-eps {
		d = 1 - eps
	}
	if x < d {
		return 0.5 * x / d
	}
	return 0.5 + 0.5*(x-d)/(1-d)
}

// tanhShaped implements the morph>=0.5 branch. amount sweeps 0..1 as m
// sweeps 0.5..1.0; gain grows from 1 to 10 across that sweep. duty shifts
// the sine by a phase-dependent offset before shaping, producing
// PWM-style pulse asymmetry that grows with amount.
func tanhShaped(p, m, duty float64) float64 {
	amount := (m - 0.5) * 2
	gain := 1 + amount*9

	sine := math.Sin(2 * math.Pi * p)
	theta := 2 * math.Pi * (duty - 0.5)
	x := sine - math.Sin(theta)

	beta := 1 + 80*amount
	tanhPulse := math.Tanh(beta * x)
	blended := (1-amount)*sine + amount*tanhPulse

	norm := math.Tanh(gain)
	if norm == 0 {
		return 0
	}
	return math.Tanh(blended*gain) / norm
}
