// Package reverb implements a stereo, black-box diffused-delay-network
// reverb behind the named parameter contract the rest of the core talks
// to: {delayTime, size, damping, mix, decay, diffusion, modDepth, modFreq}.
//
// The original's reverb is a Faust-generated Greyhole network (not
// portable), so this is a from-scratch diffused feedback-delay network of
// the same general shape: a bank of modulated comb-like delay lines
// feeding into a damped feedback loop, cross-fed between L/R for
// diffusion, summed and crossfaded against the dry signal.
package reverb

import "math"

const numLines = 4

// Reverb is the stereo reverb black box.
type Reverb struct {
	Enabled bool

	DelayTimeMs float64
	Size        float64 // [0,1] scales delay line lengths
	Damping     float64 // [0,1] feedback lowpass amount
	Mix         float64 // [0,1] dry/wet
	Decay       float64 // [0,1] feedback gain
	Diffusion   float64 // [0,1] cross-feed amount between lines
	ModDepth    float64 // fraction of delay length modulated
	ModFreq     float64 // Hz

	sampleRate float64
	lines      [numLines]line
	lfoPhase   float64
}

type line struct {
	buf      []float64
	writePos int
	lpState  float64
}

// baseDelayMs are the relative base lengths (ms) for the four lines,
// chosen mutually prime-ish to avoid flutter/comb coloration.
var baseDelayMs = [numLines]float64{29.7, 37.1, 41.3, 47.9}

// New returns a disabled reverb sized for up to 500ms delay lines at the
// given sample rate.
func New(sampleRate float64) *Reverb {
	r := &Reverb{
		DelayTimeMs: 40,
		Size:        0.5,
		Damping:     0.5,
		Mix:         0.3,
		Decay:       0.5,
		Diffusion:   0.5,
		ModDepth:    0.002,
		ModFreq:     0.3,
		sampleRate:  sampleRate,
	}
	maxFrames := int(0.5*sampleRate) + 16
	for i := range r.lines {
		r.lines[i].buf = make([]float64, maxFrames)
	}
	return r
}

func (r *Reverb) delayLenSamples(i int) int {
	ms := baseDelayMs[i] * (0.3 + r.Size*1.7) * (r.DelayTimeMs / 40.0)
	n := int(ms * 0.001 * r.sampleRate)
	if n < 1 {
		n = 1
	}
	if n >= len(r.lines[i].buf) {
		n = len(r.lines[i].buf) - 1
	}
	return n
}

// ProcessSample runs one stereo sample through the reverb. When disabled
// it is a unity pass-through.
func (r *Reverb) ProcessSample(inL, inR float64) (outL, outR float64) {
	if !r.Enabled {
		return inL, inR
	}

	r.lfoPhase += r.ModFreq / r.sampleRate
	if r.lfoPhase >= 1 {
		r.lfoPhase -= 1
	}
	mod := math.Sin(2 * math.Pi * r.lfoPhase)

	mono := (inL + inR) * 0.5
	var wet float64
	feedback := r.Decay

	for i := range r.lines {
		ln := &r.lines[i]
		n := r.delayLenSamples(i)
		modOffset := int(mod * r.ModDepth * float64(n))
		readPos := ln.writePos - n + modOffset
		for readPos < 0 {
			readPos += len(ln.buf)
		}
		readPos %= len(ln.buf)

		delayed := ln.buf[readPos]
		ln.lpState += (delayed - ln.lpState) * (1 - r.Damping)
		damped := ln.lpState

		crossFeed := 0.0
		if numLines > 1 {
			other := &r.lines[(i+1)%numLines]
			otherRead := (other.writePos - n + len(other.buf)) % len(other.buf)
			crossFeed = other.buf[otherRead] * r.Diffusion
		}

		input := mono + damped*feedback + crossFeed*0.5
		ln.buf[ln.writePos] = input
		ln.writePos = (ln.writePos + 1) % len(ln.buf)

		wet += damped
	}
	wet /= numLines

	mixL := inL*(1-r.Mix) + wet*r.Mix
	mixR := inR*(1-r.Mix) + wet*r.Mix
	return mixL, mixR
}

// Process runs a block of interleaved stereo samples in place.
func (r *Reverb) Process(buf []float64) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = r.ProcessSample(buf[i], buf[i+1])
	}
}
