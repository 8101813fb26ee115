// Package filter implements the stereo, type-selectable one-pole filter
// treated by the rest of the core as a black box behind a
// {type, cutoff, gain} parameter contract.
package filter

import "math"

// Type selects which one-pole response the filter produces.
type Type int

const (
	LowPass Type = iota
	HighPass
	LowShelf
	HighShelf
	Bypass
)

// onePoleTPT is a trapezoidal-integrator one-pole filter producing both
// lowpass and highpass outputs from a single state.
type onePoleTPT struct {
	state  float64
	g      float64
	invSum float64
}

func (f *onePoleTPT) setCutoff(hz, sampleRate float64) {
	hz = clamp(hz, 0, 0.49*sampleRate)
	f.g = math.Tan(math.Pi * hz / sampleRate)
	f.invSum = 1.0 / (1.0 + f.g)
}

func (f *onePoleTPT) process(x float64) (lp, hp float64) {
	v := (x - f.state) * (f.g * f.invSum)
	lp = v + f.state
	f.state = lp + v
	hp = x - lp
	return
}

// oneShelfBLT is a bilinear-transform one-pole shelving filter in
// transposed direct-form-II, shared by low- and high-shelf (the
// coefficient formulas differ only in b0/b1).
type oneShelfBLT struct {
	state      float64
	b0, b1, a1 float64
}

func (f *oneShelfBLT) setHighShelf(hz, gainLinear, sampleRate float64) {
	hz = clamp(hz, 1e-3, 0.49*sampleRate)
	g := math.Tan(math.Pi * hz / sampleRate)
	d := 1.0 + g + 1e-30
	f.a1 = (g - 1.0) / d
	f.b0 = (gainLinear + g) / d
	f.b1 = -(gainLinear - g) / d
}

func (f *oneShelfBLT) setLowShelf(hz, gainLinear, sampleRate float64) {
	hz = clamp(hz, 1e-3, 0.49*sampleRate)
	g := math.Tan(math.Pi * hz / sampleRate)
	d := 1.0 + g + 1e-30
	f.a1 = (g - 1.0) / d
	f.b0 = (1.0 + gainLinear*g) / d
	f.b1 = (gainLinear*g - 1.0) / d
}

func (f *oneShelfBLT) process(x float64) float64 {
	y := f.b0*x + f.state
	f.state = f.b1*x - f.a1*y
	return y
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// channel holds the independent state for one audio channel.
type channel struct {
	tpt   onePoleTPT
	shelf oneShelfBLT
}

// Filter is the stereo black box: one Type, one cutoff, one shelf gain,
// applied independently (but with identical coefficients) to L and R.
type Filter struct {
	Type       Type
	CutoffHz   float64
	GainDb     float64
	SampleRate float64

	left, right channel
}

// New returns a bypassed filter at the given sample rate.
func New(sampleRate float64) *Filter {
	f := &Filter{
		Type:       Bypass,
		CutoffHz:   1000,
		SampleRate: sampleRate,
	}
	f.updateCoeffs()
	return f
}

func (f *Filter) updateCoeffs() {
	gainLinear := math.Pow(10, f.GainDb/20.0)
	for _, ch := range []*channel{&f.left, &f.right} {
		ch.tpt.setCutoff(f.CutoffHz, f.SampleRate)
		switch f.Type {
		case HighShelf:
			ch.shelf.setHighShelf(f.CutoffHz, gainLinear, f.SampleRate)
		case LowShelf:
			ch.shelf.setLowShelf(f.CutoffHz, gainLinear, f.SampleRate)
		}
	}
}

// SetCutoff updates the cutoff/turnover frequency and recomputes
// coefficients for both channels.
func (f *Filter) SetCutoff(hz float64) {
	f.CutoffHz = hz
	f.updateCoeffs()
}

// SetGainDb updates the shelf gain (ignored by LowPass/HighPass) and
// recomputes coefficients.
func (f *Filter) SetGainDb(db float64) {
	f.GainDb = db
	f.updateCoeffs()
}

// SetType switches the filter's response and recomputes coefficients.
func (f *Filter) SetType(t Type) {
	f.Type = t
	f.updateCoeffs()
}

// ProcessSample runs one stereo sample through the filter. When Type is
// Bypass, it is a unity pass-through.
func (f *Filter) ProcessSample(inL, inR float64) (outL, outR float64) {
	if f.Type == Bypass {
		return inL, inR
	}
	outL = f.processChannel(&f.left, inL)
	outR = f.processChannel(&f.right, inR)
	return
}

func (f *Filter) processChannel(ch *channel, x float64) float64 {
	switch f.Type {
	case LowPass:
		lp, _ := ch.tpt.process(x)
		return lp
	case HighPass:
		_, hp := ch.tpt.process(x)
		return hp
	case LowShelf, HighShelf:
		return ch.shelf.process(x)
	default:
		return x
	}
}

// Process runs a block of interleaved stereo samples in place.
func (f *Filter) Process(buf []float64) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = f.ProcessSample(buf[i], buf[i+1])
	}
}
