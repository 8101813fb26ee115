// Package clock implements the musical timebase: tempo, a running sample
// counter, and per-subdivision step-trigger detection.
package clock

// Subdivision is the denominator of a musical fraction (16 = sixteenth
// notes).
type Subdivision int

const (
	Whole        Subdivision = 1
	Half         Subdivision = 2
	Quarter      Subdivision = 4
	Eighth       Subdivision = 8
	Sixteenth    Subdivision = 16
	ThirtySecond Subdivision = 32
	SixtyFourth  Subdivision = 64
)

// Clock is the shared musical timebase.
type Clock struct {
	SampleRate float64
	tempoBPM   float64
	counter    uint64
	Playing    bool

	loopEnabled    bool
	loopStartCount uint64
	loopEndCount   uint64
}

// New returns a clock at 120 BPM, stopped.
func New(sampleRate float64) *Clock {
	c := &Clock{SampleRate: sampleRate}
	c.SetTempo(120)
	return c
}

// SetTempo clamps to [20,300] BPM per the data model.
func (c *Clock) SetTempo(bpm float64) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	c.tempoBPM = bpm
}

// Tempo returns the current tempo in BPM.
func (c *Clock) Tempo() float64 { return c.tempoBPM }

// SamplesPerBeat returns the derived samples-per-beat for the current
// tempo and sample rate.
func (c *Clock) SamplesPerBeat() float64 {
	return (60.0 / c.tempoBPM) * c.SampleRate
}

// SamplesPerStep returns samples_per_beat * 4/S for subdivision s.
func (c *Clock) SamplesPerStep(s Subdivision) float64 {
	return c.SamplesPerBeat() * 4.0 / float64(s)
}

// Counter returns the running sample counter.
func (c *Clock) Counter() uint64 { return c.counter }

// SetLoopPoints configures a clock-level loop window in samples; a
// supplemental feature mirroring the original's clock loop-region points
// (distinct from the sequencer's own per-step pattern looping).
func (c *Clock) SetLoopPoints(startSample, endSample uint64) {
	c.loopStartCount, c.loopEndCount = startSample, endSample
}

// EnableLoop turns the clock-level loop window on or off.
func (c *Clock) EnableLoop(on bool) { c.loopEnabled = on }

// Advance moves the counter forward by n samples if playing, wrapping
// within the loop window if one is enabled.
func (c *Clock) Advance(n uint64) {
	if !c.Playing {
		return
	}
	c.counter += n
	if c.loopEnabled && c.loopEndCount > c.loopStartCount && c.counter >= c.loopEndCount {
		span := c.loopEndCount - c.loopStartCount
		over := c.counter - c.loopEndCount
		c.counter = c.loopStartCount + (over % span)
	}
}

// CheckStepTrigger returns whether a step boundary was crossed while
// advancing n samples (counter before Advance vs counter after), for
// subdivision s, and the new step index if so.
func (c *Clock) CheckStepTrigger(before, after uint64, s Subdivision) (triggered bool, stepIndex int) {
	stepLen := c.SamplesPerStep(s)
	oldStep := int(float64(before) / stepLen)
	newStep := int(float64(after) / stepLen)
	if newStep > oldStep {
		return true, newStep
	}
	return false, 0
}

// GetPhase returns the fractional position within the current step for
// subdivision s, in [0,1).
func (c *Clock) GetPhase(s Subdivision) float64 {
	stepLen := c.SamplesPerStep(s)
	if stepLen <= 0 {
		return 0
	}
	pos := float64(c.counter)
	return mod(pos, stepLen) / stepLen
}

// GetCurrentStep returns the absolute step index for subdivision s.
func (c *Clock) GetCurrentStep(s Subdivision) int {
	return int(float64(c.counter) / c.SamplesPerStep(s))
}

func mod(a, b float64) float64 {
	m := a - float64(int64(a/b))*b
	if m < 0 {
		m += b
	}
	return m
}
