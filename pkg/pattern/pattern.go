package pattern

import "math/rand/v2"

// Step is one slot of a pattern: trigger data plus optional per-step
// automation of synthesis parameters. The automation fields use -1 as
// "not set", matching the original's sentinel convention.
type Step struct {
	Active      bool
	Locked      bool
	MIDINote    int     // [0,127]
	Velocity    int     // [1,127]
	GateLength  float64 // [0,2], multiple of step duration
	Probability float64 // [0,1]

	// Optional per-step parameter automation (supplement, not named by
	// the base spec but present in the original and not excluded by any
	// Non-goal). -1 means unset.
	FilterCutoff   float64
	ReverbMix      float64
	OscillatorMorph float64
}

func newUnsetStep() Step {
	return Step{
		GateLength:      0.85,
		Probability:     1.0,
		FilterCutoff:    -1,
		ReverbMix:       -1,
		OscillatorMorph: -1,
	}
}

// Pattern is an ordered array of steps with a rotation offset.
// Invariant: indexing uses (i+rotation) mod length.
type Pattern struct {
	steps       []Step
	rotation    int
	Subdivision int // denominator, e.g. 16
}

// New constructs a pattern of the given length (1-256). Zero or negative
// length is rejected by clamping to 1, matching the "zero-length pattern
// is rejected at construction" boundary rule.
func New(length int, subdivision int) *Pattern {
	if length < 1 {
		length = 1
	}
	if length > 256 {
		length = 256
	}
	p := &Pattern{steps: make([]Step, length), Subdivision: subdivision}
	for i := range p.steps {
		p.steps[i] = newUnsetStep()
	}
	return p
}

// Length returns the pattern length.
func (p *Pattern) Length() int { return len(p.steps) }

// GetStep returns a pointer to the step at the rotated index i.
func (p *Pattern) GetStep(i int) *Step {
	n := len(p.steps)
	idx := (((i + p.rotation) % n) + n) % n
	return &p.steps[idx]
}

// Rotate adds k to the rotation, reduced modulo length.
func (p *Pattern) Rotate(k int) {
	n := len(p.steps)
	p.rotation = (((p.rotation + k) % n) + n) % n
}

// Rotation returns the current rotation offset.
func (p *Pattern) Rotation() int { return p.rotation }

// GenerateFromConstraints (re)populates every unlocked step using the
// Euclidean trigger vector, the Markov chain for pitch, and constraints
// for quantization, matching the original's generateStep behavior.
func (p *Pattern) GenerateFromConstraints(euclid *EuclideanPattern, markov *MarkovChain, constraints *MusicalConstraints) {
	for i := 0; i < len(p.steps); i++ {
		s := p.GetStep(i)
		if s.Locked {
			continue
		}
		p.generateStep(i, s, euclid, markov, constraints)
	}
}

// RegenerateUnlocked is an alias kept for the original's naming of the
// same operation when re-rolling an existing pattern without resetting
// lock state.
func (p *Pattern) RegenerateUnlocked(euclid *EuclideanPattern, markov *MarkovChain, constraints *MusicalConstraints) {
	p.GenerateFromConstraints(euclid, markov, constraints)
}

func (p *Pattern) generateStep(i int, s *Step, euclid *EuclideanPattern, markov *MarkovChain, constraints *MusicalConstraints) {
	trigger := euclid.GetTrigger(i)
	s.Active = trigger
	if !trigger {
		return
	}

	note := markov.GetNextState()
	s.MIDINote = constraints.QuantizeToScale(note)
	s.Velocity = 70 + rand.IntN(31)
	s.GateLength = 0.7 + float64(rand.IntN(31))/100.0
	// Density already gates which steps trigger at all via the Euclidean
	// vector; a generated, active step should almost always fire.
	s.Probability = generatedStepProbability
}

const generatedStepProbability = 0.97

// Mutate nudges unlocked active steps by small random amounts scaled by
// amount in [0,1]: note shift with probability amount, velocity shift
// with probability amount*0.5, probability shift with probability
// amount*0.3.
func (p *Pattern) Mutate(amount float64, constraints *MusicalConstraints) {
	for i := range p.steps {
		s := &p.steps[i]
		if s.Locked || !s.Active {
			continue
		}

		if rand.Float64() < amount {
			shift := rand.IntN(5) - 2 // -2..+2
			s.MIDINote = constraints.QuantizeToScale(s.MIDINote + shift)
		}
		if rand.Float64() < amount*0.5 {
			shift := rand.IntN(21) - 10 // -10..+10
			v := s.Velocity + shift
			s.Velocity = clampInt(v, 1, 127)
		}
		if rand.Float64() < amount*0.3 {
			shift := float64(rand.IntN(21)-10) / 100.0 // -0.1..+0.1
			pr := s.Probability + shift
			s.Probability = clampFloat(pr, 0, 1)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
