package voice

import "github.com/oisee/wakefield/pkg/envelope"

// DefaultPoolSize is the typical voice count named in the data model.
const DefaultPoolSize = 8

// Pool is a fixed-size set of voices with a furthest-into-release-else-
// oldest stealing policy.
type Pool struct {
	Voices []*Voice
	age    uint64
}

// NewPool returns a pool of n inactive voices.
func NewPool(n int) *Pool {
	p := &Pool{Voices: make([]*Voice, n)}
	for i := range p.Voices {
		p.Voices[i] = New()
	}
	return p
}

// NoteOn allocates a voice for note, stealing one if necessary, and
// returns it.
func (p *Pool) NoteOn(note int) *Voice {
	p.age++

	for _, v := range p.Voices {
		if !v.Active {
			v.NoteOn(note, p.age)
			return v
		}
	}

	v := p.choosePreyToSteal()
	v.NoteOn(note, p.age)
	return v
}

// choosePreyToSteal picks the voice furthest into release (by progress,
// proxied here by envelope level, the closer to zero the further along);
// if none are in release, the oldest active voice is chosen.
func (p *Pool) choosePreyToSteal() *Voice {
	var best *Voice
	bestLevel := 2.0 // above any valid envelope level
	for _, v := range p.Voices {
		if v.Env.Stage() == envelope.Release && v.Env.Level() < bestLevel {
			best = v
			bestLevel = v.Env.Level()
		}
	}
	if best != nil {
		return best
	}

	var oldest *Voice
	for _, v := range p.Voices {
		if oldest == nil || v.allocatedAt < oldest.allocatedAt {
			oldest = v
		}
	}
	return oldest
}

// NoteOff releases every active voice matching note.
func (p *Pool) NoteOff(note int) {
	for _, v := range p.Voices {
		if v.Active && v.MIDINote == note {
			v.NoteOff()
		}
	}
}

// Process sums the monaural output of every active voice for one sample.
func (p *Pool) Process(sampleRate float64, fm *FMDepthMatrix, mods *[OscillatorCount]OscMod) float64 {
	var sum float64
	for _, v := range p.Voices {
		sum += v.Process(sampleRate, fm, mods)
	}
	return sum
}

// ActiveCount returns the number of currently active voices.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, v := range p.Voices {
		if v.Active {
			n++
		}
	}
	return n
}
