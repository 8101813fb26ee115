package pattern

import "math/rand/v2"

// Contour is a melodic policy implemented as a probability-weighted
// transition preset over the legal-note alphabet.
type Contour int

const (
	RandomWalk Contour = iota
	Ascending
	Descending
	Orbiting
	Drone
)

// MusicalConstraints bounds which MIDI notes a track may choose and how
// its melodic contour moves between them.
type MusicalConstraints struct {
	ScaleID     Scale
	CustomMask  [12]bool // used when ScaleID == Custom
	RootNote    int      // [0,11]
	OctaveMin   int
	OctaveMax   int
	Density     float64 // [0,1]
	Contour     Contour
	GravityNote int
	MaxInterval int // cap on legal-note index steps
}

// NewMusicalConstraints returns constraints matching the original's
// per-track defaults: Phrygian, root D, octave 2-4, orbiting around D3.
func NewMusicalConstraints() *MusicalConstraints {
	return &MusicalConstraints{
		ScaleID:     Phrygian,
		RootNote:    2,
		OctaveMin:   2,
		OctaveMax:   4,
		Density:     0.6,
		Contour:     Orbiting,
		GravityNote: 50,
		MaxInterval: 12,
	}
}

func (c *MusicalConstraints) isInScale(pitchClass int) bool {
	if c.ScaleID == Custom {
		return c.CustomMask[((pitchClass-c.RootNote)%12+12)%12]
	}
	ivals := intervals[c.ScaleID]
	rel := ((pitchClass - c.RootNote) % 12 + 12) % 12
	for _, iv := range ivals {
		if iv == rel {
			return true
		}
	}
	return false
}

// GetLegalNotes returns every MIDI note in [octaveMin, octaveMax] (each
// spanning 12 semitones from (octave+1)*12, matching the original's
// convention) whose pitch class is in the active scale.
func (c *MusicalConstraints) GetLegalNotes() []int {
	var notes []int
	for octave := c.OctaveMin; octave <= c.OctaveMax; octave++ {
		base := (octave + 1) * 12
		for pc := 0; pc < 12; pc++ {
			note := base + pc
			if note < 0 || note > 127 {
				continue
			}
			if c.isInScale(note) {
				notes = append(notes, note)
			}
		}
	}
	return notes
}

// QuantizeToScale returns the legal note with the smallest |n - legal|,
// ties broken toward the first (lowest) candidate found by the scan.
func (c *MusicalConstraints) QuantizeToScale(n int) int {
	legal := c.GetLegalNotes()
	if len(legal) == 0 {
		return n
	}
	best := legal[0]
	bestDist := abs(n - best)
	for _, l := range legal[1:] {
		d := abs(n - l)
		if d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GetConstrainedNextNote implements the per-contour transition rule,
// operating on legal-note indices (not raw MIDI distance) exactly as the
// original does.
func (c *MusicalConstraints) GetConstrainedNextNote(current int) int {
	legal := c.GetLegalNotes()
	if len(legal) == 0 {
		return current
	}
	curIdx := closestIndex(legal, current)

	switch c.Contour {
	case Drone:
		if rand.Float64() < 0.8 {
			return legal[curIdx]
		}
		return c.randomWalkFrom(legal, curIdx)

	case Ascending:
		if rand.Float64() < 0.7 {
			step := 1 + rand.IntN(min(c.effectiveMaxInterval(), 3))
			return legal[clampIndex(curIdx+step, len(legal))]
		}
		return legal[curIdx]

	case Descending:
		if rand.Float64() < 0.7 {
			step := 1 + rand.IntN(min(c.effectiveMaxInterval(), 3))
			return legal[clampIndex(curIdx-step, len(legal))]
		}
		return legal[curIdx]

	case Orbiting:
		gravityIdx := closestIndex(legal, c.GravityNote)
		dist := curIdx - gravityIdx
		if abs(dist) < 2 {
			step := rand.IntN(3) - 1 // -1,0,1
			return legal[clampIndex(curIdx+step, len(legal))]
		}
		if rand.Float64() < 0.6 {
			if dist > 0 {
				return legal[clampIndex(curIdx-1, len(legal))]
			}
			return legal[clampIndex(curIdx+1, len(legal))]
		}
		return legal[curIdx]

	default: // RandomWalk
		return c.randomWalkFrom(legal, curIdx)
	}
}

func (c *MusicalConstraints) randomWalkFrom(legal []int, curIdx int) int {
	maxSteps := min(c.effectiveMaxInterval(), 3)
	step := rand.IntN(maxSteps*2+1) - maxSteps
	return legal[clampIndex(curIdx+step, len(legal))]
}

func (c *MusicalConstraints) effectiveMaxInterval() int {
	if c.MaxInterval <= 0 {
		return 1
	}
	return c.MaxInterval
}

func closestIndex(legal []int, note int) int {
	best := 0
	bestDist := abs(note - legal[0])
	for i, l := range legal[1:] {
		d := abs(note - l)
		if d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
