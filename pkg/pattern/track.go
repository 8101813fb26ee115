package pattern

// Track owns one pattern lane: its step data, its melodic constraints,
// its Markov generator, its Euclidean rhythm, and mute/solo flags.
type Track struct {
	ID   int
	Name string

	Pattern     *Pattern
	Constraints *MusicalConstraints
	Markov      *MarkovChain
	Euclidean   *EuclideanPattern

	Muted bool
	Solo  bool
}

// NewTrack builds a track with the original's per-track defaults
// (Phrygian/root D/octave 2-4/orbiting around D3/density 0.6) and an
// Euclidean rhythm covering the full pattern length at density*length
// hits.
func NewTrack(id int, patternLength int, subdivision int) *Track {
	t := &Track{
		ID:          id,
		Pattern:     New(patternLength, subdivision),
		Constraints: NewMusicalConstraints(),
	}
	t.Euclidean = NewEuclideanPattern(hitsFromDensity(t.Constraints.Density, patternLength), patternLength, 0)
	t.Markov = NewMarkovChain(t.Constraints.GetLegalNotes())
	t.Markov.SetOrbitingPattern(t.Constraints.GravityNote)
	return t
}

func hitsFromDensity(density float64, length int) int {
	h := int(density*float64(length) + 0.5)
	if h < 1 {
		h = 1
	}
	if h > length {
		h = length
	}
	return h
}

// GeneratePattern reinitializes the Markov chain from the current legal
// notes and reapplies the contour-matched preset builder, then
// regenerates the pattern content.
func (t *Track) GeneratePattern() {
	t.Markov = NewMarkovChain(t.Constraints.GetLegalNotes())
	switch t.Constraints.Contour {
	case RandomWalk:
		t.Markov.SetRandomWalk()
	case Ascending:
		t.Markov.SetAscending(0.7)
	case Descending:
		t.Markov.SetDescending(0.7)
	case Orbiting:
		t.Markov.SetOrbitingPattern(t.Constraints.GravityNote)
	case Drone:
		t.Markov.SetDronePattern(0.8)
	}

	t.Euclidean.Hits = hitsFromDensity(t.Constraints.Density, t.Pattern.Length())
	t.Euclidean.Steps = t.Pattern.Length()
	t.Euclidean.Generate()

	t.Pattern.GenerateFromConstraints(t.Euclidean, t.Markov, t.Constraints)
}
