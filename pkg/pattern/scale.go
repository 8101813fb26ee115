package pattern

// Scale identifies one of the closed set of scales, or Custom for a
// user-supplied 12-slot bitmask.
type Scale int

const (
	Chromatic Scale = iota
	MajorScale
	MinorNatural
	MinorHarmonic
	Dorian
	Phrygian
	Lydian
	Mixolydian
	PentatonicMajor
	PentatonicMinor
	Custom
)

// intervals maps each built-in scale to its pitch-class intervals from
// the root, grounded on the original's exact interval tables.
var intervals = map[Scale][]int{
	Chromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	MajorScale:      {0, 2, 4, 5, 7, 9, 11},
	MinorNatural:    {0, 2, 3, 5, 7, 8, 10},
	MinorHarmonic:   {0, 2, 3, 5, 7, 8, 11},
	Dorian:          {0, 2, 3, 5, 7, 9, 10},
	Phrygian:        {0, 1, 3, 5, 7, 8, 10},
	Lydian:          {0, 2, 4, 6, 7, 9, 11},
	Mixolydian:      {0, 2, 4, 5, 7, 9, 10},
	PentatonicMajor: {0, 2, 4, 7, 9},
	PentatonicMinor: {0, 3, 5, 7, 10},
}

// Name returns a display name for the scale.
func (s Scale) Name() string {
	switch s {
	case Chromatic:
		return "Chromatic"
	case MajorScale:
		return "Major"
	case MinorNatural:
		return "Minor (natural)"
	case MinorHarmonic:
		return "Minor (harmonic)"
	case Dorian:
		return "Dorian"
	case Phrygian:
		return "Phrygian"
	case Lydian:
		return "Lydian"
	case Mixolydian:
		return "Mixolydian"
	case PentatonicMajor:
		return "Pentatonic major"
	case PentatonicMinor:
		return "Pentatonic minor"
	case Custom:
		return "Custom"
	default:
		return "Unknown"
	}
}
