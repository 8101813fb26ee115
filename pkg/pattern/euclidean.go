package pattern

// EuclideanPattern distributes hits maximally evenly across steps via
// Bjorklund's algorithm, then rotates the result.
type EuclideanPattern struct {
	Hits     int
	Steps    int
	Rotation int

	triggers []bool
}

// NewEuclideanPattern builds and generates a pattern of hits distributed
// across steps.
func NewEuclideanPattern(hits, steps, rotation int) *EuclideanPattern {
	e := &EuclideanPattern{Hits: hits, Steps: steps, Rotation: rotation}
	e.Generate()
	return e
}

// bjorklund implements the group-pairing construction: start with k
// groups of [true] and (n-k) groups of [false], then repeatedly pair the
// front and back groups (appending the back group's elements onto the
// front) while there is more than one "remainder" group left. This is
// not the textbook recursive Bjorklund description but the original's
// iterative pairing algorithm, which produces the same hit count and
// even distribution though possibly a different rotation of it.
func bjorklund(k, n int) []bool {
	if n <= 0 {
		return nil
	}
	if k <= 0 {
		return make([]bool, n)
	}
	if k >= n {
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}
		return out
	}

	groups := make([][]bool, 0, n)
	for i := 0; i < k; i++ {
		groups = append(groups, []bool{true})
	}
	for i := 0; i < n-k; i++ {
		groups = append(groups, []bool{false})
	}

	remainder := len(groups) - k
	for remainder > 1 {
		pairCount := min(k, remainder)
		if pairCount == 0 {
			break
		}
		var paired [][]bool
		for i := 0; i < pairCount; i++ {
			front := groups[i]
			back := groups[len(groups)-pairCount+i]
			combined := append(append([]bool(nil), front...), back...)
			paired = append(paired, combined)
		}
		rest := groups[pairCount : len(groups)-pairCount]
		groups = append(paired, rest...)

		k = pairCount
		remainder = len(groups) - k
	}

	var out []bool
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Generate (re)builds the trigger vector from Hits/Steps and applies
// Rotation.
func (e *EuclideanPattern) Generate() {
	base := bjorklund(e.Hits, e.Steps)
	e.triggers = rotateBools(base, e.Rotation)
}

func rotateBools(b []bool, by int) []bool {
	n := len(b)
	if n == 0 {
		return b
	}
	by = ((by % n) + n) % n
	out := make([]bool, n)
	for i := range b {
		out[(i+by)%n] = b[i]
	}
	return out
}

// GetTrigger returns whether step (modulo length) is a hit.
func (e *EuclideanPattern) GetTrigger(step int) bool {
	n := len(e.triggers)
	if n == 0 {
		return false
	}
	return e.triggers[((step%n)+n)%n]
}

// HitCount returns the number of true triggers.
func (e *EuclideanPattern) HitCount() int {
	n := 0
	for _, t := range e.triggers {
		if t {
			n++
		}
	}
	return n
}
