package pattern

import "math/rand/v2"

// MarkovChain is a weighted transition matrix over a discrete set of
// MIDI notes, used to drive melodic generation per contour.
type MarkovChain struct {
	States []int
	matrix [][]float64 // matrix[from][to], each row sums to 1.0
	last   int         // index into States
}

// NewMarkovChain builds a chain over states with a uniform transition
// matrix (every row is 1/n).
func NewMarkovChain(states []int) *MarkovChain {
	m := &MarkovChain{States: append([]int(nil), states...)}
	n := len(states)
	m.matrix = make([][]float64, n)
	uniform := 0.0
	if n > 0 {
		uniform = 1.0 / float64(n)
	}
	for i := range m.matrix {
		m.matrix[i] = make([]float64, n)
		for j := range m.matrix[i] {
			m.matrix[i][j] = uniform
		}
	}
	return m
}

func (m *MarkovChain) findStateIndex(note int) int {
	for i, s := range m.States {
		if s == note {
			return i
		}
	}
	return -1
}

// SetTransition sets the raw (pre-normalization) weight from `from` to
// `to`.
func (m *MarkovChain) SetTransition(from, to int, weight float64) {
	fi, ti := m.findStateIndex(from), m.findStateIndex(to)
	if fi < 0 || ti < 0 {
		return
	}
	m.matrix[fi][ti] = weight
}

// NormalizeRow scales row i so it sums to 1.0; falls back to uniform if
// the row sums to ~0.
func (m *MarkovChain) NormalizeRow(i int) {
	if i < 0 || i >= len(m.matrix) {
		return
	}
	var sum float64
	for _, w := range m.matrix[i] {
		sum += w
	}
	n := len(m.matrix[i])
	if sum < 1e-9 {
		uniform := 0.0
		if n > 0 {
			uniform = 1.0 / float64(n)
		}
		for j := range m.matrix[i] {
			m.matrix[i][j] = uniform
		}
		return
	}
	for j := range m.matrix[i] {
		m.matrix[i][j] /= sum
	}
}

// NormalizeAll normalizes every row.
func (m *MarkovChain) NormalizeAll() {
	for i := range m.matrix {
		m.NormalizeRow(i)
	}
}

// weightedRandomChoice scans the cumulative probability of row i and
// returns the sampled column index.
func weightedRandomChoice(row []float64) int {
	r := rand.Float64()
	var cumulative float64
	for i, w := range row {
		cumulative += w
		if r <= cumulative {
			return i
		}
	}
	return len(row) - 1
}

// GetNextState samples the next note from the current state's row and
// advances `last`.
func (m *MarkovChain) GetNextState() int {
	if len(m.States) == 0 {
		return 0
	}
	idx := weightedRandomChoice(m.matrix[m.last])
	m.last = idx
	return m.States[idx]
}

// indexOf returns the position of note in the ordered state list, or -1
// if it is not a state.
func (m *MarkovChain) indexOf(note int) int { return m.findStateIndex(note) }

// SetRandomWalk builds a distance-based preset: 30% stay, 70% distributed
// among neighbors within index-distance <= 3.
func (m *MarkovChain) SetRandomWalk() {
	n := len(m.States)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		row[i] = 0.3
		var neighbors []int
		for j := 0; j < n; j++ {
			if j != i && abs(j-i) <= 3 {
				neighbors = append(neighbors, j)
			}
		}
		if len(neighbors) > 0 {
			share := 0.7 / float64(min(6, len(neighbors)))
			for _, j := range neighbors {
				row[j] += share
			}
		} else {
			row[i] = 1.0
		}
		m.matrix[i] = row
		m.NormalizeRow(i)
	}
}

// SetOrbitingPattern builds weights decreasing with index-distance from
// the state nearest to centerNote, boosting the exact center 1.5x.
func (m *MarkovChain) SetOrbitingPattern(centerNote int) {
	n := len(m.States)
	centerIdx := closestIndex(m.States, centerNote)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			d := abs(j - centerIdx)
			distFromCenterToI := abs(i - centerIdx)
			distFromCenterToJ := d
			switch {
			case distFromCenterToJ < distFromCenterToI:
				row[j] = 0.4
			case distFromCenterToJ == distFromCenterToI:
				row[j] = 0.3
			default:
				row[j] = 0.1
			}
			if j == centerIdx {
				row[j] *= 1.5
			}
		}
		m.matrix[i] = row
		m.NormalizeRow(i)
	}
}

// SetAscending biases transitions toward higher-index states.
func (m *MarkovChain) SetAscending(bias float64) {
	n := len(m.States)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			if j > i {
				row[j] = bias
			} else {
				row[j] = 1 - bias
			}
		}
		m.matrix[i] = row
		m.NormalizeRow(i)
	}
}

// SetDescending biases transitions toward lower-index states.
func (m *MarkovChain) SetDescending(bias float64) {
	n := len(m.States)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			if j < i {
				row[j] = bias
			} else {
				row[j] = 1 - bias
			}
		}
		m.matrix[i] = row
		m.NormalizeRow(i)
	}
}

// SetDronePattern builds a repeat-heavy transition table: repeatProb for
// self-transition, remainder shared among neighbors within distance<=2.
func (m *MarkovChain) SetDronePattern(repeatProb float64) {
	n := len(m.States)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		row[i] = repeatProb
		var neighbors []int
		for j := 0; j < n; j++ {
			if j != i && abs(j-i) <= 2 {
				neighbors = append(neighbors, j)
			}
		}
		if len(neighbors) > 0 {
			share := (1 - repeatProb) / float64(len(neighbors))
			for _, j := range neighbors {
				row[j] += share
			}
		} else {
			row[i] = 1.0
		}
		m.matrix[i] = row
		m.NormalizeRow(i)
	}
}

// Reinforce increases the weight of the most recently taken transition,
// a self-modification operator present in the original but not named by
// the base spec; exposed here as a supplement for adaptive sequencing.
func (m *MarkovChain) Reinforce(from int, amount float64) {
	fi := m.findStateIndex(from)
	if fi < 0 {
		return
	}
	m.matrix[fi][m.last] += amount
	m.NormalizeRow(fi)
}

// Decay blends every row toward uniform by rate (each weight becomes
// (1-rate)*w + rate/n), pulling the matrix back toward uniform over
// time; the complementary supplement to Reinforce.
func (m *MarkovChain) Decay(rate float64) {
	for i := range m.matrix {
		n := float64(len(m.matrix[i]))
		for j := range m.matrix[i] {
			m.matrix[i][j] = m.matrix[i][j]*(1-rate) + rate/n
		}
		m.NormalizeRow(i)
	}
}

// RowSum returns the sum of row i, for invariant testing.
func (m *MarkovChain) RowSum(i int) float64 {
	var sum float64
	for _, w := range m.matrix[i] {
		sum += w
	}
	return sum
}
