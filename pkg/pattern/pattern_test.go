package pattern

import "testing"

func TestPattern_IndexingIsBijectiveUnderRotation(t *testing.T) {
	p := New(8, 16)
	p.Rotate(3)
	for i := -20; i < 20; i++ {
		a := p.GetStep(i)
		b := p.GetStep(i + p.Length())
		if a != b {
			t.Fatalf("step(%d) != step(%d+length)", i, i)
		}
	}
}

func TestPattern_RotateInverseIsIdentity(t *testing.T) {
	p := New(8, 16)
	p.GetStep(2).MIDINote = 64 // mark a step so rotation is observable
	before := *p.GetStep(0)

	p.Rotate(5)
	p.Rotate(-5)

	after := *p.GetStep(0)
	if before != after {
		t.Fatalf("rotate(5) then rotate(-5) changed step 0: %+v vs %+v", before, after)
	}
}

func TestPattern_ZeroLengthClampsToOne(t *testing.T) {
	p := New(0, 16)
	if p.Length() != 1 {
		t.Fatalf("Length = %d, want 1 for zero-length construction", p.Length())
	}
}

func TestPattern_LockedStepsImmuneToMutation(t *testing.T) {
	p := New(4, 16)
	s := p.GetStep(0)
	s.Active = true
	s.Locked = true
	s.MIDINote = 60
	s.Velocity = 100

	c := NewMusicalConstraints()
	for i := 0; i < 100; i++ {
		p.Mutate(1.0, c)
	}

	if s.MIDINote != 60 || s.Velocity != 100 {
		t.Fatalf("locked step mutated: note=%d vel=%d", s.MIDINote, s.Velocity)
	}
}

func TestQuantizeToScale_Idempotent(t *testing.T) {
	c := NewMusicalConstraints()
	for n := 0; n < 128; n++ {
		once := c.QuantizeToScale(n)
		twice := c.QuantizeToScale(once)
		if once != twice {
			t.Fatalf("quantize not idempotent at %d: once=%d twice=%d", n, once, twice)
		}
	}
}

func TestEuclidean_HitCountMatchesMinHitsSteps(t *testing.T) {
	cases := []struct{ hits, steps, want int }{
		{5, 8, 5},
		{0, 8, 0},
		{8, 8, 8},
		{12, 8, 8},
	}
	for _, c := range cases {
		e := NewEuclideanPattern(c.hits, c.steps, 0)
		if e.HitCount() != c.want {
			t.Fatalf("Euclidean(%d,%d) hit count = %d, want %d", c.hits, c.steps, e.HitCount(), c.want)
		}
	}
}

func TestEuclidean_5of8IsEvenlyDistributed(t *testing.T) {
	e := NewEuclideanPattern(5, 8, 0)
	if e.HitCount() != 5 {
		t.Fatalf("hit count = %d, want 5", e.HitCount())
	}

	var gaps []int
	last := -1
	first := -1
	for i := 0; i < 8; i++ {
		if e.GetTrigger(i) {
			if last >= 0 {
				gaps = append(gaps, i-last)
			} else {
				first = i
			}
			last = i
		}
	}
	gaps = append(gaps, (first+8)-last)

	minGap, maxGap := gaps[0], gaps[0]
	for _, g := range gaps {
		if g < minGap {
			minGap = g
		}
		if g > maxGap {
			maxGap = g
		}
	}
	if maxGap-minGap > 1 {
		t.Fatalf("gaps not maximally even: %v", gaps)
	}
}

func TestMarkov_RowsSumToOneAfterNormalization(t *testing.T) {
	states := []int{60, 62, 64, 65, 67, 69, 71}
	m := NewMarkovChain(states)
	m.SetOrbitingPattern(65)
	for i := range states {
		sum := m.RowSum(i)
		if sum < 1-1e-6 || sum > 1+1e-6 {
			t.Fatalf("row %d sums to %v, want ~1.0", i, sum)
		}
	}
}

func TestMarkov_ReinforceIncreasesWeight(t *testing.T) {
	states := []int{60, 62, 64}
	m := NewMarkovChain(states)
	m.last = 1
	before := m.matrix[0][1]
	m.Reinforce(60, 5.0)
	after := m.matrix[0][1]
	if after <= before {
		t.Fatalf("Reinforce did not increase weight: before=%v after=%v", before, after)
	}
	if sum := m.RowSum(0); sum < 1-1e-6 || sum > 1+1e-6 {
		t.Fatalf("row not renormalized after Reinforce: sum=%v", sum)
	}
}

func TestTrack_GeneratePatternProducesValidSteps(t *testing.T) {
	tr := NewTrack(0, 16, 16)
	tr.GeneratePattern()

	active := 0
	for i := 0; i < tr.Pattern.Length(); i++ {
		s := tr.Pattern.GetStep(i)
		if s.Active {
			active++
			if s.Velocity < 1 || s.Velocity > 127 {
				t.Fatalf("active step velocity out of range: %d", s.Velocity)
			}
			if s.MIDINote < 0 || s.MIDINote > 127 {
				t.Fatalf("active step note out of range: %d", s.MIDINote)
			}
		}
	}
	if active == 0 {
		t.Fatal("expected at least one active step from a 0.6-density pattern")
	}
}
