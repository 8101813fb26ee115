package modmatrix

import (
	"math"
	"testing"
)

func TestMatrix_IncompleteSlotDoesNotContribute(t *testing.T) {
	var m Matrix
	m.Slots[0].Source = SourceLFO1 // destination never assigned

	out := m.Evaluate(func(Source) (float64, bool) { return 1.0, true })
	if out.Value(DestFilterCutoff) != 0 {
		t.Fatalf("incomplete slot contributed a value")
	}
}

func TestMatrix_UnknownSourceTreatedAsInactive(t *testing.T) {
	var m Matrix
	m.Slots[0].Assign(SourceLFO1, CurveLinear, 99, DestFilterCutoff, Bidirectional)

	out := m.Evaluate(func(Source) (float64, bool) { return 0, false })
	if out.Value(DestFilterCutoff) != 0 {
		t.Fatalf("unknown source contributed a nonzero value")
	}
}

func TestMatrix_UnidirectionalMapsToZeroOne(t *testing.T) {
	var m Matrix
	m.Slots[0].Assign(SourceLFO1, CurveLinear, 99, DestFilterCutoff, Unidirectional)

	out := m.Evaluate(func(Source) (float64, bool) { return -1, true })
	if math.Abs(out.Value(DestFilterCutoff)) > 1e-9 {
		t.Fatalf("unidirectional source=-1 should map to 0 contribution, got %v", out.Value(DestFilterCutoff))
	}
}

func TestMatrix_CurveSCurveMonotonic(t *testing.T) {
	prev := -2.0
	for x := -1.0; x <= 1.0; x += 0.1 {
		got := applyCurve(x, CurveSCurve)
		if got < prev {
			t.Fatalf("s-curve not monotonic at x=%v: %v < %v", x, got, prev)
		}
		prev = got
	}
}

func TestMatrix_AmountClampedToRange(t *testing.T) {
	var s Slot
	s.Assign(SourceLFO1, CurveLinear, 500, DestFilterCutoff, Bidirectional)
	if s.Amount != 99 {
		t.Fatalf("Amount = %v, want clamped to 99", s.Amount)
	}
	s.Assign(SourceLFO1, CurveLinear, -500, DestFilterCutoff, Bidirectional)
	if s.Amount != -99 {
		t.Fatalf("Amount = %v, want clamped to -99", s.Amount)
	}
}

func TestMatrix_MultipleSlotsAccumulateOnSameDestination(t *testing.T) {
	var m Matrix
	m.Slots[0].Assign(SourceLFO1, CurveLinear, 99, DestFilterCutoff, Bidirectional)
	m.Slots[1].Assign(SourceEnv1, CurveLinear, 99, DestFilterCutoff, Bidirectional)

	out := m.Evaluate(func(Source) (float64, bool) { return 0.5, true })
	want := 0.5 + 0.5
	if math.Abs(out.Value(DestFilterCutoff)-want) > 1e-9 {
		t.Fatalf("accumulated value = %v, want %v", out.Value(DestFilterCutoff), want)
	}
}
