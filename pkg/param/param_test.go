package param

import (
	"math"
	"sync"
	"testing"
)

func TestAtomic_ConcurrentLoadStore(t *testing.T) {
	var a Atomic
	a.Store(1.0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			a.Store(v)
		}(float64(i))
	}
	wg.Wait()

	got := a.Load()
	if math.IsNaN(got) {
		t.Fatal("got NaN after concurrent stores")
	}
}

func TestSmoother_ConvergesToTarget(t *testing.T) {
	s := NewSmoother(0.01, 48000, 0)
	s.SetTarget(1.0)
	for i := 0; i < 48000; i++ {
		s.Process()
	}
	if !s.IsSettled(0.01) {
		t.Fatalf("smoother not settled after 1s: current=%v", s.Current())
	}
}

func TestSmoother_NoStepDiscontinuity(t *testing.T) {
	s := NewSmoother(0.01, 48000, 0)
	s.SetTarget(1.0)
	prev := s.Current()
	maxDelta := 0.0
	for i := 0; i < 100; i++ {
		cur := s.Process()
		d := math.Abs(cur - prev)
		if d > maxDelta {
			maxDelta = d
		}
		prev = cur
	}
	if maxDelta > 0.1 {
		t.Fatalf("smoother produced a large single-sample jump: %v", maxDelta)
	}
}
