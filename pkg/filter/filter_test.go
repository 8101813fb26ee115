package filter

import (
	"math"
	"testing"
)

func TestFilter_BypassIsUnity(t *testing.T) {
	f := New(48000)
	f.Type = Bypass
	l, r := f.ProcessSample(0.37, -0.81)
	if l != 0.37 || r != -0.81 {
		t.Fatalf("bypass altered signal: got (%v,%v)", l, r)
	}
}

func TestFilter_LowPassAttenuatesHighFrequency(t *testing.T) {
	f := New(48000)
	f.SetType(LowPass)
	f.SetCutoff(200)

	// Drive with a high-frequency square-ish alternating signal; measure
	// settled output amplitude versus a slow-varying (near-DC) signal.
	var peakHF, peakDC float64
	for i := 0; i < 4000; i++ {
		x := 1.0
		if i%2 == 0 {
			x = -1.0
		}
		l, _ := f.ProcessSample(x, x)
		if math.Abs(l) > peakHF {
			peakHF = math.Abs(l)
		}
	}

	f2 := New(48000)
	f2.SetType(LowPass)
	f2.SetCutoff(200)
	for i := 0; i < 4000; i++ {
		l, _ := f2.ProcessSample(1.0, 1.0)
		peakDC = l
	}

	if peakHF >= peakDC {
		t.Fatalf("expected lowpass to attenuate alternating signal more than DC: hf=%v dc=%v", peakHF, peakDC)
	}
}

func TestFilter_NoAllocationsPerSample(t *testing.T) {
	f := New(48000)
	f.SetType(LowPass)
	allocs := testing.AllocsPerRun(100, func() {
		f.ProcessSample(0.1, -0.1)
	})
	if allocs > 0 {
		t.Fatalf("ProcessSample allocated %v times per call, want 0", allocs)
	}
}
