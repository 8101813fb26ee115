package reverb

import (
	"math"
	"testing"
)

func TestReverb_DisabledIsUnity(t *testing.T) {
	r := New(48000)
	r.Enabled = false
	l, rr := r.ProcessSample(0.4, -0.2)
	if l != 0.4 || rr != -0.2 {
		t.Fatalf("disabled reverb altered signal: (%v,%v)", l, rr)
	}
}

func TestReverb_NoNaNOrInfOverTime(t *testing.T) {
	r := New(48000)
	r.Enabled = true
	for i := 0; i < 48000; i++ {
		x := math.Sin(2 * math.Pi * 220 * float64(i) / 48000)
		l, rr := r.ProcessSample(x, x)
		if math.IsNaN(l) || math.IsInf(l, 0) || math.IsNaN(rr) || math.IsInf(rr, 0) {
			t.Fatalf("NaN/Inf at sample %d", i)
		}
	}
}

func TestReverb_ZeroMixLeavesDrySignal(t *testing.T) {
	r := New(48000)
	r.Enabled = true
	r.Mix = 0
	for i := 0; i < 1000; i++ {
		l, rr := r.ProcessSample(0.5, 0.5)
		if math.Abs(l-0.5) > 1e-9 || math.Abs(rr-0.5) > 1e-9 {
			t.Fatalf("mix=0 should leave dry signal unchanged, got (%v,%v) at sample %d", l, rr, i)
		}
	}
}
