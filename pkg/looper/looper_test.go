package looper

import (
	"math"
	"testing"
)

func newTestLooper(maxFrames int) *Looper {
	l := &Looper{}
	l.Reset(make([]float64, maxFrames), make([]float64, maxFrames))
	return l
}

func TestLooper_RecordThenPlayRoundTrip(t *testing.T) {
	l := newTestLooper(100000)
	l.PressRecPlay() // Empty -> Recording

	const recLen = 48000
	ramp := make([]float64, recLen)
	for i := range ramp {
		ramp[i] = float64(i) / float64(recLen)
	}
	outL := make([]float64, recLen)
	outR := make([]float64, recLen)
	l.ProcessBlock(ramp, ramp, outL, outR)

	if l.State() != Recording {
		t.Fatalf("state = %v, want Recording", l.State())
	}

	l.PressRecPlay() // Recording -> PLAYING, finalize length
	one := []float64{0}
	oL := []float64{0}
	oR := []float64{0}
	l.ProcessBlock(one, one, oL, oR) // triggers applyStateChange

	if l.State() != Playing {
		t.Fatalf("state = %v, want Playing", l.State())
	}
	if l.LoopLength() != recLen {
		t.Fatalf("LoopLength = %v, want %v", l.LoopLength(), recLen)
	}

	for i := 0; i < recLen; i++ {
		if l.bufL[i] != ramp[i] {
			t.Fatalf("buffer[%d] = %v, want %v", i, l.bufL[i], ramp[i])
			break
		}
	}
}

func TestLooper_AutoFinalizesWhenBufferFull(t *testing.T) {
	const maxFrames = 1000
	l := newTestLooper(maxFrames)
	l.PressRecPlay()

	in := make([]float64, maxFrames+200)
	for i := range in {
		in[i] = 0.1
	}
	outL := make([]float64, len(in))
	outR := make([]float64, len(in))
	l.ProcessBlock(in, in, outL, outR)

	if l.State() != Playing {
		t.Fatalf("state = %v, want Playing after overflow", l.State())
	}
	if l.LoopLength() != maxFrames {
		t.Fatalf("LoopLength = %v, want %v", l.LoopLength(), maxFrames)
	}
}

func TestLooper_CrossfadeLengthClampedToHalfLoop(t *testing.T) {
	l := newTestLooper(1000)
	l.crossfadeLen = 10000
	l.loopLen = 100
	l.readHead = 0
	g := l.crossfadeGain()
	if g < 0 || g > 1 {
		t.Fatalf("crossfade gain out of range: %v", g)
	}
}

func TestSoftLimit_Identity(t *testing.T) {
	for _, x := range []float64{0, 0.3, -0.3, 0.8, -0.8} {
		if softLimit(x) != x {
			t.Fatalf("softLimit(%v) = %v, want identity", x, softLimit(x))
		}
	}
}

func TestSoftLimit_CompressesAboveKnee(t *testing.T) {
	got := softLimit(1.8)
	want := 0.8 + (1.8-0.8)*0.2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("softLimit(1.8) = %v, want %v", got, want)
	}
	got = softLimit(-1.8)
	want = -0.8 + (-1.8+0.8)*0.2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("softLimit(-1.8) = %v, want %v", got, want)
	}
}

func TestManager_SumsLoopersWithSoftLimit(t *testing.T) {
	m := NewManager(2, 48000, 1)
	for _, l := range m.Loopers {
		l.PressRecPlay()
	}
	in := []float64{0.9, 0.9, 0.9}
	outL := make([]float64, 3)
	outR := make([]float64, 3)
	m.ProcessBlock(in, in, outL, outR)
	for i, v := range outL {
		if math.Abs(v) > 1.0 {
			t.Fatalf("outL[%d] = %v exceeds soft-limited range", i, v)
		}
	}
}
