package sequencer

import (
	"testing"

	"github.com/oisee/wakefield/pkg/clock"
	"github.com/oisee/wakefield/pkg/modmatrix"
)

func noSource(modmatrix.Source) (float64, bool) { return 0, false }

func TestSequencer_FiresStepsAtExpectedSampleIndices(t *testing.T) {
	clk := clock.New(48000)
	clk.SetTempo(120)
	clk.Playing = true

	s := New(clk, &modmatrix.Matrix{}, 16)
	for _, tr := range s.Tracks() {
		tr.Pattern.Subdivision = int(clock.Sixteenth)
		for i := 0; i < tr.Pattern.Length(); i++ {
			st := tr.Pattern.GetStep(i)
			st.Active = true
			st.Probability = 1.0
		}
	}

	const blockSize = 64
	var totalSamples uint64
	fireCounts := map[int]bool{}
	for totalSamples < 48000 {
		ev := s.Process(blockSize, noSource)
		totalSamples += blockSize
		for range ev.NoteOn {
			fireCounts[int(totalSamples)] = true
		}
	}

	if len(fireCounts) == 0 {
		t.Fatal("expected step triggers within one second at 120bpm/16th")
	}

	// Each firing block must contain a step boundary (a multiple of
	// 6000 samples at 120bpm/16th), and one second holds eight of them.
	stepLen := int(clk.SamplesPerStep(clock.Sixteenth))
	for end := range fireCounts {
		if end/stepLen == (end-blockSize)/stepLen {
			t.Fatalf("note-on in block ending at sample %d, which contains no step boundary", end)
		}
	}
	if len(fireCounts) != 8 {
		t.Fatalf("note-ons fired in %d blocks, want 8", len(fireCounts))
	}
}

func TestSequencer_MutedTrackNeverTriggers(t *testing.T) {
	clk := clock.New(48000)
	clk.SetTempo(120)
	clk.Playing = true

	s := New(clk, &modmatrix.Matrix{}, 16)
	for _, tr := range s.Tracks() {
		tr.Muted = true
		for i := 0; i < tr.Pattern.Length(); i++ {
			st := tr.Pattern.GetStep(i)
			st.Active = true
			st.Probability = 1.0
		}
	}

	var total int
	for i := 0; i < 100; i++ {
		ev := s.Process(480, noSource)
		total += len(ev.NoteOn)
	}
	if total != 0 {
		t.Fatalf("muted tracks produced %d note-on events, want 0", total)
	}
}

func TestSequencer_DefaultPhaseWiringTargetsTrackPhase(t *testing.T) {
	clk := clock.New(48000)
	s := New(clk, &modmatrix.Matrix{}, 16)
	found := false
	for i := range s.Matrix.Slots {
		slot := &s.Matrix.Slots[i]
		if slot.Complete() && slot.Destination >= modmatrix.DestTrackPhaseBase && slot.Destination < modmatrix.DestTrackPhaseBase+modmatrix.Destination(DefaultTrackCount) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected default modulation slots wiring clock to track phase destinations")
	}
}
