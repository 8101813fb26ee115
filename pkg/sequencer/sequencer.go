// Package sequencer drives note-on/note-off and gate timing for a fixed
// set of pattern tracks against a shared Clock, with optional
// modulation-driven per-track phase.
package sequencer

import (
	"math/rand/v2"

	"github.com/oisee/wakefield/pkg/clock"
	"github.com/oisee/wakefield/pkg/modmatrix"
	"github.com/oisee/wakefield/pkg/pattern"
)

// DefaultTrackCount matches the original's default of four tracks.
const DefaultTrackCount = 4

// clockModSourceIndex/clockTargetSequencerBase mirror the original's
// default wiring constants: modulation slots 9-12 default to
// source=Clock, destination=TrackPhase[i].
const (
	clockModSourceIndex    = modmatrix.SourceClockPhase
	clockTargetSequencerBase = modmatrix.DestTrackPhaseBase
	defaultPhaseSlotBase   = 8 // slots 9-12 in 1-based original numbering == indices 8-11
)

// NoteEvents is how the Sequencer reports notes it wants triggered; the
// Synth orchestrator owning the voice pool consumes these.
type NoteEvents struct {
	NoteOn  []NoteOnEvent
	NoteOff []int
}

// NoteOnEvent is one triggered step.
type NoteOnEvent struct {
	TrackID  int
	MIDINote int
	Velocity int
}

// activeNote exists only between note-on and note-off.
type activeNote struct {
	midiNote     int
	startSample  uint64
	gateLength   float64
	subdivision  clock.Subdivision
}

// trackState is the sequencer-private per-track runtime state.
type trackState struct {
	track             *pattern.Track
	lastTriggeredStep int
	phaseSource       modmatrix.Source
	phaseDest         modmatrix.Destination
	activeNotes       []activeNote
}

// Sequencer owns a fixed set of tracks and the clock driving them.
type Sequencer struct {
	Clock  *clock.Clock
	Matrix *modmatrix.Matrix

	tracks []*trackState
}

// New builds a sequencer with DefaultTrackCount tracks of the given
// pattern length at Sixteenth subdivision, wired to clk and sharing the
// given modulation matrix with the rest of the synth (the matrix is a
// single global table, not owned per-subsystem). Modulation slots 9-12
// are pre-assigned to source=clock-phase, destination=TrackPhase[i] for
// each track, matching the original's default wiring.
func New(clk *clock.Clock, matrix *modmatrix.Matrix, patternLength int) *Sequencer {
	s := &Sequencer{Clock: clk, Matrix: matrix}
	for i := 0; i < DefaultTrackCount; i++ {
		tr := pattern.NewTrack(i, patternLength, int(clock.Sixteenth))
		s.tracks = append(s.tracks, &trackState{
			track:       tr,
			phaseSource: modmatrix.SourceNone, // clock-driven until overridden
			phaseDest:   modmatrix.DestNone,
		})

		slot := defaultPhaseSlotBase + i
		if slot < modmatrix.SlotCount {
			s.Matrix.Slots[slot].Assign(clockModSourceIndex, modmatrix.CurveLinear, 99,
				clockTargetSequencerBase+modmatrix.Destination(i), modmatrix.Unidirectional)
		}
	}
	return s
}

// Tracks returns the sequencer's tracks in order.
func (s *Sequencer) Tracks() []*pattern.Track {
	out := make([]*pattern.Track, len(s.tracks))
	for i, ts := range s.tracks {
		out[i] = ts.track
	}
	return out
}

// refreshTrackPhaseDrivers scans the mod matrix for any slot whose
// destination is a TrackPhase target and uses it to override that
// track's phase source; tracks with no matching slot, or whose matching
// slot's source is the clock phase (the default wiring), stay
// clock-driven.
func (s *Sequencer) refreshTrackPhaseDrivers() {
	for i, ts := range s.tracks {
		ts.phaseSource = modmatrix.SourceNone
		ts.phaseDest = modmatrix.DestNone
		want := clockTargetSequencerBase + modmatrix.Destination(i)
		for j := range s.Matrix.Slots {
			slot := &s.Matrix.Slots[j]
			if slot.Complete() && slot.Destination == want && slot.Source != clockModSourceIndex {
				ts.phaseSource = slot.Source
				ts.phaseDest = slot.Destination
			}
		}
	}
}

// Process advances all tracks by nSamples, returning any note-on/off
// events to apply and updating live gates. sourceValue resolves a
// modulation source to its current value for mod-driven phase tracks.
func (s *Sequencer) Process(nSamples uint64, sourceValue func(modmatrix.Source) (float64, bool)) NoteEvents {
	s.refreshTrackPhaseDrivers()
	modOut := s.Matrix.Evaluate(sourceValue)

	var events NoteEvents

	before := s.Clock.Counter()
	s.Clock.Advance(nSamples)
	after := s.Clock.Counter()

	anySolo := false
	for _, ts := range s.tracks {
		if ts.track.Solo {
			anySolo = true
			break
		}
	}

	for _, ts := range s.tracks {
		subdiv := clock.Subdivision(ts.track.Pattern.Subdivision)
		triggered, clockStep := s.Clock.CheckStepTrigger(before, after, subdiv)

		var step int
		driven := false
		if ts.phaseSource != modmatrix.SourceNone {
			driven = true
			v := modOut.Value(ts.phaseDest)
			norm := (v + 1) * 0.5
			if norm < 0 {
				norm = 0
			}
			if norm > 1 {
				norm = 1
			}
			step = int(norm * float64(ts.track.Pattern.Length()))
		} else if triggered {
			step = clockStep % ts.track.Pattern.Length()
		} else {
			step = ts.lastTriggeredStep
		}

		shouldTrigger := (driven && step != ts.lastTriggeredStep) || (!driven && triggered)
		if shouldTrigger {
			ts.lastTriggeredStep = step
			if !ts.track.Muted && (!anySolo || ts.track.Solo) {
				s.triggerTrackStep(ts, step, after, &events)
			}
		}

		s.updateGates(ts, after, &events)
	}

	return events
}

func (s *Sequencer) triggerTrackStep(ts *trackState, step int, counter uint64, events *NoteEvents) {
	patStep := ts.track.Pattern.GetStep(step)
	if !patStep.Active {
		return
	}
	if rand.Float64() > patStep.Probability {
		return
	}

	events.NoteOn = append(events.NoteOn, NoteOnEvent{
		TrackID:  ts.track.ID,
		MIDINote: patStep.MIDINote,
		Velocity: patStep.Velocity,
	})

	ts.activeNotes = append(ts.activeNotes, activeNote{
		midiNote:    patStep.MIDINote,
		startSample: counter,
		gateLength:  patStep.GateLength,
		subdivision: clock.Subdivision(ts.track.Pattern.Subdivision),
	})
}

func (s *Sequencer) updateGates(ts *trackState, counter uint64, events *NoteEvents) {
	var remaining []activeNote
	for _, n := range ts.activeNotes {
		stepLen := s.Clock.SamplesPerStep(n.subdivision)
		elapsed := counter - n.startSample
		if float64(elapsed) >= stepLen*n.gateLength {
			events.NoteOff = append(events.NoteOff, n.midiNote)
			continue
		}
		remaining = append(remaining, n)
	}
	ts.activeNotes = remaining
}
