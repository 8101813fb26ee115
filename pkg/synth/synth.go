// Package synth is the orchestrator tying the voice pool, modulation
// matrix, LFOs, filter, reverb, looper manager, sequencer, and MIDI
// routing into the per-block real-time audio driver.
package synth

import (
	"math"
	"sort"

	"github.com/oisee/wakefield/pkg/clock"
	"github.com/oisee/wakefield/pkg/filter"
	"github.com/oisee/wakefield/pkg/looper"
	"github.com/oisee/wakefield/pkg/midi"
	"github.com/oisee/wakefield/pkg/modmatrix"
	"github.com/oisee/wakefield/pkg/osc"
	"github.com/oisee/wakefield/pkg/param"
	"github.com/oisee/wakefield/pkg/reverb"
	"github.com/oisee/wakefield/pkg/sequencer"
	"github.com/oisee/wakefield/pkg/voice"
)

// lfoCount matches the four LFO sources/destinations named in the
// modulation matrix's data model.
const lfoCount = 4

// Modulation-depth scaling: Evaluate's Outputs land in roughly [-1,+1]
// (curve-shaped source, scaled by amount/99); these constants convert
// that into the physically meaningful range of each destination.
const (
	pitchModRangeOctaves    = 2.0
	offsetModRangeHz        = 50.0
	ratioModRange           = 2.0
	morphModRange           = 0.5
	dutyModRange            = 0.5
	levelModRange           = 0.25
	filterCutoffModRangeHz  = 4000.0
	filterGainModRangeDb    = 12.0
	reverbMixModRange       = 0.3
	reverbSizeModRange      = 0.3
	lfoRateModRangeOctaves  = 1.0
)

// Synth owns every subsystem and drives them through one audio block at
// a time; PushRawMIDI is the only entry point meant to be called from a
// different (MIDI-receiver) thread.
type Synth struct {
	SampleRate float64

	Clock      *clock.Clock
	Matrix     *modmatrix.Matrix
	Sequencer  *sequencer.Sequencer
	Voices     *voice.Pool
	FM         voice.FMDepthMatrix
	LFOs       [lfoCount]*osc.LFO
	Filter     *filter.Filter
	Reverb     *reverb.Reverb
	Loops      *looper.Manager

	MIDI  *midi.Router
	Learn *midi.LearnSession

	// Base (unmodulated) values for parameters the mod matrix can also
	// reach; the modulation contribution is added on top each block.
	FilterBaseCutoffHz float64
	FilterBaseGainDb    float64
	ReverbBaseMix       float64
	ReverbBaseSize      float64

	masterVolume *param.Smoother

	queue     midiFIFO
	velocity  float64 // [0,1], latched from the most recent NoteOn
	modWheel  float64 // [0,1], latched from CC1

	dryL, dryR []float64 // scratch, pre-looper mix; never reallocated once grown
}

// New constructs a synth ready to process audio at sampleRate, with
// DefaultPoolSize voices, four free-running LFOs, a bypassed filter, a
// disabled reverb, and DefaultMaxLoops loopers.
func New(sampleRate float64) *Synth {
	clk := clock.New(sampleRate)
	matrix := &modmatrix.Matrix{}

	s := &Synth{
		SampleRate: sampleRate,
		Clock:      clk,
		Matrix:     matrix,
		Sequencer:  sequencer.New(clk, matrix, 16),
		Voices:     voice.NewPool(voice.DefaultPoolSize),
		Filter:     filter.New(sampleRate),
		Reverb:     reverb.New(sampleRate),
		Loops:      looper.NewManager(looper.DefaultMaxLoops, sampleRate, looper.DefaultMaxSeconds),
		MIDI:       midi.NewRouter(),

		FilterBaseCutoffHz: 1000,
		ReverbBaseMix:      0.3,
		ReverbBaseSize:     0.5,

		masterVolume: param.NewSmoother(0.01, sampleRate, 0.8),
	}
	for i := range s.LFOs {
		s.LFOs[i] = osc.NewLFO()
	}
	// Oscillators default to FREE mode (a fixed base frequency, useful for
	// drones and FM operators); a synth driven by MIDI notes needs its
	// voices tracking the played pitch, so every pre-allocated voice's
	// oscillators are switched to KEY mode here, once, at pool
	// construction.
	for _, v := range s.Voices.Voices {
		for i := range v.Oscillators {
			v.Oscillators[i].Mode = osc.Key
		}
	}
	s.Learn = midi.NewLearnSession(s.MIDI)
	s.installDefaultCCBindings()
	return s
}

// PushRawMIDI decodes a 3-byte MIDI message and enqueues it for the
// audio thread to drain at the start of its next block. Safe to call
// from a different goroutine than Process.
func (s *Synth) PushRawMIDI(raw []byte) {
	msg, ok := midi.Decode(raw)
	if !ok {
		return
	}
	s.queue.push(msg)
}

func (s *Synth) drainMIDI() {
	for {
		msg, ok := s.queue.pop()
		if !ok {
			return
		}
		s.handleMIDI(msg)
	}
}

func (s *Synth) handleMIDI(msg midi.Message) {
	switch msg.Type {
	case midi.NoteOn:
		s.velocity = float64(msg.Data2) / 127.0
		s.Voices.NoteOn(msg.Data1)

	case midi.NoteOff:
		s.Voices.NoteOff(msg.Data1)

	case midi.ControlChange:
		if msg.Data1 == modWheelCC {
			s.modWheel = float64(msg.Data2) / 127.0
			return
		}
		wasLearning := s.MIDI.Learning()
		id, val, ok := s.MIDI.Route(msg)
		if wasLearning && !s.MIDI.Learning() {
			s.Learn.NotifyRouted()
		}
		if ok {
			s.applyParam(id, val)
		}
	}
}

// sourceValue resolves a modulation source to its current value in
// [-1,+1], for the mod matrix's once-per-block Evaluate call. LFO and
// clock-phase sources read the prior block's latched output, matching
// the one-block-delay discipline the FM mixer uses at sample rate.
func (s *Synth) sourceValue(src modmatrix.Source) (float64, bool) {
	switch {
	case src >= modmatrix.SourceLFO1 && src <= modmatrix.SourceLFO4:
		idx := int(src - modmatrix.SourceLFO1)
		return s.LFOs[idx].Last(), true

	case src >= modmatrix.SourceEnv1 && src <= modmatrix.SourceEnv4:
		idx := int(src - modmatrix.SourceEnv1)
		v := s.recentVoiceByIndex(idx)
		if v == nil {
			return 0, false
		}
		return 2*v.Env.Level() - 1, true

	case src == modmatrix.SourceVelocity:
		return 2*s.velocity - 1, true

	case src == modmatrix.SourceModWheel:
		return 2*s.modWheel - 1, true

	case src == modmatrix.SourceAftertouch, src == modmatrix.SourcePitchBend:
		// Neither has a wire path in this core's 3-byte MIDI subset
		// (NoteOn/NoteOff/CC only); the source exists in the matrix's
		// vocabulary but is never driven.
		return 0, false

	case src == modmatrix.SourceClockPhase:
		return s.Clock.GetPhase(clock.Sixteenth)*2 - 1, true

	default:
		return 0, false
	}
}

// recentVoiceByIndex ranks active voices by allocation recency (0 =
// most recently triggered) since the architecture has one envelope per
// voice rather than four independent modulation envelopes.
func (s *Synth) recentVoiceByIndex(rank int) *voice.Voice {
	ranked := make([]*voice.Voice, 0, len(s.Voices.Voices))
	for _, v := range s.Voices.Voices {
		if v.Active {
			ranked = append(ranked, v)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].AllocatedAt() > ranked[j].AllocatedAt()
	})
	if rank >= len(ranked) {
		return nil
	}
	return ranked[rank]
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func (s *Synth) buildOscMods(modOut *modmatrix.Outputs) [voice.OscillatorCount]voice.OscMod {
	var mods [voice.OscillatorCount]voice.OscMod
	for i := 0; i < voice.OscillatorCount; i++ {
		d := modmatrix.Destination(i)
		mods[i] = voice.OscMod{
			PitchOctaves: modOut.Value(modmatrix.DestOscPitchBase+d) * pitchModRangeOctaves,
			Morph:        modOut.Value(modmatrix.DestOscMorphBase+d) * morphModRange,
			Duty:         modOut.Value(modmatrix.DestOscDutyBase+d) * dutyModRange,
			Ratio:        modOut.Value(modmatrix.DestOscRatioBase+d) * ratioModRange,
			OffsetHz:     modOut.Value(modmatrix.DestOscOffsetBase+d) * offsetModRangeHz,
			LevelMod:     modOut.Value(modmatrix.DestOscLevelBase+d) * levelModRange,
		}
	}
	return mods
}

// applyModulation pushes the block's mod-matrix outputs that don't
// target oscillators onto the filter, reverb and LFOs. The filter's
// "resonance" destination maps onto the shelf gain parameter, the
// nearest equivalent tone control a one-pole TPT/shelf filter has.
func (s *Synth) applyModulation(n int, modOut *modmatrix.Outputs) {
	cutoff := s.FilterBaseCutoffHz + modOut.Value(modmatrix.DestFilterCutoff)*filterCutoffModRangeHz
	gain := s.FilterBaseGainDb + modOut.Value(modmatrix.DestFilterResonance)*filterGainModRangeDb
	s.Filter.SetCutoff(cutoff)
	s.Filter.SetGainDb(gain)

	s.Reverb.Mix = clamp01(s.ReverbBaseMix + modOut.Value(modmatrix.DestReverbMix)*reverbMixModRange)
	s.Reverb.Size = clamp01(s.ReverbBaseSize + modOut.Value(modmatrix.DestReverbSize)*reverbSizeModRange)

	effectiveRate := s.SampleRate
	if n > 0 {
		effectiveRate = s.SampleRate / float64(n)
	}
	bpm := s.Clock.Tempo()
	for i, l := range s.LFOs {
		d := modmatrix.Destination(i)
		rateMod := modOut.Value(modmatrix.DestLFORateBase+d) * lfoRateModRangeOctaves
		morphMod := modOut.Value(modmatrix.DestLFOMorphBase+d) * morphModRange
		dutyMod := modOut.Value(modmatrix.DestLFODutyBase+d) * dutyModRange
		l.Process(effectiveRate, bpm, rateMod, morphMod, dutyMod)
	}
}

func (s *Synth) ensureScratch(n int) {
	if len(s.dryL) < n {
		s.dryL = make([]float64, n)
		s.dryR = make([]float64, n)
	}
}

// Process renders one block of stereo audio into outL/outR (equal
// length), following the signal flow: drain MIDI, step the sequencer,
// evaluate the mod matrix, mix voices sample-by-sample with master
// volume and headroom, duplicate to stereo, filter, reverb, then sum
// through the loop manager.
func (s *Synth) Process(outL, outR []float64) {
	n := len(outL)
	if n == 0 || len(outR) != n {
		return
	}
	s.ensureScratch(n)

	s.drainMIDI()

	events := s.Sequencer.Process(uint64(n), s.sourceValue)
	for _, no := range events.NoteOn {
		s.velocity = float64(no.Velocity) / 127.0
		s.Voices.NoteOn(no.MIDINote)
	}
	for _, note := range events.NoteOff {
		s.Voices.NoteOff(note)
	}

	modOut := s.Matrix.Evaluate(s.sourceValue)
	mods := s.buildOscMods(modOut)
	s.applyModulation(n, modOut)

	headroom := 1.0 / math.Sqrt(float64(len(s.Voices.Voices)))
	vol := s.masterVolume.Process()

	dryL, dryR := s.dryL[:n], s.dryR[:n]
	for i := 0; i < n; i++ {
		sample := s.Voices.Process(s.SampleRate, &s.FM, &mods) * headroom * vol
		l, r := s.Filter.ProcessSample(sample, sample)
		l, r = s.Reverb.ProcessSample(l, r)
		dryL[i], dryR[i] = l, r
	}

	s.Loops.ProcessBlock(dryL, dryR, outL, outR)
}
