package synth

import "github.com/oisee/wakefield/pkg/midi"

// Parameter IDs the MIDI CC routing table and MIDI-learn protocol can
// target. modWheelCC is handled as a direct source latch rather than
// through the Router, since the mod wheel isn't a range-mapped
// parameter but a continuous modulation source in its own right.
const (
	ParamMasterVolume midi.ParamID = iota
	ParamFilterCutoff
	ParamFilterGain
	ParamReverbMix
	ParamReverbSize
)

const modWheelCC = 1

// defaultCCBindings mirrors a typical synth's factory CC map: filter
// cutoff on CC74, filter gain on CC71, reverb send on CC91/93, volume
// on CC7. Logarithmic mapping is used for cutoff, matching how
// frequency parameters are conventionally MIDI-mapped.
func (s *Synth) installDefaultCCBindings() {
	s.MIDI.Bind(74, ParamFilterCutoff, 80, 12000, true)
	s.MIDI.Bind(71, ParamFilterGain, -12, 12, false)
	s.MIDI.Bind(91, ParamReverbMix, 0, 1, false)
	s.MIDI.Bind(93, ParamReverbSize, 0, 1, false)
	s.MIDI.Bind(7, ParamMasterVolume, 0, 1, false)
}

func (s *Synth) applyParam(id midi.ParamID, v float64) {
	switch id {
	case ParamMasterVolume:
		s.masterVolume.SetTarget(v)
	case ParamFilterCutoff:
		s.FilterBaseCutoffHz = v
	case ParamFilterGain:
		s.FilterBaseGainDb = v
	case ParamReverbMix:
		s.ReverbBaseMix = v
	case ParamReverbSize:
		s.ReverbBaseSize = v
	}
}
