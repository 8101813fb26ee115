// Package audio wires the synthesis core to real-time stereo playback
// (via oto/v3) and to WAV export.
package audio

import (
	"encoding/binary"

	"github.com/ebitengine/oto/v3"
)

// StereoSource is anything that can render a block of stereo audio;
// *synth.Synth satisfies this without pkg/audio needing to import it.
type StereoSource interface {
	Process(outL, outR []float64)
}

// RealtimeOutput drives a StereoSource through an oto/v3 context.
type RealtimeOutput struct {
	source     StereoSource
	otoCtx     *oto.Context
	otoPlayer  *oto.Player
	bufL, bufR []float64
	running    bool
}

// NewRealtimeOutput opens a stereo 16-bit output stream at sampleRate
// and starts pulling blocks from source.
func NewRealtimeOutput(source StereoSource, sampleRate int) (*RealtimeOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	rt := &RealtimeOutput{
		source:  source,
		otoCtx:  otoCtx,
		bufL:    make([]float64, 512),
		bufR:    make([]float64, 512),
		running: true,
	}

	rt.otoPlayer = otoCtx.NewPlayer(&stereoStream{rt: rt})
	rt.otoPlayer.SetBufferSize(sampleRate / 10) // 100ms buffer
	rt.otoPlayer.Play()

	return rt, nil
}

// Close stops playback.
func (rt *RealtimeOutput) Close() {
	rt.running = false
	if rt.otoPlayer != nil {
		rt.otoPlayer.Close()
	}
}

// stereoStream implements io.Reader for oto, producing interleaved
// 16-bit little-endian stereo PCM.
type stereoStream struct {
	rt *RealtimeOutput
}

func (s *stereoStream) Read(buf []byte) (int, error) {
	if !s.rt.running {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}

	// 16-bit stereo = 4 bytes per frame.
	frames := len(buf) / 4
	if frames > len(s.rt.bufL) {
		s.rt.bufL = make([]float64, frames)
		s.rt.bufR = make([]float64, frames)
	}

	bufL, bufR := s.rt.bufL[:frames], s.rt.bufR[:frames]
	s.rt.source.Process(bufL, bufR)

	for i := 0; i < frames; i++ {
		l := clamp(bufL[i])
		r := clamp(bufR[i])
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(int16(l*32767)))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(int16(r*32767)))
	}

	return frames * 4, nil
}

func clamp(x float64) float64 {
	if x > 1.0 {
		return 1.0
	}
	if x < -1.0 {
		return -1.0
	}
	return x
}
