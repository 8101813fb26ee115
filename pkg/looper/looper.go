// Package looper implements the stereo multi-tap looper: per-loop
// record/play/overdub/stop/clear state machine with ring-buffer storage
// and wrap-around crossfades, plus the LoopManager that sums loopers
// through a soft limiter.
package looper

import "sync/atomic"

// State is one of the looper's five states.
type State int

const (
	Empty State = iota
	Recording
	Playing
	Overdubbing
	Stopped
)

// request is an atomic state-change request recorded by a non-audio
// thread and consumed exactly once per block by the audio thread.
type request int32

const (
	reqNone request = iota
	reqRecPlay
	reqOverdub
	reqStop
	reqClear
)

const defaultOverdubWet = 0.6

// Looper is one loop slot: state machine, ring buffer, and crossfade.
type Looper struct {
	state State

	bufL, bufR []float64 // pre-allocated by LoopManager, owned here for indexing only
	maxFrames  int

	writeHead int
	readHead  int
	loopLen   int

	crossfadeLen int
	overdubWet   float64

	pending atomic.Int32
}

// Reset binds the looper to pre-allocated buffers owned by the
// LoopManager (buffers are allocated once at construction, never on the
// audio thread) and clears to Empty.
func (l *Looper) Reset(bufL, bufR []float64) {
	l.bufL, l.bufR = bufL, bufR
	l.maxFrames = len(bufL)
	l.state = Empty
	l.writeHead, l.readHead, l.loopLen = 0, 0, 0
	l.crossfadeLen = 256
	l.overdubWet = defaultOverdubWet
	l.pending.Store(int32(reqNone))
}

// requestStateChange is called from the UI thread.
func (l *Looper) requestStateChange(r request) { l.pending.Store(int32(r)) }

func (l *Looper) PressRecPlay() { l.requestStateChange(reqRecPlay) }
func (l *Looper) PressOverdub() { l.requestStateChange(reqOverdub) }
func (l *Looper) PressStop()    { l.requestStateChange(reqStop) }
func (l *Looper) PressClear()   { l.requestStateChange(reqClear) }

// State returns the looper's current state.
func (l *Looper) State() State { return l.state }

// LoopLength returns the finalized loop length in frames (0 before the
// first RECORDING->PLAYING transition).
func (l *Looper) LoopLength() int { return l.loopLen }

// applyStateChange consumes the pending request exactly once, per the
// looper's transition table.
func (l *Looper) applyStateChange() {
	r := request(l.pending.Swap(int32(reqNone)))
	if r == reqNone {
		return
	}

	switch l.state {
	case Empty:
		if r == reqRecPlay {
			l.state = Recording
			l.writeHead = 0
		}
	case Recording:
		switch r {
		case reqRecPlay:
			l.finalizeFirstPass()
		case reqStop:
			l.finalizeFirstPass()
			l.state = Stopped
		case reqClear:
			l.state = Empty
			l.loopLen = 0
		}
	case Playing:
		switch r {
		case reqRecPlay:
			l.state = Stopped
		case reqStop:
			l.state = Stopped
		case reqOverdub:
			l.state = Overdubbing
		case reqClear:
			l.state = Empty
			l.loopLen = 0
		}
	case Overdubbing:
		switch r {
		case reqRecPlay, reqOverdub:
			l.state = Playing
		case reqStop:
			l.state = Stopped
		case reqClear:
			l.state = Empty
			l.loopLen = 0
		}
	case Stopped:
		switch r {
		case reqRecPlay:
			l.state = Recording
			l.writeHead = 0
		case reqClear:
			l.state = Empty
			l.loopLen = 0
		}
	}
}

func (l *Looper) finalizeFirstPass() {
	n := l.writeHead
	if n <= 0 {
		n = 1
	}
	if n > l.maxFrames {
		n = l.maxFrames
	}
	l.loopLen = n
	l.readHead = 0
	l.state = Playing
}

func (l *Looper) crossfadeGain() float64 {
	xfade := l.crossfadeLen
	if l.loopLen > 0 && xfade > l.loopLen/2 {
		xfade = l.loopLen / 2
	}
	if xfade <= 0 {
		return 1
	}
	if l.readHead < xfade {
		return float64(l.readHead) / float64(xfade)
	}
	if l.loopLen-l.readHead < xfade {
		return float64(l.loopLen-l.readHead) / float64(xfade)
	}
	return 1
}

// ProcessBlock applies the pending state change (once), then processes
// inL/inR through the current state, writing outL/outR in place.
func (l *Looper) ProcessBlock(inL, inR, outL, outR []float64) {
	l.applyStateChange()

	switch l.state {
	case Recording:
		l.processRecording(inL, inR, outL, outR)
	case Playing:
		l.processPlaying(inL, inR, outL, outR)
	case Overdubbing:
		l.processOverdubbing(inL, inR, outL, outR)
	default: // Empty, Stopped
		copy(outL, inL)
		copy(outR, inR)
	}
}

func (l *Looper) processRecording(inL, inR, outL, outR []float64) {
	for i := range inL {
		outL[i], outR[i] = inL[i], inR[i]
		if l.writeHead >= l.maxFrames {
			l.finalizeFirstPass()
			// remaining samples in this block fall through to PLAYING
			l.processPlaying(inL[i:], inR[i:], outL[i:], outR[i:])
			return
		}
		l.bufL[l.writeHead] = inL[i]
		l.bufR[l.writeHead] = inR[i]
		l.writeHead++
	}
}

func (l *Looper) processPlaying(inL, inR, outL, outR []float64) {
	if l.loopLen <= 0 {
		copy(outL, inL)
		copy(outR, inR)
		return
	}
	for i := range inL {
		gain := l.crossfadeGain()
		rl := l.bufL[l.readHead] * gain
		rr := l.bufR[l.readHead] * gain
		outL[i] = rl + inL[i]
		outR[i] = rr + inR[i]

		l.readHead++
		if l.readHead >= l.loopLen {
			l.readHead = 0
		}
	}
}

func (l *Looper) processOverdubbing(inL, inR, outL, outR []float64) {
	if l.loopLen <= 0 {
		copy(outL, inL)
		copy(outR, inR)
		return
	}
	wet := l.overdubWet
	for i := range inL {
		gain := l.crossfadeGain()

		existingL := l.bufL[l.readHead]
		existingR := l.bufR[l.readHead]

		outL[i] = existingL*gain + inL[i]
		outR[i] = existingR*gain + inR[i]

		l.bufL[l.readHead] = existingL*(1-wet) + inL[i]*wet
		l.bufR[l.readHead] = existingR*(1-wet) + inR[i]*wet

		l.readHead++
		if l.readHead >= l.loopLen {
			l.readHead = 0
		}
	}
}

// SetOverdubMix sets the wet mix used while overdubbing.
func (l *Looper) SetOverdubMix(wet float64) { l.overdubWet = wet }

// OverdubMix returns the current overdub wet mix.
func (l *Looper) OverdubMix() float64 { return l.overdubWet }
