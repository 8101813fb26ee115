// Package param implements atomic scalar parameter storage and one-pole
// smoothing, the shared-state discipline the rest of the core relies on
// to keep the audio thread lock-free.
package param

import (
	"math"
	"sync/atomic"
)

// Atomic is a float64 parameter cell safe for concurrent load/store
// between the UI thread (writer) and the audio thread (reader), backed
// by the IEEE-754 bit pattern in an atomic.Uint64.
type Atomic struct {
	bits atomic.Uint64
}

// Store sets the parameter's value.
func (a *Atomic) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

// Load returns the parameter's current value.
func (a *Atomic) Load() float64 { return math.Float64frombits(a.bits.Load()) }
