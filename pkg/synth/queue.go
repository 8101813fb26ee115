package synth

import (
	"sync/atomic"

	"github.com/oisee/wakefield/pkg/midi"
)

// midiQueueCapacity bounds the lock-free FIFO between the MIDI-receiver
// thread (producer) and the audio thread (consumer). A full queue drops
// the incoming message rather than blocking.
const midiQueueCapacity = 256

// midiFIFO is a single-producer/single-consumer ring buffer of decoded
// MIDI messages, guarding its head/tail with atomics instead of a mutex
// so the audio thread never blocks draining it.
type midiFIFO struct {
	buf  [midiQueueCapacity]midi.Message
	head atomic.Uint32 // next slot to write
	tail atomic.Uint32 // next slot to read
}

// push enqueues msg, returning false (and dropping it) if the queue is
// full.
func (q *midiFIFO) push(msg midi.Message) bool {
	h := q.head.Load()
	t := q.tail.Load()
	if h-t >= midiQueueCapacity {
		return false
	}
	q.buf[h%midiQueueCapacity] = msg
	q.head.Store(h + 1)
	return true
}

// pop dequeues the oldest message, if any.
func (q *midiFIFO) pop() (midi.Message, bool) {
	t := q.tail.Load()
	h := q.head.Load()
	if t == h {
		return midi.Message{}, false
	}
	msg := q.buf[t%midiQueueCapacity]
	q.tail.Store(t + 1)
	return msg, true
}
