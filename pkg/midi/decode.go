// Package midi implements the raw 3-byte MIDI message decode, the CC
// routing table, and the MIDI-learn protocol. Device enumeration/opening
// is an external collaborator; this package only parses bytes already
// delivered to it.
package midi

// MessageType is the decoded status-byte category.
type MessageType int

const (
	Unknown MessageType = iota
	NoteOn
	NoteOff
	ControlChange
)

// Message is a decoded 3-byte MIDI message.
type Message struct {
	Type     MessageType
	Channel  int // 0-15
	Data1    int // note number or CC number
	Data2    int // velocity or CC value
}

// Decode parses a single 3-byte MIDI message. No running-status support
// is implemented at this layer, matching the external interface
// contract: short or unrecognized messages are dropped (returned as
// Unknown, ok=false) rather than erroring, since the real-time thread
// never propagates errors upward.
func Decode(b []byte) (Message, bool) {
	if len(b) < 3 {
		return Message{}, false
	}
	status := b[0]
	channel := int(status & 0x0F)
	upper := status & 0xF0

	switch upper {
	case 0x90:
		velocity := int(b[2])
		if velocity == 0 {
			// NoteOn with velocity 0 is treated as NoteOff.
			return Message{Type: NoteOff, Channel: channel, Data1: int(b[1]), Data2: 0}, true
		}
		return Message{Type: NoteOn, Channel: channel, Data1: int(b[1]), Data2: velocity}, true
	case 0x80:
		return Message{Type: NoteOff, Channel: channel, Data1: int(b[1]), Data2: int(b[2])}, true
	case 0xB0:
		return Message{Type: ControlChange, Channel: channel, Data1: int(b[1]), Data2: int(b[2])}, true
	default:
		return Message{}, false
	}
}
