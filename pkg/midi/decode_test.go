package midi

import "testing"

func TestDecode_NoteOnVelocityZeroIsNoteOff(t *testing.T) {
	msg, ok := Decode([]byte{0x90, 60, 0})
	if !ok {
		t.Fatal("expected decode ok")
	}
	if msg.Type != NoteOff {
		t.Fatalf("Type = %v, want NoteOff", msg.Type)
	}
}

func TestDecode_ShortMessageDropped(t *testing.T) {
	_, ok := Decode([]byte{0x90, 60})
	if ok {
		t.Fatal("expected short message to be dropped")
	}
}

func TestDecode_UnknownStatusDropped(t *testing.T) {
	_, ok := Decode([]byte{0xF0, 1, 2})
	if ok {
		t.Fatal("expected unknown status to be dropped")
	}
}

func TestDecode_ControlChange(t *testing.T) {
	msg, ok := Decode([]byte{0xB3, 74, 100})
	if !ok {
		t.Fatal("expected decode ok")
	}
	if msg.Type != ControlChange || msg.Channel != 3 || msg.Data1 != 74 || msg.Data2 != 100 {
		t.Fatalf("unexpected decode: %+v", msg)
	}
}

func TestRouter_LinearCCMapping(t *testing.T) {
	r := NewRouter()
	r.Bind(74, 1, 20, 20000, false)

	msg := Message{Type: ControlChange, Data1: 74, Data2: 127}
	param, val, ok := r.Route(msg)
	if !ok || param != 1 {
		t.Fatalf("expected route to param 1, got param=%v ok=%v", param, ok)
	}
	if val < 19999 {
		t.Fatalf("expected near-max value at CC=127, got %v", val)
	}
}

func TestRouter_LearnBindsNextCC(t *testing.T) {
	r := NewRouter()
	r.BeginLearn(42)

	msg := Message{Type: ControlChange, Data1: 10, Data2: 64}
	_, _, ok := r.Route(msg)
	if ok {
		t.Fatal("the learn-binding CC itself should not also apply its value")
	}
	if r.Learning() {
		t.Fatal("learn mode should exit after one CC")
	}

	param, _, ok := r.Route(Message{Type: ControlChange, Data1: 10, Data2: 100})
	if !ok || param != 42 {
		t.Fatalf("expected subsequent CC10 to route to learned param 42, got %v ok=%v", param, ok)
	}
}

func TestRouter_UnregisteredCCIgnored(t *testing.T) {
	r := NewRouter()
	_, _, ok := r.Route(Message{Type: ControlChange, Data1: 99, Data2: 1})
	if ok {
		t.Fatal("expected unregistered CC to be ignored")
	}
}
