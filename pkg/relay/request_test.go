package relay

import (
	"strings"
	"testing"
)

func TestPendingSet_ResolveByID(t *testing.T) {
	p := newPendingSet()
	a := p.add("req_a", "op_stop_recording")
	b := p.add("req_b", "op_stop_recording")

	ev := NewEvent("op_stop_recording", map[string]any{"request_id": "req_b"})
	if !p.resolve(ev) {
		t.Fatal("resolve = false, want true")
	}

	select {
	case got := <-b.reply:
		if got != ev {
			t.Error("wrong event delivered")
		}
	default:
		t.Fatal("req_b not resolved")
	}
	select {
	case <-a.reply:
		t.Fatal("req_a resolved by reply for req_b")
	default:
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

func TestPendingSet_ResolveByTypeOldestFirst(t *testing.T) {
	p := newPendingSet()
	p.add("req_x", "op_other")
	a := p.add("req_a", "op_stop_recording")
	b := p.add("req_b", "op_stop_recording")

	if !p.resolve(NewEvent("op_stop_recording", nil)) {
		t.Fatal("first resolve = false")
	}
	if len(a.reply) != 1 || len(b.reply) != 0 {
		t.Fatalf("first reply went to wrong request (a=%d b=%d)", len(a.reply), len(b.reply))
	}
	if !p.resolve(NewEvent("op_stop_recording", nil)) {
		t.Fatal("second resolve = false")
	}
	if len(b.reply) != 1 {
		t.Fatal("second reply not delivered to req_b")
	}
	if p.resolve(NewEvent("op_stop_recording", nil)) {
		t.Error("third resolve = true with no waiter")
	}
}

func TestPendingSet_UnknownID(t *testing.T) {
	p := newPendingSet()
	p.add("req_a", "op_stop_recording")

	// A stale request_id never falls back to type matching.
	if p.resolve(NewEvent("op_stop_recording", map[string]any{"request_id": "req_gone"})) {
		t.Error("resolve = true for unknown request_id")
	}
}

func TestPendingSet_Remove(t *testing.T) {
	p := newPendingSet()
	a := p.add("req_a", "op_stop_recording")
	p.remove(a)
	p.remove(a)

	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
	if p.resolve(NewEvent("op_stop_recording", nil)) {
		t.Error("removed request was resolved")
	}
}

func TestNewRequestID(t *testing.T) {
	a, b := newRequestID(), newRequestID()
	if a == b {
		t.Errorf("duplicate request ids %q", a)
	}
	if !strings.HasPrefix(a, "req_") {
		t.Errorf("id %q lacks req_ prefix", a)
	}
}
