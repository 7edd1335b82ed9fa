package transport

import (
	"bytes"
	"testing"
)

func TestWriteReadFramesRoundTrip(t *testing.T) {
	in := Message{[]byte("alpha"), []byte(""), []byte("gamma-frame")}
	var buf bytes.Buffer
	if err := writeFrames(&buf, in); err != nil {
		t.Fatalf("writeFrames: %v", err)
	}
	out, err := readFrames(&buf)
	if err != nil {
		t.Fatalf("readFrames: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("frame count = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if !bytes.Equal(out[i], in[i]) {
			t.Fatalf("frame %d = %q, want %q", i, out[i], in[i])
		}
	}
}

func TestWriteReadFramesEmptyStack(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrames(&buf, Message{}); err != nil {
		t.Fatalf("writeFrames: %v", err)
	}
	out, err := readFrames(&buf)
	if err != nil {
		t.Fatalf("readFrames: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected 0 frames, got %d", len(out))
	}
}

func TestWriteReadFramesSequence(t *testing.T) {
	var buf bytes.Buffer
	first := Message{[]byte("hop1"), []byte("payload-1")}
	second := Message{[]byte("hop1"), []byte("hop2"), []byte("payload-2")}
	if err := writeFrames(&buf, first); err != nil {
		t.Fatalf("writeFrames first: %v", err)
	}
	if err := writeFrames(&buf, second); err != nil {
		t.Fatalf("writeFrames second: %v", err)
	}
	got1, err := readFrames(&buf)
	if err != nil {
		t.Fatalf("readFrames first: %v", err)
	}
	if len(got1) != 2 {
		t.Fatalf("first stack: got %d frames, want 2", len(got1))
	}
	got2, err := readFrames(&buf)
	if err != nil {
		t.Fatalf("readFrames second: %v", err)
	}
	if len(got2) != 3 {
		t.Fatalf("second stack: got %d frames, want 3", len(got2))
	}
}
