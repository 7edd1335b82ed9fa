// Package transport implements the length-delimited, multi-frame socket
// framing used throughout chordcast in place of a ZeroMQ binding: no
// ZeroMQ Go binding exists anywhere in the stack this repo is built
// from, so the identity-tagged, multi-frame ROUTER/DEALER message shape
// is reproduced directly over net.Conn.
//
// A Message is an ordered list of opaque byte frames. ROUTER sockets
// tag every inbound message with the sending peer's identity (carried in
// Inbound.Identity, apart from the frames) and address every outbound one
// by an identity passed separately to Send; DEALER
// sockets exchange identity once at connect time and then send bare
// frame stacks. This mirrors the frame-stack forwarding behavior the
// discovery plane relies on to find its way back to the original caller
// across multiple Chord hops.
package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Message is one frame stack as carried between ROUTER and DEALER peers.
type Message [][]byte

const maxFrameBytes = 64 << 20 // 64MiB, generous enough for registrant lists

// writeFrames writes frames as a frame count followed by
// length-prefixed payloads, then flushes w if it is a *bufio.Writer.
func writeFrames(w io.Writer, frames Message) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(frames)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("transport: write frame count: %w", err)
	}
	for i, f := range frames {
		binary.BigEndian.PutUint32(hdr[:], uint32(len(f)))
		if _, err := w.Write(hdr[:]); err != nil {
			return fmt.Errorf("transport: write frame %d length: %w", i, err)
		}
		if len(f) > 0 {
			if _, err := w.Write(f); err != nil {
				return fmt.Errorf("transport: write frame %d body: %w", i, err)
			}
		}
	}
	if bw, ok := w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

// readFrames blocks until one full frame stack has arrived on r.
func readFrames(r io.Reader) (Message, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint32(hdr[:])
	frames := make(Message, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("transport: read frame %d length: %w", i, err)
		}
		n := binary.BigEndian.Uint32(hdr[:])
		if n > maxFrameBytes {
			return nil, fmt.Errorf("transport: frame %d exceeds %d bytes (got %d)", i, maxFrameBytes, n)
		}
		buf := make([]byte, n)
		if n > 0 {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("transport: read frame %d body: %w", i, err)
			}
		}
		frames = append(frames, buf)
	}
	return frames, nil
}
