package transport

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"github.com/golang/glog"
)

// DealerSocket dials one ROUTER peer, announces its identity once, then
// exchanges bare frame stacks. Every DealerSocket feeds a caller-supplied
// shared channel so a node with many finger successors still has a
// single read path, matching the fan-in pattern used by RouterSocket.
type DealerSocket struct {
	identity string
	conn     net.Conn
	w        *bufio.Writer
	wmu      sync.Mutex
}

// DialDealer connects to addr, sends identity as the one-time handshake
// frame, and starts streaming inbound frame stacks into shared.
func DialDealer(addr, identity string, shared chan<- Message) (*DealerSocket, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial dealer to %s: %w", addr, err)
	}
	d := &DealerSocket{
		identity: identity,
		conn:     conn,
		w:        bufio.NewWriter(conn),
	}
	if err := writeFrames(d.w, Message{[]byte(identity)}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: dealer handshake to %s: %w", addr, err)
	}
	go d.readLoop(shared)
	return d, nil
}

func (d *DealerSocket) readLoop(shared chan<- Message) {
	r := bufio.NewReader(d.conn)
	for {
		frames, err := readFrames(r)
		if err != nil {
			glog.V(1).Infof("transport: dealer %q connection closed: %v", d.identity, err)
			return
		}
		shared <- frames
	}
}

// Send writes a frame stack to the connected ROUTER peer.
func (d *DealerSocket) Send(frames Message) error {
	d.wmu.Lock()
	defer d.wmu.Unlock()
	return writeFrames(d.w, frames)
}

// Close closes the underlying connection.
func (d *DealerSocket) Close() error {
	return d.conn.Close()
}
