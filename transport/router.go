package transport

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"github.com/golang/glog"
)

// Inbound is one frame stack received on a RouterSocket, tagged with the
// identity of the peer that sent it. The router learns that identity
// from the peer's first frame and uses it for the return path.
type Inbound struct {
	Identity string
	Frames   Message
}

// RouterSocket accepts connections and fans every inbound message,
// tagged with the sender's learned identity, into a single channel.
// It mirrors the one-goroutine-per-connection, single-shared-channel
// fan-in pattern (no reflect.Select, no per-connection polling).
type RouterSocket struct {
	ln      net.Listener
	Inbound chan Inbound

	mu    sync.Mutex
	conns map[string]*routerConn
}

type routerConn struct {
	conn net.Conn
	w    *bufio.Writer
	mu   sync.Mutex
}

// ListenRouter opens a RouterSocket on addr and starts accepting
// connections in the background. Callers drain sock.Inbound.
func ListenRouter(addr string) (*RouterSocket, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen router on %s: %w", addr, err)
	}
	s := &RouterSocket{
		ln:      ln,
		Inbound: make(chan Inbound, 64),
		conns:   make(map[string]*routerConn),
	}
	go s.acceptLoop()
	return s, nil
}

// Addr returns the socket's bound address.
func (s *RouterSocket) Addr() net.Addr { return s.ln.Addr() }

func (s *RouterSocket) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			glog.V(1).Infof("transport: router accept loop exiting: %v", err)
			return
		}
		go s.handleConn(conn)
	}
}

func (s *RouterSocket) handleConn(conn net.Conn) {
	r := bufio.NewReader(conn)
	handshake, err := readFrames(r)
	if err != nil {
		glog.V(1).Infof("transport: router handshake read from %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	if len(handshake) != 1 {
		glog.Warningf("transport: router handshake from %s carried %d frames, want 1", conn.RemoteAddr(), len(handshake))
		conn.Close()
		return
	}
	identity := string(handshake[0])

	rc := &routerConn{conn: conn, w: bufio.NewWriter(conn)}
	s.mu.Lock()
	s.conns[identity] = rc
	s.mu.Unlock()

	glog.V(1).Infof("transport: router learned identity %q from %s", identity, conn.RemoteAddr())

	for {
		frames, err := readFrames(r)
		if err != nil {
			glog.V(1).Infof("transport: router connection to %q closed: %v", identity, err)
			s.mu.Lock()
			if s.conns[identity] == rc {
				delete(s.conns, identity)
			}
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.Inbound <- Inbound{Identity: identity, Frames: frames}
	}
}

// Send writes frames to the peer known by identity. It returns an error
// if no connection from that identity has been observed.
func (s *RouterSocket) Send(identity string, frames Message) error {
	s.mu.Lock()
	rc, ok := s.conns[identity]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: router has no connection for identity %q", identity)
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return writeFrames(rc.w, frames)
}

// Close shuts down the listener and every accepted connection.
func (s *RouterSocket) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rc := range s.conns {
		rc.conn.Close()
		delete(s.conns, id)
	}
	return err
}
