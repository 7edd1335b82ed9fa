package discovery

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/internal/chordrouter"
	"github.com/vandy-dsys/chordcast/internal/config"
	"github.com/vandy-dsys/chordcast/internal/fingertable"
	"github.com/vandy-dsys/chordcast/internal/ringdb"
	"github.com/vandy-dsys/chordcast/transport"
)

// Server bundles a Node with the sockets and eventloop wiring it needs,
// built from the static ring manifest and the node's configured
// external interfaces.
type Server struct {
	Node *Node
	Sock *transport.RouterSocket
	Pool *transport.Pool
}

// NewServer loads nothing itself; it builds the finger table from an
// already-loaded ring and wires it, with the configuration, into a
// listening Node. addr is the
// local bind address (e.g. "0.0.0.0:5555"); it need not match the
// manifest's recorded IP/port if the process is reachable under a
// different address (containers, NAT).
func NewServer(ring *ringdb.Ring, self ringdb.Node, bits int, cfg *config.Config, expectedPubs, expectedSubs int, addr string) (*Server, error) {
	table, err := fingertable.Build(self, ring.Nodes, bits)
	if err != nil {
		return nil, fmt.Errorf("discovery: build finger table: %w", err)
	}
	router := chordrouter.New(self, table, bits)

	sock, err := transport.ListenRouter(addr)
	if err != nil {
		return nil, fmt.Errorf("discovery: listen: %w", err)
	}

	pool := transport.NewPool()
	for _, succ := range router.Successors() {
		if succ.ID == self.ID {
			continue
		}
		if _, err := pool.Connect(succ.ID, succ.Addr(), self.ID); err != nil {
			sock.Close()
			return nil, fmt.Errorf("discovery: connect to successor %s: %w", succ.ID, err)
		}
		glog.V(1).Infof("discovery: connected to finger successor %s at %s", succ.ID, succ.Addr())
	}

	shard := NewShard(cfg.Dissemination, expectedPubs, expectedSubs)
	node := NewNode(router, sock, pool, shard, bits)

	return &Server{Node: node, Sock: sock, Pool: pool}, nil
}

// Close tears down the server's sockets.
func (s *Server) Close() {
	s.Pool.CloseAll()
	s.Sock.Close()
}
