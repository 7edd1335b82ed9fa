// Package chordrouter implements the Chord routing decision: given a
// key, decide whether the local node owns it or which finger successor
// to forward to. It holds no network state; the persistent outbound
// connections to finger successors live in the transport package.
package chordrouter

import (
	"github.com/vandy-dsys/chordcast/internal/fingertable"
	"github.com/vandy-dsys/chordcast/internal/ringdb"
)

// Router decides the next hop for a key from the perspective of one
// owner node. It is immutable after construction: ring topology and the
// finger table never change once a process is configured.
type Router struct {
	owner ringdb.Node
	table fingertable.Table
	bits  int
}

// New builds a Router for owner using a pre-built finger table.
func New(owner ringdb.Node, table fingertable.Table, bits int) *Router {
	return &Router{owner: owner, table: table, bits: bits}
}

// Owner returns the local node this router decides on behalf of.
func (r *Router) Owner() ringdb.Node {
	return r.owner
}

// Table returns the immutable finger table backing this router.
func (r *Router) Table() fingertable.Table {
	return r.table
}

// Successors returns the distinct finger successors by id, in first-seen
// order. Used to dedupe before opening persistent outbound connections.
func (r *Router) Successors() []ringdb.Node {
	seen := make(map[string]bool, len(r.table))
	out := make([]ringdb.Node, 0, len(r.table))
	for _, e := range r.table {
		if seen[e.Successor.ID] {
			continue
		}
		seen[e.Successor.ID] = true
		out = append(out, e.Successor)
	}
	return out
}

// FindSuccessor returns the next hop for key: this node itself when key
// equals its own hash or the ring has one member, its immediate
// successor when key falls in (owner, successor], and otherwise the
// furthest finger successor that doesn't overshoot key (falling back to
// the immediate successor when no finger precedes key).
func (r *Router) FindSuccessor(key uint64) ringdb.Node {
	if key == r.owner.Hash {
		return r.owner
	}
	if len(r.table) == 0 {
		return r.owner
	}
	immediate := r.table[0].Successor
	if immediate.ID == r.owner.ID {
		// ring of one
		return r.owner
	}
	if betweenIncl(r.owner.Hash, immediate.Hash, key, r.bits) {
		return immediate
	}
	if next := r.closestPrecedingFinger(key); next.ID != r.owner.ID {
		return next
	}
	return immediate
}

// closestPrecedingFinger scans the finger table from the highest index
// down, returning the first successor whose hash lies strictly between
// owner.hash and key in ring order. If none qualifies, it returns owner;
// FindSuccessor then re-dispatches to finger[0].successor.
func (r *Router) closestPrecedingFinger(key uint64) ringdb.Node {
	for i := len(r.table) - 1; i >= 0; i-- {
		s := r.table[i].Successor
		if betweenExcl(r.owner.Hash, key, s.Hash, r.bits) {
			return s
		}
	}
	return r.owner
}

// betweenIncl reports whether x lies in (low, high] on a ring of size
// 2^bits, where low == high is treated as the full ring (wrap of one).
func betweenIncl(low, high, x uint64, bits int) bool {
	if low == high {
		return true
	}
	if low < high {
		return x > low && x <= high
	}
	// wraps past the ring origin
	return x > low || x <= high
}

// betweenExcl reports whether x lies strictly in (low, high) on the ring.
func betweenExcl(low, high, x uint64, bits int) bool {
	if low == high {
		return false
	}
	if low < high {
		return x > low && x < high
	}
	return x > low || x < high
}
