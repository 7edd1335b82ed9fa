// Package fingertable builds the per-node Chord finger table: for an
// owner node and a sorted ring, M entries mapping (owner.hash + 2^i) mod
// 2^M to the ring successor of that key.
package fingertable

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/internal/ringdb"
)

// Entry is one row of a finger table.
type Entry struct {
	Start     uint64
	Successor ringdb.Node
}

// Table is the ordered sequence of M finger entries for one owner node.
type Table []Entry

// Build constructs the finger table for owner given the hash-sorted ring
// and the key-space width bits. It is a pure function: identical inputs
// always produce an identical table.
func Build(owner ringdb.Node, sortedRing []ringdb.Node, bits int) (Table, error) {
	if len(sortedRing) == 0 {
		return nil, fmt.Errorf("fingertable: empty ring")
	}
	if bits <= 0 {
		return nil, fmt.Errorf("fingertable: bits must be positive, got %d", bits)
	}

	var mod uint64
	if bits >= 64 {
		mod = 0 // 2^64, wraps naturally
	} else {
		mod = uint64(1) << uint(bits)
	}

	table := make(Table, bits)
	for i := 0; i < bits; i++ {
		var offset uint64
		if i >= 64 {
			offset = 0
		} else {
			offset = uint64(1) << uint(i)
		}
		start := owner.Hash + offset
		if mod != 0 {
			start %= mod
		}
		table[i] = Entry{
			Start:     start,
			Successor: successorOf(start, sortedRing),
		}
	}

	glog.V(2).Infof("fingertable: built %d entries for node %s (hash=%d)", bits, owner.ID, owner.Hash)
	return table, nil
}

// successorOf returns the first node in ring order (wrapping) whose hash
// is >= key, or the first node in the ring if none qualifies.
func successorOf(key uint64, sortedRing []ringdb.Node) ringdb.Node {
	idx := sort.Search(len(sortedRing), func(i int) bool {
		return sortedRing[i].Hash >= key
	})
	if idx == len(sortedRing) {
		return sortedRing[0]
	}
	return sortedRing[idx]
}
