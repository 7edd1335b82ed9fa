package chordrouter

import (
	"testing"

	"github.com/vandy-dsys/chordcast/internal/fingertable"
	"github.com/vandy-dsys/chordcast/internal/ringdb"
)

func TestFindSuccessorRingOfOne(t *testing.T) {
	a := ringdb.Node{ID: "A", Hash: 42}
	ring := []ringdb.Node{a}
	table, err := fingertable.Build(a, ring, 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := New(a, table, 8)

	key, err := hash8("PUBLISHER")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if got := r.FindSuccessor(key); got.ID != "A" {
		t.Fatalf("FindSuccessor in ring of one = %s, want A", got.ID)
	}
}

func TestFindSuccessorConverges(t *testing.T) {
	nodes := []ringdb.Node{
		{ID: "n10", Hash: 10},
		{ID: "n100", Hash: 100},
		{ID: "n200", Hash: 200},
	}
	routers := make(map[string]*Router, len(nodes))
	for _, n := range nodes {
		table, err := fingertable.Build(n, nodes, 8)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		routers[n.ID] = New(n, table, 8)
	}

	const key = uint64(150)
	const maxHops = 3 // ceil(log2(3)) + 1

	cur := routers["n10"]
	hops := 0
	for {
		next := cur.FindSuccessor(key)
		hops++
		if hops > maxHops {
			t.Fatalf("did not converge within %d hops", maxHops)
		}
		if next.ID == cur.Owner().ID {
			t.Fatalf("FindSuccessor returned owner without reaching the true owner")
		}
		nr, ok := routers[next.ID]
		if !ok {
			t.Fatalf("unknown hop target %s", next.ID)
		}
		if nr.FindSuccessor(key).ID == next.ID {
			// next node claims ownership of key
			if next.ID != "n200" {
				t.Fatalf("converged to %s, want n200 (smallest hash >= 150)", next.ID)
			}
			return
		}
		cur = nr
	}
}

func hash8(s string) (uint64, error) {
	// local helper derives an 8-bit key with a simple base-31 polynomial
	// hash rather than chordhash.Hash(8, s), to keep this table-focused
	// test independent of the hash package; a ring of one owns any key.
	var v uint64
	for _, b := range []byte(s) {
		v = v*31 + uint64(b)
	}
	return v % 256, nil
}
