// Package ringdb loads the static JSON ring manifest into a hash-sorted
// member list. The ring is immutable for the lifetime of the process:
// there is no join/leave, no re-read, no watch.
package ringdb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"
)

// Node is one member of the Chord ring. Hash is the node's opaque ring
// position; it is read from the manifest, never recomputed from ID.
type Node struct {
	ID   string `json:"id"`
	Hash uint64 `json:"hash"`
	IP   string `json:"IP"`
	Port int    `json:"port"`
	Host string `json:"host"`
}

// Addr returns the dial string for this node's discovery listener.
func (n Node) Addr() string {
	return fmt.Sprintf("%s:%d", n.IP, n.Port)
}

type manifest struct {
	DHT []Node `json:"dht"`
}

// ErrDuplicateHash is returned when two ring members share a hash
// value, a fatal configuration error.
var ErrDuplicateHash = fmt.Errorf("ringdb: duplicate node hash")

// Ring is the hash-sorted, immutable view of the ring membership, plus an
// id index for "which node am I" lookups at boot.
type Ring struct {
	Nodes []Node
	byID  map[string]Node
}

// ByID looks up a ring member by its manifest id.
func (r *Ring) ByID(id string) (Node, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Load parses path as a ring manifest and returns the hash-sorted
// membership.
func Load(path string) (*Ring, error) {
	glog.V(1).Infof("ringdb: loading manifest from %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ringdb: reading manifest %s: %w", path, err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("ringdb: parsing manifest %s: %w", path, err)
	}
	if len(m.DHT) == 0 {
		return nil, fmt.Errorf("ringdb: manifest %s has no dht entries", path)
	}

	sort.Slice(m.DHT, func(i, j int) bool { return m.DHT[i].Hash < m.DHT[j].Hash })

	byID := make(map[string]Node, len(m.DHT))
	for i, n := range m.DHT {
		if n.ID == "" {
			return nil, fmt.Errorf("ringdb: manifest %s entry %d missing id", path, i)
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("ringdb: manifest %s duplicate id %q", path, n.ID)
		}
		byID[n.ID] = n
	}
	for i := 1; i < len(m.DHT); i++ {
		if m.DHT[i].Hash == m.DHT[i-1].Hash {
			return nil, fmt.Errorf("%w: %q and %q both hash to %d", ErrDuplicateHash,
				m.DHT[i-1].ID, m.DHT[i].ID, m.DHT[i].Hash)
		}
	}

	glog.V(1).Infof("ringdb: loaded %d nodes", len(m.DHT))
	return &Ring{Nodes: m.DHT, byID: byID}, nil
}
