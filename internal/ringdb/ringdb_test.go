package ringdb

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, body string) string {
	t.Helper()
	p := filepath.Join(dir, "dht.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return p
}

func TestLoadSortsByHash(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, `{
		"dht": [
			{"id": "n200", "hash": 200, "IP": "127.0.0.1", "port": 9002, "host": "n200"},
			{"id": "n10", "hash": 10, "IP": "127.0.0.1", "port": 9000, "host": "n10"},
			{"id": "n100", "hash": 100, "IP": "127.0.0.1", "port": 9001, "host": "n100"}
		]
	}`)

	ring, err := Load(p)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if len(ring.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(ring.Nodes))
	}
	want := []uint64{10, 100, 200}
	for i, n := range ring.Nodes {
		if n.Hash != want[i] {
			t.Fatalf("Nodes[%d].Hash = %d, want %d", i, n.Hash, want[i])
		}
	}
	if n, ok := ring.ByID("n100"); !ok || n.Hash != 100 {
		t.Fatalf("ByID(n100) = %+v, %v", n, ok)
	}
}

func TestLoadRejectsDuplicateHash(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, `{
		"dht": [
			{"id": "a", "hash": 42, "IP": "127.0.0.1", "port": 9000, "host": "a"},
			{"id": "b", "hash": 42, "IP": "127.0.0.1", "port": 9001, "host": "b"}
		]
	}`)

	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for duplicate hash")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
