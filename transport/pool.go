package transport

import (
	"fmt"
	"sync"
)

// Pool holds one persistent DealerSocket per peer id, keyed by the
// peer's Chord node id rather than by address, so that repeated lookups
// against the same finger successor reuse a single connection opened
// once and held for the lifetime of the process.
type Pool struct {
	shared chan Message

	mu      sync.Mutex
	sockets map[string]*DealerSocket
}

// NewPool creates an empty pool. All connections opened through it feed
// frame stacks into a single shared inbound channel.
func NewPool() *Pool {
	return &Pool{
		shared:  make(chan Message, 64),
		sockets: make(map[string]*DealerSocket),
	}
}

// Inbound returns the channel every pooled DealerSocket feeds.
func (p *Pool) Inbound() <-chan Message {
	return p.shared
}

// Connect opens (or returns the existing) DealerSocket for id at addr.
func (p *Pool) Connect(id, addr, selfIdentity string) (*DealerSocket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.sockets[id]; ok {
		return d, nil
	}
	d, err := DialDealer(addr, selfIdentity, p.shared)
	if err != nil {
		return nil, fmt.Errorf("transport: pool connect to %s (%s): %w", id, addr, err)
	}
	p.sockets[id] = d
	return d, nil
}

// Get returns the existing socket for id, if any.
func (p *Pool) Get(id string) (*DealerSocket, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.sockets[id]
	return d, ok
}

// All returns every pooled id currently connected.
func (p *Pool) All() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.sockets))
	for id := range p.sockets {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll closes every pooled connection.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, d := range p.sockets {
		d.Close()
		delete(p.sockets, id)
	}
}
