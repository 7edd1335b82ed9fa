package registrant

import (
	"testing"
	"time"

	"github.com/vandy-dsys/chordcast/discovery"
	"github.com/vandy-dsys/chordcast/eventloop"
	"github.com/vandy-dsys/chordcast/internal/chordrouter"
	"github.com/vandy-dsys/chordcast/internal/config"
	"github.com/vandy-dsys/chordcast/internal/fingertable"
	"github.com/vandy-dsys/chordcast/internal/ringdb"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

// startDiscoveryNode spins up a ring-of-one discovery node for
// registrant-side tests to REGISTER against.
func startDiscoveryNode(t *testing.T, dissemination config.DisseminationStrategy, expectedPubs, expectedSubs int) (addr string, stop func()) {
	t.Helper()
	self := ringdb.Node{ID: "A", Hash: 1}
	ring := []ringdb.Node{self}
	table, err := fingertable.Build(self, ring, 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	router := chordrouter.New(self, table, 8)

	sock, err := transport.ListenRouter("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenRouter: %v", err)
	}
	pool := transport.NewPool()
	shard := discovery.NewShard(dissemination, expectedPubs, expectedSubs)
	node := discovery.NewNode(router, sock, pool, shard, 8)

	loop := &eventloop.Loop{Handler: node, RouterInbound: sock.Inbound, DealerInbound: pool.Inbound()}
	go loop.Run(time.Second)

	return sock.Addr().String(), func() {
		sock.Close()
		pool.CloseAll()
	}
}

func infoFor(id string) wire.RegistrantInfo {
	return wire.RegistrantInfo{ID: id, Addr: "127.0.0.1", Port: 0}
}

func waitForState(t *testing.T, get func() State, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if get() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state did not reach %v within %s (last seen %v)", want, timeout, get())
}

func TestPublisherReachesDisseminateAndCompletes(t *testing.T) {
	addr, stop := startDiscoveryNode(t, config.DisseminationDirect, 1, 0)
	defer stop()

	shared := make(chan transport.Message, 8)
	client, err := Dial(addr, infoFor("P1"), []string{"T1"}, shared)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	pub := NewPublisher(client, 2, 3, time.Millisecond)
	loop := &eventloop.Loop{Handler: pub, DealerInbound: shared}

	done := make(chan error, 1)
	go func() { done <- loop.Run(0) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("loop.Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("publisher did not complete in time")
	}
	if pub.state != StateCompleted {
		t.Fatalf("publisher state = %v, want COMPLETED", pub.state)
	}
	if pub.iterations != 3 {
		t.Fatalf("publisher iterations = %d, want 3", pub.iterations)
	}
}

func TestSubscriberLooksUpRegisteredPublisher(t *testing.T) {
	addr, stop := startDiscoveryNode(t, config.DisseminationDirect, 1, 0)
	defer stop()

	pubShared := make(chan transport.Message, 8)
	pubClient, err := Dial(addr, infoFor("P1"), []string{"topic-0"}, pubShared)
	if err != nil {
		t.Fatalf("Dial publisher: %v", err)
	}
	defer pubClient.Close()
	pub := NewPublisher(pubClient, 1, 1, time.Millisecond)
	pubLoop := &eventloop.Loop{Handler: pub, DealerInbound: pubShared}
	go pubLoop.Run(0)
	waitForState(t, func() State { return pub.state }, StateCompleted, 2*time.Second)

	subShared := make(chan transport.Message, 8)
	subClient, err := Dial(addr, infoFor("S1"), []string{"topic-0"}, subShared)
	if err != nil {
		t.Fatalf("Dial subscriber: %v", err)
	}
	defer subClient.Close()
	sub := NewSubscriber(subClient, 1, 1)
	subLoop := &eventloop.Loop{Handler: sub, DealerInbound: subShared}

	done := make(chan error, 1)
	go func() { done <- subLoop.Run(0) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("loop.Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("subscriber did not complete in time")
	}
	if len(sub.pubs) != 1 || sub.pubs[0].ID != "P1" {
		t.Fatalf("subscriber resolved pubs = %+v, want [P1]", sub.pubs)
	}
}

func TestBrokerReachesConsumeState(t *testing.T) {
	addr, stop := startDiscoveryNode(t, config.DisseminationBroker, 0, 0)
	defer stop()

	shared := make(chan transport.Message, 8)
	client, err := Dial(addr, infoFor("B"), nil, shared)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	broker := NewBroker(client)
	loop := &eventloop.Loop{Handler: broker, DealerInbound: shared}
	go loop.Run(0)

	waitForState(t, func() State { return broker.state }, StateBrokerConsume, 2*time.Second)
}
