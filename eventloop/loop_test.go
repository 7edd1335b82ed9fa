package eventloop

import (
	"testing"
	"time"

	"github.com/vandy-dsys/chordcast/transport"
)

type fakeHandler struct {
	ticks   int
	routed  []transport.Inbound
	dealt   []transport.Message
	stopAt  int
}

func (f *fakeHandler) Tick(now time.Time) (time.Duration, error) {
	f.ticks++
	if f.ticks >= f.stopAt {
		return 0, ErrStop
	}
	return time.Millisecond, nil
}

func (f *fakeHandler) OnRouterMessage(msg transport.Inbound) (time.Duration, error) {
	f.routed = append(f.routed, msg)
	return time.Millisecond, nil
}

func (f *fakeHandler) OnDealerMessage(msg transport.Message) (time.Duration, error) {
	f.dealt = append(f.dealt, msg)
	return time.Millisecond, nil
}

func TestLoopStopsOnErrStop(t *testing.T) {
	h := &fakeHandler{stopAt: 3}
	l := &Loop{Handler: h}
	if err := l.Run(time.Millisecond); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if h.ticks != 3 {
		t.Fatalf("ticks = %d, want 3", h.ticks)
	}
}

func TestLoopDispatchesRouterMessage(t *testing.T) {
	h := &fakeHandler{stopAt: 1000}
	routerCh := make(chan transport.Inbound, 1)
	l := &Loop{Handler: h, RouterInbound: routerCh}
	routerCh <- transport.Inbound{Identity: "n1", Frames: transport.Message{[]byte("x")}}

	done := make(chan error, 1)
	go func() { done <- l.Run(time.Hour) }()

	time.Sleep(200 * time.Millisecond)
	if len(h.routed) != 1 || h.routed[0].Identity != "n1" {
		t.Fatalf("router message not dispatched: %+v", h.routed)
	}

	// force the loop to exit via a Tick-path stop
	h.stopAt = 0
	close(routerCh)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after router channel closed")
	}
}

func TestLoopDispatchesDealerMessage(t *testing.T) {
	h := &fakeHandler{stopAt: 1000}
	dealerCh := make(chan transport.Message, 1)
	l := &Loop{Handler: h, DealerInbound: dealerCh}
	dealerCh <- transport.Message{[]byte("payload")}

	done := make(chan error, 1)
	go func() { done <- l.Run(time.Hour) }()

	time.Sleep(200 * time.Millisecond)
	if len(h.dealt) != 1 {
		t.Fatalf("dealer message not dispatched: %+v", h.dealt)
	}

	close(dealerCh)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after dealer channel closed")
	}
}
