// Package eventloop implements the cooperative, single-threaded poll
// loop every node runs: one goroutine evaluates ticks and inbound
// messages in turn, and each handler call returns the duration to wait
// before the next tick instead of blocking past it.
package eventloop

import (
	"errors"
	"time"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/transport"
)

// ErrStop is returned by a Handler method to ask the loop to exit
// cleanly. Run treats it as success, not failure.
var ErrStop = errors.New("eventloop: stop requested")

// Handler receives the three upcalls the loop dispatches. Each returns
// the duration until the handler wants to be ticked again; a handler
// that has nothing pending should return a generous duration rather
// than busy-polling.
type Handler interface {
	Tick(now time.Time) (time.Duration, error)
	OnRouterMessage(msg transport.Inbound) (time.Duration, error)
	OnDealerMessage(msg transport.Message) (time.Duration, error)
}

// Loop drives a Handler from at most two inbound channels: router
// inbound (nil for registrants, which have no ROUTER socket) and dealer
// inbound (the pool's shared fan-in channel).
type Loop struct {
	Handler       Handler
	RouterInbound <-chan transport.Inbound // nil if this node runs no ROUTER socket
	DealerInbound <-chan transport.Message

	stop chan struct{}
}

// Init pre-creates the stop channel. Call it before starting Run in a
// goroutine if Stop may be called concurrently with that goroutine's
// startup (e.g. from a signal handler); otherwise Run initializes it
// lazily and Stop has nothing to race with.
func (l *Loop) Init() {
	if l.stop == nil {
		l.stop = make(chan struct{})
	}
}

// Stop asks a running Run call to return on its next iteration. Unlike
// ErrStop, it does not require cooperation from the Handler.
func (l *Loop) Stop() {
	l.Init()
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

// Run drives the loop until the handler returns ErrStop or a non-nil
// error, until Stop is called, or until the process is otherwise
// terminated. initial is the timeout before the first Tick.
func (l *Loop) Run(initial time.Duration) error {
	l.Init()
	timeout := initial
	for {
		timer := time.NewTimer(timeout)
		var next time.Duration
		var err error

		select {
		case <-l.stop:
			timer.Stop()
			glog.V(1).Info("eventloop: Stop called, exiting cleanly")
			return nil
		case <-timer.C:
			next, err = l.Handler.Tick(time.Now())
		case msg, ok := <-l.RouterInbound:
			timer.Stop()
			if !ok {
				return nil
			}
			next, err = l.Handler.OnRouterMessage(msg)
		case msg, ok := <-l.DealerInbound:
			timer.Stop()
			if !ok {
				return nil
			}
			next, err = l.Handler.OnDealerMessage(msg)
		}

		if err != nil {
			if errors.Is(err, ErrStop) {
				glog.V(1).Info("eventloop: stop requested, exiting cleanly")
				return nil
			}
			return err
		}
		timeout = next
	}
}
