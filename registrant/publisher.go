package registrant

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/eventloop"
	"github.com/vandy-dsys/chordcast/internal/topics"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

// StateDisseminate is the publisher's terminal step: produce topic
// samples at a configured frequency for a configured iteration count,
// then COMPLETED. It is numbered apart from the shared State consts
// since it only exists for this role.
const StateDisseminate State = 100

// Publisher drives REGISTER(PUBLISHER) → ISREADY → DISSEMINATE →
// COMPLETED.
type Publisher struct {
	*Client

	state      State
	numTopics  int
	frequency  time.Duration
	iters      int
	iterations int
}

// NewPublisher wraps an already-dialed Client as a publisher.
func NewPublisher(c *Client, numTopics, iters int, frequency time.Duration) *Publisher {
	return &Publisher{Client: c, state: StateInitialize, numTopics: numTopics, iters: iters, frequency: frequency}
}

// Tick drives the parts of the lifecycle that need no response: the
// INITIALIZE/CONFIGURE handshake and the periodic DISSEMINATE step
// (the actual payload transport is an external collaborator, so each
// tick only accounts for and logs the sample).
func (p *Publisher) Tick(now time.Time) (time.Duration, error) {
	switch p.state {
	case StateInitialize:
		p.state = StateConfigure
		return 0, nil
	case StateConfigure:
		p.state = StateRegister
		if err := p.sendRegister(wire.RolePublisher); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateIsReady:
		// fired after the isReadyBackoff wait requested from
		// OnDealerMessage; re-probe.
		if err := p.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateDisseminate:
		if p.iterations >= p.iters {
			p.state = StateCompleted
			glog.V(1).Infof("publisher %s: COMPLETED after %d iterations", p.Info.ID, p.iterations)
			return 0, eventloop.ErrStop
		}
		topic := topics.RoundRobin(p.numTopics, p.iterations)
		glog.V(1).Infof("publisher %s: disseminate sample on %s (iteration %d/%d)", p.Info.ID, topic, p.iterations+1, p.iters)
		p.iterations++
		return p.frequency, nil
	case StateCompleted:
		return 0, eventloop.ErrStop
	default:
		return time.Hour, nil
	}
}

// OnDealerMessage advances REGISTER and ISREADY on their responses.
func (p *Publisher) OnDealerMessage(msg transport.Message) (time.Duration, error) {
	resp, err := decodeResponse(msg)
	if err != nil {
		return 0, err
	}
	switch p.state {
	case StateRegister:
		if resp.RegisterResp == nil || resp.RegisterResp.Status != wire.StatusSuccess {
			return 0, fmt.Errorf("publisher %s: REGISTER failed: %s", p.Info.ID, resp.RegisterResp.GetReason())
		}
		p.state = StateIsReady
		if err := p.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil

	case StateIsReady:
		if resp.IsReadyResp == nil {
			return 0, fmt.Errorf("publisher %s: ISREADY response missing payload", p.Info.ID)
		}
		if resp.IsReadyResp.Status {
			p.state = StateDisseminate
			return 0, nil
		}
		glog.V(1).Infof("publisher %s: not ready, backing off %s", p.Info.ID, isReadyBackoff)
		return isReadyBackoff, nil

	default:
		return 0, fmt.Errorf("publisher %s: unexpected response in state %v", p.Info.ID, p.state)
	}
}

// OnRouterMessage is never invoked: a registrant owns no router
// socket.
func (p *Publisher) OnRouterMessage(msg transport.Inbound) (time.Duration, error) {
	return 0, fmt.Errorf("publisher %s: received unexpected router message", p.Info.ID)
}
