package registrant

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

// Broker terminal states, used only when dissemination is BROKER:
// LOOKUP_ALL_PUBS then an unbounded CONSUME, acting simultaneously as
// subscriber to every publisher and publisher to every subscriber.
const (
	StateLookupAllPubs State = 300 + iota
	StateBrokerConsume
)

// Broker drives REGISTER(BOTH) → ISREADY → LOOKUP_ALL_PUBS →
// CONSUME. Unlike Publisher and Subscriber, CONSUME never reaches
// COMPLETED on its own; the process is expected to run for the
// lifetime of the dissemination session and be stopped externally.
type Broker struct {
	*Client

	state      State
	pubs       []wire.RegistrantInfo
	iterations int
}

// NewBroker wraps an already-dialed Client as a broker.
func NewBroker(c *Client) *Broker {
	return &Broker{Client: c, state: StateInitialize}
}

func (b *Broker) Tick(now time.Time) (time.Duration, error) {
	switch b.state {
	case StateInitialize:
		b.state = StateConfigure
		return 0, nil
	case StateConfigure:
		b.state = StateRegister
		if err := b.sendRegister(wire.RoleBoth); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateIsReady:
		if err := b.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateBrokerConsume:
		glog.V(2).Infof("broker %s: relaying iteration %d across %d publisher(s)", b.Info.ID, b.iterations+1, len(b.pubs))
		b.iterations++
		return time.Millisecond, nil
	default:
		return time.Hour, nil
	}
}

func (b *Broker) OnDealerMessage(msg transport.Message) (time.Duration, error) {
	resp, err := decodeResponse(msg)
	if err != nil {
		return 0, err
	}
	switch b.state {
	case StateRegister:
		if resp.RegisterResp == nil || resp.RegisterResp.Status != wire.StatusSuccess {
			return 0, fmt.Errorf("broker %s: REGISTER failed: %s", b.Info.ID, resp.RegisterResp.GetReason())
		}
		b.state = StateIsReady
		if err := b.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil

	case StateIsReady:
		if resp.IsReadyResp == nil {
			return 0, fmt.Errorf("broker %s: ISREADY response missing payload", b.Info.ID)
		}
		if !resp.IsReadyResp.Status {
			glog.V(1).Infof("broker %s: not ready, backing off %s", b.Info.ID, isReadyBackoff)
			return isReadyBackoff, nil
		}
		b.state = StateLookupAllPubs
		if err := b.sendLookupAllPubs(); err != nil {
			return 0, err
		}
		return time.Hour, nil

	case StateLookupAllPubs:
		if resp.LookupResp == nil {
			return 0, fmt.Errorf("broker %s: LOOKUP_ALL_PUBS response missing payload", b.Info.ID)
		}
		b.pubs = resp.LookupResp.Pubs
		b.state = StateBrokerConsume
		return 0, nil

	default:
		return 0, fmt.Errorf("broker %s: unexpected response in state %v", b.Info.ID, b.state)
	}
}

func (b *Broker) OnRouterMessage(msg transport.Inbound) (time.Duration, error) {
	return 0, fmt.Errorf("broker %s: received unexpected router message", b.Info.ID)
}
