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

// Subscriber terminal states: LOOKUP_PUB → SUBSCRIBE → CONSUME
// (iteration-limited) → COMPLETED.
const (
	StateLookupPub State = 200 + iota
	StateSubscribe
	StateConsume
)

// Subscriber drives REGISTER(SUBSCRIBER) → ISREADY → LOOKUP_PUB →
// SUBSCRIBE → CONSUME → COMPLETED.
type Subscriber struct {
	*Client

	state      State
	numTopics  int
	iters      int
	iterations int
	pubs       []wire.RegistrantInfo
}

// NewSubscriber wraps an already-dialed Client as a subscriber.
func NewSubscriber(c *Client, numTopics, iters int) *Subscriber {
	return &Subscriber{Client: c, state: StateInitialize, numTopics: numTopics, iters: iters}
}

func (s *Subscriber) Tick(now time.Time) (time.Duration, error) {
	switch s.state {
	case StateInitialize:
		s.state = StateConfigure
		return 0, nil
	case StateConfigure:
		s.state = StateRegister
		if err := s.sendRegister(wire.RoleSubscriber); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateIsReady:
		if err := s.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil
	case StateSubscribe:
		// The actual subscribe handshake with a publisher endpoint is
		// part of the topic data plane, handled by a separate
		// collaborator; the state machine records that the lookup
		// resolved and proceeds straight to consuming.
		glog.V(1).Infof("subscriber %s: subscribed to %d publisher(s)", s.Info.ID, len(s.pubs))
		s.state = StateConsume
		return 0, nil
	case StateConsume:
		if s.iterations >= s.iters {
			s.state = StateCompleted
			glog.V(1).Infof("subscriber %s: COMPLETED after %d iterations", s.Info.ID, s.iterations)
			return 0, eventloop.ErrStop
		}
		topic := topics.RoundRobin(s.numTopics, s.iterations)
		glog.V(1).Infof("subscriber %s: consume iteration %d/%d on %s", s.Info.ID, s.iterations+1, s.iters, topic)
		s.iterations++
		return time.Millisecond, nil
	case StateCompleted:
		return 0, eventloop.ErrStop
	default:
		return time.Hour, nil
	}
}

func (s *Subscriber) OnDealerMessage(msg transport.Message) (time.Duration, error) {
	resp, err := decodeResponse(msg)
	if err != nil {
		return 0, err
	}
	switch s.state {
	case StateRegister:
		if resp.RegisterResp == nil || resp.RegisterResp.Status != wire.StatusSuccess {
			return 0, fmt.Errorf("subscriber %s: REGISTER failed: %s", s.Info.ID, resp.RegisterResp.GetReason())
		}
		s.state = StateIsReady
		if err := s.sendIsReady(); err != nil {
			return 0, err
		}
		return time.Hour, nil

	case StateIsReady:
		if resp.IsReadyResp == nil {
			return 0, fmt.Errorf("subscriber %s: ISREADY response missing payload", s.Info.ID)
		}
		if !resp.IsReadyResp.Status {
			glog.V(1).Infof("subscriber %s: not ready, backing off %s", s.Info.ID, isReadyBackoff)
			return isReadyBackoff, nil
		}
		s.state = StateLookupPub
		if err := s.sendLookupPubByTopic(topics.Universe(s.numTopics)); err != nil {
			return 0, err
		}
		return time.Hour, nil

	case StateLookupPub:
		if resp.LookupResp == nil {
			return 0, fmt.Errorf("subscriber %s: LOOKUP_PUB_BY_TOPIC response missing payload", s.Info.ID)
		}
		s.pubs = resp.LookupResp.Pubs
		s.state = StateSubscribe
		return 0, nil

	default:
		return 0, fmt.Errorf("subscriber %s: unexpected response in state %v", s.Info.ID, s.state)
	}
}

func (s *Subscriber) OnRouterMessage(msg transport.Inbound) (time.Duration, error) {
	return 0, fmt.Errorf("subscriber %s: received unexpected router message", s.Info.ID)
}
