// Package registrant implements the three client-side role state
// machines: publisher, subscriber and broker, each driving REGISTER →
// ISREADY → (role-specific terminal) → COMPLETED over a single dealer
// connection to a seed discovery node.
package registrant

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

// State is a step in the shared registrant lifecycle. Role-specific
// terminal states are defined by each role's own file.
type State int

const (
	StateInitialize State = iota
	StateConfigure
	StateRegister
	StateIsReady
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInitialize:
		return "INITIALIZE"
	case StateConfigure:
		return "CONFIGURE"
	case StateRegister:
		return "REGISTER"
	case StateIsReady:
		return "ISREADY"
	case StateCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// isReadyBackoff is the fixed client-side re-probe interval after a
// NOT_READY response.
const isReadyBackoff = 10 * time.Second

// Client is the shared base every role embeds: one dealer connection
// to a seed discovery node, plus the registrant's own identity.
type Client struct {
	Info      wire.RegistrantInfo
	TopicList []string

	dealer *transport.DealerSocket
}

// Dial connects to the seed discovery node at addr. The caller supplies
// the shared inbound channel the owning eventloop.Loop will drain.
func Dial(addr string, info wire.RegistrantInfo, topicList []string, shared chan transport.Message) (*Client, error) {
	d, err := transport.DialDealer(addr, info.ID, shared)
	if err != nil {
		return nil, fmt.Errorf("registrant: dial %s: %w", addr, err)
	}
	return &Client{Info: info, TopicList: topicList, dealer: d}, nil
}

// Close closes the underlying dealer connection.
func (c *Client) Close() error {
	return c.dealer.Close()
}

// sendRegister sends the REGISTER request for role.
func (c *Client) sendRegister(role wire.Role) error {
	req := wire.DiscoveryReq{
		MsgType: wire.MsgRegister,
		Register: &wire.RegisterReq{
			Role:      role,
			Info:      c.Info,
			TopicList: c.TopicList,
		},
	}
	glog.V(1).Infof("registrant %s: sending REGISTER(role=%v)", c.Info.ID, role)
	return c.dealer.Send(transport.Message{req.Marshal()})
}

// sendIsReady sends an ISREADY probe.
func (c *Client) sendIsReady() error {
	req := wire.DiscoveryReq{MsgType: wire.MsgIsReady, IsReady: &wire.IsReadyReq{}}
	return c.dealer.Send(transport.Message{req.Marshal()})
}

// sendLookupPubByTopic sends a LOOKUP_PUB_BY_TOPIC request.
func (c *Client) sendLookupPubByTopic(topics []string) error {
	req := wire.DiscoveryReq{
		MsgType: wire.MsgLookupPubByTopic,
		Lookup:  &wire.LookupPubByTopicReq{TopicList: topics},
	}
	return c.dealer.Send(transport.Message{req.Marshal()})
}

// sendLookupAllPubs sends a LOOKUP_ALL_PUBS request.
func (c *Client) sendLookupAllPubs() error {
	req := wire.DiscoveryReq{MsgType: wire.MsgLookupAllPubs, LookupAll: &wire.LookupAllPubsReq{}}
	return c.dealer.Send(transport.Message{req.Marshal()})
}

// decodeResponse extracts the single-frame DiscoveryResp a registrant
// always receives (it has no router socket, hence no hop chain to
// strip).
func decodeResponse(msg transport.Message) (wire.DiscoveryResp, error) {
	if len(msg) != 1 {
		return wire.DiscoveryResp{}, fmt.Errorf("registrant: expected a single-frame response, got %d frames", len(msg))
	}
	return wire.UnmarshalDiscoveryResp(msg[0])
}
