package discovery

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/vandy-dsys/chordcast/internal/chordhash"
	"github.com/vandy-dsys/chordcast/internal/chordrouter"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

// Node is one discovery-plane shard: it owns a Chord router, an inbound
// identity-addressed socket, an outbound pool to each distinct finger
// successor, and the local registrant shard. It implements
// eventloop.Handler.
//
// Frame-stack convention: transport.RouterSocket strips the immediate
// sender's identity out of the message into Inbound.Identity, so the
// hop chain a Node must reconstruct to forward a message is built by
// re-prepending that identity onto msg.Frames before handing the
// result to the chosen successor's DealerSocket — this plays the role
// that an automatic ROUTER-side identity-prepend would play in a
// ZeroMQ deployment. The payload is always the last frame.
type Node struct {
	router *chordrouter.Router
	sock   *transport.RouterSocket
	pool   *transport.Pool
	shard  *Shard
	bits   int
}

// NewNode builds a discovery Node. The caller is responsible for
// opening sock and pre-connecting pool to every distinct finger
// successor (router.Successors()) before starting the event loop.
func NewNode(router *chordrouter.Router, sock *transport.RouterSocket, pool *transport.Pool, shard *Shard, bits int) *Node {
	return &Node{router: router, sock: sock, pool: pool, shard: shard, bits: bits}
}

// Tick is a no-op for a discovery node: it has no periodic work of its
// own, only upcalls driven by inbound/outbound traffic.
func (n *Node) Tick(now time.Time) (time.Duration, error) {
	return 5 * time.Second, nil
}

// OnRouterMessage handles one request arriving on the inbound socket:
// REGISTER is routed through the ring; ISREADY and the two LOOKUP
// variants are always answered from this node's local shard, regardless
// of which node actually owns their routing key.
func (n *Node) OnRouterMessage(msg transport.Inbound) (time.Duration, error) {
	if len(msg.Frames) == 0 {
		return 0, fmt.Errorf("discovery: empty frame stack from %q", msg.Identity)
	}
	payload := msg.Frames[len(msg.Frames)-1]
	chain := msg.Frames[:len(msg.Frames)-1]

	req, err := wire.UnmarshalDiscoveryReq(payload)
	if err != nil {
		return 0, fmt.Errorf("discovery: malformed request from %q: %w", msg.Identity, err)
	}

	switch req.MsgType {
	case wire.MsgRegister:
		if req.Register == nil {
			return 0, fmt.Errorf("discovery: REGISTER envelope missing payload")
		}
		return n.handleRegister(msg.Identity, chain, payload, *req.Register)

	case wire.MsgIsReady:
		resp := wire.DiscoveryResp{
			MsgType:     wire.MsgIsReady,
			IsReadyResp: &wire.IsReadyResp{Status: n.shard.IsReady()},
		}
		return 0, n.replyLocal(msg.Identity, chain, resp)

	case wire.MsgLookupPubByTopic:
		var topics []string
		if req.Lookup != nil {
			topics = req.Lookup.TopicList
		}
		resp := wire.DiscoveryResp{
			MsgType:    wire.MsgLookupPubByTopic,
			LookupResp: &wire.LookupPubByTopicResp{Pubs: n.shard.LookupPubsByTopic(topics)},
		}
		return 0, n.replyLocal(msg.Identity, chain, resp)

	case wire.MsgLookupAllPubs:
		resp := wire.DiscoveryResp{
			MsgType:    wire.MsgLookupAllPubs,
			LookupResp: &wire.LookupPubByTopicResp{Pubs: n.shard.AllPublishers()},
		}
		return 0, n.replyLocal(msg.Identity, chain, resp)

	default:
		return 0, fmt.Errorf("discovery: unrecognized message type %d from %q", req.MsgType, msg.Identity)
	}
}

// handleRegister resolves the Chord owner of the REGISTER routing key
// and either applies it locally or forwards the full, re-chained frame
// stack to the owning successor.
func (n *Node) handleRegister(identity string, chain transport.Message, payload []byte, req wire.RegisterReq) (time.Duration, error) {
	key, err := chordhash.Hash(n.bits, req.Role.Label())
	if err != nil {
		return 0, fmt.Errorf("discovery: hash routing key for role %v: %w", req.Role, err)
	}
	target := n.router.FindSuccessor(key)

	if target.ID == n.router.Owner().ID {
		status := n.shard.Register(req.Role, req.Info, req.TopicList)
		resp := wire.DiscoveryResp{MsgType: wire.MsgRegister, RegisterResp: &status}
		return 0, n.replyLocal(identity, chain, resp)
	}

	forwarded := make(transport.Message, 0, len(chain)+2)
	forwarded = append(forwarded, []byte(identity))
	forwarded = append(forwarded, chain...)
	forwarded = append(forwarded, payload)
	glog.V(2).Infof("discovery: forwarding REGISTER(role=%v) to successor %s", req.Role, target.ID)
	return 0, n.forward(target.ID, forwarded)
}

// replyLocal sends a response this node produced directly back through
// the inbound socket, using identity as the immediate return hop and
// chain (the frames received minus the payload) as the remaining
// return-path frames.
func (n *Node) replyLocal(identity string, chain transport.Message, resp wire.DiscoveryResp) error {
	frames := append(transport.Message{}, chain...)
	frames = append(frames, resp.Marshal())
	return n.sock.Send(identity, frames)
}

// forward pushes a frame stack, unchanged apart from the re-prepended
// immediate-hop identity, to the named successor's outbound socket.
func (n *Node) forward(successorID string, frames transport.Message) error {
	d, ok := n.pool.Get(successorID)
	if !ok {
		return fmt.Errorf("discovery: no outbound connection to successor %s", successorID)
	}
	return d.Send(frames)
}

// OnDealerMessage handles a message arriving on one of the outbound
// successor connections. This is always a response relay: pop the
// leading identity frame and route the remainder back through the
// inbound socket toward whichever peer it names.
func (n *Node) OnDealerMessage(msg transport.Message) (time.Duration, error) {
	if len(msg) == 0 {
		return 0, fmt.Errorf("discovery: empty frame stack from outbound connection")
	}
	identity := string(msg[0])
	rest := msg[1:]
	if err := n.sock.Send(identity, rest); err != nil {
		return 0, fmt.Errorf("discovery: relay response to %q: %w", identity, err)
	}
	return 0, nil
}
