// Package discovery implements the per-node discovery state machine:
// local registrant bookkeeping plus the forwarding decision that routes
// a request to whichever node in the ring owns it.
package discovery

import (
	"github.com/vandy-dsys/chordcast/internal/config"
	"github.com/vandy-dsys/chordcast/wire"
)

// Record is one registrant as held by a shard: its wire endpoint plus
// the topics it declared at REGISTER time.
type Record struct {
	Info      wire.RegistrantInfo
	TopicList []string
}

// Shard holds the registrant state owned by one discovery node. It is
// mutated only from that node's event loop between polls, so it carries
// no locking.
type Shard struct {
	Publishers  map[string]Record
	Subscribers map[string]Record
	Broker      *Record

	Dissemination config.DisseminationStrategy
	ExpectedPubs  int
	ExpectedSubs  int
}

// NewShard creates an empty shard for the given dissemination mode and
// the expected registrant counts this node's launch configuration
// supplies to its own ISREADY check.
func NewShard(dissemination config.DisseminationStrategy, expectedPubs, expectedSubs int) *Shard {
	return &Shard{
		Publishers:    make(map[string]Record),
		Subscribers:   make(map[string]Record),
		Dissemination: dissemination,
		ExpectedPubs:  expectedPubs,
		ExpectedSubs:  expectedSubs,
	}
}

// Register inserts or overwrites a registrant by id. Duplicate ids are
// accepted and overwritten rather than rejected (see DESIGN.md).
func (s *Shard) Register(role wire.Role, info wire.RegistrantInfo, topicList []string) wire.RegisterResp {
	rec := Record{Info: info, TopicList: topicList}
	switch role {
	case wire.RolePublisher:
		s.Publishers[info.ID] = rec
	case wire.RoleSubscriber:
		s.Subscribers[info.ID] = rec
	case wire.RoleBoth:
		s.Broker = &rec
	default:
		return wire.RegisterResp{Status: wire.StatusFailure, Reason: "unrecognized role"}
	}
	return wire.RegisterResp{Status: wire.StatusSuccess}
}

// IsReady reports whether this shard's local view satisfies the
// configured expected counts.
func (s *Shard) IsReady() bool {
	ready := len(s.Publishers) >= s.ExpectedPubs && len(s.Subscribers) >= s.ExpectedSubs
	if s.Dissemination == config.DisseminationBroker {
		ready = ready && s.Broker != nil
	}
	return ready
}

// LookupPubsByTopic returns the broker's info alone under Broker
// dissemination, or every locally-registered publisher whose topic list
// intersects topicList under Direct dissemination.
func (s *Shard) LookupPubsByTopic(topicList []string) []wire.RegistrantInfo {
	if s.Dissemination == config.DisseminationBroker {
		if s.Broker == nil {
			return nil
		}
		return []wire.RegistrantInfo{s.Broker.Info}
	}
	var out []wire.RegistrantInfo
	for _, p := range s.Publishers {
		if intersects(p.TopicList, topicList) {
			out = append(out, p.Info)
		}
	}
	return out
}

// AllPublishers returns every locally-registered publisher's info,
// regardless of topic.
func (s *Shard) AllPublishers() []wire.RegistrantInfo {
	out := make([]wire.RegistrantInfo, 0, len(s.Publishers))
	for _, p := range s.Publishers {
		out = append(out, p.Info)
	}
	return out
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
