// Package wire implements the tagged-union request/response codec for
// the discovery protocol. The layout is protobuf-compatible (same tag
// numbers, same wire types) but is hand-encoded with
// google.golang.org/protobuf's low-level protowire primitives rather
// than generated from a .proto file, since no .proto toolchain runs as
// part of building this repo.
package wire

// Role mirrors the RegisterReq.role enum.
type Role int32

const (
	RoleUnknown    Role = 0
	RolePublisher  Role = 1
	RoleSubscriber Role = 2
	RoleBoth       Role = 3 // the broker, which is simultaneously sole subscriber and sole publisher
)

// Label returns the string form of the role used as the Chord routing
// key: the routing key is K = hash(M, roleLabel) where roleLabel is the
// string form of the role enum value.
func (r Role) Label() string {
	switch r {
	case RolePublisher:
		return "PUBLISHER"
	case RoleSubscriber:
		return "SUBSCRIBER"
	case RoleBoth:
		return "BOTH"
	default:
		return "UNKNOWN"
	}
}

func (r Role) String() string { return r.Label() }

// RegisterStatus mirrors RegisterResp.status.
type RegisterStatus int32

const (
	StatusUnknown     RegisterStatus = 0
	StatusSuccess     RegisterStatus = 1
	StatusFailure     RegisterStatus = 2
	StatusCheckAgain  RegisterStatus = 3
)

// MsgType mirrors DiscoveryReq/DiscoveryResp.msg_type.
type MsgType int32

const (
	MsgUnknown MsgType = iota
	MsgRegister
	MsgIsReady
	MsgLookupPubByTopic
	MsgLookupAllPubs
)

// RegistrantInfo is the wire form of a publisher or subscriber endpoint.
type RegistrantInfo struct {
	ID   string
	Addr string
	Port uint32
}

// RegisterReq is a REGISTER request.
type RegisterReq struct {
	Role      Role
	Info      RegistrantInfo
	TopicList []string
}

// RegisterResp is the response to a REGISTER request.
type RegisterResp struct {
	Status RegisterStatus
	Reason string
}

// GetReason returns Reason, tolerating a nil receiver (mirrors the
// protobuf-generated getter idiom so callers need not nil-check).
func (r *RegisterResp) GetReason() string {
	if r == nil {
		return ""
	}
	return r.Reason
}

// IsReadyReq is an ISREADY request; it carries no fields.
type IsReadyReq struct{}

// IsReadyResp is the response to an ISREADY request.
type IsReadyResp struct {
	Status bool
}

// LookupPubByTopicReq is a LOOKUP_PUB_BY_TOPIC request.
type LookupPubByTopicReq struct {
	TopicList []string
}

// LookupPubByTopicResp is shared by LOOKUP_PUB_BY_TOPIC and
// LOOKUP_ALL_PUBS responses; both lookup kinds return the same shape.
type LookupPubByTopicResp struct {
	Pubs []RegistrantInfo
}

// LookupAllPubsReq is a LOOKUP_ALL_PUBS request; it carries no fields.
type LookupAllPubsReq struct{}

// DiscoveryReq is the outer tagged-union request envelope.
type DiscoveryReq struct {
	MsgType     MsgType
	Register    *RegisterReq
	IsReady     *IsReadyReq
	Lookup      *LookupPubByTopicReq
	LookupAll   *LookupAllPubsReq
}

// DiscoveryResp is the outer tagged-union response envelope.
type DiscoveryResp struct {
	MsgType      MsgType
	RegisterResp *RegisterResp
	IsReadyResp  *IsReadyResp
	LookupResp   *LookupPubByTopicResp
}
