package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for RegistrantInfo.
const (
	fieldInfoID   = 1
	fieldInfoAddr = 2
	fieldInfoPort = 3
)

// Field numbers for RegisterReq.
const (
	fieldRegRole      = 1
	fieldRegInfo      = 2
	fieldRegTopicList = 3
)

// Field numbers for RegisterResp.
const (
	fieldRegRespStatus = 1
	fieldRegRespReason = 2
)

// Field numbers for IsReadyResp.
const fieldReadyStatus = 1

// Field numbers for LookupPubByTopicReq.
const fieldLookupTopicList = 1

// Field numbers for LookupPubByTopicResp (also used for LOOKUP_ALL_PUBS
// responses).
const fieldLookupPubs = 1

// Field numbers for DiscoveryReq.
const (
	fieldReqMsgType   = 1
	fieldReqRegister  = 2
	fieldReqIsReady   = 3
	fieldReqLookup    = 4
	fieldReqLookupAll = 5
)

// Field numbers for DiscoveryResp.
const (
	fieldRespMsgType  = 1
	fieldRespRegister = 2
	fieldRespIsReady  = 3
	fieldRespLookup   = 4
)

// Marshal encodes info using the same tag numbers a .proto definition for
// RegistrantInfo would assign, via protowire's low-level append helpers,
// so every registrant endpoint is encoded wire-compatibly with a
// protobuf message of the equivalent shape.
func (info RegistrantInfo) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldInfoID, protowire.BytesType)
	b = protowire.AppendString(b, info.ID)
	b = protowire.AppendTag(b, fieldInfoAddr, protowire.BytesType)
	b = protowire.AppendString(b, info.Addr)
	b = protowire.AppendTag(b, fieldInfoPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.Port))
	return b
}

// UnmarshalRegistrantInfo decodes bytes produced by RegistrantInfo.Marshal.
func UnmarshalRegistrantInfo(b []byte) (RegistrantInfo, error) {
	var info RegistrantInfo
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return info, fmt.Errorf("wire: RegistrantInfo: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldInfoID:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return info, fmt.Errorf("wire: RegistrantInfo.id: %w", protowire.ParseError(m))
			}
			info.ID = s
			b = b[m:]
		case fieldInfoAddr:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return info, fmt.Errorf("wire: RegistrantInfo.addr: %w", protowire.ParseError(m))
			}
			info.Addr = s
			b = b[m:]
		case fieldInfoPort:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return info, fmt.Errorf("wire: RegistrantInfo.port: %w", protowire.ParseError(m))
			}
			info.Port = uint32(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return info, fmt.Errorf("wire: RegistrantInfo: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return info, nil
}

// Marshal encodes a RegisterReq.
func (r RegisterReq) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldRegRole, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Role))
	b = protowire.AppendTag(b, fieldRegInfo, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Info.Marshal())
	for _, t := range r.TopicList {
		b = protowire.AppendTag(b, fieldRegTopicList, protowire.BytesType)
		b = protowire.AppendString(b, t)
	}
	return b
}

// UnmarshalRegisterReq decodes bytes produced by RegisterReq.Marshal.
func UnmarshalRegisterReq(b []byte) (RegisterReq, error) {
	var r RegisterReq
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("wire: RegisterReq: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldRegRole:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterReq.role: %w", protowire.ParseError(m))
			}
			r.Role = Role(v)
			b = b[m:]
		case fieldRegInfo:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterReq.info: %w", protowire.ParseError(m))
			}
			info, err := UnmarshalRegistrantInfo(raw)
			if err != nil {
				return r, err
			}
			r.Info = info
			b = b[m:]
		case fieldRegTopicList:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterReq.topic_list: %w", protowire.ParseError(m))
			}
			r.TopicList = append(r.TopicList, s)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterReq: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

// Marshal encodes a RegisterResp.
func (r RegisterResp) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldRegRespStatus, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Status))
	if r.Reason != "" {
		b = protowire.AppendTag(b, fieldRegRespReason, protowire.BytesType)
		b = protowire.AppendString(b, r.Reason)
	}
	return b
}

// UnmarshalRegisterResp decodes bytes produced by RegisterResp.Marshal.
func UnmarshalRegisterResp(b []byte) (RegisterResp, error) {
	var r RegisterResp
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("wire: RegisterResp: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldRegRespStatus:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterResp.status: %w", protowire.ParseError(m))
			}
			r.Status = RegisterStatus(v)
			b = b[m:]
		case fieldRegRespReason:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterResp.reason: %w", protowire.ParseError(m))
			}
			r.Reason = s
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return r, fmt.Errorf("wire: RegisterResp: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

// Marshal encodes an IsReadyReq. It carries no fields.
func (IsReadyReq) Marshal() []byte { return nil }

// UnmarshalIsReadyReq decodes bytes produced by IsReadyReq.Marshal.
func UnmarshalIsReadyReq(b []byte) (IsReadyReq, error) {
	return IsReadyReq{}, nil
}

// Marshal encodes an IsReadyResp.
func (r IsReadyResp) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldReadyStatus, protowire.VarintType)
	v := uint64(0)
	if r.Status {
		v = 1
	}
	b = protowire.AppendVarint(b, v)
	return b
}

// UnmarshalIsReadyResp decodes bytes produced by IsReadyResp.Marshal.
func UnmarshalIsReadyResp(b []byte) (IsReadyResp, error) {
	var r IsReadyResp
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("wire: IsReadyResp: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldReadyStatus:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return r, fmt.Errorf("wire: IsReadyResp.status: %w", protowire.ParseError(m))
			}
			r.Status = v != 0
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return r, fmt.Errorf("wire: IsReadyResp: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

// Marshal encodes a LookupPubByTopicReq.
func (r LookupPubByTopicReq) Marshal() []byte {
	var b []byte
	for _, t := range r.TopicList {
		b = protowire.AppendTag(b, fieldLookupTopicList, protowire.BytesType)
		b = protowire.AppendString(b, t)
	}
	return b
}

// UnmarshalLookupPubByTopicReq decodes bytes produced by
// LookupPubByTopicReq.Marshal.
func UnmarshalLookupPubByTopicReq(b []byte) (LookupPubByTopicReq, error) {
	var r LookupPubByTopicReq
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("wire: LookupPubByTopicReq: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldLookupTopicList:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return r, fmt.Errorf("wire: LookupPubByTopicReq.topic_list: %w", protowire.ParseError(m))
			}
			r.TopicList = append(r.TopicList, s)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return r, fmt.Errorf("wire: LookupPubByTopicReq: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

// Marshal encodes a LookupAllPubsReq. It carries no fields.
func (LookupAllPubsReq) Marshal() []byte { return nil }

// UnmarshalLookupAllPubsReq decodes bytes produced by
// LookupAllPubsReq.Marshal.
func UnmarshalLookupAllPubsReq(b []byte) (LookupAllPubsReq, error) {
	return LookupAllPubsReq{}, nil
}

// Marshal encodes a LookupPubByTopicResp (also used for LOOKUP_ALL_PUBS
// responses).
func (r LookupPubByTopicResp) Marshal() []byte {
	var b []byte
	for _, p := range r.Pubs {
		b = protowire.AppendTag(b, fieldLookupPubs, protowire.BytesType)
		b = protowire.AppendBytes(b, p.Marshal())
	}
	return b
}

// UnmarshalLookupPubByTopicResp decodes bytes produced by
// LookupPubByTopicResp.Marshal.
func UnmarshalLookupPubByTopicResp(b []byte) (LookupPubByTopicResp, error) {
	var r LookupPubByTopicResp
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("wire: LookupPubByTopicResp: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldLookupPubs:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return r, fmt.Errorf("wire: LookupPubByTopicResp.pubs: %w", protowire.ParseError(m))
			}
			info, err := UnmarshalRegistrantInfo(raw)
			if err != nil {
				return r, err
			}
			r.Pubs = append(r.Pubs, info)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return r, fmt.Errorf("wire: LookupPubByTopicResp: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

// Marshal encodes the outer DiscoveryReq envelope.
func (req DiscoveryReq) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldReqMsgType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(req.MsgType))
	if req.Register != nil {
		b = protowire.AppendTag(b, fieldReqRegister, protowire.BytesType)
		b = protowire.AppendBytes(b, req.Register.Marshal())
	}
	if req.IsReady != nil {
		b = protowire.AppendTag(b, fieldReqIsReady, protowire.BytesType)
		b = protowire.AppendBytes(b, req.IsReady.Marshal())
	}
	if req.Lookup != nil {
		b = protowire.AppendTag(b, fieldReqLookup, protowire.BytesType)
		b = protowire.AppendBytes(b, req.Lookup.Marshal())
	}
	if req.LookupAll != nil {
		b = protowire.AppendTag(b, fieldReqLookupAll, protowire.BytesType)
		b = protowire.AppendBytes(b, req.LookupAll.Marshal())
	}
	return b
}

// UnmarshalDiscoveryReq decodes bytes produced by DiscoveryReq.Marshal.
func UnmarshalDiscoveryReq(b []byte) (DiscoveryReq, error) {
	var req DiscoveryReq
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return req, fmt.Errorf("wire: DiscoveryReq: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldReqMsgType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq.msg_type: %w", protowire.ParseError(m))
			}
			req.MsgType = MsgType(v)
			b = b[m:]
		case fieldReqRegister:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq.register: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalRegisterReq(raw)
			if err != nil {
				return req, err
			}
			req.Register = &sub
			b = b[m:]
		case fieldReqIsReady:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq.is_ready: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalIsReadyReq(raw)
			if err != nil {
				return req, err
			}
			req.IsReady = &sub
			b = b[m:]
		case fieldReqLookup:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq.lookup: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalLookupPubByTopicReq(raw)
			if err != nil {
				return req, err
			}
			req.Lookup = &sub
			b = b[m:]
		case fieldReqLookupAll:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq.lookup_all: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalLookupAllPubsReq(raw)
			if err != nil {
				return req, err
			}
			req.LookupAll = &sub
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return req, fmt.Errorf("wire: DiscoveryReq: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return req, nil
}

// Marshal encodes the outer DiscoveryResp envelope.
func (resp DiscoveryResp) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldRespMsgType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.MsgType))
	if resp.RegisterResp != nil {
		b = protowire.AppendTag(b, fieldRespRegister, protowire.BytesType)
		b = protowire.AppendBytes(b, resp.RegisterResp.Marshal())
	}
	if resp.IsReadyResp != nil {
		b = protowire.AppendTag(b, fieldRespIsReady, protowire.BytesType)
		b = protowire.AppendBytes(b, resp.IsReadyResp.Marshal())
	}
	if resp.LookupResp != nil {
		b = protowire.AppendTag(b, fieldRespLookup, protowire.BytesType)
		b = protowire.AppendBytes(b, resp.LookupResp.Marshal())
	}
	return b
}

// UnmarshalDiscoveryResp decodes bytes produced by DiscoveryResp.Marshal.
func UnmarshalDiscoveryResp(b []byte) (DiscoveryResp, error) {
	var resp DiscoveryResp
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return resp, fmt.Errorf("wire: DiscoveryResp: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldRespMsgType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return resp, fmt.Errorf("wire: DiscoveryResp.msg_type: %w", protowire.ParseError(m))
			}
			resp.MsgType = MsgType(v)
			b = b[m:]
		case fieldRespRegister:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return resp, fmt.Errorf("wire: DiscoveryResp.register_resp: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalRegisterResp(raw)
			if err != nil {
				return resp, err
			}
			resp.RegisterResp = &sub
			b = b[m:]
		case fieldRespIsReady:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return resp, fmt.Errorf("wire: DiscoveryResp.is_ready_resp: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalIsReadyResp(raw)
			if err != nil {
				return resp, err
			}
			resp.IsReadyResp = &sub
			b = b[m:]
		case fieldRespLookup:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return resp, fmt.Errorf("wire: DiscoveryResp.lookup_resp: %w", protowire.ParseError(m))
			}
			sub, err := UnmarshalLookupPubByTopicResp(raw)
			if err != nil {
				return resp, err
			}
			resp.LookupResp = &sub
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return resp, fmt.Errorf("wire: DiscoveryResp: skip field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return resp, nil
}
