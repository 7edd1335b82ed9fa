package wire

import "testing"

func TestRegisterReqRoundTrip(t *testing.T) {
	in := RegisterReq{
		Role: RolePublisher,
		Info: RegistrantInfo{ID: "pub-1", Addr: "10.0.0.5", Port: 5555},
		TopicList: []string{"weather", "traffic"},
	}
	out, err := UnmarshalRegisterReq(in.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Role != in.Role || out.Info != in.Info {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if len(out.TopicList) != 2 || out.TopicList[0] != "weather" || out.TopicList[1] != "traffic" {
		t.Fatalf("topic list mismatch: %v", out.TopicList)
	}
}

func TestRegisterRespRoundTripWithReason(t *testing.T) {
	in := RegisterResp{Status: StatusCheckAgain, Reason: "shard not yet ready"}
	out, err := UnmarshalRegisterResp(in.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestRegisterRespRoundTripEmptyReason(t *testing.T) {
	in := RegisterResp{Status: StatusSuccess}
	out, err := UnmarshalRegisterResp(in.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestIsReadyRespRoundTrip(t *testing.T) {
	for _, status := range []bool{true, false} {
		in := IsReadyResp{Status: status}
		out, err := UnmarshalIsReadyResp(in.Marshal())
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if out != in {
			t.Fatalf("round trip mismatch for status=%v: got %+v", status, out)
		}
	}
}

func TestLookupPubByTopicRoundTrip(t *testing.T) {
	inReq := LookupPubByTopicReq{TopicList: []string{"weather"}}
	outReq, err := UnmarshalLookupPubByTopicReq(inReq.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal req: %v", err)
	}
	if len(outReq.TopicList) != 1 || outReq.TopicList[0] != "weather" {
		t.Fatalf("req round trip mismatch: %v", outReq)
	}

	inResp := LookupPubByTopicResp{Pubs: []RegistrantInfo{
		{ID: "pub-1", Addr: "10.0.0.5", Port: 5555},
		{ID: "pub-2", Addr: "10.0.0.6", Port: 5556},
	}}
	outResp, err := UnmarshalLookupPubByTopicResp(inResp.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal resp: %v", err)
	}
	if len(outResp.Pubs) != 2 || outResp.Pubs[0] != inResp.Pubs[0] || outResp.Pubs[1] != inResp.Pubs[1] {
		t.Fatalf("resp round trip mismatch: %+v", outResp)
	}
}

func TestDiscoveryReqEnvelopeRoundTrip(t *testing.T) {
	req := DiscoveryReq{
		MsgType: MsgRegister,
		Register: &RegisterReq{
			Role: RoleSubscriber,
			Info: RegistrantInfo{ID: "sub-1", Addr: "10.0.0.7", Port: 6000},
		},
	}
	out, err := UnmarshalDiscoveryReq(req.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.MsgType != MsgRegister {
		t.Fatalf("msg_type = %v, want MsgRegister", out.MsgType)
	}
	if out.Register == nil || out.Register.Role != req.Register.Role || out.Register.Info != req.Register.Info ||
		len(out.Register.TopicList) != len(req.Register.TopicList) {
		t.Fatalf("register payload mismatch: %+v", out.Register)
	}
	if out.IsReady != nil || out.Lookup != nil || out.LookupAll != nil {
		t.Fatalf("unexpected non-nil sibling fields: %+v", out)
	}
}

func TestDiscoveryRespEnvelopeRoundTrip(t *testing.T) {
	resp := DiscoveryResp{
		MsgType:     MsgIsReady,
		IsReadyResp: &IsReadyResp{Status: true},
	}
	out, err := UnmarshalDiscoveryResp(resp.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.MsgType != MsgIsReady {
		t.Fatalf("msg_type = %v, want MsgIsReady", out.MsgType)
	}
	if out.IsReadyResp == nil || out.IsReadyResp.Status != true {
		t.Fatalf("is_ready payload mismatch: %+v", out.IsReadyResp)
	}
	if out.RegisterResp != nil || out.LookupResp != nil {
		t.Fatalf("unexpected non-nil sibling fields: %+v", out)
	}
}

func TestDiscoveryReqLookupAllPubs(t *testing.T) {
	req := DiscoveryReq{MsgType: MsgLookupAllPubs, LookupAll: &LookupAllPubsReq{}}
	out, err := UnmarshalDiscoveryReq(req.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.MsgType != MsgLookupAllPubs || out.LookupAll == nil {
		t.Fatalf("lookup_all round trip mismatch: %+v", out)
	}
}

func TestRoleLabelMatchesRoutingKeyConvention(t *testing.T) {
	cases := map[Role]string{
		RolePublisher:  "PUBLISHER",
		RoleSubscriber: "SUBSCRIBER",
		RoleBoth:       "BOTH",
	}
	for role, want := range cases {
		if got := role.Label(); got != want {
			t.Fatalf("Role(%d).Label() = %q, want %q", role, got, want)
		}
	}
}
