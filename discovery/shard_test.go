package discovery

import (
	"testing"

	"github.com/vandy-dsys/chordcast/internal/config"
	"github.com/vandy-dsys/chordcast/wire"
)

func TestRegisterAndLookupDirect(t *testing.T) {
	s := NewShard(config.DisseminationDirect, 1, 0)
	resp := s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1", Addr: "10.0.0.1", Port: 6000}, []string{"T1"})
	if resp.Status != wire.StatusSuccess {
		t.Fatalf("Register status = %v, want Success", resp.Status)
	}
	got := s.LookupPubsByTopic([]string{"T1"})
	if len(got) != 1 || got[0].ID != "P1" {
		t.Fatalf("LookupPubsByTopic = %+v, want [P1]", got)
	}
	if got := s.LookupPubsByTopic([]string{"T2"}); len(got) != 0 {
		t.Fatalf("LookupPubsByTopic for unmatched topic = %+v, want empty", got)
	}
}

func TestRegisterOverwritesByID(t *testing.T) {
	s := NewShard(config.DisseminationDirect, 0, 0)
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1", Addr: "10.0.0.1", Port: 6000}, []string{"T1"})
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1", Addr: "10.0.0.2", Port: 6001}, []string{"T1"})
	if len(s.Publishers) != 1 {
		t.Fatalf("len(Publishers) = %d, want 1", len(s.Publishers))
	}
	if s.Publishers["P1"].Info.Addr != "10.0.0.2" {
		t.Fatalf("Publishers[P1].Addr = %s, want later-arriving value", s.Publishers["P1"].Info.Addr)
	}
}

func TestLookupBrokerModeReturnsOnlyBroker(t *testing.T) {
	s := NewShard(config.DisseminationBroker, 1, 1)
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1"}, []string{"T1"})
	s.Register(wire.RoleBoth, wire.RegistrantInfo{ID: "B"}, nil)
	got := s.LookupPubsByTopic([]string{"T1"})
	if len(got) != 1 || got[0].ID != "B" {
		t.Fatalf("LookupPubsByTopic under Broker mode = %+v, want [B]", got)
	}
}

func TestIsReadyCountsAndBroker(t *testing.T) {
	s := NewShard(config.DisseminationBroker, 2, 1)
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1"}, nil)
	s.Register(wire.RoleSubscriber, wire.RegistrantInfo{ID: "S1"}, nil)
	if s.IsReady() {
		t.Fatal("IsReady true before second publisher and broker register")
	}
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P2"}, nil)
	if s.IsReady() {
		t.Fatal("IsReady true before broker registers")
	}
	s.Register(wire.RoleBoth, wire.RegistrantInfo{ID: "B"}, nil)
	if !s.IsReady() {
		t.Fatal("IsReady false after counts and broker satisfied")
	}
}

func TestAllPublishersIgnoresTopics(t *testing.T) {
	s := NewShard(config.DisseminationDirect, 0, 0)
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P1"}, []string{"T1"})
	s.Register(wire.RolePublisher, wire.RegistrantInfo{ID: "P2"}, []string{"T9"})
	got := s.AllPublishers()
	if len(got) != 2 {
		t.Fatalf("AllPublishers = %+v, want 2 entries", got)
	}
}
