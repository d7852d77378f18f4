package model

import (
	"strings"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test timestamp %s: %v", s, err)
	}
	return ts
}

func TestKeyLayout(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"tenant pk", TenantPK("t1"), "TENANT#t1"},
		{"user sk", UserSK("u1"), "USER#u1"},
		{"client sk", ClientSK("c1"), "CLIENT#c1"},
		{"project sk", ProjectSK("p1"), "PROJECT#p1"},
		{"document sk", ProjectDocSK("p1", "d1"), "PROJECT#p1#DOC#d1"},
		{"document prefix", ProjectDocPrefix("p1"), "PROJECT#p1#DOC#"},
		{"visit sk", VisitSK("v1"), "VISIT#v1"},
		{"interaction sk", InteractionSK("i1"), "INTERACTION#i1"},
		{"quadro sk", QuadroSK("q1"), "QUADRO#q1"},
		{"lista sk", ListaSK("q1", "l1"), "QUADRO#q1#LISTA#l1"},
		{"tarefa sk", TarefaSK("q1", "l1", "t1"), "QUADRO#q1#LISTA#l1#TAREFA#t1"},
		{"by client", ByClientPK("t1", "c1"), "TENANT#t1#CLIENT#c1"},
		{"by credit line", ByCreditLinePK("t1", "pronaf"), "TENANT#t1#LINHA#pronaf"},
		{"by category", ByCategoryPK("t1", "contratos"), "TENANT#t1#CATEGORIA#contratos"},
		{"by gateway subscription", ByGatewaySubscriptionPK("sub_1"), "ASSINATURA#sub_1"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

// Two tenants never share a partition key, whatever the entity id is.
func TestTenantPartitionIsolation(t *testing.T) {
	if TenantPK("a") == TenantPK("b") {
		t.Fatal("distinct tenants produced the same partition key")
	}
	if !strings.HasPrefix(ByClientPK("a", "c1"), TenantPK("a")) {
		t.Error("by-client key does not embed the tenant partition")
	}
	if ByClientPK("a", "c1") == ByClientPK("b", "c1") {
		t.Error("by-client key collides across tenants for the same client id")
	}
	if ByCreditLinePK("a", "pronaf") == ByCreditLinePK("b", "pronaf") {
		t.Error("credit line key collides across tenants")
	}
}

func TestVisitStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to VisitStatus
		allowed  bool
	}{
		{VisitAgendada, VisitRealizada, true},
		{VisitAgendada, VisitCancelada, true},
		{VisitRealizada, VisitAgendada, false},
		{VisitRealizada, VisitCancelada, false},
		{VisitCancelada, VisitRealizada, false},
		{VisitCancelada, VisitAgendada, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestSubscriptionExpiresAt(t *testing.T) {
	trial := mustTime(t, "2026-03-01T00:00:00Z")
	ends := mustTime(t, "2026-04-01T00:00:00Z")
	sub := Subscription{Status: SubscriptionTrial, TrialEndsAt: &trial, SubscriptionEndsAt: &ends}

	if got := sub.ExpiresAt(); got == nil || !got.Equal(trial) {
		t.Errorf("TRIAL expiry: got %v, want %v", got, trial)
	}
	sub.Status = SubscriptionActive
	if got := sub.ExpiresAt(); got == nil || !got.Equal(ends) {
		t.Errorf("ACTIVE expiry: got %v, want %v", got, ends)
	}
	sub.Status = SubscriptionInactive
	if got := sub.ExpiresAt(); got != nil {
		t.Errorf("INACTIVE expiry: got %v, want nil", got)
	}
}
