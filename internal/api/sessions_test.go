package api

import (
	"testing"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour)
	user := &auth.User{Login: "maria", Name: "Maria", AccessLevel: auth.LevelOperator}

	session, err := store.Create(user)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(session.Token))
	}

	if got := store.Lookup(session.Token); got == nil || got.Login != "maria" {
		t.Errorf("Lookup() = %+v, want session for maria", got)
	}

	store.Revoke(session.Token)
	if got := store.Lookup(session.Token); got != nil {
		t.Error("Lookup() after Revoke() returned session, want nil")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(time.Millisecond)
	user := &auth.User{Login: "maria", AccessLevel: auth.LevelViewer}

	session, err := store.Create(user)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if got := store.Lookup(session.Token); got != nil {
		t.Error("Lookup() on expired token returned session, want nil")
	}
	if n := store.Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestRevokeUserDropsAllSessions(t *testing.T) {
	store := NewSessionStore(time.Hour)
	user := &auth.User{Login: "maria", AccessLevel: auth.LevelViewer}

	first, _ := store.Create(user)
	second, _ := store.Create(user)

	store.RevokeUser("maria")
	if store.Lookup(first.Token) != nil || store.Lookup(second.Token) != nil {
		t.Error("RevokeUser() left a live session")
	}
}
