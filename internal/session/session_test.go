package session

import (
	"context"
	"errors"
	"testing"

	"placefeed/pkg/kv"
)

func TestStartAndCurrent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemory())

	token, err := m.Start(ctx, Session{UserID: "7", Email: "a@b.ru", Name: "Anna", Role: RoleUser, Handle: "a"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	s, err := m.Current(ctx, token)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if s == nil || s.UserID != "7" || s.Handle != "a" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestCurrentAbsentAndEmptyToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemory())

	if s, err := m.Current(ctx, ""); err != nil || s != nil {
		t.Fatalf("empty token: s=%v err=%v", s, err)
	}
	if s, err := m.Current(ctx, "no-such-token"); err != nil || s != nil {
		t.Fatalf("unknown token: s=%v err=%v", s, err)
	}
}

func TestCurrentMalformedRecord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	m := NewManager(store)

	// Tampered or partially written records read as "not logged in".
	if err := store.Set(ctx, "user-session:t1", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s, err := m.Current(ctx, "t1"); err != nil || s != nil {
		t.Fatalf("malformed record: s=%v err=%v", s, err)
	}

	// A record without a user id is equally useless.
	if err := store.Set(ctx, "user-session:t2", `{"email":"x@y.ru"}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s, err := m.Current(ctx, "t2"); err != nil || s != nil {
		t.Fatalf("empty user id: s=%v err=%v", s, err)
	}
}

func TestCurrentStoreError(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	boom := errors.New("io")
	store.FailGet = func(string) error { return boom }
	m := NewManager(store)

	if _, err := m.Current(ctx, "t"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestClearIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemory())

	token, err := m.Start(ctx, Session{UserID: "1", Role: RoleUser})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Clear(ctx, token); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := m.Clear(ctx, token); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if s, _ := m.Current(ctx, token); s != nil {
		t.Fatalf("session survived clear: %+v", s)
	}
	if err := m.Clear(ctx, ""); err != nil {
		t.Fatalf("clear empty token: %v", err)
	}
}

func TestForBindsToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemory())

	token, err := m.Start(ctx, Session{UserID: "9", Role: RoleCompany})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s, err := m.For(token).Current(ctx)
	if err != nil || s == nil || s.UserID != "9" {
		t.Fatalf("bound provider: s=%v err=%v", s, err)
	}
	if s, _ := m.For("other").Current(ctx); s != nil {
		t.Fatalf("unbound token resolved: %+v", s)
	}
}
