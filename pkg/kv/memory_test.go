package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("get a: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "a"); v != "2" {
		t.Fatalf("after overwrite: %q", v)
	}
	if err := s.Delete(ctx, "a", "never-existed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("expected key deleted")
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
}

func TestMemoryFailureHooks(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	boom := errors.New("disk full")

	s.FailSet = func(key string) error {
		if key == "bad" {
			return boom
		}
		return nil
	}
	if err := s.Set(ctx, "good", "v"); err != nil {
		t.Fatalf("set good: %v", err)
	}
	if err := s.Set(ctx, "bad", "v"); !errors.Is(err, boom) {
		t.Fatalf("set bad: err=%v, want injected failure", err)
	}
	// Failed set must not leave a value behind.
	if _, ok, _ := s.Get(ctx, "bad"); ok {
		t.Fatal("failed set stored a value")
	}

	s.FailGet = func(string) error { return boom }
	if _, _, err := s.Get(ctx, "good"); !errors.Is(err, boom) {
		t.Fatalf("get: err=%v, want injected failure", err)
	}
}
