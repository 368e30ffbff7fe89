package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"placefeed/internal/numfmt"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v := Venue{ID: "1", Name: "Парк Щербакова", Likes: numfmt.String("505.8k")}
	if err := s.SaveVenue(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Venue(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != v.Name {
		t.Fatalf("got %+v", got)
	}
	if _, err := s.Venue(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing venue: err=%v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, id := range []string{"b", "a", "c"} {
		if err := s.SaveVenue(ctx, Venue{ID: id}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// Re-saving must not duplicate.
	if err := s.SaveVenue(ctx, Venue{ID: "a", Name: "updated"}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	list, err := s.Venues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "b" || list[1].ID != "a" || list[2].ID != "c" {
		t.Fatalf("order: %+v", list)
	}
	if list[1].Name != "updated" {
		t.Fatalf("resave lost: %+v", list[1])
	}
	if n, _ := s.Count(ctx); n != 3 {
		t.Fatalf("count = %d", n)
	}
}

func TestNormalizeResolvesCompactCounters(t *testing.T) {
	v := Venue{
		ID:         "1",
		Likes:      numfmt.String("505.8k"),
		TotalLikes: numfmt.String("4.040 млн"),
		Followers:  numfmt.Number(252),
	}
	n := Normalize(v, 2)
	if n.UID != "1-2" {
		t.Fatalf("uid = %q", n.UID)
	}
	if n.Likes != 505_800 {
		t.Fatalf("likes = %v", n.Likes)
	}
	if n.TotalLikes != 4_040_000 {
		t.Fatalf("totalLikes = %v", n.TotalLikes)
	}
	if n.Followers != 252 {
		t.Fatalf("followers = %v", n.Followers)
	}
	if n.TotalText != "4 млн" {
		t.Fatalf("totalLikes display = %q", n.TotalText)
	}
	if n.LikesText != "505,8 тыс" {
		t.Fatalf("likes display = %q", n.LikesText)
	}
}

func TestSeedLoadsEmbeddedDataOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := Seed(ctx, s, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	venues, err := s.Venues(ctx)
	if err != nil || len(venues) == 0 {
		t.Fatalf("venues after seed: n=%d err=%v", len(venues), err)
	}
	stories, err := s.Stories(ctx)
	if err != nil || len(stories) == 0 {
		t.Fatalf("stories after seed: n=%d err=%v", len(stories), err)
	}

	park, err := s.Venue(ctx, "1")
	if err != nil {
		t.Fatalf("venue 1: %v", err)
	}
	if got := park.TotalLikes.Normalize(); got != 4_040_000 {
		t.Fatalf("seeded compact counter normalized to %v", got)
	}

	// Seeding a non-empty store is a no-op.
	before := len(venues)
	if err := Seed(ctx, s, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	venues, _ = s.Venues(ctx)
	if len(venues) != before {
		t.Fatalf("second seed changed venue count: %d -> %d", before, len(venues))
	}
}
