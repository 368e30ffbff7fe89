package interactions

import (
	"context"
	"sync"
)

// View is the one reusable optimistic-update primitive screens render from,
// replacing the per-screen copies of the flip/rollback dance. Booleans flip
// before the store call and roll back if it fails; on success the local state
// stays authoritative and is not re-read from the store.
//
// The per-post likes counter is decorative: it moves ±1 in lockstep with the
// liked flag, clamps at zero, is never persisted by this subsystem and may
// drift from any server-side total. That drift is accepted, not a bug.
type View struct {
	store *Store

	mu       sync.Mutex
	member   map[Kind]map[string]bool
	likes    map[string]int
	hasLikes map[string]bool
}

func NewView(store *Store) *View {
	return &View{
		store: store,
		member: map[Kind]map[string]bool{
			KindLiked:    {},
			KindFavorite: {},
		},
		likes:    make(map[string]int),
		hasLikes: make(map[string]bool),
	}
}

// Refresh replaces the local booleans with the durable sets. Used on screen
// load; after that, Toggle keeps the local copy authoritative.
func (v *View) Refresh(ctx context.Context) error {
	liked, err := v.store.Set(ctx, KindLiked)
	if err != nil {
		return err
	}
	favorite, err := v.store.Set(ctx, KindFavorite)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.member[KindLiked] = toMembership(liked)
	v.member[KindFavorite] = toMembership(favorite)
	return nil
}

func (v *View) IsLiked(postID string) bool    { return v.isMember(KindLiked, postID) }
func (v *View) IsFavorite(postID string) bool { return v.isMember(KindFavorite, postID) }

func (v *View) isMember(kind Kind, postID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.member[kind][postID]
}

// SeedLikes primes the decorative counter for a post, usually from the
// catalog's normalized likes value.
func (v *View) SeedLikes(postID string, n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.likes[postID] = n
	v.hasLikes[postID] = true
}

// Likes returns the decorative counter for a post.
func (v *View) Likes(postID string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.likes[postID]
}

// ToggleLike flips the liked flag optimistically, adjusts the counter, calls
// the store, and rolls both back if the call fails.
func (v *View) ToggleLike(ctx context.Context, postID string) ToggleResult {
	return v.toggle(ctx, KindLiked, postID)
}

// ToggleFavorite is ToggleLike for the favorite set; the counter is not
// involved.
func (v *View) ToggleFavorite(ctx context.Context, postID string) ToggleResult {
	return v.toggle(ctx, KindFavorite, postID)
}

func (v *View) toggle(ctx context.Context, kind Kind, postID string) ToggleResult {
	v.mu.Lock()
	wasMember := v.member[kind][postID]
	wasLikes := v.likes[postID]
	v.member[kind][postID] = !wasMember
	if kind == KindLiked {
		if wasMember {
			if v.likes[postID] > 0 {
				v.likes[postID]--
			}
		} else {
			v.likes[postID]++
		}
	}
	v.mu.Unlock()

	res := v.store.Toggle(ctx, kind, postID)
	if !res.Success {
		v.mu.Lock()
		v.member[kind][postID] = wasMember
		v.likes[postID] = wasLikes
		v.mu.Unlock()
	}
	return res
}

func toMembership(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
