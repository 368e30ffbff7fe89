// Package interactions keeps per-user liked and favorited post sets in the
// key-value store and exposes the toggle contract used by every screen.
package interactions

import (
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"placefeed/internal/session"
	"placefeed/pkg/kv"
)

// Kind selects which interaction set an operation works on.
type Kind string

const (
	KindLiked    Kind = "liked"
	KindFavorite Kind = "favorite"
)

func (k Kind) Valid() bool {
	return k == KindLiked || k == KindFavorite
}

// StorageKey is the durable key layout for a (kind, user) set. Existing
// installs already hold data under these keys, so the layout is fixed:
// "liked-posts-{userId}" and "favorite-posts-{userId}", JSON arrays of
// post-ID strings.
func StorageKey(kind Kind, userID string) string {
	return string(kind) + "-posts-" + userID
}

// ToggleResult reports the outcome of a toggle. RequiresAuth distinguishes
// "log in first" from a persistence failure; neither is an error value,
// callers branch on the flags.
type ToggleResult struct {
	Success      bool `json:"success"`
	RequiresAuth bool `json:"requiresAuth"`
}

// Store owns the durable interaction state. Reads are lenient: an absent or
// malformed stored value is an empty set. Toggles for the same (kind, user)
// are serialized in-process so two overlapping taps cannot lose an update;
// distinct users never contend.
type Store struct {
	store    kv.Store
	sessions session.Provider
	log      zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store kv.Store, sessions session.Provider, log zerolog.Logger) *Store {
	return &Store{
		store:    store,
		sessions: sessions,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Authenticated reports whether a session with a user id is present. Session
// lookup failures read as "not logged in"; the caller's remedy is the same.
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.currentUserID(ctx) != ""
}

func (s *Store) currentUserID(ctx context.Context) string {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("session lookup failed")
		return ""
	}
	if sess == nil {
		return ""
	}
	return sess.UserID
}

// Set returns the current user's set for a kind. With no session it is empty.
func (s *Store) Set(ctx context.Context, kind Kind) ([]string, error) {
	userID := s.currentUserID(ctx)
	if userID == "" {
		return nil, nil
	}
	return s.SetFor(ctx, kind, userID)
}

// SetFor reads the stored set for an explicit user. Absent keys and values
// that fail to decode as a string array both yield the empty set; local
// storage may be tampered with or partially written, and recovering to empty
// beats crashing the caller.
func (s *Store) SetFor(ctx context.Context, kind Kind, userID string) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, StorageKey(kind, userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Debug().Str("kind", string(kind)).Msg("stored set malformed, treating as empty")
		return nil, nil
	}
	return ids, nil
}

// IsMember reports whether the current user's set contains postID.
func (s *Store) IsMember(ctx context.Context, kind Kind, postID string) bool {
	ids, err := s.Set(ctx, kind)
	if err != nil {
		return false
	}
	return contains(ids, postID)
}

// Toggle flips postID's membership in the current user's set. It is the
// single authorization gate for mutations: no session means no state change
// and RequiresAuth set. Exactly one durable write happens on success, none on
// any failure; a failed write leaves the stored set at its pre-toggle value.
func (s *Store) Toggle(ctx context.Context, kind Kind, postID string) ToggleResult {
	if strings.TrimSpace(postID) == "" || !kind.Valid() {
		return ToggleResult{}
	}
	userID := s.currentUserID(ctx)
	if userID == "" {
		return ToggleResult{RequiresAuth: true}
	}

	key := StorageKey(kind, userID)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.SetFor(ctx, kind, userID)
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("toggle read failed")
		return ToggleResult{}
	}

	var next []string
	if contains(current, postID) {
		next = make([]string, 0, len(current))
		for _, id := range current {
			if id != postID {
				next = append(next, id)
			}
		}
	} else {
		next = append(append([]string(nil), current...), postID)
	}

	payload, err := json.Marshal(next)
	if err != nil {
		return ToggleResult{}
	}
	if err := s.store.Set(ctx, key, string(payload)); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("toggle write failed")
		return ToggleResult{}
	}
	s.log.Debug().
		Str("kind", string(kind)).
		Str("user", userID).
		Str("post", postID).
		Int("size", len(next)).
		Msg("toggled")
	return ToggleResult{Success: true}
}

// ClearAll removes both stored sets for a user, typically on account
// teardown. Clearing a user with no stored sets is a no-op.
func (s *Store) ClearAll(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.store.Delete(ctx,
		StorageKey(KindLiked, userID),
		StorageKey(KindFavorite, userID),
	)
}

// Convenience wrappers mirroring the per-kind call sites.

func (s *Store) ToggleLike(ctx context.Context, postID string) ToggleResult {
	return s.Toggle(ctx, KindLiked, postID)
}

func (s *Store) ToggleFavorite(ctx context.Context, postID string) ToggleResult {
	return s.Toggle(ctx, KindFavorite, postID)
}

func (s *Store) IsLiked(ctx context.Context, postID string) bool {
	return s.IsMember(ctx, KindLiked, postID)
}

func (s *Store) IsFavorite(ctx context.Context, postID string) bool {
	return s.IsMember(ctx, KindFavorite, postID)
}

func (s *Store) LikedPosts(ctx context.Context) ([]string, error) {
	return s.Set(ctx, KindLiked)
}

func (s *Store) FavoritePosts(ctx context.Context) ([]string, error) {
	return s.Set(ctx, KindFavorite)
}

func (s *Store) LikedCount(ctx context.Context) int {
	ids, _ := s.Set(ctx, KindLiked)
	return len(ids)
}

func (s *Store) FavoriteCount(ctx context.Context) int {
	ids, _ := s.Set(ctx, KindFavorite)
	return len(ids)
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
