package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a venue id has no record.
var ErrNotFound = errors.New("venue not found")

// Store is the persistence interface for venues and stories.
type Store interface {
	Venues(ctx context.Context) ([]Venue, error)
	// Venue returns one record or ErrNotFound.
	Venue(ctx context.Context, id string) (Venue, error)
	Stories(ctx context.Context) ([]Story, error)
	SaveVenue(ctx context.Context, v Venue) error
	SaveStory(ctx context.Context, s Story) error
	// Count reports how many venues are stored; used to decide whether the
	// seed dataset needs loading.
	Count(ctx context.Context) (int, error)
}
