package catalog

import (
	"context"
	_ "embed"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

//go:embed seed.json
var seedJSON []byte

type seedFile struct {
	Venues  []Venue `json:"venues"`
	Stories []Story `json:"stories"`
}

// Seed loads the embedded dataset into the store unless venues are already
// present; counters in the dataset stay in their authored compact form.
func Seed(ctx context.Context, store Store, log zerolog.Logger) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug().Int("venues", n).Msg("catalog already seeded")
		return nil
	}
	return Reseed(ctx, store, log)
}

// Reseed writes the embedded dataset unconditionally.
func Reseed(ctx context.Context, store Store, log zerolog.Logger) error {
	var data seedFile
	if err := json.Unmarshal(seedJSON, &data); err != nil {
		return err
	}
	for _, v := range data.Venues {
		if err := store.SaveVenue(ctx, v); err != nil {
			return err
		}
	}
	for _, st := range data.Stories {
		if err := store.SaveStory(ctx, st); err != nil {
			return err
		}
	}
	log.Info().
		Int("venues", len(data.Venues)).
		Int("stories", len(data.Stories)).
		Msg("catalog seeded")
	return nil
}
