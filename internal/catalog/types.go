// Package catalog stores and serves the denormalized venue records backing
// the feed, search, and profile screens.
package catalog

import (
	"fmt"

	"placefeed/internal/numfmt"
)

type WorkingHours struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Review struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
}

// ContactRef is one contact line on a venue profile; Icon names the glyph the
// client renders next to it.
type ContactRef struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// Venue is a record as authored: the numeric counters may be plain numbers or
// compact strings ("505.8k", "4.040 млн"). JSON field names match the wire
// format the mobile client already consumes.
type Venue struct {
	ID           string         `json:"id"`
	Name         string         `json:"user"`
	Avatar       string         `json:"userAvatar"`
	Handle       string         `json:"userHandle"`
	Place        string         `json:"place"`
	Address      string         `json:"address"`
	Category     string         `json:"category"`
	Image        string         `json:"image"`
	Gallery      []string       `json:"gallery"`
	Likes        numfmt.Value   `json:"likes"`
	TotalLikes   numfmt.Value   `json:"totalLikes"`
	Followers    numfmt.Value   `json:"followers"`
	Rating       float64        `json:"rating"`
	Tags         []string       `json:"tags"`
	Bio          string         `json:"bio"`
	WorkingHours []WorkingHours `json:"workingHours"`
	Reviews      []Review       `json:"reviews"`
	Contacts     []ContactRef   `json:"contact"`
}

type Story struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
	Image    string `json:"image"`
	Text     string `json:"text"`
	VenueID  string `json:"postId"`
}

// NormalizedVenue is a Venue with the compact counters resolved to plain
// numbers at read time, plus their compact display forms and a uid unique per
// response position.
type NormalizedVenue struct {
	UID          string         `json:"uid"`
	ID           string         `json:"id"`
	Name         string         `json:"user"`
	Avatar       string         `json:"userAvatar"`
	Handle       string         `json:"userHandle"`
	Place        string         `json:"place"`
	Address      string         `json:"address"`
	Category     string         `json:"category"`
	Image        string         `json:"image"`
	Gallery      []string       `json:"gallery"`
	Likes        float64        `json:"likes"`
	TotalLikes   float64        `json:"totalLikes"`
	Followers    float64        `json:"followers"`
	LikesText    string         `json:"likesText"`
	TotalText    string         `json:"totalLikesText"`
	FollowerText string         `json:"followersText"`
	Rating       float64        `json:"rating"`
	Tags         []string       `json:"tags"`
	Bio          string         `json:"bio"`
	WorkingHours []WorkingHours `json:"workingHours"`
	Reviews      []Review       `json:"reviews"`
	Contacts     []ContactRef   `json:"contact"`
}

// Normalize resolves a venue's counters for the response at the given list
// position.
func Normalize(v Venue, index int) NormalizedVenue {
	likes := v.Likes.Normalize()
	total := v.TotalLikes.Normalize()
	followers := v.Followers.Normalize()
	return NormalizedVenue{
		UID:          fmt.Sprintf("%s-%d", v.ID, index),
		ID:           v.ID,
		Name:         v.Name,
		Avatar:       v.Avatar,
		Handle:       v.Handle,
		Place:        v.Place,
		Address:      v.Address,
		Category:     v.Category,
		Image:        v.Image,
		Gallery:      v.Gallery,
		Likes:        likes,
		TotalLikes:   total,
		Followers:    followers,
		LikesText:    numfmt.FormatCompact(likes),
		TotalText:    numfmt.FormatCompact(total),
		FollowerText: numfmt.FormatCompact(followers),
		Rating:       v.Rating,
		Tags:         v.Tags,
		Bio:          v.Bio,
		WorkingHours: v.WorkingHours,
		Reviews:      v.Reviews,
		Contacts:     v.Contacts,
	}
}

// NormalizeAll maps a venue list into its normalized form.
func NormalizeAll(list []Venue) []NormalizedVenue {
	out := make([]NormalizedVenue, len(list))
	for i, v := range list {
		out[i] = Normalize(v, i)
	}
	return out
}
