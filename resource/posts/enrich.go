package posts

import (
	"fmt"
	"time"

	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
)

// ExcerptLimit is the number of body characters kept in the excerpt.
const ExcerptLimit = 150

var (
	statuses = []string{StatusPublished, StatusDraft, StatusArchived}
	tagPool  = []string{"technology", "programming", "web development", "react", "javascript", "tutorial"}
)

// Enrich returns a copy of the post with the fabricated presentation
// fields attached. Random fields diverge across calls; the field shape is
// the contract, not the values.
func Enrich(s *enrich.Source, p Post) Post {
	p.CreatedAt = s.PastTime(365 * 24 * time.Hour)
	p.UpdatedAt = s.PastTime(30 * 24 * time.Hour)
	p.Status = enrich.Pick(s, statuses)
	p.Views = s.IntN(10000)
	p.Likes = s.IntN(500)
	p.Tags = []string{enrich.Pick(s, tagPool)}
	p.Excerpt = enrich.Excerpt(p.Body, ExcerptLimit)
	p.Author = authorSnapshot(p.UserID)
	return p
}

// authorSnapshot derives the denormalized author for a user id.
func authorSnapshot(userID int) *Author {
	return &Author{
		ID:     userID,
		Name:   fmt.Sprintf("User %d", userID),
		Email:  fmt.Sprintf("user%d@example.com", userID),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?img=%d", userID),
	}
}

// EnrichAll enriches every post in the slice.
func EnrichAll(s *enrich.Source, raw []Post) []Post {
	out := make([]Post, len(raw))
	for i, p := range raw {
		out[i] = Enrich(s, p)
	}
	return out
}
