package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
)

var (
	roles     = []string{RoleAdmin, RoleEditor, RoleAuthor, RoleSubscriber}
	statuses  = []string{StatusActive, StatusInactive}
	locations = []string{"New York", "London", "Tokyo", "Paris", "Sydney"}
)

// Enrich returns a copy of the user with the fabricated presentation
// fields attached. Random fields diverge across calls; the field shape is
// the contract, not the values.
func Enrich(s *enrich.Source, u User) User {
	u.Avatar = avatarURL(u.ID)
	u.Role = enrich.Pick(s, roles)
	u.Status = enrich.Pick(s, statuses)
	u.JoinDate = s.PastTime(365 * 24 * time.Hour)
	u.LastLogin = s.PastTime(7 * 24 * time.Hour)
	u.Bio = fmt.Sprintf("This is a bio for %s. They are passionate about technology and innovation.", u.Name)
	u.Location = enrich.Pick(s, locations)
	u.Website = websiteURL(u.Username)
	u.SocialMedia = socialHandles(u.Username)
	return u
}

// avatarURL derives the pravatar URL for a user id.
func avatarURL(id int) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", id)
}

// websiteURL derives the website URL from a username.
func websiteURL(username string) string {
	return fmt.Sprintf("https://%s.com", strings.ToLower(username))
}

// socialHandles derives the social media handles from a username.
func socialHandles(username string) *SocialMedia {
	return &SocialMedia{
		Twitter:  "@" + username,
		LinkedIn: "linkedin.com/in/" + username,
		GitHub:   "github.com/" + username,
	}
}

// EnrichAll enriches every user in the slice.
func EnrichAll(s *enrich.Source, raw []User) []User {
	out := make([]User, len(raw))
	for i, u := range raw {
		out[i] = Enrich(s, u)
	}
	return out
}
