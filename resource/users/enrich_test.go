package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
)

func TestEnrich_Shape(t *testing.T) {
	src := enrich.NewSource(enrich.WithSeed(42))
	raw := User{ID: 4, Name: "Jane Roe", Username: "JaneR", Email: "jane@example.com"}

	u := Enrich(src, raw)

	require.Equal(t, 4, u.ID)
	require.Equal(t, "https://i.pravatar.cc/150?img=4", u.Avatar)
	require.Contains(t, roles, u.Role)
	require.Contains(t, statuses, u.Status)
	require.Contains(t, locations, u.Location)
	require.Equal(t, "This is a bio for Jane Roe. They are passionate about technology and innovation.", u.Bio)
	require.Equal(t, "https://janer.com", u.Website)
	require.NotNil(t, u.SocialMedia)
	require.Equal(t, "@JaneR", u.SocialMedia.Twitter)
	require.Equal(t, "linkedin.com/in/JaneR", u.SocialMedia.LinkedIn)
	require.Equal(t, "github.com/JaneR", u.SocialMedia.GitHub)
}

func TestEnrich_DatesWithinWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := enrich.NewSource(enrich.WithSeed(1), enrich.WithNow(func() time.Time { return now }))

	u := Enrich(src, User{ID: 1, Name: "A", Username: "a"})

	require.True(t, u.JoinDate.After(now.Add(-365*24*time.Hour)))
	require.False(t, u.JoinDate.After(now))
	require.True(t, u.LastLogin.After(now.Add(-7*24*time.Hour)))
	require.False(t, u.LastLogin.After(now))
}

func TestEnrichAll_PreservesOrderAndLength(t *testing.T) {
	src := enrich.NewSource(enrich.WithSeed(1))
	raw := []User{
		{ID: 1, Name: "A", Username: "a"},
		{ID: 2, Name: "B", Username: "b"},
	}

	out := EnrichAll(src, raw)
	require.Len(t, out, 2)
	require.Equal(t, 1, out[0].ID)
	require.Equal(t, 2, out[1].ID)
}
