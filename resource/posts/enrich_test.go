package posts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
)

func TestEnrich_Shape(t *testing.T) {
	src := enrich.NewSource(enrich.WithSeed(42))
	raw := Post{ID: 7, UserID: 3, Title: "title", Body: strings.Repeat("b", 200)}

	p := Enrich(src, raw)

	require.Equal(t, 7, p.ID)
	require.Equal(t, 3, p.UserID)
	require.Contains(t, []string{StatusPublished, StatusDraft, StatusArchived}, p.Status)
	require.GreaterOrEqual(t, p.Views, 0)
	require.Less(t, p.Views, 10000)
	require.GreaterOrEqual(t, p.Likes, 0)
	require.Less(t, p.Likes, 500)
	require.Len(t, p.Tags, 1)
	require.Contains(t, tagPool, p.Tags[0])
	require.Equal(t, strings.Repeat("b", 150)+"...", p.Excerpt)
}

func TestEnrich_TimestampsWithinWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := enrich.NewSource(enrich.WithSeed(1), enrich.WithNow(func() time.Time { return now }))

	p := Enrich(src, Post{ID: 1, UserID: 1, Body: "x"})

	require.True(t, p.CreatedAt.After(now.Add(-365*24*time.Hour)))
	require.False(t, p.CreatedAt.After(now))
	require.True(t, p.UpdatedAt.After(now.Add(-30*24*time.Hour)))
	require.False(t, p.UpdatedAt.After(now))
}

func TestEnrich_AuthorSnapshot(t *testing.T) {
	src := enrich.NewSource(enrich.WithSeed(1))
	p := Enrich(src, Post{ID: 1, UserID: 9, Body: "x"})

	require.NotNil(t, p.Author)
	require.Equal(t, 9, p.Author.ID)
	require.Equal(t, "User 9", p.Author.Name)
	require.Equal(t, "user9@example.com", p.Author.Email)
	require.Equal(t, "https://i.pravatar.cc/150?img=9", p.Author.Avatar)
}

func TestEnrichAll_PreservesOrderAndLength(t *testing.T) {
	src := enrich.NewSource(enrich.WithSeed(1))
	raw := []Post{
		{ID: 1, UserID: 1, Body: "a"},
		{ID: 2, UserID: 2, Body: "b"},
		{ID: 3, UserID: 3, Body: "c"},
	}

	out := EnrichAll(src, raw)
	require.Len(t, out, 3)
	for i, p := range out {
		require.Equal(t, raw[i].ID, p.ID)
	}
}
