package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ahmedsalem001/BOD-Dashboard/localstore"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/posts"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/users"
)

func TestStore_SetEntries_LatestSequenceApplies(t *testing.T) {
	s := New()

	seq := s.BeginFetch("entries")
	applied := s.SetEntries(seq, []posts.Post{{ID: 1, Title: "one"}})
	require.True(t, applied)
	require.Len(t, s.Entries(), 1)
}

func TestStore_SetEntries_StaleResponseDropped(t *testing.T) {
	s := New()

	first := s.BeginFetch("entries")
	second := s.BeginFetch("entries")

	// The newer fetch lands first.
	require.True(t, s.SetEntries(second, []posts.Post{{ID: 2, Title: "newer"}}))

	// The superseded response must be discarded.
	require.False(t, s.SetEntries(first, []posts.Post{{ID: 1, Title: "older"}}))

	entries := s.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].ID)
}

func TestStore_SequencesIndependentPerKey(t *testing.T) {
	s := New()

	entriesSeq := s.BeginFetch("entries")
	usersSeq := s.BeginFetch("users")

	require.True(t, s.SetEntries(entriesSeq, []posts.Post{{ID: 1}}))
	require.True(t, s.SetUsers(usersSeq, []users.User{{ID: 1, Name: "A"}}))
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := New()
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1, Title: "one"}}))

	snap := s.Entries()
	snap[0].Title = "mutated"

	require.Equal(t, "one", s.Entries()[0].Title)
}

func TestStore_ErrorsAsDisplayState(t *testing.T) {
	s := New()

	_, ok := s.Error("entries")
	require.False(t, ok)

	s.SetError("entries", "Network error - please check your connection")
	msg, ok := s.Error("entries")
	require.True(t, ok)
	require.Equal(t, "Network error - please check your connection", msg)

	// A successful apply clears the error for that collection.
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, nil))
	_, ok = s.Error("entries")
	require.False(t, ok)
}

func TestStore_ClearError(t *testing.T) {
	s := New()
	s.SetError("users", "boom")
	s.ClearError("users")
	_, ok := s.Error("users")
	require.False(t, ok)
}

func TestStore_ThemeDefaultsToLight(t *testing.T) {
	s := New()
	require.Equal(t, ThemeLight, s.Theme())
}

func TestStore_SetTheme_InvalidFallsBackToLight(t *testing.T) {
	s := New()
	require.NoError(t, s.SetTheme(Theme("neon")))
	require.Equal(t, ThemeLight, s.Theme())
}

func TestStore_ThemePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	local, err := localstore.Open(path)
	require.NoError(t, err)

	s := New(WithLocalStore(local))
	require.NoError(t, s.SetTheme(ThemeDark))
	require.NoError(t, local.Close())

	local, err = localstore.Open(path)
	require.NoError(t, err)
	defer local.Close()

	restored := New(WithLocalStore(local))
	require.Equal(t, ThemeDark, restored.Theme())
}

func TestStore_ConcurrentMutation(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq := s.BeginFetch("entries")
			s.SetEntries(seq, []posts.Post{{ID: i}})
			s.Entries()
		}(i)
	}
	wg.Wait()

	// The container stays consistent: exactly one post from some fetch.
	require.Len(t, s.Entries(), 1)
}

func TestNotify_CapsAtFive(t *testing.T) {
	s := New()

	for i := range 7 {
		s.Notify(NotifyInfo, "message")
		_ = i
	}

	notifications := s.Notifications()
	require.Len(t, notifications, MaxNotifications)
}

func TestNotify_OldestDroppedFirst(t *testing.T) {
	s := New()

	firstID := s.Notify(NotifyInfo, "first")
	for range MaxNotifications {
		s.Notify(NotifyInfo, "later")
	}

	for _, n := range s.Notifications() {
		require.NotEqual(t, firstID, n.ID)
	}
}

func TestNotify_Dismiss(t *testing.T) {
	s := New()

	id := s.Notify(NotifyError, "boom")
	require.Len(t, s.Notifications(), 1)

	s.Dismiss(id)
	require.Empty(t, s.Notifications())

	// Double-dismiss is a no-op.
	s.Dismiss(id)
}

func TestNotify_AutoExpires(t *testing.T) {
	s := New(WithNotificationTTL(NotifySuccess, 20*time.Millisecond))

	s.Notify(NotifySuccess, "done")
	require.Len(t, s.Notifications(), 1)

	require.Eventually(t, func() bool {
		return len(s.Notifications()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNotify_FieldsPopulated(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(WithNow(func() time.Time { return now }))

	id := s.Notify(NotifyWarning, "careful")

	notifications := s.Notifications()
	require.Len(t, notifications, 1)
	n := notifications[0]
	require.Equal(t, id, n.ID)
	require.NotEmpty(t, n.ID)
	require.Equal(t, NotifyWarning, n.Type)
	require.Equal(t, "careful", n.Message)
	require.Equal(t, now, n.Timestamp)
}

func TestStore_Session(t *testing.T) {
	s := New()
	require.Nil(t, s.Session())
}

func TestStore_AddEntry_LeadsCollection(t *testing.T) {
	s := New()
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1}, {ID: 2}}))

	s.AddEntry(posts.Post{ID: 99, Title: "fresh"})

	got := s.Entries()
	require.Len(t, got, 3)
	require.Equal(t, 99, got[0].ID)
}

func TestStore_AddEntry_SurvivesRefetch(t *testing.T) {
	s := New()
	s.AddEntry(posts.Post{ID: 99, Title: "fresh"})

	// The upstream discards writes, so a refetch returns only its own data.
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1}, {ID: 2}}))

	got := s.Entries()
	require.Len(t, got, 3)
	require.Equal(t, 99, got[0].ID)
}

func TestStore_RemoveEntry_SurvivesRefetch(t *testing.T) {
	s := New()
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1}, {ID: 2}}))

	s.RemoveEntry(1)
	require.Len(t, s.Entries(), 1)

	seq = s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1}, {ID: 2}}))

	got := s.Entries()
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].ID)
}

func TestStore_UpdateEntry_SurvivesRefetch(t *testing.T) {
	s := New()
	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1, Title: "old"}}))

	s.UpdateEntry(posts.Post{ID: 1, Title: "edited"})
	require.Equal(t, "edited", s.Entries()[0].Title)

	seq = s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1, Title: "old"}}))
	require.Equal(t, "edited", s.Entries()[0].Title)
}

func TestStore_RemoveLocallyAddedEntry(t *testing.T) {
	s := New()
	s.AddEntry(posts.Post{ID: 99})
	s.RemoveEntry(99)

	seq := s.BeginFetch("entries")
	require.True(t, s.SetEntries(seq, []posts.Post{{ID: 1}}))

	got := s.Entries()
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].ID)
}

func TestStore_UserMutationsSurviveRefetch(t *testing.T) {
	s := New()
	seq := s.BeginFetch("users")
	require.True(t, s.SetUsers(seq, []users.User{{ID: 1, Name: "Leanne"}}))

	s.AddUser(users.User{ID: 50, Name: "New Person"})
	s.UpdateUser(users.User{ID: 1, Name: "Renamed"})

	seq = s.BeginFetch("users")
	require.True(t, s.SetUsers(seq, []users.User{{ID: 1, Name: "Leanne"}}))

	got := s.Users()
	require.Len(t, got, 2)
	require.Equal(t, 50, got[0].ID)
	require.Equal(t, "Renamed", got[1].Name)

	s.RemoveUser(1)
	require.Len(t, s.Users(), 1)
}
