// Package store holds the explicit client state container: fetched
// collections, session display state, notifications and the theme
// preference. All mutation goes through methods on Store; callers never
// touch the slices directly. A per-collection fetch sequence discards
// responses from superseded fetches.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Ahmedsalem001/BOD-Dashboard/auth"
	"github.com/Ahmedsalem001/BOD-Dashboard/localstore"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/posts"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/users"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// themeKey is the persistence key for the theme preference.
const themeKey = "theme"

// Store is the state container. The zero value is not usable; construct
// with New.
type Store struct {
	mu sync.Mutex

	entries []posts.Post
	users   []users.User
	session *auth.Session

	// Simulated writes survive refetches: the upstream discards them,
	// so they are overlaid onto every applied snapshot.
	entryMut *mutations[posts.Post]
	userMut  *mutations[users.User]

	notifications []Notification
	errors        map[string]string

	// issued tracks the latest fetch sequence per collection key; a
	// response applies only if it carries the latest sequence.
	issued map[string]uint64

	theme  Theme
	local  *localstore.Store
	logger *slog.Logger
	now    func() time.Time

	notifyTTL map[NotificationType]time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.With("component", "store")
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocalStore sets the persistence backend for the theme preference.
func WithLocalStore(local *localstore.Store) Option {
	return func(s *Store) {
		s.local = local
	}
}

// WithNotificationTTL overrides the auto-expiry window for a notification
// type. Used by tests to shorten the timers.
func WithNotificationTTL(t NotificationType, ttl time.Duration) Option {
	return func(s *Store) {
		s.notifyTTL[t] = ttl
	}
}

// New creates a Store. If a persistence backend is configured, the theme
// preference is restored from it.
func New(opts ...Option) *Store {
	s := &Store{
		errors:   make(map[string]string),
		issued:   make(map[string]uint64),
		entryMut: newMutations(func(p posts.Post) int { return p.ID }),
		userMut:  newMutations(func(u users.User) int { return u.ID }),
		theme:    ThemeLight,
		logger: slog.Default().With("component", "store"),
		now:    time.Now,
		notifyTTL: map[NotificationType]time.Duration{
			NotifySuccess: 5 * time.Second,
			NotifyInfo:    5 * time.Second,
			NotifyWarning: 6 * time.Second,
			NotifyError:   7 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.local != nil {
		if saved, err := s.local.Get(themeKey); err == nil {
			if t := Theme(saved); t == ThemeLight || t == ThemeDark {
				s.theme = t
			}
		}
	}

	return s
}

// BeginFetch registers a new fetch for the collection key and returns its
// sequence. Any response carrying an older sequence is discarded on apply.
func (s *Store) BeginFetch(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key]++
	return s.issued[key]
}

// current reports whether seq is the latest issued sequence for key.
// Callers must hold s.mu.
func (s *Store) current(key string, seq uint64) bool {
	return seq == s.issued[key]
}

// SetEntries replaces the post collection if seq is still the latest
// fetch for the "entries" key. Returns false when the response was
// superseded and dropped.
func (s *Store) SetEntries(seq uint64, items []posts.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current("entries", seq) {
		s.logger.Debug("stale entries response dropped", "seq", seq, "latest", s.issued["entries"])
		return false
	}
	s.entries = s.entryMut.overlay(items)
	delete(s.errors, "entries")
	return true
}

// AddEntry records a simulated post creation. The post leads the
// collection and survives later refetches.
func (s *Store) AddEntry(p posts.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryMut.add(p)
	s.entries = append([]posts.Post{p}, s.entries...)
}

// UpdateEntry records a simulated post update, replacing the matching
// record in the collection and in later refetches.
func (s *Store) UpdateEntry(p posts.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryMut.update(p)
	for i := range s.entries {
		if s.entries[i].ID == p.ID {
			s.entries[i] = p
		}
	}
}

// RemoveEntry records a simulated post deletion. The post disappears from
// the collection and stays gone across refetches.
func (s *Store) RemoveEntry(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryMut.remove(id)
	kept := s.entries[:0]
	for _, p := range s.entries {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.entries = kept
}

// Entries returns a snapshot of the post collection.
func (s *Store) Entries() []posts.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]posts.Post, len(s.entries))
	copy(out, s.entries)
	return out
}

// SetUsers replaces the user collection if seq is still the latest fetch
// for the "users" key. Returns false when the response was superseded.
func (s *Store) SetUsers(seq uint64, items []users.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current("users", seq) {
		s.logger.Debug("stale users response dropped", "seq", seq, "latest", s.issued["users"])
		return false
	}
	s.users = s.userMut.overlay(items)
	delete(s.errors, "users")
	return true
}

// AddUser records a simulated user creation.
func (s *Store) AddUser(u users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMut.add(u)
	s.users = append([]users.User{u}, s.users...)
}

// UpdateUser records a simulated user update.
func (s *Store) UpdateUser(u users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMut.update(u)
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
		}
	}
}

// RemoveUser records a simulated user deletion.
func (s *Store) RemoveUser(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMut.remove(id)
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
}

// Users returns a snapshot of the user collection.
func (s *Store) Users() []users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]users.User, len(s.users))
	copy(out, s.users)
	return out
}

// SetError records a failed action as display state. Errors never leave
// the store unhandled; the serving edge reads them back for rendering.
func (s *Store) SetError(action string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[action] = message
}

// Error returns the display error for an action, if any.
func (s *Store) Error(action string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.errors[action]
	return msg, ok
}

// ClearError removes the display error for an action.
func (s *Store) ClearError(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.errors, action)
}

// SetSession stores the session display state.
func (s *Store) SetSession(session *auth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// Session returns the session display state, nil when anonymous.
func (s *Store) Session() *auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SetTheme updates the theme preference and persists it when a backend is
// configured.
func (s *Store) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		t = ThemeLight
	}

	s.mu.Lock()
	s.theme = t
	local := s.local
	s.mu.Unlock()

	if local != nil {
		return local.Set(themeKey, string(t))
	}
	return nil
}

// Theme returns the current theme preference.
func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}
