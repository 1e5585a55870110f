package users

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/cache"
	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// listPath is the cache key path for the user collection.
const listPath = "/users"

// Service is the user resource service: cache check, upstream call,
// enrichment, cache store. Mutations are simulated client-side and never
// reach the upstream.
type Service struct {
	upstream *Upstream
	cache    *cache.Cache
	source   *enrich.Source
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger.With("component", "users")
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a user service.
func NewService(up *Upstream, c *cache.Cache, src *enrich.Source, opts ...ServiceOption) *Service {
	s := &Service{
		upstream: up,
		cache:    c,
		source:   src,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default().With("component", "users"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all users, enriched. Served from cache while fresh;
// fromCache reports which path was taken.
func (s *Service) List(ctx context.Context) (result []User, fromCache bool, err error) {
	key := cache.Key(listPath, nil)
	if payload, ok := s.cache.Get(key); ok {
		telemetry.RecordCacheLookup(ctx, "users", telemetry.CacheHit)
		return payload.([]User), true, nil
	}
	telemetry.RecordCacheLookup(ctx, "users", telemetry.CacheMiss)

	raw, err := s.upstream.List(ctx)
	if err != nil {
		return nil, false, err
	}

	enriched := EnrichAll(s.source, raw)
	s.cache.Set(key, enriched)

	s.logger.Debug("users fetched", "count", len(enriched))
	return enriched, false, nil
}

// Get returns a single raw user. Always bypasses the cache.
func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	return s.upstream.Get(ctx, id)
}

// Create simulates creating a user client-side with an enrichment-
// consistent shape. The id is synthesized from the current time; the list
// cache is invalidated.
func (s *Service) Create(ctx context.Context, draft Draft) (*User, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, apperror.NewValidation("Bad request - please check your input", err)
	}

	now := s.now()
	u := User{
		ID:        int(now.UnixMilli()),
		Name:      draft.Name,
		Username:  draft.Username,
		Email:     draft.Email,
		Role:      RoleSubscriber,
		Status:    StatusActive,
		JoinDate:  now,
		LastLogin: now,
	}
	u.Avatar = avatarURL(u.ID)
	u.Bio = "This is a bio for " + u.Name + ". They are passionate about technology and innovation."
	u.Location = enrich.Pick(s.source, locations)
	u.Website = websiteURL(u.Username)
	u.SocialMedia = socialHandles(u.Username)

	removed := s.cache.Invalidate(listPath)
	s.logger.Info("user created", "id", u.ID, "invalidated", removed)
	return &u, nil
}

// Update simulates updating a user client-side: the draft fields replace
// the stored ones, derived fields are recomputed, and lastLogin is
// refreshed. The list cache is invalidated.
func (s *Service) Update(ctx context.Context, id int, draft Draft) (*User, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, apperror.NewValidation("Bad request - please check your input", err)
	}

	u := User{
		ID:        id,
		Name:      draft.Name,
		Username:  draft.Username,
		Email:     draft.Email,
		LastLogin: s.now(),
	}
	u.Avatar = avatarURL(id)
	u.Website = websiteURL(u.Username)
	u.SocialMedia = socialHandles(u.Username)

	removed := s.cache.Invalidate(listPath)
	s.logger.Info("user updated", "id", id, "invalidated", removed)
	return &u, nil
}

// Delete simulates deleting a user client-side and invalidates the list
// cache.
func (s *Service) Delete(ctx context.Context, id int) (*DeleteResult, error) {
	removed := s.cache.Invalidate(listPath)
	s.logger.Info("user deleted", "id", id, "invalidated", removed)
	return &DeleteResult{ID: id, Deleted: true}, nil
}
