package posts

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

// listPath is the cache key path for the post collection. Mutations
// invalidate every cached key containing it.
const listPath = "/posts"

// currentUserID is the author attributed to client-simulated creates.
const currentUserID = 1

// Service is the post resource service: cache check, upstream call,
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
		s.logger = logger.With("component", "posts")
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a post service.
func NewService(up *Upstream, c *cache.Cache, src *enrich.Source, opts ...ServiceOption) *Service {
	s := &Service{
		upstream: up,
		cache:    c,
		source:   src,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default().With("component", "posts"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all posts, enriched. Served from cache while fresh;
// fromCache reports which path was taken.
func (s *Service) List(ctx context.Context) (result []Post, fromCache bool, err error) {
	key := cache.Key(listPath, nil)
	if payload, ok := s.cache.Get(key); ok {
		telemetry.RecordCacheLookup(ctx, "posts", telemetry.CacheHit)
		return payload.([]Post), true, nil
	}
	telemetry.RecordCacheLookup(ctx, "posts", telemetry.CacheMiss)

	raw, err := s.upstream.List(ctx)
	if err != nil {
		return nil, false, err
	}

	enriched := EnrichAll(s.source, raw)
	s.cache.Set(key, enriched)

	s.logger.Debug("posts fetched", "count", len(enriched))
	return enriched, false, nil
}

// Get returns a single raw post. Always bypasses the cache.
func (s *Service) Get(ctx context.Context, id int) (*Post, error) {
	return s.upstream.Get(ctx, id)
}

// ListByUser returns the raw posts authored by a user, uncached.
func (s *Service) ListByUser(ctx context.Context, userID int) ([]Post, error) {
	return s.upstream.ListByUser(ctx, userID)
}

// Comments returns the raw comments for a post, uncached.
func (s *Service) Comments(ctx context.Context, postID int) ([]Comment, error) {
	return s.upstream.Comments(ctx, postID)
}

// Create simulates creating a post client-side. The id is synthesized
// from the current time; the list cache is invalidated.
func (s *Service) Create(ctx context.Context, draft Draft) (*Post, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, apperror.NewValidation("Bad request - please check your input", err)
	}

	now := s.now()
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	p := &Post{
		ID:        int(now.UnixMilli()),
		UserID:    currentUserID,
		Title:     draft.Title,
		Body:      draft.Body,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    StatusPublished,
		Views:     0,
		Likes:     0,
		Tags:      tags,
		Excerpt:   enrich.Excerpt(draft.Body, ExcerptLimit),
		Author: &Author{
			ID:     currentUserID,
			Name:   "Current User",
			Email:  "user@example.com",
			Avatar: "https://i.pravatar.cc/150?img=1",
		},
	}

	removed := s.cache.Invalidate(listPath)
	s.logger.Info("post created", "id", p.ID, "invalidated", removed)
	return p, nil
}

// Update simulates updating a post client-side: the draft fields replace
// the stored ones and updatedAt is refreshed. The list cache is
// invalidated.
func (s *Service) Update(ctx context.Context, id int, draft Draft) (*Post, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, apperror.NewValidation("Bad request - please check your input", err)
	}

	p := &Post{
		ID:        id,
		Title:     draft.Title,
		Body:      draft.Body,
		Tags:      draft.Tags,
		UpdatedAt: s.now(),
	}

	removed := s.cache.Invalidate(listPath)
	s.logger.Info("post updated", "id", id, "invalidated", removed)
	return p, nil
}

// Delete simulates deleting a post client-side and invalidates the list
// cache.
func (s *Service) Delete(ctx context.Context, id int) (*DeleteResult, error) {
	removed := s.cache.Invalidate(listPath)
	s.logger.Info("post deleted", "id", id, "invalidated", removed)
	return &DeleteResult{ID: id, Deleted: true}, nil
}
