package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/cache"
	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
)

// fakeUpstream serves canned JSONPlaceholder responses and counts hits.
func fakeUpstream(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if userID := r.URL.Query().Get("userId"); userID != "" {
			_ = json.NewEncoder(w).Encode([]Post{{ID: 1, UserID: 2, Title: "by user", Body: "b"}})
			return
		}
		_ = json.NewEncoder(w).Encode([]Post{
			{ID: 1, UserID: 1, Title: "first", Body: "body one"},
			{ID: 2, UserID: 2, Title: "second", Body: "body two"},
		})
	})
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Post{ID: 1, UserID: 1, Title: "first", Body: "body one"})
	})
	mux.HandleFunc("GET /posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]Comment{{PostID: 1, ID: 10, Name: "c", Email: "c@example.com", Body: "nice"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, baseURL string, c *cache.Cache) *Service {
	t.Helper()
	up := NewUpstream(WithBaseURL(baseURL), WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	src := enrich.NewSource(enrich.WithSeed(42))
	return NewService(up, c, src)
}

func TestService_List_CacheAside(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	c := cache.New()
	svc := newTestService(t, srv.URL, c)

	first, fromCache, err := svc.List(context.Background())
	require.NoError(t, err)
	require.False(t, fromCache)
	require.Len(t, first, 2)
	require.NotNil(t, first[0].Author)
	require.EqualValues(t, 1, hits.Load())

	second, fromCache, err := svc.List(context.Background())
	require.NoError(t, err)
	require.True(t, fromCache)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, hits.Load())
}

func TestService_List_CacheExpiry(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)

	now := time.Now()
	c := cache.New(cache.WithNow(func() time.Time { return now }))
	svc := newTestService(t, srv.URL, c)

	_, _, err := svc.List(context.Background())
	require.NoError(t, err)

	now = now.Add(cache.DefaultTTL + time.Second)

	_, fromCache, err := svc.List(context.Background())
	require.NoError(t, err)
	require.False(t, fromCache)
	require.EqualValues(t, 2, hits.Load())
}

func TestService_Get_BypassesCache(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	svc := newTestService(t, srv.URL, cache.New())

	for range 2 {
		p, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, "first", p.Title)
		// Raw record, no enrichment applied.
		require.Nil(t, p.Author)
		require.Empty(t, p.Status)
	}
	require.EqualValues(t, 2, hits.Load())
}

func TestService_Get_NotFound(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	svc := newTestService(t, srv.URL, cache.New())

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	require.True(t, apperror.IsNotFound(err))
	require.Equal(t, "Resource not found", apperror.FromError(err).Message)
}

func TestService_NetworkError(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1", cache.New())

	_, _, err := svc.List(context.Background())
	require.Error(t, err)
	require.True(t, apperror.IsNetwork(err))
	require.Equal(t, "Network error - please check your connection", apperror.FromError(err).Message)
}

func TestService_UpstreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	svc := newTestService(t, srv.URL, cache.New())

	_, _, err := svc.List(context.Background())
	require.Error(t, err)
	appErr := apperror.FromError(err)
	require.Equal(t, apperror.HTTPStatus, appErr.Kind)
	require.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
	require.Equal(t, "Server error - please try again later", appErr.Message)
}

func TestService_ListByUser(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	svc := newTestService(t, srv.URL, cache.New())

	items, err := svc.ListByUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].UserID)
}

func TestService_Comments(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	svc := newTestService(t, srv.URL, cache.New())

	items, err := svc.Comments(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].PostID)
}

func TestService_Create_SimulatedClientSide(t *testing.T) {
	var hits atomic.Int64
	srv := fakeUpstream(t, &hits)
	c := cache.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	up := NewUpstream(WithBaseURL(srv.URL))
	svc := NewService(up, c, enrich.NewSource(enrich.WithSeed(1)), WithNow(func() time.Time { return now }))

	// Warm the list cache, then create and verify invalidation.
	_, _, err := svc.List(context.Background())
	require.NoError(t, err)

	p, err := svc.Create(context.Background(), Draft{Title: "new", Body: "fresh body"})
	require.NoError(t, err)

	require.Equal(t, int(now.UnixMilli()), p.ID)
	require.Equal(t, currentUserID, p.UserID)
	require.Equal(t, StatusPublished, p.Status)
	require.Zero(t, p.Views)
	require.Zero(t, p.Likes)
	require.Equal(t, now, p.CreatedAt)
	require.Equal(t, now, p.UpdatedAt)
	require.Equal(t, "fresh body...", p.Excerpt)
	require.Equal(t, "Current User", p.Author.Name)

	// Upstream was never called for the mutation.
	require.EqualValues(t, 1, hits.Load())

	// List cache invalidated: next List refetches.
	_, fromCache, err := svc.List(context.Background())
	require.NoError(t, err)
	require.False(t, fromCache)
}

func TestService_Create_Validation(t *testing.T) {
	srv := fakeUpstream(t, new(atomic.Int64))
	svc := newTestService(t, srv.URL, cache.New())

	_, err := svc.Create(context.Background(), Draft{Title: "", Body: ""})
	require.Error(t, err)
	require.True(t, apperror.IsValidation(err))
}

func TestService_Update_RefreshesUpdatedAt(t *testing.T) {
	srv := fakeUpstream(t, new(atomic.Int64))
	c := cache.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	up := NewUpstream(WithBaseURL(srv.URL))
	svc := NewService(up, c, enrich.NewSource(enrich.WithSeed(1)), WithNow(func() time.Time { return now }))

	p, err := svc.Update(context.Background(), 5, Draft{Title: "edited", Body: "edited body"})
	require.NoError(t, err)
	require.Equal(t, 5, p.ID)
	require.Equal(t, "edited", p.Title)
	require.Equal(t, now, p.UpdatedAt)
	require.True(t, p.CreatedAt.IsZero())
}

func TestService_Delete_Acknowledges(t *testing.T) {
	srv := fakeUpstream(t, new(atomic.Int64))
	c := cache.New()
	svc := newTestService(t, srv.URL, c)

	// Warm cache to observe invalidation.
	_, _, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	result, err := svc.Delete(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, &DeleteResult{ID: 3, Deleted: true}, result)
	require.Zero(t, c.Len())
}
