package posts

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/query"
	"github.com/Ahmedsalem001/BOD-Dashboard/respond"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// collectionKey identifies the post collection in the state container.
const collectionKey = "entries"

// CollectionState mirrors list fetches and simulated writes into the
// application state container. Applies are sequence-guarded so a late
// response from a superseded fetch never replaces newer data; writes are
// overlaid onto refetched snapshots because the upstream discards them.
type CollectionState interface {
	BeginFetch(key string) uint64
	SetEntries(seq uint64, items []Post) bool
	Entries() []Post
	AddEntry(p Post)
	UpdateEntry(p Post)
	RemoveEntry(id int)
	SetError(action, message string)
}

// Handler serves the post resource endpoints.
type Handler struct {
	service *Service
	state   CollectionState
	logger  *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for the handler.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger.With("component", "posts-handler")
	}
}

// WithHandlerState mirrors list results into a state container.
func WithHandlerState(state CollectionState) HandlerOption {
	return func(h *Handler) {
		h.state = state
	}
}

// NewHandler creates a post resource handler.
func NewHandler(service *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		logger:  slog.Default().With("component", "posts-handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the post routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/posts", h.list)
	mux.HandleFunc("POST /api/posts", h.create)
	mux.HandleFunc("GET /api/posts/{id}", h.get)
	mux.HandleFunc("PUT /api/posts/{id}", h.update)
	mux.HandleFunc("DELETE /api/posts/{id}", h.delete)
	mux.HandleFunc("GET /api/posts/{id}/comments", h.comments)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "list")

	// ?userId= serves the raw per-author listing, uncached.
	if rawUser := r.URL.Query().Get("userId"); rawUser != "" {
		userID, err := strconv.Atoi(rawUser)
		if err != nil {
			respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
			return
		}
		items, err := h.service.ListByUser(r.Context(), userID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, items)
		return
	}

	var seq uint64
	if h.state != nil {
		seq = h.state.BeginFetch(collectionKey)
	}

	all, fromCache, err := h.service.List(r.Context())
	if err != nil {
		if h.state != nil {
			h.state.SetError(collectionKey, apperror.FromError(err).Message)
		}
		respond.Error(w, r, err)
		return
	}
	if fromCache {
		telemetry.SetCacheResult(r, telemetry.CacheHit)
	} else {
		telemetry.SetCacheResult(r, telemetry.CacheMiss)
	}

	// The page is derived from the state snapshot; a superseded fetch
	// is dropped on apply and the newer collection wins.
	if h.state != nil {
		h.state.SetEntries(seq, all)
		all = h.state.Entries()
	}

	page := query.Apply(all, query.FromRequest(r), func(p Post) []string {
		return []string{p.Title, p.Body}
	})
	respond.JSON(w, r, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "detail")

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, p)
}

func (h *Handler) comments(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "comments")

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	items, err := h.service.Comments(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "create")

	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
		return
	}

	p, err := h.service.Create(r.Context(), draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if h.state != nil {
		h.state.AddEntry(*p)
	}
	respond.JSON(w, r, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "update")

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
		return
	}

	p, err := h.service.Update(r.Context(), id, draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if h.state != nil {
		h.state.UpdateEntry(*p)
	}
	respond.JSON(w, r, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "posts")
	telemetry.SetEndpoint(r, "delete")

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if h.state != nil {
		h.state.RemoveEntry(id)
	}
	respond.JSON(w, r, http.StatusOK, result)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, apperror.NewValidation("Bad request - please check your input", err)
	}
	return id, nil
}
