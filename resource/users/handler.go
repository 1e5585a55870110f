package users

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

// collectionKey identifies the user collection in the state container.
const collectionKey = "users"

// CollectionState mirrors list fetches and simulated writes into the
// application state container. Applies are sequence-guarded so a late
// response from a superseded fetch never replaces newer data; writes are
// overlaid onto refetched snapshots because the upstream discards them.
type CollectionState interface {
	BeginFetch(key string) uint64
	SetUsers(seq uint64, items []User) bool
	Users() []User
	AddUser(u User)
	UpdateUser(u User)
	RemoveUser(id int)
	SetError(action, message string)
}

// Handler serves the user resource endpoints.
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
		h.logger = logger.With("component", "users-handler")
	}
}

// WithHandlerState mirrors list results into a state container.
func WithHandlerState(state CollectionState) HandlerOption {
	return func(h *Handler) {
		h.state = state
	}
}

// NewHandler creates a user resource handler.
func NewHandler(service *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		logger:  slog.Default().With("component", "users-handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the user routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.list)
	mux.HandleFunc("POST /api/users", h.create)
	mux.HandleFunc("GET /api/users/{id}", h.get)
	mux.HandleFunc("PUT /api/users/{id}", h.update)
	mux.HandleFunc("DELETE /api/users/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "users")
	telemetry.SetEndpoint(r, "list")

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
		h.state.SetUsers(seq, all)
		all = h.state.Users()
	}

	page := query.Apply(all, query.FromRequest(r), func(u User) []string {
		return []string{u.Name, u.Email, u.Username}
	})
	respond.JSON(w, r, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "users")
	telemetry.SetEndpoint(r, "detail")

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, u)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "users")
	telemetry.SetEndpoint(r, "create")

	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
		return
	}

	u, err := h.service.Create(r.Context(), draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if h.state != nil {
		h.state.AddUser(*u)
	}
	respond.JSON(w, r, http.StatusCreated, u)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "users")
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

	u, err := h.service.Update(r.Context(), id, draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if h.state != nil {
		h.state.UpdateUser(*u)
	}
	respond.JSON(w, r, http.StatusOK, u)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	telemetry.SetResource(r, "users")
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
		h.state.RemoveUser(id)
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
