package server

import (
	"encoding/json"
	"net/http"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/respond"
	"github.com/Ahmedsalem001/BOD-Dashboard/store"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// themePayload is the request and response shape for the theme endpoints.
type themePayload struct {
	Theme store.Theme `json:"theme"`
}

// handleGetTheme returns the persisted theme preference.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "theme")
	respond.JSON(w, r, http.StatusOK, themePayload{Theme: s.state.Theme()})
}

// handleSetTheme updates and persists the theme preference.
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "theme")

	var payload themePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
		return
	}
	if payload.Theme != store.ThemeLight && payload.Theme != store.ThemeDark {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", nil))
		return
	}

	if err := s.state.SetTheme(payload.Theme); err != nil {
		respond.Error(w, r, apperror.NewInternal("failed to persist theme", err))
		return
	}
	respond.JSON(w, r, http.StatusOK, themePayload{Theme: s.state.Theme()})
}

// handleNotifications returns the visible notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "notifications")
	respond.JSON(w, r, http.StatusOK, s.state.Notifications())
}

// handleDismissNotification removes a notification by id.
func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "notifications")

	s.state.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
