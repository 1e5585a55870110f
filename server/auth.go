package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/auth"
	"github.com/Ahmedsalem001/BOD-Dashboard/respond"
	"github.com/Ahmedsalem001/BOD-Dashboard/store"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// sessionMiddleware requires a valid session bearer token on /api/*
// routes. Auth, health, stats and metrics endpoints are exempt.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorizedResponse(w)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if err := s.auth.Validate(token); err != nil {
			s.state.SetSession(nil)
			unauthorizedResponse(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorizedResponse(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(apperror.ErrorResponse{Error: apperror.StatusMessage(http.StatusUnauthorized)})
}

// handleLogin authenticates the demo credentials and returns the session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "login")

	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respond.Error(w, r, apperror.NewValidation("Bad request - please check your input", err))
		return
	}

	session, err := s.auth.Login(creds)
	if err != nil {
		telemetry.RecordSessionEvent(r.Context(), "login_failure")
		s.state.Notify(store.NotifyError, apperror.FromError(err).Message)
		respond.Error(w, r, err)
		return
	}

	telemetry.RecordSessionEvent(r.Context(), "login_success")
	s.state.SetSession(session)
	s.state.Notify(store.NotifySuccess, "Logged in successfully")
	respond.JSON(w, r, http.StatusOK, session)
}

// handleLogout clears the session unconditionally.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "logout")

	s.auth.Logout()
	s.state.SetSession(nil)
	telemetry.RecordSessionEvent(r.Context(), "logout")

	respond.JSON(w, r, http.StatusOK, map[string]bool{"loggedOut": true})
}

// handleSession reports the current session state.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	telemetry.SetEndpoint(r, "session")

	session := s.auth.Session()
	if session == nil {
		respond.Error(w, r, apperror.NewInvalidOrExpiredToken(nil))
		return
	}
	respond.JSON(w, r, http.StatusOK, session)
}
