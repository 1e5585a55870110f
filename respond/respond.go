// Package respond writes JSON API responses: payload encoding, ETag
// fingerprinting with conditional-request handling, and the mapping of
// application errors onto status codes and user-facing bodies.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dashboard "github.com/Ahmedsalem001/BOD-Dashboard"
	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
)

// JSON writes v as a JSON response with the given status. For 200
// responses an ETag is attached and If-None-Match short-circuits to 304.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if status == http.StatusOK {
		etag := dashboard.FingerprintBytes(body).ETag()
		w.Header().Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes err as a JSON error response. Application errors carry
// their own status and user-facing message; anything else serves as a
// generic internal error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.FromError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
