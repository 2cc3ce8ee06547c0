package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dferrans/itemstash-be/internal/auth"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// callerClaims pulls the authenticated caller's claims off the request, or
// answers 500 when the auth middleware did not run.
func callerClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return nil, false
	}
	return claims, true
}
