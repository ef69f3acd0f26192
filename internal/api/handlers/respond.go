package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
