package middleware

import (
	"encoding/json"
	"net/http"

	"workasana/internal/model"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

// writeAuthError emits the uniform rejection envelope. Every auth
// failure is a 401 with a stable machine-readable code.
func writeAuthError(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = jsonEncode(w, model.ErrorResponse{
		Error: model.ErrorBody{Message: message, Code: code},
	})
}
