package handler

import (
	"context"
	"net/http"
	"time"

	"workasana/internal/database"
	"workasana/internal/model"
)

type EntityCounter interface {
	Counts(ctx context.Context) (database.EntityCounts, error)
}

type HealthHandler struct {
	counter EntityCounter
}

func NewHealthHandler(counter EntityCounter) *HealthHandler {
	return &HealthHandler{counter: counter}
}

// Check always reports the API as up; store trouble degrades the
// response instead of failing it.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := model.HealthResponse{
		Message:   "Workasana API is running!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	counts, err := h.counter.Counts(r.Context())
	if err != nil {
		resp.Error = "Could not fetch database counts"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Users = counts.Users
	resp.Teams = counts.Teams
	resp.Projects = counts.Projects
	resp.Tasks = counts.Tasks
	writeJSON(w, http.StatusOK, resp)
}
