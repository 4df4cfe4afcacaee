package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workasana/internal/middleware"
	"workasana/internal/model"
	"workasana/internal/service"
	"workasana/pkg/apierror"
)

type TaskHandler struct {
	service *service.TaskService
}

func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "invalid JSON body"))
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("AUTH_REQUIRED", "Access denied. Authentication required"))
		return
	}

	task, err := h.service.Create(r.Context(), identity.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.TaskFilter{
		TeamID:    query.Get("team"),
		OwnerID:   query.Get("owner"),
		ProjectID: query.Get("project"),
		Status:    query.Get("status"),
	}
	if raw := query.Get("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "task id is required"))
		return
	}

	var payload model.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "invalid JSON body"))
		return
	}

	task, err := h.service.Update(r.Context(), taskID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "task id is required"))
		return
	}

	if err := h.service.Delete(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
