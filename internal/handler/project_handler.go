package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"workasana/internal/model"
	"workasana/pkg/apierror"
)

type ProjectStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, p model.Project) error
	List(ctx context.Context) ([]model.Project, error)
}

type ProjectHandler struct {
	projects ProjectStore
}

func NewProjectHandler(projects ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "invalid JSON body"))
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "project name is required"))
		return
	}

	exists, err := h.projects.ExistsByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, model.ErrProjectExists)
		return
	}

	now := time.Now().UTC()
	project := model.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(payload.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.projects.Create(r.Context(), project); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}
