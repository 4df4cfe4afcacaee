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

type TeamStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, t model.Team) error
	List(ctx context.Context) ([]model.Team, error)
}

// TeamHandler is a thin persistence wrapper; the store's unique index
// backs up the duplicate pre-check.
type TeamHandler struct {
	teams TeamStore
}

func NewTeamHandler(teams TeamStore) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "invalid JSON body"))
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeError(w, apierror.BadRequest("BAD_REQUEST", "team name is required"))
		return
	}

	exists, err := h.teams.ExistsByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, model.ErrTeamExists)
		return
	}

	now := time.Now().UTC()
	team := model.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(payload.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.teams.Create(r.Context(), team); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, teams)
}
