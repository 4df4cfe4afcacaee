package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"workasana/internal/model"
)

type TaskStore interface {
	Create(ctx context.Context, t model.Task) error
	FindByID(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id string) error
	ListDetailed(ctx context.Context, f model.TaskFilter) ([]model.TaskDetail, error)
}

type ProjectFinder interface {
	FindByID(ctx context.Context, id string) (model.Project, error)
}

type TeamFinder interface {
	FindByID(ctx context.Context, id string) (model.Team, error)
}

// OwnerResolver batches public-user lookups for task listings.
type OwnerResolver interface {
	FindPublicByIDs(ctx context.Context, ids []string) (map[string]model.PublicUser, error)
}

type TaskService struct {
	tasks    TaskStore
	projects ProjectFinder
	teams    TeamFinder
	users    OwnerResolver
}

func NewTaskService(tasks TaskStore, projects ProjectFinder, teams TeamFinder, users OwnerResolver) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, teams: teams, users: users}
}

// Create validates the referenced project and team, then persists the
// task. Owners default to the caller; status starts on the board's
// first column.
func (s *TaskService) Create(ctx context.Context, callerID string, req model.CreateTaskRequest) (model.Task, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Task{}, model.ErrInvalidInput
	}

	if _, err := s.projects.FindByID(ctx, req.ProjectID); err != nil {
		return model.Task{}, err
	}
	if _, err := s.teams.FindByID(ctx, req.TeamID); err != nil {
		return model.Task{}, err
	}

	owners := req.Owners
	if len(owners) == 0 {
		owners = []string{callerID}
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	timeToComplete := req.TimeToComplete
	if timeToComplete <= 0 {
		timeToComplete = 1
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		ProjectID:      req.ProjectID,
		TeamID:         req.TeamID,
		Owners:         owners,
		Tags:           tags,
		TimeToComplete: timeToComplete,
		Status:         model.StatusToDo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, f model.TaskFilter) ([]model.TaskDetail, error) {
	tasks, err := s.tasks.ListDetailed(ctx, f)
	if err != nil {
		return nil, err
	}

	if err := resolveOwnerDetails(ctx, s.users, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update; untouched fields keep their stored
// values. Re-pointing the task at another project or team re-checks
// that the target exists.
func (s *TaskService) Update(ctx context.Context, id string, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return model.Task{}, model.ErrInvalidInput
		}
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.ProjectID != nil {
		if _, err := s.projects.FindByID(ctx, *req.ProjectID); err != nil {
			return model.Task{}, err
		}
		task.ProjectID = *req.ProjectID
	}
	if req.TeamID != nil {
		if _, err := s.teams.FindByID(ctx, *req.TeamID); err != nil {
			return model.Task{}, err
		}
		task.TeamID = *req.TeamID
	}
	if req.Owners != nil {
		task.Owners = *req.Owners
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.TimeToComplete != nil {
		if *req.TimeToComplete <= 0 {
			return model.Task{}, model.ErrInvalidInput
		}
		task.TimeToComplete = *req.TimeToComplete
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			return model.Task{}, model.ErrInvalidInput
		}
		task.Status = *req.Status
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func resolveOwnerDetails(ctx context.Context, users OwnerResolver, tasks []model.TaskDetail) error {
	ids := make([]string, 0)
	seen := map[string]struct{}{}
	for _, t := range tasks {
		for _, owner := range t.Owners {
			if _, ok := seen[owner]; !ok {
				seen[owner] = struct{}{}
				ids = append(ids, owner)
			}
		}
	}

	resolved, err := users.FindPublicByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range tasks {
		details := make([]model.PublicUser, 0, len(tasks[i].Owners))
		for _, owner := range tasks[i].Owners {
			if u, ok := resolved[owner]; ok {
				details = append(details, u)
			}
		}
		tasks[i].OwnerDetails = details
	}
	return nil
}
