package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workasana/internal/model"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, name, project_id, team_id, owners, tags, time_to_complete, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::uuid[], $6::text[], $7, $8, $9, $10)`,
		t.ID, t.Name, t.ProjectID, t.TeamID, t.Owners, t.Tags, t.TimeToComplete, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, project_id::text, team_id::text, owners::text[], tags,
		        time_to_complete, status, created_at, updated_at
		 FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.ProjectID, &t.TeamID, &t.Owners, &t.Tags,
			&t.TimeToComplete, &t.Status, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks
		 SET name = $2, project_id = $3, team_id = $4, owners = $5::uuid[], tags = $6::text[],
		     time_to_complete = $7, status = $8, updated_at = $9
		 WHERE id = $1`,
		t.ID, t.Name, t.ProjectID, t.TeamID, t.Owners, t.Tags, t.TimeToComplete, t.Status, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// ListDetailed returns tasks with their project and team references
// expanded, newest first. Owner details are resolved by the caller.
func (r *TaskRepository) ListDetailed(ctx context.Context, f model.TaskFilter) ([]model.TaskDetail, error) {
	return r.listDetailed(ctx, f, nil)
}

// CompletedSince returns completed tasks touched at or after the
// cutoff, for the last-week report.
func (r *TaskRepository) CompletedSince(ctx context.Context, since time.Time) ([]model.TaskDetail, error) {
	return r.listDetailed(ctx, model.TaskFilter{Status: model.StatusCompleted}, &since)
}

func (r *TaskRepository) listDetailed(ctx context.Context, f model.TaskFilter, updatedSince *time.Time) ([]model.TaskDetail, error) {
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if f.TeamID != "" {
		addCondition("t.team_id = $%d", f.TeamID)
	}
	if f.ProjectID != "" {
		addCondition("t.project_id = $%d", f.ProjectID)
	}
	if f.OwnerID != "" {
		addCondition("$%d::uuid = ANY(t.owners)", f.OwnerID)
	}
	if f.Status != "" {
		addCondition("t.status = $%d", f.Status)
	}
	if len(f.Tags) > 0 {
		addCondition("t.tags && $%d::text[]", f.Tags)
	}
	if updatedSince != nil {
		addCondition("t.updated_at >= $%d", *updatedSince)
	}

	query := `
		SELECT t.id, t.name, t.project_id::text, t.team_id::text, t.owners::text[], t.tags,
		       t.time_to_complete, t.status, t.created_at, t.updated_at,
		       p.name, p.description, tm.name, tm.description
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		JOIN teams tm ON tm.id = t.team_id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY t.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.TaskDetail, 0)
	for rows.Next() {
		var d model.TaskDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.ProjectID, &d.TeamID, &d.Owners, &d.Tags,
			&d.TimeToComplete, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.Project.Name, &d.Project.Description, &d.Team.Name, &d.Team.Description); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		d.Project.ID = d.ProjectID
		d.Team.ID = d.TeamID
		tasks = append(tasks, d)
	}
	return tasks, rows.Err()
}

// Pending returns every task not yet completed.
func (r *TaskRepository) Pending(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, project_id::text, team_id::text, owners::text[], tags,
		        time_to_complete, status, created_at, updated_at
		 FROM tasks WHERE status = ANY($1) ORDER BY created_at DESC`,
		[]string{model.StatusToDo, model.StatusInProgress, model.StatusBlocked})
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.ProjectID, &t.TeamID, &t.Owners, &t.Tags,
			&t.TimeToComplete, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ClosedSummary aggregates completed-task counts by team, project and
// owner name.
func (r *TaskRepository) ClosedSummary(ctx context.Context) (model.ClosedTasksReport, error) {
	report := model.ClosedTasksReport{
		ByTeam:    map[string]int{},
		ByProject: map[string]int{},
		ByOwner:   map[string]int{},
	}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = $1`, model.StatusCompleted).
		Scan(&report.TotalCompleted)
	if err != nil {
		return model.ClosedTasksReport{}, fmt.Errorf("count completed tasks: %w", err)
	}

	if err := r.groupCounts(ctx, report.ByTeam, `
		SELECT tm.name, COUNT(*)
		FROM tasks t JOIN teams tm ON tm.id = t.team_id
		WHERE t.status = $1 GROUP BY tm.name`); err != nil {
		return model.ClosedTasksReport{}, err
	}

	if err := r.groupCounts(ctx, report.ByProject, `
		SELECT p.name, COUNT(*)
		FROM tasks t JOIN projects p ON p.id = t.project_id
		WHERE t.status = $1 GROUP BY p.name`); err != nil {
		return model.ClosedTasksReport{}, err
	}

	if err := r.groupCounts(ctx, report.ByOwner, `
		SELECT u.name, COUNT(*)
		FROM tasks t, unnest(t.owners) AS owner_id
		JOIN users u ON u.id = owner_id
		WHERE t.status = $1 GROUP BY u.name`); err != nil {
		return model.ClosedTasksReport{}, err
	}

	return report, nil
}

func (r *TaskRepository) groupCounts(ctx context.Context, into map[string]int, query string) error {
	rows, err := r.pool.Query(ctx, query, model.StatusCompleted)
	if err != nil {
		return fmt.Errorf("group completed tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return fmt.Errorf("scan group count: %w", err)
		}
		into[name] = count
	}
	return rows.Err()
}
