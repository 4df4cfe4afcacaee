package service

import (
	"context"
	"time"

	"workasana/internal/model"
)

type ReportStore interface {
	CompletedSince(ctx context.Context, since time.Time) ([]model.TaskDetail, error)
	Pending(ctx context.Context) ([]model.Task, error)
	ClosedSummary(ctx context.Context) (model.ClosedTasksReport, error)
}

// ReportService is a thin read-side aggregator over the task store.
type ReportService struct {
	tasks ReportStore
	users OwnerResolver
	now   func() time.Time
}

func NewReportService(tasks ReportStore, users OwnerResolver) *ReportService {
	return &ReportService{tasks: tasks, users: users, now: time.Now}
}

func (s *ReportService) LastWeek(ctx context.Context) (model.LastWeekReport, error) {
	since := s.now().UTC().AddDate(0, 0, -7)
	tasks, err := s.tasks.CompletedSince(ctx, since)
	if err != nil {
		return model.LastWeekReport{}, err
	}

	if err := resolveOwnerDetails(ctx, s.users, tasks); err != nil {
		return model.LastWeekReport{}, err
	}
	return model.LastWeekReport{Count: len(tasks), Tasks: tasks}, nil
}

func (s *ReportService) Pending(ctx context.Context) (model.PendingReport, error) {
	tasks, err := s.tasks.Pending(ctx)
	if err != nil {
		return model.PendingReport{}, err
	}

	totalDays := 0
	for _, t := range tasks {
		totalDays += t.TimeToComplete
	}
	return model.PendingReport{TotalDays: totalDays, TaskCount: len(tasks), Tasks: tasks}, nil
}

func (s *ReportService) ClosedTasks(ctx context.Context) (model.ClosedTasksReport, error) {
	return s.tasks.ClosedSummary(ctx)
}
