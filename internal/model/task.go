package model

import "time"

// Task statuses. The original board uses exactly these four columns.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusBlocked    = "Blocked"
	StatusCompleted  = "Completed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ProjectID      string    `json:"projectId"`
	TeamID         string    `json:"teamId"`
	Owners         []string  `json:"owners"`
	Tags           []string  `json:"tags"`
	TimeToComplete int       `json:"timeToComplete"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TaskDetail is a Task with its references expanded for list views.
type TaskDetail struct {
	Task
	Project      ProjectRef   `json:"project"`
	Team         TeamRef      `json:"team"`
	OwnerDetails []PublicUser `json:"ownerDetails"`
}

type ProjectRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TeamRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaskFilter narrows task listings. Zero values mean "no constraint".
type TaskFilter struct {
	TeamID    string
	OwnerID   string
	ProjectID string
	Status    string
	Tags      []string
}
