package model

// ErrorResponse is the uniform failure envelope:
// {"error":{"message":"...","code":"..."}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type LastWeekReport struct {
	Count int          `json:"count"`
	Tasks []TaskDetail `json:"tasks"`
}

type PendingReport struct {
	TotalDays int    `json:"totalDays"`
	TaskCount int    `json:"taskCount"`
	Tasks     []Task `json:"tasks"`
}

type ClosedTasksReport struct {
	ByTeam         map[string]int `json:"byTeam"`
	ByProject      map[string]int `json:"byProject"`
	ByOwner        map[string]int `json:"byOwner"`
	TotalCompleted int            `json:"totalCompleted"`
}

type HealthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Users     int    `json:"users,omitempty"`
	Teams     int    `json:"teams,omitempty"`
	Projects  int    `json:"projects,omitempty"`
	Tasks     int    `json:"tasks,omitempty"`
	Error     string `json:"error,omitempty"`
}
