package model

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateTaskRequest struct {
	Name           string   `json:"name"`
	ProjectID      string   `json:"projectId"`
	TeamID         string   `json:"teamId"`
	Owners         []string `json:"owners"`
	Tags           []string `json:"tags"`
	TimeToComplete int      `json:"timeToComplete"`
}

// UpdateTaskRequest carries partial updates; nil fields are untouched.
type UpdateTaskRequest struct {
	Name           *string   `json:"name"`
	ProjectID      *string   `json:"projectId"`
	TeamID         *string   `json:"teamId"`
	Owners         *[]string `json:"owners"`
	Tags           *[]string `json:"tags"`
	TimeToComplete *int      `json:"timeToComplete"`
	Status         *string   `json:"status"`
}

type CreateTagRequest struct {
	Name string `json:"name"`
}
