package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"workasana/internal/model"
	"workasana/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError converts domain errors into the uniform envelope
// {"error":{"message","code"}}. Anything unclassified is logged and
// surfaced as a generic 500; internals never reach the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorBody{
		Message: "Unexpected server error",
		Code:    "INTERNAL_ERROR",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_EMAIL"
		body.Message = "User already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusBadRequest
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "USER_NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrTeamNotFound) {
		status = http.StatusBadRequest
		body.Code = "TEAM_NOT_FOUND"
		body.Message = "Team not found"
	} else if errors.Is(err, model.ErrProjectNotFound) {
		status = http.StatusBadRequest
		body.Code = "PROJECT_NOT_FOUND"
		body.Message = "Project not found"
	} else if errors.Is(err, model.ErrTaskNotFound) {
		status = http.StatusNotFound
		body.Code = "TASK_NOT_FOUND"
		body.Message = "Task not found"
	} else if errors.Is(err, model.ErrTeamExists) {
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_TEAM"
		body.Message = "Team name already exists"
	} else if errors.Is(err, model.ErrProjectExists) {
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_PROJECT"
		body.Message = "Project name already exists"
	} else if errors.Is(err, model.ErrTagExists) {
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_TAG"
		body.Message = "Tag already exists"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
