package model

import "errors"

var (
	// Identity errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Collaboration entity errors
	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamExists      = errors.New("team name already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project name already exists")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTagExists       = errors.New("tag already exists")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
