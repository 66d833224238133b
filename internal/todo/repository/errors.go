package repository

import "errors"

var (
	ErrIssueNotFound = errors.New("issue not found")
	ErrInvalidState  = errors.New("persisted state is malformed")
)
