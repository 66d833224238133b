package todo

import "errors"

// Domain-specific errors for the todo package.
var (
	ErrMissingRepository = errors.New("tracker repository is not configured")
	ErrMissingToken      = errors.New("tracker token is not configured")
	ErrMissingRoot       = errors.New("scan root is empty")
	ErrRunInProgress     = errors.New("a sync run is already in progress")
)
