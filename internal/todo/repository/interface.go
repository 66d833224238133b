package repository

import (
	"context"

	"markdown-todo-sync/internal/model"
)

// TrackerRepository is the issue tracker the reconciler drives.
type TrackerRepository interface {
	// ListLabels returns every label name, following pagination to the end.
	ListLabels(ctx context.Context) ([]string, error)
	CreateLabel(ctx context.Context, name string) error
	CreateIssue(ctx context.Context, opt CreateIssueOptions) (int, error)
	// UpdateIssue returns ErrIssueNotFound when the issue no longer exists.
	UpdateIssue(ctx context.Context, opt UpdateIssueOptions) error
	CloseIssue(ctx context.Context, number int) error
}

// StateRepository persists the identity -> issue mapping between runs.
type StateRepository interface {
	// Load returns an empty state when nothing was saved yet.
	Load(ctx context.Context) (model.State, error)
	Save(ctx context.Context, state model.State) error
}

// CalendarRepository mirrors due dates into a calendar. Optional.
type CalendarRepository interface {
	UpsertDueEvent(ctx context.Context, opt DueEventOptions) error
	DeleteDueEvent(ctx context.Context, taskID string) error
}
