package repository

import "markdown-todo-sync/internal/model"

// CreateIssueOptions holds the parameters for opening an issue.
type CreateIssueOptions struct {
	Title  string
	Body   string
	Labels []string
}

// UpdateIssueOptions holds the full desired state of an existing issue.
type UpdateIssueOptions struct {
	Number int
	Title  string
	Body   string
	Labels []string
	State  model.IssueState
}

// DueEventOptions describes the calendar entry for a task with a due date.
type DueEventOptions struct {
	TaskID   string
	Title    string
	Due      string // YYYY-MM-DD
	IssueURL string
	Source   string // permalink to the markdown line
}
