package github

import "time"

// Config configures the GitHub REST client.
type Config struct {
	BaseURL    string        // API root, e.g. https://api.github.com
	Token      string        // Bearer token
	Repository string        // owner/name
	Timeout    time.Duration // Per-request timeout, 0 disables
	RatePerSec float64       // Client-side request pacing, 0 disables
}

// Label is the GitHub label object (only the fields we use).
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is the GitHub issue object (only the fields we use).
type Issue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	State   string  `json:"state"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels"`
}

// CreateLabelRequest is the body for POST /repos/{repo}/labels.
type CreateLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CreateIssueRequest is the body for POST /repos/{repo}/issues.
type CreateIssueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// UpdateIssueRequest is the body for PATCH /repos/{repo}/issues/{number}.
// Nil fields are left untouched by GitHub.
type UpdateIssueRequest struct {
	Title  *string   `json:"title,omitempty"`
	Body   *string   `json:"body,omitempty"`
	Labels *[]string `json:"labels,omitempty"`
	State  *string   `json:"state,omitempty"`
}
