package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// Client is the HTTP wrapper for the GitHub REST API, scoped to one repository.
type Client struct {
	baseURL    string
	token      string
	repository string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new GitHub HTTP client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		repository: cfg.Repository,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
	}
}

// ListLabels fetches one page of labels via GET /repos/{repo}/labels.
func (c *Client) ListLabels(ctx context.Context, page, perPage int) ([]Label, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	path := fmt.Sprintf("/repos/%s/labels?per_page=%d&page=%d", c.repository, perPage, page)

	var labels []Label
	if err := c.do(ctx, http.MethodGet, path, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates a label via POST /repos/{repo}/labels.
func (c *Client) CreateLabel(ctx context.Context, req CreateLabelRequest) (*Label, error) {
	path := fmt.Sprintf("/repos/%s/labels", c.repository)

	var label Label
	if err := c.do(ctx, http.MethodPost, path, req, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// CreateIssue opens an issue via POST /repos/{repo}/issues.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*Issue, error) {
	path := fmt.Sprintf("/repos/%s/issues", c.repository)

	var issue Issue
	if err := c.do(ctx, http.MethodPost, path, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue edits an issue via PATCH /repos/{repo}/issues/{number}.
func (c *Client) UpdateIssue(ctx context.Context, number int, req UpdateIssueRequest) (*Issue, error) {
	path := fmt.Sprintf("/repos/%s/issues/%d", c.repository, number)

	var issue Issue
	if err := c.do(ctx, http.MethodPatch, path, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("github rate limiter: %w", err)
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewBuffer(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	httpReq.Header.Set("Accept", headerAccept)
	httpReq.Header.Set("X-GitHub-Api-Version", headerAPIVersion)
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call github %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode github %s %s response: %w", method, path, err)
	}
	return nil
}
