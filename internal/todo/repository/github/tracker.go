package github

import (
	"context"
	"errors"
	"fmt"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo/repository"
	pkgGitHub "markdown-todo-sync/pkg/github"
	pkgLog "markdown-todo-sync/pkg/log"
)

// Client is the subset of the GitHub API client the tracker needs.
type Client interface {
	ListLabels(ctx context.Context, page, perPage int) ([]pkgGitHub.Label, error)
	CreateLabel(ctx context.Context, req pkgGitHub.CreateLabelRequest) (*pkgGitHub.Label, error)
	CreateIssue(ctx context.Context, req pkgGitHub.CreateIssueRequest) (*pkgGitHub.Issue, error)
	UpdateIssue(ctx context.Context, number int, req pkgGitHub.UpdateIssueRequest) (*pkgGitHub.Issue, error)
}

type implRepository struct {
	client  Client
	perPage int
	l       pkgLog.Logger
}

// New creates a TrackerRepository backed by GitHub Issues.
func New(client Client, perPage int, l pkgLog.Logger) repository.TrackerRepository {
	if perPage <= 0 {
		perPage = pkgGitHub.DefaultPerPage
	}
	return &implRepository{
		client:  client,
		perPage: perPage,
		l:       l,
	}
}

// ListLabels walks pages until GitHub returns an empty one.
func (r *implRepository) ListLabels(ctx context.Context) ([]string, error) {
	var names []string
	for page := 1; ; page++ {
		labels, err := r.client.ListLabels(ctx, page, r.perPage)
		if err != nil {
			return nil, fmt.Errorf("list labels page %d: %w", page, err)
		}
		if len(labels) == 0 {
			break
		}
		for _, label := range labels {
			names = append(names, label.Name)
		}
	}
	r.l.Debugf(ctx, "github tracker: listed %d labels", len(names))
	return names, nil
}

func (r *implRepository) CreateLabel(ctx context.Context, name string) error {
	if _, err := r.client.CreateLabel(ctx, pkgGitHub.CreateLabelRequest{Name: name}); err != nil {
		return fmt.Errorf("create label %q: %w", name, err)
	}
	return nil
}

func (r *implRepository) CreateIssue(ctx context.Context, opt repository.CreateIssueOptions) (int, error) {
	issue, err := r.client.CreateIssue(ctx, pkgGitHub.CreateIssueRequest{
		Title:  opt.Title,
		Body:   opt.Body,
		Labels: nonNil(opt.Labels),
	})
	if err != nil {
		return 0, fmt.Errorf("create issue %q: %w", opt.Title, err)
	}
	return issue.Number, nil
}

func (r *implRepository) UpdateIssue(ctx context.Context, opt repository.UpdateIssueOptions) error {
	labels := nonNil(opt.Labels)
	state := string(opt.State)

	_, err := r.client.UpdateIssue(ctx, opt.Number, pkgGitHub.UpdateIssueRequest{
		Title:  &opt.Title,
		Body:   &opt.Body,
		Labels: &labels,
		State:  &state,
	})
	return r.mapError(opt.Number, err)
}

func (r *implRepository) CloseIssue(ctx context.Context, number int) error {
	state := string(model.IssueStateClosed)
	_, err := r.client.UpdateIssue(ctx, number, pkgGitHub.UpdateIssueRequest{State: &state})
	return r.mapError(number, err)
}

func (r *implRepository) mapError(number int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pkgGitHub.ErrNotFound) {
		return fmt.Errorf("issue #%d: %w", number, repository.ErrIssueNotFound)
	}
	return fmt.Errorf("issue #%d: %w", number, err)
}

// nonNil keeps "labels": [] on the wire so GitHub clears removed labels.
func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
