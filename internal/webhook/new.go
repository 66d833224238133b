package webhook

import (
	"strings"

	"markdown-todo-sync/internal/model"
	pkgLog "markdown-todo-sync/pkg/log"
)

// Trigger starts a background sync run.
type Trigger interface {
	Trigger(revision string) (runID string, err error)
}

type Handler struct {
	trigger      Trigger
	security     *SecurityValidator
	githubParser *GitHubWebhookParser
	filter       FilterConfig
	l            pkgLog.Logger
}

func NewHandler(
	trigger Trigger,
	securityConfig SecurityConfig,
	filter FilterConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		trigger:      trigger,
		security:     NewSecurityValidator(securityConfig),
		githubParser: NewGitHubParser(),
		filter:       filter,
		l:            l,
	}
}

// accepts reports whether a push should trigger a sync, and why not otherwise.
func (h *Handler) accepts(event *model.WebhookEvent) (bool, string) {
	if event.Commit == "" {
		return false, "branch deleted"
	}
	if h.filter.Repository != "" && !strings.EqualFold(event.Repository, h.filter.Repository) {
		return false, "repository not tracked"
	}
	if h.filter.Branch != "" && event.Branch != h.filter.Branch {
		return false, "branch not tracked"
	}
	return true, ""
}
