package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"markdown-todo-sync/internal/model"
)

// GitHubWebhookParser parses GitHub webhook payloads
type GitHubWebhookParser struct{}

func NewGitHubParser() *GitHubWebhookParser {
	return &GitHubWebhookParser{}
}

// ParsePushEvent parses GitHub push event. Commit is empty when the push deleted the branch.
func (p *GitHubWebhookParser) ParsePushEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Ref        string `json:"ref"`
		After      string `json:"after"`
		Deleted    bool   `json:"deleted"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
		Pusher struct {
			Name string `json:"name"`
		} `json:"pusher"`
		HeadCommit *struct {
			ID string `json:"id"`
		} `json:"head_commit"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse push event: %w", err)
	}

	// Extract branch name from ref (refs/heads/main → main)
	branch, _ := strings.CutPrefix(event.Ref, "refs/heads/")

	commit := ""
	if !event.Deleted {
		commit = event.After
		if event.HeadCommit != nil && event.HeadCommit.ID != "" {
			commit = event.HeadCommit.ID
		}
	}

	return &model.WebhookEvent{
		Source:     model.SourceGitHub,
		EventType:  EventPush,
		Repository: event.Repository.FullName,
		Branch:     branch,
		Commit:     commit,
		Author:     event.Pusher.Name,
		ReceivedAt: time.Now(),
	}, nil
}
