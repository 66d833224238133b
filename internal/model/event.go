package model

import "time"

// WebhookSource represents the source platform
type WebhookSource string

const (
	SourceGitHub WebhookSource = "github"
	SourceManual WebhookSource = "manual"
)

// WebhookEvent represents a parsed webhook event that may trigger a sync run
type WebhookEvent struct {
	Source     WebhookSource // Platform source
	DeliveryID string        // X-GitHub-Delivery, used to drop redeliveries
	EventType  string        // push, ping, ...
	Repository string        // owner/name
	Branch     string        // Branch name (refs/heads/ stripped)
	Commit     string        // Head commit SHA
	Author     string        // Pusher
	ReceivedAt time.Time     // When webhook was received
}
