package webhook

import (
	pkgResponse "markdown-todo-sync/pkg/response"
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute per source
}

// FilterConfig selects which pushes trigger a sync.
type FilterConfig struct {
	Repository string // owner/name, compared case-insensitively
	Branch     string // empty accepts every branch
}

// RunAcceptedResponse is the data of a 202 answer to a sync trigger.
type RunAcceptedResponse struct {
	Status    string               `json:"status"`
	RunID     string               `json:"run_id"`
	StartedAt pkgResponse.DateTime `json:"started_at"`
}

// ManualSyncRequest is the optional body of POST /api/v1/sync.
type ManualSyncRequest struct {
	Revision string `json:"revision"`
}

const (
	HeaderSignature = "X-Hub-Signature-256"
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderSyncToken = "X-Sync-Token"

	EventPush = "push"
	EventPing = "ping"

	maxPayloadBytes = 25 << 20
)
