package webhook

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo"
	pkgResponse "markdown-todo-sync/pkg/response"
)

// HandleGitHubWebhook processes GitHub webhook events
// @Summary GitHub webhook
// @Description Verifies the HMAC signature and starts a sync for pushes to the tracked branch
// @Tags Webhook
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string true "Event type"
// @Param X-Hub-Signature-256 header string true "HMAC-SHA256 signature"
// @Param X-GitHub-Delivery header string false "Delivery id"
// @Success 200 {object} response.Resp "Ignored or duplicate"
// @Success 202 {object} response.Resp{data=webhook.RunAcceptedResponse} "Sync started"
// @Failure 401 {object} response.Resp
// @Failure 409 {object} response.Resp "A sync is already running"
// @Failure 429 {object} response.Resp
// @Router /webhook/github [post]
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.ClientIP()); err != nil {
		h.l.Warnf(ctx, "GitHub webhook rejected: %v", err)
		pkgResponse.Forbidden(c)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Verify signature
	if err := h.security.ValidateGitHubSignature(body, c.GetHeader(HeaderSignature)); err != nil {
		h.l.Errorf(ctx, "GitHub signature verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit(string(model.SourceGitHub)); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	deliveryID := c.GetHeader(HeaderDelivery)
	if h.security.SeenDelivery(deliveryID) {
		h.l.Infof(ctx, "Duplicate GitHub delivery %s ignored", deliveryID)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "duplicate delivery"})
		return
	}

	eventType := c.GetHeader(HeaderEvent)
	switch eventType {
	case EventPing:
		pkgResponse.OK(c, gin.H{"status": "pong"})
		return
	case EventPush:
	default:
		h.l.Infof(ctx, "Unsupported GitHub event type: %s", eventType)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "unsupported event type"})
		return
	}

	event, err := h.githubParser.ParsePushEvent(body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to parse GitHub event: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}
	event.DeliveryID = deliveryID

	if ok, reason := h.accepts(event); !ok {
		h.l.Infof(ctx, "GitHub push to %s@%s ignored: %s", event.Repository, event.Branch, reason)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": reason})
		return
	}

	h.start(c, event)
}

// HandleManualSync starts a sync on demand
// @Summary Trigger a sync
// @Description Starts a sync run in the background. Requires the webhook secret in X-Sync-Token.
// @Tags Sync
// @Accept json
// @Produce json
// @Param X-Sync-Token header string true "Shared secret"
// @Param request body ManualSyncRequest false "Revision override"
// @Success 202 {object} response.Resp{data=webhook.RunAcceptedResponse} "Sync started"
// @Failure 401 {object} response.Resp
// @Failure 409 {object} response.Resp "A sync is already running"
// @Failure 429 {object} response.Resp
// @Router /api/v1/sync [post]
func (h *Handler) HandleManualSync(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateToken(c.GetHeader(HeaderSyncToken)); err != nil {
		h.l.Warnf(ctx, "Manual sync rejected: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit(string(model.SourceManual)); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	var req ManualSyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			pkgResponse.Error(c, err, nil)
			return
		}
	}

	h.start(c, &model.WebhookEvent{
		Source:    model.SourceManual,
		EventType: "manual",
		Commit:    req.Revision,
	})
}

func (h *Handler) start(c *gin.Context, event *model.WebhookEvent) {
	ctx := c.Request.Context()

	runID, err := h.trigger.Trigger(event.Commit)
	if errors.Is(err, todo.ErrRunInProgress) {
		h.l.Warnf(ctx, "%s trigger rejected: %v", event.Source, err)
		pkgResponse.Conflict(c, err)
		return
	}
	if err != nil {
		h.l.Errorf(ctx, "%s trigger failed: %v", event.Source, err)
		pkgResponse.InternalError(c, err)
		return
	}

	h.security.MarkDelivery(event.DeliveryID)
	h.l.Infof(ctx, "Sync %s started from %s revision=%q", runID, event.Source, event.Commit)
	pkgResponse.Accepted(c, RunAcceptedResponse{
		Status:    "accepted",
		RunID:     runID,
		StartedAt: pkgResponse.DateTime(time.Now()),
	})
}
