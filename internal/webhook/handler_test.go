package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/webhook"
	"markdown-todo-sync/pkg/response"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockTrigger struct {
	revisions []string
	err       error
}

func (m *mockTrigger) Trigger(revision string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.revisions = append(m.revisions, revision)
	return "run-1", nil
}

const secret = "s3cret"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func pushPayload(repo, ref, sha string) string {
	return `{"ref":"` + ref + `","after":"` + sha + `","repository":{"full_name":"` + repo + `"},"pusher":{"name":"octocat"},"head_commit":{"id":"` + sha + `"}}`
}

func newHandler(trigger *mockTrigger, rateLimit int) *webhook.Handler {
	return webhook.NewHandler(
		trigger,
		webhook.SecurityConfig{Secret: secret, RateLimitPerMin: rateLimit},
		webhook.FilterConfig{Repository: "acme/docs", Branch: "main"},
		&mockLogger{},
	)
}

func doGitHub(h *webhook.Handler, event, delivery, body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
	c.Request.Header.Set(webhook.HeaderEvent, event)
	c.Request.Header.Set(webhook.HeaderDelivery, delivery)
	c.Request.Header.Set(webhook.HeaderSignature, signature)
	h.HandleGitHubWebhook(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	data, _ := resp.Data.(map[string]any)
	return data
}

func TestHandleGitHubWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("push to tracked branch starts sync", func(t *testing.T) {
		trigger := &mockTrigger{}
		body := pushPayload("Acme/Docs", "refs/heads/main", "abc123")

		w := doGitHub(newHandler(trigger, 0), "push", "d-1", body, sign(body))

		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
		if len(trigger.revisions) != 1 || trigger.revisions[0] != "abc123" {
			t.Errorf("unexpected triggers %v", trigger.revisions)
		}
		data := decode(t, w)
		if data["run_id"] != "run-1" || data["status"] != "accepted" {
			t.Errorf("run id missing: %s", w.Body.String())
		}
		startedAt, _ := data["started_at"].(string)
		if _, err := time.Parse(time.RFC3339, startedAt); err != nil {
			t.Errorf("started_at %q: %v", startedAt, err)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		trigger := &mockTrigger{}
		body := pushPayload("acme/docs", "refs/heads/main", "abc123")

		w := doGitHub(newHandler(trigger, 0), "push", "d-1", body, sign("other"))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if len(trigger.revisions) != 0 {
			t.Error("sync started on bad signature")
		}
	})

	t.Run("ignored pushes", func(t *testing.T) {
		tests := []struct {
			name   string
			body   string
			reason string
		}{
			{"other branch", pushPayload("acme/docs", "refs/heads/feature", "abc"), "branch not tracked"},
			{"other repo", pushPayload("acme/site", "refs/heads/main", "abc"), "repository not tracked"},
			{"deleted branch", `{"ref":"refs/heads/main","deleted":true,"after":"0000","repository":{"full_name":"acme/docs"},"head_commit":null}`, "branch deleted"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				trigger := &mockTrigger{}
				w := doGitHub(newHandler(trigger, 0), "push", "d-1", tt.body, sign(tt.body))
				if w.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d", w.Code)
				}
				if got := decode(t, w)["reason"]; got != tt.reason {
					t.Errorf("reason = %v, want %s", got, tt.reason)
				}
				if len(trigger.revisions) != 0 {
					t.Error("sync started for ignored push")
				}
			})
		}
	})

	t.Run("ping and unsupported events", func(t *testing.T) {
		trigger := &mockTrigger{}
		h := newHandler(trigger, 0)

		w := doGitHub(h, "ping", "d-1", `{"zen":"hi"}`, sign(`{"zen":"hi"}`))
		if w.Code != http.StatusOK || decode(t, w)["status"] != "pong" {
			t.Errorf("unexpected ping response %d %s", w.Code, w.Body.String())
		}

		w = doGitHub(h, "issues", "d-2", `{}`, sign(`{}`))
		if w.Code != http.StatusOK || decode(t, w)["status"] != "ignored" {
			t.Errorf("unexpected issues response %d %s", w.Code, w.Body.String())
		}
		if len(trigger.revisions) != 0 {
			t.Error("sync started for non-push event")
		}
	})

	t.Run("duplicate delivery", func(t *testing.T) {
		trigger := &mockTrigger{}
		h := newHandler(trigger, 0)
		body := pushPayload("acme/docs", "refs/heads/main", "abc123")

		doGitHub(h, "push", "d-1", body, sign(body))
		w := doGitHub(h, "push", "d-1", body, sign(body))

		if w.Code != http.StatusOK || decode(t, w)["reason"] != "duplicate delivery" {
			t.Errorf("unexpected duplicate response %d %s", w.Code, w.Body.String())
		}
		if len(trigger.revisions) != 1 {
			t.Errorf("expected a single run, got %v", trigger.revisions)
		}
	})

	t.Run("busy runner", func(t *testing.T) {
		trigger := &mockTrigger{err: todo.ErrRunInProgress}
		h := newHandler(trigger, 0)
		body := pushPayload("acme/docs", "refs/heads/main", "abc123")

		w := doGitHub(h, "push", "d-1", body, sign(body))
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}

		// A rejected delivery can be redelivered.
		trigger.err = nil
		w = doGitHub(h, "push", "d-1", body, sign(body))
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected redelivery to be accepted, got %d", w.Code)
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		trigger := &mockTrigger{}
		h := newHandler(trigger, 10) // burst of 1
		body := `{}`

		doGitHub(h, "issues", "d-1", body, sign(body))
		w := doGitHub(h, "issues", "d-2", body, sign(body))
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", w.Code)
		}
	})
}

func TestHandleGitHubWebhook_AllowedIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(trustedProxies []string, remote string, headers map[string]string) (*httptest.ResponseRecorder, *mockTrigger) {
		trigger := &mockTrigger{}
		h := webhook.NewHandler(
			trigger,
			webhook.SecurityConfig{Secret: secret, AllowedIPs: []string{"140.82.112.0/20"}},
			webhook.FilterConfig{Repository: "acme/docs", Branch: "main"},
			&mockLogger{},
		)
		engine := gin.New()
		if err := engine.SetTrustedProxies(trustedProxies); err != nil {
			t.Fatalf("SetTrustedProxies: %v", err)
		}
		engine.POST("/webhook/github", h.HandleGitHubWebhook)

		body := pushPayload("acme/docs", "refs/heads/main", "abc123")
		req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
		req.RemoteAddr = remote
		req.Header.Set(webhook.HeaderEvent, "push")
		req.Header.Set(webhook.HeaderDelivery, "d-1")
		req.Header.Set(webhook.HeaderSignature, sign(body))
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w, trigger
	}

	t.Run("forged forwarding headers are ignored", func(t *testing.T) {
		w, trigger := serve(nil, "203.0.113.9:4444", map[string]string{
			"X-Forwarded-For": "140.82.112.1",
			"X-Real-IP":       "140.82.112.1",
		})
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
		}
		if len(trigger.revisions) != 0 {
			t.Error("sync started for a non-whitelisted peer")
		}
	})

	t.Run("direct peer in range", func(t *testing.T) {
		w, _ := serve(nil, "140.82.115.20:4444", nil)
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("forwarded by a trusted proxy", func(t *testing.T) {
		w, _ := serve([]string{"127.0.0.1"}, "127.0.0.1:5000", map[string]string{
			"X-Forwarded-For": "140.82.112.1",
		})
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestHandleManualSync(t *testing.T) {
	gin.SetMode(gin.TestMode)

	do := func(h *webhook.Handler, token, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request.Header.Set(webhook.HeaderSyncToken, token)
		h.HandleManualSync(c)
		return w
	}

	t.Run("with revision", func(t *testing.T) {
		trigger := &mockTrigger{}
		w := do(newHandler(trigger, 0), secret, `{"revision":"v1.2.0"}`)
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
		if len(trigger.revisions) != 1 || trigger.revisions[0] != "v1.2.0" {
			t.Errorf("unexpected triggers %v", trigger.revisions)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		trigger := &mockTrigger{}
		w := do(newHandler(trigger, 0), secret, "")
		if w.Code != http.StatusAccepted || trigger.revisions[0] != "" {
			t.Fatalf("unexpected result %d %v", w.Code, trigger.revisions)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		trigger := &mockTrigger{}
		w := do(newHandler(trigger, 0), "wrong", "")
		if w.Code != http.StatusUnauthorized || len(trigger.revisions) != 0 {
			t.Fatalf("unexpected result %d %v", w.Code, trigger.revisions)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		w := do(newHandler(&mockTrigger{}, 0), secret, `{"revision":`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
