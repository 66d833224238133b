package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"markdown-todo-sync/pkg/github"
)

func TestGitHubClient(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/acme/docs/labels", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("per_page") != "100" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.URL.Query().Get("page") == "1" {
				json.NewEncoder(w).Encode([]github.Label{{ID: 1, Name: "bug"}, {ID: 2, Name: "from-markdown"}})
				return
			}
			json.NewEncoder(w).Encode([]github.Label{})
		case http.MethodPost:
			var req github.CreateLabelRequest
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(github.Label{ID: 3, Name: req.Name})
		}
	})

	mux.HandleFunc("/repos/acme/docs/issues", func(w http.ResponseWriter, r *http.Request) {
		var req github.CreateIssueRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Title == "fail" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Validation Failed"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(github.Issue{Number: 42, Title: req.Title, State: "open"})
	})

	mux.HandleFunc("/repos/acme/docs/issues/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["title"]; ok {
			t.Errorf("state-only update should not send title: %v", raw)
		}
		json.NewEncoder(w).Encode(github.Issue{Number: 42, State: raw["state"].(string)})
	})

	mux.HandleFunc("/repos/acme/docs/issues/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := github.NewClient(github.Config{BaseURL: ts.URL, Token: "test-token", Repository: "acme/docs"})
	ctx := context.Background()

	t.Run("ListLabels", func(t *testing.T) {
		labels, err := client.ListLabels(ctx, 1, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(labels) != 2 || labels[1].Name != "from-markdown" {
			t.Errorf("unexpected labels: %+v", labels)
		}

		empty, err := client.ListLabels(ctx, 2, 100)
		if err != nil || len(empty) != 0 {
			t.Errorf("expected empty page, got %+v, %v", empty, err)
		}
	})

	t.Run("CreateLabel", func(t *testing.T) {
		label, err := client.CreateLabel(ctx, github.CreateLabelRequest{Name: "core"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if label.Name != "core" {
			t.Errorf("unexpected label: %+v", label)
		}
	})

	t.Run("CreateIssue", func(t *testing.T) {
		issue, err := client.CreateIssue(ctx, github.CreateIssueRequest{Title: "Ship", Labels: []string{"core"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if issue.Number != 42 {
			t.Errorf("unexpected issue: %+v", issue)
		}

		_, err = client.CreateIssue(ctx, github.CreateIssueRequest{Title: "fail"})
		var apiErr *github.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected APIError 422, got %v", err)
		}
		if errors.Is(err, github.ErrNotFound) {
			t.Error("422 must not be reported as not found")
		}
	})

	t.Run("UpdateIssue", func(t *testing.T) {
		state := "closed"
		issue, err := client.UpdateIssue(ctx, 42, github.UpdateIssueRequest{State: &state})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if issue.State != "closed" {
			t.Errorf("unexpected state: %s", issue.State)
		}

		_, err = client.UpdateIssue(ctx, 7, github.UpdateIssueRequest{State: &state})
		if !errors.Is(err, github.ErrNotFound) {
			t.Errorf("expected ErrNotFound for 410, got %v", err)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		bad := github.NewClient(github.Config{BaseURL: ts.URL, Token: "wrong", Repository: "acme/docs"})
		if _, err := bad.ListLabels(ctx, 1, 100); err == nil {
			t.Error("expected unauthorized error")
		}
	})

	t.Run("Server Down", func(t *testing.T) {
		down := github.NewClient(github.Config{BaseURL: "http://localhost:59999", Token: "t", Repository: "acme/docs", RatePerSec: 50})
		if _, err := down.ListLabels(ctx, 1, 100); err == nil {
			t.Error("expected connection refused error")
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		paced := github.NewClient(github.Config{BaseURL: ts.URL, Token: "test-token", Repository: "acme/docs", RatePerSec: 1})
		if _, err := paced.ListLabels(cctx, 1, 100); err == nil {
			t.Error("expected error on cancelled context")
		}
	})
}
