package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"markdown-todo-sync/internal/checklist"
	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/todo/repository"
	"markdown-todo-sync/internal/todo/usecase"
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

type fakeIssue struct {
	Title  string
	Body   string
	Labels []string
	State  model.IssueState
}

// fakeTracker is an in-memory issue tracker.
type fakeTracker struct {
	labels      []string
	issues      map[int]*fakeIssue
	next        int
	writes      int
	listErr     error
	labelErr    map[string]error
	createErr   error
	updateErr   error
	closeErr    error
	closedCalls []int
}

func newFakeTracker(labels ...string) *fakeTracker {
	return &fakeTracker{labels: labels, issues: map[int]*fakeIssue{}, labelErr: map[string]error{}}
}

func (f *fakeTracker) ListLabels(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string{}, f.labels...), nil
}

func (f *fakeTracker) CreateLabel(ctx context.Context, name string) error {
	f.writes++
	if err := f.labelErr[name]; err != nil {
		return err
	}
	f.labels = append(f.labels, name)
	return nil
}

func (f *fakeTracker) CreateIssue(ctx context.Context, opt repository.CreateIssueOptions) (int, error) {
	f.writes++
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.next++
	f.issues[f.next] = &fakeIssue{Title: opt.Title, Body: opt.Body, Labels: opt.Labels, State: model.IssueStateOpen}
	return f.next, nil
}

func (f *fakeTracker) UpdateIssue(ctx context.Context, opt repository.UpdateIssueOptions) error {
	f.writes++
	if f.updateErr != nil {
		return f.updateErr
	}
	issue, ok := f.issues[opt.Number]
	if !ok {
		return fmt.Errorf("issue #%d: %w", opt.Number, repository.ErrIssueNotFound)
	}
	issue.Title, issue.Body, issue.Labels, issue.State = opt.Title, opt.Body, opt.Labels, opt.State
	return nil
}

func (f *fakeTracker) CloseIssue(ctx context.Context, number int) error {
	f.writes++
	f.closedCalls = append(f.closedCalls, number)
	if f.closeErr != nil {
		return f.closeErr
	}
	issue, ok := f.issues[number]
	if !ok {
		return fmt.Errorf("issue #%d: %w", number, repository.ErrIssueNotFound)
	}
	issue.State = model.IssueStateClosed
	return nil
}

// memState keeps state in memory and counts saves.
type memState struct {
	state   model.State
	saves   int
	loadErr error
	saveErr error
}

func (m *memState) Load(ctx context.Context) (model.State, error) {
	if m.loadErr != nil {
		return model.State{}, m.loadErr
	}
	return m.state.Clone(), nil
}

func (m *memState) Save(ctx context.Context, state model.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = state.Clone()
	return nil
}

type fakeCalendar struct {
	upserts []repository.DueEventOptions
	deletes []string
	err     error
}

func (f *fakeCalendar) UpsertDueEvent(ctx context.Context, opt repository.DueEventOptions) error {
	f.upserts = append(f.upserts, opt)
	return f.err
}

func (f *fakeCalendar) DeleteDueEvent(ctx context.Context, taskID string) error {
	f.deletes = append(f.deletes, taskID)
	return f.err
}

var errBoom = errors.New("boom")

// writeDoc writes content to root/rel, creating parent directories.
func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newUseCase(tracker *fakeTracker, state *memState, calendar repository.CalendarRepository) todo.UseCase {
	return usecase.New(
		&mockLogger{},
		checklist.New(checklist.Options{}),
		tracker,
		state,
		calendar,
		usecase.Config{Repository: "acme/docs", Revision: "abc123"},
	)
}
