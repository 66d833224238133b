package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo/repository"
	pkgLog "markdown-todo-sync/pkg/log"
)

// DefaultPath is where the state lives, relative to the docs root.
const DefaultPath = ".github/todos-cache.json"

type implRepository struct {
	path string
	l    pkgLog.Logger
}

// New creates a StateRepository that stores state as a JSON file at path.
func New(path string, l pkgLog.Logger) repository.StateRepository {
	return &implRepository{path: path, l: l}
}

func (r *implRepository) Load(ctx context.Context) (model.State, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.l.Infof(ctx, "jsonfile state: %s not found, starting empty", r.path)
		return model.NewState(), nil
	}
	if err != nil {
		return model.State{}, fmt.Errorf("read state %s: %w", r.path, err)
	}

	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		return model.State{}, fmt.Errorf("%w: %s: %v", repository.ErrInvalidState, r.path, err)
	}
	return state.Normalize(), nil
}

func (r *implRepository) Save(ctx context.Context, state model.State) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(state.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write state %s: %w", r.path, err)
	}

	r.l.Debugf(ctx, "jsonfile state: saved %d open, %d closed to %s", len(state.Open), len(state.Closed), r.path)
	return nil
}
