package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo/repository"
	pkgLog "markdown-todo-sync/pkg/log"
)

// DefaultPath is the database location relative to the docs root.
const DefaultPath = ".github/todos-state.db"

// Store is a StateRepository backed by a local SQLite database.
type Store struct {
	database *sql.DB
	dbPath   string
	l        pkgLog.Logger
}

var _ repository.StateRepository = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath and applies the schema.
func Open(dbPath string, l pkgLog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	database.SetMaxOpenConns(1)

	store := &Store{database: database, dbPath: dbPath, l: l}
	if err := store.migrate(context.Background()); err != nil {
		_ = database.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.database.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS open_issues (
			task_id TEXT PRIMARY KEY,
			issue_number INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS closed_tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate sqlite state: %w", err)
		}
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (model.State, error) {
	state := model.NewState()
	if err := s.loadOpen(ctx, state.Open); err != nil {
		return model.State{}, err
	}
	closed, err := s.loadClosed(ctx)
	if err != nil {
		return model.State{}, err
	}
	state.Closed = closed
	return state, nil
}

func (s *Store) loadOpen(ctx context.Context, open map[string]int) error {
	rows, err := s.database.QueryContext(ctx, `SELECT task_id, issue_number FROM open_issues`)
	if err != nil {
		return fmt.Errorf("query open issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var number int
		if err := rows.Scan(&id, &number); err != nil {
			return fmt.Errorf("%w: open issue row: %v", repository.ErrInvalidState, err)
		}
		open[id] = number
	}
	return rows.Err()
}

func (s *Store) loadClosed(ctx context.Context) ([]string, error) {
	rows, err := s.database.QueryContext(ctx, `SELECT task_id FROM closed_tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query closed tasks: %w", err)
	}
	defer rows.Close()

	closed := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: closed task row: %v", repository.ErrInvalidState, err)
		}
		closed = append(closed, id)
	}
	return closed, rows.Err()
}

// Save replaces the stored state in a single transaction.
func (s *Store) Save(ctx context.Context, state model.State) error {
	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin state transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM open_issues`); err != nil {
		return fmt.Errorf("clear open issues: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM closed_tasks`); err != nil {
		return fmt.Errorf("clear closed tasks: %w", err)
	}

	for id, number := range state.Open {
		if _, err := tx.ExecContext(ctx, `INSERT INTO open_issues (task_id, issue_number) VALUES (?, ?)`, id, number); err != nil {
			return fmt.Errorf("insert open issue %s: %w", id, err)
		}
	}
	for _, id := range state.Closed {
		if _, err := tx.ExecContext(ctx, `INSERT INTO closed_tasks (task_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("insert closed task %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state transaction: %w", err)
	}

	s.l.Debugf(ctx, "sqlite state: saved %d open, %d closed to %s", len(state.Open), len(state.Closed), s.dbPath)
	return nil
}
