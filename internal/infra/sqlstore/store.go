// Package sqlstore implements domain.TaskRepository on a relational database.
// SQLite (modernc.org/sqlite) and PostgreSQL (pgx) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/runoshun/taskbot/internal/domain"
)

// sqliteBusyTimeout is how long SQLite waits on a locked database.
const sqliteBusyTimeout = 5 * time.Second

// Store implements domain.TaskRepository on database/sql.
type Store struct {
	db      *sql.DB
	dialect dialect
	timeout time.Duration
}

// Ensure Store implements the repository ports.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Open connects to the database described by cfg. The schema is not
// touched; call Initialize before use.
func Open(ctx context.Context, cfg domain.StoreConfig) (*Store, error) {
	d, ok := dialectFor(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDriver, cfg.Driver)
	}

	var dsn string
	switch cfg.Driver {
	case domain.DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite store requires a path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			cfg.Path, sqliteBusyTimeout.Milliseconds())
	case domain.DriverPostgres:
		dsn = cfg.DSN
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if d.singleWriter {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: d, timeout: cfg.Timeout.Std()}

	pingCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTimeout bounds one store operation.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

const selectColumns = `SELECT id, description, priority, owner, owner_name, created_at FROM tasks`

const orderBy = ` ORDER BY CASE priority WHEN 'High' THEN 3 WHEN 'Medium' THEN 2 ELSE 1 END DESC, created_at ASC, id ASC`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t       domain.Task
		id      int64
		created int64
		prio    string
	)
	if err := row.Scan(&id, &t.Description, &prio, &t.Owner, &t.OwnerName, &created); err != nil {
		return nil, err
	}
	t.ID = int(id)
	t.Priority = domain.Priority(prio)
	t.Created = time.Unix(0, created).UTC()
	return &t, nil
}

// Create inserts a task and returns the ID assigned by the engine.
func (s *Store) Create(ctx context.Context, task *domain.Task) (int, error) {
	if err := task.Validate(); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created := task.Created
	if created.IsZero() {
		created = time.Now()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(
		`INSERT INTO tasks (description, priority, owner, owner_name, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		task.Description, string(task.Priority), task.Owner, task.OwnerName, created.UnixNano(),
	).Scan(&id)
	if err != nil {
		return 0, domain.NewStorageError("create", err)
	}
	return int(id), nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id int) (*domain.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	task, err := scanTask(s.db.QueryRowContext(ctx, s.dialect.rebind(selectColumns+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("get", err)
	}
	return task, nil
}

// List retrieves tasks matching the filter in listing order.
func (s *Store) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := selectColumns
	var args []any
	if filter.Owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, filter.Owner)
	}
	query += orderBy

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, domain.NewStorageError("list", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	return tasks, nil
}

// UpdateDescription replaces the description. Returns false if no task matched.
func (s *Store) UpdateDescription(ctx context.Context, id int, owner, description string) (bool, error) {
	return s.update(ctx, "update description", `UPDATE tasks SET description = ?`, description, id, owner)
}

// UpdatePriority replaces the priority. Returns false if no task matched.
func (s *Store) UpdatePriority(ctx context.Context, id int, owner string, priority domain.Priority) (bool, error) {
	if !priority.IsValid() {
		return false, domain.ErrInvalidPriority
	}
	return s.update(ctx, "update priority", `UPDATE tasks SET priority = ?`, string(priority), id, owner)
}

// Update applies the set fields of upd in a single statement.
func (s *Store) Update(ctx context.Context, id int, owner string, upd domain.TaskUpdate) (bool, error) {
	if upd.IsEmpty() {
		return false, domain.ErrNoFieldsToUpdate
	}
	if upd.Priority != nil && !upd.Priority.IsValid() {
		return false, domain.ErrInvalidPriority
	}

	var sets []string
	var args []any
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*upd.Priority))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args := scoped(`UPDATE tasks SET `+strings.Join(sets, ", "), args, id, owner)
	return s.exec(ctx, "update", query, args)
}

// Delete removes a task. Returns false if no task matched.
func (s *Store) Delete(ctx context.Context, id int, owner string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args := scoped(`DELETE FROM tasks`, nil, id, owner)
	return s.exec(ctx, "delete", query, args)
}

func (s *Store) update(ctx context.Context, op, set string, value any, id int, owner string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args := scoped(set, []any{value}, id, owner)
	return s.exec(ctx, op, query, args)
}

func (s *Store) exec(ctx context.Context, op, query string, args []any) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return false, domain.NewStorageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError(op, err)
	}
	return n > 0, nil
}

// scoped appends the id and optional owner condition to a mutation.
func scoped(stmt string, args []any, id int, owner string) (string, []any) {
	stmt += ` WHERE id = ?`
	args = append(args, id)
	if owner != "" {
		stmt += ` AND owner = ?`
		args = append(args, owner)
	}
	return stmt, args
}
