// Package mysql implements service.Service on a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"taskmgr/internal/config"
	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

// APITimeout is the timeout for each statement.
const APITimeout = 5 * time.Second

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store implements service.Service on one table.
type Store struct {
	db    *sql.DB
	table string
}

// New opens the database named by the mysql section of cfg and creates the
// table if it does not exist.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("mysql.dsn is required")
	}
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql.dsn: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	s, err := NewWithDB(db, cfg.MySQL.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an open database (for testing). No migration is run.
func NewWithDB(db *sql.DB, table string) (*Store, error) {
	if table == "" {
		table = "tasks"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	return &Store{db: db, table: table}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// ListAll returns every row ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, title, description FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, service.NewRemoteError("list", err)
	}
	defer rows.Close()

	var out []service.Task
	for rows.Next() {
		var t service.Task
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &desc); err != nil {
			return nil, service.NewRemoteError("list", err)
		}
		t.Description = desc.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, service.NewRemoteError("list", err)
	}

	logging.FromContext(ctx).Debug("rows listed", "backend", "mysql", "count", len(out))
	return out, nil
}

// Insert adds a row; the id comes from AUTO_INCREMENT.
func (s *Store) Insert(ctx context.Context, f service.Fields) error {
	return s.exec(ctx, "insert",
		fmt.Sprintf(`INSERT INTO %s (title, description) VALUES (?, ?)`, s.table),
		f.Title, f.Description)
}

// UpdateByID sets title and description of row id.
func (s *Store) UpdateByID(ctx context.Context, id int64, f service.Fields) error {
	return s.exec(ctx, "update",
		fmt.Sprintf(`UPDATE %s SET title = ?, description = ? WHERE id = ?`, s.table),
		f.Title, f.Description, id)
}

// DeleteByID removes row id.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	return s.exec(ctx, "delete",
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return service.NewRemoteError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		logging.FromContext(ctx).Debug("statement executed", "backend", "mysql", "op", op, "rows", n)
	}
	return nil
}
