// Package sqlite implements the tabular store contract on SQLite via
// database/sql. SQL text is assembled from the query structs; table and
// column names come from the fixed configuration in internal/types, not
// from user input.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kodiack/clair/internal/store"
)

// SQLiteStore implements store.Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store backend.
// The special path ":memory:" creates an in-memory database (useful for
// tests); in that mode the connection pool is pinned to a single
// connection so every caller sees the same database.
func New(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Select runs a filtered select and returns the matching rows.
func (s *SQLiteStore) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, q.Table)

	where, args, err := buildWhere(q.Where)
	if err != nil {
		return nil, err
	}
	sb.WriteString(where)

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", q.Table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var result []store.Row
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(store.Row, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// Update applies the patch to every row matching the predicates and
// returns the number of rows changed.
func (s *SQLiteStore) Update(ctx context.Context, table string, patch store.Row, where []store.Cond) (int64, error) {
	if len(patch) == 0 {
		return 0, fmt.Errorf("empty patch for table %s", table)
	}

	// Deterministic column order keeps statements stable across runs
	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
		args = append(args, patch[col])
	}

	whereSQL, whereArgs, err := buildWhere(where)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), whereSQL)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, err)
	}
	return result.RowsAffected()
}

// Insert stores a new record and returns it. A uuid identifier is
// minted when the record does not carry one.
func (s *SQLiteStore) Insert(ctx context.Context, table string, record store.Row) (store.Row, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("empty record for table %s", table)
	}

	created := make(store.Row, len(record)+1)
	for col, v := range record {
		created[col] = v
	}
	if created.Text("id") == "" {
		created["id"] = uuid.New().String()
	}

	cols := make([]string, 0, len(created))
	for col := range created {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		args[i] = created[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return created, nil
}

// Delete removes every row matching the predicates and returns the
// number of rows removed. The pipeline itself never deletes items;
// this exists for the maintenance scripts built on the same store.
func (s *SQLiteStore) Delete(ctx context.Context, table string, where []store.Cond) (int64, error) {
	whereSQL, args, err := buildWhere(where)
	if err != nil {
		return 0, err
	}
	if whereSQL == "" {
		return 0, fmt.Errorf("refusing to delete from %s without predicates", table)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+whereSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func buildWhere(conds []store.Cond) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		switch c.Op {
		case store.OpEq:
			clauses = append(clauses, c.Column+" = ?")
			args = append(args, c.Value)
		case store.OpLike:
			clauses = append(clauses, c.Column+" LIKE ?")
			args = append(args, c.Value)
		case store.OpIn:
			values, ok := c.Value.([]string)
			if !ok || len(values) == 0 {
				return "", nil, fmt.Errorf("IN predicate on %s requires values", c.Column)
			}
			placeholders := make([]string, len(values))
			for i, v := range values {
				placeholders[i] = "?"
				args = append(args, v)
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", c.Column, strings.Join(placeholders, ", ")))
		case store.OpIsNull:
			// The capture stage writes NULL and '' interchangeably
			clauses = append(clauses, fmt.Sprintf("(%s IS NULL OR %s = '')", c.Column, c.Column))
		default:
			return "", nil, fmt.Errorf("unsupported predicate operator: %s", c.Op)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}
