package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded generation of generated.css.
type Run struct {
	ID           string
	CreatedAt    time.Time
	ThemeDir     string
	Image        string
	Mode         string
	Strategy     string
	Groups       int
	GeneratedCSS string
}

// RecordRun stores r, assigning an ID and timestamp when unset, and returns the ID.
func (s *Store) RecordRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(id, created_at, theme_dir, image, mode, strategy, groups_count, generated_css)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UnixNano(), r.ThemeDir, r.Image, r.Mode, r.Strategy, r.Groups, r.GeneratedCSS)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.ID, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, theme_dir, image, mode, strategy, groups_count, generated_css
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	runs := make([]Run, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose ID is id or starts with id. An ambiguous
// prefix is an error.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, fmt.Errorf("get run: empty id")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, theme_dir, image, mode, strategy, groups_count, generated_css
		FROM runs
		WHERE id = ? OR substr(id, 1, ?) = ?
		LIMIT 2`, id, len(id), id)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %s is ambiguous", id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var created int64
	if err := row.Scan(&r.ID, &created, &r.ThemeDir, &r.Image, &r.Mode, &r.Strategy, &r.Groups, &r.GeneratedCSS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}
