package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

// GetPalette returns the cached palette for key.
func (s *Store) GetPalette(ctx context.Context, key string) ([]colour.RGB, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT colours FROM palette_cache WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get palette: %w", err)
	}
	var colours []colour.RGB
	if err := json.Unmarshal([]byte(raw), &colours); err != nil {
		return nil, false, fmt.Errorf("decode palette: %w", err)
	}
	return colours, true, nil
}

// PutPalette stores colours under key, replacing any previous entry.
func (s *Store) PutPalette(ctx context.Context, key string, colours []colour.RGB) error {
	data, err := json.Marshal(colours)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO palette_cache(key, colours, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET colours = excluded.colours, created_at = excluded.created_at`,
		key, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("put palette: %w", err)
	}
	return nil
}

// PrunePalettes removes cache entries older than maxAge and returns how many were removed.
func (s *Store) PrunePalettes(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM palette_cache WHERE created_at < ?`, time.Now().Add(-maxAge).UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune palettes: %w", err)
	}
	return res.RowsAffected()
}
