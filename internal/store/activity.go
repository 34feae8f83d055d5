package store

import (
	"context"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

const (
	_queryActivity  = "SELECT id, message, created_at FROM portfolio_activity ORDER BY id DESC LIMIT $1"
	_insertActivity = "INSERT INTO portfolio_activity (message) VALUES ($1)"
)

// RecentActivity returns the newest entries first.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	if err := s.db.SelectContext(ctx, &entries, _queryActivity, limit); err != nil {
		return nil, fmt.Errorf("%w: can't query activity entries", err)
	}
	return entries, nil
}

func (s *Store) InsertActivity(ctx context.Context, message string) error {
	if _, err := s.db.ExecContext(ctx, _insertActivity, message); err != nil {
		return fmt.Errorf("%w: can't insert activity entry", err)
	}
	return nil
}
