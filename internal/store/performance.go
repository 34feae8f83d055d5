package store

import (
	"context"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

const (
	_queryPerformance = "SELECT date, total_value FROM performance ORDER BY date"

	_upsertPerformance = `INSERT INTO performance (date, total_value)
							VALUES ($1, $2)
							ON CONFLICT (date)
							DO UPDATE SET total_value = EXCLUDED.total_value;`
)

func (s *Store) ListPerformance(ctx context.Context) ([]model.PerformanceSnapshot, error) {
	var snapshots []model.PerformanceSnapshot
	if err := s.db.SelectContext(ctx, &snapshots, _queryPerformance); err != nil {
		return nil, fmt.Errorf("%w: can't query performance snapshots", err)
	}
	return snapshots, nil
}

// UpsertPerformance overwrites any snapshot already recorded for date.
func (s *Store) UpsertPerformance(ctx context.Context, date string, totalValue float64) error {
	if _, err := s.db.ExecContext(ctx, _upsertPerformance, date, totalValue); err != nil {
		return fmt.Errorf("%w: can't upsert performance snapshot", err)
	}
	return nil
}
