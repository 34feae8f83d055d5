package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

const (
	_queryEquities = "SELECT * FROM portfolio_shares ORDER BY ticker"
	_queryEquity   = "SELECT * FROM portfolio_shares WHERE ticker = $1"

	_upsertEquity = `INSERT INTO portfolio_shares (
							ticker,
							shares_held,
							avg_cost,
							current_price,
							unrealized_pl
						) VALUES ($1,$2,$3,$4,$5)
						ON CONFLICT (ticker)
						DO UPDATE SET
							shares_held = EXCLUDED.shares_held,
							avg_cost = EXCLUDED.avg_cost,
							current_price = EXCLUDED.current_price,
							unrealized_pl = EXCLUDED.unrealized_pl;`

	_deleteEquity = "DELETE FROM portfolio_shares WHERE ticker = $1"
)

func (s *Store) ListEquities(ctx context.Context) ([]model.EquityPosition, error) {
	var positions []model.EquityPosition
	if err := s.db.SelectContext(ctx, &positions, _queryEquities); err != nil {
		return nil, fmt.Errorf("%w: can't query equity positions", err)
	}
	return positions, nil
}

func (s *Store) GetEquity(ctx context.Context, ticker string) (model.EquityPosition, error) {
	var position model.EquityPosition
	if err := s.db.GetContext(ctx, &position, _queryEquity, ticker); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return position, ErrNotFound
		}
		return position, fmt.Errorf("%w: can't query equity position", err)
	}
	return position, nil
}

func (s *Store) UpsertEquity(ctx context.Context, p model.EquityPosition) error {
	if _, err := s.db.ExecContext(ctx, _upsertEquity,
		p.Ticker,
		p.SharesHeld,
		p.AvgCost,
		p.CurrentPrice,
		p.UnrealizedPL,
	); err != nil {
		return fmt.Errorf("%w: can't upsert equity position", err)
	}
	return nil
}

func (s *Store) DeleteEquity(ctx context.Context, ticker string) error {
	if _, err := s.db.ExecContext(ctx, _deleteEquity, ticker); err != nil {
		return fmt.Errorf("%w: can't delete equity position", err)
	}
	return nil
}
