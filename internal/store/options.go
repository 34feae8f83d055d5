package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

const (
	_queryOptions = "SELECT * FROM portfolio_options ORDER BY id"
	_queryOption  = "SELECT * FROM portfolio_options WHERE id = $1"

	_insertOption = `INSERT INTO portfolio_options (
							symbol,
							call_put,
							expiration,
							strike,
							contracts_held,
							avg_cost,
							current_price,
							unrealized_pl
						) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
						RETURNING id;`

	_updateOption = `UPDATE portfolio_options SET
							symbol = $1,
							call_put = $2,
							expiration = $3,
							strike = $4,
							contracts_held = $5,
							avg_cost = $6,
							current_price = $7,
							unrealized_pl = $8
						WHERE id = $9;`

	_deleteOption = "DELETE FROM portfolio_options WHERE id = $1"
)

func (s *Store) ListOptions(ctx context.Context) ([]model.OptionPosition, error) {
	var positions []model.OptionPosition
	if err := s.db.SelectContext(ctx, &positions, _queryOptions); err != nil {
		return nil, fmt.Errorf("%w: can't query option positions", err)
	}
	return positions, nil
}

func (s *Store) GetOption(ctx context.Context, id int64) (model.OptionPosition, error) {
	var position model.OptionPosition
	if err := s.db.GetContext(ctx, &position, _queryOption, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return position, ErrNotFound
		}
		return position, fmt.Errorf("%w: can't query option position", err)
	}
	return position, nil
}

// InsertOption returns the generated row id.
func (s *Store) InsertOption(ctx context.Context, p model.OptionPosition) (int64, error) {
	var id int64
	if err := s.db.GetContext(ctx, &id, _insertOption,
		p.Symbol,
		p.CallPut,
		p.Expiration,
		p.Strike,
		p.ContractsHeld,
		p.AvgCost,
		p.CurrentPrice,
		p.UnrealizedPL,
	); err != nil {
		return 0, fmt.Errorf("%w: can't insert option position", err)
	}
	return id, nil
}

func (s *Store) UpdateOption(ctx context.Context, p model.OptionPosition) error {
	if _, err := s.db.ExecContext(ctx, _updateOption,
		p.Symbol,
		p.CallPut,
		p.Expiration,
		p.Strike,
		p.ContractsHeld,
		p.AvgCost,
		p.CurrentPrice,
		p.UnrealizedPL,
		p.ID,
	); err != nil {
		return fmt.Errorf("%w: can't update option position", err)
	}
	return nil
}

func (s *Store) DeleteOption(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, _deleteOption, id); err != nil {
		return fmt.Errorf("%w: can't delete option position", err)
	}
	return nil
}
