package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db     *sqlx.DB
	logger logger.Logger
}

func NewStore(db *sqlx.DB, logger logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

const _schema = `
CREATE TABLE IF NOT EXISTS settings (
	id BIGINT PRIMARY KEY,
	original_capital DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS portfolio_shares (
	ticker TEXT PRIMARY KEY,
	shares_held DOUBLE PRECISION NOT NULL,
	avg_cost DOUBLE PRECISION NOT NULL,
	current_price DOUBLE PRECISION NOT NULL,
	unrealized_pl DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS portfolio_options (
	id BIGSERIAL PRIMARY KEY,
	symbol TEXT NOT NULL,
	call_put TEXT NOT NULL,
	expiration TEXT NOT NULL,
	strike DOUBLE PRECISION NOT NULL,
	contracts_held DOUBLE PRECISION NOT NULL,
	avg_cost DOUBLE PRECISION NOT NULL,
	current_price DOUBLE PRECISION NOT NULL,
	unrealized_pl DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS performance (
	date TEXT PRIMARY KEY,
	total_value DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS portfolio_activity (
	id BIGSERIAL PRIMARY KEY,
	message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, _schema); err != nil {
		return fmt.Errorf("%w: can't init schema", err)
	}
	s.logger.Debugf("store schema ready")
	return nil
}
