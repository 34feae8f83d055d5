package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/efi-capital/portfolio-tracker/internal/model"
)

const (
	_querySettings = "SELECT id, original_capital FROM settings WHERE id = $1"

	_upsertSettings = `INSERT INTO settings (id, original_capital)
						VALUES ($1, $2)
						ON CONFLICT (id)
						DO UPDATE SET original_capital = EXCLUDED.original_capital;`

	_settingsID = 1
)

// GetSettings returns a zero-value row when none has been saved yet.
func (s *Store) GetSettings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	if err := s.db.GetContext(ctx, &settings, _querySettings, _settingsID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{ID: _settingsID}, nil
		}
		return settings, fmt.Errorf("%w: can't query settings", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, originalCapital float64) error {
	if _, err := s.db.ExecContext(ctx, _upsertSettings, _settingsID, originalCapital); err != nil {
		return fmt.Errorf("%w: can't upsert settings", err)
	}
	return nil
}
