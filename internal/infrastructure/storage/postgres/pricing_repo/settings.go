package pricing_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"tilepos/internal/domain/pricing"
	"tilepos/internal/infrastructure/storage/postgres"
)

// marginRow is one channel's margin configuration.
type marginRow struct {
	Channel string          `db:"channel"`
	Value   decimal.Decimal `db:"value"`
	Type    string          `db:"margin_type"`
}

// SettingsRepo loads margin configuration.
type SettingsRepo struct {
	txManager *postgres.TxManager
}

// NewSettingsRepo creates the settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{txManager: txManager}
}

// Load fetches margin settings for all channels. Settings change rarely;
// they are fetched once at startup and on explicit reload.
func (r *SettingsRepo) Load(ctx context.Context) (pricing.Settings, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("channel", "value", "margin_type").
		From("margin_settings")

	sql, args, err := q.ToSql()
	if err != nil {
		return pricing.Settings{}, fmt.Errorf("build margin settings query: %w", err)
	}

	var rows []marginRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return pricing.Settings{}, fmt.Errorf("load margin settings: %w", err)
	}

	settings := pricing.Settings{Margins: make(map[pricing.Channel]pricing.MarginSetting, len(rows))}
	for _, row := range rows {
		ch := pricing.Channel(row.Channel)
		if !ch.Valid() {
			return pricing.Settings{}, fmt.Errorf("unknown margin channel %q", row.Channel)
		}
		settings.Margins[ch] = pricing.MarginSetting{
			Value: row.Value,
			Type:  pricing.MarginType(row.Type),
		}
	}

	return settings, nil
}

// Save upserts one channel's margin.
func (r *SettingsRepo) Save(ctx context.Context, channel pricing.Channel, m pricing.MarginSetting) error {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("margin_settings").
		Columns("channel", "value", "margin_type").
		Values(string(channel), m.Value, string(m.Type)).
		Suffix("ON CONFLICT (channel) DO UPDATE SET value = EXCLUDED.value, margin_type = EXCLUDED.margin_type")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build margin settings upsert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save margin settings: %w", err)
	}
	return nil
}
