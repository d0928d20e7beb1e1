package repository

import (
	"context"

	"jobfinder/internal/database"
	"jobfinder/internal/preferences"
)

// PostgresPreferenceRepository stores preference values in the preferences table.
type PostgresPreferenceRepository struct {
	db database.DB
}

func NewPostgresPreferenceRepository(db database.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db.QueryRow(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if database.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *PostgresPreferenceRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO preferences (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	return err
}

var _ preferences.KV = (*PostgresPreferenceRepository)(nil)
