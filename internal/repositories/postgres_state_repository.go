package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"grimoire/internal/models"
)

type PostgresStateRepository struct {
	db *sql.DB
}

// NewPostgresStateRepository keeps the aggregate in a one-row-per-key table.
// Postgres is still used as a plain key-value blob store here.
func NewPostgresStateRepository(db *sql.DB) *PostgresStateRepository {
	return &PostgresStateRepository{db: db}
}

// EnsureSchema creates the storage table when it does not exist yet.
func (r *PostgresStateRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS game_state (
			key        TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *PostgresStateRepository) Load(ctx context.Context) (*models.GameState, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM game_state WHERE key = $1`, StateKey).Scan(&b)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	state := &models.GameState{}
	if err := json.Unmarshal(b, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *PostgresStateRepository) Save(ctx context.Context, state *models.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO game_state (key, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
		StateKey, b)
	return err
}
