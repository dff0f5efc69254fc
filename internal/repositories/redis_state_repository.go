package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"grimoire/internal/models"
)

type redisStateRepository struct {
	rdb *redis.Client
}

// NewRedisStateRepository stores the aggregate as a single Redis string
// value under StateKey, with no expiry.
func NewRedisStateRepository(rdb *redis.Client) StateRepository {
	return &redisStateRepository{rdb: rdb}
}

func (r *redisStateRepository) Load(ctx context.Context) (*models.GameState, error) {
	b, err := r.rdb.Get(ctx, StateKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

func (r *redisStateRepository) Save(ctx context.Context, state *models.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, StateKey, b, 0).Err()
}
