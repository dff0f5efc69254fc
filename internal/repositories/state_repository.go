package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"grimoire/internal/models"
)

// StateKey is the fixed identifier the whole aggregate is stored under.
const StateKey = "grimoire:state"

// StateRepository persists the serialized game aggregate as a single blob.
// Load returns (nil, nil) when nothing has been stored yet.
type StateRepository interface {
	Load(ctx context.Context) (*models.GameState, error)
	Save(ctx context.Context, state *models.GameState) error
}

// memoryStateRepository keeps the blob in process. It marshals through JSON
// like the durable adapters so the same round-trip rules apply.
type memoryStateRepository struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{}
}

func (r *memoryStateRepository) Load(ctx context.Context) (*models.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blob == nil {
		return nil, nil
	}
	state := &models.GameState{}
	if err := json.Unmarshal(r.blob, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *memoryStateRepository) Save(ctx context.Context, state *models.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.blob = b
	r.mu.Unlock()
	return nil
}
