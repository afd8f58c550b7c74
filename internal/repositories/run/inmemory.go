package run

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage. It
// backs the CLI and unit tests; records round-trip through JSON so the
// stored layout is isolated from caller mutation, same as Redis.
type InMemoryRepository struct {
	clock clock.Clock

	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		clock: clock.New(),
		store: make(map[string][]byte),
	}
}

// NewInMemoryWithClock creates an in-memory repository with a fixed clock
func NewInMemoryWithClock(c clock.Clock) *InMemoryRepository {
	return &InMemoryRepository{
		clock: c,
		store: make(map[string][]byte),
	}
}

// Create stores a new run
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil || input.Data == nil {
		return nil, errors.InvalidArgument(errRunDataNil)
	}
	if input.Data.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if input.Data.Layout == nil {
		return nil, errors.InvalidArgument(errLayoutNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Data.RunID]; exists {
		return nil, errors.AlreadyExistsf("run with ID %s already exists", input.Data.RunID)
	}

	now := r.clock.Now()
	input.Data.CreatedAt = now
	input.Data.UpdatedAt = now

	data, err := json.Marshal(input.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run data")
	}
	r.store[input.Data.RunID] = data

	return &CreateOutput{Data: input.Data}, nil
}

// Get retrieves a run by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.store[input.RunID]
	if !exists {
		return nil, errors.NotFoundf("run %s not found", input.RunID)
	}

	var record Data
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal run data")
	}

	return &GetOutput{Data: &record}, nil
}

// UpdateRoom replaces one room in the stored layout
func (r *InMemoryRepository) UpdateRoom(_ context.Context, input *UpdateRoomInput) (*UpdateRoomOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if input.Room == nil {
		return nil, errors.InvalidArgument(errRoomNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.store[input.RunID]
	if !exists {
		return nil, errors.NotFoundf("run %s not found", input.RunID)
	}

	var record Data
	if err := json.Unmarshal(stored, &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal run data")
	}

	if err := replaceRoom(record.Layout, input.Floor, input.Room); err != nil {
		return nil, err
	}
	record.CurrentFloor = input.CurrentFloor
	record.CurrentRoomID = input.CurrentRoomID
	record.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run data")
	}
	r.store[input.RunID] = data

	return &UpdateRoomOutput{Success: true}, nil
}

// Delete removes a run
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, input.RunID)

	return &DeleteOutput{Success: true}, nil
}
