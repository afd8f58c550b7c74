// Package run persists the mutable state of an active dungeon run: the
// generated layout plus the player's position in it. Room mutations
// (defeated enemies, collected loot, cleared flags) are written through
// UpdateRoom so they survive room-to-room transitions and restarts.
package run

//go:generate mockgen -destination=mock/mock_repository.go -package=runmock github.com/joshvajeskins/Ashfall-sub000/internal/repositories/run Repository

import (
	"context"
	"time"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// Repository defines the storage interface for dungeon runs
type Repository interface {
	// Create stores a new run. Returns AlreadyExists if the run ID is taken.
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves a run by ID. Returns NotFound if it does not exist.
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// UpdateRoom replaces one room in the stored layout and records the
	// player's current position. Returns NotFound for an unknown run.
	UpdateRoom(ctx context.Context, input *UpdateRoomInput) (*UpdateRoomOutput, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Data represents the persistent state of a run
type Data struct {
	RunID         string                   `json:"run_id"`
	Layout        *entities.DungeonLayout  `json:"layout"`
	CurrentFloor  int                      `json:"current_floor"`
	CurrentRoomID int                      `json:"current_room_id"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// CreateInput defines the request for storing a new run
type CreateInput struct {
	Data *Data
}

// CreateOutput defines the response for storing a new run
type CreateOutput struct {
	Data *Data
}

// GetInput defines the request for retrieving a run
type GetInput struct {
	RunID string
}

// GetOutput defines the response for retrieving a run
type GetOutput struct {
	Data *Data
}

// UpdateRoomInput defines the request for persisting a room mutation
type UpdateRoomInput struct {
	RunID string
	Floor int
	Room  *entities.Room
	// CurrentFloor and CurrentRoomID record the player position at the
	// time of the mutation
	CurrentFloor  int
	CurrentRoomID int
}

// UpdateRoomOutput defines the response for persisting a room mutation
type UpdateRoomOutput struct {
	Success bool
}

// DeleteInput defines the request for deleting a run
type DeleteInput struct {
	RunID string
}

// DeleteOutput defines the response for deleting a run
type DeleteOutput struct {
	Success bool
}
