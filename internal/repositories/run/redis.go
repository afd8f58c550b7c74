package run

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/clock"
	redisclient "github.com/joshvajeskins/Ashfall-sub000/internal/redis"
)

const (
	runKeyPrefix = "run:"

	// Error messages
	errRunDataNil = "run data cannot be nil"
	errRunIDEmpty = "run ID cannot be empty"
	errLayoutNil  = "layout cannot be nil"
	errRoomNil    = "room cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis run repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed run repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use real clock if none provided
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil || input.Data == nil {
		return nil, errors.InvalidArgument(errRunDataNil)
	}
	if input.Data.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if input.Data.Layout == nil {
		return nil, errors.InvalidArgument(errLayoutNil)
	}

	key := runKeyPrefix + input.Data.RunID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("run with ID %s already exists", input.Data.RunID)
	}

	now := r.clock.Now()
	input.Data.CreatedAt = now
	input.Data.UpdatedAt = now

	data, err := json.Marshal(input.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run data")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to create run")
	}

	return &CreateOutput{Data: input.Data}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	data, err := r.client.Get(ctx, runKeyPrefix+input.RunID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("run %s not found", input.RunID)
		}
		return nil, errors.Wrapf(err, "failed to get run")
	}

	var record Data
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal run data")
	}

	return &GetOutput{Data: &record}, nil
}

func (r *redisRepository) UpdateRoom(ctx context.Context, input *UpdateRoomInput) (*UpdateRoomOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if input.Room == nil {
		return nil, errors.InvalidArgument(errRoomNil)
	}

	got, err := r.Get(ctx, &GetInput{RunID: input.RunID})
	if err != nil {
		return nil, err
	}
	record := got.Data

	if err := replaceRoom(record.Layout, input.Floor, input.Room); err != nil {
		return nil, err
	}
	record.CurrentFloor = input.CurrentFloor
	record.CurrentRoomID = input.CurrentRoomID
	record.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run data")
	}

	if err := r.client.Set(ctx, runKeyPrefix+input.RunID, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update run")
	}

	return &UpdateRoomOutput{Success: true}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	if err := r.client.Del(ctx, runKeyPrefix+input.RunID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete run")
	}

	return &DeleteOutput{Success: true}, nil
}

// replaceRoom swaps one room of the layout for its mutated version.
func replaceRoom(layout *entities.DungeonLayout, floorNumber int, room *entities.Room) error {
	floor := layout.Floor(floorNumber)
	if floor == nil {
		return errors.InvalidArgumentf("floor %d not in layout", floorNumber)
	}
	for i, existing := range floor.Rooms {
		if existing.ID == room.ID {
			floor.Rooms[i] = room
			return nil
		}
	}
	return errors.InvalidArgumentf("room %d not on floor %d", room.ID, floorNumber)
}
