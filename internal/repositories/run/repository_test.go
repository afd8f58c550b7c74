package run_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/clock"
	"github.com/joshvajeskins/Ashfall-sub000/internal/repositories/run"
	"github.com/joshvajeskins/Ashfall-sub000/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo    run.Repository
	cleanup func()
	ctx     context.Context
}

type RedisRepositoryTestSuite struct {
	RepositoryTestSuite
}

type InMemoryRepositoryTestSuite struct {
	RepositoryTestSuite
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	repo, err := run.NewRedis(&run.RedisConfig{
		Client: client,
		Clock:  clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)

	s.repo = repo
	s.cleanup = cleanup
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *InMemoryRepositoryTestSuite) SetupTest() {
	s.repo = run.NewInMemoryWithClock(clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	s.ctx = context.Background()
}

func testLayout() *entities.DungeonLayout {
	return &entities.DungeonLayout{
		DungeonID: "dungeon_1",
		Seed:      42,
		Floors: []*entities.FloorLayout{
			{
				FloorNumber: 1,
				StartRoomID: 0,
				ExitRoomID:  1,
				Rooms: []*entities.Room{
					{ID: 0, Type: entities.RoomTypeStart, Cleared: true},
					{
						ID:   1,
						Type: entities.RoomTypeCombat,
						X:    1,
						Connections: []entities.Connection{
							{Direction: entities.DirectionWest, TargetRoomID: 0},
						},
						Enemies: []*entities.Enemy{
							{ID: "enemy_1", Kind: "goblin", Health: 28, MaxHealth: 28, Damage: 6},
						},
						Loot: []*entities.Item{
							{ID: "item_1", Name: "Worn Sword", Rarity: entities.RarityCommon, Type: entities.ItemTypeWeapon},
						},
					},
				},
			},
		},
	}
}

func (s *RepositoryTestSuite) create(runID string) *run.Data {
	output, err := s.repo.Create(s.ctx, &run.CreateInput{
		Data: &run.Data{
			RunID:         runID,
			Layout:        testLayout(),
			CurrentFloor:  1,
			CurrentRoomID: 0,
		},
	})
	s.Require().NoError(err)
	return output.Data
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	s.create("run_1")

	output, err := s.repo.Get(s.ctx, &run.GetInput{RunID: "run_1"})
	s.Require().NoError(err)

	s.Equal("run_1", output.Data.RunID)
	s.Equal(1, output.Data.CurrentFloor)
	s.Require().Len(output.Data.Layout.Floors, 1)
	s.Len(output.Data.Layout.Floors[0].Rooms, 2)
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	s.create("run_1")

	_, err := s.repo.Create(s.ctx, &run.CreateInput{
		Data: &run.Data{RunID: "run_1", Layout: testLayout()},
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, &run.GetInput{RunID: "run_missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUpdateRoomRoundTrip() {
	s.create("run_1")

	// Mutate the combat room the way the defeat and pickup handlers do.
	room := testLayout().Floors[0].Rooms[1]
	room.RemoveEnemy("enemy_1")
	room.TakeLoot("item_1")

	output, err := s.repo.UpdateRoom(s.ctx, &run.UpdateRoomInput{
		RunID:         "run_1",
		Floor:         1,
		Room:          room,
		CurrentFloor:  1,
		CurrentRoomID: 1,
	})
	s.Require().NoError(err)
	s.True(output.Success)

	got, err := s.repo.Get(s.ctx, &run.GetInput{RunID: "run_1"})
	s.Require().NoError(err)

	stored := got.Data.Layout.Floors[0].Rooms[1]
	s.Empty(stored.Enemies)
	s.Empty(stored.Loot)
	s.True(stored.Cleared)
	s.Equal(1, got.Data.CurrentRoomID)

	// The start room is untouched.
	s.True(got.Data.Layout.Floors[0].Rooms[0].Cleared)
}

func (s *RepositoryTestSuite) TestUpdateRoomMissingRun() {
	_, err := s.repo.UpdateRoom(s.ctx, &run.UpdateRoomInput{
		RunID: "run_missing",
		Floor: 1,
		Room:  &entities.Room{ID: 1},
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	s.create("run_1")

	_, err := s.repo.Delete(s.ctx, &run.DeleteInput{RunID: "run_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &run.GetInput{RunID: "run_1"})
	s.True(errors.IsNotFound(err))

	// Deleting again is not an error.
	_, err = s.repo.Delete(s.ctx, &run.DeleteInput{RunID: "run_1"})
	s.NoError(err)
}

func (s *RepositoryTestSuite) TestStoredLayoutIsolated() {
	created := s.create("run_1")

	// Mutating the caller's copy must not leak into storage.
	created.Layout.Floors[0].Rooms[1].Enemies = nil

	got, err := s.repo.Get(s.ctx, &run.GetInput{RunID: "run_1"})
	s.Require().NoError(err)
	s.Len(got.Data.Layout.Floors[0].Rooms[1].Enemies, 1)
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func TestInMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(InMemoryRepositoryTestSuite))
}
