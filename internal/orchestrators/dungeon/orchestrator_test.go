package dungeon_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/dungeon"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
)

type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(_ int) (int, error)       { return r.value, nil }
func (r *fixedRoller) RollN(_, _ int) ([]int, error) { return []int{r.value}, nil }

type OrchestratorTestSuite struct {
	suite.Suite
	service dungeon.Service
	ctx     context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	lootService, err := loot.NewOrchestrator(&loot.Config{
		IDGenerator: idgen.NewSequential("item"),
		Roller:      &fixedRoller{value: 11111},
	})
	s.Require().NoError(err)

	svc, err := dungeon.NewOrchestrator(&dungeon.Config{
		IDGenerator: idgen.NewSequential("enemy"),
		LootService: lootService,
		Roller:      &fixedRoller{value: 22222},
	})
	s.Require().NoError(err)

	s.service = svc
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) generate(seed int64) *entities.DungeonLayout {
	output, err := s.service.GenerateDungeon(s.ctx, &dungeon.GenerateDungeonInput{
		DungeonID: "dungeon_test",
		Seed:      &seed,
	})
	s.Require().NoError(err)
	s.Require().NotNil(output.Layout)
	return output.Layout
}

func (s *OrchestratorTestSuite) TestDeterminism() {
	first := s.generate(424242)

	// Fresh orchestrator so ID sequences restart too.
	s.SetupTest()
	second := s.generate(424242)

	s.Require().Len(second.Floors, len(first.Floors))
	for i, floor := range first.Floors {
		other := second.Floors[i]
		s.Require().Len(other.Rooms, len(floor.Rooms), "floor %d room count differs", floor.FloorNumber)

		for j, room := range floor.Rooms {
			otherRoom := other.Rooms[j]
			s.Equal(room.Type, otherRoom.Type)
			s.Equal(room.X, otherRoom.X)
			s.Equal(room.Y, otherRoom.Y)
			s.Equal(room.Connections, otherRoom.Connections)

			s.Require().Len(otherRoom.Enemies, len(room.Enemies))
			for k, enemy := range room.Enemies {
				s.Equal(enemy.Kind, otherRoom.Enemies[k].Kind)
				s.Equal(enemy.Health, otherRoom.Enemies[k].Health)
				s.Equal(enemy.Damage, otherRoom.Enemies[k].Damage)
			}

			s.Require().Len(otherRoom.Loot, len(room.Loot))
			for k, item := range room.Loot {
				s.Equal(item.Rarity, otherRoom.Loot[k].Rarity)
				s.Equal(item.Stats, otherRoom.Loot[k].Stats)
			}
		}
	}
}

func (s *OrchestratorTestSuite) TestConnectivityAndSymmetry() {
	for _, seed := range []int64{1, 99, 123456, 987654321} {
		layout := s.generate(seed)

		for _, floor := range layout.Floors {
			// Every connection must have its mirror on the target room.
			for _, room := range floor.Rooms {
				for _, conn := range room.Connections {
					target := floor.Room(conn.TargetRoomID)
					s.Require().NotNil(target)

					mirrored := false
					for _, back := range target.Connections {
						if back.TargetRoomID == room.ID && back.Direction == conn.Direction.Opposite() {
							mirrored = true
						}
					}
					s.True(mirrored, "seed %d floor %d: connection %d->%d not symmetric",
						seed, floor.FloorNumber, room.ID, conn.TargetRoomID)
				}
			}

			// BFS from the start room must reach every room.
			visited := map[int]bool{floor.StartRoomID: true}
			queue := []int{floor.StartRoomID}
			for len(queue) > 0 {
				current := floor.Room(queue[0])
				queue = queue[1:]
				for _, conn := range current.Connections {
					if !visited[conn.TargetRoomID] {
						visited[conn.TargetRoomID] = true
						queue = append(queue, conn.TargetRoomID)
					}
				}
			}
			s.Len(visited, len(floor.Rooms),
				"seed %d floor %d has orphan rooms", seed, floor.FloorNumber)
		}
	}
}

func (s *OrchestratorTestSuite) TestNoEmptyNonStartRooms() {
	for _, seed := range []int64{7, 555, 31337} {
		layout := s.generate(seed)

		for _, floor := range layout.Floors {
			for _, room := range floor.Rooms {
				if room.ID == floor.StartRoomID {
					s.Equal(entities.RoomTypeStart, room.Type)
					s.True(room.Cleared)
					s.Empty(room.Enemies)
					s.Empty(room.Loot)
					continue
				}
				s.True(len(room.Enemies) > 0 || len(room.Loot) > 0,
					"seed %d floor %d room %d is empty", seed, floor.FloorNumber, room.ID)
			}
		}
	}
}

func (s *OrchestratorTestSuite) TestBossFloor() {
	layout := s.generate(2024)

	s.Require().Len(layout.Floors, entities.FloorCount)

	for _, floor := range layout.Floors {
		bossRooms := 0
		for _, room := range floor.Rooms {
			if room.Type == entities.RoomTypeBoss {
				bossRooms++
				s.Require().Len(room.Enemies, 1)
				s.True(room.Enemies[0].IsBoss)
				s.Equal(room.ID, floor.ExitRoomID, "boss room must be the exit")
			}
		}

		if floor.FloorNumber == entities.FloorCount {
			s.Equal(1, bossRooms, "boss floor must have exactly one boss room")
		} else {
			s.Zero(bossRooms, "floor %d should have no boss room", floor.FloorNumber)
		}
	}
}

func (s *OrchestratorTestSuite) TestRoomCountBounds() {
	for _, seed := range []int64{3, 17, 404, 8080} {
		layout := s.generate(seed)
		for _, floor := range layout.Floors {
			s.GreaterOrEqual(len(floor.Rooms), 2, "floor should place at least one room beyond start")
			s.LessOrEqual(len(floor.Rooms), 8)
		}
	}
}

func (s *OrchestratorTestSuite) TestBossStatMultiplier() {
	layout := s.generate(606060)

	bossFloor := layout.Floor(entities.FloorCount)
	s.Require().NotNil(bossFloor)

	boss := bossFloor.Room(bossFloor.ExitRoomID).Enemies[0]
	// Template 80 health + 4 floors of +6, times 2.5 truncated.
	s.Equal(int(float64(80+4*6)*2.5), boss.Health)
}

func (s *OrchestratorTestSuite) TestValidation() {
	_, err := s.service.GenerateDungeon(s.ctx, nil)
	s.Error(err)

	_, err = s.service.GenerateDungeon(s.ctx, &dungeon.GenerateDungeonInput{})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestGeneratedEventPublished() {
	bus := events.NewBus()

	var seeds []int64
	bus.SubscribeFunc(dungeon.EventDungeonGenerated, 0, func(_ context.Context, event events.Event) error {
		if seed, ok := event.Context().Get("seed"); ok {
			seeds = append(seeds, seed.(int64))
		}
		return nil
	})

	lootService, err := loot.NewOrchestrator(&loot.Config{
		IDGenerator: idgen.NewSequential("item"),
		Roller:      &fixedRoller{value: 11111},
	})
	s.Require().NoError(err)

	svc, err := dungeon.NewOrchestrator(&dungeon.Config{
		IDGenerator: idgen.NewSequential("enemy"),
		LootService: lootService,
		Roller:      &fixedRoller{value: 22222},
		EventBus:    bus,
	})
	s.Require().NoError(err)

	seed := int64(777)
	_, err = svc.GenerateDungeon(s.ctx, &dungeon.GenerateDungeonInput{
		DungeonID: "dungeon_evented",
		Seed:      &seed,
	})
	s.Require().NoError(err)

	s.Equal([]int64{777}, seeds)
}

func (s *OrchestratorTestSuite) TestUnseededUsesRoller() {
	output, err := s.service.GenerateDungeon(s.ctx, &dungeon.GenerateDungeonInput{
		DungeonID: "dungeon_ambient",
	})
	s.Require().NoError(err)
	s.Equal(int64(22222), output.Layout.Seed)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
