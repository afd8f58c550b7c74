// Package dungeon implements the seeded procedural layout generator.
// Generation is a total function over (seed, dungeonID): there is no
// invalid input space and no failure mode beyond dependency errors.
package dungeon

//go:generate mockgen -destination=mock/mock_service.go -package=dungeonmock github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/dungeon Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/prng"
)

const (
	minRoomsPerFloor = 3
	maxRoomsPerFloor = 8

	// placementBudget bounds the random-walk placement loop. A dense
	// grid can reject placements; when the budget runs out the floor
	// simply has fewer rooms than requested.
	placementBudget = 100

	// Room population probabilities
	combatBonusLootChance  = 0.4
	treasureGuardChance    = 0.5
	restEnemyPrimaryChance = 0.6
	restSecondaryChance    = 0.3

	seedRange = 1 << 31
)

// EventDungeonGenerated is published after a layout is built.
const EventDungeonGenerated = "dungeon.generated"

// Service defines the interface for dungeon generation
type Service interface {
	// GenerateDungeon builds a full multi-floor layout
	GenerateDungeon(ctx context.Context, input *GenerateDungeonInput) (*GenerateDungeonOutput, error)
}

// Config holds the dependencies for the dungeon orchestrator
type Config struct {
	IDGenerator idgen.Generator
	LootService loot.Service
	// Roller provides the default seed when a caller does not pass one
	Roller dice.Roller
	// EventBus, when set, receives a dungeon.generated event per layout
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.LootService == nil {
		vb.RequiredField("LootService")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	idGen       idgen.Generator
	lootService loot.Service
	roller      dice.Roller
	eventBus    events.EventBus
}

// NewOrchestrator creates a new dungeon orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		idGen:       cfg.IDGenerator,
		lootService: cfg.LootService,
		roller:      cfg.Roller,
		eventBus:    cfg.EventBus,
	}, nil
}

// GenerateDungeon builds the layout for a full run. Identical seeds
// yield structurally identical layouts apart from generated entity IDs.
func (o *orchestrator) GenerateDungeon(ctx context.Context, input *GenerateDungeonInput) (*GenerateDungeonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	seed, err := o.resolveSeed(input.Seed)
	if err != nil {
		return nil, err
	}

	floorCount := input.Floors
	if floorCount <= 0 {
		floorCount = entities.FloorCount
	}

	layout := &entities.DungeonLayout{
		DungeonID: input.DungeonID,
		Seed:      seed,
		Floors:    make([]*entities.FloorLayout, 0, floorCount),
	}

	for floor := 1; floor <= floorCount; floor++ {
		bossFloor := floor == floorCount
		floorLayout, err := o.generateFloor(ctx, seed, floor, bossFloor)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate floor %d", floor)
		}
		layout.Floors = append(layout.Floors, floorLayout)
	}

	slog.Info("Dungeon generated",
		"dungeon_id", input.DungeonID,
		"seed", seed,
		"floors", floorCount,
	)

	if o.eventBus != nil {
		event := events.NewGameEvent(EventDungeonGenerated, nil, nil)
		event.Context().Set("dungeon_id", input.DungeonID)
		event.Context().Set("seed", seed)
		event.Context().Set("floors", floorCount)
		if err := o.eventBus.Publish(ctx, event); err != nil {
			slog.Warn("Event publish failed", "topic", EventDungeonGenerated, "error", err)
		}
	}

	return &GenerateDungeonOutput{Layout: layout}, nil
}

func (o *orchestrator) resolveSeed(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}

	rolled, err := o.roller.Roll(seedRange)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll dungeon seed")
	}
	return int64(rolled), nil
}

type gridKey struct{ x, y int }

func (o *orchestrator) generateFloor(ctx context.Context, runSeed int64, floor int, bossFloor bool) (*entities.FloorLayout, error) {
	src := prng.New(prng.DeriveFloorSeed(runSeed, floor))

	targetRooms := src.Between(minRoomsPerFloor, maxRoomsPerFloor)

	start := &entities.Room{
		ID:      0,
		Type:    entities.RoomTypeStart,
		Cleared: true,
	}
	rooms := []*entities.Room{start}
	grid := map[gridKey]*entities.Room{{0, 0}: start}

	// Random-walk placement: pick an existing room and a direction,
	// place if the cell is free. The budget is shared across the whole
	// floor, not per room.
	for attempts := 0; len(rooms) < targetRooms && attempts < placementBudget; attempts++ {
		base := prng.Pick(src, rooms)
		direction := prng.Pick(src, entities.Directions)

		dx, dy := direction.Offset()
		key := gridKey{base.X + dx, base.Y + dy}
		if _, occupied := grid[key]; occupied {
			continue
		}

		room := &entities.Room{
			ID:   len(rooms),
			Type: prng.Pick(src, []entities.RoomType{entities.RoomTypeCombat, entities.RoomTypeTreasure, entities.RoomTypeRest}),
			X:    key.x,
			Y:    key.y,
		}

		base.Connections = append(base.Connections, entities.Connection{
			Direction:    direction,
			TargetRoomID: room.ID,
		})
		room.Connections = append(room.Connections, entities.Connection{
			Direction:    direction.Opposite(),
			TargetRoomID: base.ID,
		})

		rooms = append(rooms, room)
		grid[key] = room
	}

	last := rooms[len(rooms)-1]
	if bossFloor && last.ID != 0 {
		last.Type = entities.RoomTypeBoss
	}

	for _, room := range rooms {
		if room.ID == 0 {
			continue
		}
		if err := o.populateRoom(ctx, room, floor, src); err != nil {
			return nil, err
		}
	}

	return &entities.FloorLayout{
		FloorNumber: floor,
		Rooms:       rooms,
		StartRoomID: 0,
		ExitRoomID:  last.ID,
	}, nil
}

// populateRoom fills a room according to its type. The unifying
// invariant: no non-start room is left with neither enemies nor loot.
func (o *orchestrator) populateRoom(ctx context.Context, room *entities.Room, floor int, src *prng.Source) error {
	switch room.Type {
	case entities.RoomTypeBoss:
		room.Enemies = append(room.Enemies, synthesizeEnemy(bossTemplate, floor, true, o.idGen))

	case entities.RoomTypeCombat:
		for i := 0; i < src.Between(1, 2); i++ {
			room.Enemies = append(room.Enemies, o.rollEnemy(floor, src))
		}
		if src.Chance(combatBonusLootChance) {
			if err := o.addLoot(ctx, room, floor, src, false); err != nil {
				return err
			}
		}

	case entities.RoomTypeTreasure:
		if err := o.addLoot(ctx, room, floor, src, true); err != nil {
			return err
		}
		if src.Chance(treasureGuardChance) {
			room.Enemies = append(room.Enemies, o.rollEnemy(floor, src))
		}

	case entities.RoomTypeRest:
		if src.Chance(restEnemyPrimaryChance) {
			room.Enemies = append(room.Enemies, o.rollEnemy(floor, src))
			if src.Chance(restSecondaryChance) {
				if err := o.addLoot(ctx, room, floor, src, false); err != nil {
					return err
				}
			}
		} else {
			if err := o.addLoot(ctx, room, floor, src, true); err != nil {
				return err
			}
			if src.Chance(restSecondaryChance) {
				room.Enemies = append(room.Enemies, o.rollEnemy(floor, src))
			}
		}
	}

	return nil
}

func (o *orchestrator) rollEnemy(floor int, src *prng.Source) *entities.Enemy {
	return synthesizeEnemy(prng.Pick(src, enemyTemplates), floor, false, o.idGen)
}

func (o *orchestrator) addLoot(ctx context.Context, room *entities.Room, floor int, src *prng.Source, guaranteed bool) error {
	output, err := o.lootService.GenerateLoot(ctx, &loot.GenerateLootInput{
		Floor:      floor,
		Origin:     entities.OriginRoom,
		Guaranteed: guaranteed,
		Source:     src,
	})
	if err != nil {
		return errors.Wrap(err, "failed to generate room loot")
	}
	room.Loot = append(room.Loot, output.Items...)
	return nil
}
