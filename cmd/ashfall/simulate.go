package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/joshvajeskins/Ashfall-sub000/internal/authority"
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/combat"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/dungeon"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/repositories/run"
	"github.com/joshvajeskins/Ashfall-sub000/internal/rules"
)

var (
	simulateSeed  int64
	simulateClass string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a full dungeon run",
	Long: `Simulate a permadeath run against the in-process authority: generate
a layout, fight through every room, and report the outcome. The
authority executes the same formulas the client predicts with, so the
simulation doubles as an end-to-end reconciliation check.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 1, "run seed")
	simulateCmd.Flags().StringVar(&simulateClass, "class", "warrior", "character class (warrior, mage, rogue)")
}

func newCharacter(class string) (*entities.Character, error) {
	base := &entities.Character{
		ID:    "char_sim",
		Name:  "Simulant",
		Class: class,
		Weapon: &entities.Item{
			ID:    "item_starter",
			Name:  "Worn Sword",
			Type:  entities.ItemTypeWeapon,
			Stats: entities.ItemStats{Damage: 6},
		},
	}

	switch class {
	case "warrior":
		base.MaxHealth, base.MaxMana = 120, 40
		base.Strength, base.Agility, base.Intelligence = 12, 6, 4
	case "mage":
		base.MaxHealth, base.MaxMana = 80, 80
		base.Strength, base.Agility, base.Intelligence = 4, 6, 12
	case "rogue":
		base.MaxHealth, base.MaxMana = 90, 50
		base.Strength, base.Agility, base.Intelligence = 8, 12, 6
	default:
		return nil, fmt.Errorf("unknown class %q", class)
	}

	base.Health = base.MaxHealth
	base.Mana = base.MaxMana
	return base, nil
}

type simulation struct {
	out       func(format string, args ...any)
	service   combat.Service
	character *entities.Character
	runID     string
	dungeonID string
	itemsWon  int
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	character, err := newCharacter(simulateClass)
	if err != nil {
		return err
	}

	lootService, err := loot.NewOrchestrator(&loot.Config{
		IDGenerator: idgen.NewUUID("item"),
		Roller:      dice.DefaultRoller,
	})
	if err != nil {
		return err
	}

	bus := events.NewBus()

	dungeonService, err := dungeon.NewOrchestrator(&dungeon.Config{
		IDGenerator: idgen.NewUUID("enemy"),
		LootService: lootService,
		Roller:      dice.DefaultRoller,
		EventBus:    bus,
	})
	if err != nil {
		return err
	}

	layoutOutput, err := dungeonService.GenerateDungeon(ctx, &dungeon.GenerateDungeonInput{
		DungeonID: "dungeon_sim",
		Seed:      &simulateSeed,
	})
	if err != nil {
		return err
	}
	layout := layoutOutput.Layout

	local, err := authority.NewLocal(&authority.LocalConfig{
		IDGenerator: idgen.NewUUID("tx"),
	})
	if err != nil {
		return err
	}
	if err := local.RegisterRun(character, layout); err != nil {
		return err
	}

	repo := run.NewInMemory()
	if _, err := repo.Create(ctx, &run.CreateInput{
		Data: &run.Data{
			RunID:         "run_sim",
			Layout:        layout,
			CurrentFloor:  1,
			CurrentRoomID: 0,
		},
	}); err != nil {
		return err
	}

	combatService, err := combat.NewOrchestrator(&combat.Config{
		Authority:     local,
		EventBus:      bus,
		LootService:   lootService,
		RunRepository: repo,
		Roller:        dice.DefaultRoller,
		IDGenerator:   idgen.NewUUID("session"),
	})
	if err != nil {
		return err
	}

	sim := &simulation{
		out: func(format string, args ...any) {
			fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
		},
		service:   combatService,
		character: character,
		runID:     "run_sim",
		dungeonID: layout.DungeonID,
	}

	sim.out("Run seed %d, class %s", simulateSeed, simulateClass)

	for _, floor := range layout.Floors {
		sim.out("-- Floor %d (%d rooms)", floor.FloorNumber, len(floor.Rooms))
		for _, room := range floor.Rooms {
			survived, err := sim.clearRoom(ctx, floor.FloorNumber, room)
			if err != nil {
				return err
			}
			if !survived {
				sim.out("%s fell on floor %d. The run is over.", character.Name, floor.FloorNumber)
				return nil
			}
		}
	}

	sim.out("Run complete: %d health left, %d experience, %d items collected",
		character.Health, character.Experience, sim.itemsWon)
	return nil
}

// clearRoom fights every enemy in the room and collects its loot.
// Returns false when the character died.
func (s *simulation) clearRoom(ctx context.Context, floor int, room *entities.Room) (bool, error) {
	enemyIDs := make([]string, 0, len(room.Enemies))
	for _, enemy := range room.Enemies {
		enemyIDs = append(enemyIDs, enemy.ID)
	}

	for _, enemyID := range enemyIDs {
		survived, err := s.fight(ctx, floor, room, enemyID)
		if err != nil {
			return false, err
		}
		if !survived {
			return false, nil
		}
	}

	itemIDs := make([]string, 0, len(room.Loot))
	for _, item := range room.Loot {
		itemIDs = append(itemIDs, item.ID)
	}
	for _, itemID := range itemIDs {
		output, err := s.service.PickupLoot(ctx, &combat.PickupLootInput{
			RunID:     s.runID,
			DungeonID: s.dungeonID,
			Floor:     floor,
			Room:      room,
			ItemID:    itemID,
			Character: s.character,
		})
		if err != nil {
			return false, err
		}
		if output.ErrorCode != "" {
			s.out("   pickup refused: %s", output.ErrorCode)
			continue
		}
		s.itemsWon++
		s.out("   picked up %s (%s)", output.Item.Name, output.Item.Rarity)
	}

	return true, nil
}

func (s *simulation) fight(ctx context.Context, floor int, room *entities.Room, enemyID string) (bool, error) {
	enemy := room.Enemy(enemyID)
	if enemy == nil {
		return true, nil
	}
	s.out("   fighting %s (%d HP)", enemy.Name, enemy.Health)

	start, err := s.service.StartEncounter(ctx, &combat.StartEncounterInput{
		RunID:     s.runID,
		DungeonID: s.dungeonID,
		Floor:     floor,
		Room:      room,
		EnemyID:   enemyID,
		Character: s.character,
	})
	if err != nil {
		return false, err
	}
	sessionID := start.SessionID

	for {
		action, err := s.service.PlayerAction(ctx, &combat.PlayerActionInput{
			SessionID: sessionID,
			Kind:      s.chooseAction(),
		})
		if err != nil {
			return false, err
		}
		if action.Turn == combat.TurnStateEnded {
			s.finishEncounter(ctx, sessionID, action.Outcome)
			return action.Outcome != entities.OutcomeDefeat, nil
		}
		if action.Turn != combat.TurnStateEnemy {
			// Rejected action; the taxonomy already restored a playable
			// turn, so just try again.
			continue
		}

		enemyTurn, err := s.service.EnemyAction(ctx, &combat.EnemyActionInput{SessionID: sessionID})
		if err != nil {
			return false, err
		}
		if enemyTurn.Turn == combat.TurnStateEnded {
			s.finishEncounter(ctx, sessionID, enemyTurn.Outcome)
			return enemyTurn.Outcome != entities.OutcomeDefeat, nil
		}
	}
}

// chooseAction is the scripted policy: heal when hurt and affordable,
// heavy attack when mana allows, plain attack otherwise.
func (s *simulation) chooseAction() authority.ActionKind {
	c := s.character
	if c.Health*3 < c.MaxHealth && c.Mana >= rules.HealManaCost {
		return authority.ActionHeal
	}
	if c.Mana >= rules.HeavyManaCost+rules.HealManaCost {
		return authority.ActionHeavyAttack
	}
	return authority.ActionAttack
}

func (s *simulation) finishEncounter(ctx context.Context, sessionID string, outcome entities.CombatOutcome) {
	s.out("   encounter ended: %s", outcome)
	if _, err := s.service.EndSession(ctx, &combat.EndSessionInput{SessionID: sessionID}); err != nil {
		s.out("   teardown failed: %v", err)
	}
}
