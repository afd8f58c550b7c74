package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/dungeon"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
)

var (
	generateSeed      int64
	generateDungeonID string
	generateFloors    int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dungeon layout",
	Long: `Generate a seeded dungeon layout and print it as JSON. The same
seed always produces the same layout, so a run can be replayed or
shared.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "generation seed (0 draws a random one)")
	generateCmd.Flags().StringVar(&generateDungeonID, "dungeon-id", "dungeon_local", "dungeon identifier")
	generateCmd.Flags().IntVar(&generateFloors, "floors", 0, "floor count override (0 uses the standard run length)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	lootService, err := loot.NewOrchestrator(&loot.Config{
		IDGenerator: idgen.NewUUID("item"),
		Roller:      dice.DefaultRoller,
	})
	if err != nil {
		return err
	}

	dungeonService, err := dungeon.NewOrchestrator(&dungeon.Config{
		IDGenerator: idgen.NewUUID("enemy"),
		LootService: lootService,
		Roller:      dice.DefaultRoller,
	})
	if err != nil {
		return err
	}

	input := &dungeon.GenerateDungeonInput{
		DungeonID: generateDungeonID,
		Floors:    generateFloors,
	}
	if generateSeed != 0 {
		input.Seed = &generateSeed
	}

	output, err := dungeonService.GenerateDungeon(context.Background(), input)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(output.Layout, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
