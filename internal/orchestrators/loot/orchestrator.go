// Package loot implements the floor- and rarity-weighted item generator.
package loot

//go:generate mockgen -destination=mock/mock_service.go -package=lootmock github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/prng"
)

const (
	// Drop probability is 0.4 + 0.05 per floor
	dropChanceBase     = 0.4
	dropChancePerFloor = 0.05

	// Consumables only appear from floor 3 up, at a flat secondary chance
	consumableChance   = 0.15
	consumableMinFloor = 3

	// Boss rewards
	bossItemsMin = 1
	bossItemsMax = 3

	seedRange = 1 << 31
)

// Service defines the interface for loot generation
type Service interface {
	// GenerateLoot rolls a kill-drop or room-loot table for a floor
	GenerateLoot(ctx context.Context, input *GenerateLootInput) (*GenerateLootOutput, error)

	// GenerateBossLoot rolls the guaranteed boss reward table
	GenerateBossLoot(ctx context.Context, input *GenerateBossLootInput) (*GenerateBossLootOutput, error)
}

// Config holds the dependencies for the loot orchestrator
type Config struct {
	IDGenerator idgen.Generator
	// Roller provides ambient entropy when a caller does not supply a
	// seeded source
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	idGen  idgen.Generator
	roller dice.Roller
}

// NewOrchestrator creates a new loot orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		idGen:  cfg.IDGenerator,
		roller: cfg.Roller,
	}, nil
}

// rarityWeights is the per-floor weighted bucket table. Weights shift
// toward higher rarities as the floor increases; floor 5 and beyond
// drops Common entirely.
var rarityWeights = map[int]map[entities.Rarity]int{
	1: {entities.RarityCommon: 50, entities.RarityUncommon: 30, entities.RarityRare: 15, entities.RarityEpic: 4, entities.RarityLegendary: 1},
	2: {entities.RarityCommon: 40, entities.RarityUncommon: 32, entities.RarityRare: 19, entities.RarityEpic: 7, entities.RarityLegendary: 2},
	3: {entities.RarityCommon: 30, entities.RarityUncommon: 33, entities.RarityRare: 23, entities.RarityEpic: 10, entities.RarityLegendary: 4},
	4: {entities.RarityCommon: 20, entities.RarityUncommon: 32, entities.RarityRare: 27, entities.RarityEpic: 14, entities.RarityLegendary: 7},
	5: {entities.RarityUncommon: 35, entities.RarityRare: 34, entities.RarityEpic: 20, entities.RarityLegendary: 11},
}

// bossRarityWeights skews the boss table toward the rarer buckets; the
// minimum bucket depends on the floor tier.
var bossRarityWeights = map[entities.Rarity]int{
	entities.RarityRare:      45,
	entities.RarityEpic:      35,
	entities.RarityLegendary: 20,
}

// rarityOrder fixes the bucket walk order so a seeded roll is deterministic.
var rarityOrder = []entities.Rarity{
	entities.RarityCommon,
	entities.RarityUncommon,
	entities.RarityRare,
	entities.RarityEpic,
	entities.RarityLegendary,
}

// Base stat magnitudes before floor and rarity multipliers
const (
	weaponBaseDamage     = 6
	armorBaseDefense     = 5
	accessoryBaseBonus   = 3
	consumableBasePower  = 20
	equipmentDurability  = 100
	consumableDurability = 1
)

var (
	weaponNames     = []string{"Sword", "Axe", "Spear", "Dagger", "Warhammer"}
	armorNames      = []string{"Cuirass", "Helm", "Greaves", "Shield", "Gauntlets"}
	accessoryNames  = []string{"Ring", "Amulet", "Band", "Talisman", "Charm"}
	consumableNames = []string{"Healing Draught", "Mana Philter", "Elixir"}

	rarityPrefixes = map[entities.Rarity]string{
		entities.RarityCommon:    "Worn",
		entities.RarityUncommon:  "Sturdy",
		entities.RarityRare:      "Runed",
		entities.RarityEpic:      "Ancient",
		entities.RarityLegendary: "Mythic",
	}
)

// GenerateLoot rolls the drop table for a floor. Given the same Source
// state it always produces the same items.
func (o *orchestrator) GenerateLoot(ctx context.Context, input *GenerateLootInput) (*GenerateLootOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Floor < 1 {
		return nil, errors.InvalidArgumentf("floor must be positive, got %d", input.Floor)
	}

	src, err := o.source(input.Source)
	if err != nil {
		return nil, err
	}

	origin := input.Origin
	if origin == "" {
		origin = entities.OriginKillDrop
	}

	var items []*entities.Item

	dropChance := dropChanceBase + dropChancePerFloor*float64(input.Floor)
	if input.Guaranteed || src.Chance(dropChance) {
		rarity := o.rollRarity(src, weightsForFloor(input.Floor))
		itemType := o.rollItemType(src)
		items = append(items, o.synthesize(itemType, rarity, input.Floor, origin, src))
	}

	if input.Floor >= consumableMinFloor && src.Chance(consumableChance) {
		rarity := o.rollRarity(src, weightsForFloor(input.Floor))
		items = append(items, o.synthesize(entities.ItemTypeConsumable, rarity, input.Floor, origin, src))
	}

	slog.Debug("Loot generated",
		"floor", input.Floor,
		"items", len(items),
	)

	return &GenerateLootOutput{Items: items}, nil
}

// GenerateBossLoot rolls 1-3 guaranteed items from the boss table.
func (o *orchestrator) GenerateBossLoot(ctx context.Context, input *GenerateBossLootInput) (*GenerateBossLootOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Floor < 1 {
		return nil, errors.InvalidArgumentf("floor must be positive, got %d", input.Floor)
	}

	src, err := o.source(input.Source)
	if err != nil {
		return nil, err
	}

	count := src.Between(bossItemsMin, bossItemsMax)
	items := make([]*entities.Item, 0, count)
	for i := 0; i < count; i++ {
		rarity := o.rollRarity(src, bossWeightsForFloor(input.Floor))
		itemType := o.rollItemType(src)
		items = append(items, o.synthesize(itemType, rarity, input.Floor, entities.OriginBossDrop, src))
	}

	slog.Info("Boss loot generated",
		"floor", input.Floor,
		"items", len(items),
	)

	return &GenerateBossLootOutput{Items: items}, nil
}

// source returns the caller's seeded source or derives one from the
// roller — the only entropy the generator ever touches.
func (o *orchestrator) source(src *prng.Source) (*prng.Source, error) {
	if src != nil {
		return src, nil
	}

	seed, err := o.roller.Roll(seedRange)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll loot seed")
	}
	return prng.New(int64(seed)), nil
}

func weightsForFloor(floor int) map[entities.Rarity]int {
	if floor >= entities.FloorCount {
		return rarityWeights[entities.FloorCount]
	}
	return rarityWeights[floor]
}

// bossWeightsForFloor raises the minimum bucket with the floor tier:
// early bosses floor at Rare, mid-tier at Epic, the final boss drops
// Legendary only.
func bossWeightsForFloor(floor int) map[entities.Rarity]int {
	switch {
	case floor >= 5:
		return map[entities.Rarity]int{entities.RarityLegendary: 1}
	case floor >= 3:
		return map[entities.Rarity]int{
			entities.RarityEpic:      bossRarityWeights[entities.RarityEpic],
			entities.RarityLegendary: bossRarityWeights[entities.RarityLegendary],
		}
	default:
		return bossRarityWeights
	}
}

func (o *orchestrator) rollRarity(src *prng.Source, weights map[entities.Rarity]int) entities.Rarity {
	total := 0
	for _, w := range weights {
		total += w
	}

	roll := src.Between(1, total)
	for _, rarity := range rarityOrder {
		w, ok := weights[rarity]
		if !ok {
			continue
		}
		roll -= w
		if roll <= 0 {
			return rarity
		}
	}
	return entities.RarityUncommon
}

// rollItemType splits equipment 40/30/30 among weapon, armor, accessory.
func (o *orchestrator) rollItemType(src *prng.Source) entities.ItemType {
	roll := src.Next()
	switch {
	case roll < 0.4:
		return entities.ItemTypeWeapon
	case roll < 0.7:
		return entities.ItemTypeArmor
	default:
		return entities.ItemTypeAccessory
	}
}

func (o *orchestrator) synthesize(
	itemType entities.ItemType,
	rarity entities.Rarity,
	floor int,
	origin entities.ItemOrigin,
	src *prng.Source,
) *entities.Item {
	item := &entities.Item{
		ID:         o.idGen.Generate(),
		Rarity:     rarity,
		Type:       itemType,
		Durability: equipmentDurability,
		Origin:     origin,
	}

	var baseName string
	switch itemType {
	case entities.ItemTypeWeapon:
		baseName = prng.Pick(src, weaponNames)
		item.Stats.Damage = scaleStat(weaponBaseDamage, floor, rarity)
	case entities.ItemTypeArmor:
		baseName = prng.Pick(src, armorNames)
		item.Stats.Defense = scaleStat(armorBaseDefense, floor, rarity)
	case entities.ItemTypeAccessory:
		baseName = prng.Pick(src, accessoryNames)
		item.Stats.Damage = scaleStat(accessoryBaseBonus, floor, rarity)
		item.Stats.Defense = scaleStat(accessoryBaseBonus, floor, rarity)
		item.Stats.Bonus = scaleStat(accessoryBaseBonus, floor, rarity)
	case entities.ItemTypeConsumable:
		baseName = prng.Pick(src, consumableNames)
		item.Stats.Power = scaleStat(consumableBasePower, floor, rarity)
		item.Durability = consumableDurability
	}

	item.Name = fmt.Sprintf("%s %s", rarityPrefixes[rarity], baseName)
	return item
}

// scaleStat applies base * floorMultiplier * rarityMultiplier with final
// integer truncation.
func scaleStat(base, floor int, rarity entities.Rarity) int {
	floorMultiplier := 1.0 + 0.2*float64(floor-1)
	return int(float64(base) * floorMultiplier * rarity.Multiplier())
}
