package loot

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/prng"
)

// GenerateLootInput defines the request for a kill-drop or room-loot roll
type GenerateLootInput struct {
	// Floor scales drop chance, rarity weights, and stat magnitudes
	Floor int
	// Origin is recorded on generated items
	Origin entities.ItemOrigin
	// Guaranteed skips the drop-chance gate for the primary item. Used
	// for treasure rooms, which always hold loot.
	Guaranteed bool
	// Source drives the roll. Nil means ambient entropy from the
	// configured dice roller; tests inject a seeded Source.
	Source *prng.Source
}

// GenerateLootOutput defines the response for a loot roll
type GenerateLootOutput struct {
	Items []*entities.Item
}

// GenerateBossLootInput defines the request for a boss reward roll
type GenerateBossLootInput struct {
	Floor  int
	Source *prng.Source
}

// GenerateBossLootOutput defines the response for a boss reward roll
type GenerateBossLootOutput struct {
	Items []*entities.Item
}
