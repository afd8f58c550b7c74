package dungeon

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// GenerateDungeonInput defines the request for generating a run layout
type GenerateDungeonInput struct {
	DungeonID string
	// Seed makes generation fully reproducible. Nil draws one from the
	// dice roller — the only non-deterministic entry point, since each
	// unseeded run is meant to be unique.
	Seed *int64
	// Floors overrides the number of floors. Zero means the standard
	// run length.
	Floors int
}

// GenerateDungeonOutput defines the response for generating a run layout
type GenerateDungeonOutput struct {
	Layout *entities.DungeonLayout
}
