package dungeon

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/rules"
)

// enemyTemplate is a base stat block before floor scaling. Enemy behavior
// is a closed set; these templates are the whole bestiary.
type enemyTemplate struct {
	kind    string
	name    string
	health  int
	damage  int
	defense int
	reward  int
}

var enemyTemplates = []enemyTemplate{
	{kind: "goblin", name: "Goblin", health: 28, damage: 6, defense: 1, reward: 8},
	{kind: "skeleton", name: "Skeleton", health: 35, damage: 8, defense: 2, reward: 10},
	{kind: "cultist", name: "Cultist", health: 38, damage: 9, defense: 2, reward: 12},
	{kind: "orc", name: "Orc", health: 45, damage: 10, defense: 3, reward: 14},
	{kind: "wraith", name: "Wraith", health: 50, damage: 12, defense: 4, reward: 18},
}

var bossTemplate = enemyTemplate{
	kind: "bone_colossus", name: "Bone Colossus", health: 80, damage: 14, defense: 5, reward: 50,
}

// Additive per-floor scaling applied on top of the template base.
const (
	healthPerFloor  = 6
	damagePerFloor  = 2
	defensePerFloor = 1
	rewardPerFloor  = 4
)

// synthesizeEnemy builds a floor-scaled enemy from a template.
func synthesizeEnemy(tpl enemyTemplate, floor int, boss bool, idGen idgen.Generator) *entities.Enemy {
	health := tpl.health + (floor-1)*healthPerFloor
	damage := tpl.damage + (floor-1)*damagePerFloor
	defense := tpl.defense + (floor-1)*defensePerFloor
	reward := tpl.reward + (floor-1)*rewardPerFloor

	if boss {
		health = int(float64(health) * rules.BossStatMultiplier)
		damage = int(float64(damage) * rules.BossStatMultiplier)
		defense = int(float64(defense) * rules.BossStatMultiplier)
		reward = int(float64(reward) * rules.BossStatMultiplier)
	}

	return &entities.Enemy{
		ID:               idGen.Generate(),
		Kind:             tpl.kind,
		Name:             tpl.name,
		Health:           health,
		MaxHealth:        health,
		Damage:           damage,
		Defense:          defense,
		ExperienceReward: reward,
		IsBoss:           boss,
	}
}
