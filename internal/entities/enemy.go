package entities

// EntityTypeEnemy is the core.Entity type string for enemies.
const EntityTypeEnemy = "enemy"

// EnemyIntent is the enemy's pre-declared next action. The authority
// returns the upcoming intent with every confirmation, so the player
// always knows it one turn ahead.
type EnemyIntent string

// Enemy intents
const (
	IntentAttack      EnemyIntent = "attack"
	IntentHeavyAttack EnemyIntent = "heavy_attack"
	IntentDefend      EnemyIntent = "defend"
)

// EnemyIntents lists the closed set of intents in a fixed order for
// deterministic seeded selection.
var EnemyIntents = []EnemyIntent{IntentAttack, IntentHeavyAttack, IntentDefend}

// Enemy is a floor-scaled combatant occupying a room.
type Enemy struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	Name             string `json:"name"`
	Health           int    `json:"health"`
	MaxHealth        int    `json:"max_health"`
	Damage           int    `json:"damage"`
	Defense          int    `json:"defense"`
	ExperienceReward int    `json:"experience_reward"`
	IsBoss           bool   `json:"is_boss"`
}

// GetID implements core.Entity.
func (e *Enemy) GetID() string {
	return e.ID
}

// GetType implements core.Entity.
func (e *Enemy) GetType() string {
	return EntityTypeEnemy
}

// IsAlive reports whether the enemy has health remaining.
func (e *Enemy) IsAlive() bool {
	return e.Health > 0
}

// ApplyDamage reduces health, clamped at zero, and reports whether the
// enemy died from the hit.
func (e *Enemy) ApplyDamage(amount int) (died bool) {
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		return true
	}
	return false
}
