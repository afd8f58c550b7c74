// Package rules implements the authority's deterministic combat formulas.
// The client uses these as predictions for immediate feedback; the Local
// authority executes the same functions as canonical state. Every step
// uses integer truncation — fractional intermediates are never carried
// forward, or the prediction drifts from the ledger.
package rules

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// Combat constants fixed by the authority's program.
const (
	BaseDamage          = 5
	WeaponBonusEquipped = 15
	WeaponBonusUnarmed  = 5
	CritWindow          = 50
	CritAgilityScale    = 2
	HealBasePercent     = 30
	HealManaCost        = 20
	HeavyManaCost       = 10
	DefendManaRestore   = 5
	BossStatMultiplier  = 2.5
)

// Attacker is a closed union of the two combat actors. The damage formula
// is asymmetric by the authority's design: player attacks roll crits and
// ignore enemy defense, enemy attacks are flat values with no crit.
type Attacker interface {
	isAttacker()
}

// PlayerAttacker is a player-initiated attack.
type PlayerAttacker struct {
	Character *entities.Character
	Heavy     bool
	Seed      int64
}

func (PlayerAttacker) isAttacker() {}

// EnemyAttacker is an enemy acting on its declared intent against a
// player who may be defending.
type EnemyAttacker struct {
	Enemy     *entities.Enemy
	Intent    entities.EnemyIntent
	Defending bool
}

func (EnemyAttacker) isAttacker() {}

// Resolve computes the damage outcome for either side of the union.
// It is pure: no state is read or written beyond the arguments.
func Resolve(a Attacker) entities.CombatResult {
	switch a := a.(type) {
	case PlayerAttacker:
		return resolvePlayer(a)
	case EnemyAttacker:
		return resolveEnemy(a)
	default:
		// The union is closed; new variants must be handled above.
		return entities.CombatResult{}
	}
}

func resolvePlayer(a PlayerAttacker) entities.CombatResult {
	c := a.Character

	total := BaseDamage + weaponBonus(c) + c.Strength/2
	if a.Heavy {
		total += c.Intelligence / 2
		total = (total * 3) / 2
	}

	crit := IsCrit(a.Seed, c.Agility)
	if crit {
		total *= 2
	}

	return entities.CombatResult{Damage: total, IsCrit: crit}
}

func resolveEnemy(a EnemyAttacker) entities.CombatResult {
	damage := a.Enemy.Damage

	switch a.Intent {
	case entities.IntentHeavyAttack:
		damage = (damage * 3) / 2
	case entities.IntentDefend:
		// A defending enemy forfeits its attack.
		return entities.CombatResult{}
	}

	if a.Defending {
		damage /= 2
	}

	return entities.CombatResult{Damage: damage}
}

func weaponBonus(c *entities.Character) int {
	// Binary step: any equipped weapon gives the full bonus regardless of
	// its own stats.
	if c.HasWeapon() {
		return WeaponBonusEquipped
	}
	return WeaponBonusUnarmed
}

// IsCrit rolls the crit check for an action seed: seed % 1000 must land
// inside the agility-widened window.
func IsCrit(seed int64, agility int) bool {
	return seed%1000 < int64(CritWindow+agility*CritAgilityScale)
}

// HealAmount is the health a heal action restores before clamping:
// maxHealth * (30 + intelligence) / 100, truncated.
func HealAmount(c *entities.Character) int {
	return c.MaxHealth * (HealBasePercent + c.Intelligence) / 100
}

// ManaCost returns the mana an action consumes.
func ManaCost(heavy, heal bool) int {
	switch {
	case heal:
		return HealManaCost
	case heavy:
		return HeavyManaCost
	default:
		return 0
	}
}
