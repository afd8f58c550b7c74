package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/rules"
)

func warrior(weapon bool) *entities.Character {
	c := &entities.Character{
		ID:           "char_1",
		Name:         "Warrior",
		Class:        "warrior",
		Health:       100,
		MaxHealth:    100,
		Mana:         50,
		MaxMana:      50,
		Strength:     10,
		Agility:      5,
		Intelligence: 8,
	}
	if weapon {
		c.Weapon = &entities.Item{
			ID:     "item_sword",
			Name:   "Rusty Sword",
			Rarity: entities.RarityCommon,
			Type:   entities.ItemTypeWeapon,
			Stats:  entities.ItemStats{Damage: 7},
		}
	}
	return c
}

func TestResolve_PlayerAttack(t *testing.T) {
	t.Run("documented formula, seed 999", func(t *testing.T) {
		// base 5 + weapon 15 + str 10/2 = 25; crit iff 999 % 1000 < 50 + agility*2
		c := warrior(true)
		c.Agility = 5 // window 60, 999 is not a crit

		result := rules.Resolve(rules.PlayerAttacker{Character: c, Seed: 999})
		assert.Equal(t, 25, result.Damage)
		assert.False(t, result.IsCrit)
	})

	t.Run("crit doubles after the full total", func(t *testing.T) {
		c := warrior(true)
		c.Agility = 5

		// 10 % 1000 = 10 < 60 is a crit
		result := rules.Resolve(rules.PlayerAttacker{Character: c, Seed: 10})
		assert.True(t, result.IsCrit)
		assert.Equal(t, 50, result.Damage)
	})

	t.Run("weapon bonus is binary, not stat-scaled", func(t *testing.T) {
		armed := warrior(true)
		armed.Weapon.Stats.Damage = 9999

		unarmed := warrior(false)

		armedResult := rules.Resolve(rules.PlayerAttacker{Character: armed, Seed: 999})
		unarmedResult := rules.Resolve(rules.PlayerAttacker{Character: unarmed, Seed: 999})

		assert.Equal(t, 25, armedResult.Damage)
		assert.Equal(t, 15, unarmedResult.Damage) // base 5 + unarmed 5 + str 5
	})

	t.Run("heavy adds int/2 then multiplies via integer truncation", func(t *testing.T) {
		c := warrior(true)
		c.Agility = 5
		c.Intelligence = 9

		// base 5 + weapon 15 + 5 + int 9/2=4 = 29; (29*3)/2 = 43 (not 43.5)
		result := rules.Resolve(rules.PlayerAttacker{Character: c, Heavy: true, Seed: 999})
		assert.Equal(t, 43, result.Damage)
	})
}

func TestResolve_EnemyAttack(t *testing.T) {
	skeleton := &entities.Enemy{
		ID:     "enemy_1",
		Kind:   "skeleton",
		Damage: 8,
	}

	t.Run("flat damage, no crit", func(t *testing.T) {
		result := rules.Resolve(rules.EnemyAttacker{Enemy: skeleton, Intent: entities.IntentAttack})
		assert.Equal(t, 8, result.Damage)
		assert.False(t, result.IsCrit)
	})

	t.Run("heavy intent multiplies by 1.5 truncated", func(t *testing.T) {
		result := rules.Resolve(rules.EnemyAttacker{Enemy: skeleton, Intent: entities.IntentHeavyAttack})
		assert.Equal(t, 12, result.Damage)

		odd := &entities.Enemy{Damage: 9}
		result = rules.Resolve(rules.EnemyAttacker{Enemy: odd, Intent: entities.IntentHeavyAttack})
		assert.Equal(t, 13, result.Damage) // (9*3)/2, not 13.5
	})

	t.Run("defending player halves via floor division", func(t *testing.T) {
		odd := &entities.Enemy{Damage: 9}
		result := rules.Resolve(rules.EnemyAttacker{Enemy: odd, Intent: entities.IntentAttack, Defending: true})
		assert.Equal(t, 4, result.Damage)
	})

	t.Run("defend intent forfeits the attack", func(t *testing.T) {
		result := rules.Resolve(rules.EnemyAttacker{Enemy: skeleton, Intent: entities.IntentDefend})
		assert.Equal(t, 0, result.Damage)
	})
}

func TestHealAmount(t *testing.T) {
	c := warrior(false)
	c.Intelligence = 8

	// 100 * (30+8) / 100 = 38
	assert.Equal(t, 38, rules.HealAmount(c))

	c.MaxHealth = 73
	// 73 * 38 / 100 = 27 (truncated)
	assert.Equal(t, 27, rules.HealAmount(c))
}

func TestIsCrit(t *testing.T) {
	assert.True(t, rules.IsCrit(49, 0))   // 49 < 50
	assert.False(t, rules.IsCrit(50, 0))  // 50 is outside the base window
	assert.True(t, rules.IsCrit(1059, 5)) // 59 < 60
	assert.False(t, rules.IsCrit(100, 5)) // 100 >= 60
}

func TestManaCost(t *testing.T) {
	assert.Equal(t, 0, rules.ManaCost(false, false))
	assert.Equal(t, rules.HeavyManaCost, rules.ManaCost(true, false))
	assert.Equal(t, rules.HealManaCost, rules.ManaCost(false, true))
}
