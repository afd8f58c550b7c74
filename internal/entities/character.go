package entities

// EntityTypeCharacter is the core.Entity type string for player characters.
const EntityTypeCharacter = "character"

// Character is the player's combat-relevant state. Persistent inventory
// bookkeeping beyond what combat needs lives with external collaborators;
// the simulation only reads stats and whether a weapon is equipped, and
// writes health and mana.
type Character struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Class        string `json:"class"`
	Health       int    `json:"health"`
	MaxHealth    int    `json:"max_health"`
	Mana         int    `json:"mana"`
	MaxMana      int    `json:"max_mana"`
	Strength     int    `json:"strength"`
	Agility      int    `json:"agility"`
	Intelligence int    `json:"intelligence"`
	Weapon       *Item  `json:"weapon,omitempty"`
	Experience   int    `json:"experience"`
}

// GetID implements core.Entity.
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity.
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// HasWeapon reports whether any weapon is equipped. The damage formula
// only cares that one is present, not how strong it is.
func (c *Character) HasWeapon() bool {
	return c.Weapon != nil
}

// IsAlive reports whether the character has health remaining.
func (c *Character) IsAlive() bool {
	return c.Health > 0
}

// ApplyDamage reduces health, clamped at zero, and reports whether the
// character died from the hit.
func (c *Character) ApplyDamage(amount int) (died bool) {
	c.Health -= amount
	if c.Health <= 0 {
		c.Health = 0
		return true
	}
	return false
}

// RestoreHealth adds health clamped to the maximum and returns the amount
// actually restored.
func (c *Character) RestoreHealth(amount int) int {
	before := c.Health
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c.Health - before
}

// RestoreMana adds mana clamped to the maximum.
func (c *Character) RestoreMana(amount int) {
	c.Mana += amount
	if c.Mana > c.MaxMana {
		c.Mana = c.MaxMana
	}
}

// SpendMana deducts a mana cost and reports whether the character could
// afford it. Local mana is a prediction; the authority has the final say.
func (c *Character) SpendMana(amount int) bool {
	if c.Mana < amount {
		return false
	}
	c.Mana -= amount
	return true
}
