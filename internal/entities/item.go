package entities

// Rarity orders items by ascending power.
type Rarity string

// Rarities
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Multiplier returns the fixed per-rarity stat multiplier.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityUncommon:
		return 1.5
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 5
	default:
		return 1
	}
}

// ItemType determines which stat fields an item populates.
type ItemType string

// Item types
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
)

// ItemOrigin records where an item was synthesized.
type ItemOrigin string

// Item origins
const (
	OriginRoom     ItemOrigin = "room"
	OriginKillDrop ItemOrigin = "kill_drop"
	OriginBossDrop ItemOrigin = "boss_drop"
)

// ItemStats holds the populated stat fields for an item. Which fields are
// set depends on the item type: weapons carry damage, armor carries
// defense, accessories mix both plus a bonus, consumables carry power.
type ItemStats struct {
	Damage  int `json:"damage,omitempty"`
	Defense int `json:"defense,omitempty"`
	Bonus   int `json:"bonus,omitempty"`
	Power   int `json:"power,omitempty"`
}

// Item is a generated piece of loot. Items are JSON-serializable and must
// round-trip losslessly through the event bus and run persistence.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Rarity     Rarity     `json:"rarity"`
	Type       ItemType   `json:"type"`
	Stats      ItemStats  `json:"stats"`
	Durability int        `json:"durability"`
	Origin     ItemOrigin `json:"origin"`
}
