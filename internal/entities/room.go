// Package entities provides the core data structures for the Ashfall
// simulation engine.
package entities

// RoomType classifies what a generated room contains.
type RoomType string

// Room types
const (
	RoomTypeStart    RoomType = "start"
	RoomTypeCombat   RoomType = "combat"
	RoomTypeTreasure RoomType = "treasure"
	RoomTypeRest     RoomType = "rest"
	RoomTypeBoss     RoomType = "boss"
)

// Direction is one of the four cardinal directions rooms connect along.
type Direction string

// Cardinal directions
const (
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// Opposite returns the reverse direction, used to record the symmetric
// half of a connection.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionNorth:
		return DirectionSouth
	case DirectionSouth:
		return DirectionNorth
	case DirectionEast:
		return DirectionWest
	case DirectionWest:
		return DirectionEast
	default:
		return d
	}
}

// Offset returns the grid delta for the direction.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirectionNorth:
		return 0, -1
	case DirectionSouth:
		return 0, 1
	case DirectionEast:
		return 1, 0
	case DirectionWest:
		return -1, 0
	default:
		return 0, 0
	}
}

// Directions lists all cardinal directions in a fixed order so seeded
// generation picks deterministically.
var Directions = []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest}

// Connection links a room to a neighbor. Connections are recorded on both
// rooms at placement time, so they are symmetric by construction.
type Connection struct {
	Direction    Direction `json:"direction"`
	TargetRoomID int       `json:"target_room_id"`
}

// Room is a single node of a floor layout. Rooms are mutated in place as
// the game is played: enemies are removed on defeat and Cleared flips once
// nothing remains to fight or collect.
type Room struct {
	ID          int          `json:"id"`
	Type        RoomType     `json:"type"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	Enemies     []*Enemy     `json:"enemies"`
	Loot        []*Item      `json:"loot"`
	Cleared     bool         `json:"cleared"`
	Connections []Connection `json:"connections"`
}

// Enemy returns the enemy with the given ID, or nil.
func (r *Room) Enemy(enemyID string) *Enemy {
	for _, e := range r.Enemies {
		if e.ID == enemyID {
			return e
		}
	}
	return nil
}

// RemoveEnemy deletes a defeated enemy from the room and reports whether
// the room became cleared as a result. Treasure rooms guarded by enemies
// still require the loot to be taken before they clear.
func (r *Room) RemoveEnemy(enemyID string) (cleared bool) {
	for i, e := range r.Enemies {
		if e.ID == enemyID {
			r.Enemies = append(r.Enemies[:i], r.Enemies[i+1:]...)
			break
		}
	}
	r.refreshCleared()
	return r.Cleared
}

// TakeLoot removes an item from the room's loot and reports whether the
// room became cleared. Returns nil if the item is not present.
func (r *Room) TakeLoot(itemID string) (*Item, bool) {
	for i, item := range r.Loot {
		if item.ID == itemID {
			r.Loot = append(r.Loot[:i], r.Loot[i+1:]...)
			r.refreshCleared()
			return item, r.Cleared
		}
	}
	return nil, r.Cleared
}

func (r *Room) refreshCleared() {
	switch r.Type {
	case RoomTypeStart:
		r.Cleared = true
	case RoomTypeTreasure:
		// Treasure rooms require the loot to be taken, not just the guards killed.
		r.Cleared = len(r.Enemies) == 0 && len(r.Loot) == 0
	default:
		r.Cleared = len(r.Enemies) == 0
	}
}

// HasConnection reports whether the room already connects in the given
// direction.
func (r *Room) HasConnection(d Direction) bool {
	for _, c := range r.Connections {
		if c.Direction == d {
			return true
		}
	}
	return false
}
