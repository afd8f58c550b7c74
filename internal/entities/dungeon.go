package entities

// FloorCount is the number of floors in a full dungeon run. The last
// floor is the boss floor.
const FloorCount = 5

// DungeonLayout is the full multi-floor layout of a run. It is immutable
// once generated except for the per-room play-state mutations (enemy
// removal, loot pickup, cleared flags), which the run repository persists
// across room transitions.
type DungeonLayout struct {
	DungeonID string         `json:"dungeon_id"`
	Seed      int64          `json:"seed"`
	Floors    []*FloorLayout `json:"floors"`
}

// Floor returns the layout for a 1-based floor number, or nil.
func (d *DungeonLayout) Floor(number int) *FloorLayout {
	for _, f := range d.Floors {
		if f.FloorNumber == number {
			return f
		}
	}
	return nil
}

// FloorLayout is one floor of connected rooms. Exactly one start room
// (ID 0, always cleared, always empty); on the boss floor exactly one
// room has type boss.
type FloorLayout struct {
	FloorNumber int     `json:"floor_number"`
	Rooms       []*Room `json:"rooms"`
	StartRoomID int     `json:"start_room_id"`
	ExitRoomID  int     `json:"exit_room_id"`
}

// Room returns the room with the given ID, or nil.
func (f *FloorLayout) Room(roomID int) *Room {
	for _, r := range f.Rooms {
		if r.ID == roomID {
			return r
		}
	}
	return nil
}
