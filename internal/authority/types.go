package authority

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// ActionKind identifies a stateful action submitted to the authority.
type ActionKind string

// Action kinds
const (
	ActionStartCombat ActionKind = "start_combat"
	ActionAttack      ActionKind = "attack"
	ActionHeavyAttack ActionKind = "heavy_attack"
	ActionDefend      ActionKind = "defend"
	ActionHeal        ActionKind = "heal"
	ActionFlee        ActionKind = "flee"
	ActionEnemyAttack ActionKind = "enemy_attack"
	ActionPickupLoot  ActionKind = "pickup_loot"
)

// ErrorCode is the closed failure taxonomy the authority surfaces.
type ErrorCode string

// Error codes
const (
	ErrNone             ErrorCode = ""
	ErrNotConnected     ErrorCode = "not_connected"
	ErrBuildFailed      ErrorCode = "build_failed"
	ErrSubmitFailed     ErrorCode = "submit_failed"
	ErrCombatEnded      ErrorCode = "combat_already_ended"
	ErrNotPlayerTurn    ErrorCode = "not_player_turn"
	ErrNotEnemyTurn     ErrorCode = "not_enemy_turn"
	ErrInsufficientMana ErrorCode = "insufficient_mana"
	ErrUnknown          ErrorCode = "unknown"
)

// Retryable reports whether the same action may be resubmitted as-is.
// Turn mismatches need a resync first, and a dead wallet session needs a
// reconnect, so neither is retryable.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrBuildFailed, ErrSubmitFailed, ErrUnknown:
		return true
	default:
		return false
	}
}

// Request is one action submission.
type Request struct {
	Kind      ActionKind `json:"kind"`
	SessionID string     `json:"session_id"`
	DungeonID string     `json:"dungeon_id"`
	Floor     int        `json:"floor"`
	RoomID    int        `json:"room_id"`
	EnemyID   string     `json:"enemy_id,omitempty"`
	ItemID    string     `json:"item_id,omitempty"`
	Seed      int64      `json:"seed,omitempty"`
}

// AuthoritativeState is the canonical state payload a confirmation may
// carry. Nil fields mean the authority did not re-state that value; set
// fields always override the local prediction.
type AuthoritativeState struct {
	EnemyHealth     *int                 `json:"enemy_health,omitempty"`
	PlayerHealth    *int                 `json:"player_health,omitempty"`
	PlayerMana      *int                 `json:"player_mana,omitempty"`
	NextEnemyIntent entities.EnemyIntent `json:"next_enemy_intent,omitempty"`
}

// Result is the authority's answer to a single Request.
type Result struct {
	Success bool                `json:"success"`
	TxID    string              `json:"tx_id,omitempty"`
	State   *AuthoritativeState `json:"state,omitempty"`
	Code    ErrorCode           `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
}

// IntPtr is a convenience for building AuthoritativeState literals.
func IntPtr(v int) *int {
	return &v
}
