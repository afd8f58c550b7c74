package combat

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/authority"
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// TurnState is the encounter's position in the turn cycle. Exactly one
// state holds at any instant; Ended is absorbing.
type TurnState string

// Turn states
const (
	TurnStatePlayer   TurnState = "player_turn"
	TurnStateEnemy    TurnState = "enemy_turn"
	TurnStateAwaiting TurnState = "awaiting_confirmation"
	TurnStateEnded    TurnState = "combat_ended"
)

// PendingState is the lifecycle position of an in-flight action.
type PendingState string

// Pending action states
const (
	PendingRequested PendingState = "requested"
	PendingConfirmed PendingState = "confirmed"
	PendingFailed    PendingState = "failed"
)

// PendingAction tracks the single in-flight authority request. It is
// resolved exactly once; the awaiting turn state guards reentrancy.
type PendingAction struct {
	Kind  authority.ActionKind
	Seed  int64
	TxID  string
	State PendingState
}

// StartEncounterInput defines the request for opening a combat session
type StartEncounterInput struct {
	RunID     string
	DungeonID string
	Floor     int
	// Room is the live room the encounter takes place in; the defeat and
	// pickup handlers mutate it in place
	Room      *entities.Room
	EnemyID   string
	Character *entities.Character
}

// StartEncounterOutput defines the response for opening a combat session
type StartEncounterOutput struct {
	SessionID   string
	Turn        TurnState
	EnemyIntent entities.EnemyIntent
}

// PlayerActionInput defines the request for one player combat action
type PlayerActionInput struct {
	SessionID string
	Kind      authority.ActionKind
}

// PlayerActionOutput defines the response for one player combat action
type PlayerActionOutput struct {
	Result  *entities.CombatResult
	Pending *PendingAction
	Turn    TurnState
	// Outcome is set only when the action ended the encounter
	Outcome entities.CombatOutcome
	// ErrorCode carries the authority's failure taxonomy when the action
	// was rejected; Retryable mirrors the taxonomy's retry contract
	ErrorCode authority.ErrorCode
	Retryable bool
}

// EnemyActionInput defines the request for resolving the enemy's turn
type EnemyActionInput struct {
	SessionID string
}

// EnemyActionOutput defines the response for resolving the enemy's turn
type EnemyActionOutput struct {
	Result      *entities.CombatResult
	Turn        TurnState
	Outcome     entities.CombatOutcome
	NextIntent  entities.EnemyIntent
	ErrorCode   authority.ErrorCode
	Retryable   bool
	// Duplicate reports that the confirmation carried an already-seen
	// transaction ID and was dropped without mutating state
	Duplicate bool
}

// PickupLootInput defines the request for collecting a room item
type PickupLootInput struct {
	RunID     string
	DungeonID string
	Floor     int
	Room      *entities.Room
	ItemID    string
	Character *entities.Character
}

// PickupLootOutput defines the response for collecting a room item
type PickupLootOutput struct {
	Item        *entities.Item
	RoomCleared bool
	ErrorCode   authority.ErrorCode
	Retryable   bool
}

// SessionStateInput defines the request for inspecting a session
type SessionStateInput struct {
	SessionID string
}

// SessionStateOutput defines the response for inspecting a session
type SessionStateOutput struct {
	Turn        TurnState
	Outcome     entities.CombatOutcome
	EnemyIntent entities.EnemyIntent
	EnemyHealth int
}

// EndSessionInput defines the request for tearing down a session
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput defines the response for tearing down a session
type EndSessionOutput struct {
	Success bool
}
