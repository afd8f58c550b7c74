package combat

import (
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
)

// session is the ephemeral state of one encounter. All access goes
// through the orchestrator's mutex; the session itself is not safe for
// concurrent use.
type session struct {
	id        string
	runID     string
	dungeonID string
	floor     int
	room      *entities.Room
	character *entities.Character
	enemy     *entities.Enemy

	turn    TurnState
	outcome entities.CombatOutcome
	pending *PendingAction

	defending  bool
	nextIntent entities.EnemyIntent

	// seenTxIDs guards against duplicate confirmation delivery: a
	// transaction ID is processed at most once per session.
	seenTxIDs map[string]bool

	// subscriptions are the bus handler IDs installed for this session,
	// unsubscribed at teardown before any new session installs its own.
	subscriptions []string

	// lootDropped ensures defeat loot fires exactly once even if the
	// ended state is reached twice (e.g. a late CombatAlreadyEnded).
	lootDropped bool
}

// beginAwaiting moves the session into the awaiting state for one
// action. Returns false when another request is already in flight or
// the encounter is over.
func (s *session) beginAwaiting(pending *PendingAction) bool {
	if s.turn == TurnStateAwaiting || s.turn == TurnStateEnded {
		return false
	}
	s.turn = TurnStateAwaiting
	s.pending = pending
	return true
}

// resolveAwaiting leaves the awaiting state for the given next turn
// state and marks the pending action resolved. Ended is absorbing: once
// there, the session never transitions again.
func (s *session) resolveAwaiting(next TurnState, state PendingState) {
	if s.turn == TurnStateEnded {
		return
	}
	if s.pending != nil {
		s.pending.State = state
	}
	s.turn = next
}

// end moves the session to the absorbing ended state with an outcome.
func (s *session) end(outcome entities.CombatOutcome, state PendingState) {
	if s.turn == TurnStateEnded {
		return
	}
	if s.pending != nil {
		s.pending.State = state
	}
	s.turn = TurnStateEnded
	s.outcome = outcome
}

// markTx records a transaction ID, reporting false when it was already
// seen and must not be processed again.
func (s *session) markTx(txID string) bool {
	if txID == "" {
		return true
	}
	if s.seenTxIDs[txID] {
		return false
	}
	s.seenTxIDs[txID] = true
	return true
}
