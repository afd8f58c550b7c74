package combat

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/joshvajeskins/Ashfall-sub000/internal/authority"
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/repositories/run"
)

// stateSnapshot captures the pre-action local state so a failed action
// can revert its optimistic prediction.
type stateSnapshot struct {
	enemyHealth  int
	playerHealth int
	playerMana   int
	defending    bool
}

func snapshot(sess *session) stateSnapshot {
	return stateSnapshot{
		enemyHealth:  sess.enemy.Health,
		playerHealth: sess.character.Health,
		playerMana:   sess.character.Mana,
		defending:    sess.defending,
	}
}

func (s stateSnapshot) restore(sess *session) {
	sess.enemy.Health = s.enemyHealth
	sess.character.Health = s.playerHealth
	sess.character.Mana = s.playerMana
	sess.defending = s.defending
}

// reconcilePlayerFailure maps each authority error code to its recovery
// path. Nothing here propagates as a Go error: the closed taxonomy is
// handled in full, and only programming mistakes reach the caller as
// errors.
func (o *orchestrator) reconcilePlayerFailure(
	ctx context.Context,
	sess *session,
	snap stateSnapshot,
	pending *PendingAction,
	prediction *entities.CombatResult,
	result *authority.Result,
) (*PlayerActionOutput, error) {
	switch result.Code {
	case authority.ErrCombatEnded:
		// The enemy was already dead on the authority's side; this is a
		// victory signal, not a failure.
		sess.enemy.Health = 0
		o.handleEnemyDefeated(ctx, sess, PendingConfirmed)
		return &PlayerActionOutput{Result: prediction, Pending: pending, Turn: sess.turn, Outcome: sess.outcome}, nil

	case authority.ErrNotPlayerTurn:
		// Local turn state desynced; resync to what the authority implies
		// instead of retrying the same action.
		snap.restore(sess)
		sess.resolveAwaiting(TurnStateEnemy, PendingFailed)

	case authority.ErrNotEnemyTurn:
		snap.restore(sess)
		sess.resolveAwaiting(TurnStatePlayer, PendingFailed)

	case authority.ErrInsufficientMana:
		// Zero local mana so the player cannot keep submitting an action
		// the authority will keep rejecting.
		snap.restore(sess)
		sess.character.Mana = 0
		sess.resolveAwaiting(TurnStatePlayer, PendingFailed)

	default:
		// NotConnected, BuildFailed, SubmitFailed, Unknown: revert to the
		// pre-action state; retryability comes from the taxonomy.
		snap.restore(sess)
		sess.resolveAwaiting(TurnStatePlayer, PendingFailed)
	}

	slog.Warn("Player action rejected",
		"session_id", sess.id,
		"kind", pending.Kind,
		"code", result.Code,
		"message", result.Message,
	)

	o.publish(ctx, EventCombatError, sess.character, sess.enemy, map[string]any{
		"session_id": sess.id,
		"kind":       string(pending.Kind),
		"code":       string(result.Code),
		"message":    result.Message,
		"retryable":  result.Code.Retryable(),
	})

	return &PlayerActionOutput{
		Pending:   pending,
		Turn:      sess.turn,
		ErrorCode: result.Code,
		Retryable: result.Code.Retryable(),
	}, nil
}

// reconcileEnemyFailure handles the taxonomy for the enemy's turn.
func (o *orchestrator) reconcileEnemyFailure(
	ctx context.Context,
	sess *session,
	result *authority.Result,
) (*EnemyActionOutput, error) {
	switch result.Code {
	case authority.ErrCombatEnded:
		sess.enemy.Health = 0
		o.handleEnemyDefeated(ctx, sess, PendingConfirmed)
		return &EnemyActionOutput{Turn: sess.turn, Outcome: sess.outcome}, nil

	case authority.ErrNotEnemyTurn:
		sess.resolveAwaiting(TurnStatePlayer, PendingFailed)

	case authority.ErrNotPlayerTurn:
		sess.resolveAwaiting(TurnStateEnemy, PendingFailed)

	default:
		sess.resolveAwaiting(TurnStateEnemy, PendingFailed)
	}

	o.publish(ctx, EventCombatError, sess.enemy, sess.character, map[string]any{
		"session_id": sess.id,
		"kind":       string(authority.ActionEnemyAttack),
		"code":       string(result.Code),
		"message":    result.Message,
		"retryable":  result.Code.Retryable(),
	})

	return &EnemyActionOutput{
		Turn:      sess.turn,
		ErrorCode: result.Code,
		Retryable: result.Code.Retryable(),
	}, nil
}

// handleEnemyDefeated runs the victory path: remove the enemy from the
// room, award experience, roll the kill drop exactly once, persist the
// room mutation, and close the session state machine.
func (o *orchestrator) handleEnemyDefeated(ctx context.Context, sess *session, state PendingState) {
	sess.end(entities.OutcomeVictory, state)

	if sess.lootDropped {
		o.publishEnded(ctx, sess)
		return
	}
	sess.lootDropped = true

	sess.character.Experience += sess.enemy.ExperienceReward
	cleared := sess.room.RemoveEnemy(sess.enemy.ID)

	items := o.rollKillDrop(ctx, sess)
	if len(items) > 0 {
		sess.room.Loot = append(sess.room.Loot, items...)
		// New loot keeps the room uncleared until collected in treasure
		// rooms; other types stay cleared.
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		o.publish(ctx, EventLootDropped, sess.character, sess.enemy, map[string]any{
			"session_id": sess.id,
			"floor":      sess.floor,
			"room_id":    sess.room.ID,
			"item_ids":   ids,
		})
	}

	if cleared {
		o.publish(ctx, EventRoomCleared, sess.character, nil, map[string]any{
			"run_id":  sess.runID,
			"floor":   sess.floor,
			"room_id": sess.room.ID,
		})
	}

	o.persistRoom(ctx, sess.runID, sess.floor, sess.room)
	o.publishEnded(ctx, sess)
}

// rollKillDrop generates the defeat reward: the boss table for bosses,
// the floor drop table otherwise.
func (o *orchestrator) rollKillDrop(ctx context.Context, sess *session) []*entities.Item {
	if sess.enemy.IsBoss {
		output, err := o.lootService.GenerateBossLoot(ctx, &loot.GenerateBossLootInput{Floor: sess.floor})
		if err != nil {
			slog.Warn("Boss loot generation failed", "session_id", sess.id, "error", err)
			return nil
		}
		return output.Items
	}

	output, err := o.lootService.GenerateLoot(ctx, &loot.GenerateLootInput{
		Floor:  sess.floor,
		Origin: entities.OriginKillDrop,
	})
	if err != nil {
		slog.Warn("Kill drop generation failed", "session_id", sess.id, "error", err)
		return nil
	}
	return output.Items
}

func (o *orchestrator) publishEnded(ctx context.Context, sess *session) {
	o.publish(ctx, EventCombatEnded, sess.character, sess.enemy, map[string]any{
		"session_id": sess.id,
		"outcome":    string(sess.outcome),
	})
}

// persistRoom writes a room mutation through the run repository so it
// survives room transitions and restarts. Persistence failure is logged
// but does not fail the action: in-memory state stays authoritative for
// the rest of the run.
func (o *orchestrator) persistRoom(ctx context.Context, runID string, floor int, room *entities.Room) {
	if runID == "" {
		return
	}

	_, err := o.runRepo.UpdateRoom(ctx, &run.UpdateRoomInput{
		RunID:         runID,
		Floor:         floor,
		Room:          room,
		CurrentFloor:  floor,
		CurrentRoomID: room.ID,
	})
	if err != nil {
		slog.Warn("Room persistence failed",
			"run_id", runID,
			"floor", floor,
			"room_id", room.ID,
			"error", err,
		)
	}
}

// installSubscriptions wires the session's combat log: a bus listener
// that mirrors this session's combat events into structured logs. The
// IDs are kept so teardown can unsubscribe before a successor session
// installs its own listeners.
func (o *orchestrator) installSubscriptions(sess *session) {
	logTopic := func(topic string) events.HandlerFunc {
		return func(_ context.Context, event events.Event) error {
			id, ok := event.Context().Get("session_id")
			if !ok || id != sess.id {
				return nil
			}
			slog.Debug("Combat log",
				"session_id", sess.id,
				"topic", topic,
			)
			return nil
		}
	}

	for _, topic := range []string{EventCombatPrediction, EventCombatConfirmed, EventCombatEnded} {
		sess.subscriptions = append(sess.subscriptions, o.eventBus.SubscribeFunc(topic, 0, logTopic(topic)))
	}
}
