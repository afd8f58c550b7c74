// Package combat implements the turn state machine and the transaction
// reconciliation layer around it. Player actions are predicted locally
// with the authority's own formulas, submitted, and then reconciled:
// any authoritative state in the confirmation overwrites the prediction,
// and each failure code has its own recovery path.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/combat Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/joshvajeskins/Ashfall-sub000/internal/authority"
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/repositories/run"
	"github.com/joshvajeskins/Ashfall-sub000/internal/rules"
)

const seedRange = 1 << 31

// Service defines the interface for combat sessions
type Service interface {
	// StartEncounter opens a combat session against one enemy in a room
	StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error)

	// PlayerAction submits one player action and reconciles the result
	PlayerAction(ctx context.Context, input *PlayerActionInput) (*PlayerActionOutput, error)

	// EnemyAction resolves the enemy's declared intent for its turn
	EnemyAction(ctx context.Context, input *EnemyActionInput) (*EnemyActionOutput, error)

	// PickupLoot collects a room item through the authority
	PickupLoot(ctx context.Context, input *PickupLootInput) (*PickupLootOutput, error)

	// SessionState reports the current turn state of a session
	SessionState(ctx context.Context, input *SessionStateInput) (*SessionStateOutput, error)

	// EndSession tears a session down, unsubscribing its bus handlers
	// and force-clearing any in-flight awaiting state
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	Authority     authority.TransactionAuthority
	EventBus      events.EventBus
	LootService   loot.Service
	RunRepository run.Repository
	Roller        dice.Roller
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Authority == nil {
		vb.RequiredField("Authority")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.LootService == nil {
		vb.RequiredField("LootService")
	}
	if c.RunRepository == nil {
		vb.RequiredField("RunRepository")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	authority   authority.TransactionAuthority
	eventBus    events.EventBus
	lootService loot.Service
	runRepo     run.Repository
	roller      dice.Roller
	idGen       idgen.Generator

	mu       sync.Mutex
	sessions map[string]*session
}

// NewOrchestrator creates a new combat orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		authority:   cfg.Authority,
		eventBus:    cfg.EventBus,
		lootService: cfg.LootService,
		runRepo:     cfg.RunRepository,
		roller:      cfg.Roller,
		idGen:       cfg.IDGenerator,
		sessions:    make(map[string]*session),
	}, nil
}

// StartEncounter opens a session. The initial state is awaiting the
// start confirmation; the session only becomes playable once the
// authority acknowledges it.
func (o *orchestrator) StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error) {
	if err := validateStartInput(input); err != nil {
		return nil, err
	}

	enemy := input.Room.Enemy(input.EnemyID)
	if enemy == nil {
		return nil, errors.NotFoundf("enemy %s not in room %d", input.EnemyID, input.Room.ID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sess := &session{
		id:        o.idGen.Generate(),
		runID:     input.RunID,
		dungeonID: input.DungeonID,
		floor:     input.Floor,
		room:      input.Room,
		character: input.Character,
		enemy:     enemy,
		turn:      TurnStateAwaiting,
		pending:   &PendingAction{Kind: authority.ActionStartCombat, State: PendingRequested},
		seenTxIDs: make(map[string]bool),
	}

	result, err := o.authority.Request(ctx, &authority.Request{
		Kind:      authority.ActionStartCombat,
		SessionID: sess.id,
		DungeonID: input.DungeonID,
		Floor:     input.Floor,
		RoomID:    input.Room.ID,
		EnemyID:   input.EnemyID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start combat submission failed")
	}

	if !result.Success {
		o.publish(ctx, EventCombatError, sess.character, enemy, map[string]any{
			"session_id": sess.id,
			"code":       string(result.Code),
			"message":    result.Message,
			"retryable":  result.Code.Retryable(),
		})
		return nil, errors.Unavailablef("authority refused start: %s", result.Code)
	}

	sess.markTx(result.TxID)
	o.applyAuthoritativeState(sess, result.State)
	sess.resolveAwaiting(TurnStatePlayer, PendingConfirmed)
	o.installSubscriptions(sess)
	o.sessions[sess.id] = sess

	slog.Info("Encounter started",
		"session_id", sess.id,
		"enemy_id", enemy.ID,
		"enemy_health", enemy.Health,
		"floor", input.Floor,
	)

	o.publish(ctx, EventCombatStarted, sess.character, enemy, map[string]any{
		"session_id":   sess.id,
		"enemy_health": enemy.Health,
		"enemy_intent": string(sess.nextIntent),
	})
	o.publish(ctx, EventCombatTurn, sess.character, enemy, map[string]any{
		"session_id": sess.id,
		"turn":       string(sess.turn),
	})

	return &StartEncounterOutput{
		SessionID:   sess.id,
		Turn:        sess.turn,
		EnemyIntent: sess.nextIntent,
	}, nil
}

// PlayerAction predicts the action locally, submits it, and reconciles.
// While a request is in flight the session is in the awaiting state and
// further actions are rejected, not queued.
func (o *orchestrator) PlayerAction(ctx context.Context, input *PlayerActionInput) (*PlayerActionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.playableSession(input.SessionID, TurnStatePlayer)
	if err != nil {
		return nil, err
	}

	pending := &PendingAction{Kind: input.Kind, State: PendingRequested}
	snap := snapshot(sess)

	var prediction *entities.CombatResult
	switch input.Kind {
	case authority.ActionAttack, authority.ActionHeavyAttack:
		heavy := input.Kind == authority.ActionHeavyAttack
		if cost := rules.ManaCost(heavy, false); cost > 0 && !sess.character.SpendMana(cost) {
			return nil, errors.FailedPrecondition("not enough mana for heavy attack")
		}

		seed, rollErr := o.roller.Roll(seedRange)
		if rollErr != nil {
			snap.restore(sess)
			return nil, errors.Wrap(rollErr, "failed to roll action seed")
		}
		pending.Seed = int64(seed)

		result := rules.Resolve(rules.PlayerAttacker{
			Character: sess.character,
			Heavy:     heavy,
			Seed:      pending.Seed,
		})
		result.TargetDied = sess.enemy.ApplyDamage(result.Damage)
		prediction = &result

		o.publish(ctx, EventCombatPrediction, sess.character, sess.enemy, map[string]any{
			"session_id":  sess.id,
			"damage":      result.Damage,
			"is_crit":     result.IsCrit,
			"target_died": result.TargetDied,
		})

	case authority.ActionDefend:
		sess.defending = true
		sess.character.RestoreMana(rules.DefendManaRestore)

	case authority.ActionHeal:
		if !sess.character.SpendMana(rules.HealManaCost) {
			return nil, errors.FailedPrecondition("not enough mana to heal")
		}
		healed := sess.character.RestoreHealth(rules.HealAmount(sess.character))

		o.publish(ctx, EventCombatPrediction, sess.character, sess.enemy, map[string]any{
			"session_id": sess.id,
			"healed":     healed,
		})

	case authority.ActionFlee:
		// No local state to predict.

	default:
		return nil, errors.InvalidArgumentf("invalid player action %q", input.Kind)
	}

	sess.beginAwaiting(pending)

	result, err := o.authority.Request(ctx, &authority.Request{
		Kind:      input.Kind,
		SessionID: sess.id,
		DungeonID: sess.dungeonID,
		Floor:     sess.floor,
		RoomID:    sess.room.ID,
		EnemyID:   sess.enemy.ID,
		Seed:      pending.Seed,
	})
	if err != nil {
		snap.restore(sess)
		sess.resolveAwaiting(TurnStatePlayer, PendingFailed)
		return nil, errors.Wrap(err, "action submission failed")
	}

	if !result.Success {
		return o.reconcilePlayerFailure(ctx, sess, snap, pending, prediction, result)
	}

	pending.TxID = result.TxID
	sess.markTx(result.TxID)
	o.applyAuthoritativeState(sess, result.State)

	if input.Kind == authority.ActionFlee {
		sess.end(entities.OutcomeFled, PendingConfirmed)
		o.publishEnded(ctx, sess)
		return &PlayerActionOutput{Pending: pending, Turn: sess.turn, Outcome: sess.outcome}, nil
	}

	if !sess.enemy.IsAlive() {
		o.handleEnemyDefeated(ctx, sess, PendingConfirmed)
		return &PlayerActionOutput{Result: prediction, Pending: pending, Turn: sess.turn, Outcome: sess.outcome}, nil
	}

	sess.resolveAwaiting(TurnStateEnemy, PendingConfirmed)

	o.publish(ctx, EventCombatConfirmed, sess.character, sess.enemy, map[string]any{
		"session_id":   sess.id,
		"kind":         string(input.Kind),
		"tx_id":        result.TxID,
		"enemy_health": sess.enemy.Health,
	})
	o.publish(ctx, EventCombatTurn, sess.character, sess.enemy, map[string]any{
		"session_id": sess.id,
		"turn":       string(sess.turn),
	})

	return &PlayerActionOutput{Result: prediction, Pending: pending, Turn: sess.turn}, nil
}

// EnemyAction resolves the enemy's pre-declared intent. The prediction
// is published for display, but state only mutates on confirmation,
// guarded by the transaction ID so a duplicate delivery is a no-op.
func (o *orchestrator) EnemyAction(ctx context.Context, input *EnemyActionInput) (*EnemyActionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.playableSession(input.SessionID, TurnStateEnemy)
	if err != nil {
		return nil, err
	}

	predicted := rules.Resolve(rules.EnemyAttacker{
		Enemy:     sess.enemy,
		Intent:    sess.nextIntent,
		Defending: sess.defending,
	})

	o.publish(ctx, EventCombatPrediction, sess.enemy, sess.character, map[string]any{
		"session_id": sess.id,
		"damage":     predicted.Damage,
		"intent":     string(sess.nextIntent),
	})

	pending := &PendingAction{Kind: authority.ActionEnemyAttack, State: PendingRequested}
	sess.beginAwaiting(pending)

	result, err := o.authority.Request(ctx, &authority.Request{
		Kind:      authority.ActionEnemyAttack,
		SessionID: sess.id,
		DungeonID: sess.dungeonID,
		Floor:     sess.floor,
		RoomID:    sess.room.ID,
		EnemyID:   sess.enemy.ID,
	})
	if err != nil {
		sess.resolveAwaiting(TurnStateEnemy, PendingFailed)
		return nil, errors.Wrap(err, "enemy action submission failed")
	}

	if !result.Success {
		return o.reconcileEnemyFailure(ctx, sess, result)
	}

	pending.TxID = result.TxID
	if !sess.markTx(result.TxID) {
		// Already processed this confirmation; drop it without touching
		// state, but release the turn so the session cannot deadlock.
		sess.resolveAwaiting(TurnStatePlayer, PendingConfirmed)
		slog.Warn("Duplicate enemy attack confirmation dropped",
			"session_id", sess.id,
			"tx_id", result.TxID,
		)
		return &EnemyActionOutput{Turn: sess.turn, NextIntent: sess.nextIntent, Duplicate: true}, nil
	}

	if result.State != nil && result.State.PlayerHealth != nil {
		sess.character.Health = *result.State.PlayerHealth
	} else {
		sess.character.ApplyDamage(predicted.Damage)
	}
	sess.defending = false
	if result.State != nil && result.State.NextEnemyIntent != "" {
		sess.nextIntent = result.State.NextEnemyIntent
	}

	if !sess.character.IsAlive() {
		sess.end(entities.OutcomeDefeat, PendingConfirmed)
		o.publishEnded(ctx, sess)
		return &EnemyActionOutput{Result: &predicted, Turn: sess.turn, Outcome: sess.outcome}, nil
	}

	sess.resolveAwaiting(TurnStatePlayer, PendingConfirmed)

	o.publish(ctx, EventCombatConfirmed, sess.enemy, sess.character, map[string]any{
		"session_id":    sess.id,
		"kind":          string(authority.ActionEnemyAttack),
		"tx_id":         result.TxID,
		"player_health": sess.character.Health,
	})
	o.publish(ctx, EventCombatTurn, sess.character, sess.enemy, map[string]any{
		"session_id": sess.id,
		"turn":       string(sess.turn),
	})

	return &EnemyActionOutput{Result: &predicted, Turn: sess.turn, NextIntent: sess.nextIntent}, nil
}

// PickupLoot runs the pickup reconciliation flow. It is not turn-gated;
// pickups happen outside combat.
func (o *orchestrator) PickupLoot(ctx context.Context, input *PickupLootInput) (*PickupLootOutput, error) {
	if input == nil || input.Room == nil {
		return nil, errors.InvalidArgument("room is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	result, err := o.authority.Request(ctx, &authority.Request{
		Kind:      authority.ActionPickupLoot,
		DungeonID: input.DungeonID,
		Floor:     input.Floor,
		RoomID:    input.Room.ID,
		ItemID:    input.ItemID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "pickup submission failed")
	}

	if !result.Success {
		o.publish(ctx, EventCombatError, input.Character, nil, map[string]any{
			"code":      string(result.Code),
			"message":   result.Message,
			"retryable": result.Code.Retryable(),
		})
		return &PickupLootOutput{ErrorCode: result.Code, Retryable: result.Code.Retryable()}, nil
	}

	item, cleared := input.Room.TakeLoot(input.ItemID)
	if item == nil {
		return nil, errors.Internalf("item %s confirmed but not present locally", input.ItemID)
	}

	o.publish(ctx, EventItemPickedUp, input.Character, nil, map[string]any{
		"run_id":  input.RunID,
		"floor":   input.Floor,
		"room_id": input.Room.ID,
		"item_id": item.ID,
		"rarity":  string(item.Rarity),
	})
	if cleared {
		o.publish(ctx, EventRoomCleared, input.Character, nil, map[string]any{
			"run_id":  input.RunID,
			"floor":   input.Floor,
			"room_id": input.Room.ID,
		})
	}

	o.persistRoom(ctx, input.RunID, input.Floor, input.Room)

	return &PickupLootOutput{Item: item, RoomCleared: cleared}, nil
}

// SessionState reports the session's current turn, outcome, and enemy view.
func (o *orchestrator) SessionState(_ context.Context, input *SessionStateInput) (*SessionStateOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, exists := o.sessions[input.SessionID]
	if !exists {
		return nil, errors.NotFoundf("session %s not found", input.SessionID)
	}

	return &SessionStateOutput{
		Turn:        sess.turn,
		Outcome:     sess.outcome,
		EnemyIntent: sess.nextIntent,
		EnemyHealth: sess.enemy.Health,
	}, nil
}

// EndSession tears the session down. Bus handlers are unsubscribed
// before the session is dropped so a stale handler can never touch a
// successor session's state; any in-flight awaiting state is cleared.
func (o *orchestrator) EndSession(_ context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, exists := o.sessions[input.SessionID]
	if !exists {
		return &EndSessionOutput{Success: true}, nil
	}

	for _, subID := range sess.subscriptions {
		if err := o.eventBus.Unsubscribe(subID); err != nil {
			slog.Warn("Unsubscribe failed",
				"session_id", sess.id,
				"subscription_id", subID,
				"error", err,
			)
		}
	}
	sess.subscriptions = nil

	if sess.turn == TurnStateAwaiting {
		sess.resolveAwaiting(TurnStateEnded, PendingFailed)
	}
	delete(o.sessions, sess.id)

	slog.Info("Session ended", "session_id", sess.id)

	return &EndSessionOutput{Success: true}, nil
}

// playableSession fetches a session that must currently be in the given
// turn state. Awaiting means a request is in flight and the action is
// rejected, not queued; an ended session discards everything.
func (o *orchestrator) playableSession(sessionID string, want TurnState) (*session, error) {
	sess, exists := o.sessions[sessionID]
	if !exists {
		return nil, errors.NotFoundf("session %s not found", sessionID)
	}

	switch sess.turn {
	case TurnStateEnded:
		return nil, errors.FailedPreconditionf("combat already ended with outcome %s", sess.outcome)
	case TurnStateAwaiting:
		return nil, errors.FailedPrecondition("another action is in flight")
	case want:
		return sess, nil
	default:
		return nil, errors.FailedPreconditionf("not %s, current turn is %s", want, sess.turn)
	}
}

// applyAuthoritativeState overwrites local predicted state with whatever
// the confirmation carries. Nil fields leave the prediction standing.
func (o *orchestrator) applyAuthoritativeState(sess *session, state *authority.AuthoritativeState) {
	if state == nil {
		return
	}
	if state.EnemyHealth != nil {
		sess.enemy.Health = *state.EnemyHealth
	}
	if state.PlayerHealth != nil {
		sess.character.Health = *state.PlayerHealth
	}
	if state.PlayerMana != nil {
		sess.character.Mana = *state.PlayerMana
	}
	if state.NextEnemyIntent != "" {
		sess.nextIntent = state.NextEnemyIntent
	}
}

func validateStartInput(input *StartEncounterInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.RunID == "" {
		vb.RequiredField("RunID")
	}
	if input.Room == nil {
		vb.RequiredField("Room")
	}
	if input.EnemyID == "" {
		vb.RequiredField("EnemyID")
	}
	if input.Character == nil {
		vb.RequiredField("Character")
	}
	return vb.Build()
}
