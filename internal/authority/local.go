package authority

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/errors"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/prng"
	"github.com/joshvajeskins/Ashfall-sub000/internal/rules"
)

// Local is an in-process TransactionAuthority executing the canonical
// formulas directly. It backs the simulate command and integration-style
// tests, and doubles as the executable definition of the arithmetic the
// client-side prediction must match bit-for-bit. It keeps its own copies
// of player and dungeon state — the whole point is that the client's
// view is only a prediction of this one.
type Local struct {
	idGen idgen.Generator

	mu       sync.Mutex
	player   *entities.Character
	layout   *entities.DungeonLayout
	sessions map[string]*localSession
}

type localSession struct {
	enemy      *entities.Enemy
	playerTurn bool
	defending  bool
	nextIntent entities.EnemyIntent
	intents    *prng.Source
	ended      bool
}

// LocalConfig holds the dependencies for the local authority.
type LocalConfig struct {
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *LocalConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// NewLocal creates a local in-process authority.
func NewLocal(cfg *LocalConfig) (*Local, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Local{
		idGen:    cfg.IDGenerator,
		sessions: make(map[string]*localSession),
	}, nil
}

// RegisterRun installs the authority's own copies of the character and
// layout, standing in for the ledger state a dungeon-start transaction
// would have created. Copies are deep: later client-side mutation must
// not leak into canonical state.
func (l *Local) RegisterRun(character *entities.Character, layout *entities.DungeonLayout) error {
	if character == nil || layout == nil {
		return errors.InvalidArgument("character and layout are required")
	}

	var charCopy entities.Character
	if err := deepCopy(character, &charCopy); err != nil {
		return errors.Wrap(err, "failed to copy character")
	}

	var layoutCopy entities.DungeonLayout
	if err := deepCopy(layout, &layoutCopy); err != nil {
		return errors.Wrap(err, "failed to copy layout")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.player = &charCopy
	l.layout = &layoutCopy
	l.sessions = make(map[string]*localSession)
	return nil
}

func deepCopy(src, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Request executes one action against the canonical state.
func (l *Local) Request(_ context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.InvalidArgument("request is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.player == nil {
		return failure(ErrNotConnected, "no run registered"), nil
	}

	switch req.Kind {
	case ActionStartCombat:
		return l.startCombat(req), nil
	case ActionAttack, ActionHeavyAttack:
		return l.playerAttack(req), nil
	case ActionDefend:
		return l.defend(req), nil
	case ActionHeal:
		return l.heal(req), nil
	case ActionFlee:
		return l.flee(req), nil
	case ActionEnemyAttack:
		return l.enemyAttack(req), nil
	case ActionPickupLoot:
		return l.pickupLoot(req), nil
	default:
		return failure(ErrUnknown, "unsupported action kind"), nil
	}
}

func (l *Local) startCombat(req *Request) *Result {
	if _, exists := l.sessions[req.SessionID]; exists {
		return failure(ErrUnknown, "session already started")
	}

	enemy := l.findEnemy(req.Floor, req.RoomID, req.EnemyID)
	if enemy == nil {
		return failure(ErrUnknown, "enemy not found in canonical layout")
	}

	intents := prng.New(prng.DeriveFloorSeed(l.layout.Seed, req.Floor*100+req.RoomID))
	session := &localSession{
		enemy:      enemy,
		playerTurn: true,
		nextIntent: prng.Pick(intents, entities.EnemyIntents),
		intents:    intents,
	}
	l.sessions[req.SessionID] = session

	slog.Info("Local authority started combat",
		"session_id", req.SessionID,
		"enemy_id", enemy.ID,
		"enemy_health", enemy.Health,
	)

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
		State: &AuthoritativeState{
			EnemyHealth:     IntPtr(enemy.Health),
			PlayerHealth:    IntPtr(l.player.Health),
			PlayerMana:      IntPtr(l.player.Mana),
			NextEnemyIntent: session.nextIntent,
		},
	}
}

func (l *Local) playerAttack(req *Request) *Result {
	session, result := l.playerTurnSession(req)
	if result != nil {
		return result
	}

	heavy := req.Kind == ActionHeavyAttack
	if cost := rules.ManaCost(heavy, false); cost > 0 && !l.player.SpendMana(cost) {
		return failure(ErrInsufficientMana, "not enough mana for heavy attack")
	}

	outcome := rules.Resolve(rules.PlayerAttacker{
		Character: l.player,
		Heavy:     heavy,
		Seed:      req.Seed,
	})
	session.enemy.ApplyDamage(outcome.Damage)

	if !session.enemy.IsAlive() {
		session.ended = true
	} else {
		session.playerTurn = false
	}

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
		State: &AuthoritativeState{
			EnemyHealth:     IntPtr(session.enemy.Health),
			PlayerMana:      IntPtr(l.player.Mana),
			NextEnemyIntent: session.nextIntent,
		},
	}
}

func (l *Local) defend(req *Request) *Result {
	session, result := l.playerTurnSession(req)
	if result != nil {
		return result
	}

	session.defending = true
	session.playerTurn = false
	l.player.RestoreMana(rules.DefendManaRestore)

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
		State: &AuthoritativeState{
			PlayerMana:      IntPtr(l.player.Mana),
			NextEnemyIntent: session.nextIntent,
		},
	}
}

func (l *Local) heal(req *Request) *Result {
	session, result := l.playerTurnSession(req)
	if result != nil {
		return result
	}

	if !l.player.SpendMana(rules.HealManaCost) {
		return failure(ErrInsufficientMana, "not enough mana to heal")
	}

	l.player.RestoreHealth(rules.HealAmount(l.player))
	session.playerTurn = false

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
		State: &AuthoritativeState{
			PlayerHealth:    IntPtr(l.player.Health),
			PlayerMana:      IntPtr(l.player.Mana),
			NextEnemyIntent: session.nextIntent,
		},
	}
}

func (l *Local) flee(req *Request) *Result {
	session, result := l.playerTurnSession(req)
	if result != nil {
		return result
	}

	session.ended = true

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
	}
}

func (l *Local) enemyAttack(req *Request) *Result {
	session, exists := l.sessions[req.SessionID]
	if !exists {
		return failure(ErrUnknown, "unknown session")
	}
	if session.ended {
		return failure(ErrCombatEnded, "combat already ended")
	}
	if session.playerTurn {
		return failure(ErrNotEnemyTurn, "it is the player's turn")
	}

	outcome := rules.Resolve(rules.EnemyAttacker{
		Enemy:     session.enemy,
		Intent:    session.nextIntent,
		Defending: session.defending,
	})
	l.player.ApplyDamage(outcome.Damage)
	session.defending = false
	session.playerTurn = true
	session.nextIntent = prng.Pick(session.intents, entities.EnemyIntents)

	if !l.player.IsAlive() {
		session.ended = true
	}

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
		State: &AuthoritativeState{
			PlayerHealth:    IntPtr(l.player.Health),
			NextEnemyIntent: session.nextIntent,
		},
	}
}

func (l *Local) pickupLoot(req *Request) *Result {
	room := l.findRoom(req.Floor, req.RoomID)
	if room == nil {
		return failure(ErrUnknown, "room not found in canonical layout")
	}

	item, _ := room.TakeLoot(req.ItemID)
	if item == nil {
		return failure(ErrUnknown, "item not present in canonical room state")
	}

	slog.Info("Local authority confirmed pickup",
		"floor", req.Floor,
		"room_id", room.ID,
		"item_id", item.ID,
	)

	return &Result{
		Success: true,
		TxID:    l.idGen.Generate(),
	}
}

// playerTurnSession resolves the session for a player-initiated action,
// returning a failure Result in place of the session when the action is
// not currently legal.
func (l *Local) playerTurnSession(req *Request) (*localSession, *Result) {
	session, exists := l.sessions[req.SessionID]
	if !exists {
		return nil, failure(ErrUnknown, "unknown session")
	}
	if session.ended {
		return nil, failure(ErrCombatEnded, "combat already ended")
	}
	if !session.playerTurn {
		return nil, failure(ErrNotPlayerTurn, "it is the enemy's turn")
	}
	return session, nil
}

func (l *Local) findEnemy(floor, roomID int, enemyID string) *entities.Enemy {
	room := l.findRoom(floor, roomID)
	if room == nil {
		return nil
	}
	return room.Enemy(enemyID)
}

func (l *Local) findRoom(floorNumber, roomID int) *entities.Room {
	floor := l.layout.Floor(floorNumber)
	if floor == nil {
		return nil
	}
	return floor.Room(roomID)
}

func failure(code ErrorCode, message string) *Result {
	return &Result{
		Success: false,
		Code:    code,
		Message: message,
	}
}
