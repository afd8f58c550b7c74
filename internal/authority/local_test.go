package authority_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/joshvajeskins/Ashfall-sub000/internal/authority"
	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
)

type LocalTestSuite struct {
	suite.Suite
	local     *authority.Local
	character *entities.Character
	ctx       context.Context
}

func (s *LocalTestSuite) SetupTest() {
	local, err := authority.NewLocal(&authority.LocalConfig{
		IDGenerator: idgen.NewSequential("tx"),
	})
	s.Require().NoError(err)

	s.local = local
	s.character = &entities.Character{
		ID:           "char_1",
		Class:        "warrior",
		Health:       100,
		MaxHealth:    100,
		Mana:         50,
		MaxMana:      50,
		Strength:     10,
		Agility:      5,
		Intelligence: 9,
		Weapon:       &entities.Item{ID: "item_sword", Type: entities.ItemTypeWeapon},
	}
	s.ctx = context.Background()

	layout := &entities.DungeonLayout{
		DungeonID: "dungeon_1",
		Seed:      42,
		Floors: []*entities.FloorLayout{
			{
				FloorNumber: 1,
				StartRoomID: 0,
				ExitRoomID:  1,
				Rooms: []*entities.Room{
					{ID: 0, Type: entities.RoomTypeStart, Cleared: true},
					{
						ID:   1,
						Type: entities.RoomTypeCombat,
						Enemies: []*entities.Enemy{
							{ID: "enemy_1", Kind: "skeleton", Health: 35, MaxHealth: 35, Damage: 8},
						},
						Loot: []*entities.Item{
							{ID: "item_1", Type: entities.ItemTypeArmor},
						},
					},
				},
			},
		},
	}
	s.Require().NoError(local.RegisterRun(s.character, layout))
}

func (s *LocalTestSuite) request(req *authority.Request) *authority.Result {
	result, err := s.local.Request(s.ctx, req)
	s.Require().NoError(err)
	return result
}

func (s *LocalTestSuite) startCombat(sessionID string) *authority.Result {
	return s.request(&authority.Request{
		Kind:      authority.ActionStartCombat,
		SessionID: sessionID,
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
	})
}

func (s *LocalTestSuite) TestStartCombat() {
	result := s.startCombat("sess_1")

	s.Require().True(result.Success)
	s.NotEmpty(result.TxID)
	s.Require().NotNil(result.State)
	s.Equal(35, *result.State.EnemyHealth)
	s.Equal(100, *result.State.PlayerHealth)
	s.Equal(50, *result.State.PlayerMana)
	s.NotEmpty(result.State.NextEnemyIntent)
}

func (s *LocalTestSuite) TestAttackFormula() {
	s.startCombat("sess_1")

	result := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      999,
	})

	s.Require().True(result.Success)
	// base 5 + weapon 15 + 10/2 = 25, no crit: 999 % 1000 = 999 is
	// outside the window 50 + 5*2 = 60.
	s.Equal(10, *result.State.EnemyHealth)
}

func (s *LocalTestSuite) TestCritSeed() {
	s.startCombat("sess_1")

	result := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      10,
	})

	s.Require().True(result.Success)
	// 10 % 1000 = 10 < 60: crit doubles 25 to 50, killing the skeleton.
	s.Equal(0, *result.State.EnemyHealth)
}

func (s *LocalTestSuite) TestTurnEnforcement() {
	s.startCombat("sess_1")

	first := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      999,
	})
	s.Require().True(first.Success)

	// A second player action before the enemy turn is rejected.
	second := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      999,
	})
	s.Require().False(second.Success)
	s.Equal(authority.ErrNotPlayerTurn, second.Code)
}

func (s *LocalTestSuite) TestEnemyAttackOnPlayerTurn() {
	s.startCombat("sess_1")

	result := s.request(&authority.Request{
		Kind:      authority.ActionEnemyAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
	})
	s.Require().False(result.Success)
	s.Equal(authority.ErrNotEnemyTurn, result.Code)
}

func (s *LocalTestSuite) TestInsufficientMana() {
	s.character.Mana = 5
	s.SetupTestWithCharacter()

	s.startCombat("sess_1")

	result := s.request(&authority.Request{
		Kind:      authority.ActionHeal,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
	})
	s.Require().False(result.Success)
	s.Equal(authority.ErrInsufficientMana, result.Code)
	s.False(result.Code.Retryable())
}

// SetupTestWithCharacter re-registers the run with the already mutated
// character so the canonical copy matches.
func (s *LocalTestSuite) SetupTestWithCharacter() {
	layout := &entities.DungeonLayout{
		DungeonID: "dungeon_1",
		Seed:      42,
		Floors: []*entities.FloorLayout{
			{
				FloorNumber: 1,
				StartRoomID: 0,
				ExitRoomID:  1,
				Rooms: []*entities.Room{
					{ID: 0, Type: entities.RoomTypeStart, Cleared: true},
					{
						ID:   1,
						Type: entities.RoomTypeCombat,
						Enemies: []*entities.Enemy{
							{ID: "enemy_1", Kind: "skeleton", Health: 35, MaxHealth: 35, Damage: 8},
						},
					},
				},
			},
		},
	}
	s.Require().NoError(s.local.RegisterRun(s.character, layout))
}

func (s *LocalTestSuite) TestCombatEndedAfterKill() {
	s.startCombat("sess_1")

	kill := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      10,
	})
	s.Require().True(kill.Success)

	late := s.request(&authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
		Floor:     1,
		RoomID:    1,
		EnemyID:   "enemy_1",
		Seed:      999,
	})
	s.Require().False(late.Success)
	s.Equal(authority.ErrCombatEnded, late.Code)
}

func (s *LocalTestSuite) TestPickupLoot() {
	result := s.request(&authority.Request{
		Kind:   authority.ActionPickupLoot,
		Floor:  1,
		RoomID: 1,
		ItemID: "item_1",
	})
	s.Require().True(result.Success)

	// The canonical copy no longer has the item.
	again := s.request(&authority.Request{
		Kind:   authority.ActionPickupLoot,
		Floor:  1,
		RoomID: 1,
		ItemID: "item_1",
	})
	s.Require().False(again.Success)
	s.Equal(authority.ErrUnknown, again.Code)
}

func (s *LocalTestSuite) TestNotConnected() {
	local, err := authority.NewLocal(&authority.LocalConfig{
		IDGenerator: idgen.NewSequential("tx"),
	})
	s.Require().NoError(err)

	result, err := local.Request(s.ctx, &authority.Request{
		Kind:      authority.ActionAttack,
		SessionID: "sess_1",
	})
	s.Require().NoError(err)
	s.Require().False(result.Success)
	s.Equal(authority.ErrNotConnected, result.Code)
	s.False(result.Code.Retryable())
}

func (s *LocalTestSuite) TestRetryableTaxonomy() {
	retryable := []authority.ErrorCode{
		authority.ErrBuildFailed,
		authority.ErrSubmitFailed,
		authority.ErrUnknown,
	}
	for _, code := range retryable {
		s.True(code.Retryable(), "%s should be retryable", code)
	}

	terminal := []authority.ErrorCode{
		authority.ErrNotConnected,
		authority.ErrCombatEnded,
		authority.ErrNotPlayerTurn,
		authority.ErrNotEnemyTurn,
		authority.ErrInsufficientMana,
	}
	for _, code := range terminal {
		s.False(code.Retryable(), "%s should not be retryable", code)
	}
}

func TestLocalTestSuite(t *testing.T) {
	suite.Run(t, new(LocalTestSuite))
}
