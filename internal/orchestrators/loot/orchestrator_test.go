package loot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/joshvajeskins/Ashfall-sub000/internal/entities"
	"github.com/joshvajeskins/Ashfall-sub000/internal/orchestrators/loot"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/idgen"
	"github.com/joshvajeskins/Ashfall-sub000/internal/pkg/prng"
)

// fixedRoller satisfies dice.Roller with a constant value so the ambient
// entropy path is testable.
type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(_ int) (int, error)       { return r.value, nil }
func (r *fixedRoller) RollN(_, _ int) ([]int, error) { return []int{r.value}, nil }

type OrchestratorTestSuite struct {
	suite.Suite
	service loot.Service
	ctx     context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	svc, err := loot.NewOrchestrator(&loot.Config{
		IDGenerator: idgen.NewSequential("item"),
		Roller:      &fixedRoller{value: 424242},
	})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TestGenerateLoot_Deterministic() {
	first, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
		Floor:  2,
		Source: prng.New(777),
	})
	s.Require().NoError(err)

	second, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
		Floor:  2,
		Source: prng.New(777),
	})
	s.Require().NoError(err)

	s.Require().Len(second.Items, len(first.Items))
	for i := range first.Items {
		s.Equal(first.Items[i].Name, second.Items[i].Name)
		s.Equal(first.Items[i].Rarity, second.Items[i].Rarity)
		s.Equal(first.Items[i].Type, second.Items[i].Type)
		s.Equal(first.Items[i].Stats, second.Items[i].Stats)
	}
}

func (s *OrchestratorTestSuite) TestGenerateLoot_NoCommonOnDeepFloors() {
	for seed := int64(0); seed < 300; seed++ {
		output, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
			Floor:  5,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		for _, item := range output.Items {
			s.NotEqual(entities.RarityCommon, item.Rarity,
				"floor 5 dropped a common item with seed %d", seed)
		}
	}
}

func (s *OrchestratorTestSuite) TestGenerateLoot_StatsMatchType() {
	// Walk seeds until each equipment type has been observed.
	seen := make(map[entities.ItemType]bool)
	for seed := int64(0); seed < 500 && len(seen) < 3; seed++ {
		output, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
			Floor:  1,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		for _, item := range output.Items {
			seen[item.Type] = true
			switch item.Type {
			case entities.ItemTypeWeapon:
				s.Positive(item.Stats.Damage)
				s.Zero(item.Stats.Defense)
			case entities.ItemTypeArmor:
				s.Positive(item.Stats.Defense)
				s.Zero(item.Stats.Damage)
			case entities.ItemTypeAccessory:
				s.Positive(item.Stats.Bonus)
			}
		}
	}
	s.Len(seen, 3, "expected to observe weapon, armor, and accessory drops")
}

func (s *OrchestratorTestSuite) TestGenerateLoot_ConsumablesOnlyFromFloorThree() {
	for seed := int64(0); seed < 300; seed++ {
		output, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
			Floor:  2,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		for _, item := range output.Items {
			s.NotEqual(entities.ItemTypeConsumable, item.Type)
		}
	}

	found := false
	for seed := int64(0); seed < 300 && !found; seed++ {
		output, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{
			Floor:  3,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		for _, item := range output.Items {
			if item.Type == entities.ItemTypeConsumable {
				found = true
			}
		}
	}
	s.True(found, "no consumable observed on floor 3 across 300 seeds")
}

func (s *OrchestratorTestSuite) TestGenerateLoot_AmbientEntropyPath() {
	output, err := s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{Floor: 1})
	s.Require().NoError(err)
	s.NotNil(output)
}

func (s *OrchestratorTestSuite) TestGenerateBossLoot() {
	for seed := int64(0); seed < 100; seed++ {
		output, err := s.service.GenerateBossLoot(s.ctx, &loot.GenerateBossLootInput{
			Floor:  2,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		s.GreaterOrEqual(len(output.Items), 1)
		s.LessOrEqual(len(output.Items), 3)
		for _, item := range output.Items {
			s.Contains([]entities.Rarity{
				entities.RarityRare,
				entities.RarityEpic,
				entities.RarityLegendary,
			}, item.Rarity)
			s.Equal(entities.OriginBossDrop, item.Origin)
		}
	}
}

func (s *OrchestratorTestSuite) TestGenerateBossLoot_FinalFloorIsLegendaryOnly() {
	for seed := int64(0); seed < 100; seed++ {
		output, err := s.service.GenerateBossLoot(s.ctx, &loot.GenerateBossLootInput{
			Floor:  5,
			Source: prng.New(seed),
		})
		s.Require().NoError(err)

		for _, item := range output.Items {
			s.Equal(entities.RarityLegendary, item.Rarity)
		}
	}
}

func (s *OrchestratorTestSuite) TestGenerateLoot_Validation() {
	_, err := s.service.GenerateLoot(s.ctx, nil)
	s.Error(err)

	_, err = s.service.GenerateLoot(s.ctx, &loot.GenerateLootInput{Floor: 0})
	s.Error(err)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
