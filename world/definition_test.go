package world_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/world"
)

type DefinitionTestSuite struct {
	suite.Suite
}

func TestDefinitionSuite(t *testing.T) {
	suite.Run(t, new(DefinitionTestSuite))
}

func (s *DefinitionTestSuite) TestLoadAndBuildSampleWorld() {
	def, err := world.LoadDefinition(filepath.Join("testdata", "homestead.yaml"))
	s.Require().NoError(err)

	w, err := def.Build(nil)
	s.Require().NoError(err)

	// The derivation chain resolves stamina 5 -> maxhp 50 -> curhp 50.
	curhp, err := w.Graph().FullValue("curhp")
	s.Require().NoError(err)
	s.Assert().Equal(50.0, curhp)

	ben, err := w.Entity("ben")
	s.Require().NoError(err)
	s.Assert().Equal("Ben", ben.Name)
	s.Assert().Equal(world.KindPC, ben.Kind)
	s.Assert().Equal(50.0, ben.Stats["maxhp"])

	level, err := ben.LevelIn("melee")
	s.Require().NoError(err)
	s.Assert().Equal(0, level)

	joe, err := w.Entity("joe")
	s.Require().NoError(err)
	s.Assert().Equal(9001, joe.KillReward)
	level, err = joe.LevelIn("melee")
	s.Require().NoError(err)
	s.Assert().Equal(3, level)

	// Count fan-out: five spiders, three rats, one troll.
	for _, id := range []string{"spider_1", "spider_2", "spider_3", "spider_4", "spider_5"} {
		spider, serr := w.Entity(id)
		s.Require().NoError(serr)
		s.Assert().Equal("a spider", spider.Name)
		s.Assert().Equal(75, spider.KillReward)
	}
	rat, err := w.Entity("rat_2")
	s.Require().NoError(err)
	s.Assert().Equal(world.KindNPCMilitia, rat.Kind)
	// Militia tier sits 2 below the resolved graph value.
	s.Assert().Equal(48.0, rat.Stats["maxhp"])

	troll, err := w.Entity("troll")
	s.Require().NoError(err)
	s.Assert().Equal(1500, troll.SkillExperience["melee"])

	// Ben and Joe share the living room, the spiders keep the kitchen.
	livingroom, err := w.Area("livingroom")
	s.Require().NoError(err)
	s.Assert().Len(livingroom.Entities, 2)
	kitchen, err := w.Area("kitchen")
	s.Require().NoError(err)
	s.Assert().Len(kitchen.Entities, 5)

	// The rats and the troll are defined but not yet placed anywhere.
	s.Assert().NotContains(livingroom.Entities, "rat_1")
	s.Assert().NotContains(kitchen.Entities, "rat_1")

	door := livingroom.Items["kitchendoor"]
	s.Require().NotNil(door)
	s.Require().NotNil(door.Portal)
	s.Assert().Same(kitchen, door.Portal.LeadsTo)
	s.Assert().Same(livingroom, door.Portal.IsFrom)
	s.Assert().True(door.Portal.Unlocks(&world.Item{Name: "Kitchen Key"}))

	back := kitchen.Items["backfromkitchen"]
	s.Require().NotNil(back)
	s.Require().NotNil(back.Portal)
	s.Assert().Same(livingroom, back.Portal.LeadsTo)
	s.Assert().False(back.Portal.Locked())
}

func (s *DefinitionTestSuite) TestParseRejectsUnknownFields() {
	_, err := world.ParseDefinition([]byte("stats:\n  - name: strength\n    vlaue: 5\n"))
	s.Require().Error(err)
}

func (s *DefinitionTestSuite) TestParseRejectsEmptyDocument() {
	_, err := world.ParseDefinition([]byte(""))
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))
}

func (s *DefinitionTestSuite) TestValidateCollectsEveryProblem() {
	def := &world.Definition{
		Stats: []world.StatDef{
			{Name: "strength", Value: 5},
			{Name: "strength", Value: 5},
		},
		Skills: []world.SkillDef{
			{Name: "melee", Stats: []string{"strength", "luck"}, Experience: []int{0}, PerkPoints: []int{1}, PerkCredits: []int{1}},
		},
		Entities: []world.EntityDef{
			{ID: "ben", Name: "Ben", Kind: "wizard", Area: "attic", Skills: []string{"archery"}},
		},
		Areas: []world.AreaDef{
			{Name: "livingroom", Items: []world.ItemDef{
				{Name: "kitchendoor", Portal: &world.PortalDef{LeadsTo: "kitchen"}},
			}},
		},
	}

	err := def.Validate()
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))

	var structured *errors.Error
	s.Require().True(errors.As(err, &structured))
	fields, ok := structured.Meta["validation_errors"].(map[string][]string)
	s.Require().True(ok)

	// One entry per problem: duplicate stat, undeclared stat reference,
	// unknown kind, undeclared area, undeclared skill, dangling portal.
	s.Assert().Len(fields, 6)
}

func (s *DefinitionTestSuite) TestBaseStatMinimumEnforced() {
	minimum := 5.0
	def := &world.Definition{
		BaseStatMinimum: &minimum,
		Stats: []world.StatDef{
			{Name: "strength", Value: 3},
		},
	}

	err := def.Validate()
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "below the minimum")
}

func (s *DefinitionTestSuite) TestBuildRejectsStatCycle() {
	def := &world.Definition{
		Stats: []world.StatDef{
			{Name: "a", DerivedFrom: "b"},
			{Name: "b", DerivedFrom: "a"},
		},
	}

	_, err := def.Build(nil)
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeCycle, errors.GetCode(err))
}

func (s *DefinitionTestSuite) TestBuildResolvesForwardReferences() {
	scale := 10.0
	def := &world.Definition{
		Stats: []world.StatDef{
			// Derived before its source; name resolution is deferred.
			{Name: "maxhp", DerivedFrom: "stamina", Derive: &world.DeriveDef{Scale: &scale}},
			{Name: "stamina", Value: 5},
		},
	}

	w, err := def.Build(nil)
	s.Require().NoError(err)

	v, err := w.Graph().FullValue("maxhp")
	s.Require().NoError(err)
	s.Assert().Equal(50.0, v)
}

func (s *DefinitionTestSuite) TestDeriveDefFunc() {
	scale := 2.0
	offset := 3.0

	s.Assert().Equal(7.0, (&world.DeriveDef{Scale: &scale, Offset: &offset}).Func()(2))
	s.Assert().Equal(2.0, (*world.DeriveDef)(nil).Func()(2))
}
