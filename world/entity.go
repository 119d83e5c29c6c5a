package world

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/stats"
)

// Kind classifies an entity as player-controlled or one of the NPC tiers.
// Each tier carries a flat stat delta applied to every snapshot value.
type Kind string

// Entity kinds
const (
	KindPC          Kind = "pc"
	KindNPCBoss     Kind = "npc_boss"
	KindNPCMilitary Kind = "npc_military"
	KindNPCMilitia  Kind = "npc_militia"
	KindNPCCivilian Kind = "npc_civilian"
)

// StatMod returns the tier's flat stat delta. Deltas combine with resolved
// stat values additively, after graph-level modifiers, so tiers always shift
// the final snapshot by the same amount regardless of the modifier stack.
func (k Kind) StatMod() float64 {
	switch k {
	case KindNPCMilitary:
		return -1
	case KindNPCMilitia:
		return -2
	case KindNPCCivilian:
		return -3
	default:
		// PC and boss tiers play at full strength.
		return 0
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPC, KindNPCBoss, KindNPCMilitary, KindNPCMilitia, KindNPCCivilian:
		return true
	}
	return false
}

// Entity is any animate object in a game: the player character or an NPC.
// It owns its accumulated skill experience and a snapshot of resolved stat
// values. The snapshot is not a live reference; call RefreshStats after any
// relevant graph mutation, or let the owning World refresh it via the event
// bus.
type Entity struct {
	// ID is the unique instance identifier. Display names need not be
	// unique (five spiders can all be named "a spider").
	ID          string
	Name        string
	Description string
	Kind        Kind

	// Skills maps skill name to the skill definition this entity advances.
	Skills map[string]*Skill

	// SkillExperience maps skill name to accumulated experience. Mutated by
	// gameplay logic outside this library.
	SkillExperience map[string]int

	// Stats is the entity's resolved stat-value snapshot, keyed by stat
	// name. Mutated by gameplay logic or refreshed from a stats.Graph.
	Stats map[string]float64

	// KillReward is the experience awarded for defeating this entity.
	KillReward int
}

// Verify that Entity satisfies the rpg-toolkit entity contract
var _ core.Entity = (*Entity)(nil)

// GetID implements core.Entity
func (e *Entity) GetID() string {
	return e.ID
}

// GetType implements core.Entity
func (e *Entity) GetType() string {
	return string(e.Kind)
}

// RefreshStats re-queries the graph for every stat involved in the entity's
// skills and rebuilds the snapshot, applying the kind's tier delta.
func (e *Entity) RefreshStats(g *stats.Graph) error {
	snapshot := make(map[string]float64)
	mod := e.Kind.StatMod()

	for _, skill := range e.Skills {
		for _, statName := range skill.Stats {
			if _, ok := snapshot[statName]; ok {
				continue
			}
			v, err := g.FullValue(statName)
			if err != nil {
				return errors.Wrapf(err, "failed to refresh stats for entity %q", e.ID)
			}
			snapshot[statName] = v + mod
		}
	}

	e.Stats = snapshot
	return nil
}

// LevelIn resolves the entity's current level in the named skill from the
// skill's table and the entity's accumulated experience.
func (e *Entity) LevelIn(skillName string) (int, error) {
	skill, ok := e.Skills[skillName]
	if !ok {
		return 0, errors.NotFoundf("entity %q has no skill %q", e.ID, skillName)
	}
	return skill.Table.LevelFor(e.SkillExperience[skillName]), nil
}

// RollKillReward resolves the experience awarded for defeating this entity:
// the flat KillReward plus a D20 variance roll. Entities with no reward
// yield 0 without rolling. A nil roller uses the toolkit default.
func (e *Entity) RollKillReward(roller dice.Roller) (int, error) {
	if e.KillReward <= 0 {
		return 0, nil
	}
	variance, err := D20.Roll(roller)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll kill reward for entity %q", e.ID)
	}
	return e.KillReward + variance, nil
}

// GainExperience adds experience to the named skill and returns the new
// level. Amounts are non-negative; experience never decreases.
func (e *Entity) GainExperience(skillName string, amount int) (int, error) {
	if amount < 0 {
		return 0, errors.InvalidArgumentf("experience amount cannot be negative: %d", amount)
	}
	if _, ok := e.Skills[skillName]; !ok {
		return 0, errors.NotFoundf("entity %q has no skill %q", e.ID, skillName)
	}
	e.SkillExperience[skillName] += amount
	return e.LevelIn(skillName)
}
