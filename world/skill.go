package world

import (
	"github.com/KirkDiggler/rpg-protocol/internal/errors"
)

// Table holds a skill's leveling data: parallel ordered sequences of
// experience thresholds, perk points awarded, and perk credits awarded,
// indexed by level.
type Table struct {
	Experience  []int
	PerkPoints  []int
	PerkCredits []int
}

// NewTable validates and returns a leveling table. The three sequences must
// have equal length and the experience thresholds must be strictly
// increasing starting at 0. Violations return errors.CodeInvalidTable.
func NewTable(experience, perkPoints, perkCredits []int) (Table, error) {
	if len(experience) == 0 {
		return Table{}, errors.InvalidTable("experience thresholds cannot be empty")
	}
	if len(perkPoints) != len(experience) || len(perkCredits) != len(experience) {
		return Table{}, errors.InvalidTablef(
			"sequence lengths mismatched: %d experience thresholds, %d perk points, %d perk credits",
			len(experience), len(perkPoints), len(perkCredits))
	}
	if experience[0] != 0 {
		return Table{}, errors.InvalidTablef("experience thresholds must start at 0, got %d", experience[0])
	}
	for i := 1; i < len(experience); i++ {
		if experience[i] <= experience[i-1] {
			return Table{}, errors.InvalidTablef(
				"experience thresholds must be strictly increasing: threshold %d (%d) <= threshold %d (%d)",
				i, experience[i], i-1, experience[i-1])
		}
	}

	return Table{
		Experience:  experience,
		PerkPoints:  perkPoints,
		PerkCredits: perkCredits,
	}, nil
}

// MaxLevel returns the highest level index in the table.
func (t Table) MaxLevel() int {
	return len(t.Experience) - 1
}

// LevelFor returns the level index for an accumulated experience value: the
// highest index whose threshold is <= exp. Pure and idempotent; negative
// experience clamps to level 0.
func (t Table) LevelFor(exp int) int {
	level := 0
	for i, threshold := range t.Experience {
		if threshold > exp {
			break
		}
		level = i
	}
	return level
}

// PerkPointsThrough returns the cumulative perk points awarded for reaching
// the given level from level 0.
func (t Table) PerkPointsThrough(level int) int {
	return sumThrough(t.PerkPoints, level)
}

// PerkCreditsThrough returns the cumulative perk credits awarded for
// reaching the given level from level 0.
func (t Table) PerkCreditsThrough(level int) int {
	return sumThrough(t.PerkCredits, level)
}

func sumThrough(awards []int, level int) int {
	if level >= len(awards) {
		level = len(awards) - 1
	}
	total := 0
	for i := 0; i <= level; i++ {
		total += awards[i]
	}
	return total
}

// Skill is a named bundle of involved stats plus a leveling table. Stats are
// referenced by name; the skill holds no live stat handles.
type Skill struct {
	Name  string
	Stats []string
	Table Table
}

// NewSkill validates and returns a skill. Stat names must be unique within
// the skill.
func NewSkill(name string, statNames []string, table Table) (*Skill, error) {
	if name == "" {
		return nil, errors.InvalidArgument("skill name cannot be empty")
	}

	seen := make(map[string]struct{}, len(statNames))
	for _, sn := range statNames {
		if _, ok := seen[sn]; ok {
			return nil, errors.InvalidArgumentf("skill %q references stat %q more than once", name, sn)
		}
		seen[sn] = struct{}{}
	}

	stats := make([]string, len(statNames))
	copy(stats, statNames)

	return &Skill{
		Name:  name,
		Stats: stats,
		Table: table,
	}, nil
}
