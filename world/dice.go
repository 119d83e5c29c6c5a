package world

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
)

// Die is a named die available to game content. The standard RPG dice plus
// a coin flip are predeclared; content may define others.
type Die struct {
	Sides int
}

// Standard dice
var (
	Coin = Die{Sides: 2}
	D4   = Die{Sides: 4}
	D6   = Die{Sides: 6}
	D8   = Die{Sides: 8}
	D10  = Die{Sides: 10}
	D12  = Die{Sides: 12}
	D20  = Die{Sides: 20}
	D100 = Die{Sides: 100}
)

// Roll rolls the die once with the given roller. A nil roller uses the
// toolkit default.
func (d Die) Roll(roller dice.Roller) (int, error) {
	if d.Sides < 2 {
		return 0, errors.InvalidArgumentf("die must have at least 2 sides, got %d", d.Sides)
	}
	if roller == nil {
		roller = dice.DefaultRoller
	}
	n, err := roller.Roll(d.Sides)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", d.Sides)
	}
	return n, nil
}

// RollN rolls the die count times and returns the individual results.
func (d Die) RollN(roller dice.Roller, count int) ([]int, error) {
	if count <= 0 {
		return nil, errors.InvalidArgumentf("roll count must be positive, got %d", count)
	}
	if d.Sides < 2 {
		return nil, errors.InvalidArgumentf("die must have at least 2 sides, got %d", d.Sides)
	}
	if roller == nil {
		roller = dice.DefaultRoller
	}
	rolls, err := roller.RollN(count, d.Sides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %dd%d", count, d.Sides)
	}
	return rolls, nil
}
