package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/world"
)

// fixedRoller satisfies dice.Roller with deterministic results
type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(_ int) (int, error) { return r.value, nil }
func (r *fixedRoller) RollN(count, _ int) ([]int, error) {
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = r.value
	}
	return rolls, nil
}

func TestDieRoll(t *testing.T) {
	roller := &fixedRoller{value: 4}

	n, err := world.D20.Roll(roller)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	rolls, err := world.D6.RollN(roller, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, rolls)
}

func TestDieRollDefaultRoller(t *testing.T) {
	for i := 0; i < 20; i++ {
		n, err := world.Coin.Roll(nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 2)
	}
}

func TestDieRollValidation(t *testing.T) {
	_, err := world.Die{Sides: 1}.Roll(nil)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))

	_, err = world.D6.RollN(nil, 0)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
}
