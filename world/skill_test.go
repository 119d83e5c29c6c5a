package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/world"
)

func TestNewTableValidation(t *testing.T) {
	testCases := []struct {
		name        string
		experience  []int
		perkPoints  []int
		perkCredits []int
		wantErr     bool
	}{
		{
			name:        "valid table",
			experience:  []int{0, 500, 1500},
			perkPoints:  []int{5, 3, 5},
			perkCredits: []int{3, 1, 2},
		},
		{
			name:        "empty thresholds",
			experience:  nil,
			perkPoints:  nil,
			perkCredits: nil,
			wantErr:     true,
		},
		{
			name:        "mismatched lengths",
			experience:  []int{0, 500, 1500},
			perkPoints:  []int{5, 3},
			perkCredits: []int{3, 1, 2},
			wantErr:     true,
		},
		{
			name:        "thresholds not starting at zero",
			experience:  []int{100, 500, 1500},
			perkPoints:  []int{5, 3, 5},
			perkCredits: []int{3, 1, 2},
			wantErr:     true,
		},
		{
			name:        "thresholds not strictly increasing",
			experience:  []int{0, 500, 500},
			perkPoints:  []int{5, 3, 5},
			perkCredits: []int{3, 1, 2},
			wantErr:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := world.NewTable(tc.experience, tc.perkPoints, tc.perkCredits)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidTable, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTableLevelFor(t *testing.T) {
	table, err := world.NewTable(
		[]int{0, 500, 1500},
		[]int{5, 3, 5},
		[]int{3, 1, 2},
	)
	require.NoError(t, err)

	testCases := []struct {
		exp  int
		want int
	}{
		{exp: 0, want: 0},
		{exp: 499, want: 0},
		{exp: 500, want: 1},
		{exp: 600, want: 1},
		{exp: 1500, want: 2},
		{exp: 999999, want: 2},
		{exp: -10, want: 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, table.LevelFor(tc.exp), "exp %d", tc.exp)
	}

	// Pure function of table and experience: repeated calls agree.
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, table.LevelFor(600))
	}

	assert.Equal(t, 2, table.MaxLevel())
}

func TestTablePerkAwards(t *testing.T) {
	table, err := world.NewTable(
		[]int{0, 500, 1500},
		[]int{5, 3, 5},
		[]int{3, 1, 2},
	)
	require.NoError(t, err)

	assert.Equal(t, 5, table.PerkPointsThrough(0))
	assert.Equal(t, 8, table.PerkPointsThrough(1))
	assert.Equal(t, 13, table.PerkPointsThrough(2))
	assert.Equal(t, 13, table.PerkPointsThrough(99))

	assert.Equal(t, 3, table.PerkCreditsThrough(0))
	assert.Equal(t, 4, table.PerkCreditsThrough(1))
	assert.Equal(t, 6, table.PerkCreditsThrough(2))
}

func TestNewSkill(t *testing.T) {
	table, err := world.NewTable([]int{0, 500}, []int{5, 3}, []int{3, 1})
	require.NoError(t, err)

	skill, err := world.NewSkill("melee", []string{"attack", "maxhp"}, table)
	require.NoError(t, err)
	assert.Equal(t, "melee", skill.Name)
	assert.Equal(t, []string{"attack", "maxhp"}, skill.Stats)

	_, err = world.NewSkill("", []string{"attack"}, table)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))

	_, err = world.NewSkill("melee", []string{"attack", "attack"}, table)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
}
