package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffledDeal_AlwaysAPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		deal := ShuffledDeal(rng)
		require.True(t, validDeal(deal), "draw %d: %v", i, deal)
	}
}

func TestShuffledDeal_ActuallyShuffles(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	orders := map[[4]Role]bool{}
	for i := 0; i < 200; i++ {
		deal := ShuffledDeal(rng)
		orders[[4]Role{deal[0], deal[1], deal[2], deal[3]}] = true
	}
	// 200 draws over 24 permutations: seeing only one order means no shuffle.
	require.Greater(t, len(orders), 1)
}

func TestRolePoints(t *testing.T) {
	require.Equal(t, 800, RoleRaja.Points())
	require.Equal(t, 900, RoleMantri.Points())
	require.Equal(t, 0, RoleChor.Points())
	require.Equal(t, 1000, RoleSipahi.Points())
	require.False(t, Role("Jester").Valid())
	require.NotEmpty(t, RoleChor.Description())
}
