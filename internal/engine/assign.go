package engine

import "math/rand/v2"

// ShuffledDeal returns the four roles in a uniform random order
// (Fisher-Yates via rand.Shuffle). Seat i receives deal[i mod 4], so every
// seat sees a uniform marginal over roles.
func ShuffledDeal(rng *rand.Rand) []Role {
	deal := make([]Role, len(AllRoles))
	copy(deal, AllRoles[:])
	rng.Shuffle(len(deal), func(i, j int) {
		deal[i], deal[j] = deal[j], deal[i]
	})
	return deal
}
