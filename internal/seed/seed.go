// Package seed builds the scheduler's initial round-robin-ish match
// batches from the current item set, per §4.4: n shuffled passes, each
// pairing element i with element (len-1-i), duplicating index 0 when the
// count is odd so every pass has an even length.
package seed

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jamesxu123/ranker-service/internal/store"
)

// CreateInitialMatches returns n rounds of shuffled perfect-matching
// pairs over items. Each round contributes ceil(len(items)/2) matches,
// so the total is n * ceil(len(items)/2). Matches are created with
// VisitCount 0 and no winner or judge yet.
func CreateInitialMatches(items []store.Item, n int) []store.MatchPair {
	var out []store.MatchPair
	for round := 0; round < n; round++ {
		out = append(out, oneRound(items)...)
	}
	return out
}

func oneRound(items []store.Item) []store.MatchPair {
	if len(items) == 0 {
		return nil
	}

	shuffled := make([]store.Item, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// The source duplicates index 0 to make an odd-length pass even.
	if len(shuffled)%2 == 1 {
		shuffled = append(shuffled, shuffled[0])
	}

	pairs := make([]store.MatchPair, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled)/2; i++ {
		i1 := shuffled[i]
		i2 := shuffled[len(shuffled)-1-i]
		pairs = append(pairs, store.MatchPair{
			ID:         uuid.NewString(),
			I1:         i1.ID,
			I2:         i2.ID,
			VisitCount: 0,
			Winner:     store.WinnerNone,
		})
	}
	return pairs
}
