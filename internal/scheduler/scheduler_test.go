package scheduler

import (
	"errors"
	"sync"
	"testing"

	"github.com/jamesxu123/ranker-service/internal/config"
	"github.com/jamesxu123/ranker-service/internal/fsm"
	"github.com/jamesxu123/ranker-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	return New(config.Config{RatingSystem: config.RatingElo, EloK: 30.0})
}

func seedNItems(s *Scheduler, n int) []store.Item {
	items := make([]store.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, s.CreateItem("item", "loc", "desc"))
	}
	return items
}

func TestGiveJudgeNextMatchBeforeSeedStartIsInvalidState(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 2)

	_, err := s.GiveJudgeNextMatch("judge-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestSeedStartWithNoItemsYieldsEmptyQueue(t *testing.T) {
	s := newTestScheduler()

	ok := s.SeedStart(3)
	require.True(t, ok)
	assert.Equal(t, fsm.Init, s.Phase())

	_, err := s.GiveJudgeNextMatch("judge-1")
	assert.True(t, errors.Is(err, ErrEmptyQueue))
}

func TestSeedStartTwoItemsOneRoundServesSingleMatch(t *testing.T) {
	s := newTestScheduler()
	items := seedNItems(s, 2)

	require.True(t, s.SeedStart(1))

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{items[0].ID, items[1].ID}, []string{m.I1, m.I2})
	assert.Equal(t, 1, m.VisitCount)
}

func TestSeedStartOddItemCountDuplicatesOneItem(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 3)

	require.True(t, s.SeedStart(2))
	assert.Len(t, s.GetMatches(), 4)
}

func TestSeedStartCalledTwiceRejectsSecondCall(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 2)

	require.True(t, s.SeedStart(1))
	assert.False(t, s.SeedStart(1))
}

func TestSubmitJudgmentUpdatesBothItemsRatings(t *testing.T) {
	s := newTestScheduler()
	items := seedNItems(s, 2)
	require.True(t, s.SeedStart(1))

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)

	ok := s.SubmitJudgment("judge-1", m.ID, store.WinnerA)
	require.True(t, ok)

	byID := map[string]store.Item{}
	for _, it := range s.GetItems() {
		byID[it.ID] = it
	}
	winner := byID[m.I1]
	loser := byID[m.I2]
	assert.Greater(t, winner.Elo, 1000.0)
	assert.Less(t, loser.Elo, 1000.0)
	_ = items
}

func TestSubmitJudgmentRejectsDoubleJudging(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 2)
	require.True(t, s.SeedStart(1))

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)

	require.True(t, s.SubmitJudgment("judge-1", m.ID, store.WinnerA))
	assert.False(t, s.SubmitJudgment("judge-2", m.ID, store.WinnerB))
}

func TestSubmitJudgmentUnknownMatchReturnsFalse(t *testing.T) {
	s := newTestScheduler()
	assert.False(t, s.SubmitJudgment("judge-1", "does-not-exist", store.WinnerA))
}

func TestContinuousPhaseSynthesizesFreshMatches(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 4)
	require.True(t, s.SeedStart(1))

	// Serve every seeded match twice so each reaches visit_count 2: the
	// first pass moves the scheduler from Init into Continuous, and the
	// second uses up Continuous's re-serving of matches at visit_count 1.
	seeded := len(s.GetMatches())
	seen := map[string]bool{}
	for i := 0; i < 2*seeded; i++ {
		m, err := s.GiveJudgeNextMatch("judge-drain")
		require.NoError(t, err)
		seen[m.ID] = true
	}

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)
	assert.False(t, seen[m.ID], "expected a freshly synthesized match")
	assert.NotEqual(t, m.I1, m.I2)
	assert.Equal(t, fsm.Continuous, s.Phase())
}

func TestContinuousPhaseRequiresAtLeastTwoItems(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 1)
	require.True(t, s.SeedStart(1))

	// With one item, seed.CreateInitialMatches still produces one
	// self-paired match per round (duplicated index 0), so Init serves it
	// first and Continuous re-serves it while its visit_count is 1.
	_, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)
	_, err = s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)

	// Its visit_count is now 2, so Continuous tries to synthesize a match
	// and cannot sample two distinct items.
	_, err = s.GiveJudgeNextMatch("judge-1")
	assert.True(t, errors.Is(err, ErrNotEnoughItems))
}

func TestSelfMatchJudgmentSkipsRatingUpdate(t *testing.T) {
	s := newTestScheduler()
	item := s.CreateItem("solo", "loc", "desc")
	require.True(t, s.SeedStart(1))

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)
	require.Equal(t, m.I1, m.I2)

	require.True(t, s.SubmitJudgment("judge-1", m.ID, store.WinnerA))

	got, ok := s.items.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, 1000.0, got.Elo)
}

func TestGlicko2RatingSystemUpdatesBothItems(t *testing.T) {
	s := New(config.Config{RatingSystem: config.RatingGlicko2})
	seedNItems(s, 2)
	require.True(t, s.SeedStart(1))

	m, err := s.GiveJudgeNextMatch("judge-1")
	require.NoError(t, err)

	require.True(t, s.SubmitJudgment("judge-1", m.ID, store.WinnerA))

	winner, _ := s.items.Get(m.I1)
	loser, _ := s.items.Get(m.I2)
	assert.Greater(t, winner.Glicko.Rating, loser.Glicko.Rating)
}

func TestConcurrentGiveJudgeNextMatchNeverDoubleCountsQueueDepth(t *testing.T) {
	s := newTestScheduler()
	seedNItems(s, 20)
	require.True(t, s.SeedStart(2))

	total := len(s.GetMatches())
	var wg sync.WaitGroup
	results := make(chan error, total*2)

	for i := 0; i < total*2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.GiveJudgeNextMatch("judge")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	for err := range results {
		assert.True(t, err == nil || errors.Is(err, ErrNotEnoughItems))
	}
	// Synthesized matches are never queued, so the queue still holds
	// exactly the seeded matches.
	assert.Equal(t, total, s.QueueDepth())
}
