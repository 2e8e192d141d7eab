// Package scheduler is the public engine API described in §4.5: add
// items/judges, seed-start, give-judge-next-match, submit-judgment, and
// the read-only list operations. It is the only package that touches
// more than one of fsm/queue/store/rating/seed at a time, and it owns
// the lock-ordering discipline from §5:
//
//	state -> priority-queue -> match-store -> item-store -> judges
//
// Each sub-store guards its own aggregate with its own mutex and releases
// it before the next store is called, so no two sub-store locks are ever
// held together. The one lock this package holds across sub-store calls
// is stateMu: SeedStart, the internal transition, GetMatches and
// QueueDepth call into the queue and stores while holding it.
package scheduler

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/jamesxu123/ranker-service/internal/config"
	"github.com/jamesxu123/ranker-service/internal/fsm"
	"github.com/jamesxu123/ranker-service/internal/metrics"
	"github.com/jamesxu123/ranker-service/internal/queue"
	"github.com/jamesxu123/ranker-service/internal/rating"
	"github.com/jamesxu123/ranker-service/internal/seed"
	"github.com/jamesxu123/ranker-service/internal/store"
	"github.com/sirupsen/logrus"
	"sync"
)

// Scheduler is the process-wide SchedulerState of §3: a single owner of
// the phase, judges, items, matches, and the match priority queue.
type Scheduler struct {
	stateMu sync.Mutex // guards the machine; also serializes SeedStart against GetMatches/QueueDepth
	machine *fsm.Machine

	queue   *queue.PriorityQueue
	matches *store.MatchStore
	items   *store.ItemStore
	judges  *store.JudgeStore

	ratingSystem config.RatingSystem
	eloK         float64

	metrics *metrics.Metrics // nil-safe; may be omitted
	logger  *logrus.Logger   // nil-safe; may be omitted
}

// Option configures optional collaborators on a new Scheduler.
type Option func(*Scheduler)

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithLogger attaches a structured logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New returns a fresh Scheduler in the None phase, configured per cfg.
func New(cfg config.Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		machine:      fsm.New(),
		queue:        queue.New(),
		matches:      store.NewMatchStore(),
		items:        store.NewItemStore(),
		judges:       store.NewJudgeStore(),
		ratingSystem: cfg.RatingSystem,
		eloK:         cfg.EloK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// initialScore returns the score fields a freshly created item should
// start with, per §3: Elo 1000.0, or Glicko-1 defaults (1500, 350, 0.06).
func (s *Scheduler) initialScore() (elo float64, g rating.Glicko1) {
	if s.ratingSystem == config.RatingGlicko2 {
		return 0, rating.NewGlicko1()
	}
	return rating.InitialElo, rating.Glicko1{}
}

// CreateItem builds a new item with a fresh id and the configured
// rating system's initial score, stores it, and returns the created
// record — the engine-level counterpart of the create-item wire
// operation in §6.
func (s *Scheduler) CreateItem(name, location, description string) store.Item {
	elo, g := s.initialScore()
	item := store.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Location:    location,
		Description: description,
		Elo:         elo,
		Glicko:      g,
	}
	s.items.Put(item)
	return item
}

// AddItem inserts item as-is, keyed by its own id (overwriting any
// existing record with that id). Valid in any phase.
func (s *Scheduler) AddItem(item store.Item) {
	s.items.Put(item)
}

// AddItems inserts many items.
func (s *Scheduler) AddItems(items []store.Item) {
	for _, item := range items {
		s.items.Put(item)
	}
}

// CreateJudge builds a new judge with a fresh id, stores it, and returns
// the created record.
func (s *Scheduler) CreateJudge(identity string) store.Judge {
	j := store.Judge{ID: uuid.NewString(), Identity: identity}
	s.judges.Add(j)
	return j
}

// AddJudge appends judge. Valid in any phase.
func (s *Scheduler) AddJudge(judge store.Judge) {
	s.judges.Add(judge)
}

// AddJudges appends many judges.
func (s *Scheduler) AddJudges(judges []store.Judge) {
	for _, j := range judges {
		s.judges.Add(j)
	}
}

// SeedStart builds n rounds of initial matches over the current item set
// (§4.4) and transitions None -> Init. Returns false without side
// effects if the scheduler is not currently in None (§4.5's idempotency
// guard). Per §5, this whole operation holds the state lock for its
// entire duration, and the match-store and queue are each populated via
// one atomic batch call (MatchStore.PutAll, PriorityQueue.PushAll) rather
// than per-match loops. The two batch calls are separate critical
// sections, so a reader that calls the store or queue directly without
// stateMu can see the round in the match store before it is queued;
// readers going through stateMu never see that window. GetMatches and
// QueueDepth take stateMu themselves (see below), and GiveJudgeNextMatch
// sees None until the machine enters Init at the end of this method.
func (s *Scheduler) SeedStart(n int) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.machine.Phase() != fsm.None {
		return false
	}

	items := s.items.All()
	matches := seed.CreateInitialMatches(items, n)

	s.matches.PutAll(matches)

	ids := make([]string, len(matches))
	priorities := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
		priorities[i] = m.VisitCount
	}
	s.queue.PushAll(ids, priorities)

	s.machine.StartSeed()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"rounds": n, "matches": len(matches)}).Info("seed-start")
	}
	return true
}

// transition runs the internal transition predicate (§4.2) and returns
// the resulting phase.
func (s *Scheduler) transition() fsm.Phase {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	_, minPriority, ok := s.queue.PeekMin()
	return s.machine.Transition(!ok, minPriority)
}

// GiveJudgeNextMatch implements give-judge-next-match (§4.5): runs the
// internal transition, then selects a candidate match per the resulting
// phase, bumps its visit count, and returns it.
func (s *Scheduler) GiveJudgeNextMatch(judgeID string) (store.MatchPair, error) {
	switch phase := s.transition(); phase {
	case fsm.None, fsm.End:
		return store.MatchPair{}, fmt.Errorf("cannot get next match in %s state: %w", phase, ErrInvalidState)

	case fsm.Init:
		id, _, ok := s.queue.PeekMin()
		if !ok {
			return store.MatchPair{}, ErrEmptyQueue
		}
		return s.serveQueuedMatch(id, judgeID)

	case fsm.Continuous:
		id, minPriority, ok := s.queue.PeekMin()
		if ok && minPriority <= 1 {
			return s.serveQueuedMatch(id, judgeID)
		}
		return s.synthesizeMatch(judgeID)

	default:
		return store.MatchPair{}, ErrInvalidState
	}
}

// serveQueuedMatch bumps visit_count on the queued match id and records
// the serving judge.
func (s *Scheduler) serveQueuedMatch(id, judgeID string) (store.MatchPair, error) {
	var served store.MatchPair
	found := s.matches.Update(id, func(m store.MatchPair) store.MatchPair {
		m.VisitCount++
		m.JudgeID = judgeID
		served = m
		return m
	})
	if !found {
		return store.MatchPair{}, ErrNotFound
	}
	s.queue.ChangePriority(id, func(cur int) int { return cur + 1 })

	s.recordServed()
	return served, nil
}

// synthesizeMatch picks two distinct items uniformly at random and
// creates a fresh match for them. Per §9's preserved "continuous-phase
// queueing bug", synthesized matches are inserted into the match store
// but never into the priority queue — they are served exactly once, at
// creation, with visit_count already at 1, and are never re-offered by a
// future peek. This is the "fire-once" option the design note allows.
func (s *Scheduler) synthesizeMatch(judgeID string) (store.MatchPair, error) {
	items := s.items.All()
	if len(items) < 2 {
		return store.MatchPair{}, ErrNotEnoughItems
	}

	i1, i2 := pickTwoDistinct(items)
	m := store.MatchPair{
		ID:         uuid.NewString(),
		I1:         i1.ID,
		I2:         i2.ID,
		VisitCount: 1,
		JudgeID:    judgeID,
	}
	s.matches.Put(m)

	s.recordServed()
	return m, nil
}

func (s *Scheduler) recordServed() {
	if s.metrics == nil {
		return
	}
	s.metrics.MatchesServed.Inc()
	s.metrics.QueueDepth.Set(float64(s.queue.Len()))
}

func pickTwoDistinct(items []store.Item) (store.Item, store.Item) {
	i := rand.Intn(len(items))
	j := rand.Intn(len(items) - 1)
	if j >= i {
		j++
	}
	return items[i], items[j]
}

// SubmitJudgment implements submit-judgment (§4.5): records the winner
// (rejecting a match that has already been judged, per §9's preferred
// resolution of the re-judging open question) and applies a rating
// update to both referenced items. Returns false if the match is
// unknown or already judged. Per §3 Lifecycles, judge_id belongs to
// give-next-match alone — the judgeID argument here identifies the
// caller for logging only and never overwrites MatchPair.JudgeID (which
// still names whichever judge the match was handed to).
func (s *Scheduler) SubmitJudgment(judgeID, matchID string, winner store.Winner) bool {
	var i1, i2 string
	var accepted bool

	found := s.matches.Update(matchID, func(m store.MatchPair) store.MatchPair {
		if m.Winner != store.WinnerNone {
			accepted = false
			return m
		}
		m.Winner = winner
		i1, i2 = m.I1, m.I2
		accepted = true
		return m
	})

	if !found || !accepted {
		return false
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"match_id": matchID, "submitted_by": judgeID, "winner": winner,
		}).Debug("submit-judgment")
	}

	if i1 == i2 {
		// Odd-parity self-match (§9): no rating update, by design.
		return true
	}

	item1, ok1 := s.items.Get(i1)
	item2, ok2 := s.items.Get(i2)
	if !ok1 || !ok2 {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"match_id": matchID, "i1": i1, "i2": i2,
			}).Error("rating update skipped: referenced item missing")
		}
		return true
	}

	s.applyRating(item1, item2, winner)
	return true
}

// applyRating updates both items' scores per §4.1's convention (A = i1
// wins, B = i2 wins), writing the two stores in ascending-id order per
// §5's lock-ordering discipline.
func (s *Scheduler) applyRating(item1, item2 store.Item, winner store.Winner) {
	switch s.ratingSystem {
	case config.RatingGlicko2:
		s1, s2 := 1.0, 0.0
		if winner == store.WinnerB {
			s1, s2 = 0.0, 1.0
		}
		newG1 := rating.UpdateBatch(item1.Glicko, []rating.Opponent{{Rating: item2.Glicko, Score: s1}})
		newG2 := rating.UpdateBatch(item2.Glicko, []rating.Opponent{{Rating: item1.Glicko, Score: s2}})
		s.writeItemsInIDOrder(item1.ID, item2.ID,
			func(it store.Item) store.Item { it.Glicko = newG1; return it },
			func(it store.Item) store.Item { it.Glicko = newG2; return it },
		)

	default: // config.RatingElo
		w := rating.WinnerP1
		if winner == store.WinnerB {
			w = rating.WinnerP2
		}
		newR1, newR2 := rating.Update(item1.Elo, item2.Elo, s.eloK, w)
		s.writeItemsInIDOrder(item1.ID, item2.ID,
			func(it store.Item) store.Item { it.Elo = newR1; return it },
			func(it store.Item) store.Item { it.Elo = newR2; return it },
		)
	}
}

func (s *Scheduler) writeItemsInIDOrder(id1, id2 string, update1, update2 func(store.Item) store.Item) {
	ids := []string{id1, id2}
	updates := map[string]func(store.Item) store.Item{id1: update1, id2: update2}
	sort.Strings(ids)
	for _, id := range ids {
		s.items.Update(id, updates[id])
	}
}

// GetItems returns a snapshot of every item.
func (s *Scheduler) GetItems() []store.Item { return s.items.All() }

// GetMatches returns a snapshot of every match. It takes stateMu so a
// concurrent SeedStart is never observed half-applied (§5, §8 invariant
// #1): the match-store and queue are only ever consistent with each
// other at points where stateMu is free.
func (s *Scheduler) GetMatches() []store.MatchPair {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.matches.All()
}

// GetJudges returns a snapshot of every judge.
func (s *Scheduler) GetJudges() []store.Judge { return s.judges.All() }

// Phase returns the scheduler's current phase without running the
// internal transition — useful for read-only diagnostics (e.g. metrics,
// the /ws/stats feed) that shouldn't themselves drive a phase change.
func (s *Scheduler) Phase() fsm.Phase {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.machine.Phase()
}

// QueueDepth returns the current number of queued matches. It takes
// stateMu for the same reason GetMatches does: so it serializes against
// SeedStart instead of racing it.
func (s *Scheduler) QueueDepth() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.queue.Len()
}
