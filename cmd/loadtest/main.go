// cmd/loadtest is a demo driver that exercises the scheduler end to end:
// seed a handful of items, start the seed phase, then fan out simulated
// judges pulling matches and submitting judgments concurrently. It plays
// the same role as the original Rust crate's tokio::spawn smoke test in
// main.rs, generalized from one spawned task to a judge pool sized by
// -concurrency and bounded by an errgroup, in the style attack engines in the
// corpus use errgroup.WithContext + SetLimit to cap concurrent workers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/jamesxu123/ranker-service/internal/config"
	"github.com/jamesxu123/ranker-service/internal/scheduler"
	"github.com/jamesxu123/ranker-service/internal/store"
	"golang.org/x/sync/errgroup"
)

func main() {
	items := flag.Int("items", 8, "number of items to seed")
	judgments := flag.Int("judgments", 50, "total judgments to submit")
	concurrency := flag.Int("concurrency", 4, "concurrent simulated judges")
	rounds := flag.Int("rounds", 2, "seed rounds")
	flag.Parse()

	cfg := config.Load()
	sched := scheduler.New(cfg)

	for i := 0; i < *items; i++ {
		sched.CreateItem(fmt.Sprintf("Project %d", i+1), "loadtest", "synthetic item for load testing")
	}
	for i := 0; i < *concurrency; i++ {
		sched.CreateJudge(fmt.Sprintf("loadtest-judge-%d", i))
	}

	if !sched.SeedStart(*rounds) {
		log.Fatal("seed-start rejected: scheduler already started")
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)

	for i := 0; i < *judgments; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			judgeID := fmt.Sprintf("loadtest-judge-%d", i%(*concurrency))
			m, err := sched.GiveJudgeNextMatch(judgeID)
			if err != nil {
				log.Printf("judge %s: give-next-match: %v", judgeID, err)
				return nil
			}

			winner := store.WinnerA
			if rand.Intn(2) == 1 {
				winner = store.WinnerB
			}
			if !sched.SubmitJudgment(judgeID, m.ID, winner) {
				log.Printf("judge %s: judgment on %s rejected", judgeID, m.ID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("loadtest aborted: %v", err)
	}

	log.Printf("served %d items, phase=%s, matches=%d", len(sched.GetItems()), sched.Phase(), len(sched.GetMatches()))
	for _, it := range sched.GetItems() {
		log.Printf("  %-20s elo=%.1f glicko=%.1f", it.Name, it.Elo, it.Glicko.Rating)
	}
}
