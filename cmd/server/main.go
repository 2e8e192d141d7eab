package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jamesxu123/ranker-service/internal/config"
	"github.com/jamesxu123/ranker-service/internal/httpapi"
	"github.com/jamesxu123/ranker-service/internal/logging"
	"github.com/jamesxu123/ranker-service/internal/metrics"
	"github.com/jamesxu123/ranker-service/internal/scheduler"
	"github.com/jamesxu123/ranker-service/internal/wsfeed"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	m := metrics.New()
	feed := wsfeed.New(logger)

	sched := scheduler.New(cfg, scheduler.WithMetrics(m), scheduler.WithLogger(logger))

	api := httpapi.New(sched, feed, cfg.SeedRoundsDefault, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)
	go watchStats(ctx, sched, m, feed)

	go func() {
		logger.WithField("addr", metricsSrv.Addr).Info("metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server exited")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server exited")
	}
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}

// watchStats polls the scheduler on a short tick and pushes a snapshot to
// both prometheus and any connected /ws/stats viewers — cheap enough that
// a dedicated event bus isn't warranted at this scale.
func watchStats(ctx context.Context, sched *scheduler.Scheduler, m *metrics.Metrics, feed *wsfeed.Broadcaster) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	phases := []string{"None", "Init", "Continuous", "End"}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			phase := sched.Phase().String()
			m.SetPhase(phase, phases)
			m.QueueDepth.Set(float64(sched.QueueDepth()))

			feed.Broadcast(wsfeed.Snapshot{
				Phase:      phase,
				QueueDepth: sched.QueueDepth(),
				MatchCount: len(sched.GetMatches()),
				ItemCount:  len(sched.GetItems()),
				JudgeCount: len(sched.GetJudges()),
			})
		}
	}
}
