// Package httpapi is the thin wire layer over internal/scheduler: chi
// routes in, DTOs out, no business logic. Grounded in the teacher's
// server/router.go — same "one handler per endpoint, JSON in/out" shape —
// generalized from http.ServeMux to chi so path params (judge/match ids)
// don't need hand-rolled string splitting.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jamesxu123/ranker-service/internal/logging"
	"github.com/jamesxu123/ranker-service/internal/scheduler"
	"github.com/jamesxu123/ranker-service/internal/wsfeed"
	"github.com/sirupsen/logrus"
)

// API bundles the scheduler and its collaborators behind chi routes.
type API struct {
	scheduler         *scheduler.Scheduler
	feed              *wsfeed.Broadcaster
	defaultSeedRounds int
	logger            *logrus.Logger
}

// New builds an API wrapping s. feed may be nil to disable the /ws/stats
// route.
func New(s *scheduler.Scheduler, feed *wsfeed.Broadcaster, defaultSeedRounds int, logger *logrus.Logger) *API {
	return &API{scheduler: s, feed: feed, defaultSeedRounds: defaultSeedRounds, logger: logger}
}

// Router assembles the chi.Mux exposing every operation in the external
// interface table: create/list items and judges, seed-start, request a
// match for a judge, and submit a judgment.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestMiddleware(a.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", a.createItem)
		r.Get("/", a.listItems)
	})

	r.Route("/judges", func(r chi.Router) {
		r.Post("/", a.createJudge)
		r.Get("/", a.listJudges)
		r.Get("/{judgeID}/next-match", a.nextMatch)
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/", a.listMatches)
		r.Post("/{matchID}/judgment", a.submitJudgment)
	})

	r.Post("/seed-start", a.seedStart)

	if a.feed != nil {
		r.Get("/ws/stats", a.feed.Handler)
	}

	return r
}
