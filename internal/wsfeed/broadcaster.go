// Package wsfeed is the /ws/stats live feed: a coder/websocket broadcaster
// that pushes phase and queue-depth changes to every connected viewer, the
// way cambia's lobby/game websocket handlers push room state — but with
// one-way server->client frames and no subprotocol negotiation, since
// stats viewers never need to send anything back.
package wsfeed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
)

// Snapshot is one frame pushed to every connected viewer.
type Snapshot struct {
	Phase      string `json:"phase"`
	QueueDepth int    `json:"queue_depth"`
	MatchCount int    `json:"match_count"`
	ItemCount  int    `json:"item_count"`
	JudgeCount int    `json:"judge_count"`
}

// Broadcaster tracks connected viewers and fans a Snapshot out to all of
// them. The zero value is not usable; construct with New.
type Broadcaster struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *logrus.Logger
}

// New returns an empty Broadcaster.
func New(logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Handler upgrades the request to a websocket and holds the connection
// open (read-discarding) until the client disconnects or the request
// context is cancelled. Use Broadcast to push frames to it meanwhile.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		if b.logger != nil {
			b.logger.WithError(err).Warn("ws accept failed")
		}
		return
	}
	defer c.CloseNow()

	b.add(c)
	defer b.remove(c)

	ctx := r.Context()
	for {
		if _, _, err := c.Read(ctx); err != nil {
			return
		}
	}
}

func (b *Broadcaster) add(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conns[c] = struct{}{}
}

func (b *Broadcaster) remove(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, c)
}

// Broadcast pushes snap to every currently connected viewer, dropping any
// connection that fails to accept the write within the timeout.
func (b *Broadcaster) Broadcast(snap Snapshot) {
	b.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(b.conns))
	for c := range b.conns {
		targets = append(targets, c)
	}
	b.mu.Unlock()

	for _, c := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := wsjson.Write(ctx, c, snap)
		cancel()
		if err != nil {
			b.remove(c)
			c.Close(websocket.StatusInternalError, "write failed")
		}
	}
}
