// Package store holds the scheduler's in-memory entity stores: items,
// judges, and matches. Matches reference items and judges by id only —
// never by pointer — so rating updates can resolve through the item
// store on demand without an aliasing hazard under concurrent writers.
package store

import "github.com/jamesxu123/ranker-service/internal/rating"

// Item is a single competing entry: a stable id, descriptive metadata,
// and a score. Exactly one of Elo/Glicko1 is meaningful, selected by the
// scheduler's configured rating system (see internal/config).
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Elo         float64        `json:"elo"`
	Glicko      rating.Glicko1 `json:"glicko"`
}

// Judge is a human reviewer. Judges compare equal iff their ids match.
type Judge struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
}

// Winner identifies which side of a MatchPair won: A means I1, B means I2.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
)

// MatchPair is a single head-to-head pairing. VisitCount is also the
// pair's priority in the scheduler's match queue.
type MatchPair struct {
	ID         string `json:"id"`
	I1         string `json:"i1"`
	I2         string `json:"i2"`
	VisitCount int    `json:"visit_count"`
	Winner     Winner `json:"winner"`
	JudgeID    string `json:"judge_id"` // empty if never served
}
