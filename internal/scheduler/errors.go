package scheduler

import "errors"

// Sentinel errors for the four kinds in §7, plus ErrNotEnoughItems for the
// continuous phase. Callers of the HTTP layer use errors.Is against these
// to pick a status code.
var (
	// ErrInvalidState is returned when an operation is not legal in the
	// scheduler's current phase (give-next-match in None or End).
	ErrInvalidState = errors.New("scheduler: operation not valid in current state")

	// ErrEmptyQueue is returned when give-next-match is called in Init
	// phase with nothing queued — a programmer error (seed-start with
	// n=0 or an empty item set).
	ErrEmptyQueue = errors.New("scheduler: could not peek queue")

	// ErrNotEnoughItems is returned when the continuous phase can't
	// sample two distinct items to synthesize a match.
	ErrNotEnoughItems = errors.New("scheduler: at least two items are required")

	// ErrNotFound is the error for a missing match or item id.
	// GiveJudgeNextMatch returns it when a queued match id is absent from
	// the match store; SubmitJudgment reports an unknown match as a bool
	// false per §4.5's signature, and httpapi maps that false to this error.
	ErrNotFound = errors.New("scheduler: not found")

	// ErrAlreadyStarted is the httpapi-facing error for a rejected
	// seed-start call; SeedStart itself reports this as bool false.
	ErrAlreadyStarted = errors.New("scheduler: seed-start already called")
)
