package httpapi

import "github.com/jamesxu123/ranker-service/internal/store"

// createItemRequest is the body of POST /items.
type createItemRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// createJudgeRequest is the body of POST /judges.
type createJudgeRequest struct {
	Identity string `json:"identity"`
}

// seedStartRequest is the body of POST /seed-start.
type seedStartRequest struct {
	Rounds int `json:"rounds"`
}

// seedStartResponse reports whether seed-start was accepted.
type seedStartResponse struct {
	Started bool `json:"started"`
}

// judgmentRequest is the body of POST /matches/{id}/judgment.
type judgmentRequest struct {
	JudgeID string       `json:"judge_id"`
	Winner  store.Winner `json:"winner"`
}

// judgmentResponse reports whether the judgment was accepted.
type judgmentResponse struct {
	Accepted bool `json:"accepted"`
}

// errorResponse is the uniform error body for non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
