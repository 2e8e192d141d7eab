package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jamesxu123/ranker-service/internal/scheduler"
	"github.com/jamesxu123/ranker-service/internal/store"
)

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	item := a.scheduler.CreateItem(req.Name, req.Location, req.Description)
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.scheduler.GetItems())
}

func (a *API) createJudge(w http.ResponseWriter, r *http.Request) {
	var req createJudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	j := a.scheduler.CreateJudge(req.Identity)
	writeJSON(w, http.StatusCreated, j)
}

func (a *API) listJudges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.scheduler.GetJudges())
}

func (a *API) listMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.scheduler.GetMatches())
}

func (a *API) seedStart(w http.ResponseWriter, r *http.Request) {
	var req seedStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Rounds = 0
	}
	rounds := req.Rounds
	if rounds <= 0 {
		rounds = a.defaultSeedRounds
	}
	ok := a.scheduler.SeedStart(rounds)
	if !ok {
		writeError(w, http.StatusConflict, scheduler.ErrAlreadyStarted.Error())
		return
	}
	writeJSON(w, http.StatusOK, seedStartResponse{Started: true})
}

func (a *API) nextMatch(w http.ResponseWriter, r *http.Request) {
	judgeID := chi.URLParam(r, "judgeID")
	if judgeID == "" {
		writeError(w, http.StatusBadRequest, "missing judgeID")
		return
	}

	m, err := a.scheduler.GiveJudgeNextMatch(judgeID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, scheduler.ErrInvalidState):
			status = http.StatusConflict
		case errors.Is(err, scheduler.ErrEmptyQueue):
			status = http.StatusServiceUnavailable
		case errors.Is(err, scheduler.ErrNotEnoughItems):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) submitJudgment(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	var req judgmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Winner != store.WinnerA && req.Winner != store.WinnerB {
		writeError(w, http.StatusBadRequest, "winner must be \"A\" or \"B\"")
		return
	}

	ok := a.scheduler.SubmitJudgment(req.JudgeID, matchID, req.Winner)
	if !ok {
		writeError(w, http.StatusConflict, scheduler.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, judgmentResponse{Accepted: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
