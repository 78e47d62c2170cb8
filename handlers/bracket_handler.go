package handlers

import (
	"net/http"

	"github.com/ffarena/progression/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

func (h *BracketHandler) InitializeBracket(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Seeds []int `json:"seeds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.InitializeBracket(r.Context(), dayID, input.Seeds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.bracketService.Snapshot(r.Context(), dayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) ResetBracket(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.ResetBracket(r.Context(), dayID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	bracketMatchID, err := getIDFromURL(r, "bracketMatchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.StartMatch(r.Context(), bracketMatchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	bracketMatchID, err := getIDFromURL(r, "bracketMatchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerID int `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.SetWinnerAndAdvance(r.Context(), bracketMatchID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetChampion(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	champion, err := h.bracketService.Champion(r.Context(), dayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"champion_id": champion}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
