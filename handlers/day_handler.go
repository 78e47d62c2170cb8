package handlers

import (
	"net/http"

	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/services"
)

type DayHandler struct {
	dayService services.DayService
}

func NewDayHandler(ds services.DayService) *DayHandler {
	return &DayHandler{dayService: ds}
}

func (h *DayHandler) CreateDay(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Sequence     int    `json:"sequence"`
		Name         string `json:"name"`
		QualifyCount int    `json:"qualify_count"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	day, err := h.dayService.CreateDay(r.Context(), input.Sequence, input.Name, input.QualifyCount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"day": day}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	day, err := h.dayService.GetDay(r.Context(), dayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"day": day}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.dayService.ListDays(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"days": days}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ChangeStatus applies one lifecycle transition. Completing a day returns the
// qualified team ids alongside the updated day.
func (h *DayHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.DayStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.dayService.ChangeStatus(r.Context(), dayID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"day": result.Day}
	if result.Qualified != nil {
		response["qualified"] = result.Qualified
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) QualifiedTeams(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	qualified, err := h.dayService.QualifiedTeams(r.Context(), dayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"qualified": qualified}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name    string `json:"name"`
		TeamIDs []int  `json:"team_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group, err := h.dayService.CreateGroup(r.Context(), dayID, input.Name, input.TeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	dayID, err := getIDFromURL(r, "dayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.dayService.ListGroups(r.Context(), dayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DayHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.dayService.DeleteGroup(r.Context(), groupID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
