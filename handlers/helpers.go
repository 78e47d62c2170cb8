package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ffarena/progression/brackets"
	"github.com/ffarena/progression/leaderboard"
	"github.com/ffarena/progression/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		idStr = chi.URLParam(r, "id")
		if idStr == "" {
			return 0, fmt.Errorf("missing %s or id in URL path", paramName)
		}
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	return id, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func lockedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusLocked, message)
}

// mapServiceErrorToHTTP translates sentinel errors from the service layer to
// HTTP statuses. Lock violations use 423 so clients can distinguish "unlock
// first" from plain conflicts.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrDayNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrScoreNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrBracketMatchNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrDayLocked),
		errors.Is(err, services.ErrMatchLocked):
		lockedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrDayInvalidTransition),
		errors.Is(err, services.ErrMatchInvalidTransition),
		errors.Is(err, services.ErrBracketAlreadyExists),
		errors.Is(err, services.ErrBracketNotInitialized),
		errors.Is(err, services.ErrBracketMatchNotUpcoming),
		errors.Is(err, services.ErrBracketMatchFinished),
		errors.Is(err, services.ErrBracketSlotEmpty),
		errors.Is(err, services.ErrBracketSlotTaken),
		errors.Is(err, leaderboard.ErrInsufficientQualifiers):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrDayNameRequired),
		errors.Is(err, services.ErrDayQualifyCountInvalid),
		errors.Is(err, services.ErrMatchParticipantsRange),
		errors.Is(err, services.ErrMatchTypeInvalid),
		errors.Is(err, services.ErrScoreKillsNegative),
		errors.Is(err, services.ErrScorePlacementRange),
		errors.Is(err, services.ErrTeamNotInMatch),
		errors.Is(err, services.ErrWinnerNotInMatch),
		errors.Is(err, services.ErrGroupNameRequired),
		errors.Is(err, services.ErrDayStatusInvalid),
		errors.Is(err, services.ErrMatchStatusInvalid),
		errors.Is(err, brackets.ErrSeedCount),
		errors.Is(err, brackets.ErrDuplicateSeed):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}
