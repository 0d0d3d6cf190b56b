package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/robalobadob/battleship/internal/game"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// statusFor maps an engine error kind onto an HTTP status.
func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindGameNotFound, game.KindPlayerNotFound:
		return http.StatusNotFound
	case game.KindPlayerNotAuthorized:
		return http.StatusForbidden
	case game.KindIllegalStateForAction, game.KindGameAlreadyFinished, game.KindAlreadyShotThisRound:
		return http.StatusConflict
	case game.KindInvalidPlacement, game.KindOutOfBounds:
		return http.StatusUnprocessableEntity
	case game.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err. Engine errors keep their kind; anything else is
// logged and hidden behind a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *game.Error
	if errors.As(err, &ge) {
		writeJSON(w, statusFor(ge.Kind), errorBody{Error: ge.Kind.String(), Message: ge.Msg, Rule: string(ge.Rule)})
		return
	}
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"})
}

// decode reads a JSON body into dst and runs its validation tags.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return game.Errorf(game.KindInvalidRequest, "invalid JSON body: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return game.Errorf(game.KindInvalidRequest, "%s", describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", e.Field(), e.Tag(), e.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Field(), e.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
