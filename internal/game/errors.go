package game

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. Every kind is a local validation failure:
// the engine never retries and never leaves partial state behind.
type Kind int

const (
	KindGameNotFound Kind = iota + 1
	KindPlayerNotFound
	KindPlayerNotAuthorized
	KindIllegalStateForAction
	KindGameAlreadyFinished
	KindInvalidPlacement
	KindOutOfBounds
	KindAlreadyShotThisRound
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindGameNotFound:          "game_not_found",
	KindPlayerNotFound:        "player_not_found",
	KindPlayerNotAuthorized:   "player_not_authorized",
	KindIllegalStateForAction: "illegal_state_for_action",
	KindGameAlreadyFinished:   "game_already_finished",
	KindInvalidPlacement:      "invalid_placement",
	KindOutOfBounds:           "out_of_bounds",
	KindAlreadyShotThisRound:  "already_shot_this_round",
	KindInvalidRequest:        "invalid_request",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Rule names the placement invariant an InvalidPlacement error violated.
type Rule string

const (
	RuleOutOfBounds      Rule = "out_of_bounds"
	RuleOverlap          Rule = "overlap"
	RuleFleetComposition Rule = "fleet_composition"
	RuleMalformedShip    Rule = "malformed_ship"
)

// Error is the engine's single error type. Match on it with errors.Is against
// the Err* sentinels, or errors.As to read Kind and Rule.
type Error struct {
	Kind Kind
	Rule Rule
	Msg  string
}

func (e *Error) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Rule, e.Msg)
	}
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches another *Error with the same kind. A target without a rule
// matches any rule.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Rule == "" || t.Rule == e.Rule)
}

var (
	ErrGameNotFound          = &Error{Kind: KindGameNotFound}
	ErrPlayerNotFound        = &Error{Kind: KindPlayerNotFound}
	ErrPlayerNotAuthorized   = &Error{Kind: KindPlayerNotAuthorized}
	ErrIllegalStateForAction = &Error{Kind: KindIllegalStateForAction}
	ErrGameAlreadyFinished   = &Error{Kind: KindGameAlreadyFinished}
	ErrInvalidPlacement      = &Error{Kind: KindInvalidPlacement}
	ErrOutOfBounds           = &Error{Kind: KindOutOfBounds}
	ErrAlreadyShotThisRound  = &Error{Kind: KindAlreadyShotThisRound}
	ErrInvalidRequest        = &Error{Kind: KindInvalidRequest}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func placementError(rule Rule, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidPlacement, Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, if err wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
