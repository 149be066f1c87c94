package game

import "fmt"

// Code is a machine readable error code sent to clients in move_error frames.
type Code string

const (
	CodeUnsupportedGameType Code = "unsupported_game_type"
	CodeRoomNotFound        Code = "room_not_found"
	CodeNotYourTurn         Code = "not_your_turn"
	CodeIllegalMove         Code = "illegal_move"
	CodeRoundClosed         Code = "round_closed"
	CodeInsufficientStack   Code = "insufficient_stack"
	CodeWrongPlayerCount    Code = "wrong_player_count"
	CodeGameFull            Code = "game_full"
	CodeNotInGame           Code = "not_in_game"
)

// Error carries a Code plus a human readable reason. Errors with the same
// Code match under errors.Is, so handlers compare against the sentinels
// below regardless of the reason text.
type Error struct {
	Code   Code   `json:"code"`
	Reason string `json:"reason"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Reason
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Errf builds an *Error with a formatted reason.
func Errf(code Code, format string, v ...any) *Error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, v...)}
}

var (
	ErrUnsupportedGameType = &Error{Code: CodeUnsupportedGameType, Reason: "unsupported game type"}
	ErrRoomNotFound        = &Error{Code: CodeRoomNotFound, Reason: "room not found"}
	ErrNotYourTurn         = &Error{Code: CodeNotYourTurn, Reason: "not your turn"}
	ErrIllegalMove         = &Error{Code: CodeIllegalMove, Reason: "illegal move"}
	ErrRoundClosed         = &Error{Code: CodeRoundClosed, Reason: "round already closed"}
	ErrInsufficientStack   = &Error{Code: CodeInsufficientStack, Reason: "insufficient stack"}
	ErrWrongPlayerCount    = &Error{Code: CodeWrongPlayerCount, Reason: "wrong player count"}
	ErrGameFull            = &Error{Code: CodeGameFull, Reason: "game is full"}
	ErrNotInGame           = &Error{Code: CodeNotInGame, Reason: "player not in game"}
)
