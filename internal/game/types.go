package game

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/MmmDelicious/lovememory-gameserver/internal/economy"
)

type Type string

const (
	TypeTicTacToe Type = "tic-tac-toe"
	TypeMemory    Type = "memory"
	TypeChess     Type = "chess"
	TypeWordle    Type = "wordle"
	TypeCodenames Type = "codenames"
	TypeQuiz      Type = "quiz"
	TypePoker     Type = "poker"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// WinnerDraw is stored in State.Winner when a game ends without a winner.
const WinnerDraw = "draw"

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// State is the lobby level summary every game exposes. Game specific board
// data lives in the per-viewer ViewFor projections, never here.
type State struct {
	RoomID          string    `json:"roomId"`
	GameType        Type      `json:"gameType"`
	Status          Status    `json:"status"`
	Players         []Player  `json:"players"`
	CurrentPlayerID string    `json:"currentPlayerId,omitempty"`
	Winner          string    `json:"winner,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}

// Options are the client supplied table knobs. Zero values fall back to
// per-game defaults.
type Options struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	MinBuyIn   int `json:"minBuyIn"`
	MaxBuyIn   int `json:"maxBuyIn"`
	Rounds     int `json:"rounds"`
}

// Config is everything a factory needs to build a game instance.
type Config struct {
	RoomID  string
	Players []Player
	Options Options
	Wallet  economy.Wallet
	Rand    *rand.Rand
}

// RNG returns the configured rand source, seeding one from the clock when
// the caller left it nil.
func (c Config) RNG() *rand.Rand {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Game is the contract every room scoped state machine implements. All
// mutating calls for one instance are serialized by the owning room actor;
// the instance still guards its state with a mutex so read-only callers
// (stats handlers, sweepers) can inspect it concurrently.
type Game interface {
	Type() Type
	AddPlayer(p Player) error
	RemovePlayer(playerID string) error
	SetReady(playerID string, ready bool) error

	// ApplyMove validates and applies a move atomically. On error the
	// state is untouched.
	ApplyMove(playerID string, move json.RawMessage) error
	IsValidMove(playerID string, move json.RawMessage) bool

	State() State

	// ViewFor builds the redacted projection broadcast to one viewer.
	// It is a pure read; two calls without an intervening move return
	// the same view.
	ViewFor(playerID string) any

	// TimeoutMove returns the default move injected when playerID lets
	// the turn clock run out, or false when the game has none.
	TimeoutMove(playerID string) (json.RawMessage, bool)

	Cleanup()
}

type Factory func(cfg Config) (Game, error)
