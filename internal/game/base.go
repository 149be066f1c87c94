package game

import (
	"sync"
	"time"
)

// Base carries the lifecycle shared by the board games: the player roster,
// ready flags and the waiting/in_progress/finished transitions. Concrete
// games embed it and register a start hook that fires once every seat is
// filled and ready.
//
// The exported Lock/Unlock pair is the per-instance mutex. Methods that
// implement the Game interface take the lock themselves; the lower level
// helpers (Snapshot, Current, SetCurrent, Finish, ...) expect the caller
// to hold it.
type Base struct {
	mu sync.Mutex

	roomID   string
	gameType Type
	min, max int

	players []Player
	status  Status
	current string
	winner  string

	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time

	onStart func()
}

func NewBase(roomID string, t Type, minPlayers, maxPlayers int) Base {
	return Base{
		roomID:    roomID,
		gameType:  t,
		min:       minPlayers,
		max:       maxPlayers,
		status:    StatusWaiting,
		createdAt: time.Now(),
	}
}

func (b *Base) Lock()   { b.mu.Lock() }
func (b *Base) Unlock() { b.mu.Unlock() }

func (b *Base) Type() Type { return b.gameType }

// SetStartHook registers the deal/initialization hook. It runs with the
// lock held, once, when the game auto-starts.
func (b *Base) SetStartHook(fn func()) { b.onStart = fn }

// Cleanup is a no-op for board games; they hold no external resources.
func (b *Base) Cleanup() {}

// AddPlayer seats a player. Re-adding a present player only refreshes the
// name, so a reconnect never resets ready flags or roster order.
func (b *Base) AddPlayer(p Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.players {
		if b.players[i].ID == p.ID {
			if p.Name != "" {
				b.players[i].Name = p.Name
			}
			return nil
		}
	}
	if b.status != StatusWaiting {
		return Errf(CodeGameFull, "game already started")
	}
	if len(b.players) >= b.max {
		return ErrGameFull
	}
	b.players = append(b.players, p)
	b.maybeStart()
	return nil
}

// RemovePlayer drops a player. Leaving a running two-sided game forfeits
// it: a sole remaining player wins, otherwise the game finishes without a
// winner.
func (b *Base) RemovePlayer(playerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i := range b.players {
		if b.players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotInGame
	}
	b.players = append(b.players[:idx], b.players[idx+1:]...)

	if b.status == StatusInProgress {
		if len(b.players) == 1 {
			b.Finish(b.players[0].ID)
		} else if len(b.players) < b.min {
			b.Finish("")
		}
	}
	return nil
}

func (b *Base) SetReady(playerID string, ready bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.players {
		if b.players[i].ID == playerID {
			b.players[i].Ready = ready
			b.maybeStart()
			return nil
		}
	}
	return ErrNotInGame
}

// maybeStart fires the start hook when the table is full enough and
// everyone flagged ready. Lock held.
func (b *Base) maybeStart() {
	if b.status != StatusWaiting || b.onStart == nil {
		return
	}
	if len(b.players) < b.min {
		return
	}
	for _, p := range b.players {
		if !p.Ready {
			return
		}
	}
	b.status = StatusInProgress
	b.startedAt = time.Now()
	b.onStart()
}

func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Snapshot()
}

// Snapshot returns the State summary. Lock held.
func (b *Base) Snapshot() State {
	players := make([]Player, len(b.players))
	copy(players, b.players)
	return State{
		RoomID:          b.roomID,
		GameType:        b.gameType,
		Status:          b.status,
		Players:         players,
		CurrentPlayerID: b.current,
		Winner:          b.winner,
		CreatedAt:       b.createdAt,
		FinishedAt:      b.finishedAt,
	}
}

// The remaining helpers all expect the lock to be held.

func (b *Base) Players() []Player { return b.players }

func (b *Base) PlayerIndex(playerID string) int {
	for i := range b.players {
		if b.players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (b *Base) Status() Status       { return b.status }
func (b *Base) Current() string      { return b.current }
func (b *Base) SetCurrent(id string) { b.current = id }
func (b *Base) Winner() string       { return b.winner }

// Finish ends the game. winner is a player id, WinnerDraw, or "" for an
// abandoned game.
func (b *Base) Finish(winner string) {
	if b.status == StatusFinished {
		return
	}
	b.status = StatusFinished
	b.winner = winner
	b.current = ""
	b.finishedAt = time.Now()
}

// GuardMove runs the checks every turn-based move shares: the game must be
// running, the player seated, and it must be their turn. Lock held.
func (b *Base) GuardMove(playerID string) error {
	if b.status == StatusFinished {
		return ErrRoundClosed
	}
	if b.status != StatusInProgress {
		return Errf(CodeIllegalMove, "game has not started")
	}
	if b.PlayerIndex(playerID) < 0 {
		return ErrNotInGame
	}
	if b.current != "" && b.current != playerID {
		return ErrNotYourTurn
	}
	return nil
}
