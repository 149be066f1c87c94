package room

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MmmDelicious/lovememory-gameserver/internal/events"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/tictactoe"
)

// newTestPlayer builds a player without a websocket; frames queue in the
// send channel and are dropped once it fills.
func newTestPlayer(id string) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ID:     id,
		Name:   id,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

func newStartedTicTacToe(t *testing.T) game.Game {
	t.Helper()
	g, err := tictactoe.New(game.Config{
		RoomID: "t1",
		Players: []game.Player{
			{ID: "a", Name: "a", Ready: true},
			{ID: "b", Name: "b", Ready: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, game.StatusInProgress, g.State().Status)
	return g
}

func filledCells(g game.Game) int {
	v := g.ViewFor("a").(tictactoe.View)
	n := 0
	for _, c := range v.Board {
		if c != "" {
			n++
		}
	}
	return n
}

// With a short turn clock and nobody moving, the supervisor must keep
// injecting each game's default move through the mailbox until the game
// ends on its own.
func TestTurnTimeoutInjectsDefaultMove(t *testing.T) {
	g := newStartedTicTacToe(t)
	r := NewRoom("t1", g, events.Nop{}, 10*time.Millisecond)
	go r.Run()
	defer r.Close()

	// A ready command is an accepted mutation; it arms the first timer.
	pa := newTestPlayer("a")
	raw, _ := json.Marshal(readyPayload{Ready: true})
	r.post(command{kind: msgReady, p: pa, data: raw})

	deadline := time.Now().Add(3 * time.Second)
	for g.State().Status != game.StatusFinished {
		if time.Now().After(deadline) {
			t.Fatalf("timeouts never finished the game, %d cells filled", filledCells(g))
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Greater(t, filledCells(g), 0)
}

// A timer armed for an earlier turn must be ignored when it finally lands.
func TestStaleTimeoutDropped(t *testing.T) {
	g := newStartedTicTacToe(t)
	// Long clock: armed timers never fire during the test, the expiries
	// are driven by hand.
	r := NewRoom("t1", g, events.Nop{}, time.Hour)

	r.armTimer()
	stale := r.turnSeq

	// The current player moves in time; the room re-arms for the next turn.
	current := g.State().CurrentPlayerID
	mv, _ := json.Marshal(map[string]int{"position": 0})
	require.NoError(t, g.ApplyMove(current, mv))
	r.armTimer()

	before := filledCells(g)
	r.handleTimeout(stale)
	require.Equal(t, before, filledCells(g), "a stale timer must not inject a move")

	// The live sequence still works.
	r.handleTimeout(r.turnSeq)
	require.Equal(t, before+1, filledCells(g))
}
