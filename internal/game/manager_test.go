package game_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/codenames"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/tictactoe"
)

func newManager() *game.Manager {
	return game.NewManager(map[game.Type]game.Factory{
		game.TypeTicTacToe: tictactoe.New,
		game.TypeCodenames: codenames.New,
	})
}

func TestCreateGameAndGet(t *testing.T) {
	m := newManager()
	g, err := m.CreateGame("room1", game.TypeTicTacToe, game.Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := m.GetGame("room1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != g {
		t.Fatal("GetGame must return the created instance")
	}
}

func TestDuplicateCreateReturnsExisting(t *testing.T) {
	m := newManager()
	first, err := m.CreateGame("room1", game.TypeTicTacToe, game.Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := first.AddPlayer(game.Player{ID: "a"}); err != nil {
		t.Fatalf("add player: %v", err)
	}

	second, err := m.CreateGame("room1", game.TypeCodenames, game.Config{})
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if second != first {
		t.Fatal("duplicate create must return the existing instance untouched")
	}
	if len(second.State().Players) != 1 {
		t.Fatal("existing instance lost state on duplicate create")
	}
}

func TestUnsupportedGameType(t *testing.T) {
	m := newManager()
	_, err := m.CreateGame("room1", "backgammon", game.Config{})
	if !errors.Is(err, game.ErrUnsupportedGameType) {
		t.Fatalf("expected unsupported_game_type, got %v", err)
	}
	if _, err := m.GetGame("room1"); err == nil {
		t.Fatal("failed create must not register an instance")
	}
}

func TestWrongPlayerCountFailsCreation(t *testing.T) {
	m := newManager()
	_, err := m.CreateGame("room1", game.TypeCodenames, game.Config{
		Players: []game.Player{{ID: "a"}, {ID: "b"}},
	})
	if !errors.Is(err, game.ErrWrongPlayerCount) {
		t.Fatalf("expected wrong_player_count, got %v", err)
	}
	if _, err := m.GetGame("room1"); err == nil {
		t.Fatal("failed create must not register an instance")
	}
}

func TestMoveOnUnknownRoom(t *testing.T) {
	m := newManager()
	err := m.ApplyMove("ghost", "a", []byte(`{"position":0}`))
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Fatalf("expected room_not_found, got %v", err)
	}
}

func TestRemoveGame(t *testing.T) {
	m := newManager()
	if _, err := m.CreateGame("room1", game.TypeTicTacToe, game.Config{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.RemoveGame("room1")
	if _, err := m.GetGame("room1"); !errors.Is(err, game.ErrRoomNotFound) {
		t.Fatalf("expected room_not_found after removal, got %v", err)
	}
	// Removing twice is harmless.
	m.RemoveGame("room1")
}

func TestStatsAndActiveGames(t *testing.T) {
	m := newManager()
	for _, id := range []string{"r1", "r2"} {
		if _, err := m.CreateGame(id, game.TypeTicTacToe, game.Config{}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	s := m.Stats()
	if s.Total != 2 || s.ByType[game.TypeTicTacToe] != 2 {
		t.Fatalf("bad stats: %+v", s)
	}
	if s.ByStatus[game.StatusWaiting] != 2 {
		t.Fatalf("both games should be waiting: %+v", s)
	}
	if got := len(m.ActiveGames()); got != 2 {
		t.Fatalf("expected 2 active games, got %d", got)
	}
}

func TestSweepReclaimsAbandonedRooms(t *testing.T) {
	m := newManager()
	if _, err := m.CreateGame("empty", game.TypeTicTacToe, game.Config{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Zero grace: the playerless waiting room goes immediately.
	time.Sleep(time.Millisecond)
	removed := m.Sweep(0)
	if len(removed) != 1 || removed[0] != "empty" {
		t.Fatalf("expected [empty] removed, got %v", removed)
	}
	if _, err := m.GetGame("empty"); err == nil {
		t.Fatal("swept game still registered")
	}
}
