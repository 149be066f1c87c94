// Package tictactoe is the two player 3x3 board game.
package tictactoe

import (
	"encoding/json"
	"math/rand"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

type Move struct {
	Position int `json:"position"`
}

type Game struct {
	game.Base
	board   [9]string
	symbols map[string]string
	moves   int
	rng     *rand.Rand
}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > 2 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "tic-tac-toe takes 2 players, got %d", len(cfg.Players))
	}
	g := &Game{
		Base:    game.NewBase(cfg.RoomID, game.TypeTicTacToe, 2, 2),
		symbols: make(map[string]string),
		rng:     cfg.RNG(),
	}
	g.SetStartHook(g.start)
	for _, p := range cfg.Players {
		if err := g.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// start assigns X to the first joiner and picks who moves first at random.
func (g *Game) start() {
	players := g.Players()
	g.symbols[players[0].ID] = "X"
	g.symbols[players[1].ID] = "O"
	g.SetCurrent(players[g.rng.Intn(2)].ID)
}

func (g *Game) validate(playerID string, raw json.RawMessage) (Move, error) {
	var m Move
	if err := g.GuardMove(playerID); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}
	if m.Position < 0 || m.Position > 8 {
		return m, game.Errf(game.CodeIllegalMove, "position %d out of range", m.Position)
	}
	if g.board[m.Position] != "" {
		return m, game.Errf(game.CodeIllegalMove, "cell %d is occupied", m.Position)
	}
	return m, nil
}

func (g *Game) ApplyMove(playerID string, raw json.RawMessage) error {
	g.Lock()
	defer g.Unlock()

	m, err := g.validate(playerID, raw)
	if err != nil {
		return err
	}

	symbol := g.symbols[playerID]
	g.board[m.Position] = symbol
	g.moves++

	if g.wins(symbol) {
		g.Finish(playerID)
		return nil
	}
	if g.moves == 9 {
		g.Finish(game.WinnerDraw)
		return nil
	}
	g.SetCurrent(g.opponent(playerID))
	return nil
}

func (g *Game) IsValidMove(playerID string, raw json.RawMessage) bool {
	g.Lock()
	defer g.Unlock()
	_, err := g.validate(playerID, raw)
	return err == nil
}

func (g *Game) wins(symbol string) bool {
	for _, l := range winLines {
		if g.board[l[0]] == symbol && g.board[l[1]] == symbol && g.board[l[2]] == symbol {
			return true
		}
	}
	return false
}

func (g *Game) opponent(playerID string) string {
	for _, p := range g.Players() {
		if p.ID != playerID {
			return p.ID
		}
	}
	return ""
}

// TimeoutMove plays a random empty cell for the stalled player.
func (g *Game) TimeoutMove(playerID string) (json.RawMessage, bool) {
	g.Lock()
	defer g.Unlock()

	if g.Status() != game.StatusInProgress || g.Current() != playerID {
		return nil, false
	}
	var empty []int
	for i, c := range g.board {
		if c == "" {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return nil, false
	}
	raw, _ := json.Marshal(Move{Position: empty[g.rng.Intn(len(empty))]})
	return raw, true
}

type View struct {
	game.State
	Board      [9]string         `json:"board"`
	Symbols    map[string]string `json:"symbols"`
	YourSymbol string            `json:"yourSymbol,omitempty"`
}

func (g *Game) ViewFor(playerID string) any {
	g.Lock()
	defer g.Unlock()

	symbols := make(map[string]string, len(g.symbols))
	for k, v := range g.symbols {
		symbols[k] = v
	}
	return View{
		State:      g.Snapshot(),
		Board:      g.board,
		Symbols:    symbols,
		YourSymbol: g.symbols[playerID],
	}
}
