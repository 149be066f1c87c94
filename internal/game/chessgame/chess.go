// Package chessgame wraps a full rules engine behind the shared game
// contract. The first player to join plays white.
package chessgame

import (
	"encoding/json"
	"math/rand"
	"strings"

	"github.com/notnil/chess"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

type Move struct {
	// Either a board move...
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	// ...or a table action: resign, offer_draw, accept_draw, decline_draw.
	Action string `json:"action,omitempty"`
}

type Game struct {
	game.Base
	eng           *chess.Game
	colors        map[string]chess.Color
	drawOfferFrom string
	rng           *rand.Rand
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > 2 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "chess takes 2 players, got %d", len(cfg.Players))
	}
	g := &Game{
		Base:   game.NewBase(cfg.RoomID, game.TypeChess, 2, 2),
		colors: make(map[string]chess.Color),
		rng:    cfg.RNG(),
	}
	g.SetStartHook(g.start)
	for _, p := range cfg.Players {
		if err := g.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) start() {
	players := g.Players()
	g.colors[players[0].ID] = chess.White
	g.colors[players[1].ID] = chess.Black
	g.eng = chess.NewGame()
	g.SetCurrent(players[0].ID)
}

var promoPieces = map[string]chess.PieceType{
	"q": chess.Queen,
	"r": chess.Rook,
	"b": chess.Bishop,
	"n": chess.Knight,
}

// findMove matches the payload against the engine's legal move list. An
// ambiguous promotion (no piece named) resolves to the queen.
func (g *Game) findMove(m Move) (*chess.Move, error) {
	want, ok := promoPieces[strings.ToLower(m.Promotion)]
	if m.Promotion != "" && !ok {
		return nil, game.Errf(game.CodeIllegalMove, "unknown promotion piece %q", m.Promotion)
	}

	var fallback *chess.Move
	for _, cand := range g.eng.ValidMoves() {
		if cand.S1().String() != m.From || cand.S2().String() != m.To {
			continue
		}
		if cand.Promo() == chess.NoPieceType {
			return cand, nil
		}
		if m.Promotion != "" {
			if cand.Promo() == want {
				return cand, nil
			}
			continue
		}
		if cand.Promo() == chess.Queen {
			return cand, nil
		}
		if fallback == nil {
			fallback = cand
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, game.Errf(game.CodeIllegalMove, "move %s-%s is not legal", m.From, m.To)
}

func (g *Game) ApplyMove(playerID string, raw json.RawMessage) error {
	g.Lock()
	defer g.Unlock()

	if err := g.GuardMove(playerID); err != nil {
		// Resigning and answering a draw offer are legal off-turn.
		var m Move
		if jsonErr := json.Unmarshal(raw, &m); jsonErr == nil && m.Action != "" {
			return g.applyAction(playerID, m.Action)
		}
		return err
	}

	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}
	if m.Action != "" {
		return g.applyAction(playerID, m.Action)
	}

	mv, err := g.findMove(m)
	if err != nil {
		return err
	}
	if err := g.eng.Move(mv); err != nil {
		return game.Errf(game.CodeIllegalMove, "move rejected: %v", err)
	}
	g.drawOfferFrom = ""
	g.settle()
	return nil
}

func (g *Game) applyAction(playerID string, action string) error {
	if g.Status() != game.StatusInProgress {
		return game.ErrRoundClosed
	}
	if g.PlayerIndex(playerID) < 0 {
		return game.ErrNotInGame
	}

	switch action {
	case "resign":
		g.eng.Resign(g.colors[playerID])
		g.settle()
		return nil
	case "offer_draw":
		if g.drawOfferFrom != "" {
			return game.Errf(game.CodeIllegalMove, "a draw offer is already pending")
		}
		g.drawOfferFrom = playerID
		return nil
	case "accept_draw":
		if g.drawOfferFrom == "" || g.drawOfferFrom == playerID {
			return game.Errf(game.CodeIllegalMove, "no draw offer to accept")
		}
		if err := g.eng.Draw(chess.DrawOffer); err != nil {
			return game.Errf(game.CodeIllegalMove, "draw rejected: %v", err)
		}
		g.settle()
		return nil
	case "decline_draw":
		if g.drawOfferFrom == "" || g.drawOfferFrom == playerID {
			return game.Errf(game.CodeIllegalMove, "no draw offer to decline")
		}
		g.drawOfferFrom = ""
		return nil
	default:
		return game.Errf(game.CodeIllegalMove, "unknown action %q", action)
	}
}

// settle syncs the lobby state with the engine after a move or action.
func (g *Game) settle() {
	switch g.eng.Outcome() {
	case chess.WhiteWon:
		g.Finish(g.playerOf(chess.White))
	case chess.BlackWon:
		g.Finish(g.playerOf(chess.Black))
	case chess.Draw:
		g.Finish(game.WinnerDraw)
	default:
		g.SetCurrent(g.playerOf(g.eng.Position().Turn()))
	}
}

func (g *Game) playerOf(color chess.Color) string {
	for id, c := range g.colors {
		if c == color {
			return id
		}
	}
	return ""
}

func (g *Game) IsValidMove(playerID string, raw json.RawMessage) bool {
	g.Lock()
	defer g.Unlock()

	if err := g.GuardMove(playerID); err != nil {
		return false
	}
	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	if m.Action != "" {
		return true
	}
	_, err := g.findMove(m)
	return err == nil
}

func (g *Game) TimeoutMove(playerID string) (json.RawMessage, bool) {
	g.Lock()
	defer g.Unlock()

	if g.Status() != game.StatusInProgress || g.Current() != playerID {
		return nil, false
	}
	moves := g.eng.ValidMoves()
	if len(moves) == 0 {
		return nil, false
	}
	mv := moves[g.rng.Intn(len(moves))]
	m := Move{From: mv.S1().String(), To: mv.S2().String()}
	if mv.Promo() != chess.NoPieceType {
		m.Promotion = "q"
	}
	raw, _ := json.Marshal(m)
	return raw, true
}

type View struct {
	game.State
	FEN           string   `json:"fen"`
	YourColor     string   `json:"yourColor,omitempty"`
	InCheck       bool     `json:"inCheck"`
	DrawOfferFrom string   `json:"drawOfferFrom,omitempty"`
	Moves         []string `json:"moves"`
	Method        string   `json:"method,omitempty"`
}

func (g *Game) ViewFor(playerID string) any {
	g.Lock()
	defer g.Unlock()

	v := View{
		State:         g.Snapshot(),
		DrawOfferFrom: g.drawOfferFrom,
	}
	if g.eng == nil {
		return v
	}

	v.FEN = g.eng.Position().String()
	if color, ok := g.colors[playerID]; ok {
		v.YourColor = color.Name()
	}
	history := g.eng.Moves()
	v.Moves = make([]string, len(history))
	for i, mv := range history {
		v.Moves[i] = mv.String()
	}
	if len(history) > 0 {
		v.InCheck = history[len(history)-1].HasTag(chess.Check)
	}
	if g.eng.Outcome() != chess.NoOutcome {
		v.Method = g.eng.Method().String()
	}
	return v
}
