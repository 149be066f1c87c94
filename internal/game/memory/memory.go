// Package memory is the two player pair matching game on a 4x6 grid.
package memory

import (
	"encoding/json"
	"math/rand"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

const (
	pairCount  = 12
	matchScore = 10
)

var symbols = []string{
	"🍒", "🍋", "🍇", "🍉", "🍓", "🥝",
	"🌻", "🌙", "⭐", "🔥", "💎", "🎈",
}

type Move struct {
	CardID int `json:"cardId"`
}

type card struct {
	symbol  string
	matched bool
}

// RevealedCard is carried in the view so the client can animate the pair
// that just flipped back.
type RevealedCard struct {
	CardID int    `json:"cardId"`
	Symbol string `json:"symbol"`
}

type Game struct {
	game.Base
	cards   []card
	faceUp  []int
	scores  map[string]int
	turns   map[string]int
	lastTry []RevealedCard
	rng     *rand.Rand
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > 2 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "memory takes 2 players, got %d", len(cfg.Players))
	}
	g := &Game{
		Base:   game.NewBase(cfg.RoomID, game.TypeMemory, 2, 2),
		scores: make(map[string]int),
		turns:  make(map[string]int),
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
	g.cards = make([]card, 0, pairCount*2)
	for _, s := range symbols[:pairCount] {
		g.cards = append(g.cards, card{symbol: s}, card{symbol: s})
	}
	g.rng.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
	g.SetCurrent(g.Players()[g.rng.Intn(2)].ID)
}

func (g *Game) validate(playerID string, raw json.RawMessage) (Move, error) {
	var m Move
	if err := g.GuardMove(playerID); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}
	if m.CardID < 0 || m.CardID >= len(g.cards) {
		return m, game.Errf(game.CodeIllegalMove, "card %d out of range", m.CardID)
	}
	if g.cards[m.CardID].matched {
		return m, game.Errf(game.CodeIllegalMove, "card %d is already matched", m.CardID)
	}
	for _, idx := range g.faceUp {
		if idx == m.CardID {
			return m, game.Errf(game.CodeIllegalMove, "card %d is already face up", m.CardID)
		}
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

	g.lastTry = nil
	g.faceUp = append(g.faceUp, m.CardID)
	if len(g.faceUp) < 2 {
		return nil
	}

	a, b := g.faceUp[0], g.faceUp[1]
	g.faceUp = nil
	g.turns[playerID]++

	if g.cards[a].symbol == g.cards[b].symbol {
		// Match scores and keeps the turn.
		g.cards[a].matched = true
		g.cards[b].matched = true
		g.scores[playerID] += matchScore
		if g.allMatched() {
			g.Finish(g.winner())
		}
		return nil
	}

	// Miss: both cards flip back right away and the turn passes. The pair
	// is reported once so the client can show it before hiding.
	g.lastTry = []RevealedCard{
		{CardID: a, Symbol: g.cards[a].symbol},
		{CardID: b, Symbol: g.cards[b].symbol},
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

func (g *Game) allMatched() bool {
	for _, c := range g.cards {
		if !c.matched {
			return false
		}
	}
	return true
}

// winner picks by score, then by fewer turns used, then a draw.
func (g *Game) winner() string {
	players := g.Players()
	a, b := players[0], players[1]
	sa, sb := g.scores[a.ID], g.scores[b.ID]
	if sa != sb {
		if sa > sb {
			return a.ID
		}
		return b.ID
	}
	ta, tb := g.turns[a.ID], g.turns[b.ID]
	if ta != tb {
		if ta < tb {
			return a.ID
		}
		return b.ID
	}
	return game.WinnerDraw
}

func (g *Game) opponent(playerID string) string {
	for _, p := range g.Players() {
		if p.ID != playerID {
			return p.ID
		}
	}
	return ""
}

func (g *Game) TimeoutMove(playerID string) (json.RawMessage, bool) {
	g.Lock()
	defer g.Unlock()

	if g.Status() != game.StatusInProgress || g.Current() != playerID {
		return nil, false
	}
	var open []int
	for i, c := range g.cards {
		if c.matched {
			continue
		}
		up := false
		for _, idx := range g.faceUp {
			if idx == i {
				up = true
				break
			}
		}
		if !up {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return nil, false
	}
	raw, _ := json.Marshal(Move{CardID: open[g.rng.Intn(len(open))]})
	return raw, true
}

// CardView hides the symbol unless the card is matched or currently face up.
type CardView struct {
	CardID  int    `json:"cardId"`
	Symbol  string `json:"symbol,omitempty"`
	Matched bool   `json:"matched"`
	FaceUp  bool   `json:"faceUp"`
}

type View struct {
	game.State
	Cards      []CardView     `json:"cards"`
	Scores     map[string]int `json:"scores"`
	LastReveal []RevealedCard `json:"lastReveal,omitempty"`
}

func (g *Game) ViewFor(string) any {
	g.Lock()
	defer g.Unlock()

	cards := make([]CardView, len(g.cards))
	for i, c := range g.cards {
		cv := CardView{CardID: i, Matched: c.matched}
		for _, idx := range g.faceUp {
			if idx == i {
				cv.FaceUp = true
			}
		}
		if c.matched || cv.FaceUp {
			cv.Symbol = c.symbol
		}
		cards[i] = cv
	}
	scores := make(map[string]int, len(g.scores))
	for k, v := range g.scores {
		scores[k] = v
	}
	return View{
		State:      g.Snapshot(),
		Cards:      cards,
		Scores:     scores,
		LastReveal: g.lastTry,
	}
}
