// Package codenames is the four player team word game: two teams of two,
// one clue-giver and one guesser each, racing to reveal their cards while
// dodging the assassin.
package codenames

import (
	"encoding/json"
	"math/rand"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

const (
	boardSize     = 25
	startingCards = 9
	secondCards   = 8
	neutralCards  = 7
)

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

type CardKind string

const (
	KindRed      CardKind = "red"
	KindBlue     CardKind = "blue"
	KindNeutral  CardKind = "neutral"
	KindAssassin CardKind = "assassin"
)

type phase string

const (
	phaseClue  phase = "clue"
	phaseGuess phase = "guess"
)

type Move struct {
	Type string `json:"type"` // clue, guess, pass

	// clue
	Word   string `json:"word,omitempty"`
	Number int    `json:"number,omitempty"`

	// guess
	CardID int `json:"cardId"`
}

type Clue struct {
	Word   string `json:"word"`
	Number int    `json:"number"`
}

type boardCard struct {
	word     string
	kind     CardKind
	revealed bool
}

type Game struct {
	game.Base
	cards       []boardCard
	teams       map[string]Team
	clueGivers  map[string]bool
	phase       phase
	turn        Team
	clue        *Clue
	guessesLeft int
	winningTeam Team
	rng         *rand.Rand
}

func New(cfg game.Config) (game.Game, error) {
	if n := len(cfg.Players); n != 0 && n != 4 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "codenames takes exactly 4 players, got %d", n)
	}
	g := &Game{
		Base:       game.NewBase(cfg.RoomID, game.TypeCodenames, 4, 4),
		teams:      make(map[string]Team),
		clueGivers: make(map[string]bool),
		rng:        cfg.RNG(),
	}
	g.SetStartHook(g.start)
	for _, p := range cfg.Players {
		if err := g.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// start splits the roster into teams by join order (first member of each
// pair gives clues), builds the board and picks the starting team.
func (g *Game) start() {
	players := g.Players()
	g.teams[players[0].ID] = TeamRed
	g.teams[players[1].ID] = TeamRed
	g.teams[players[2].ID] = TeamBlue
	g.teams[players[3].ID] = TeamBlue
	g.clueGivers[players[0].ID] = true
	g.clueGivers[players[2].ID] = true

	starting, second := TeamRed, TeamBlue
	if g.rng.Intn(2) == 1 {
		starting, second = TeamBlue, TeamRed
	}

	words := make([]string, len(wordBank))
	copy(words, wordBank)
	g.rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })

	kinds := make([]CardKind, 0, boardSize)
	for i := 0; i < startingCards; i++ {
		kinds = append(kinds, CardKind(starting))
	}
	for i := 0; i < secondCards; i++ {
		kinds = append(kinds, CardKind(second))
	}
	for i := 0; i < neutralCards; i++ {
		kinds = append(kinds, KindNeutral)
	}
	kinds = append(kinds, KindAssassin)
	g.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	g.cards = make([]boardCard, boardSize)
	for i := range g.cards {
		g.cards[i] = boardCard{word: words[i], kind: kinds[i]}
	}

	g.phase = phaseClue
	g.turn = starting
	g.SetCurrent(g.clueGiverOf(starting))
}

func (g *Game) clueGiverOf(team Team) string {
	for id, t := range g.teams {
		if t == team && g.clueGivers[id] {
			return id
		}
	}
	return ""
}

func (g *Game) guesserOf(team Team) string {
	for id, t := range g.teams {
		if t == team && !g.clueGivers[id] {
			return id
		}
	}
	return ""
}

func (g *Game) ApplyMove(playerID string, raw json.RawMessage) error {
	g.Lock()
	defer g.Unlock()

	if err := g.GuardMove(playerID); err != nil {
		return err
	}
	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}

	switch m.Type {
	case "clue":
		return g.applyClue(m)
	case "guess":
		return g.applyGuess(m)
	case "pass":
		g.endTurn()
		return nil
	default:
		return game.Errf(game.CodeIllegalMove, "unknown move type %q", m.Type)
	}
}

func (g *Game) applyClue(m Move) error {
	if g.phase != phaseClue {
		return game.Errf(game.CodeIllegalMove, "a clue was already given")
	}
	if m.Word == "" {
		return game.Errf(game.CodeIllegalMove, "clue word is required")
	}
	if m.Number < 1 || m.Number > 9 {
		return game.Errf(game.CodeIllegalMove, "clue number must be 1-9, got %d", m.Number)
	}
	for _, c := range g.cards {
		if !c.revealed && c.word == m.Word {
			return game.Errf(game.CodeIllegalMove, "clue %q is on the board", m.Word)
		}
	}

	g.clue = &Clue{Word: m.Word, Number: m.Number}
	g.guessesLeft = m.Number + 1
	g.phase = phaseGuess
	g.SetCurrent(g.guesserOf(g.turn))
	return nil
}

func (g *Game) applyGuess(m Move) error {
	if g.phase != phaseGuess {
		return game.Errf(game.CodeIllegalMove, "wait for a clue before guessing")
	}
	if m.CardID < 0 || m.CardID >= len(g.cards) {
		return game.Errf(game.CodeIllegalMove, "card %d out of range", m.CardID)
	}
	card := &g.cards[m.CardID]
	if card.revealed {
		return game.Errf(game.CodeIllegalMove, "card %q is already revealed", card.word)
	}
	card.revealed = true

	switch card.kind {
	case KindAssassin:
		g.finishWith(otherTeam(g.turn))
		return nil
	case CardKind(g.turn):
		if g.teamCleared(g.turn) {
			g.finishWith(g.turn)
			return nil
		}
		g.guessesLeft--
		if g.guessesLeft <= 0 {
			g.endTurn()
		}
		return nil
	case CardKind(otherTeam(g.turn)):
		if g.teamCleared(otherTeam(g.turn)) {
			g.finishWith(otherTeam(g.turn))
			return nil
		}
		g.endTurn()
		return nil
	default: // neutral
		g.endTurn()
		return nil
	}
}

func (g *Game) teamCleared(team Team) bool {
	for _, c := range g.cards {
		if c.kind == CardKind(team) && !c.revealed {
			return false
		}
	}
	return true
}

func (g *Game) endTurn() {
	g.turn = otherTeam(g.turn)
	g.phase = phaseClue
	g.clue = nil
	g.guessesLeft = 0
	g.SetCurrent(g.clueGiverOf(g.turn))
}

// finishWith records the winning team; State.Winner carries the team name
// since a team, not a single player, wins.
func (g *Game) finishWith(team Team) {
	g.winningTeam = team
	g.Finish(string(team))
}

func otherTeam(t Team) Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
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
	switch m.Type {
	case "clue":
		return g.phase == phaseClue && m.Word != "" && m.Number >= 1 && m.Number <= 9
	case "guess":
		return g.phase == phaseGuess && m.CardID >= 0 && m.CardID < len(g.cards) && !g.cards[m.CardID].revealed
	case "pass":
		return true
	default:
		return false
	}
}

// TimeoutMove forfeits the stalled side's turn: a pass in either phase.
func (g *Game) TimeoutMove(playerID string) (json.RawMessage, bool) {
	g.Lock()
	defer g.Unlock()

	if g.Status() != game.StatusInProgress || g.Current() != playerID {
		return nil, false
	}
	raw, _ := json.Marshal(Move{Type: "pass"})
	return raw, true
}

// CardView hides unrevealed kinds from everyone but the clue-givers.
type CardView struct {
	CardID   int      `json:"cardId"`
	Word     string   `json:"word"`
	Kind     CardKind `json:"kind,omitempty"`
	Revealed bool     `json:"revealed"`
}

type View struct {
	game.State
	Cards       []CardView      `json:"cards"`
	Teams       map[string]Team `json:"teams"`
	YourTeam    Team            `json:"yourTeam,omitempty"`
	ClueGiver   bool            `json:"clueGiver"`
	Turn        Team            `json:"turn,omitempty"`
	Phase       string          `json:"phase,omitempty"`
	Clue        *Clue           `json:"clue,omitempty"`
	GuessesLeft int             `json:"guessesLeft"`
	Remaining   map[Team]int    `json:"remaining"`
	WinningTeam Team            `json:"winningTeam,omitempty"`
}

func (g *Game) ViewFor(playerID string) any {
	g.Lock()
	defer g.Unlock()

	seesAll := g.clueGivers[playerID] || g.Status() == game.StatusFinished
	v := View{
		State:       g.Snapshot(),
		Teams:       make(map[string]Team, len(g.teams)),
		YourTeam:    g.teams[playerID],
		ClueGiver:   g.clueGivers[playerID],
		Turn:        g.turn,
		Phase:       string(g.phase),
		Clue:        g.clue,
		GuessesLeft: g.guessesLeft,
		Remaining:   map[Team]int{TeamRed: 0, TeamBlue: 0},
		WinningTeam: g.winningTeam,
	}
	for id, t := range g.teams {
		v.Teams[id] = t
	}
	v.Cards = make([]CardView, len(g.cards))
	for i, c := range g.cards {
		cv := CardView{CardID: i, Word: c.word, Revealed: c.revealed}
		if c.revealed || seesAll {
			cv.Kind = c.kind
		}
		if !c.revealed {
			switch c.kind {
			case KindRed:
				v.Remaining[TeamRed]++
			case KindBlue:
				v.Remaining[TeamBlue]++
			}
		}
		v.Cards[i] = cv
	}
	return v
}
