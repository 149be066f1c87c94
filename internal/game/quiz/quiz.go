// Package quiz is the two player trivia duel: both players answer the same
// multiple choice questions, 10 points per correct answer.
package quiz

import (
	"encoding/json"
	"math/rand"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

const (
	defaultQuestions = 10
	pointsPerAnswer  = 10
)

type Move struct {
	Answer int `json:"answer"`
}

type Game struct {
	game.Base
	questions []question
	idx       int
	answers   map[string]int
	scores    map[string]int
	history   []Result
	rng       *rand.Rand
}

// Result is one closed question with everyone's picks, broadcast after
// both players answered.
type Result struct {
	Question string         `json:"question"`
	Options  [4]string      `json:"options"`
	Correct  int            `json:"correct"`
	Answers  map[string]int `json:"answers"`
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > 2 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "quiz takes 2 players, got %d", len(cfg.Players))
	}
	count := cfg.Options.Rounds
	if count <= 0 {
		count = defaultQuestions
	}
	if count > len(bank) {
		count = len(bank)
	}
	g := &Game{
		Base:    game.NewBase(cfg.RoomID, game.TypeQuiz, 2, 2),
		answers: make(map[string]int),
		scores:  make(map[string]int),
		rng:     cfg.RNG(),
	}
	g.questions = pick(g.rng, count)
	g.SetStartHook(g.start)
	for _, p := range cfg.Players {
		if err := g.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// pick draws count distinct questions from the bank.
func pick(rng *rand.Rand, count int) []question {
	perm := rng.Perm(len(bank))
	qs := make([]question, count)
	for i := 0; i < count; i++ {
		qs[i] = bank[perm[i]]
	}
	return qs
}

func (g *Game) start() {
	for _, p := range g.Players() {
		g.scores[p.ID] = 0
	}
	// Both players answer freely; there is no turn order to supervise.
	g.SetCurrent("")
}

func (g *Game) validate(playerID string, raw json.RawMessage) (int, error) {
	if g.Status() == game.StatusFinished {
		return 0, game.ErrRoundClosed
	}
	if g.Status() != game.StatusInProgress {
		return 0, game.Errf(game.CodeIllegalMove, "game has not started")
	}
	if g.PlayerIndex(playerID) < 0 {
		return 0, game.ErrNotInGame
	}
	if _, answered := g.answers[playerID]; answered {
		return 0, game.Errf(game.CodeRoundClosed, "you already answered question %d", g.idx+1)
	}

	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return 0, game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}
	if m.Answer < 0 || m.Answer >= len(g.questions[g.idx].Options) {
		return 0, game.Errf(game.CodeIllegalMove, "answer %d is out of range", m.Answer)
	}
	return m.Answer, nil
}

func (g *Game) ApplyMove(playerID string, raw json.RawMessage) error {
	g.Lock()
	defer g.Unlock()

	answer, err := g.validate(playerID, raw)
	if err != nil {
		return err
	}

	g.answers[playerID] = answer
	if answer == g.questions[g.idx].Answer {
		g.scores[playerID] += pointsPerAnswer
	}
	g.advance()
	return nil
}

// advance closes the question once every player answered and ends the game
// after the last one.
func (g *Game) advance() {
	if len(g.answers) < len(g.Players()) {
		return
	}
	q := g.questions[g.idx]
	res := Result{
		Question: q.Text,
		Options:  q.Options,
		Correct:  q.Answer,
		Answers:  g.answers,
	}
	g.history = append(g.history, res)
	g.answers = make(map[string]int)

	g.idx++
	if g.idx >= len(g.questions) {
		g.Finish(g.winner())
	}
}

func (g *Game) winner() string {
	players := g.Players()
	a, b := players[0], players[1]
	switch {
	case g.scores[a.ID] > g.scores[b.ID]:
		return a.ID
	case g.scores[b.ID] > g.scores[a.ID]:
		return b.ID
	default:
		return game.WinnerDraw
	}
}

func (g *Game) IsValidMove(playerID string, raw json.RawMessage) bool {
	g.Lock()
	defer g.Unlock()
	_, err := g.validate(playerID, raw)
	return err == nil
}

// TimeoutMove: both players answer at will, nothing to inject.
func (g *Game) TimeoutMove(string) (json.RawMessage, bool) {
	return nil, false
}

// QuestionView is the open question with the correct index stripped.
type QuestionView struct {
	Number  int       `json:"number"`
	Text    string    `json:"text"`
	Options [4]string `json:"options"`
}

type View struct {
	game.State
	TotalQuestions int            `json:"totalQuestions"`
	Question       *QuestionView  `json:"question,omitempty"`
	Answered       bool           `json:"answered"`
	OpponentDone   bool           `json:"opponentDone"`
	Scores         map[string]int `json:"scores"`
	History        []Result       `json:"history"`
}

func (g *Game) ViewFor(playerID string) any {
	g.Lock()
	defer g.Unlock()

	v := View{
		State:          g.Snapshot(),
		TotalQuestions: len(g.questions),
		Scores:         make(map[string]int, len(g.scores)),
		History:        g.history,
	}
	for k, s := range g.scores {
		v.Scores[k] = s
	}
	if g.Status() != game.StatusInProgress {
		return v
	}

	q := g.questions[g.idx]
	v.Question = &QuestionView{Number: g.idx + 1, Text: q.Text, Options: q.Options}
	_, v.Answered = g.answers[playerID]
	for id := range g.answers {
		if id != playerID {
			v.OpponentDone = true
		}
	}
	return v
}
