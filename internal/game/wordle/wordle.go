// Package wordle is the two player word guessing duel: both players attack
// the same hidden word each round, scoring by how few attempts they needed.
package wordle

import (
	"encoding/json"
	"math/rand"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

const (
	wordLen      = 5
	maxAttempts  = 6
	defaultRound = 3
)

type Move struct {
	Guess string `json:"guess"`
}

type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

type Attempt struct {
	Word  string        `json:"word"`
	Marks [wordLen]Mark `json:"marks"`
}

type playerRound struct {
	attempts []Attempt
	solved   bool
	done     bool
}

type Game struct {
	game.Base
	targets []string
	round   int
	rounds  map[string]*playerRound
	scores  map[string]int
	rng     *rand.Rand
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > 2 {
		return nil, game.Errf(game.CodeWrongPlayerCount, "wordle takes 2 players, got %d", len(cfg.Players))
	}
	totalRounds := cfg.Options.Rounds
	if totalRounds <= 0 {
		totalRounds = defaultRound
	}
	g := &Game{
		Base:    game.NewBase(cfg.RoomID, game.TypeWordle, 2, 2),
		targets: make([]string, totalRounds),
		rounds:  make(map[string]*playerRound),
		scores:  make(map[string]int),
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

func (g *Game) start() {
	for i := range g.targets {
		g.targets[i] = dictionary[g.rng.Intn(len(dictionary))]
	}
	for _, p := range g.Players() {
		g.rounds[p.ID] = &playerRound{}
		g.scores[p.ID] = 0
	}
	// Both players act freely; there is no turn order to supervise.
	g.SetCurrent("")
}

func (g *Game) validate(playerID string, raw json.RawMessage) (string, error) {
	if g.Status() == game.StatusFinished {
		return "", game.ErrRoundClosed
	}
	if g.Status() != game.StatusInProgress {
		return "", game.Errf(game.CodeIllegalMove, "game has not started")
	}
	pr, ok := g.rounds[playerID]
	if !ok {
		return "", game.ErrNotInGame
	}
	if pr.done {
		return "", game.Errf(game.CodeRoundClosed, "you already finished round %d", g.round+1)
	}

	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}
	guess := strings.ToLower(strings.TrimSpace(m.Guess))
	if len(guess) != wordLen {
		return "", game.Errf(game.CodeIllegalMove, "guess must be %d letters", wordLen)
	}
	if !dictionarySet[guess] {
		if hint := closestWord(guess); hint != "" {
			return "", game.Errf(game.CodeIllegalMove, "%q is not in the dictionary, did you mean %q", guess, hint)
		}
		return "", game.Errf(game.CodeIllegalMove, "%q is not in the dictionary", guess)
	}
	return guess, nil
}

// closestWord suggests a dictionary word within edit distance 2.
func closestWord(guess string) string {
	best, bestDist := "", 3
	for _, w := range dictionary {
		if d := levenshtein.ComputeDistance(guess, w); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

func (g *Game) ApplyMove(playerID string, raw json.RawMessage) error {
	g.Lock()
	defer g.Unlock()

	guess, err := g.validate(playerID, raw)
	if err != nil {
		return err
	}

	pr := g.rounds[playerID]
	target := g.targets[g.round]
	att := Attempt{Word: guess, Marks: evaluate(guess, target)}
	pr.attempts = append(pr.attempts, att)

	if guess == target {
		pr.solved = true
		pr.done = true
		g.scores[playerID] += maxAttempts + 1 - len(pr.attempts)
	} else if len(pr.attempts) >= maxAttempts {
		pr.done = true
	}

	g.advanceRound()
	return nil
}

// advanceRound moves on once every player finished the round, and ends the
// game after the last one.
func (g *Game) advanceRound() {
	for _, pr := range g.rounds {
		if !pr.done {
			return
		}
	}
	g.round++
	if g.round >= len(g.targets) {
		g.Finish(g.winner())
		return
	}
	for _, pr := range g.rounds {
		*pr = playerRound{}
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

// evaluate marks a guess against the target with standard duplicate letter
// handling: exact positions first, then leftovers left to right.
func evaluate(guess, target string) [wordLen]Mark {
	var marks [wordLen]Mark
	var leftover [26]int

	for i := 0; i < wordLen; i++ {
		if guess[i] == target[i] {
			marks[i] = MarkCorrect
		} else {
			leftover[target[i]-'a']++
		}
	}
	for i := 0; i < wordLen; i++ {
		if marks[i] == MarkCorrect {
			continue
		}
		c := guess[i] - 'a'
		if leftover[c] > 0 {
			marks[i] = MarkPresent
			leftover[c]--
		} else {
			marks[i] = MarkAbsent
		}
	}
	return marks
}

func (g *Game) IsValidMove(playerID string, raw json.RawMessage) bool {
	g.Lock()
	defer g.Unlock()
	_, err := g.validate(playerID, raw)
	return err == nil
}

// TimeoutMove: wordle has no turn order, nothing to inject.
func (g *Game) TimeoutMove(string) (json.RawMessage, bool) {
	return nil, false
}

// OpponentAttempt shows colors only; the letters stay hidden until the
// game ends.
type OpponentAttempt struct {
	Marks [wordLen]Mark `json:"marks"`
}

type OpponentView struct {
	PlayerID string            `json:"playerId"`
	Attempts []OpponentAttempt `json:"attempts"`
	Solved   bool              `json:"solved"`
	Done     bool              `json:"done"`
}

type View struct {
	game.State
	Round        int            `json:"round"`
	TotalRounds  int            `json:"totalRounds"`
	Attempts     []Attempt      `json:"attempts"`
	AttemptsLeft int            `json:"attemptsLeft"`
	Done         bool           `json:"done"`
	Scores       map[string]int `json:"scores"`
	Opponents    []OpponentView `json:"opponents"`
	Targets      []string       `json:"targets,omitempty"`
}

func (g *Game) ViewFor(playerID string) any {
	g.Lock()
	defer g.Unlock()

	v := View{
		State:       g.Snapshot(),
		Round:       g.round + 1,
		TotalRounds: len(g.targets),
		Scores:      make(map[string]int, len(g.scores)),
	}
	for k, s := range g.scores {
		v.Scores[k] = s
	}
	if g.Status() == game.StatusWaiting {
		v.Round = 0
		return v
	}
	if g.Status() == game.StatusFinished {
		v.Round = len(g.targets)
		v.Targets = g.targets
	}

	if pr, ok := g.rounds[playerID]; ok {
		v.Attempts = pr.attempts
		v.AttemptsLeft = maxAttempts - len(pr.attempts)
		v.Done = pr.done
	}
	for id, pr := range g.rounds {
		if id == playerID {
			continue
		}
		ov := OpponentView{PlayerID: id, Solved: pr.solved, Done: pr.done}
		for _, a := range pr.attempts {
			ov.Attempts = append(ov.Attempts, OpponentAttempt{Marks: a.Marks})
		}
		v.Opponents = append(v.Opponents, ov)
	}
	return v
}
