package codenames

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

func newStarted(t *testing.T, seed int64) *Game {
	t.Helper()
	g, err := New(game.Config{
		RoomID: "r1",
		Players: []game.Player{
			{ID: "p1", Name: "A", Ready: true},
			{ID: "p2", Name: "B", Ready: true},
			{ID: "p3", Name: "C", Ready: true},
			{ID: "p4", Name: "D", Ready: true},
		},
		Rand: rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g.(*Game)
}

func clue(word string, n int) json.RawMessage {
	raw, _ := json.Marshal(Move{Type: "clue", Word: word, Number: n})
	return raw
}

func pick(id int) json.RawMessage {
	raw, _ := json.Marshal(Move{Type: "guess", CardID: id})
	return raw
}

func findCard(g *Game, kind CardKind) int {
	for i, c := range g.cards {
		if c.kind == kind && !c.revealed {
			return i
		}
	}
	return -1
}

func TestWrongPlayerCountAtCreation(t *testing.T) {
	_, err := New(game.Config{
		RoomID:  "r1",
		Players: []game.Player{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
	})
	if !errors.Is(err, game.ErrWrongPlayerCount) {
		t.Fatalf("expected wrong_player_count, got %v", err)
	}
}

func TestBoardComposition(t *testing.T) {
	g := newStarted(t, 1)
	counts := map[CardKind]int{}
	words := map[string]bool{}
	for _, c := range g.cards {
		counts[c.kind]++
		if words[c.word] {
			t.Fatalf("duplicate board word %q", c.word)
		}
		words[c.word] = true
	}
	starting := g.turn
	if counts[CardKind(starting)] != startingCards {
		t.Fatalf("starting team should own %d cards, got %d", startingCards, counts[CardKind(starting)])
	}
	if counts[CardKind(otherTeam(starting))] != secondCards {
		t.Fatalf("second team should own %d cards, got %d", secondCards, counts[CardKind(otherTeam(starting))])
	}
	if counts[KindNeutral] != neutralCards || counts[KindAssassin] != 1 {
		t.Fatalf("bad neutral/assassin split: %v", counts)
	}
}

func TestClueThenGuessFlow(t *testing.T) {
	g := newStarted(t, 2)
	giver := g.clueGiverOf(g.turn)
	guesser := g.guesserOf(g.turn)

	// The guesser cannot act before a clue.
	err := g.ApplyMove(guesser, pick(0))
	if !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("expected not_your_turn before the clue, got %v", err)
	}

	if err := g.ApplyMove(giver, clue("zebra", 2)); err != nil {
		t.Fatalf("clue: %v", err)
	}
	if g.guessesLeft != 3 {
		t.Fatalf("clue 2 grants 3 guesses, got %d", g.guessesLeft)
	}
	if g.State().CurrentPlayerID != guesser {
		t.Fatal("guess phase must hand the turn to the guesser")
	}

	own := findCard(g, CardKind(g.turn))
	if err := g.ApplyMove(guesser, pick(own)); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if g.guessesLeft != 2 {
		t.Fatalf("own-team hit keeps guessing, got %d left", g.guessesLeft)
	}
}

func TestNeutralGuessEndsTurn(t *testing.T) {
	g := newStarted(t, 3)
	team := g.turn
	giver := g.clueGiverOf(team)
	guesser := g.guesserOf(team)

	if err := g.ApplyMove(giver, clue("zebra", 3)); err != nil {
		t.Fatalf("clue: %v", err)
	}
	if err := g.ApplyMove(guesser, pick(findCard(g, KindNeutral))); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if g.turn != otherTeam(team) || g.phase != phaseClue {
		t.Fatalf("neutral hit must end the turn, got turn=%s phase=%s", g.turn, g.phase)
	}
}

func TestAssassinLosesImmediately(t *testing.T) {
	g := newStarted(t, 4)
	team := g.turn
	giver := g.clueGiverOf(team)
	guesser := g.guesserOf(team)

	if err := g.ApplyMove(giver, clue("zebra", 1)); err != nil {
		t.Fatalf("clue: %v", err)
	}
	if err := g.ApplyMove(guesser, pick(findCard(g, KindAssassin))); err != nil {
		t.Fatalf("guess: %v", err)
	}
	st := g.State()
	if st.Status != game.StatusFinished {
		t.Fatalf("assassin must end the game, got %s", st.Status)
	}
	if st.Winner != string(otherTeam(team)) {
		t.Fatalf("expected %s to win, got %q", otherTeam(team), st.Winner)
	}
}

func TestClueWordOnBoardRejected(t *testing.T) {
	g := newStarted(t, 5)
	giver := g.clueGiverOf(g.turn)
	err := g.ApplyMove(giver, clue(g.cards[0].word, 1))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("expected illegal_move, got %v", err)
	}
}

func TestGuesserViewHidesUnrevealedKinds(t *testing.T) {
	g := newStarted(t, 6)
	guesser := g.guesserOf(g.turn)
	giver := g.clueGiverOf(g.turn)

	gv := g.ViewFor(guesser).(View)
	for _, c := range gv.Cards {
		if !c.Revealed && c.Kind != "" {
			t.Fatalf("guesser saw hidden kind of card %d", c.CardID)
		}
	}
	cv := g.ViewFor(giver).(View)
	for _, c := range cv.Cards {
		if c.Kind == "" {
			t.Fatalf("clue-giver must see every kind, card %d is blank", c.CardID)
		}
	}
}

func TestTimeoutPassForfeitsCluePhase(t *testing.T) {
	g := newStarted(t, 7)
	team := g.turn
	giver := g.clueGiverOf(team)

	raw, ok := g.TimeoutMove(giver)
	if !ok {
		t.Fatal("expected a timeout move")
	}
	if err := g.ApplyMove(giver, raw); err != nil {
		t.Fatalf("timeout pass: %v", err)
	}
	if g.turn != otherTeam(team) {
		t.Fatal("timeout pass must hand the turn to the other team")
	}
}

func TestClearingAllCardsWins(t *testing.T) {
	g := newStarted(t, 8)
	team := g.turn
	giver := g.clueGiverOf(team)
	guesser := g.guesserOf(team)

	// Sweep every own card across as many turns as it takes; the other
	// team always passes.
	for g.State().Status == game.StatusInProgress {
		if g.turn != team {
			other := g.clueGiverOf(g.turn)
			if err := g.ApplyMove(other, json.RawMessage(`{"type":"pass"}`)); err != nil {
				t.Fatalf("pass: %v", err)
			}
			continue
		}
		if err := g.ApplyMove(giver, clue("zebra", 9)); err != nil {
			t.Fatalf("clue: %v", err)
		}
		for g.phase == phaseGuess && g.State().Status == game.StatusInProgress {
			idx := findCard(g, CardKind(team))
			if err := g.ApplyMove(guesser, pick(idx)); err != nil {
				t.Fatalf("guess: %v", err)
			}
		}
	}
	if got := g.State().Winner; got != string(team) {
		t.Fatalf("expected %s to win by clearing, got %q", team, got)
	}
}
