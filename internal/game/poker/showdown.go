package poker

import (
	"github.com/paulhankin/poker"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game/deck"
)

// WinnerInfo is one seat's share of a finished hand.
type WinnerInfo struct {
	PlayerID  string      `json:"playerId"`
	Amount    int         `json:"amount"`
	HandName  string      `json:"handName,omitempty"`
	HoleCards []deck.Card `json:"holeCards,omitempty"`
}

// HandResult summarizes the hand just played for the hand_complete stage.
type HandResult struct {
	HandNum     int          `json:"handNum"`
	Winners     []WinnerInfo `json:"winners"`
	RevealOrder []string     `json:"revealOrder,omitempty"`
	WonByFold   bool         `json:"wonByFold"`
}

func (t *Table) handPots() []Pot {
	contribs := make([]int, len(t.seats))
	folded := make([]bool, len(t.seats))
	for i, s := range t.seats {
		contribs[i] = s.contributed
		folded[i] = !s.live()
	}
	return buildPots(contribs, folded)
}

// finishByFold ends the hand for the last live seat without any showdown;
// no hole cards are revealed. Lock held.
func (t *Table) finishByFold() {
	var winner int
	for i, s := range t.seats {
		if s.live() {
			winner = i
		}
	}
	pots := t.handPots()
	amount := potTotal(pots)
	t.seats[winner].stack += amount

	t.result = &HandResult{
		HandNum:   t.handNum,
		WonByFold: true,
		Winners: []WinnerInfo{{
			PlayerID: t.seats[winner].player.ID,
			Amount:   amount,
		}},
	}
	t.completeHand()
}

// runShowdown resolves every pot main-first with 7 card evaluation. Ties
// split evenly; remainder chips go to the earliest eligible winner after
// the button. Lock held.
func (t *Table) runShowdown() {
	t.stage = StageShowdown
	pots := t.handPots()

	scores := make(map[int]int16)
	names := make(map[int]string)
	for i, s := range t.seats {
		if !s.live() {
			continue
		}
		s.revealed = true
		score, name := t.evalSeat(i)
		scores[i] = score
		names[i] = name
	}

	won := make(map[int]int)
	for _, pot := range pots {
		var best int16
		var winners []int
		for _, i := range pot.Eligible {
			switch {
			case len(winners) == 0 || scores[i] > best:
				best = scores[i]
				winners = []int{i}
			case scores[i] == best:
				winners = append(winners, i)
			}
		}
		if len(winners) == 0 {
			continue
		}
		// Order winners by distance from the button so odd chips land on
		// the earliest seat after it.
		ordered := t.orderFromDealer(winners)
		share := pot.Amount / len(winners)
		rem := pot.Amount % len(winners)
		for k, i := range ordered {
			amount := share
			if k < rem {
				amount++
			}
			t.seats[i].stack += amount
			won[i] += amount
		}
	}

	result := &HandResult{HandNum: t.handNum}
	for _, i := range t.orderFromDealer(keys(won)) {
		result.Winners = append(result.Winners, WinnerInfo{
			PlayerID:  t.seats[i].player.ID,
			Amount:    won[i],
			HandName:  names[i],
			HoleCards: t.seats[i].hole,
		})
	}
	result.RevealOrder = t.revealOrder()
	t.result = result
	t.completeHand()
}

// revealOrder lists the live seats in showdown order: the last aggressor
// shows first, then clockwise.
func (t *Table) revealOrder() []string {
	start := t.lastAggressor
	if start < 0 || !t.seats[start].live() {
		start = t.nextInHand(t.dealer)
	}
	var out []string
	n := len(t.seats)
	for off := 0; off < n; off++ {
		s := t.seats[(start+off)%n]
		if s.live() {
			out = append(out, s.player.ID)
		}
	}
	return out
}

// orderFromDealer sorts seat indexes clockwise starting left of the button.
func (t *Table) orderFromDealer(idxs []int) []int {
	member := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		member[i] = true
	}
	var out []int
	n := len(t.seats)
	for off := 1; off <= n; off++ {
		j := (t.dealer + off) % n
		if member[j] {
			out = append(out, j)
		}
	}
	return out
}

func keys(m map[int]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// evalSeat scores a live seat's best 5 of 7 cards.
func (t *Table) evalSeat(i int) (int16, string) {
	var hand [7]poker.Card
	cards := append(append([]deck.Card{}, t.community...), t.seats[i].hole...)
	for k, c := range cards {
		pc, err := poker.MakeCard(poker.Suit(c.Suit), poker.Rank(c.Rank))
		if err != nil {
			return 0, ""
		}
		hand[k] = pc
	}
	score := poker.Eval7(&hand)
	name, err := poker.Describe(hand[:])
	if err != nil {
		name = ""
	}
	return score, name
}

// completeHand parks the table on hand_complete. The next hand starts on an
// explicit next_hand (or its timeout injection); the turn pointer moves to
// the first seat after the button so the supervisor has someone to poke.
// Lock held.
func (t *Table) completeHand() {
	t.stage = StageHandComplete
	for _, s := range t.seats {
		s.bet = 0
	}
	if t.eligibleCount() >= 2 {
		t.current = t.nextEligible(t.dealer)
	} else {
		t.current = -1
	}
	t.maybeFinish()
}
