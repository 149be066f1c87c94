package poker

import (
	"encoding/json"

	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/deck"
)

// startHand deals a fresh hand: button advance, hole cards, blinds, first
// actor. Lock held.
func (t *Table) startHand() {
	t.handNum++
	t.result = nil
	t.community = nil
	t.deck = deck.New(t.rng)
	t.stage = StagePreFlop

	for _, s := range t.seats {
		s.hole = nil
		s.bet = 0
		s.contributed = 0
		s.folded = false
		s.allIn = false
		s.acted = false
		s.revealed = false
	}

	t.dealer = t.nextEligible(t.dealer)
	for _, i := range t.handOrder() {
		s := t.seats[i]
		c1, _ := t.deck.Draw()
		c2, _ := t.deck.Draw()
		s.hole = []deck.Card{c1, c2}
	}

	// Heads-up the dealer is the small blind and acts first pre-flop;
	// otherwise blinds sit left of the button and the seat after the big
	// blind opens.
	var sb, bb int
	if t.inHandCount() == 2 {
		sb = t.dealer
		bb = t.nextInHand(t.dealer)
		t.current = sb
	} else {
		sb = t.nextInHand(t.dealer)
		bb = t.nextInHand(sb)
		t.current = t.nextInHand(bb)
	}
	t.pay(t.seats[sb], t.opts.smallBlind)
	t.pay(t.seats[bb], t.opts.bigBlind)
	t.lastRaise = t.opts.bigBlind
	t.lastAggressor = bb

	// A blind that puts a short stack all-in may leave nobody to act.
	if t.seats[t.current].allIn {
		t.resolveAfterAction(t.current)
	}
}

// handOrder lists eligible seats starting left of the dealer.
func (t *Table) handOrder() []int {
	var order []int
	n := len(t.seats)
	for off := 1; off <= n; off++ {
		i := (t.dealer + off) % n
		if t.eligible(t.seats[i]) {
			order = append(order, i)
		}
	}
	return order
}

func (t *Table) inHandCount() int {
	n := 0
	for _, s := range t.seats {
		if s.inHand() {
			n++
		}
	}
	return n
}

func (t *Table) liveCount() int {
	n := 0
	for _, s := range t.seats {
		if s.live() {
			n++
		}
	}
	return n
}

func (t *Table) liveNotAllInCount() int {
	n := 0
	for _, s := range t.seats {
		if s.live() && !s.allIn {
			n++
		}
	}
	return n
}

// nextEligible walks clockwise from i to the next seat that can be dealt.
func (t *Table) nextEligible(i int) int {
	n := len(t.seats)
	for off := 1; off <= n; off++ {
		j := ((i+off)%n + n) % n
		if t.eligible(t.seats[j]) {
			return j
		}
	}
	return 0
}

// nextInHand walks clockwise to the next seat dealt into this hand.
func (t *Table) nextInHand(i int) int {
	n := len(t.seats)
	for off := 1; off <= n; off++ {
		j := (i + off) % n
		if t.seats[j].inHand() {
			return j
		}
	}
	return i
}

// nextActor walks clockwise to the next live seat that still has chips.
func (t *Table) nextActor(i int) int {
	n := len(t.seats)
	for off := 1; off <= n; off++ {
		j := (i + off) % n
		if t.seats[j].live() && !t.seats[j].allIn {
			return j
		}
	}
	return -1
}

// pay moves up to amount from the stack into the seat's street bet.
func (t *Table) pay(s *seat, amount int) int {
	if amount > s.stack {
		amount = s.stack
	}
	s.stack -= amount
	s.bet += amount
	s.contributed += amount
	if s.stack == 0 {
		s.allIn = true
	}
	return amount
}

func (t *Table) highestBet() int {
	max := 0
	for _, s := range t.seats {
		if s.bet > max {
			max = s.bet
		}
	}
	return max
}

// ActionSet describes what the acting player may do, with the amounts the
// client needs to render controls.
type ActionSet struct {
	Actions    []string `json:"actions"`
	CallAmount int      `json:"callAmount,omitempty"`
	MinRaise   int      `json:"minRaise,omitempty"`
	MaxRaise   int      `json:"maxRaise,omitempty"`
}

// allowedActions computes the legal action set for seat i. Raise amounts
// are "to" totals for the street. Lock held.
func (t *Table) allowedActions(i int) ActionSet {
	s := t.seats[i]
	highest := t.highestBet()
	diff := highest - s.bet

	var as ActionSet
	as.Actions = append(as.Actions, "fold")
	if diff > 0 {
		as.Actions = append(as.Actions, "call")
		if diff > s.stack {
			as.CallAmount = s.stack
		} else {
			as.CallAmount = diff
		}
		if s.stack > diff {
			as.Actions = append(as.Actions, "raise")
		}
	} else {
		as.Actions = append(as.Actions, "check")
		if s.stack > 0 {
			as.Actions = append(as.Actions, "bet", "raise")
		}
	}

	maxTo := s.bet + s.stack
	step := t.lastRaise
	if step < t.opts.bigBlind {
		step = t.opts.bigBlind
	}
	minTo := highest + step
	if highest == 0 {
		minTo = t.opts.bigBlind
	}
	if minTo > maxTo {
		minTo = maxTo
	}
	as.MinRaise = minTo
	as.MaxRaise = maxTo
	return as
}

func (t *Table) validateMove(playerID string, raw json.RawMessage) (Move, int, error) {
	var m Move
	if t.status == game.StatusFinished {
		return m, -1, game.ErrRoundClosed
	}
	if t.status != game.StatusInProgress {
		return m, -1, game.Errf(game.CodeIllegalMove, "table has not started")
	}
	i := t.seatIndex(playerID)
	if i < 0 {
		return m, -1, game.ErrNotInGame
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, -1, game.Errf(game.CodeIllegalMove, "bad move payload: %v", err)
	}

	if m.Action == "next_hand" {
		if t.stage != StageHandComplete {
			return m, -1, game.Errf(game.CodeIllegalMove, "the hand is still running")
		}
		if t.eligibleCount() < 2 {
			return m, -1, game.Errf(game.CodeIllegalMove, "waiting for rebuys")
		}
		return m, i, nil
	}

	if !t.betting() {
		return m, -1, game.Errf(game.CodeRoundClosed, "no betting round is open")
	}
	if t.current != i {
		return m, -1, game.ErrNotYourTurn
	}

	s := t.seats[i]
	highest := t.highestBet()
	diff := highest - s.bet
	as := t.allowedActions(i)

	switch m.Action {
	case "fold":
		return m, i, nil
	case "check":
		if diff > 0 {
			return m, -1, game.Errf(game.CodeIllegalMove, "cannot check facing a bet of %d", highest)
		}
		return m, i, nil
	case "call":
		if diff <= 0 {
			return m, -1, game.Errf(game.CodeIllegalMove, "nothing to call")
		}
		return m, i, nil
	case "bet", "raise":
		if s.stack == 0 {
			return m, -1, game.Errf(game.CodeInsufficientStack, "stack is empty")
		}
		if diff > 0 && s.stack <= diff {
			return m, -1, game.Errf(game.CodeInsufficientStack, "not enough chips to raise, call or fold")
		}
		if m.Amount > as.MaxRaise {
			return m, -1, game.Errf(game.CodeInsufficientStack, "raise to %d exceeds stack limit %d", m.Amount, as.MaxRaise)
		}
		if m.Amount <= highest {
			return m, -1, game.Errf(game.CodeIllegalMove, "raise must exceed the current bet of %d", highest)
		}
		// Short raises are only legal as an exact all-in.
		if m.Amount < as.MinRaise && m.Amount != as.MaxRaise {
			return m, -1, game.Errf(game.CodeIllegalMove, "minimum raise is to %d", as.MinRaise)
		}
		return m, i, nil
	default:
		return m, -1, game.Errf(game.CodeIllegalMove, "unknown action %q", m.Action)
	}
}

func (t *Table) ApplyMove(playerID string, raw json.RawMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, i, err := t.validateMove(playerID, raw)
	if err != nil {
		return err
	}

	if m.Action == "next_hand" {
		t.startHand()
		return nil
	}

	s := t.seats[i]
	highest := t.highestBet()

	switch m.Action {
	case "fold":
		s.folded = true
	case "check":
		// nothing moves
	case "call":
		t.pay(s, highest-s.bet)
	case "bet", "raise":
		t.pay(s, m.Amount-s.bet)
		if s.bet > highest {
			t.lastRaise = s.bet - highest
			t.lastAggressor = i
			for j, other := range t.seats {
				if j != i && other.live() && !other.allIn {
					other.acted = false
				}
			}
		}
	}
	s.acted = true

	t.resolveAfterAction(i)
	return nil
}

func (t *Table) IsValidMove(playerID string, raw json.RawMessage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _, err := t.validateMove(playerID, raw)
	return err == nil
}

// resolveAfterAction decides what follows a completed action: a fold win,
// the next street, or the next actor. Lock held.
func (t *Table) resolveAfterAction(i int) {
	if t.liveCount() <= 1 {
		t.finishByFold()
		return
	}
	dealt := false
	for t.streetDone() {
		if t.stage == StageRiver {
			t.runShowdown()
			return
		}
		t.nextStreet()
		dealt = true
	}
	// nextStreet already pointed current at the first seat left of the
	// button; only a street still in progress moves to the next actor.
	if !dealt {
		t.current = t.nextActor(i)
	}
}

// streetDone reports whether every live player is either all-in or has
// acted on a matched bet. With at most one player left holding chips there
// is nobody to bet against, so settled bets close the street and the board
// runs out. Lock held.
func (t *Table) streetDone() bool {
	highest := t.highestBet()
	if t.liveNotAllInCount() <= 1 {
		for _, s := range t.seats {
			if s.live() && !s.allIn && s.bet < highest {
				return false
			}
		}
		return true
	}
	for _, s := range t.seats {
		if !s.live() || s.allIn {
			continue
		}
		if !s.acted || s.bet != highest {
			return false
		}
	}
	return true
}

// nextStreet burns and deals the next board cards and resets the betting
// round. Lock held.
func (t *Table) nextStreet() {
	for _, s := range t.seats {
		s.bet = 0
		s.acted = false
	}
	t.lastRaise = 0

	t.deck.Burn()
	switch t.stage {
	case StagePreFlop:
		t.stage = StageFlop
		for k := 0; k < 3; k++ {
			c, _ := t.deck.Draw()
			t.community = append(t.community, c)
		}
	case StageFlop:
		t.stage = StageTurn
		c, _ := t.deck.Draw()
		t.community = append(t.community, c)
	case StageTurn:
		t.stage = StageRiver
		c, _ := t.deck.Draw()
		t.community = append(t.community, c)
	}

	// Post-flop the first live seat left of the button opens.
	t.current = t.nextActor(t.dealer)
}
