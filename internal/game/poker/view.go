package poker

import (
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/deck"
)

// SeatView is one seat as a given viewer sees it. Live hole cards are only
// ever serialized for their owner; other seats show them after a showdown
// reveal or not at all.
type SeatView struct {
	PlayerID   string      `json:"playerId"`
	Name       string      `json:"name"`
	Stack      int         `json:"stack"`
	Bet        int         `json:"bet"`
	Contrib    int         `json:"contributed"`
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"allIn"`
	SittingOut bool        `json:"sittingOut"`
	NeedsBuyIn bool        `json:"needsBuyIn"`
	IsDealer   bool        `json:"isDealer"`
	IsTurn     bool        `json:"isTurn"`
	HasCards   bool        `json:"hasCards"`
	HoleCards  []deck.Card `json:"holeCards,omitempty"`
}

type PotView struct {
	Amount  int      `json:"amount"`
	Players []string `json:"players"`
}

type View struct {
	game.State
	Stage      Stage       `json:"stage"`
	Community  []deck.Card `json:"community"`
	Pots       []PotView   `json:"pots"`
	Seats      []SeatView  `json:"seats"`
	DealerID   string      `json:"dealerId,omitempty"`
	SmallBlind int         `json:"smallBlind"`
	BigBlind   int         `json:"bigBlind"`
	MinBuyIn   int         `json:"minBuyIn"`
	MaxBuyIn   int         `json:"maxBuyIn"`
	YourTurn   bool        `json:"yourTurn"`
	Allowed    *ActionSet  `json:"allowed,omitempty"`
	Result     *HandResult `json:"result,omitempty"`
}

func (t *Table) ViewFor(playerID string) any {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := View{
		State:      t.snapshot(),
		Stage:      t.stage,
		Community:  t.community,
		SmallBlind: t.opts.smallBlind,
		BigBlind:   t.opts.bigBlind,
		MinBuyIn:   t.opts.minBuyIn,
		MaxBuyIn:   t.opts.maxBuyIn,
		Result:     t.result,
	}
	if t.dealer >= 0 && t.dealer < len(t.seats) {
		v.DealerID = t.seats[t.dealer].player.ID
	}

	// Pots only exist while money is in the middle; after the hand the
	// chips are back in stacks and the result carries the breakdown.
	if t.betting() {
		for _, pot := range t.handPots() {
			pv := PotView{Amount: pot.Amount}
			for _, i := range pot.Eligible {
				pv.Players = append(pv.Players, t.seats[i].player.ID)
			}
			v.Pots = append(v.Pots, pv)
		}
	}

	for i, s := range t.seats {
		sv := SeatView{
			PlayerID:   s.player.ID,
			Name:       s.player.Name,
			Stack:      s.stack,
			Bet:        s.bet,
			Contrib:    s.contributed,
			Folded:     s.folded,
			AllIn:      s.allIn,
			SittingOut: s.sittingOut,
			NeedsBuyIn: !s.boughtIn,
			IsDealer:   i == t.dealer,
			IsTurn:     i == t.current,
			HasCards:   s.live(),
		}
		if s.player.ID == playerID || s.revealed {
			sv.HoleCards = s.hole
		}
		v.Seats = append(v.Seats, sv)
	}

	if t.current >= 0 && t.betting() && t.seats[t.current].player.ID == playerID {
		v.YourTurn = true
		as := t.allowedActions(t.current)
		v.Allowed = &as
	}
	return v
}
