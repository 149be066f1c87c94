// Package poker is the authoritative Texas Hold'em cash table: buy-ins
// against the coin wallet, blinds, street-by-street betting with side pots
// and an evaluated showdown.
package poker

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/MmmDelicious/lovememory-gameserver/internal/economy"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game/deck"
)

type Stage string

const (
	StageWaitingBuyIn Stage = "waiting_for_buyin"
	StagePreFlop      Stage = "pre-flop"
	StageFlop         Stage = "flop"
	StageTurn         Stage = "turn"
	StageRiver        Stage = "river"
	StageShowdown     Stage = "showdown"
	StageHandComplete Stage = "hand_complete"
)

const (
	maxSeats          = 9
	defaultSmallBlind = 10
	defaultBigBlind   = 20
)

type Move struct {
	Action string `json:"action"` // fold, check, call, bet, raise, next_hand
	Amount int    `json:"amount,omitempty"`
}

type settings struct {
	smallBlind int
	bigBlind   int
	minBuyIn   int
	maxBuyIn   int
}

type seat struct {
	player      game.Player
	stack       int
	hole        []deck.Card
	bet         int // chips committed this street
	contributed int // chips committed this hand
	folded      bool
	allIn       bool
	acted       bool
	boughtIn    bool
	sittingOut  bool
	revealed    bool
}

// inHand reports whether the seat was dealt into the running hand.
func (s *seat) inHand() bool { return len(s.hole) > 0 }

func (s *seat) live() bool { return s.inHand() && !s.folded }

type Table struct {
	mu sync.Mutex

	roomID string
	opts   settings
	wallet economy.Wallet
	rng    *rand.Rand

	status game.Status
	stage  Stage
	seats  []*seat

	deck      *deck.Deck
	community []deck.Card

	dealer        int
	current       int // seat index, -1 when nobody acts
	lastRaise     int
	lastAggressor int

	handNum int
	result  *HandResult

	winner     string
	createdAt  time.Time
	finishedAt time.Time
}

func New(cfg game.Config) (game.Game, error) {
	if len(cfg.Players) > maxSeats {
		return nil, game.Errf(game.CodeWrongPlayerCount, "poker seats at most %d players, got %d", maxSeats, len(cfg.Players))
	}
	if cfg.Wallet == nil {
		return nil, game.Errf(game.CodeIllegalMove, "poker needs a wallet")
	}

	opts := settings{
		smallBlind: cfg.Options.SmallBlind,
		bigBlind:   cfg.Options.BigBlind,
		minBuyIn:   cfg.Options.MinBuyIn,
		maxBuyIn:   cfg.Options.MaxBuyIn,
	}
	if opts.smallBlind <= 0 {
		opts.smallBlind = defaultSmallBlind
	}
	if opts.bigBlind <= 0 {
		opts.bigBlind = 2 * opts.smallBlind
	}
	if opts.minBuyIn <= 0 {
		opts.minBuyIn = 20 * opts.bigBlind
	}
	if opts.maxBuyIn <= 0 {
		opts.maxBuyIn = 100 * opts.bigBlind
	}

	t := &Table{
		roomID:        cfg.RoomID,
		opts:          opts,
		wallet:        cfg.Wallet,
		rng:           cfg.RNG(),
		status:        game.StatusWaiting,
		stage:         StageWaitingBuyIn,
		dealer:        -1,
		current:       -1,
		lastAggressor: -1,
		createdAt:     time.Now(),
	}
	for _, p := range cfg.Players {
		if err := t.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) Type() game.Type { return game.TypePoker }

func (t *Table) AddPlayer(p game.Player) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.seats {
		if s.player.ID == p.ID {
			if p.Name != "" {
				s.player.Name = p.Name
			}
			return nil
		}
	}
	if t.status != game.StatusWaiting {
		return game.Errf(game.CodeGameFull, "hand in progress, no late seating")
	}
	if len(t.seats) >= maxSeats {
		return game.ErrGameFull
	}
	t.seats = append(t.seats, &seat{player: p})
	return nil
}

// RemovePlayer cashes the seat out. Mid-hand the seat folds first; its
// chips already in the pot stay there.
func (t *Table) RemovePlayer(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndex(playerID)
	if idx < 0 {
		return game.ErrNotInGame
	}
	s := t.seats[idx]

	if t.status == game.StatusWaiting {
		t.refund(s)
		t.seats = append(t.seats[:idx], t.seats[idx+1:]...)
		return nil
	}

	wasLive := s.live() && t.betting()
	s.folded = true
	s.sittingOut = true
	t.refund(s)

	if wasLive {
		t.resolveAfterAction(idx)
	}
	t.maybeFinish()
	return nil
}

// refund deposits the remaining stack back to the wallet.
func (t *Table) refund(s *seat) {
	if s.stack > 0 {
		_ = t.wallet.Deposit(context.Background(), s.player.ID, s.stack)
		s.stack = 0
	}
	s.boughtIn = false
}

func (t *Table) SetReady(playerID string, ready bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndex(playerID)
	if idx < 0 {
		return game.ErrNotInGame
	}
	t.seats[idx].player.Ready = ready
	t.maybeStart()
	return nil
}

// BuyIn converts wallet coins into table chips. The withdrawal happens
// first; a failed withdrawal leaves the stack untouched.
func (t *Table) BuyIn(ctx context.Context, playerID string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndex(playerID)
	if idx < 0 {
		return game.ErrNotInGame
	}
	s := t.seats[idx]
	if s.boughtIn {
		return game.Errf(game.CodeIllegalMove, "already bought in, use rebuy")
	}
	if amount < t.opts.minBuyIn || amount > t.opts.maxBuyIn {
		return game.Errf(game.CodeIllegalMove, "buy-in must be %d-%d, got %d", t.opts.minBuyIn, t.opts.maxBuyIn, amount)
	}
	if err := t.withdraw(ctx, playerID, amount); err != nil {
		return err
	}
	s.stack = amount
	s.boughtIn = true
	s.sittingOut = false
	t.maybeStart()
	t.wakeIdleTable()
	return nil
}

// Rebuy tops a busted or short stack up between hands.
func (t *Table) Rebuy(ctx context.Context, playerID string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndex(playerID)
	if idx < 0 {
		return game.ErrNotInGame
	}
	s := t.seats[idx]
	if !s.boughtIn {
		return game.Errf(game.CodeIllegalMove, "buy in first")
	}
	if t.betting() || t.stage == StageShowdown {
		return game.Errf(game.CodeIllegalMove, "rebuy only between hands")
	}
	if amount <= 0 || s.stack+amount > t.opts.maxBuyIn {
		return game.Errf(game.CodeIllegalMove, "rebuy of %d would exceed the %d cap", amount, t.opts.maxBuyIn)
	}
	if err := t.withdraw(ctx, playerID, amount); err != nil {
		return err
	}
	s.stack += amount
	s.sittingOut = false
	t.wakeIdleTable()
	return nil
}

// wakeIdleTable hands the turn pointer back out when fresh chips make the
// next deal possible on a parked hand_complete stage. Lock held.
func (t *Table) wakeIdleTable() {
	if t.status == game.StatusInProgress && t.stage == StageHandComplete &&
		t.current < 0 && t.eligibleCount() >= 2 {
		t.current = t.nextEligible(t.dealer)
	}
}

// CashOut returns the stack to the wallet and sits the player out of
// future deals. Only between hands; the seat stays for reconnects.
func (t *Table) CashOut(ctx context.Context, playerID string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndex(playerID)
	if idx < 0 {
		return 0, game.ErrNotInGame
	}
	if t.betting() || t.stage == StageShowdown {
		return 0, game.Errf(game.CodeIllegalMove, "cash out only between hands")
	}
	s := t.seats[idx]
	amount := s.stack
	if amount > 0 {
		if err := t.wallet.Deposit(ctx, playerID, amount); err != nil {
			return 0, err
		}
	}
	s.stack = 0
	s.boughtIn = false
	s.sittingOut = true
	t.maybeFinish()
	return amount, nil
}

func (t *Table) withdraw(ctx context.Context, playerID string, amount int) error {
	if err := t.wallet.Withdraw(ctx, playerID, amount); err != nil {
		if err == economy.ErrInsufficientFunds {
			return game.Errf(game.CodeInsufficientStack, "wallet balance below %d", amount)
		}
		return err
	}
	return nil
}

func (t *Table) seatIndex(playerID string) int {
	for i, s := range t.seats {
		if s.player.ID == playerID {
			return i
		}
	}
	return -1
}

func (t *Table) betting() bool {
	switch t.stage {
	case StagePreFlop, StageFlop, StageTurn, StageRiver:
		return true
	}
	return false
}

// eligible reports whether the seat can be dealt the next hand.
func (t *Table) eligible(s *seat) bool {
	return s.boughtIn && !s.sittingOut && s.stack > 0
}

func (t *Table) eligibleCount() int {
	n := 0
	for _, s := range t.seats {
		if t.eligible(s) {
			n++
		}
	}
	return n
}

func (t *Table) seatedCount() int {
	n := 0
	for _, s := range t.seats {
		if !s.sittingOut {
			n++
		}
	}
	return n
}

// maybeStart begins play once at least two players are seated and every
// seated player is ready and bought in. Lock held.
func (t *Table) maybeStart() {
	if t.status != game.StatusWaiting || len(t.seats) < 2 {
		return
	}
	for _, s := range t.seats {
		if !s.player.Ready || !s.boughtIn {
			return
		}
	}
	t.status = game.StatusInProgress
	t.startHand()
}

// maybeFinish ends the table when fewer than two players remain seated
// outside a hand. Lock held.
func (t *Table) maybeFinish() {
	if t.status != game.StatusInProgress || t.betting() || t.stage == StageShowdown {
		return
	}
	if t.seatedCount() >= 2 {
		return
	}
	var last *seat
	for _, s := range t.seats {
		if !s.sittingOut {
			last = s
		}
	}
	t.status = game.StatusFinished
	t.finishedAt = time.Now()
	t.current = -1
	if last != nil {
		t.winner = last.player.ID
	}
}

func (t *Table) State() game.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Table) snapshot() game.State {
	players := make([]game.Player, 0, len(t.seats))
	for _, s := range t.seats {
		players = append(players, s.player)
	}
	st := game.State{
		RoomID:     t.roomID,
		GameType:   game.TypePoker,
		Status:     t.status,
		Players:    players,
		Winner:     t.winner,
		CreatedAt:  t.createdAt,
		FinishedAt: t.finishedAt,
	}
	if t.current >= 0 {
		st.CurrentPlayerID = t.seats[t.current].player.ID
	}
	return st
}

func (t *Table) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Chips left on a torn down table go back to their owners.
	for _, s := range t.seats {
		t.refund(s)
	}
}

// TimeoutMove folds the stalled player mid-hand and deals the next hand
// when the table idles on a finished one.
func (t *Table) TimeoutMove(playerID string) (json.RawMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != game.StatusInProgress || t.current < 0 {
		return nil, false
	}
	if t.seats[t.current].player.ID != playerID {
		return nil, false
	}
	var m Move
	switch {
	case t.betting():
		m = Move{Action: "fold"}
	case t.stage == StageHandComplete:
		m = Move{Action: "next_hand"}
	default:
		return nil, false
	}
	raw, _ := json.Marshal(m)
	return raw, true
}
