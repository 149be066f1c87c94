package poker

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/MmmDelicious/lovememory-gameserver/internal/economy"
	"github.com/MmmDelicious/lovememory-gameserver/internal/game"
)

func newTable(t *testing.T, seed int64, buyIns map[string]int) (*Table, *economy.MemoryWallet) {
	t.Helper()
	wallet := economy.NewMemoryWallet(5000)
	g, err := New(game.Config{
		RoomID: "r1",
		Options: game.Options{
			SmallBlind: 10,
			BigBlind:   20,
			MinBuyIn:   400,
			MaxBuyIn:   2000,
		},
		Wallet: wallet,
		Rand:   rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tb := g.(*Table)

	ctx := context.Background()
	for _, id := range orderedIDs(buyIns) {
		if err := tb.AddPlayer(game.Player{ID: id, Name: id}); err != nil {
			t.Fatalf("seat %s: %v", id, err)
		}
		if err := tb.BuyIn(ctx, id, buyIns[id]); err != nil {
			t.Fatalf("buy in %s: %v", id, err)
		}
	}
	for _, id := range orderedIDs(buyIns) {
		if err := tb.SetReady(id, true); err != nil {
			t.Fatalf("ready %s: %v", id, err)
		}
	}
	if tb.State().Status != game.StatusInProgress {
		t.Fatalf("expected the table to start, got %s", tb.State().Status)
	}
	return tb, wallet
}

// orderedIDs keeps seating deterministic: p1, p2, p3...
func orderedIDs(buyIns map[string]int) []string {
	ids := []string{"p1", "p2", "p3", "p4"}
	var out []string
	for _, id := range ids {
		if _, ok := buyIns[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func action(a string, amount int) json.RawMessage {
	raw, _ := json.Marshal(Move{Action: a, Amount: amount})
	return raw
}

func chipSum(tb *Table) int {
	sum := 0
	for _, s := range tb.seats {
		sum += s.stack + s.contributed
	}
	return sum
}

func TestHeadsUpDealerIsSmallBlindAndActsFirst(t *testing.T) {
	tb, _ := newTable(t, 1, map[string]int{"p1": 1000, "p2": 1000})

	if tb.dealer != 0 {
		t.Fatalf("expected seat 0 on the button, got %d", tb.dealer)
	}
	if tb.seats[0].bet != 10 || tb.seats[1].bet != 20 {
		t.Fatalf("heads-up button must post the small blind, got %d/%d", tb.seats[0].bet, tb.seats[1].bet)
	}
	if got := tb.State().CurrentPlayerID; got != "p1" {
		t.Fatalf("heads-up button acts first pre-flop, got %s", got)
	}
}

// Two players, 1000 each, both all-in pre-flop: after the showdown the
// chips add up to exactly 2000 and every chip went to the winners.
func TestHeadsUpAllInRunout(t *testing.T) {
	tb, _ := newTable(t, 2, map[string]int{"p1": 1000, "p2": 1000})

	if err := tb.ApplyMove("p1", action("raise", 1000)); err != nil {
		t.Fatalf("p1 shove: %v", err)
	}
	if err := tb.ApplyMove("p2", action("call", 0)); err != nil {
		t.Fatalf("p2 call: %v", err)
	}

	if tb.stage != StageHandComplete {
		t.Fatalf("all-in call must run the board out, got stage %s", tb.stage)
	}
	if len(tb.community) != 5 {
		t.Fatalf("expected a full board, got %d cards", len(tb.community))
	}
	if tb.result == nil || tb.result.WonByFold {
		t.Fatalf("expected a showdown result, got %+v", tb.result)
	}

	total, awarded := 0, 0
	for _, s := range tb.seats {
		total += s.stack
	}
	for _, w := range tb.result.Winners {
		awarded += w.Amount
		if len(w.HoleCards) != 2 || w.HandName == "" {
			t.Fatalf("showdown winner must reveal cards and hand name: %+v", w)
		}
	}
	if total != 2000 {
		t.Fatalf("chip conservation broken: stacks sum to %d", total)
	}
	if awarded != 2000 {
		t.Fatalf("expected 2000 awarded, got %d", awarded)
	}
	if len(tb.result.Winners) == 1 && tb.result.Winners[0].Amount != 2000 {
		t.Fatalf("single winner must take the full pot, got %d", tb.result.Winners[0].Amount)
	}
}

// Three-handed called pre-flop: post-flop action must open with the small
// blind, the first live seat left of the button, not the seat after the
// player who closed the previous street.
func TestSmallBlindOpensPostFlop(t *testing.T) {
	tb, _ := newTable(t, 21, map[string]int{"p1": 1000, "p2": 1000, "p3": 1000})

	// Seats: p1 button, p2 SB, p3 BB; p1 opens pre-flop.
	if err := tb.ApplyMove("p1", action("call", 0)); err != nil {
		t.Fatalf("p1 call: %v", err)
	}
	if err := tb.ApplyMove("p2", action("call", 0)); err != nil {
		t.Fatalf("p2 call: %v", err)
	}
	if err := tb.ApplyMove("p3", action("check", 0)); err != nil {
		t.Fatalf("p3 check: %v", err)
	}

	if tb.stage != StageFlop {
		t.Fatalf("expected the flop, got %s", tb.stage)
	}
	if got := tb.State().CurrentPlayerID; got != "p2" {
		t.Fatalf("the small blind opens post-flop, got %s", got)
	}

	// A checked flop hands the turn back to the small blind too.
	for _, id := range []string{"p2", "p3", "p1"} {
		if err := tb.ApplyMove(id, action("check", 0)); err != nil {
			t.Fatalf("%s check: %v", id, err)
		}
	}
	if tb.stage != StageTurn {
		t.Fatalf("expected the turn, got %s", tb.stage)
	}
	if got := tb.State().CurrentPlayerID; got != "p2" {
		t.Fatalf("the small blind opens the turn, got %s", got)
	}
}

// Heads-up the button acts first pre-flop but the big blind acts first on
// every later street.
func TestHeadsUpBigBlindOpensPostFlop(t *testing.T) {
	tb, _ := newTable(t, 22, map[string]int{"p1": 1000, "p2": 1000})

	if err := tb.ApplyMove("p1", action("call", 0)); err != nil {
		t.Fatalf("p1 limp: %v", err)
	}
	if err := tb.ApplyMove("p2", action("check", 0)); err != nil {
		t.Fatalf("p2 check: %v", err)
	}

	if tb.stage != StageFlop {
		t.Fatalf("expected the flop, got %s", tb.stage)
	}
	if got := tb.State().CurrentPlayerID; got != "p2" {
		t.Fatalf("heads-up the big blind opens post-flop, got %s", got)
	}
}

func TestMinRaiseIsPreviousRaiseSize(t *testing.T) {
	tb, _ := newTable(t, 3, map[string]int{"p1": 1000, "p2": 1000})

	// p1 raises 20 -> 60, a raise of 40. The next raise must be to 100+.
	if err := tb.ApplyMove("p1", action("raise", 60)); err != nil {
		t.Fatalf("open raise: %v", err)
	}
	err := tb.ApplyMove("p2", action("raise", 90))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("short raise must be rejected, got %v", err)
	}
	if err := tb.ApplyMove("p2", action("raise", 100)); err != nil {
		t.Fatalf("min raise to 100: %v", err)
	}
}

func TestCheckFacingBetRejected(t *testing.T) {
	tb, _ := newTable(t, 4, map[string]int{"p1": 1000, "p2": 1000})

	if err := tb.ApplyMove("p1", action("raise", 60)); err != nil {
		t.Fatalf("raise: %v", err)
	}
	err := tb.ApplyMove("p2", action("check", 0))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("expected illegal_move, got %v", err)
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	tb, _ := newTable(t, 5, map[string]int{"p1": 1000, "p2": 1000})
	before := chipSum(tb)

	err := tb.ApplyMove("p2", action("call", 0))
	if !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("expected not_your_turn, got %v", err)
	}
	if chipSum(tb) != before {
		t.Fatal("rejected move must not move chips")
	}
}

// Three stacks shove: 1000/600/400 builds a main pot and two side pots,
// every chip in exactly one, and the shortest stack can only win the main.
func TestThreeWayAllInSidePots(t *testing.T) {
	tb, _ := newTable(t, 6, map[string]int{"p1": 1000, "p2": 600, "p3": 400})

	// Seats: p1 button, p2 SB, p3 BB; p1 opens.
	if err := tb.ApplyMove("p1", action("raise", 1000)); err != nil {
		t.Fatalf("p1 shove: %v", err)
	}
	if err := tb.ApplyMove("p2", action("call", 0)); err != nil {
		t.Fatalf("p2 call: %v", err)
	}

	// Pots are layered before p3's call: peek at the partition.
	if err := tb.ApplyMove("p3", action("call", 0)); err != nil {
		t.Fatalf("p3 call: %v", err)
	}

	pots := buildPots([]int{1000, 600, 400}, []bool{false, false, false})
	want := []Pot{
		{Amount: 1200, Eligible: []int{0, 1, 2}},
		{Amount: 400, Eligible: []int{0, 1}},
		{Amount: 400, Eligible: []int{0}},
	}
	checkPots(t, pots, want)

	if tb.stage != StageHandComplete {
		t.Fatalf("expected the board to run out, got %s", tb.stage)
	}
	total := 0
	for _, s := range tb.seats {
		total += s.stack
	}
	if total != 2000 {
		t.Fatalf("chip conservation broken: stacks sum to %d", total)
	}
}

func TestFoldEndsHandWithoutReveal(t *testing.T) {
	tb, _ := newTable(t, 7, map[string]int{"p1": 1000, "p2": 1000})

	if err := tb.ApplyMove("p1", action("fold", 0)); err != nil {
		t.Fatalf("fold: %v", err)
	}
	if tb.result == nil || !tb.result.WonByFold {
		t.Fatalf("expected a fold win, got %+v", tb.result)
	}
	w := tb.result.Winners[0]
	if w.PlayerID != "p2" || w.Amount != 30 {
		t.Fatalf("p2 should collect the blinds (30), got %+v", w)
	}
	if len(w.HoleCards) != 0 {
		t.Fatal("a fold win must not reveal hole cards")
	}
	if tb.seats[1].stack != 1010 || tb.seats[0].stack != 990 {
		t.Fatalf("bad stacks after fold: %d/%d", tb.seats[0].stack, tb.seats[1].stack)
	}
}

func TestOpponentHoleCardsRedacted(t *testing.T) {
	tb, _ := newTable(t, 8, map[string]int{"p1": 1000, "p2": 1000})

	v := tb.ViewFor("p1").(View)
	for _, sv := range v.Seats {
		switch sv.PlayerID {
		case "p1":
			if len(sv.HoleCards) != 2 {
				t.Fatal("viewer must see their own hole cards")
			}
		default:
			if len(sv.HoleCards) != 0 {
				t.Fatal("opponent hole cards leaked")
			}
			if !sv.HasCards {
				t.Fatal("opponents should still show card backs")
			}
		}
	}
	if !v.YourTurn || v.Allowed == nil {
		t.Fatalf("acting viewer needs the allowed action set, got %+v", v.Allowed)
	}
}

func TestBuyInFailureLeavesStackUntouched(t *testing.T) {
	wallet := economy.NewMemoryWallet(500)
	g, err := New(game.Config{
		RoomID:  "r1",
		Options: game.Options{SmallBlind: 10, BigBlind: 20, MinBuyIn: 400, MaxBuyIn: 2000},
		Wallet:  wallet,
		Rand:    rand.New(rand.NewSource(9)),
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	tb := g.(*Table)
	ctx := context.Background()
	if err := tb.AddPlayer(game.Player{ID: "p1"}); err != nil {
		t.Fatalf("seat: %v", err)
	}

	err = tb.BuyIn(ctx, "p1", 1000)
	if !errors.Is(err, game.ErrInsufficientStack) {
		t.Fatalf("expected insufficient_stack, got %v", err)
	}
	if tb.seats[0].stack != 0 {
		t.Fatalf("failed buy-in must not grant chips, got %d", tb.seats[0].stack)
	}
	if bal, _ := wallet.Balance(ctx, "p1"); bal != 500 {
		t.Fatalf("failed buy-in must not debit the wallet, got %d", bal)
	}
}

func TestRebuyOnlyBetweenHands(t *testing.T) {
	tb, _ := newTable(t, 10, map[string]int{"p1": 1000, "p2": 1000})
	ctx := context.Background()

	err := tb.Rebuy(ctx, "p1", 500)
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("mid-hand rebuy must fail, got %v", err)
	}

	// Bust p1, then rebuy and deal again.
	if err := tb.ApplyMove("p1", action("raise", 1000)); err != nil {
		t.Fatalf("shove: %v", err)
	}
	if err := tb.ApplyMove("p2", action("call", 0)); err != nil {
		t.Fatalf("call: %v", err)
	}
	loser := tb.seats[0]
	if loser.stack > 0 {
		loser = tb.seats[1]
	}
	if err := tb.Rebuy(ctx, loser.player.ID, 1000); err != nil {
		t.Fatalf("rebuy between hands: %v", err)
	}
	if loser.stack != 1000 {
		t.Fatalf("expected rebuilt stack 1000, got %d", loser.stack)
	}

	current := tb.State().CurrentPlayerID
	if current == "" {
		t.Fatal("hand_complete with two funded seats needs a turn holder")
	}
	if err := tb.ApplyMove(current, action("next_hand", 0)); err != nil {
		t.Fatalf("next hand: %v", err)
	}
	if tb.stage != StagePreFlop {
		t.Fatalf("expected a fresh pre-flop, got %s", tb.stage)
	}
	if tb.handNum != 2 {
		t.Fatalf("expected hand 2, got %d", tb.handNum)
	}
}

func TestTimeoutFoldsCurrentPlayer(t *testing.T) {
	tb, _ := newTable(t, 11, map[string]int{"p1": 1000, "p2": 1000})

	raw, ok := tb.TimeoutMove("p1")
	if !ok {
		t.Fatal("expected a timeout move")
	}
	if err := tb.ApplyMove("p1", raw); err != nil {
		t.Fatalf("timeout fold: %v", err)
	}
	if tb.result == nil || !tb.result.WonByFold || tb.result.Winners[0].PlayerID != "p2" {
		t.Fatalf("timeout must fold the stalled player, got %+v", tb.result)
	}
}

func TestCashOutReturnsChipsToWallet(t *testing.T) {
	tb, wallet := newTable(t, 12, map[string]int{"p1": 1000, "p2": 1000})
	ctx := context.Background()

	// Finish the first hand by folding, then cash p1 out.
	if err := tb.ApplyMove("p1", action("fold", 0)); err != nil {
		t.Fatalf("fold: %v", err)
	}
	amount, err := tb.CashOut(ctx, "p1")
	if err != nil {
		t.Fatalf("cash out: %v", err)
	}
	if amount != 990 {
		t.Fatalf("expected to cash out 990, got %d", amount)
	}
	bal, _ := wallet.Balance(ctx, "p1")
	if bal != 5000-1000+990 {
		t.Fatalf("wallet should hold 4990, got %d", bal)
	}
	if tb.State().Status != game.StatusFinished {
		t.Fatal("one seated player left, the table should finish")
	}
	if tb.State().Winner != "p2" {
		t.Fatalf("expected p2 to remain, got %q", tb.State().Winner)
	}
}

func TestWrongPlayerCountAtCreation(t *testing.T) {
	players := make([]game.Player, maxSeats+1)
	for i := range players {
		players[i] = game.Player{ID: string(rune('a' + i))}
	}
	_, err := New(game.Config{
		RoomID:  "r1",
		Players: players,
		Wallet:  economy.NewMemoryWallet(0),
	})
	if !errors.Is(err, game.ErrWrongPlayerCount) {
		t.Fatalf("expected wrong_player_count, got %v", err)
	}
}
