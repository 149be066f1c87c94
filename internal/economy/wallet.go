// Package economy holds the coin ledger backing poker buy-ins. The game
// server never owns balances; it withdraws on buy-in and deposits on
// cash-out, and a failed withdrawal must leave both the wallet and the
// table stack untouched.
package economy

import (
	"context"
	"errors"
	"sync"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Wallet interface {
	Balance(ctx context.Context, playerID string) (int, error)
	Deposit(ctx context.Context, playerID string, amount int) error
	// Withdraw atomically debits amount, returning ErrInsufficientFunds
	// (and changing nothing) when the balance is too small.
	Withdraw(ctx context.Context, playerID string, amount int) error
}

// MemoryWallet is the in-process ledger used in dev mode and tests. Every
// player starts at the configured balance on first touch.
type MemoryWallet struct {
	mu       sync.Mutex
	starting int
	balances map[string]int
}

func NewMemoryWallet(startingBalance int) *MemoryWallet {
	return &MemoryWallet{
		starting: startingBalance,
		balances: make(map[string]int),
	}
}

func (w *MemoryWallet) balance(playerID string) int {
	if _, ok := w.balances[playerID]; !ok {
		w.balances[playerID] = w.starting
	}
	return w.balances[playerID]
}

func (w *MemoryWallet) Balance(_ context.Context, playerID string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance(playerID), nil
}

func (w *MemoryWallet) Deposit(_ context.Context, playerID string, amount int) error {
	if amount < 0 {
		return errors.New("negative deposit")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[playerID] = w.balance(playerID) + amount
	return nil
}

func (w *MemoryWallet) Withdraw(_ context.Context, playerID string, amount int) error {
	if amount < 0 {
		return errors.New("negative withdrawal")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	bal := w.balance(playerID)
	if bal < amount {
		return ErrInsufficientFunds
	}
	w.balances[playerID] = bal - amount
	return nil
}
