package economy

import (
	"context"
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// withdrawScript checks and debits in one round trip so two concurrent
// buy-ins cannot both pass the balance check. A missing key is initialized
// to the starting balance first.
var withdrawScript = redis.NewScript(1, `
local bal = redis.call('GET', KEYS[1])
if not bal then
	bal = ARGV[2]
	redis.call('SET', KEYS[1], bal)
end
bal = tonumber(bal)
local amount = tonumber(ARGV[1])
if bal < amount then
	return -1
end
return redis.call('DECRBY', KEYS[1], amount)
`)

// RedisWallet keeps balances in Redis under <prefix>:<playerID>.
type RedisWallet struct {
	pool     *redis.Pool
	prefix   string
	starting int
}

func NewRedisWallet(addr string, startingBalance int) *RedisWallet {
	return &RedisWallet{
		pool: &redis.Pool{
			MaxIdle:   8,
			MaxActive: 64,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr)
			},
		},
		prefix:   "wallet",
		starting: startingBalance,
	}
}

func (w *RedisWallet) key(playerID string) string {
	return w.prefix + ":" + playerID
}

func (w *RedisWallet) Balance(ctx context.Context, playerID string) (int, error) {
	conn, err := w.pool.GetContext(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	bal, err := redis.Int(conn.Do("GET", w.key(playerID)))
	if err == redis.ErrNil {
		return w.starting, nil
	}
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return bal, nil
}

func (w *RedisWallet) Deposit(ctx context.Context, playerID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative deposit")
	}
	conn, err := w.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// SETNX seeds the starting balance so a deposit to a fresh player
	// does not skip the signup grant.
	if _, err := conn.Do("SETNX", w.key(playerID), w.starting); err != nil {
		return fmt.Errorf("wallet deposit: %w", err)
	}
	if _, err := conn.Do("INCRBY", w.key(playerID), amount); err != nil {
		return fmt.Errorf("wallet deposit: %w", err)
	}
	return nil
}

func (w *RedisWallet) Withdraw(ctx context.Context, playerID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative withdrawal")
	}
	conn, err := w.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rest, err := redis.Int(withdrawScript.Do(conn, w.key(playerID), amount, w.starting))
	if err != nil {
		return fmt.Errorf("wallet withdraw: %w", err)
	}
	if rest < 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (w *RedisWallet) Close() error {
	return w.pool.Close()
}
