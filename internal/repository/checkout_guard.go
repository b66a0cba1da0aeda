package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CheckoutGuard serializes order placement per cart owner so a cart cannot be
// submitted twice while the first placement is still running.
type CheckoutGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type redisCheckoutGuard struct {
	client redis.UniversalClient
	prefix string
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

// NewCheckoutGuard returns a Redis SET NX based guard.
func NewCheckoutGuard(client redis.UniversalClient) CheckoutGuard {
	return &redisCheckoutGuard{client: client, prefix: "checkout:lock:"}
}

func (g *redisCheckoutGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	redisKey := g.prefix + key
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "acquire checkout lock")
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, g.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return errors.Wrap(err, "release checkout lock")
		}
		return nil
	}
	return release, true, nil
}
