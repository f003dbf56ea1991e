// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rapidaai/pbx-admin/pkg/commons"
)

// ErrNotAcquired is returned when the lock is held elsewhere and the wait
// budget is exhausted. Handlers map this to HTTP 409.
var ErrNotAcquired = errors.New("lock not acquired")

const acquireRetryInterval = 100 * time.Millisecond

// releaseLuaScript deletes the lock key only when it still carries this
// holder's token, so an expired-and-reacquired lock is never released by
// the previous holder.
var releaseLuaScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Locker hands out named distributed mutexes over redis. Mutual exclusion
// holds across all server instances sharing the redis database.
type Locker interface {
	// Acquire blocks up to wait for the named lock, holding it for at most
	// ttl. Returns ErrNotAcquired when the wait budget runs out.
	Acquire(ctx context.Context, name string, ttl, wait time.Duration) (*Lock, error)
}

// Lock is a held mutex. Release it when the guarded section completes;
// the TTL bounds the damage if the holder crashes first.
type Lock struct {
	client *redis.Client
	logger commons.Logger
	key    string
	token  string
}

type redisLocker struct {
	client *redis.Client
	logger commons.Logger
}

func NewLocker(client *redis.Client, logger commons.Logger) Locker {
	return &redisLocker{client: client, logger: logger}
}

func (l *redisLocker) Acquire(ctx context.Context, name string, ttl, wait time.Duration) (*Lock, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, name, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("unable to acquire lock %s: %w", name, err)
		}
		if ok {
			l.logger.Debugw("acquired lock", "key", name, "ttl", ttl)
			return &Lock{client: l.client, logger: l.logger, key: name, token: token}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s held after %s wait", ErrNotAcquired, name, wait)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acquireRetryInterval):
		}
	}
}

// Release frees the lock if this holder still owns it. Safe to call after
// the TTL already expired.
func (lk *Lock) Release(ctx context.Context) {
	released, err := releaseLuaScript.Run(ctx, lk.client, []string{lk.key}, lk.token).Int()
	if err != nil {
		lk.logger.Warnw("failed to release lock", "key", lk.key, "error", err)
		return
	}
	if released == 0 {
		lk.logger.Warnw("lock already expired before release", "key", lk.key)
		return
	}
	lk.logger.Debugw("released lock", "key", lk.key)
}
