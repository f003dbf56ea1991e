// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package connectors

import (
	"context"
	"time"

	"github.com/go-gorm/caches/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rapidaai/pbx-admin/pkg/commons"
)

const queryCacheTTL = 5 * time.Minute

// redisCacher adapts the redis connector to the gorm caches plugin so that
// cache-opted reads (settings lookups) are served from redis.
type redisCacher struct {
	redis  RedisConnector
	logger commons.Logger
}

func newRedisCacher(redis RedisConnector, logger commons.Logger) caches.Cacher {
	return &redisCacher{redis: redis, logger: logger}
}

func (c *redisCacher) Get(ctx context.Context, key string, q *caches.Query[any]) (*caches.Query[any], error) {
	res, err := c.redis.Client().Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := q.Unmarshal([]byte(res)); err != nil {
		c.logger.Warnf("dropping undecodable query cache entry %s: %v", key, err)
		return nil, nil
	}
	return q, nil
}

func (c *redisCacher) Store(ctx context.Context, key string, val *caches.Query[any]) error {
	res, err := val.Marshal()
	if err != nil {
		return err
	}
	return c.redis.Client().Set(ctx, key, res, queryCacheTTL).Err()
}

func (c *redisCacher) Invalidate(ctx context.Context) error {
	var (
		cursor uint64
		keys   []string
	)
	for {
		k, nextCursor, err := c.redis.Client().Scan(ctx, cursor, caches.IdentifierPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		keys = append(keys, k...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Client().Del(ctx, keys...).Err()
}
