// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package connectors

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/configs"
)

// RedisConnector hands out the shared redis client used for distributed
// locks, live presence and the query cache.
type RedisConnector interface {
	Client() *redis.Client
	Ping(ctx context.Context) error
	Close() error
}

type redisConnector struct {
	client *redis.Client
	logger commons.Logger
}

func NewRedisConnector(cfg configs.RedisConfig, logger commons.Logger) (RedisConnector, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("unable to reach redis at %s: %w", cfg.Addr(), err)
	}

	return &redisConnector{client: client, logger: logger}, nil
}

// NewRedisConnectorWithClient wraps an existing client. Used by tests with redismock.
func NewRedisConnectorWithClient(client *redis.Client, logger commons.Logger) RedisConnector {
	return &redisConnector{client: client, logger: logger}
}

func (c *redisConnector) Client() *redis.Client {
	return c.client
}

func (c *redisConnector) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisConnector) Close() error {
	return c.client.Close()
}
