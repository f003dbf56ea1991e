// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gorm/caches/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/configs"
)

// PostgresConnector hands out request-scoped gorm handles over a shared pool.
type PostgresConnector interface {
	DB(ctx context.Context) *gorm.DB
	Ping(ctx context.Context) error
	Close() error
}

type postgresConnector struct {
	db     *gorm.DB
	logger commons.Logger
}

// NewPostgresConnector opens the gorm pool from config. When a redis connector
// is supplied, the caches plugin is attached so Session(...).Find reads on
// cache-opted queries are served from redis.
func NewPostgresConnector(cfg configs.PostgresConfig, logger commons.Logger, redis RedisConnector) (PostgresConnector, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open postgres connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unable to access sql pool: %w", err)
	}
	if cfg.MaxOpenConnection > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConnection)
	}
	if cfg.MaxIdealConnection > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdealConnection)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if redis != nil {
		cachesPlugin := &caches.Caches{Conf: &caches.Config{
			Cacher: newRedisCacher(redis, logger),
		}}
		if err := db.Use(cachesPlugin); err != nil {
			return nil, fmt.Errorf("unable to attach query cache plugin: %w", err)
		}
	}

	return &postgresConnector{db: db, logger: logger}, nil
}

// NewPostgresConnectorWithDB wraps an already-open gorm handle. Used by tests
// to run services over sqlite or sqlmock.
func NewPostgresConnectorWithDB(db *gorm.DB, logger commons.Logger) PostgresConnector {
	return &postgresConnector{db: db, logger: logger}
}

func (c *postgresConnector) DB(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

func (c *postgresConnector) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *postgresConnector) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
