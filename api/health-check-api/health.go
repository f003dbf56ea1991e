// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package health_check_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
)

type healthApi struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	postgres connectors.PostgresConnector
	redis    connectors.RedisConnector
}

func NewHealthApi(cfg *config.AppConfig, logger commons.Logger,
	postgres connectors.PostgresConnector, redis connectors.RedisConnector) *healthApi {
	return &healthApi{cfg: cfg, logger: logger, postgres: postgres, redis: redis}
}

// Healthz answers as long as the process is alive.
func (api *healthApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": api.cfg.Name,
		"version": api.cfg.Version,
	})
}

// Readyz verifies the backing stores before the instance takes traffic.
func (api *healthApi) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	if err := api.postgres.Ping(ctx); err != nil {
		api.logger.Warnw("postgres not ready", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "postgres unavailable"})
		return
	}
	if err := api.redis.Ping(ctx); err != nil {
		api.logger.Warnw("redis not ready", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "redis unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Register mounts the probes on the engine root.
func Register(engine *gin.Engine, cfg *config.AppConfig, logger commons.Logger,
	postgres connectors.PostgresConnector, redis connectors.RedisConnector) {
	api := NewHealthApi(cfg, logger, postgres, redis)
	engine.GET("/healthz", api.Healthz)
	engine.GET("/readyz", api.Readyz)
}
