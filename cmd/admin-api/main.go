// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/sync/errgroup"

	web_routers "github.com/rapidaai/pbx-admin/api/admin-api/router"
	health_check_api "github.com/rapidaai/pbx-admin/api/health-check-api"
	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
)

const shutdownGrace = 10 * time.Second

func main() {
	viperConfig, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to read configuration: %v", err)
	}
	cfg, err := config.GetApplicationConfig(viperConfig)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("unable to build logger: %v", err)
	}
	defer logger.Sync()

	redis, err := connectors.NewRedisConnector(cfg.RedisConfig, logger)
	if err != nil {
		logger.Fatalf("unable to connect redis: %v", err)
	}
	defer redis.Close()

	postgres, err := connectors.NewPostgresConnector(cfg.PostgresConfig, logger, redis)
	if err != nil {
		logger.Fatalf("unable to connect postgres: %v", err)
	}
	defer postgres.Close()

	if cfg.AutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
	}

	engine := buildEngine(cfg, logger, postgres, redis)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("%s %s listening on %s", cfg.Name, cfg.Version, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatalf("server error: %v", err)
	}
	logger.Info("bye")
}

func buildEngine(cfg *config.AppConfig, logger commons.Logger,
	postgres connectors.PostgresConnector, redis connectors.RedisConnector) *gin.Engine {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CorsOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CorsOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Api-Key")
	engine.Use(cors.New(corsConfig))

	health_check_api.Register(engine, cfg, logger, postgres, redis)
	web_routers.AdminApiRoute(cfg, engine, logger, postgres, redis)
	return engine
}

func requestLogger(logger commons.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

func runMigrations(cfg *config.AppConfig, logger commons.Logger) error {
	m, err := migrate.New("file://migrations", cfg.PostgresConfig.MigrateURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Infof("schema at version %d (dirty=%v)", version, dirty)
	return nil
}
