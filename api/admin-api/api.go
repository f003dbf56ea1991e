// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	internal_cloudonix "github.com/rapidaai/pbx-admin/api/admin-api/internal/cloudonix"
	internal_live "github.com/rapidaai/pbx-admin/api/admin-api/internal/live"
	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/locks"
)

// AdminApi carries the service graph behind the REST surface. One instance
// serves all organizations; tenancy is resolved per request from the
// authenticated principle.
type AdminApi struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	postgres connectors.PostgresConnector
	redis    connectors.RedisConnector

	hub *internal_live.Hub

	authService   internal_service.AuthService
	userService   internal_service.UserService
	auditService  internal_service.AuditService
	extensions    internal_service.ExtensionService
	ringGroups    internal_service.RingGroupService
	ivrMenus      internal_service.IvrMenuService
	businessHours internal_service.BusinessHoursService
	phoneNumbers  internal_service.PhoneNumberService
	recordings    internal_service.RecordingService
	whitelist     internal_service.OutboundWhitelistService
	blacklist     internal_service.SentryBlacklistService
	settings      internal_service.SettingService
	callLogs      internal_service.CallLogService
	sessions      internal_service.SessionService
}

func NewAdminApi(
	cfg *config.AppConfig,
	logger commons.Logger,
	postgres connectors.PostgresConnector,
	redis connectors.RedisConnector,
) *AdminApi {
	cloudonixClient := internal_cloudonix.NewClient(cfg.CloudonixConfig, logger)
	subscriber := internal_cloudonix.NewSubscriberService(cfg.CloudonixConfig, cloudonixClient, logger)
	locker := locks.NewLocker(redis.Client(), logger)
	hub := internal_live.NewHub(logger)
	callLogs := internal_service.NewCallLogService(logger, postgres)

	return &AdminApi{
		cfg:      cfg,
		logger:   logger,
		postgres: postgres,
		redis:    redis,
		hub:      hub,

		authService:   internal_service.NewAuthService(logger, postgres, cfg),
		userService:   internal_service.NewUserService(logger, postgres),
		auditService:  internal_service.NewAuditService(logger, postgres),
		extensions:    internal_service.NewExtensionService(logger, postgres, subscriber),
		ringGroups:    internal_service.NewRingGroupService(logger, postgres, locker),
		ivrMenus:      internal_service.NewIvrMenuService(logger, postgres),
		businessHours: internal_service.NewBusinessHoursService(logger, postgres),
		phoneNumbers:  internal_service.NewPhoneNumberService(logger, postgres, subscriber),
		recordings:    internal_service.NewRecordingService(logger, postgres),
		whitelist:     internal_service.NewOutboundWhitelistService(logger, postgres),
		blacklist:     internal_service.NewSentryBlacklistService(logger, postgres),
		settings:      internal_service.NewSettingService(logger, postgres, subscriber),
		callLogs:      callLogs,
		sessions:      internal_service.NewSessionService(logger, postgres, callLogs, hub),
	}
}

// AuthService exposes credential verification to the middleware layer.
func (api *AdminApi) AuthService() internal_service.AuthService {
	return api.authService
}

// AuditService exposes the audit sink to the middleware layer.
func (api *AdminApi) AuditService() internal_service.AuditService {
	return api.auditService
}
