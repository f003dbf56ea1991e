// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package web_routers

import (
	"github.com/gin-gonic/gin"

	adminApi "github.com/rapidaai/pbx-admin/api/admin-api"
	internal_middleware "github.com/rapidaai/pbx-admin/api/admin-api/internal/middleware"
	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
)

// AdminApiRoute mounts the whole administration surface under /v1.
func AdminApiRoute(
	Cfg *config.AppConfig,
	Engine *gin.Engine,
	Logger commons.Logger,
	Postgres connectors.PostgresConnector,
	Redis connectors.RedisConnector,
) {
	api := adminApi.NewAdminApi(Cfg, Logger, Postgres, Redis)

	v1 := Engine.Group("/v1")

	// Unauthenticated surface.
	v1.POST("/auth/login", api.Login)
	v1.POST("/auth/logout", api.Logout)

	authenticated := v1.Group("")
	authenticated.Use(internal_middleware.Authenticate(Cfg, Logger, api.AuthService()))
	authenticated.Use(internal_middleware.Audit(api.AuditService()))

	authenticated.GET("/auth/me", api.Me)
	authenticated.POST("/auth/change-password", api.ChangePassword)

	// Mutations require a writable role; user and token management is
	// admin-only on top of that.
	write := authenticated.Group("")
	write.Use(internal_middleware.RequireWrite())

	admin := authenticated.Group("")
	admin.Use(internal_middleware.RequireAdmin())

	admin.GET("/tokens", api.ListApiTokens)
	admin.POST("/tokens", api.CreateApiToken)
	admin.DELETE("/tokens/:id", api.DeleteApiToken)

	admin.GET("/users", api.ListUsers)
	admin.GET("/users/:id", api.GetUser)
	admin.POST("/users", api.CreateUser)
	admin.PUT("/users/:id", api.UpdateUser)
	admin.DELETE("/users/:id", api.DeleteUser)
	admin.PUT("/users/:id/password", api.SetUserPassword)

	authenticated.GET("/extensions", api.ListExtensions)
	authenticated.GET("/extensions/:id", api.GetExtension)
	write.POST("/extensions", api.CreateExtension)
	write.PUT("/extensions/:id", api.UpdateExtension)
	write.DELETE("/extensions/:id", api.DeleteExtension)
	write.POST("/extensions/:id/regenerate-sip-password", api.RegenerateSipPassword)

	authenticated.GET("/ring-groups", api.ListRingGroups)
	authenticated.GET("/ring-groups/:id", api.GetRingGroup)
	write.POST("/ring-groups", api.CreateRingGroup)
	write.PUT("/ring-groups/:id", api.UpdateRingGroup)
	write.DELETE("/ring-groups/:id", api.DeleteRingGroup)
	write.PUT("/ring-groups/:id/members", api.ReplaceRingGroupMembers)

	authenticated.GET("/ivr-menus", api.ListIvrMenus)
	authenticated.GET("/ivr-menus/:id", api.GetIvrMenu)
	authenticated.GET("/ivr-menus/:id/references", api.GetIvrMenuReferences)
	write.POST("/ivr-menus", api.CreateIvrMenu)
	write.PUT("/ivr-menus/:id", api.UpdateIvrMenu)
	write.DELETE("/ivr-menus/:id", api.DeleteIvrMenu)
	write.PUT("/ivr-menus/:id/options", api.SetIvrMenuOption)
	write.DELETE("/ivr-menus/:id/options/:digit", api.RemoveIvrMenuOption)

	authenticated.GET("/business-hours", api.ListBusinessHours)
	authenticated.GET("/business-hours/:id", api.GetBusinessHours)
	authenticated.GET("/business-hours/:id/check", api.CheckBusinessHours)
	write.POST("/business-hours", api.CreateBusinessHours)
	write.PUT("/business-hours/:id", api.UpdateBusinessHours)
	write.DELETE("/business-hours/:id", api.DeleteBusinessHours)

	authenticated.GET("/phone-numbers", api.ListPhoneNumbers)
	authenticated.GET("/phone-numbers/:id", api.GetPhoneNumber)
	write.POST("/phone-numbers", api.CreatePhoneNumber)
	write.PUT("/phone-numbers/:id", api.UpdatePhoneNumber)
	write.DELETE("/phone-numbers/:id", api.DeletePhoneNumber)

	authenticated.GET("/recordings", api.ListRecordings)
	authenticated.GET("/recordings/:id", api.GetRecording)
	write.POST("/recordings", api.CreateRecording)
	write.PUT("/recordings/:id", api.UpdateRecording)
	write.DELETE("/recordings/:id", api.DeleteRecording)

	authenticated.GET("/whitelist", api.ListWhitelist)
	authenticated.GET("/whitelist/check", api.CheckWhitelist)
	write.POST("/whitelist", api.CreateWhitelistEntry)
	write.DELETE("/whitelist/:id", api.DeleteWhitelistEntry)

	authenticated.GET("/blacklist", api.ListBlacklist)
	write.POST("/blacklist", api.CreateBlacklistEntry)
	write.DELETE("/blacklist/:id", api.DeleteBlacklistEntry)

	authenticated.GET("/settings", api.ListSettings)
	authenticated.GET("/settings/:key", api.GetSetting)
	write.PUT("/settings/:key", api.UpsertSetting)
	write.DELETE("/settings/:key", api.DeleteSetting)
	write.POST("/settings/sync-cloudonix", api.SyncCloudonix)

	authenticated.GET("/call-logs", api.ListCallLogs)
	authenticated.GET("/call-logs/summary", api.CallLogSummary)
	// gin cannot mix a static segment with a wildcard sibling, so the
	// single-CDR fetch lives under /detail.
	authenticated.GET("/call-logs/detail/:id", api.GetCallLog)

	authenticated.GET("/sessions/live", api.ListLiveSessions)
	authenticated.GET("/sessions/counts", api.SessionStatusCounts)
	authenticated.GET("/sessions/ws", api.LiveSessionsSocket)

	authenticated.GET("/audit-logs", api.ListAuditLogs)

	// Platform callbacks authenticate with an API token, never a cookie.
	hooks := authenticated.Group("")
	hooks.Use(internal_middleware.RequireService())
	hooks.POST("/hooks/cloudonix/sessions", api.SessionWebhook)
}
