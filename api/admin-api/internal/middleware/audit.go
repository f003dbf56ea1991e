// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// Audit records every mutating request after the handler finishes, tagged
// with the acting principle and response status. Reads are not audited.
func Audit(audit internal_service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		c.Next()

		principle, ok := types.GetAuthPrinciple(c)
		if !ok {
			return
		}

		entry := &internal_entity.AuditLog{
			ActorUserId: principle.GetUserId(),
			Action:      c.Request.Method,
			Path:        c.FullPath(),
			StatusCode:  c.Writer.Status(),
			RemoteIp:    c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
		}
		if user, ok := principle.(*types.UserScope); ok {
			entry.ActorEmail = user.Email
		}
		entry.OrganizationId = principle.GetOrganizationId()

		audit.Append(c.Request.Context(), entry)
	}
}
