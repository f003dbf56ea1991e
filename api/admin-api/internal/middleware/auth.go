// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

const apiKeyHeader = "X-Api-Key"

// Authenticate resolves the caller from, in precedence order: the X-Api-Key
// header (programmatic tokens), the Authorization bearer header, then the
// session cookie. The bearer token and the cookie carry the same JWT, so a
// browser session and an API client go through identical verification.
func Authenticate(cfg *config.AppConfig, logger commons.Logger, auth internal_service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(apiKeyHeader); key != "" {
			principle, err := auth.VerifyApiKey(c.Request.Context(), key)
			if err != nil {
				unauthorized(c)
				return
			}
			types.SetAuthPrinciple(c, principle)
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(cfg.SessionCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			unauthorized(c)
			return
		}

		principle, err := auth.VerifySessionToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(c)
			return
		}
		types.SetAuthPrinciple(c, principle)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireWrite rejects read-only principles on mutating routes.
func RequireWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		principle, ok := types.GetAuthPrinciple(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !principle.CanWrite() {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin gates user and token management.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principle, ok := types.GetAuthPrinciple(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !principle.IsAdmin() {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireService restricts a route to API-token principles. Platform
// callbacks carry a provisioned token; interactive sessions never land here.
func RequireService() gin.HandlerFunc {
	return func(c *gin.Context) {
		principle, ok := types.GetAuthPrinciple(c)
		if !ok {
			unauthorized(c)
			return
		}
		if _, ok := principle.(*types.ServiceScope); !ok {
			forbidden(c)
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
}
