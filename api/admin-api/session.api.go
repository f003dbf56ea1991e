// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (api *AdminApi) ListLiveSessions(c *gin.Context) {
	sessions, err := api.sessions.Live(c.Request.Context(), api.principle(c))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sessions})
}

func (api *AdminApi) SessionStatusCounts(c *gin.Context) {
	counts, err := api.sessions.StatusCounts(c.Request.Context(), api.principle(c))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": counts})
}

// LiveSessionsSocket upgrades to a websocket and streams call.started /
// call.updated / call.ended events for the caller's organization.
func (api *AdminApi) LiveSessionsSocket(c *gin.Context) {
	auth := api.principle(c)
	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.logger.Errorf("websocket upgrade failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to upgrade to websocket"})
		return
	}
	api.hub.Serve(auth.GetOrganizationId(), conn)
}

// SessionWebhook ingests Cloudonix session-update callbacks. Stale updates
// (sequence at or below the stored one) answer 200 so the platform does not
// retry them, but carry an applied=false marker.
func (api *AdminApi) SessionWebhook(c *gin.Context) {
	var update internal_service.SessionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	// Tenancy comes from the authenticated principle; an organization id
	// in the callback body is ignored.
	update.Organization = api.principle(c).GetOrganizationId()

	session, err := api.sessions.Ingest(c.Request.Context(), update)
	if err != nil {
		if errors.Is(err, internal_service.ErrStaleSession) {
			c.JSON(http.StatusOK, gin.H{"applied": false})
			return
		}
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true, "session": session})
}
