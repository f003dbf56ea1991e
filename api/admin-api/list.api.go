// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func (api *AdminApi) ListWhitelist(c *gin.Context) {
	page, err := api.whitelist.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) CreateWhitelistEntry(c *gin.Context) {
	var entry internal_entity.OutboundWhitelistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.whitelist.Create(c.Request.Context(), api.principle(c), &entry); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (api *AdminApi) DeleteWhitelistEntry(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.whitelist.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckWhitelist previews the allowlist decision for ?number=.
func (api *AdminApi) CheckWhitelist(c *gin.Context) {
	number := c.Query("number")
	if number == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "number is required"})
		return
	}
	allowed, err := api.whitelist.IsAllowed(c.Request.Context(), api.principle(c), number)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number, "allowed": allowed})
}

func (api *AdminApi) ListBlacklist(c *gin.Context) {
	page, err := api.blacklist.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) CreateBlacklistEntry(c *gin.Context) {
	var entry internal_entity.SentryBlacklistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.blacklist.Create(c.Request.Context(), api.principle(c), &entry); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (api *AdminApi) DeleteBlacklistEntry(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.blacklist.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
