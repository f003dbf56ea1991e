// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type upsertSettingRequest struct {
	Value string `json:"value"`
}

func (api *AdminApi) ListSettings(c *gin.Context) {
	settings, err := api.settings.GetAll(c.Request.Context(), api.principle(c))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": settings})
}

func (api *AdminApi) GetSetting(c *gin.Context) {
	setting, err := api.settings.Get(c.Request.Context(), api.principle(c), c.Param("key"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (api *AdminApi) UpsertSetting(c *gin.Context) {
	var request upsertSettingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	setting, err := api.settings.Upsert(c.Request.Context(), api.principle(c), c.Param("key"), request.Value)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (api *AdminApi) DeleteSetting(c *gin.Context) {
	if err := api.settings.Delete(c.Request.Context(), api.principle(c), c.Param("key")); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncCloudonix re-pushes every extension of the organization to the
// platform. Used after changing the Cloudonix domain or credentials.
func (api *AdminApi) SyncCloudonix(c *gin.Context) {
	synced, err := api.settings.SyncCloudonix(c.Request.Context(), api.principle(c))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced})
}
