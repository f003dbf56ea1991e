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

func (api *AdminApi) ListRecordings(c *gin.Context) {
	page, err := api.recordings.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetRecording(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	recording, err := api.recordings.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recording)
}

func (api *AdminApi) CreateRecording(c *gin.Context) {
	var recording internal_entity.Recording
	if err := c.ShouldBindJSON(&recording); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.recordings.Create(c.Request.Context(), api.principle(c), &recording); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recording)
}

func (api *AdminApi) UpdateRecording(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var recording internal_entity.Recording
	if err := c.ShouldBindJSON(&recording); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	recording.Id = id
	if err := api.recordings.Update(c.Request.Context(), api.principle(c), &recording); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recording)
}

func (api *AdminApi) DeleteRecording(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.recordings.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
