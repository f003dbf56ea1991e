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

func (api *AdminApi) ListExtensions(c *gin.Context) {
	page, err := api.extensions.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetExtension(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	extension, err := api.extensions.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, extension)
}

func (api *AdminApi) CreateExtension(c *gin.Context) {
	var extension internal_entity.Extension
	if err := c.ShouldBindJSON(&extension); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.extensions.Create(c.Request.Context(), api.principle(c), &extension); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, extension)
}

func (api *AdminApi) UpdateExtension(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var extension internal_entity.Extension
	if err := c.ShouldBindJSON(&extension); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	extension.Id = id
	if err := api.extensions.Update(c.Request.Context(), api.principle(c), &extension); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, extension)
}

func (api *AdminApi) DeleteExtension(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.extensions.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegenerateSipPassword rotates the extension's SIP credential and returns
// the row with the fresh password visible once.
func (api *AdminApi) RegenerateSipPassword(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	extension, err := api.extensions.RegenerateSipPassword(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"extension": extension, "sipPassword": extension.SipPassword})
}
