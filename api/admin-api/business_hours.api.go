// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func (api *AdminApi) ListBusinessHours(c *gin.Context) {
	page, err := api.businessHours.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetBusinessHours(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	set, err := api.businessHours.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (api *AdminApi) CreateBusinessHours(c *gin.Context) {
	var set internal_entity.BusinessHoursSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.businessHours.Create(c.Request.Context(), api.principle(c), &set); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (api *AdminApi) UpdateBusinessHours(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var set internal_entity.BusinessHoursSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	set.Id = id
	if err := api.businessHours.Update(c.Request.Context(), api.principle(c), &set); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (api *AdminApi) DeleteBusinessHours(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.businessHours.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckBusinessHours evaluates whether the set is open right now, or at
// ?at=<RFC3339> when given. Useful for previewing routing changes.
func (api *AdminApi) CheckBusinessHours(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	set, err := api.businessHours.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "at must be RFC3339"})
			return
		}
		at = parsed
	}

	open, err := api.businessHours.IsOpenAt(set, at)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": open, "at": at})
}
