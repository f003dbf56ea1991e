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

func (api *AdminApi) ListPhoneNumbers(c *gin.Context) {
	page, err := api.phoneNumbers.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetPhoneNumber(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	number, err := api.phoneNumbers.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

func (api *AdminApi) CreatePhoneNumber(c *gin.Context) {
	var number internal_entity.PhoneNumber
	if err := c.ShouldBindJSON(&number); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.phoneNumbers.Create(c.Request.Context(), api.principle(c), &number); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, number)
}

func (api *AdminApi) UpdatePhoneNumber(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var number internal_entity.PhoneNumber
	if err := c.ShouldBindJSON(&number); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	number.Id = id
	if err := api.phoneNumbers.Update(c.Request.Context(), api.principle(c), &number); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

func (api *AdminApi) DeletePhoneNumber(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.phoneNumbers.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
