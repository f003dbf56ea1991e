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

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
)

func (api *AdminApi) ListIvrMenus(c *gin.Context) {
	page, err := api.ivrMenus.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetIvrMenu(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	menu, err := api.ivrMenus.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (api *AdminApi) CreateIvrMenu(c *gin.Context) {
	var menu internal_entity.IvrMenu
	if err := c.ShouldBindJSON(&menu); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.ivrMenus.Create(c.Request.Context(), api.principle(c), &menu); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

func (api *AdminApi) UpdateIvrMenu(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var menu internal_entity.IvrMenu
	if err := c.ShouldBindJSON(&menu); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	menu.Id = id
	if err := api.ivrMenus.Update(c.Request.Context(), api.principle(c), &menu); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// DeleteIvrMenu refuses while anything still routes to the menu; the 409
// body lists the blocking references.
func (api *AdminApi) DeleteIvrMenu(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	auth := api.principle(c)
	if err := api.ivrMenus.Delete(c.Request.Context(), auth, id); err != nil {
		if errors.Is(err, internal_service.ErrMenuInUse) {
			references, refErr := api.ivrMenus.References(c.Request.Context(), auth, id)
			if refErr == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error":      err.Error(),
					"references": references,
				})
				return
			}
		}
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *AdminApi) GetIvrMenuReferences(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	references, err := api.ivrMenus.References(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": references})
}

func (api *AdminApi) SetIvrMenuOption(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var option internal_entity.IvrMenuOption
	if err := c.ShouldBindJSON(&option); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.ivrMenus.SetOption(c.Request.Context(), api.principle(c), id, &option); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

func (api *AdminApi) RemoveIvrMenuOption(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.ivrMenus.RemoveOption(c.Request.Context(), api.principle(c), id, c.Param("digit")); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
