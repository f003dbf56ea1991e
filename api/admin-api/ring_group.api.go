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

type replaceMembersRequest struct {
	ExtensionIds []uint64 `json:"extensionIds"`
}

func (api *AdminApi) ListRingGroups(c *gin.Context) {
	page, err := api.ringGroups.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetRingGroup(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	group, err := api.ringGroups.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (api *AdminApi) CreateRingGroup(c *gin.Context) {
	var group internal_entity.RingGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.ringGroups.Create(c.Request.Context(), api.principle(c), &group); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (api *AdminApi) UpdateRingGroup(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var group internal_entity.RingGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	group.Id = id
	if err := api.ringGroups.Update(c.Request.Context(), api.principle(c), &group); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (api *AdminApi) DeleteRingGroup(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.ringGroups.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplaceRingGroupMembers swaps the ordered member list. A concurrent edit
// of the same group answers 409 via the lock sentinel.
func (api *AdminApi) ReplaceRingGroupMembers(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var request replaceMembersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	group, err := api.ringGroups.ReplaceMembers(c.Request.Context(), api.principle(c), id, request.ExtensionIds)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}
