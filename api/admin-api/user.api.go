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

type createUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (api *AdminApi) ListUsers(c *gin.Context) {
	page, err := api.userService.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := api.userService.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (api *AdminApi) CreateUser(c *gin.Context) {
	var request createUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	user := &internal_entity.User{
		Email: request.Email,
		Name:  request.Name,
		Role:  request.Role,
	}
	if err := api.userService.Create(c.Request.Context(), api.principle(c), user, request.Password); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (api *AdminApi) UpdateUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var user internal_entity.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	user.Id = id
	if err := api.userService.Update(c.Request.Context(), api.principle(c), &user); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (api *AdminApi) DeleteUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.userService.Delete(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *AdminApi) SetUserPassword(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var request setPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.userService.SetPassword(c.Request.Context(), api.principle(c), id, request.Password); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
