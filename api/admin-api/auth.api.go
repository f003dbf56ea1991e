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

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type createTokenRequest struct {
	Name string `json:"name" binding:"required"`
}

// Login exchanges email/password for a session token. The token is returned
// in the body for bearer use and set as an http-only cookie for the SPA.
func (api *AdminApi) Login(c *gin.Context) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	user, token, err := api.authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.SetCookie(api.cfg.SessionCookieName, token,
		api.cfg.TokenTTLMinutes*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout clears the session cookie. Bearer clients just drop the token.
func (api *AdminApi) Logout(c *gin.Context) {
	c.SetCookie(api.cfg.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (api *AdminApi) Me(c *gin.Context) {
	auth := api.principle(c)
	user, err := api.userService.Get(c.Request.Context(), auth, auth.GetUserId())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (api *AdminApi) ChangePassword(c *gin.Context) {
	var request changePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := api.authService.ChangePassword(c.Request.Context(), api.principle(c),
		request.CurrentPassword, request.NewPassword); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *AdminApi) CreateApiToken(c *gin.Context) {
	var request createTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	token, plaintext, err := api.authService.CreateApiToken(c.Request.Context(), api.principle(c), request.Name)
	if err != nil {
		api.respondError(c, err)
		return
	}
	// The clear token appears in this response only.
	c.JSON(http.StatusCreated, gin.H{"token": token, "secret": plaintext})
}

func (api *AdminApi) ListApiTokens(c *gin.Context) {
	tokens, err := api.authService.ListApiTokens(c.Request.Context(), api.principle(c))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tokens})
}

func (api *AdminApi) DeleteApiToken(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := api.authService.DeleteApiToken(c.Request.Context(), api.principle(c), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
