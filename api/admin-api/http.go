// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
	"github.com/rapidaai/pbx-admin/pkg/locks"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// respondError maps the service sentinels onto HTTP statuses. Anything
// unmapped is a 500 with a generic body; the detail stays in the logs.
func (api *AdminApi) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, internal_service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, internal_service.ErrInvalidInput),
		errors.Is(err, internal_service.ErrStaleSession):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, internal_service.ErrNumberTaken),
		errors.Is(err, internal_service.ErrEmailTaken),
		errors.Is(err, internal_service.ErrMenuInUse),
		errors.Is(err, internal_service.ErrRecordingInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, locks.ErrNotAcquired):
		c.JSON(http.StatusConflict, gin.H{"error": "resource is being modified by another request, try again"})
	case errors.Is(err, internal_service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		api.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// principle fetches the authenticated caller; the auth middleware guarantees
// it is present on every protected route.
func (api *AdminApi) principle(c *gin.Context) types.SimplePrinciple {
	principle, _ := types.GetAuthPrinciple(c)
	return principle
}

func pathId(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func paginateQuery(c *gin.Context) types.Paginate {
	var paginate types.Paginate
	_ = c.ShouldBindQuery(&paginate)
	return paginate.Normalize()
}
