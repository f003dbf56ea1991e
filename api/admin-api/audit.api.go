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

func (api *AdminApi) ListAuditLogs(c *gin.Context) {
	page, err := api.auditService.GetAll(c.Request.Context(), api.principle(c),
		paginateQuery(c), c.Query("search"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
