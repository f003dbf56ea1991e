// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package admin_api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
)

func callLogFilter(c *gin.Context) (internal_service.CallLogFilter, bool) {
	var filter internal_service.CallLogFilter
	filter.Direction = c.Query("direction")
	filter.Disposition = c.Query("disposition")
	filter.Number = c.Query("number")
	if raw := c.Query("extension_id"); raw != "" {
		extensionId, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid extension_id"})
			return filter, false
		}
		filter.ExtensionId = extensionId
	}
	for _, bound := range []struct {
		query string
		into  *time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		if raw := c.Query(bound.query); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": bound.query + " must be RFC3339"})
				return filter, false
			}
			*bound.into = parsed
		}
	}
	return filter, true
}

func (api *AdminApi) ListCallLogs(c *gin.Context) {
	filter, ok := callLogFilter(c)
	if !ok {
		return
	}
	page, err := api.callLogs.GetAll(c.Request.Context(), api.principle(c), paginateQuery(c), filter)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (api *AdminApi) GetCallLog(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	log, err := api.callLogs.Get(c.Request.Context(), api.principle(c), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// CallLogSummary returns the per-day totals for the filtered window.
func (api *AdminApi) CallLogSummary(c *gin.Context) {
	filter, ok := callLogFilter(c)
	if !ok {
		return
	}
	rows, err := api.callLogs.Summary(c.Request.Context(), api.principle(c), filter)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}
