package admin_api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	internal_middleware "github.com/rapidaai/pbx-admin/api/admin-api/internal/middleware"
	internal_service "github.com/rapidaai/pbx-admin/api/admin-api/internal/service"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// newWebhookServer mounts the session webhook the way the router does, with
// the given principle pre-attached in place of the auth middleware.
func newWebhookServer(t *testing.T, principle types.SimplePrinciple) (*gin.Engine, connectors.PostgresConnector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&internal_entity.CallSession{}, &internal_entity.CallLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger, err := commons.NewApplicationLogger(
		commons.Name("test-webhook"),
		commons.Level("error"),
	)
	require.NoError(t, err)

	postgres := connectors.NewPostgresConnectorWithDB(db, logger)
	callLogs := internal_service.NewCallLogService(logger, postgres)
	api := &AdminApi{
		logger:   logger,
		sessions: internal_service.NewSessionService(logger, postgres, callLogs, nil),
	}

	engine := gin.New()
	engine.POST("/v1/hooks/cloudonix/sessions",
		func(c *gin.Context) { types.SetAuthPrinciple(c, principle) },
		internal_middleware.RequireService(),
		api.SessionWebhook,
	)
	return engine, postgres
}

func postWebhook(engine *gin.Engine, body gin.H) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/hooks/cloudonix/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSessionWebhookPinsOrganizationToPrinciple(t *testing.T) {
	engine, postgres := newWebhookServer(t, &types.ServiceScope{
		TokenId:        1,
		OrganizationId: 10,
		TokenName:      "platform",
	})

	// The body claims another tenant; the token's organization wins.
	w := postWebhook(engine, gin.H{
		"token":          "sess-1",
		"sequence":       1,
		"status":         internal_entity.SessionRinging,
		"organizationId": 20,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var session internal_entity.CallSession
	require.NoError(t, postgres.DB(context.Background()).
		Where("token = ?", "sess-1").First(&session).Error)
	assert.EqualValues(t, 10, session.OrganizationId)

	var foreign int64
	require.NoError(t, postgres.DB(context.Background()).
		Model(&internal_entity.CallSession{}).
		Where("organization_id = ?", 20).Count(&foreign).Error)
	assert.Zero(t, foreign)
}

func TestSessionWebhookRejectsInteractivePrinciples(t *testing.T) {
	engine, postgres := newWebhookServer(t, &types.UserScope{
		UserId:         1,
		OrganizationId: 10,
		Email:          "admin@example.com",
		Role:           types.RoleAdmin,
	})

	w := postWebhook(engine, gin.H{
		"token":    "sess-1",
		"sequence": 1,
		"status":   internal_entity.SessionRinging,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, postgres.DB(context.Background()).
		Model(&internal_entity.CallSession{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSessionWebhookAcknowledgesStaleUpdates(t *testing.T) {
	engine, _ := newWebhookServer(t, &types.ServiceScope{
		TokenId:        1,
		OrganizationId: 10,
		TokenName:      "platform",
	})

	w := postWebhook(engine, gin.H{
		"token": "sess-1", "sequence": 5, "status": internal_entity.SessionConnected,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Older callbacks answer 200 so the platform does not retry, but are
	// marked not applied.
	w = postWebhook(engine, gin.H{
		"token": "sess-1", "sequence": 4, "status": internal_entity.SessionRinging,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["applied"])
}
