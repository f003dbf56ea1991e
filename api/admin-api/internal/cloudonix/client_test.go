package internal_cloudonix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/configs"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-cloudonix"),
		commons.Level("debug"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rc := resty.New().SetBaseURL(srv.URL)
	return NewClientWithHTTP(rc, newTestLogger(t))
}

func TestCreateSubscriber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/customers/self/domains/acme.cloudonix.net/subscribers", r.URL.Path)

		var body Subscriber
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "101", body.Msisdn)

		body.Id = 9001
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	})

	created, err := client.CreateSubscriber(context.Background(), "acme.cloudonix.net", &Subscriber{
		Msisdn:      "101",
		SipPassword: "secret",
		Active:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9001), created.Id)
}

func TestCreateSubscriberPlatformError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"msisdn exists"}`))
	})

	_, err := client.CreateSubscriber(context.Background(), "acme.cloudonix.net", &Subscriber{Msisdn: "101"})
	require.Error(t, err)

	apiErr, ok := err.(*ApiError)
	require.True(t, ok, "expected ApiError, got %T", err)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestUpsertVoiceApplicationCreatesThenUpdates(t *testing.T) {
	var sawPost, sawPut bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			sawPost = true
			assert.Equal(t, "/customers/self/domains/acme.cloudonix.net/applications", r.URL.Path)
		case http.MethodPut:
			sawPut = true
			assert.Equal(t, "/customers/self/domains/acme.cloudonix.net/applications/77", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(VoiceApplication{Id: 77, Name: "did-+14155551234"})
	})

	app := &VoiceApplication{Name: "did-+14155551234", Url: "/v1/hooks/cloudonix/route/+14155551234", Type: "cloudonix"}

	created, err := client.UpsertVoiceApplication(context.Background(), "acme.cloudonix.net", "", app)
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.Id)

	_, err = client.UpsertVoiceApplication(context.Background(), "acme.cloudonix.net", "77", app)
	require.NoError(t, err)

	assert.True(t, sawPost)
	assert.True(t, sawPut)
}

func TestDeprovisionExtensionToleratesMissingSubscriber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	svc := NewSubscriberService(configs.CloudonixConfig{Domain: "acme.cloudonix.net"}, client, newTestLogger(t))

	ext := &internal_entity.Extension{Number: "101", CloudonixSubscriberId: "9001"}
	err := svc.DeprovisionExtension(context.Background(), "acme.cloudonix.net", ext)
	assert.NoError(t, err)
}

func TestDeprovisionExtensionSkipsUnprovisioned(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	svc := NewSubscriberService(configs.CloudonixConfig{Domain: "acme.cloudonix.net"}, client, newTestLogger(t))

	err := svc.DeprovisionExtension(context.Background(), "acme.cloudonix.net", &internal_entity.Extension{Number: "101"})
	assert.NoError(t, err)
	assert.False(t, called)
}
