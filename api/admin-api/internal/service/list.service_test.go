package internal_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func TestWhitelistEmptyAllowsEverything(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewOutboundWhitelistService(newTestLogger(t), postgres)

	allowed, err := svc.IsAllowed(context.Background(), testAdmin(10), "+15551230000")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWhitelistPrefixMatch(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewOutboundWhitelistService(newTestLogger(t), postgres)

	require.NoError(t, svc.Create(context.Background(), auth,
		&internal_entity.OutboundWhitelistEntry{Prefix: "+1555", Label: "us test range"}))

	tests := []struct {
		number  string
		allowed bool
	}{
		{"+15551230000", true},
		// Normalization strips formatting before the prefix check.
		{"+1 (555) 123-0000", true},
		{"+441632960000", false},
	}
	for _, tc := range tests {
		allowed, err := svc.IsAllowed(context.Background(), auth, tc.number)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, tc.number)
	}
}

func TestWhitelistTenantScoped(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	seedOrganization(t, postgres, 20, "")
	svc := NewOutboundWhitelistService(newTestLogger(t), postgres)

	require.NoError(t, svc.Create(context.Background(), testAdmin(10),
		&internal_entity.OutboundWhitelistEntry{Prefix: "+1555"}))

	// The other organization has no entries, so everything is allowed there.
	allowed, err := svc.IsAllowed(context.Background(), testAdmin(20), "+441632960000")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.IsAllowed(context.Background(), testAdmin(10), "+441632960000")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestBlacklistBlocksExactNumber(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewSentryBlacklistService(newTestLogger(t), postgres)

	require.NoError(t, svc.Create(context.Background(), auth,
		&internal_entity.SentryBlacklistEntry{Number: "+1 (555) 666-0000", Reason: "spam"}))

	blocked, err := svc.IsBlocked(context.Background(), auth, "+15556660000")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.IsBlocked(context.Background(), auth, "+15556660001")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlacklistRejectsDuplicates(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewSentryBlacklistService(newTestLogger(t), postgres)

	require.NoError(t, svc.Create(context.Background(), auth,
		&internal_entity.SentryBlacklistEntry{Number: "+15556660000"}))
	err := svc.Create(context.Background(), auth,
		&internal_entity.SentryBlacklistEntry{Number: "+1 555 666 0000"})
	assert.ErrorIs(t, err, ErrNumberTaken)
}
