package internal_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
)

type publishedEvent struct {
	organizationId uint64
	event          string
	status         string
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(organizationId uint64, event string, session *internal_entity.CallSession) {
	f.events = append(f.events, publishedEvent{organizationId, event, session.CallStatus})
}

func newSessionFixture(t *testing.T) (connectors.PostgresConnector, SessionService, *fakePublisher) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	publisher := &fakePublisher{}
	callLogs := NewCallLogService(newTestLogger(t), postgres)
	return postgres, NewSessionService(newTestLogger(t), postgres, callLogs, publisher), publisher
}

func TestSessionIngestCreates(t *testing.T) {
	_, svc, publisher := newSessionFixture(t)

	session, err := svc.Ingest(context.Background(), SessionUpdate{
		Token:        "tok-1",
		Sequence:     1,
		Status:       internal_entity.SessionRinging,
		Direction:    internal_entity.DirectionInbound,
		CallerNumber: "+1 (555) 123-0000",
		Organization: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, internal_entity.SessionRinging, session.CallStatus)
	assert.Equal(t, "+15551230000", session.CallerNumber)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, publishedEvent{10, EventCallStarted, internal_entity.SessionRinging}, publisher.events[0])
}

func TestSessionIngestLatestWins(t *testing.T) {
	_, svc, publisher := newSessionFixture(t)

	_, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 3, Status: internal_entity.SessionConnected, Organization: 10,
	})
	require.NoError(t, err)

	// An older callback arriving late must not regress the session.
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 2, Status: internal_entity.SessionRinging, Organization: 10,
	})
	assert.ErrorIs(t, err, ErrStaleSession)

	// Equal sequence is stale too.
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 3, Status: internal_entity.SessionHeld, Organization: 10,
	})
	assert.ErrorIs(t, err, ErrStaleSession)

	session, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 4, Status: internal_entity.SessionHeld, Organization: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, internal_entity.SessionHeld, session.CallStatus)
	assert.EqualValues(t, 4, session.Sequence)

	// Stale updates published nothing.
	require.Len(t, publisher.events, 2)
	assert.Equal(t, EventCallUpdated, publisher.events[1].event)
}

func TestSessionEndedWritesAnsweredCallLog(t *testing.T) {
	postgres, svc, publisher := newSessionFixture(t)

	_, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 1, Status: internal_entity.SessionRinging,
		Direction: internal_entity.DirectionInbound, Organization: 10,
	})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 2, Status: internal_entity.SessionConnected, Organization: 10,
	})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 3, Status: internal_entity.SessionEnded, Organization: 10,
	})
	require.NoError(t, err)

	var logs []*internal_entity.CallLog
	require.NoError(t, postgres.DB(context.Background()).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "tok-1", logs[0].SessionToken)
	assert.Equal(t, internal_entity.DispositionAnswered, logs[0].Disposition)
	assert.Equal(t, internal_entity.DirectionInbound, logs[0].Direction)
	require.NotNil(t, logs[0].AnsweredAt)
	assert.False(t, logs[0].AnsweredAt.Before(logs[0].StartedAt))

	// The live row is gone once the CDR exists.
	var live int64
	require.NoError(t, postgres.DB(context.Background()).
		Model(&internal_entity.CallSession{}).Count(&live).Error)
	assert.Zero(t, live)

	assert.Equal(t, EventCallEnded, publisher.events[len(publisher.events)-1].event)
}

func TestSessionEndedWhileRingingIsMissed(t *testing.T) {
	postgres, svc, _ := newSessionFixture(t)

	_, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 1, Status: internal_entity.SessionRinging, Organization: 10,
	})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "tok-1", Sequence: 2, Status: internal_entity.SessionEnded, Organization: 10,
	})
	require.NoError(t, err)

	var log internal_entity.CallLog
	require.NoError(t, postgres.DB(context.Background()).First(&log).Error)
	assert.Equal(t, internal_entity.DispositionNoAnswer, log.Disposition)
	assert.Nil(t, log.AnsweredAt)
}

func TestSessionIngestValidation(t *testing.T) {
	_, svc, _ := newSessionFixture(t)

	tests := []struct {
		name   string
		update SessionUpdate
	}{
		{"missing token", SessionUpdate{Status: internal_entity.SessionRinging, Organization: 10}},
		{"unknown status", SessionUpdate{Token: "t", Status: "paused", Organization: 10}},
		{"missing organization", SessionUpdate{Token: "t", Status: internal_entity.SessionRinging}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tc.update)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSessionLivePrunesStaleRows(t *testing.T) {
	postgres, svc, _ := newSessionFixture(t)

	_, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "fresh", Sequence: 1, Status: internal_entity.SessionConnected, Organization: 10,
	})
	require.NoError(t, err)

	stale := &internal_entity.CallSession{
		Token:      "stale",
		CallStatus: internal_entity.SessionConnected,
		StartedAt:  time.Now().UTC().Add(-10 * time.Minute),
		LastSeenAt: time.Now().UTC().Add(-5 * time.Minute),
	}
	stale.OrganizationId = 10
	require.NoError(t, postgres.DB(context.Background()).Create(stale).Error)

	live, err := svc.Live(context.Background(), testAdmin(10))
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "fresh", live[0].Token)
}

func TestSessionLiveTenantScoped(t *testing.T) {
	postgres, svc, _ := newSessionFixture(t)
	seedOrganization(t, postgres, 20, "")

	_, err := svc.Ingest(context.Background(), SessionUpdate{
		Token: "ours", Sequence: 1, Status: internal_entity.SessionConnected, Organization: 10,
	})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), SessionUpdate{
		Token: "theirs", Sequence: 1, Status: internal_entity.SessionConnected, Organization: 20,
	})
	require.NoError(t, err)

	live, err := svc.Live(context.Background(), testAdmin(10))
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "ours", live[0].Token)
}

func TestSessionStatusCounts(t *testing.T) {
	_, svc, _ := newSessionFixture(t)

	for i, status := range []string{
		internal_entity.SessionRinging,
		internal_entity.SessionConnected,
		internal_entity.SessionConnected,
	} {
		_, err := svc.Ingest(context.Background(), SessionUpdate{
			Token:        string(rune('a' + i)),
			Sequence:     1,
			Status:       status,
			Organization: 10,
		})
		require.NoError(t, err)
	}

	counts, err := svc.StatusCounts(context.Background(), testAdmin(10))
	require.NoError(t, err)
	byStatus := map[string]int64{}
	for _, c := range counts {
		byStatus[c.CallStatus] = c.Count
	}
	assert.EqualValues(t, 1, byStatus[internal_entity.SessionRinging])
	assert.EqualValues(t, 2, byStatus[internal_entity.SessionConnected])
}
