// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// Sessions not updated for this long are treated as dead and pruned on read.
const sessionStaleAfter = 2 * time.Minute

// Live-call event names pushed to websocket subscribers.
const (
	EventCallStarted = "call.started"
	EventCallUpdated = "call.updated"
	EventCallEnded   = "call.ended"
)

// SessionUpdate is one status callback from the call platform.
type SessionUpdate struct {
	Token        string `json:"token" binding:"required"`
	Sequence     uint64 `json:"sequence"`
	Status       string `json:"status" binding:"required"`
	Direction    string `json:"direction"`
	CallerNumber string `json:"callerNumber"`
	CalleeNumber string `json:"calleeNumber"`
	ExtensionId  uint64 `json:"extensionId"`
	Organization uint64 `json:"organizationId"`
}

// SessionPublisher receives live-call events for fan-out. The websocket hub
// implements it.
type SessionPublisher interface {
	Publish(organizationId uint64, event string, session *internal_entity.CallSession)
}

// SessionService ingests platform session callbacks and serves the live-call
// views. Callbacks arrive out of order; each session keeps only the update
// with the highest sequence (latest wins), older ones fail with
// ErrStaleSession.
type SessionService interface {
	Ingest(ctx context.Context, update SessionUpdate) (*internal_entity.CallSession, error)
	Live(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.CallSession, error)
	StatusCounts(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.SessionStatusCount, error)
}

type sessionService struct {
	postgres  connectors.PostgresConnector
	logger    commons.Logger
	callLogs  CallLogService
	publisher SessionPublisher
}

func NewSessionService(logger commons.Logger, postgres connectors.PostgresConnector, callLogs CallLogService, publisher SessionPublisher) SessionService {
	return &sessionService{postgres: postgres, logger: logger, callLogs: callLogs, publisher: publisher}
}

func validSessionStatus(status string) bool {
	switch status {
	case internal_entity.SessionRinging, internal_entity.SessionConnected,
		internal_entity.SessionHeld, internal_entity.SessionEnded:
		return true
	}
	return false
}

func (s *sessionService) Ingest(ctx context.Context, update SessionUpdate) (*internal_entity.CallSession, error) {
	if utils.IsEmpty(update.Token) {
		return nil, fmt.Errorf("%w: session token is required", ErrInvalidInput)
	}
	if !validSessionStatus(update.Status) {
		return nil, fmt.Errorf("%w: unknown session status %q", ErrInvalidInput, update.Status)
	}
	if update.Organization == 0 {
		return nil, fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	var session internal_entity.CallSession
	var event string

	err := s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("token = ?", update.Token).First(&session).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			session = internal_entity.CallSession{
				Token:        update.Token,
				CallStatus:   update.Status,
				Direction:    update.Direction,
				CallerNumber: utils.NormalizeNumber(update.CallerNumber),
				CalleeNumber: utils.NormalizeNumber(update.CalleeNumber),
				ExtensionId:  update.ExtensionId,
				Sequence:     update.Sequence,
				StartedAt:    now,
				LastSeenAt:   now,
			}
			session.OrganizationId = update.Organization
			if update.Status == internal_entity.SessionConnected {
				session.AnsweredAt = &now
			}
			event = EventCallStarted
			return tx.Create(&session).Error
		case err != nil:
			return err
		}

		if update.Sequence <= session.Sequence {
			return fmt.Errorf("%w: sequence %d <= %d", ErrStaleSession, update.Sequence, session.Sequence)
		}

		session.CallStatus = update.Status
		session.Sequence = update.Sequence
		session.LastSeenAt = now
		if update.Status == internal_entity.SessionConnected && session.AnsweredAt == nil {
			session.AnsweredAt = &now
		}
		if update.ExtensionId != 0 {
			session.ExtensionId = update.ExtensionId
		}
		event = EventCallUpdated
		return tx.Save(&session).Error
	})
	if err != nil {
		if errors.Is(err, ErrStaleSession) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("unable to ingest session %s: %w", update.Token, err)
	}

	if session.CallStatus == internal_entity.SessionEnded {
		event = EventCallEnded
		s.finish(ctx, &session)
	}

	if s.publisher != nil {
		s.publisher.Publish(session.OrganizationId, event, &session)
	}
	return &session, nil
}

// finish writes the CDR for an ended session and drops the live row. A call
// that was never connected counts as missed.
func (s *sessionService) finish(ctx context.Context, session *internal_entity.CallSession) {
	disposition := internal_entity.DispositionAnswered
	if session.AnsweredAt == nil {
		disposition = internal_entity.DispositionNoAnswer
	}

	ended := session.LastSeenAt
	log := &internal_entity.CallLog{
		SessionToken: session.Token,
		Direction:    session.Direction,
		CallerNumber: session.CallerNumber,
		CalleeNumber: session.CalleeNumber,
		ExtensionId:  session.ExtensionId,
		StartedAt:    session.StartedAt,
		AnsweredAt:   session.AnsweredAt,
		EndedAt:      &ended,
		Disposition:  disposition,
	}
	if err := s.callLogs.Append(ctx, session.OrganizationId, log); err != nil {
		s.logger.Errorw("unable to record call log for ended session",
			"token", session.Token, "error", err)
	}
	if err := s.postgres.DB(ctx).
		Where("token = ?", session.Token).
		Delete(&internal_entity.CallSession{}).Error; err != nil {
		s.logger.Warnw("unable to remove ended session", "token", session.Token, "error", err)
	}
}

// prune drops sessions the platform stopped reporting on. Runs on the read
// paths so the live view never shows dead legs.
func (s *sessionService) prune(ctx context.Context, organizationId uint64) {
	cutoff := time.Now().UTC().Add(-sessionStaleAfter)
	result := s.postgres.DB(ctx).
		Where("organization_id = ? AND last_seen_at < ?", organizationId, cutoff).
		Delete(&internal_entity.CallSession{})
	if result.Error != nil {
		s.logger.Warnw("unable to prune stale sessions", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Infof("pruned %d stale session(s)", result.RowsAffected)
	}
}

func (s *sessionService) Live(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.CallSession, error) {
	s.prune(ctx, auth.GetOrganizationId())

	var sessions []*internal_entity.CallSession
	if err := s.postgres.DB(ctx).
		Where("organization_id = ?", auth.GetOrganizationId()).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("unable to list live sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) StatusCounts(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.SessionStatusCount, error) {
	s.prune(ctx, auth.GetOrganizationId())

	var counts []*internal_entity.SessionStatusCount
	if err := s.postgres.DB(ctx).
		Model(&internal_entity.CallSession{}).
		Select("call_status, COUNT(*) AS count").
		Where("organization_id = ?", auth.GetOrganizationId()).
		Group("call_status").
		Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("unable to aggregate sessions: %w", err)
	}
	return counts, nil
}
