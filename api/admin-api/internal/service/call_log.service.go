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
)

// CallLogFilter narrows the CDR listing. Zero values mean "no filter".
type CallLogFilter struct {
	From        time.Time `form:"from" json:"from"`
	To          time.Time `form:"to" json:"to"`
	Direction   string    `form:"direction" json:"direction"`
	Disposition string    `form:"disposition" json:"disposition"`
	ExtensionId uint64    `form:"extension_id" json:"extensionId"`
	Number      string    `form:"number" json:"number"`
}

// CallLogService is the read side of the call detail records. Rows are
// written by the call pipeline and never mutated here.
type CallLogService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, filter CallLogFilter) (*types.PageResult[*internal_entity.CallLog], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.CallLog, error)

	// Append records a finished call. Used by the session ingest path when a
	// live session transitions to ended.
	Append(ctx context.Context, organizationId uint64, log *internal_entity.CallLog) error

	// Summary groups the filtered window per day, counting total, answered
	// and missed calls.
	Summary(ctx context.Context, auth types.SimplePrinciple, filter CallLogFilter) ([]*internal_entity.CallLogDailyCount, error)
}

type callLogService struct {
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewCallLogService(logger commons.Logger, postgres connectors.PostgresConnector) CallLogService {
	return &callLogService{postgres: postgres, logger: logger}
}

func (s *callLogService) filtered(db *gorm.DB, auth types.SimplePrinciple, filter CallLogFilter) *gorm.DB {
	db = db.Where("organization_id = ?", auth.GetOrganizationId())
	if !filter.From.IsZero() {
		db = db.Where("started_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("started_at < ?", filter.To)
	}
	if filter.Direction != "" {
		db = db.Where("direction = ?", filter.Direction)
	}
	if filter.Disposition != "" {
		db = db.Where("disposition = ?", filter.Disposition)
	}
	if filter.ExtensionId != 0 {
		db = db.Where("extension_id = ?", filter.ExtensionId)
	}
	if filter.Number != "" {
		db = db.Where("caller_number = ? OR callee_number = ?", filter.Number, filter.Number)
	}
	return db
}

func (s *callLogService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, filter CallLogFilter) (*types.PageResult[*internal_entity.CallLog], error) {
	paginate = paginate.Normalize()
	db := s.filtered(s.postgres.DB(ctx).Model(&internal_entity.CallLog{}), auth, filter)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("unable to count call logs: %w", err)
	}

	var logs []*internal_entity.CallLog
	if err := db.Order("started_at DESC").
		Offset(paginate.Offset()).
		Limit(paginate.PerPage).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("unable to list call logs: %w", err)
	}

	return &types.PageResult[*internal_entity.CallLog]{
		Items:       logs,
		TotalItem:   total,
		CurrentPage: paginate.Page,
		PerPage:     paginate.PerPage,
	}, nil
}

func (s *callLogService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.CallLog, error) {
	var log internal_entity.CallLog
	err := s.postgres.DB(ctx).
		Where("organization_id = ?", auth.GetOrganizationId()).
		First(&log, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get call log %d: %w", id, err)
	}
	return &log, nil
}

func (s *callLogService) Append(ctx context.Context, organizationId uint64, log *internal_entity.CallLog) error {
	log.OrganizationId = organizationId
	if log.EndedAt != nil && !log.StartedAt.IsZero() {
		log.DurationSec = int(log.EndedAt.Sub(log.StartedAt) / time.Second)
	}
	if err := s.postgres.DB(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("unable to append call log: %w", err)
	}
	return nil
}

func (s *callLogService) Summary(ctx context.Context, auth types.SimplePrinciple, filter CallLogFilter) ([]*internal_entity.CallLogDailyCount, error) {
	var rows []*internal_entity.CallLogDailyCount
	err := s.filtered(s.postgres.DB(ctx).Model(&internal_entity.CallLog{}), auth, filter).
		Select("DATE(started_at) AS day, COUNT(*) AS total,"+
			" SUM(CASE WHEN disposition = ? THEN 1 ELSE 0 END) AS answered,"+
			" SUM(CASE WHEN disposition <> ? THEN 1 ELSE 0 END) AS missed",
			internal_entity.DispositionAnswered, internal_entity.DispositionAnswered).
		Group("DATE(started_at)").
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("unable to summarize call logs: %w", err)
	}
	return rows, nil
}
