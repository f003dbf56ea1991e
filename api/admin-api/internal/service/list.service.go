// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// OutboundWhitelistService manages the outbound dialing allowlist.
type OutboundWhitelistService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.OutboundWhitelistEntry], error)
	Create(ctx context.Context, auth types.SimplePrinciple, entry *internal_entity.OutboundWhitelistEntry) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// IsAllowed applies the allowlist: an empty list allows everything,
	// otherwise the destination must match some prefix.
	IsAllowed(ctx context.Context, auth types.SimplePrinciple, number string) (bool, error)
}

type outboundWhitelistService struct {
	crud     *crudService[internal_entity.OutboundWhitelistEntry, *internal_entity.OutboundWhitelistEntry]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewOutboundWhitelistService(logger commons.Logger, postgres connectors.PostgresConnector) OutboundWhitelistService {
	svc := &outboundWhitelistService{postgres: postgres, logger: logger}

	crud := newCrudService[internal_entity.OutboundWhitelistEntry](postgres, logger)
	crud.searchColumns = []string{"prefix", "label"}
	crud.defaultOrder = "prefix ASC"
	crud.hooks = crudHooks[*internal_entity.OutboundWhitelistEntry]{
		beforeCreate: func(ctx context.Context, tx *gorm.DB, entry *internal_entity.OutboundWhitelistEntry) error {
			entry.Prefix = utils.NormalizeNumber(entry.Prefix)
			if entry.Prefix == "" {
				return fmt.Errorf("%w: prefix is required", ErrInvalidInput)
			}
			return nil
		},
	}
	svc.crud = crud
	return svc
}

func (s *outboundWhitelistService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.OutboundWhitelistEntry], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *outboundWhitelistService) Create(ctx context.Context, auth types.SimplePrinciple, entry *internal_entity.OutboundWhitelistEntry) error {
	return s.crud.Create(ctx, auth, entry)
}

func (s *outboundWhitelistService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *outboundWhitelistService) IsAllowed(ctx context.Context, auth types.SimplePrinciple, number string) (bool, error) {
	var entries []*internal_entity.OutboundWhitelistEntry
	if err := s.postgres.DB(ctx).
		Where("organization_id = ?", auth.GetOrganizationId()).
		Find(&entries).Error; err != nil {
		return false, fmt.Errorf("unable to load whitelist: %w", err)
	}
	if len(entries) == 0 {
		return true, nil
	}

	normalized := utils.NormalizeNumber(number)
	for _, entry := range entries {
		if strings.HasPrefix(normalized, entry.Prefix) {
			return true, nil
		}
	}
	return false, nil
}

// SentryBlacklistService manages the inbound caller blocklist.
type SentryBlacklistService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.SentryBlacklistEntry], error)
	Create(ctx context.Context, auth types.SimplePrinciple, entry *internal_entity.SentryBlacklistEntry) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// IsBlocked reports whether the caller number is blocklisted.
	IsBlocked(ctx context.Context, auth types.SimplePrinciple, number string) (bool, error)
}

type sentryBlacklistService struct {
	crud     *crudService[internal_entity.SentryBlacklistEntry, *internal_entity.SentryBlacklistEntry]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewSentryBlacklistService(logger commons.Logger, postgres connectors.PostgresConnector) SentryBlacklistService {
	svc := &sentryBlacklistService{postgres: postgres, logger: logger}

	crud := newCrudService[internal_entity.SentryBlacklistEntry](postgres, logger)
	crud.searchColumns = []string{"number", "reason"}
	crud.defaultOrder = "number ASC"
	crud.hooks = crudHooks[*internal_entity.SentryBlacklistEntry]{
		beforeCreate: func(ctx context.Context, tx *gorm.DB, entry *internal_entity.SentryBlacklistEntry) error {
			entry.Number = utils.NormalizeNumber(entry.Number)
			if entry.Number == "" {
				return fmt.Errorf("%w: number is required", ErrInvalidInput)
			}
			var count int64
			if err := tx.Model(&internal_entity.SentryBlacklistEntry{}).
				Where("organization_id = ? AND number = ?", entry.OrganizationId, entry.Number).
				Count(&count).Error; err != nil {
				return fmt.Errorf("unable to check blacklist: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("%w: %s", ErrNumberTaken, entry.Number)
			}
			return nil
		},
	}
	svc.crud = crud
	return svc
}

func (s *sentryBlacklistService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.SentryBlacklistEntry], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *sentryBlacklistService) Create(ctx context.Context, auth types.SimplePrinciple, entry *internal_entity.SentryBlacklistEntry) error {
	return s.crud.Create(ctx, auth, entry)
}

func (s *sentryBlacklistService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *sentryBlacklistService) IsBlocked(ctx context.Context, auth types.SimplePrinciple, number string) (bool, error) {
	var count int64
	if err := s.postgres.DB(ctx).Model(&internal_entity.SentryBlacklistEntry{}).
		Where("organization_id = ? AND number = ?", auth.GetOrganizationId(), utils.NormalizeNumber(number)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("unable to check blacklist: %w", err)
	}
	return count > 0, nil
}
