// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// AuditService records and lists the mutation trail. Append never fails a
// request: audit write errors are logged, not propagated.
type AuditService interface {
	Append(ctx context.Context, entry *internal_entity.AuditLog)
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.AuditLog], error)
}

type auditService struct {
	crud     *crudService[internal_entity.AuditLog, *internal_entity.AuditLog]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewAuditService(logger commons.Logger, postgres connectors.PostgresConnector) AuditService {
	crud := newCrudService[internal_entity.AuditLog](postgres, logger)
	crud.searchColumns = []string{"path", "actor_email"}
	crud.defaultOrder = "created_date DESC"
	return &auditService{crud: crud, postgres: postgres, logger: logger}
}

func (s *auditService) Append(ctx context.Context, entry *internal_entity.AuditLog) {
	if err := s.postgres.DB(ctx).Create(entry).Error; err != nil {
		s.logger.Errorw("unable to write audit entry", "path", entry.Path, "error", err)
	}
}

func (s *auditService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.AuditLog], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}
