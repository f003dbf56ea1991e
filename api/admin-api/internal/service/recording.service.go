// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// RecordingService manages prompt-audio metadata. Upload/storage of the
// audio itself happens out of band; this tracks the catalog.
type RecordingService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.Recording], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Recording, error)
	Create(ctx context.Context, auth types.SimplePrinciple, recording *internal_entity.Recording) error
	Update(ctx context.Context, auth types.SimplePrinciple, recording *internal_entity.Recording) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error
}

type recordingService struct {
	crud   *crudService[internal_entity.Recording, *internal_entity.Recording]
	logger commons.Logger
}

func NewRecordingService(logger commons.Logger, postgres connectors.PostgresConnector) RecordingService {
	svc := &recordingService{logger: logger}

	crud := newCrudService[internal_entity.Recording](postgres, logger)
	crud.searchColumns = []string{"name"}
	crud.defaultOrder = "name ASC"
	crud.hooks = crudHooks[*internal_entity.Recording]{
		beforeCreate: svc.beforeSave,
		beforeUpdate: func(ctx context.Context, tx *gorm.DB, existing, recording *internal_entity.Recording) error {
			return svc.beforeSave(ctx, tx, recording)
		},
		beforeDelete: svc.beforeDelete,
	}
	svc.crud = crud
	return svc
}

func (s *recordingService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.Recording], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *recordingService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Recording, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *recordingService) Create(ctx context.Context, auth types.SimplePrinciple, recording *internal_entity.Recording) error {
	return s.crud.Create(ctx, auth, recording)
}

func (s *recordingService) Update(ctx context.Context, auth types.SimplePrinciple, recording *internal_entity.Recording) error {
	return s.crud.Update(ctx, auth, recording)
}

func (s *recordingService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *recordingService) beforeSave(ctx context.Context, tx *gorm.DB, recording *internal_entity.Recording) error {
	if utils.IsEmpty(recording.Name) {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utils.IsEmpty(recording.StoragePath) {
		return fmt.Errorf("%w: storage path is required", ErrInvalidInput)
	}
	return nil
}

func (s *recordingService) beforeDelete(ctx context.Context, tx *gorm.DB, recording *internal_entity.Recording) error {
	var count int64
	if err := tx.Model(&internal_entity.IvrMenu{}).
		Where("organization_id = ? AND recording_id = ?", recording.OrganizationId, recording.Id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check ivr prompt references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d menu(s)", ErrRecordingInUse, count)
	}
	return nil
}
