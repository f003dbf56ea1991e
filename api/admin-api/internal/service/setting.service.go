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

	"gorm.io/gorm"

	internal_cloudonix "github.com/rapidaai/pbx-admin/api/admin-api/internal/cloudonix"
	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// SettingService manages org-scoped key/value settings. Reads go through
// the redis query cache attached to the postgres connector.
type SettingService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.Setting, error)
	Get(ctx context.Context, auth types.SimplePrinciple, key string) (*internal_entity.Setting, error)
	Upsert(ctx context.Context, auth types.SimplePrinciple, key, value string) (*internal_entity.Setting, error)
	Delete(ctx context.Context, auth types.SimplePrinciple, key string) error

	// SyncCloudonix pushes the organization's PBX defaults to the platform
	// by re-syncing every provisioned extension.
	SyncCloudonix(ctx context.Context, auth types.SimplePrinciple) (int, error)
}

type settingService struct {
	postgres   connectors.PostgresConnector
	logger     commons.Logger
	subscriber internal_cloudonix.SubscriberService
}

func NewSettingService(logger commons.Logger, postgres connectors.PostgresConnector, subscriber internal_cloudonix.SubscriberService) SettingService {
	return &settingService{postgres: postgres, logger: logger, subscriber: subscriber}
}

func (s *settingService) GetAll(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.Setting, error) {
	var settings []*internal_entity.Setting
	if err := s.postgres.DB(ctx).
		Where("organization_id = ?", auth.GetOrganizationId()).
		Order("key ASC").
		Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("unable to list settings: %w", err)
	}
	return settings, nil
}

func (s *settingService) Get(ctx context.Context, auth types.SimplePrinciple, key string) (*internal_entity.Setting, error) {
	var setting internal_entity.Setting
	err := s.postgres.DB(ctx).
		Where("organization_id = ? AND key = ?", auth.GetOrganizationId(), key).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get setting %s: %w", key, err)
	}
	return &setting, nil
}

func (s *settingService) Upsert(ctx context.Context, auth types.SimplePrinciple, key, value string) (*internal_entity.Setting, error) {
	if utils.IsEmpty(key) {
		return nil, fmt.Errorf("%w: setting key is required", ErrInvalidInput)
	}

	var setting internal_entity.Setting
	err := s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("organization_id = ? AND key = ?", auth.GetOrganizationId(), key).
			First(&setting).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = internal_entity.Setting{Key: key, Value: value}
			setting.OrganizationId = auth.GetOrganizationId()
			return tx.Create(&setting).Error
		case err != nil:
			return err
		default:
			setting.Value = value
			return tx.Save(&setting).Error
		}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to upsert setting %s: %w", key, err)
	}
	return &setting, nil
}

func (s *settingService) Delete(ctx context.Context, auth types.SimplePrinciple, key string) error {
	result := s.postgres.DB(ctx).
		Where("organization_id = ? AND key = ?", auth.GetOrganizationId(), key).
		Delete(&internal_entity.Setting{})
	if result.Error != nil {
		return fmt.Errorf("unable to delete setting %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *settingService) SyncCloudonix(ctx context.Context, auth types.SimplePrinciple) (int, error) {
	db := s.postgres.DB(ctx)

	var org internal_entity.Organization
	if err := db.First(&org, "id = ?", auth.GetOrganizationId()).Error; err != nil {
		return 0, fmt.Errorf("unable to load organization: %w", err)
	}
	domain := org.CloudonixDomain
	if domain == "" {
		domain = s.subscriber.DefaultDomain()
	}

	var extensions []*internal_entity.Extension
	if err := db.Where("organization_id = ?", auth.GetOrganizationId()).
		Find(&extensions).Error; err != nil {
		return 0, fmt.Errorf("unable to load extensions: %w", err)
	}

	synced := 0
	for _, extension := range extensions {
		if err := s.subscriber.SyncExtension(ctx, domain, extension); err != nil {
			s.logger.Warnw("extension sync failed", "extension", extension.Number, "error", err)
			continue
		}
		if err := db.Model(extension).
			Update("cloudonix_subscriber_id", extension.CloudonixSubscriberId).Error; err != nil {
			return synced, fmt.Errorf("unable to persist subscriber id: %w", err)
		}
		synced++
	}

	s.logger.Infof("cloudonix sync finished: %d/%d extensions", synced, len(extensions))
	return synced, nil
}
