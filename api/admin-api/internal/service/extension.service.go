// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"gorm.io/gorm"

	internal_cloudonix "github.com/rapidaai/pbx-admin/api/admin-api/internal/cloudonix"
	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// ExtensionService manages PBX extensions and keeps each one paired with a
// Cloudonix subscriber.
type ExtensionService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.Extension], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Extension, error)
	Create(ctx context.Context, auth types.SimplePrinciple, extension *internal_entity.Extension) error
	Update(ctx context.Context, auth types.SimplePrinciple, extension *internal_entity.Extension) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// RegenerateSipPassword rotates the SIP credential and pushes it to
	// Cloudonix. The clear password is returned once for display.
	RegenerateSipPassword(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Extension, error)
}

type extensionService struct {
	crud       *crudService[internal_entity.Extension, *internal_entity.Extension]
	postgres   connectors.PostgresConnector
	logger     commons.Logger
	subscriber internal_cloudonix.SubscriberService
}

func NewExtensionService(logger commons.Logger, postgres connectors.PostgresConnector, subscriber internal_cloudonix.SubscriberService) ExtensionService {
	svc := &extensionService{
		postgres:   postgres,
		logger:     logger,
		subscriber: subscriber,
	}

	crud := newCrudService[internal_entity.Extension](postgres, logger)
	crud.searchColumns = []string{"number", "display_name"}
	crud.defaultOrder = "number ASC"
	crud.hooks = crudHooks[*internal_entity.Extension]{
		beforeCreate: svc.beforeSave,
		afterCreate:  svc.afterCreate,
		beforeUpdate: svc.beforeUpdate,
		afterUpdate:  svc.afterUpdate,
		beforeDelete: svc.beforeDelete,
		afterDelete:  svc.afterDelete,
	}
	svc.crud = crud
	return svc
}

func (s *extensionService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.Extension], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *extensionService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Extension, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *extensionService) Create(ctx context.Context, auth types.SimplePrinciple, extension *internal_entity.Extension) error {
	return s.crud.Create(ctx, auth, extension)
}

func (s *extensionService) Update(ctx context.Context, auth types.SimplePrinciple, extension *internal_entity.Extension) error {
	return s.crud.Update(ctx, auth, extension)
}

func (s *extensionService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *extensionService) RegenerateSipPassword(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.Extension, error) {
	extension, err := s.crud.Get(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	extension.SipPassword = generateSipPassword()
	if err := s.crud.Update(ctx, auth, extension); err != nil {
		return nil, err
	}
	return extension, nil
}

func (s *extensionService) beforeSave(ctx context.Context, tx *gorm.DB, extension *internal_entity.Extension) error {
	if !utils.IsValidExtensionNumber(extension.Number) {
		return fmt.Errorf("%w: extension number must be 2-6 digits", ErrInvalidInput)
	}
	if utils.IsEmpty(extension.DisplayName) {
		return fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if extension.SipPassword == "" {
		extension.SipPassword = generateSipPassword()
	}
	return s.checkNumberFree(tx, extension)
}

func (s *extensionService) beforeUpdate(ctx context.Context, tx *gorm.DB, existing, extension *internal_entity.Extension) error {
	// Keep provisioning state and credential across field edits.
	if extension.SipPassword == "" {
		extension.SipPassword = existing.SipPassword
	}
	if extension.CloudonixSubscriberId == "" {
		extension.CloudonixSubscriberId = existing.CloudonixSubscriberId
	}
	return s.beforeSave(ctx, tx, extension)
}

func (s *extensionService) checkNumberFree(tx *gorm.DB, extension *internal_entity.Extension) error {
	var count int64
	if err := tx.Model(&internal_entity.Extension{}).
		Where("organization_id = ? AND number = ? AND id <> ?",
			extension.OrganizationId, extension.Number, extension.Id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check extension number: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: extension %s", ErrNumberTaken, extension.Number)
	}
	return nil
}

// afterCreate provisions the Cloudonix subscriber inside the create
// transaction: a provisioning failure rolls the extension back.
func (s *extensionService) afterCreate(ctx context.Context, tx *gorm.DB, extension *internal_entity.Extension) error {
	subscriberId, err := s.subscriber.ProvisionExtension(ctx, s.domainFor(tx, extension.OrganizationId), extension)
	if err != nil {
		return err
	}

	extension.CloudonixSubscriberId = subscriberId
	if err := tx.Model(extension).Update("cloudonix_subscriber_id", subscriberId).Error; err != nil {
		return fmt.Errorf("unable to persist subscriber id: %w", err)
	}
	return nil
}

func (s *extensionService) afterUpdate(ctx context.Context, tx *gorm.DB, extension *internal_entity.Extension) error {
	if err := s.subscriber.SyncExtension(ctx, s.domainFor(tx, extension.OrganizationId), extension); err != nil {
		return err
	}
	if extension.CloudonixSubscriberId != "" {
		if err := tx.Model(extension).Update("cloudonix_subscriber_id", extension.CloudonixSubscriberId).Error; err != nil {
			return fmt.Errorf("unable to persist subscriber id: %w", err)
		}
	}
	return nil
}

// beforeDelete drops the extension out of every ring group so member lists
// never point at a missing row.
func (s *extensionService) beforeDelete(ctx context.Context, tx *gorm.DB, extension *internal_entity.Extension) error {
	if err := tx.Where("organization_id = ? AND extension_id = ?",
		extension.OrganizationId, extension.Id).
		Delete(&internal_entity.RingGroupMember{}).Error; err != nil {
		return fmt.Errorf("unable to remove ring group memberships: %w", err)
	}
	return nil
}

// afterDelete deprovisions best effort: the local row is already gone, so a
// platform failure is logged and the orphan cleaned up by the next sync.
func (s *extensionService) afterDelete(ctx context.Context, tx *gorm.DB, extension *internal_entity.Extension) error {
	if err := s.subscriber.DeprovisionExtension(ctx, s.domainFor(tx, extension.OrganizationId), extension); err != nil {
		s.logger.Errorw("cloudonix deprovisioning failed, subscriber orphaned",
			"extension", extension.Number, "subscriber", extension.CloudonixSubscriberId, "error", err)
	}
	return nil
}

// domainFor resolves the organization's Cloudonix domain, falling back to
// the platform default.
func (s *extensionService) domainFor(tx *gorm.DB, organizationId uint64) string {
	var org internal_entity.Organization
	if err := tx.First(&org, "id = ?", organizationId).Error; err == nil && org.CloudonixDomain != "" {
		return org.CloudonixDomain
	}
	return s.subscriber.DefaultDomain()
}

func generateSipPassword() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
