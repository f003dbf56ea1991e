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

	internal_cloudonix "github.com/rapidaai/pbx-admin/api/admin-api/internal/cloudonix"
	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	type_enums "github.com/rapidaai/pbx-admin/pkg/types/enums"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// PhoneNumberService manages inbound DIDs and keeps each one's Cloudonix
// voice application in step with its route.
type PhoneNumberService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.PhoneNumber], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.PhoneNumber, error)
	Create(ctx context.Context, auth types.SimplePrinciple, number *internal_entity.PhoneNumber) error
	Update(ctx context.Context, auth types.SimplePrinciple, number *internal_entity.PhoneNumber) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error
}

type phoneNumberService struct {
	crud       *crudService[internal_entity.PhoneNumber, *internal_entity.PhoneNumber]
	postgres   connectors.PostgresConnector
	logger     commons.Logger
	subscriber internal_cloudonix.SubscriberService
}

func NewPhoneNumberService(logger commons.Logger, postgres connectors.PostgresConnector, subscriber internal_cloudonix.SubscriberService) PhoneNumberService {
	svc := &phoneNumberService{postgres: postgres, logger: logger, subscriber: subscriber}

	crud := newCrudService[internal_entity.PhoneNumber](postgres, logger)
	crud.searchColumns = []string{"number", "label"}
	crud.defaultOrder = "number ASC"
	crud.hooks = crudHooks[*internal_entity.PhoneNumber]{
		beforeCreate: svc.beforeSave,
		afterCreate:  svc.syncApplication,
		beforeUpdate: svc.beforeUpdate,
		afterUpdate:  svc.syncApplication,
		afterDelete:  svc.removeApplication,
	}
	svc.crud = crud
	return svc
}

func (s *phoneNumberService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.PhoneNumber], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *phoneNumberService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.PhoneNumber, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *phoneNumberService) Create(ctx context.Context, auth types.SimplePrinciple, number *internal_entity.PhoneNumber) error {
	return s.crud.Create(ctx, auth, number)
}

func (s *phoneNumberService) Update(ctx context.Context, auth types.SimplePrinciple, number *internal_entity.PhoneNumber) error {
	return s.crud.Update(ctx, auth, number)
}

func (s *phoneNumberService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *phoneNumberService) beforeSave(ctx context.Context, tx *gorm.DB, number *internal_entity.PhoneNumber) error {
	number.Number = utils.NormalizeNumber(number.Number)
	if !utils.IsValidE164(number.Number) {
		return fmt.Errorf("%w: number must be E.164 (+ and 7-15 digits)", ErrInvalidInput)
	}

	var count int64
	if err := tx.Model(&internal_entity.PhoneNumber{}).
		Where("number = ? AND id <> ?", number.Number, number.Id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check phone number: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrNumberTaken, number.Number)
	}

	if err := validateDestination(tx, number.OrganizationId, number.Route); err != nil {
		return err
	}
	if number.BusinessHoursSetId != 0 {
		if err := destinationRowExists(tx, &internal_entity.BusinessHoursSet{}, number.OrganizationId, number.BusinessHoursSetId, "business hours set"); err != nil {
			return err
		}
	}
	return nil
}

func (s *phoneNumberService) beforeUpdate(ctx context.Context, tx *gorm.DB, existing, number *internal_entity.PhoneNumber) error {
	if number.CloudonixApplicationId == "" {
		number.CloudonixApplicationId = existing.CloudonixApplicationId
	}
	return s.beforeSave(ctx, tx, number)
}

// syncApplication pushes the DID's routing application after create/update.
func (s *phoneNumberService) syncApplication(ctx context.Context, tx *gorm.DB, number *internal_entity.PhoneNumber) error {
	applicationId, err := s.subscriber.SyncPhoneNumber(ctx, s.domainFor(tx, number.OrganizationId), number)
	if err != nil {
		return err
	}
	if applicationId != number.CloudonixApplicationId {
		number.CloudonixApplicationId = applicationId
		if err := tx.Model(number).Update("cloudonix_application_id", applicationId).Error; err != nil {
			return fmt.Errorf("unable to persist application id: %w", err)
		}
	}
	return nil
}

func (s *phoneNumberService) removeApplication(ctx context.Context, tx *gorm.DB, number *internal_entity.PhoneNumber) error {
	if number.CloudonixApplicationId == "" {
		return nil
	}
	// Best effort: the DID row is already gone locally, push the
	// application as inactive so the platform stops routing it.
	number.Status = type_enums.RecordStateDeleted
	if _, err := s.subscriber.SyncPhoneNumber(ctx, s.domainFor(tx, number.OrganizationId), number); err != nil {
		s.logger.Warnw("unable to deactivate voice application",
			"number", number.Number, "application", number.CloudonixApplicationId, "error", err)
	}
	return nil
}

func (s *phoneNumberService) domainFor(tx *gorm.DB, organizationId uint64) string {
	var org internal_entity.Organization
	if err := tx.First(&org, "id = ?", organizationId).Error; err == nil && org.CloudonixDomain != "" {
		return org.CloudonixDomain
	}
	return s.subscriber.DefaultDomain()
}
