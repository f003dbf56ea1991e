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

// MenuReference names one resource still routing to an IVR menu. Returned
// alongside ErrMenuInUse so the caller can show what blocks the delete.
type MenuReference struct {
	Kind string `json:"kind"`
	Id   uint64 `json:"id"`
	Name string `json:"name"`
}

// IvrMenuService manages IVR menus and their digit options. A menu cannot
// be deleted while anything still routes to it.
type IvrMenuService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.IvrMenu], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.IvrMenu, error)
	Create(ctx context.Context, auth types.SimplePrinciple, menu *internal_entity.IvrMenu) error
	Update(ctx context.Context, auth types.SimplePrinciple, menu *internal_entity.IvrMenu) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// References lists everything still routing to the menu.
	References(ctx context.Context, auth types.SimplePrinciple, menuId uint64) ([]MenuReference, error)

	SetOption(ctx context.Context, auth types.SimplePrinciple, menuId uint64, option *internal_entity.IvrMenuOption) error
	RemoveOption(ctx context.Context, auth types.SimplePrinciple, menuId uint64, digit string) error
}

type ivrMenuService struct {
	crud     *crudService[internal_entity.IvrMenu, *internal_entity.IvrMenu]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewIvrMenuService(logger commons.Logger, postgres connectors.PostgresConnector) IvrMenuService {
	svc := &ivrMenuService{postgres: postgres, logger: logger}

	crud := newCrudService[internal_entity.IvrMenu](postgres, logger)
	crud.searchColumns = []string{"name"}
	crud.defaultOrder = "name ASC"
	crud.preloads = []preload{{relation: "Options", scope: func(db *gorm.DB) *gorm.DB {
		return db.Order("digit ASC")
	}}}
	crud.hooks = crudHooks[*internal_entity.IvrMenu]{
		beforeCreate: svc.beforeSave,
		beforeUpdate: func(ctx context.Context, tx *gorm.DB, existing, menu *internal_entity.IvrMenu) error {
			return svc.beforeSave(ctx, tx, menu)
		},
		beforeDelete: svc.beforeDelete,
	}
	svc.crud = crud
	return svc
}

func (s *ivrMenuService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.IvrMenu], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *ivrMenuService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.IvrMenu, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *ivrMenuService) Create(ctx context.Context, auth types.SimplePrinciple, menu *internal_entity.IvrMenu) error {
	options := menu.Options
	menu.Options = nil
	if err := s.crud.Create(ctx, auth, menu); err != nil {
		return err
	}
	for _, option := range options {
		if err := s.SetOption(ctx, auth, menu.Id, option); err != nil {
			return err
		}
	}
	return nil
}

func (s *ivrMenuService) Update(ctx context.Context, auth types.SimplePrinciple, menu *internal_entity.IvrMenu) error {
	menu.Options = nil
	return s.crud.Update(ctx, auth, menu)
}

func (s *ivrMenuService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

// References runs the three existence checks gating menu deletion: phone
// number routes, ring group fallbacks, and options of other menus.
func (s *ivrMenuService) References(ctx context.Context, auth types.SimplePrinciple, menuId uint64) ([]MenuReference, error) {
	if _, err := s.crud.Get(ctx, auth, menuId); err != nil {
		return nil, err
	}
	return s.collectReferences(s.postgres.DB(ctx), auth.GetOrganizationId(), menuId)
}

func (s *ivrMenuService) collectReferences(tx *gorm.DB, organizationId, menuId uint64) ([]MenuReference, error) {
	var references []MenuReference

	var numbers []*internal_entity.PhoneNumber
	if err := tx.Where("organization_id = ? AND route_type = ? AND route_target_id = ?",
		organizationId, internal_entity.DestinationIvrMenu, menuId).
		Find(&numbers).Error; err != nil {
		return nil, fmt.Errorf("unable to check phone number routes: %w", err)
	}
	for _, number := range numbers {
		references = append(references, MenuReference{Kind: "phone_number", Id: number.Id, Name: number.Number})
	}

	var groups []*internal_entity.RingGroup
	if err := tx.Where("organization_id = ? AND fallback_type = ? AND fallback_target_id = ?",
		organizationId, internal_entity.DestinationIvrMenu, menuId).
		Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("unable to check ring group fallbacks: %w", err)
	}
	for _, group := range groups {
		references = append(references, MenuReference{Kind: "ring_group", Id: group.Id, Name: group.Name})
	}

	var options []*internal_entity.IvrMenuOption
	if err := tx.Where("organization_id = ? AND destination_type = ? AND destination_target_id = ? AND ivr_menu_id <> ?",
		organizationId, internal_entity.DestinationIvrMenu, menuId, menuId).
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("unable to check ivr menu options: %w", err)
	}
	for _, option := range options {
		references = append(references, MenuReference{Kind: "ivr_menu_option", Id: option.IvrMenuId, Name: "digit " + option.Digit})
	}

	return references, nil
}

func (s *ivrMenuService) beforeSave(ctx context.Context, tx *gorm.DB, menu *internal_entity.IvrMenu) error {
	if utils.IsEmpty(menu.Name) {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utils.IsEmpty(menu.PromptText) && menu.RecordingId == 0 {
		return fmt.Errorf("%w: menu needs prompt text or a recording", ErrInvalidInput)
	}
	if menu.RecordingId != 0 {
		if err := destinationRowExists(tx, &internal_entity.Recording{}, menu.OrganizationId, menu.RecordingId, "recording"); err != nil {
			return err
		}
	}
	if menu.TimeoutSec <= 0 {
		menu.TimeoutSec = 5
	}
	if menu.MaxAttempts <= 0 {
		menu.MaxAttempts = 3
	}
	if !menu.TimeoutDestination.IsZero() {
		if err := validateDestination(tx, menu.OrganizationId, menu.TimeoutDestination); err != nil {
			return err
		}
	}
	if !menu.InvalidDestination.IsZero() {
		if err := validateDestination(tx, menu.OrganizationId, menu.InvalidDestination); err != nil {
			return err
		}
	}
	return nil
}

func (s *ivrMenuService) beforeDelete(ctx context.Context, tx *gorm.DB, menu *internal_entity.IvrMenu) error {
	references, err := s.collectReferences(tx, menu.OrganizationId, menu.Id)
	if err != nil {
		return err
	}
	if len(references) > 0 {
		return fmt.Errorf("%w: %d referencing resource(s)", ErrMenuInUse, len(references))
	}

	if err := tx.Where("ivr_menu_id = ?", menu.Id).
		Delete(&internal_entity.IvrMenuOption{}).Error; err != nil {
		return fmt.Errorf("unable to remove options of menu %d: %w", menu.Id, err)
	}
	return nil
}

// SetOption binds a digit, replacing any existing binding for it.
func (s *ivrMenuService) SetOption(ctx context.Context, auth types.SimplePrinciple, menuId uint64, option *internal_entity.IvrMenuOption) error {
	menu, err := s.crud.Get(ctx, auth, menuId)
	if err != nil {
		return err
	}
	if !internal_entity.ValidIvrDigits()[option.Digit] {
		return fmt.Errorf("%w: digit must be 0-9, * or #", ErrInvalidInput)
	}

	return s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateDestination(tx, menu.OrganizationId, option.Destination); err != nil {
			return err
		}

		if err := tx.Where("ivr_menu_id = ? AND digit = ?", menuId, option.Digit).
			Delete(&internal_entity.IvrMenuOption{}).Error; err != nil {
			return fmt.Errorf("unable to replace option: %w", err)
		}

		option.Id = 0
		option.IvrMenuId = menuId
		option.OrganizationId = menu.OrganizationId
		if err := tx.Create(option).Error; err != nil {
			return fmt.Errorf("unable to create option: %w", err)
		}
		return nil
	})
}

func (s *ivrMenuService) RemoveOption(ctx context.Context, auth types.SimplePrinciple, menuId uint64, digit string) error {
	if _, err := s.crud.Get(ctx, auth, menuId); err != nil {
		return err
	}

	result := s.postgres.DB(ctx).
		Where("ivr_menu_id = ? AND digit = ?", menuId, digit).
		Delete(&internal_entity.IvrMenuOption{})
	if result.Error != nil {
		return fmt.Errorf("unable to remove option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
