// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// BusinessHoursService manages time-of-day routing sets.
type BusinessHoursService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.BusinessHoursSet], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.BusinessHoursSet, error)
	Create(ctx context.Context, auth types.SimplePrinciple, set *internal_entity.BusinessHoursSet) error
	Update(ctx context.Context, auth types.SimplePrinciple, set *internal_entity.BusinessHoursSet) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// IsOpenAt evaluates the set's windows at the given instant in the
	// set's timezone.
	IsOpenAt(set *internal_entity.BusinessHoursSet, at time.Time) (bool, error)
}

type businessHoursService struct {
	crud     *crudService[internal_entity.BusinessHoursSet, *internal_entity.BusinessHoursSet]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewBusinessHoursService(logger commons.Logger, postgres connectors.PostgresConnector) BusinessHoursService {
	svc := &businessHoursService{postgres: postgres, logger: logger}

	crud := newCrudService[internal_entity.BusinessHoursSet](postgres, logger)
	crud.searchColumns = []string{"name"}
	crud.defaultOrder = "name ASC"
	crud.preloads = []preload{{relation: "Rules", scope: func(db *gorm.DB) *gorm.DB {
		return db.Order("weekday ASC, open_time ASC")
	}}}
	crud.hooks = crudHooks[*internal_entity.BusinessHoursSet]{
		beforeCreate: svc.beforeSave,
		afterCreate:  svc.saveRules,
		beforeUpdate: func(ctx context.Context, tx *gorm.DB, existing, set *internal_entity.BusinessHoursSet) error {
			return svc.beforeSave(ctx, tx, set)
		},
		afterUpdate:  svc.saveRules,
		beforeDelete: svc.beforeDelete,
	}
	svc.crud = crud
	return svc
}

func (s *businessHoursService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.BusinessHoursSet], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *businessHoursService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.BusinessHoursSet, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *businessHoursService) Create(ctx context.Context, auth types.SimplePrinciple, set *internal_entity.BusinessHoursSet) error {
	return s.crud.Create(ctx, auth, set)
}

func (s *businessHoursService) Update(ctx context.Context, auth types.SimplePrinciple, set *internal_entity.BusinessHoursSet) error {
	return s.crud.Update(ctx, auth, set)
}

func (s *businessHoursService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *businessHoursService) beforeSave(ctx context.Context, tx *gorm.DB, set *internal_entity.BusinessHoursSet) error {
	if utils.IsEmpty(set.Name) {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if set.Timezone == "" {
		set.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(set.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, set.Timezone)
	}

	for _, rule := range set.Rules {
		if rule.Weekday < 0 || rule.Weekday > 6 {
			return fmt.Errorf("%w: weekday must be 0-6", ErrInvalidInput)
		}
		if _, err := parseClock(rule.OpenTime); err != nil {
			return fmt.Errorf("%w: open time %q", ErrInvalidInput, rule.OpenTime)
		}
		if _, err := parseClock(rule.CloseTime); err != nil {
			return fmt.Errorf("%w: close time %q", ErrInvalidInput, rule.CloseTime)
		}
		if rule.OpenTime == rule.CloseTime {
			return fmt.Errorf("%w: empty window on weekday %d", ErrInvalidInput, rule.Weekday)
		}
	}

	if !set.OpenDestination.IsZero() {
		if err := validateDestination(tx, set.OrganizationId, set.OpenDestination); err != nil {
			return err
		}
	}
	if !set.ClosedDestination.IsZero() {
		if err := validateDestination(tx, set.OrganizationId, set.ClosedDestination); err != nil {
			return err
		}
	}
	return nil
}

// saveRules replaces the rule rows with the ones carried on the set.
func (s *businessHoursService) saveRules(ctx context.Context, tx *gorm.DB, set *internal_entity.BusinessHoursSet) error {
	if err := tx.Where("business_hours_set_id = ?", set.Id).
		Delete(&internal_entity.BusinessHoursRule{}).Error; err != nil {
		return fmt.Errorf("unable to clear rules: %w", err)
	}
	for _, rule := range set.Rules {
		rule.Id = 0
		rule.BusinessHoursSetId = set.Id
		rule.OrganizationId = set.OrganizationId
		if err := tx.Create(rule).Error; err != nil {
			return fmt.Errorf("unable to save rule: %w", err)
		}
	}
	return nil
}

func (s *businessHoursService) beforeDelete(ctx context.Context, tx *gorm.DB, set *internal_entity.BusinessHoursSet) error {
	var count int64
	if err := tx.Model(&internal_entity.PhoneNumber{}).
		Where("organization_id = ? AND business_hours_set_id = ?", set.OrganizationId, set.Id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check phone number references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d phone number(s) still use this business hours set", ErrInvalidInput, count)
	}

	if err := tx.Where("business_hours_set_id = ?", set.Id).
		Delete(&internal_entity.BusinessHoursRule{}).Error; err != nil {
		return fmt.Errorf("unable to remove rules: %w", err)
	}
	return nil
}

// parseClock parses "HH:MM" into minutes since midnight. The whole value
// must be the clock; Sscanf alone would ignore trailing text.
func parseClock(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("malformed clock %q", value)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%2d:%2d", &hour, &minute); err != nil {
		return 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("out of range clock %q", value)
	}
	return hour*60 + minute, nil
}

func (s *businessHoursService) IsOpenAt(set *internal_entity.BusinessHoursSet, at time.Time) (bool, error) {
	location, err := time.LoadLocation(set.Timezone)
	if err != nil {
		return false, fmt.Errorf("unknown timezone %q: %w", set.Timezone, err)
	}
	local := at.In(location)
	minutes := local.Hour()*60 + local.Minute()
	weekday := int(local.Weekday())

	for _, rule := range set.Rules {
		open, err := parseClock(rule.OpenTime)
		if err != nil {
			continue
		}
		closeAt, err := parseClock(rule.CloseTime)
		if err != nil {
			continue
		}

		if open < closeAt {
			if rule.Weekday == weekday && minutes >= open && minutes < closeAt {
				return true, nil
			}
		} else {
			// Overnight window: open..midnight on the rule's day,
			// midnight..close on the following day.
			if rule.Weekday == weekday && minutes >= open {
				return true, nil
			}
			if (rule.Weekday+1)%7 == weekday && minutes < closeAt {
				return true, nil
			}
		}
	}
	return false, nil
}
