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
	"github.com/rapidaai/pbx-admin/pkg/locks"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

const (
	ringGroupLockTTL  = 30 * time.Second
	ringGroupLockWait = 5 * time.Second
)

func ringGroupLockKey(ringGroupId uint64) string {
	return fmt.Sprintf("lock:ring_group:%d", ringGroupId)
}

// RingGroupService manages ring groups. Member-list replacement is guarded
// by a per-group distributed lock so two concurrent editors cannot
// interleave the delete-then-insert and lose members.
type RingGroupService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.RingGroup], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.RingGroup, error)
	Create(ctx context.Context, auth types.SimplePrinciple, group *internal_entity.RingGroup) error
	Update(ctx context.Context, auth types.SimplePrinciple, group *internal_entity.RingGroup) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// ReplaceMembers swaps the whole ordered member list under the group's
	// lock. Returns locks.ErrNotAcquired when another editor holds it.
	ReplaceMembers(ctx context.Context, auth types.SimplePrinciple, ringGroupId uint64, extensionIds []uint64) (*internal_entity.RingGroup, error)
}

type ringGroupService struct {
	crud     *crudService[internal_entity.RingGroup, *internal_entity.RingGroup]
	postgres connectors.PostgresConnector
	logger   commons.Logger
	locker   locks.Locker
}

func NewRingGroupService(logger commons.Logger, postgres connectors.PostgresConnector, locker locks.Locker) RingGroupService {
	svc := &ringGroupService{
		postgres: postgres,
		logger:   logger,
		locker:   locker,
	}

	crud := newCrudService[internal_entity.RingGroup](postgres, logger)
	crud.searchColumns = []string{"name"}
	crud.defaultOrder = "name ASC"
	crud.preloads = []preload{{relation: "Members", scope: func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}}}
	crud.hooks = crudHooks[*internal_entity.RingGroup]{
		beforeCreate: svc.beforeSave,
		beforeUpdate: func(ctx context.Context, tx *gorm.DB, existing, group *internal_entity.RingGroup) error {
			return svc.beforeSave(ctx, tx, group)
		},
		beforeDelete: svc.beforeDelete,
	}
	svc.crud = crud
	return svc
}

func (s *ringGroupService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.RingGroup], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *ringGroupService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.RingGroup, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *ringGroupService) Create(ctx context.Context, auth types.SimplePrinciple, group *internal_entity.RingGroup) error {
	members := group.Members
	group.Members = nil
	if err := s.crud.Create(ctx, auth, group); err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ExtensionId)
	}
	updated, err := s.ReplaceMembers(ctx, auth, group.Id, ids)
	if err != nil {
		return err
	}
	group.Members = updated.Members
	return nil
}

func (s *ringGroupService) Update(ctx context.Context, auth types.SimplePrinciple, group *internal_entity.RingGroup) error {
	// Member edits go through ReplaceMembers; plain updates leave them alone.
	group.Members = nil
	return s.crud.Update(ctx, auth, group)
}

func (s *ringGroupService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	return s.crud.Delete(ctx, auth, id)
}

func (s *ringGroupService) ReplaceMembers(ctx context.Context, auth types.SimplePrinciple, ringGroupId uint64, extensionIds []uint64) (*internal_entity.RingGroup, error) {
	group, err := s.crud.Get(ctx, auth, ringGroupId)
	if err != nil {
		return nil, err
	}

	if err := validateMemberList(extensionIds); err != nil {
		return nil, err
	}

	lock, err := s.locker.Acquire(ctx, ringGroupLockKey(ringGroupId), ringGroupLockTTL, ringGroupLockWait)
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	err = s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		// Every extension must exist in this organization.
		if len(extensionIds) > 0 {
			var count int64
			if err := tx.Model(&internal_entity.Extension{}).
				Where("organization_id = ? AND id IN ?", group.OrganizationId, extensionIds).
				Count(&count).Error; err != nil {
				return fmt.Errorf("unable to verify member extensions: %w", err)
			}
			if count != int64(len(extensionIds)) {
				return fmt.Errorf("%w: one or more member extensions do not exist in this organization", ErrInvalidInput)
			}
		}

		if err := tx.Where("ring_group_id = ?", ringGroupId).
			Delete(&internal_entity.RingGroupMember{}).Error; err != nil {
			return fmt.Errorf("unable to clear member list: %w", err)
		}

		if len(extensionIds) == 0 {
			return nil
		}

		members := make([]*internal_entity.RingGroupMember, 0, len(extensionIds))
		for position, extensionId := range extensionIds {
			member := &internal_entity.RingGroupMember{
				RingGroupId: ringGroupId,
				ExtensionId: extensionId,
				Position:    position,
			}
			member.OrganizationId = group.OrganizationId
			members = append(members, member)
		}
		if err := tx.Create(&members).Error; err != nil {
			return fmt.Errorf("unable to insert member list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("replaced ring group members",
		"ring_group", ringGroupId, "members", len(extensionIds))

	return s.crud.Get(ctx, auth, ringGroupId)
}

func validateMemberList(extensionIds []uint64) error {
	seen := make(map[uint64]bool, len(extensionIds))
	for _, id := range extensionIds {
		if id == 0 {
			return fmt.Errorf("%w: member extension id is required", ErrInvalidInput)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate member extension %d", ErrInvalidInput, id)
		}
		seen[id] = true
	}
	return nil
}

func (s *ringGroupService) beforeSave(ctx context.Context, tx *gorm.DB, group *internal_entity.RingGroup) error {
	if utils.IsEmpty(group.Name) {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	switch group.Strategy {
	case internal_entity.StrategyRingAll, internal_entity.StrategyHunt, internal_entity.StrategyRoundRobin:
	case "":
		group.Strategy = internal_entity.StrategyRingAll
	default:
		return fmt.Errorf("%w: unknown ring strategy %q", ErrInvalidInput, group.Strategy)
	}
	if group.RingTimeoutSec <= 0 {
		group.RingTimeoutSec = 20
	}
	if group.RingTimeoutSec > 300 {
		return fmt.Errorf("%w: ring timeout above 300s", ErrInvalidInput)
	}
	if !group.Fallback.IsZero() {
		if err := validateDestination(tx, group.OrganizationId, group.Fallback); err != nil {
			return err
		}
	}
	return nil
}

func (s *ringGroupService) beforeDelete(ctx context.Context, tx *gorm.DB, group *internal_entity.RingGroup) error {
	if err := tx.Where("ring_group_id = ?", group.Id).
		Delete(&internal_entity.RingGroupMember{}).Error; err != nil {
		return fmt.Errorf("unable to remove members of ring group %d: %w", group.Id, err)
	}
	return nil
}
