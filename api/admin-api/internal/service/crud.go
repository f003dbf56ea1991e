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
	"strings"

	"gorm.io/gorm"

	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// orgEntity is the contract every organization-owned entity satisfies via
// the shared Audited/Organizational embeds.
type orgEntity interface {
	GetId() uint64
	GetOrganizationId() uint64
	SetOrganizationId(uint64)
}

// crudHooks are the per-resource extension points around the generic CRUD
// flow. Before hooks run inside the surrounding transaction and abort it on
// error; after hooks do too, so a failing side effect rolls the write back.
type crudHooks[PT any] struct {
	beforeCreate func(ctx context.Context, tx *gorm.DB, model PT) error
	afterCreate  func(ctx context.Context, tx *gorm.DB, model PT) error
	beforeUpdate func(ctx context.Context, tx *gorm.DB, existing, model PT) error
	afterUpdate  func(ctx context.Context, tx *gorm.DB, model PT) error
	beforeDelete func(ctx context.Context, tx *gorm.DB, model PT) error
	afterDelete  func(ctx context.Context, tx *gorm.DB, model PT) error
}

// preload names an association to eager-load, with an optional scope (for
// a stable ordering of the loaded rows).
type preload struct {
	relation string
	scope    func(*gorm.DB) *gorm.DB
}

// crudService is the generic organization-scoped CRUD core shared by every
// resource service. Tenancy is non-negotiable here: every query filters on
// the caller's organization id, and a row from another organization surfaces
// as ErrNotFound.
type crudService[T any, PT interface {
	*T
	orgEntity
}] struct {
	postgres connectors.PostgresConnector
	logger   commons.Logger

	hooks         crudHooks[PT]
	searchColumns []string
	defaultOrder  string
	preloads      []preload
}

func newCrudService[T any, PT interface {
	*T
	orgEntity
}](postgres connectors.PostgresConnector, logger commons.Logger) *crudService[T, PT] {
	return &crudService[T, PT]{
		postgres:     postgres,
		logger:       logger,
		defaultOrder: "created_date DESC",
	}
}

func (s *crudService[T, PT]) scoped(db *gorm.DB, auth types.SimplePrinciple) *gorm.DB {
	return db.Where("organization_id = ?", auth.GetOrganizationId())
}

func (s *crudService[T, PT]) preloaded(db *gorm.DB) *gorm.DB {
	for _, p := range s.preloads {
		if p.scope != nil {
			db = db.Preload(p.relation, p.scope)
		} else {
			db = db.Preload(p.relation)
		}
	}
	return db
}

// GetAll returns one page of the organization's rows, optionally filtered by
// a case-insensitive search across the configured columns.
func (s *crudService[T, PT]) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[PT], error) {
	paginate = paginate.Normalize()
	db := s.scoped(s.postgres.DB(ctx).Model(new(T)), auth)

	if search != "" && len(s.searchColumns) > 0 {
		likes := make([]string, 0, len(s.searchColumns))
		args := make([]interface{}, 0, len(s.searchColumns))
		for _, col := range s.searchColumns {
			likes = append(likes, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, "%"+strings.ToLower(search)+"%")
		}
		db = db.Where(strings.Join(likes, " OR "), args...)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("unable to count rows: %w", err)
	}

	db = s.preloaded(db)

	var items []PT
	if err := db.Order(s.defaultOrder).
		Offset(paginate.Offset()).
		Limit(paginate.PerPage).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("unable to list rows: %w", err)
	}

	return &types.PageResult[PT]{
		Items:       items,
		TotalItem:   total,
		CurrentPage: paginate.Page,
		PerPage:     paginate.PerPage,
	}, nil
}

// Get returns the organization's row by id.
func (s *crudService[T, PT]) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (PT, error) {
	db := s.preloaded(s.scoped(s.postgres.DB(ctx), auth))

	model := PT(new(T))
	if err := db.First(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get row %d: %w", id, err)
	}
	return model, nil
}

// Create inserts the row under the caller's organization, running the
// before/after hooks inside one transaction.
func (s *crudService[T, PT]) Create(ctx context.Context, auth types.SimplePrinciple, model PT) error {
	model.SetOrganizationId(auth.GetOrganizationId())

	return s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if s.hooks.beforeCreate != nil {
			if err := s.hooks.beforeCreate(ctx, tx, model); err != nil {
				return err
			}
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("unable to create row: %w", err)
		}
		if s.hooks.afterCreate != nil {
			if err := s.hooks.afterCreate(ctx, tx, model); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update persists the mutated row after verifying it belongs to the caller's
// organization. The model must carry the row id.
func (s *crudService[T, PT]) Update(ctx context.Context, auth types.SimplePrinciple, model PT) error {
	existing, err := s.Get(ctx, auth, model.GetId())
	if err != nil {
		return err
	}
	model.SetOrganizationId(auth.GetOrganizationId())

	return s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if s.hooks.beforeUpdate != nil {
			if err := s.hooks.beforeUpdate(ctx, tx, existing, model); err != nil {
				return err
			}
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("unable to update row %d: %w", model.GetId(), err)
		}
		if s.hooks.afterUpdate != nil {
			if err := s.hooks.afterUpdate(ctx, tx, model); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the organization's row by id, running the delete hooks
// inside the same transaction.
func (s *crudService[T, PT]) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	model, err := s.Get(ctx, auth, id)
	if err != nil {
		return err
	}

	return s.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if s.hooks.beforeDelete != nil {
			if err := s.hooks.beforeDelete(ctx, tx, model); err != nil {
				return err
			}
		}
		if err := tx.Delete(new(T), "id = ?", id).Error; err != nil {
			return fmt.Errorf("unable to delete row %d: %w", id, err)
		}
		if s.hooks.afterDelete != nil {
			if err := s.hooks.afterDelete(ctx, tx, model); err != nil {
				return err
			}
		}
		return nil
	})
}
