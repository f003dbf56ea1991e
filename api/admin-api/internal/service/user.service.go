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

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// UserService manages administrator accounts. All operations are admin-only;
// the role gate in the middleware enforces that before calls land here.
type UserService interface {
	GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.User], error)
	Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.User, error)
	Create(ctx context.Context, auth types.SimplePrinciple, user *internal_entity.User, password string) error
	Update(ctx context.Context, auth types.SimplePrinciple, user *internal_entity.User) error
	Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error

	// SetPassword replaces the user's password hash.
	SetPassword(ctx context.Context, auth types.SimplePrinciple, id uint64, password string) error
}

type userService struct {
	crud     *crudService[internal_entity.User, *internal_entity.User]
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

func NewUserService(logger commons.Logger, postgres connectors.PostgresConnector) UserService {
	svc := &userService{postgres: postgres, logger: logger}

	crud := newCrudService[internal_entity.User](postgres, logger)
	crud.searchColumns = []string{"email", "name"}
	crud.defaultOrder = "email ASC"
	crud.hooks = crudHooks[*internal_entity.User]{
		beforeCreate: svc.beforeSave,
		beforeUpdate: svc.beforeUpdate,
		beforeDelete: svc.beforeDelete,
	}
	svc.crud = crud
	return svc
}

func validRole(role string) bool {
	switch role {
	case types.RoleAdmin, types.RoleManager, types.RoleViewer:
		return true
	}
	return false
}

func (s *userService) GetAll(ctx context.Context, auth types.SimplePrinciple, paginate types.Paginate, search string) (*types.PageResult[*internal_entity.User], error) {
	return s.crud.GetAll(ctx, auth, paginate, search)
}

func (s *userService) Get(ctx context.Context, auth types.SimplePrinciple, id uint64) (*internal_entity.User, error) {
	return s.crud.Get(ctx, auth, id)
}

func (s *userService) Create(ctx context.Context, auth types.SimplePrinciple, user *internal_entity.User, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.crud.Create(ctx, auth, user)
}

func (s *userService) Update(ctx context.Context, auth types.SimplePrinciple, user *internal_entity.User) error {
	return s.crud.Update(ctx, auth, user)
}

func (s *userService) Delete(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	if auth.GetUserId() == id {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidInput)
	}
	return s.crud.Delete(ctx, auth, id)
}

func (s *userService) SetPassword(ctx context.Context, auth types.SimplePrinciple, id uint64, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	user, err := s.crud.Get(ctx, auth, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}
	if err := s.postgres.DB(ctx).Model(user).
		Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("unable to set password: %w", err)
	}
	return nil
}

func (s *userService) beforeSave(ctx context.Context, tx *gorm.DB, user *internal_entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if utils.IsEmpty(user.Email) || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if utils.IsEmpty(user.Name) {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if user.Role == "" {
		user.Role = types.RoleViewer
	}
	if !validRole(user.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, user.Role)
	}

	// Emails are unique across organizations so logins stay unambiguous.
	var count int64
	if err := tx.Model(&internal_entity.User{}).
		Where("email = ? AND id <> ?", user.Email, user.Id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check email: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrEmailTaken, user.Email)
	}
	return nil
}

func (s *userService) beforeUpdate(ctx context.Context, tx *gorm.DB, existing, user *internal_entity.User) error {
	// Password changes go through SetPassword only.
	user.PasswordHash = existing.PasswordHash
	if user.LastLoginAt == nil {
		user.LastLoginAt = existing.LastLoginAt
	}
	return s.beforeSave(ctx, tx, user)
}

func (s *userService) beforeDelete(ctx context.Context, tx *gorm.DB, user *internal_entity.User) error {
	// The last admin of an organization cannot be removed.
	if user.Role != types.RoleAdmin {
		return nil
	}
	var admins int64
	if err := tx.Model(&internal_entity.User{}).
		Where("organization_id = ? AND role = ? AND id <> ?", user.OrganizationId, types.RoleAdmin, user.Id).
		Count(&admins).Error; err != nil {
		return fmt.Errorf("unable to count admins: %w", err)
	}
	if admins == 0 {
		return fmt.Errorf("%w: organization needs at least one admin", ErrInvalidInput)
	}
	return nil
}
