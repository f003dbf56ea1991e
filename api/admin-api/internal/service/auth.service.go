// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/config"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

// sessionClaims is the JWT payload issued at login. The same token serves
// both transports: Authorization bearer header and the session cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserId         uint64 `json:"uid"`
	OrganizationId uint64 `json:"oid"`
	Email          string `json:"email"`
	Role           string `json:"role"`
}

// AuthService issues and verifies credentials: interactive logins backed by
// JWT session tokens, and programmatic API tokens stored as sha256 hashes.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*internal_entity.User, string, error)
	VerifySessionToken(ctx context.Context, token string) (types.SimplePrinciple, error)
	VerifyApiKey(ctx context.Context, key string) (types.SimplePrinciple, error)
	ChangePassword(ctx context.Context, auth types.SimplePrinciple, current, next string) error

	CreateApiToken(ctx context.Context, auth types.SimplePrinciple, name string) (*internal_entity.ApiToken, string, error)
	ListApiTokens(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.ApiToken, error)
	DeleteApiToken(ctx context.Context, auth types.SimplePrinciple, id uint64) error
}

type authService struct {
	postgres connectors.PostgresConnector
	logger   commons.Logger
	config   *config.AppConfig
}

func NewAuthService(logger commons.Logger, postgres connectors.PostgresConnector, cfg *config.AppConfig) AuthService {
	return &authService{postgres: postgres, logger: logger, config: cfg}
}

func (s *authService) Login(ctx context.Context, email, password string) (*internal_entity.User, string, error) {
	var user internal_entity.User
	err := s.postgres.DB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway so a missing user costs the same
			// as a wrong password.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
			return nil, "", ErrBadCredentials
		}
		return nil, "", fmt.Errorf("unable to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	now := time.Now().UTC()
	if err := s.postgres.DB(ctx).Model(&user).
		Update("last_login_at", now).Error; err != nil {
		s.logger.Warnw("unable to stamp last login", "user", user.Email, "error", err)
	}
	user.LastLoginAt = &now

	token, err := s.issueToken(&user, now)
	if err != nil {
		return nil, "", err
	}
	s.logger.Infow("user logged in", "user", user.Email, "organization", user.OrganizationId)
	return &user, token, nil
}

func (s *authService) issueToken(user *internal_entity.User, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Name,
			Subject:   fmt.Sprintf("%d", user.Id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.TokenTTLMinutes) * time.Minute)),
		},
		UserId:         user.Id,
		OrganizationId: user.OrganizationId,
		Email:          user.Email,
		Role:           user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("unable to sign session token: %w", err)
	}
	return token, nil
}

func (s *authService) VerifySessionToken(ctx context.Context, token string) (types.SimplePrinciple, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrBadCredentials
	}

	// The user may have been deleted or demoted since the token was issued.
	var user internal_entity.User
	if err := s.postgres.DB(ctx).First(&user, "id = ?", claims.UserId).Error; err != nil {
		return nil, ErrBadCredentials
	}

	return &types.UserScope{
		UserId:         user.Id,
		OrganizationId: user.OrganizationId,
		Email:          user.Email,
		Role:           user.Role,
	}, nil
}

func (s *authService) VerifyApiKey(ctx context.Context, key string) (types.SimplePrinciple, error) {
	hash := sha256.Sum256([]byte(key))

	var token internal_entity.ApiToken
	err := s.postgres.DB(ctx).
		Where("token_hash = ?", hex.EncodeToString(hash[:])).
		First(&token).Error
	if err != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now().UTC()
	if err := s.postgres.DB(ctx).Model(&token).
		Update("last_used_at", now).Error; err != nil {
		s.logger.Warnw("unable to stamp api token use", "token", token.Name, "error", err)
	}

	return &types.ServiceScope{
		TokenId:        token.Id,
		OrganizationId: token.OrganizationId,
		TokenName:      token.Name,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, auth types.SimplePrinciple, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	var user internal_entity.User
	if err := s.postgres.DB(ctx).First(&user, "id = ?", auth.GetUserId()).Error; err != nil {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}
	if err := s.postgres.DB(ctx).Model(&user).
		Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("unable to change password: %w", err)
	}
	return nil
}

// CreateApiToken mints a new programmatic credential. The clear token is
// returned exactly once; only its sha256 lands in the database.
func (s *authService) CreateApiToken(ctx context.Context, auth types.SimplePrinciple, name string) (*internal_entity.ApiToken, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: token name is required", ErrInvalidInput)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("unable to generate token: %w", err)
	}
	plaintext := "pbx_" + hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(plaintext))

	token := &internal_entity.ApiToken{
		Name:      name,
		TokenHash: hex.EncodeToString(hash[:]),
	}
	token.OrganizationId = auth.GetOrganizationId()
	if err := s.postgres.DB(ctx).Create(token).Error; err != nil {
		return nil, "", fmt.Errorf("unable to create api token: %w", err)
	}
	return token, plaintext, nil
}

func (s *authService) ListApiTokens(ctx context.Context, auth types.SimplePrinciple) ([]*internal_entity.ApiToken, error) {
	var tokens []*internal_entity.ApiToken
	if err := s.postgres.DB(ctx).
		Where("organization_id = ?", auth.GetOrganizationId()).
		Order("created_date DESC").
		Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("unable to list api tokens: %w", err)
	}
	return tokens, nil
}

func (s *authService) DeleteApiToken(ctx context.Context, auth types.SimplePrinciple, id uint64) error {
	result := s.postgres.DB(ctx).
		Where("organization_id = ? AND id = ?", auth.GetOrganizationId(), id).
		Delete(&internal_entity.ApiToken{})
	if result.Error != nil {
		return fmt.Errorf("unable to delete api token %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
