// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package types

import "github.com/gin-gonic/gin"

// Role levels, in descending privilege order.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

const authPrincipleKey = "auth.principle"

// SimplePrinciple is the authenticated caller attached to every request.
// Tenancy is pinned here: services read organization id from the principle,
// never from client input.
type SimplePrinciple interface {
	GetUserId() uint64
	GetOrganizationId() uint64
	GetRole() string
	CanWrite() bool
	IsAdmin() bool
}

// UserScope is a principle backed by an interactive user (session cookie or
// bearer token).
type UserScope struct {
	UserId         uint64
	OrganizationId uint64
	Email          string
	Role           string
}

func (u *UserScope) GetUserId() uint64         { return u.UserId }
func (u *UserScope) GetOrganizationId() uint64 { return u.OrganizationId }
func (u *UserScope) GetRole() string           { return u.Role }
func (u *UserScope) IsAdmin() bool             { return u.Role == RoleAdmin }
func (u *UserScope) CanWrite() bool            { return u.Role == RoleAdmin || u.Role == RoleManager }

// ServiceScope is a principle backed by a programmatic API token.
type ServiceScope struct {
	TokenId        uint64
	OrganizationId uint64
	TokenName      string
}

func (s *ServiceScope) GetUserId() uint64         { return 0 }
func (s *ServiceScope) GetOrganizationId() uint64 { return s.OrganizationId }
func (s *ServiceScope) GetRole() string           { return RoleManager }
func (s *ServiceScope) IsAdmin() bool             { return false }
func (s *ServiceScope) CanWrite() bool            { return true }

// SetAuthPrinciple attaches the authenticated principle to the gin context.
func SetAuthPrinciple(c *gin.Context, principle SimplePrinciple) {
	c.Set(authPrincipleKey, principle)
}

// GetAuthPrinciple resolves the authenticated principle from the gin context.
func GetAuthPrinciple(c *gin.Context) (SimplePrinciple, bool) {
	value, exists := c.Get(authPrincipleKey)
	if !exists {
		return nil, false
	}
	principle, ok := value.(SimplePrinciple)
	return principle, ok
}
