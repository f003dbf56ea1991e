// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	"time"

	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// User is an administrative login. Role is one of admin|manager|viewer.
type User struct {
	gorm_model.Audited
	gorm_model.Organizational
	Email        string     `json:"email" gorm:"type:string;size:200;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"type:string;size:200;not null"`
	Role         string     `json:"role" gorm:"type:varchar(20);not null;default:viewer"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;type:string;size:200;not null"`
	LastLoginAt  *time.Time `json:"lastLoginAt" gorm:"column:last_login_at;type:timestamp;default:null"`
}

func (User) TableName() string {
	return "users"
}

// ApiToken is a programmatic credential. Only the sha256 of the opaque token
// is stored; the clear token is shown once at creation time.
type ApiToken struct {
	gorm_model.Audited
	gorm_model.Organizational
	Name       string     `json:"name" gorm:"type:string;size:100;not null"`
	TokenHash  string     `json:"-" gorm:"column:token_hash;type:varchar(64);not null;uniqueIndex"`
	LastUsedAt *time.Time `json:"lastUsedAt" gorm:"column:last_used_at;type:timestamp;default:null"`
}

func (ApiToken) TableName() string {
	return "api_tokens"
}
