// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// AuditLog records every mutating API request for the organization.
type AuditLog struct {
	gorm_model.Audited
	gorm_model.Organizational
	ActorUserId uint64 `json:"actorUserId" gorm:"column:actor_user_id;type:bigint;not null;default:0"`
	ActorEmail  string `json:"actorEmail" gorm:"column:actor_email;type:string;size:200;not null;default:''"`
	Action      string `json:"action" gorm:"type:varchar(10);not null"`
	Path        string `json:"path" gorm:"type:string;size:500;not null"`
	StatusCode  int    `json:"statusCode" gorm:"column:status_code;type:int;not null"`
	RemoteIp    string `json:"remoteIp" gorm:"column:remote_ip;type:varchar(50);not null;default:''"`
	UserAgent   string `json:"userAgent" gorm:"column:user_agent;type:string;size:500;not null;default:''"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
