// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package gorm_model

import (
	"time"

	"gorm.io/gorm"

	gorm_generator "github.com/rapidaai/pbx-admin/pkg/models/gorm/generators"
	type_enums "github.com/rapidaai/pbx-admin/pkg/types/enums"
)

// Audited carries the identifier and lifecycle columns shared by every table.
type Audited struct {
	Id          uint64                 `json:"id" gorm:"type:bigint;primaryKey;<-:create"`
	Status      type_enums.RecordState `json:"status" gorm:"type:string;size:50;not null;default:ACTIVE"`
	CreatedDate time.Time              `json:"createdDate" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedDate time.Time              `json:"updatedDate" gorm:"type:timestamp;default:null"`
}

func (a *Audited) BeforeCreate(tx *gorm.DB) (err error) {
	if a.Id <= 0 {
		a.Id = gorm_generator.ID()
	}
	if a.Status == "" {
		a.Status = type_enums.RecordStateActive
	}
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now()
	}
	return nil
}

func (a *Audited) BeforeUpdate(tx *gorm.DB) (err error) {
	a.UpdatedDate = time.Now()
	return nil
}

func (a *Audited) GetId() uint64 { return a.Id }

// Organizational scopes a row to its owning tenant. Every query on an
// organizational table must filter on organization_id.
type Organizational struct {
	OrganizationId uint64 `json:"organizationId" gorm:"column:organization_id;type:bigint;not null;index"`
}

func (o *Organizational) GetOrganizationId() uint64 { return o.OrganizationId }

func (o *Organizational) SetOrganizationId(id uint64) { o.OrganizationId = id }
