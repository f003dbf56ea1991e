// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// Organization is the tenancy boundary. Every other resource row carries
// its organization_id.
type Organization struct {
	gorm_model.Audited
	Name string `json:"name" gorm:"type:string;size:200;not null"`

	// Cloudonix domain this tenant's subscribers are provisioned under.
	CloudonixDomain string `json:"cloudonixDomain" gorm:"column:cloudonix_domain;type:string;size:200;not null;default:''"`
}

func (Organization) TableName() string {
	return "organizations"
}
