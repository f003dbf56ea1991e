// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// Setting is an org-scoped key/value. Key is unique per organization.
type Setting struct {
	gorm_model.Audited
	gorm_model.Organizational
	Key   string `json:"key" gorm:"type:varchar(100);not null;index"`
	Value string `json:"value" gorm:"type:text;not null;default:''"`
}

func (Setting) TableName() string {
	return "settings"
}
