// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// Recording is uploaded prompt audio referenced by IVR menus.
type Recording struct {
	gorm_model.Audited
	gorm_model.Organizational
	Name        string `json:"name" gorm:"type:string;size:200;not null"`
	StoragePath string `json:"storagePath" gorm:"column:storage_path;type:string;size:500;not null"`
	ContentType string `json:"contentType" gorm:"column:content_type;type:string;size:100;not null;default:'audio/wav'"`
	DurationMs  uint64 `json:"durationMs" gorm:"column:duration_ms;type:bigint;not null;default:0"`
	SizeBytes   uint64 `json:"sizeBytes" gorm:"column:size_bytes;type:bigint;not null;default:0"`
}

func (Recording) TableName() string {
	return "recordings"
}
