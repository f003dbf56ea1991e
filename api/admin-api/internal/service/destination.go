// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import (
	"fmt"

	"gorm.io/gorm"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/utils"
)

// validateDestination checks that a routing target exists inside the same
// organization. Cross-org targets fail identically to missing ones.
func validateDestination(tx *gorm.DB, organizationId uint64, d internal_entity.Destination) error {
	switch d.Type {
	case internal_entity.DestinationHangup:
		return nil

	case internal_entity.DestinationExternal:
		number := utils.NormalizeNumber(d.Value)
		if number == "" {
			return fmt.Errorf("%w: external destination requires a dialable number", ErrInvalidInput)
		}
		return nil

	case internal_entity.DestinationConference:
		if utils.IsEmpty(d.Value) {
			return fmt.Errorf("%w: conference destination requires a room number", ErrInvalidInput)
		}
		return nil

	case internal_entity.DestinationExtension, internal_entity.DestinationVoicemail:
		return destinationRowExists(tx, &internal_entity.Extension{}, organizationId, d.TargetId, "extension")

	case internal_entity.DestinationRingGroup:
		return destinationRowExists(tx, &internal_entity.RingGroup{}, organizationId, d.TargetId, "ring group")

	case internal_entity.DestinationIvrMenu:
		return destinationRowExists(tx, &internal_entity.IvrMenu{}, organizationId, d.TargetId, "ivr menu")

	default:
		return fmt.Errorf("%w: unknown destination type %q", ErrInvalidInput, d.Type)
	}
}

func destinationRowExists(tx *gorm.DB, model interface{}, organizationId, id uint64, kind string) error {
	if id == 0 {
		return fmt.Errorf("%w: %s destination requires a target id", ErrInvalidInput, kind)
	}
	var count int64
	if err := tx.Model(model).
		Where("organization_id = ? AND id = ?", organizationId, id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to verify %s destination: %w", kind, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d does not exist in this organization", ErrInvalidInput, kind, id)
	}
	return nil
}
