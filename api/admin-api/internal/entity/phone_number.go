// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// PhoneNumber is an inbound DID routed to a destination. Route changes are
// pushed to the Cloudonix voice application for the number.
type PhoneNumber struct {
	gorm_model.Audited
	gorm_model.Organizational
	Number string `json:"number" gorm:"type:varchar(20);not null;uniqueIndex"`
	Label  string `json:"label" gorm:"type:string;size:200;not null;default:''"`

	Route Destination `json:"route" gorm:"embedded;embeddedPrefix:route_"`

	// Optional business-hours gate applied before the route.
	BusinessHoursSetId uint64 `json:"businessHoursSetId" gorm:"column:business_hours_set_id;type:bigint;not null;default:0"`

	// Identifier of the Cloudonix voice application serving this DID.
	CloudonixApplicationId string `json:"cloudonixApplicationId" gorm:"column:cloudonix_application_id;type:string;size:100;not null;default:''"`
}

func (PhoneNumber) TableName() string {
	return "phone_numbers"
}
