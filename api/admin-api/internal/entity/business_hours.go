// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// BusinessHoursSet routes calls by time of day: inside an open window the
// open destination applies, otherwise the closed destination.
type BusinessHoursSet struct {
	gorm_model.Audited
	gorm_model.Organizational
	Name     string `json:"name" gorm:"type:string;size:200;not null"`
	Timezone string `json:"timezone" gorm:"type:string;size:64;not null;default:UTC"`

	OpenDestination   Destination `json:"openDestination" gorm:"embedded;embeddedPrefix:open_"`
	ClosedDestination Destination `json:"closedDestination" gorm:"embedded;embeddedPrefix:closed_"`

	Rules []*BusinessHoursRule `json:"rules" gorm:"foreignKey:BusinessHoursSetId"`
}

func (BusinessHoursSet) TableName() string {
	return "business_hours_sets"
}

// BusinessHoursRule is one open window on one weekday (0=Sunday..6=Saturday).
// Times are "HH:MM" in the set's timezone. CloseTime < OpenTime means the
// window crosses midnight.
type BusinessHoursRule struct {
	gorm_model.Audited
	gorm_model.Organizational
	BusinessHoursSetId uint64 `json:"businessHoursSetId" gorm:"column:business_hours_set_id;type:bigint;not null;index"`
	Weekday            int    `json:"weekday" gorm:"type:int;not null"`
	OpenTime           string `json:"openTime" gorm:"column:open_time;type:varchar(5);not null"`
	CloseTime          string `json:"closeTime" gorm:"column:close_time;type:varchar(5);not null"`
}

func (BusinessHoursRule) TableName() string {
	return "business_hours_rules"
}
