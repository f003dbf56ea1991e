// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// Ring strategies.
const (
	StrategyRingAll    = "ring_all"
	StrategyHunt       = "hunt"
	StrategyRoundRobin = "round_robin"
)

// RingGroup rings a set of member extensions per its strategy, then falls
// back to the configured destination when nobody answers.
type RingGroup struct {
	gorm_model.Audited
	gorm_model.Organizational
	Name           string `json:"name" gorm:"type:string;size:200;not null"`
	Strategy       string `json:"strategy" gorm:"type:varchar(20);not null;default:ring_all"`
	RingTimeoutSec int    `json:"ringTimeoutSec" gorm:"column:ring_timeout_sec;type:int;not null;default:20"`

	Fallback Destination `json:"fallback" gorm:"embedded;embeddedPrefix:fallback_"`

	Members []*RingGroupMember `json:"members" gorm:"foreignKey:RingGroupId"`
}

func (RingGroup) TableName() string {
	return "ring_groups"
}

// RingGroupMember is one ordered entry of a ring group's member list. The
// whole list is replaced atomically under the group's distributed lock.
type RingGroupMember struct {
	gorm_model.Audited
	gorm_model.Organizational
	RingGroupId uint64 `json:"ringGroupId" gorm:"column:ring_group_id;type:bigint;not null;index"`
	ExtensionId uint64 `json:"extensionId" gorm:"column:extension_id;type:bigint;not null"`
	Position    int    `json:"position" gorm:"type:int;not null;default:0"`
}

func (RingGroupMember) TableName() string {
	return "ring_group_members"
}
