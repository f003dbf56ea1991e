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

// Live session statuses as reported by Cloudonix session-update callbacks.
const (
	SessionRinging   = "ringing"
	SessionConnected = "connected"
	SessionHeld      = "held"
	SessionEnded     = "ended"
)

// CallSession mirrors one live call leg. Updates arrive out of order from
// the platform; Sequence implements latest-wins deduplication per token.
type CallSession struct {
	gorm_model.Audited
	gorm_model.Organizational
	Token        string    `json:"token" gorm:"type:varchar(100);not null;uniqueIndex"`
	CallStatus   string    `json:"callStatus" gorm:"column:call_status;type:varchar(20);not null"`
	Direction    string    `json:"direction" gorm:"type:varchar(20);not null;default:''"`
	CallerNumber string    `json:"callerNumber" gorm:"column:caller_number;type:varchar(50);not null;default:''"`
	CalleeNumber string    `json:"calleeNumber" gorm:"column:callee_number;type:varchar(50);not null;default:''"`
	ExtensionId  uint64    `json:"extensionId" gorm:"column:extension_id;type:bigint;not null;default:0"`
	Sequence     uint64    `json:"sequence" gorm:"type:bigint;not null;default:0"`
	StartedAt    time.Time `json:"startedAt" gorm:"column:started_at;type:timestamp;not null"`
	// Set once, on the first transition to connected.
	AnsweredAt *time.Time `json:"answeredAt" gorm:"column:answered_at;type:timestamp"`
	LastSeenAt time.Time  `json:"lastSeenAt" gorm:"column:last_seen_at;type:timestamp;not null"`
}

func (CallSession) TableName() string {
	return "call_sessions"
}

// SessionStatusCount is one bucket of the live-call aggregation.
type SessionStatusCount struct {
	CallStatus string `json:"callStatus"`
	Count      int64  `json:"count"`
}
