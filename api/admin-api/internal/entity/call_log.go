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

// Call directions and dispositions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
	DirectionInternal = "internal"

	DispositionAnswered = "answered"
	DispositionNoAnswer = "no_answer"
	DispositionBusy     = "busy"
	DispositionFailed   = "failed"
	DispositionBlocked  = "blocked"
)

// CallLog is an immutable CDR row written when a call ends.
type CallLog struct {
	gorm_model.Audited
	gorm_model.Organizational
	SessionToken string     `json:"sessionToken" gorm:"column:session_token;type:varchar(100);not null;index"`
	Direction    string     `json:"direction" gorm:"type:varchar(20);not null"`
	CallerNumber string     `json:"callerNumber" gorm:"column:caller_number;type:varchar(50);not null;default:''"`
	CalleeNumber string     `json:"calleeNumber" gorm:"column:callee_number;type:varchar(50);not null;default:''"`
	ExtensionId  uint64     `json:"extensionId" gorm:"column:extension_id;type:bigint;not null;default:0;index"`
	StartedAt    time.Time  `json:"startedAt" gorm:"column:started_at;type:timestamp;not null"`
	AnsweredAt   *time.Time `json:"answeredAt" gorm:"column:answered_at;type:timestamp;default:null"`
	EndedAt      *time.Time `json:"endedAt" gorm:"column:ended_at;type:timestamp;default:null"`
	DurationSec  int        `json:"durationSec" gorm:"column:duration_sec;type:int;not null;default:0"`
	Disposition  string     `json:"disposition" gorm:"type:varchar(20);not null;default:''"`
	RecordingId  uint64     `json:"recordingId" gorm:"column:recording_id;type:bigint;not null;default:0"`
}

func (CallLog) TableName() string {
	return "call_logs"
}

// CallLogDailyCount is the per-day summary row of the CDR group-by.
type CallLogDailyCount struct {
	Day      string `json:"day"`
	Total    int64  `json:"total"`
	Answered int64  `json:"answered"`
	Missed   int64  `json:"missed"`
}
