// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// IvrMenu is a voice menu. The prompt is either synthesized from PromptText
// or played from the referenced recording; RecordingId wins when both are set.
type IvrMenu struct {
	gorm_model.Audited
	gorm_model.Organizational
	Name        string `json:"name" gorm:"type:string;size:200;not null"`
	PromptText  string `json:"promptText" gorm:"column:prompt_text;type:text;not null;default:''"`
	RecordingId uint64 `json:"recordingId" gorm:"column:recording_id;type:bigint;not null;default:0"`

	// Seconds to wait for a digit before routing to the timeout destination.
	TimeoutSec int `json:"timeoutSec" gorm:"column:timeout_sec;type:int;not null;default:5"`
	// Attempts before giving up on invalid input.
	MaxAttempts int `json:"maxAttempts" gorm:"column:max_attempts;type:int;not null;default:3"`

	TimeoutDestination Destination `json:"timeoutDestination" gorm:"embedded;embeddedPrefix:timeout_"`
	InvalidDestination Destination `json:"invalidDestination" gorm:"embedded;embeddedPrefix:invalid_"`

	Options []*IvrMenuOption `json:"options" gorm:"foreignKey:IvrMenuId"`
}

func (IvrMenu) TableName() string {
	return "ivr_menus"
}

// IvrMenuOption binds one DTMF digit to a destination. Digit is unique per menu.
type IvrMenuOption struct {
	gorm_model.Audited
	gorm_model.Organizational
	IvrMenuId   uint64      `json:"ivrMenuId" gorm:"column:ivr_menu_id;type:bigint;not null;index"`
	Digit       string      `json:"digit" gorm:"type:varchar(1);not null"`
	Label       string      `json:"label" gorm:"type:string;size:200;not null;default:''"`
	Destination Destination `json:"destination" gorm:"embedded;embeddedPrefix:destination_"`
}

func (IvrMenuOption) TableName() string {
	return "ivr_menu_options"
}

// ValidIvrDigits lists the DTMF digits an option may bind.
func ValidIvrDigits() map[string]bool {
	digits := map[string]bool{"*": true, "#": true}
	for d := '0'; d <= '9'; d++ {
		digits[string(d)] = true
	}
	return digits
}
