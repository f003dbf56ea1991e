// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

// Destination types a call can be routed to. External destinations carry a
// dialable number in Value; the others carry the target row id.
const (
	DestinationExtension  = "extension"
	DestinationRingGroup  = "ring_group"
	DestinationIvrMenu    = "ivr_menu"
	DestinationConference = "conference"
	DestinationExternal   = "external"
	DestinationVoicemail  = "voicemail"
	DestinationHangup     = "hangup"
)

// Destination is the polymorphic routing target embedded in phone numbers,
// ring-group fallbacks, IVR options and business-hours rules.
type Destination struct {
	Type     string `json:"type" gorm:"type:varchar(20);not null;default:hangup"`
	TargetId uint64 `json:"targetId" gorm:"type:bigint;not null;default:0"`
	Value    string `json:"value" gorm:"type:varchar(100);not null;default:''"`
}

// IsZero reports whether no destination was supplied.
func (d Destination) IsZero() bool {
	return d.Type == "" && d.TargetId == 0 && d.Value == ""
}

// ValidTypes lists the accepted destination type names.
func ValidDestinationTypes() []string {
	return []string{
		DestinationExtension,
		DestinationRingGroup,
		DestinationIvrMenu,
		DestinationConference,
		DestinationExternal,
		DestinationVoicemail,
		DestinationHangup,
	}
}
