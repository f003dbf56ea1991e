// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// OutboundWhitelistEntry permits outbound dialing to numbers matching the
// prefix. An org with no entries dials freely; with entries, only matches go out.
type OutboundWhitelistEntry struct {
	gorm_model.Audited
	gorm_model.Organizational
	Prefix string `json:"prefix" gorm:"type:varchar(20);not null"`
	Label  string `json:"label" gorm:"type:string;size:200;not null;default:''"`
}

func (OutboundWhitelistEntry) TableName() string {
	return "outbound_whitelist_entries"
}

// SentryBlacklistEntry blocks inbound calls from the number.
type SentryBlacklistEntry struct {
	gorm_model.Audited
	gorm_model.Organizational
	Number string `json:"number" gorm:"type:varchar(20);not null"`
	Reason string `json:"reason" gorm:"type:string;size:500;not null;default:''"`
}

func (SentryBlacklistEntry) TableName() string {
	return "sentry_blacklist_entries"
}
