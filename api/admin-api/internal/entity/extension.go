// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_entity

import (
	gorm_model "github.com/rapidaai/pbx-admin/pkg/models/gorm"
)

// Extension is a PBX endpoint a person registers a phone against. The
// number is unique per organization; the row maps 1:1 onto a Cloudonix
// subscriber once provisioned.
type Extension struct {
	gorm_model.Audited
	gorm_model.Organizational
	// Uniqueness per organization is enforced by the service and by the
	// composite unique index in migrations.
	Number      string `json:"number" gorm:"type:varchar(10);not null;index"`
	DisplayName string `json:"displayName" gorm:"column:display_name;type:string;size:200;not null"`

	// SIP credential pushed to Cloudonix. Never returned in list/get payloads.
	SipPassword string `json:"-" gorm:"column:sip_password;type:string;size:100;not null"`

	// Identifier of the provisioned Cloudonix subscriber, empty until synced.
	CloudonixSubscriberId string `json:"cloudonixSubscriberId" gorm:"column:cloudonix_subscriber_id;type:string;size:100;not null;default:''"`

	VoicemailEnabled bool `json:"voicemailEnabled" gorm:"column:voicemail_enabled;not null;default:false"`
	RecordCalls      bool `json:"recordCalls" gorm:"column:record_calls;not null;default:false"`
}

func (Extension) TableName() string {
	return "extensions"
}

// CREATE TABLE extensions (
//     id BIGINT PRIMARY KEY,
//     status VARCHAR(50) NOT NULL DEFAULT 'ACTIVE',
//     created_date TIMESTAMP NOT NULL DEFAULT NOW(),
//     updated_date TIMESTAMP,
//     organization_id BIGINT NOT NULL,
//     number VARCHAR(10) NOT NULL,
//     display_name VARCHAR(200) NOT NULL,
//     sip_password VARCHAR(100) NOT NULL,
//     cloudonix_subscriber_id VARCHAR(100) NOT NULL DEFAULT '',
//     voicemail_enabled BOOLEAN NOT NULL DEFAULT FALSE,
//     record_calls BOOLEAN NOT NULL DEFAULT FALSE,
//     UNIQUE (organization_id, number)
// );
