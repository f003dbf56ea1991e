// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_service

import "errors"

// Sentinel errors mapped to HTTP statuses by the API layer.
var (
	// ErrNotFound covers both missing rows and rows owned by another
	// organization, so cross-tenant probing cannot distinguish the two.
	ErrNotFound = errors.New("resource not found")

	ErrInvalidInput = errors.New("invalid input")

	// ErrNumberTaken signals an extension or DID number collision inside
	// the organization.
	ErrNumberTaken = errors.New("number already in use")

	// ErrMenuInUse blocks IVR menu deletion while phone numbers, ring
	// groups or other menus still route to it.
	ErrMenuInUse = errors.New("ivr menu is referenced by other resources")

	// ErrRecordingInUse blocks recording deletion while an IVR prompt
	// references it.
	ErrRecordingInUse = errors.New("recording is referenced by an ivr menu")

	ErrEmailTaken = errors.New("email already registered")

	ErrBadCredentials = errors.New("invalid email or password")

	// ErrStaleSession signals a session update older than the stored one;
	// it is dropped, not applied.
	ErrStaleSession = errors.New("stale session update")
)
