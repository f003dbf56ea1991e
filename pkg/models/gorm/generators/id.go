// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package gorm_generator

import (
	"math/rand"
	"sync"
	"time"
)

// Snowflake-style layout: 41 bits of millis since epoch, 10 bits of node,
// 12 bits of sequence. Node is randomized per process; collisions across
// instances within the same millisecond are tolerably improbable for
// admin-plane row creation rates.
const (
	epochMillis  = int64(1672531200000) // 2023-01-01T00:00:00Z
	nodeBits     = 10
	sequenceBits = 12
	maxSequence  = (1 << sequenceBits) - 1
)

var (
	mu       sync.Mutex
	node     = uint64(rand.Int63n(1 << nodeBits))
	lastTime int64
	sequence uint64
)

// ID returns a time-ordered unique identifier for primary keys.
func ID() uint64 {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UnixMilli() - epochMillis
	if now == lastTime {
		sequence = (sequence + 1) & maxSequence
		if sequence == 0 {
			for now <= lastTime {
				now = time.Now().UnixMilli() - epochMillis
			}
		}
	} else {
		sequence = 0
	}
	lastTime = now

	return uint64(now)<<(nodeBits+sequenceBits) | node<<sequenceBits | sequence
}
