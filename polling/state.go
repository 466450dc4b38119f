// go-rc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rc522.
//
// go-rc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package polling

import (
	"time"
)

// CardDetectionState represents the finite state machine for card presence
type CardDetectionState int

const (
	StateIdle CardDetectionState = iota
	StateCardDetected
	StateActing
	StatePostActionGrace
)

// CardState tracks the presence of a card on a reader
type CardState struct {
	LastSeenTime   time.Time
	ActionStart    time.Time
	RemovalTimer   *time.Timer
	LastUID        string
	ActedUID       string
	DetectionState CardDetectionState
	Present        bool
}

// safeTimerStop stops a timer and drains its channel so a fired timer
// cannot leave a stale value behind
func safeTimerStop(timer *time.Timer) {
	if timer != nil {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// TransitionToActing suspends the removal timer while the block action runs
func (cs *CardState) TransitionToActing() {
	cs.DetectionState = StateActing
	cs.ActionStart = time.Now()
	safeTimerStop(cs.RemovalTimer)
	cs.RemovalTimer = nil
}

// TransitionToPostActionGrace re-arms removal with a shortened timeout after
// an action completes
func (cs *CardState) TransitionToPostActionGrace(timeout time.Duration, callback func()) {
	cs.DetectionState = StatePostActionGrace
	safeTimerStop(cs.RemovalTimer)
	cs.RemovalTimer = time.AfterFunc(timeout/2, callback)
}

// TransitionToDetected marks the card seen and re-arms the removal timer
func (cs *CardState) TransitionToDetected(timeout time.Duration, callback func()) {
	cs.DetectionState = StateCardDetected
	cs.LastSeenTime = time.Now()
	safeTimerStop(cs.RemovalTimer)
	cs.RemovalTimer = time.AfterFunc(timeout, callback)
}

// TransitionToIdle resets to the empty state
func (cs *CardState) TransitionToIdle() {
	cs.DetectionState = StateIdle
	cs.Present = false
	cs.LastUID = ""
	cs.ActedUID = ""
	cs.LastSeenTime = time.Time{}
	cs.ActionStart = time.Time{}
	safeTimerStop(cs.RemovalTimer)
	cs.RemovalTimer = nil
}
