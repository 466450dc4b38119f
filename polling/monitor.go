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

// Package polling provides continuous card monitoring with a presence
// state machine on top of the rc522 driver.
//
// The monitor runs one detection cycle per poll interval using WUPA, so a
// card halted after a completed action keeps answering while it stays in
// the field. The configured action runs once per card arrival; removal is
// detected by a timer that fires when the card has gone unseen too long.
package polling

import (
	"context"
	"fmt"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
)

// CardEvent describes one completed action on a detected card
type CardEvent struct {
	Time     time.Time
	UID      string
	ATQA     string
	SAK      string
	Action   Action
	Data     []byte
	ReadBack []byte
	Block    byte
	Verified bool
}

// Monitor handles continuous card monitoring with a state machine
type Monitor struct {
	device        *rc522.Device
	config        *Config
	OnCard        func(event *CardEvent) error
	OnCardRemoved func()
	OnError       func(err error)
	state         CardState
}

// NewMonitor creates a new card monitor
func NewMonitor(device *rc522.Device, config *Config) (*Monitor, error) {
	if device == nil {
		return nil, fmt.Errorf("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor config: %w", err)
	}
	return &Monitor{
		device: device,
		config: config,
		state:  CardState{},
	}, nil
}

// Start begins continuous monitoring for cards. It blocks until the context
// is canceled.
func (m *Monitor) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		card, err := m.device.DetectCardWakeup()
		if err != nil {
			m.handlePollingError(err)
		} else {
			m.processPollingResult(card)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.PollInterval):
		}
	}
}

// GetState returns the current card state
func (m *Monitor) GetState() CardState {
	return m.state
}

// GetDevice returns the underlying RC522 device
func (m *Monitor) GetDevice() *rc522.Device {
	return m.device
}

// Close cleans up the monitor resources
func (m *Monitor) Close() error {
	if m.state.RemovalTimer != nil {
		m.state.RemovalTimer.Stop()
		m.state.RemovalTimer = nil
	}
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}

// handlePollingError reports the error and treats the card as gone. Errors
// here are transport or chip faults; a quiet field is a nil card, not an
// error.
func (m *Monitor) handlePollingError(err error) {
	if m.OnError != nil {
		m.OnError(err)
	}
	if !rc522.IsRetryable(err) {
		m.handleCardRemoval()
	}
}

// handleCardRemoval handles card removal state changes
func (m *Monitor) handleCardRemoval() {
	if m.state.Present {
		if m.OnCardRemoved != nil {
			m.OnCardRemoved()
		}
		m.state.TransitionToIdle()
	}
}

// processPollingResult updates the state machine for one detection cycle
func (m *Monitor) processPollingResult(card *rc522.DetectedCard) {
	if card == nil {
		// No card in this cycle; the removal timer decides when it
		// counts as gone.
		return
	}

	cardChanged := m.updateCardState(card)

	if m.state.DetectionState != StateActing {
		m.state.TransitionToDetected(m.config.CardRemovalTimeout, func() {
			m.handleCardRemoval()
		})
	}

	if cardChanged || m.state.ActedUID != card.UIDHex() {
		m.actOnCard(card)
	}
}

// updateCardState updates the presence bookkeeping and returns whether the
// card on the reader changed
func (m *Monitor) updateCardState(card *rc522.DetectedCard) bool {
	currentUID := card.UIDHex()

	if !m.state.Present {
		m.state.Present = true
		m.state.LastUID = currentUID
		m.state.ActedUID = ""
		return true
	}

	if m.state.LastUID != currentUID {
		m.state.LastUID = currentUID
		m.state.ActedUID = ""
		return true
	}

	return false
}

// actOnCard runs the configured action once for this card arrival
func (m *Monitor) actOnCard(card *rc522.DetectedCard) {
	m.state.TransitionToActing()
	m.state.ActedUID = card.UIDHex()

	event, err := m.runAction(card)

	// Halt the card so it stops answering REQA from other readers; WUPA
	// polling still sees it next cycle.
	if haltErr := m.device.HaltA(); haltErr != nil && m.OnError != nil {
		m.OnError(fmt.Errorf("halt after action: %w", haltErr))
	}

	m.state.TransitionToPostActionGrace(m.config.CardRemovalTimeout, func() {
		m.handleCardRemoval()
	})

	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return
	}
	if m.OnCard != nil {
		_ = m.OnCard(event)
	}
}

// runAction executes the configured action against the selected card
func (m *Monitor) runAction(card *rc522.DetectedCard) (*CardEvent, error) {
	event := &CardEvent{
		Time:   time.Now(),
		UID:    card.UIDHex(),
		ATQA:   card.ATQAHex(),
		SAK:    card.SAKHex(),
		Action: m.config.Action,
		Block:  m.config.Block,
	}

	switch m.config.Action {
	case ActionUID:
		return event, nil

	case ActionRead:
		if err := m.device.AuthenticateKeyA(m.config.Block, m.config.KeyA, card.UID); err != nil {
			return nil, fmt.Errorf("authenticate block %d: %w", m.config.Block, err)
		}
		defer m.stopCrypto()
		data, err := m.device.ReadBlock(m.config.Block)
		if err != nil {
			return nil, fmt.Errorf("read block %d: %w", m.config.Block, err)
		}
		event.Data = data
		return event, nil

	case ActionWrite:
		if err := m.device.AuthenticateKeyA(m.config.Block, m.config.KeyA, card.UID); err != nil {
			return nil, fmt.Errorf("authenticate block %d: %w", m.config.Block, err)
		}
		defer m.stopCrypto()
		event.Data = m.config.WriteData
		if m.config.VerifyWrite {
			readback, verified, err := m.device.WriteBlockVerified(
				m.config.Block, m.config.WriteData, m.config.KeyA, card.UID)
			if err != nil {
				return nil, fmt.Errorf("write block %d: %w", m.config.Block, err)
			}
			event.ReadBack = readback
			event.Verified = verified
			return event, nil
		}
		if err := m.device.WriteBlock(m.config.Block, m.config.WriteData); err != nil {
			return nil, fmt.Errorf("write block %d: %w", m.config.Block, err)
		}
		return event, nil

	default:
		return nil, fmt.Errorf("unknown action %q", m.config.Action)
	}
}

func (m *Monitor) stopCrypto() {
	if err := m.device.StopCrypto(); err != nil && m.OnError != nil {
		m.OnError(fmt.Errorf("stop crypto: %w", err))
	}
}
