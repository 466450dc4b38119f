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
	"errors"
	"fmt"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
)

// Action selects what the monitor does once per card arrival
type Action string

const (
	// ActionUID reports the card identity and does nothing else
	ActionUID Action = "uid"
	// ActionRead authenticates and reads one block
	ActionRead Action = "read"
	// ActionWrite authenticates and writes one block
	ActionWrite Action = "write"
)

// ParseAction converts a string into an Action
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionUID, ActionRead, ActionWrite:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q (want uid, read or write)", s)
	}
}

// Config holds the monitor configuration
type Config struct {
	// Action is performed once per card arrival
	Action Action
	// KeyA is the 6-byte MIFARE Key A used by read and write actions
	KeyA []byte
	// WriteData is the payload for write actions, padded or truncated to
	// one block
	WriteData []byte
	// PollInterval is the pause between detection cycles
	PollInterval time.Duration
	// CardRemovalTimeout is how long a card may go unseen before it is
	// reported removed
	CardRemovalTimeout time.Duration
	// Block is the target block for read and write actions
	Block byte
	// VerifyWrite reads the block back after a write and compares
	VerifyWrite bool
	// AllowTrailerWrite permits writes to sector trailer blocks. Trailers
	// hold keys and access bits; a bad write can lock the sector for good.
	AllowTrailerWrite bool
}

// DefaultConfig returns the monitor defaults
func DefaultConfig() *Config {
	return &Config{
		Action:             ActionUID,
		PollInterval:       250 * time.Millisecond,
		CardRemovalTimeout: 2 * time.Second,
	}
}

// Validate checks the configuration for the selected action
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.CardRemovalTimeout <= 0 {
		return errors.New("card removal timeout must be positive")
	}

	switch c.Action {
	case ActionUID:
		return nil
	case ActionRead:
		if len(c.KeyA) != rc522.KeySize {
			return fmt.Errorf("read action needs a %d-byte key, got %d bytes",
				rc522.KeySize, len(c.KeyA))
		}
		return nil
	case ActionWrite:
		if len(c.KeyA) != rc522.KeySize {
			return fmt.Errorf("write action needs a %d-byte key, got %d bytes",
				rc522.KeySize, len(c.KeyA))
		}
		if len(c.WriteData) == 0 {
			return errors.New("write action needs data")
		}
		if c.Block == 0 {
			return errors.New("refusing to write manufacturer block 0")
		}
		if rc522.IsTrailerBlock(c.Block) && !c.AllowTrailerWrite {
			return fmt.Errorf("refusing to write sector trailer block %d", c.Block)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}
