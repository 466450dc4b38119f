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

package rc522

import (
	"encoding/hex"
	"fmt"
	"time"
)

// ISO14443A / MIFARE Classic card command bytes.
const (
	piccReqA     = 0x26 // REQA wake command, transmitted as a 7-bit frame
	piccWupA     = 0x52 // Wake-up, also wakes halted cards
	piccHaltA    = 0x50 // HLTA, followed by 0x00 and CRC
	piccCascade1 = 0x93 // Cascade level 1 select/anticollision
	piccNVBAnti  = 0x20 // NVB for the anticollision step (2 bytes sent)
	piccNVBSel   = 0x70 // NVB for the select step (7 bytes sent)
)

// reqaTxBits is the bit count of the REQA/WUPA short frame
const reqaTxBits = 7

// uidCL1Size is the cascade-level-1 UID length handled by this driver.
// Double and triple size UIDs (cascade levels 2/3) are out of scope.
const uidCL1Size = 4

// DetectedCard describes one card resolved by a detection cycle. It is
// rebuilt fresh every cycle; persistence across polls is the caller's
// concern.
type DetectedCard struct {
	DetectedAt time.Time
	UID        []byte
	ATQA       []byte
	SAK        byte
}

// UIDHex returns the UID as a hex string
func (c *DetectedCard) UIDHex() string {
	return hex.EncodeToString(c.UID)
}

// ATQAHex returns the ATQA as a hex string
func (c *DetectedCard) ATQAHex() string {
	return hex.EncodeToString(c.ATQA)
}

// SAKHex returns the SAK as a "0x"-prefixed hex byte
func (c *DetectedCard) SAKHex() string {
	return fmt.Sprintf("0x%02X", c.SAK)
}

// RequestA transmits the REQA wake command as a 7-bit frame and returns the
// 2-byte ATQA. A nil result means no card answered — the expected common
// case during polling, not an error. Any response that is not exactly 2
// bytes is likewise treated as no card.
func (d *Device) RequestA() ([]byte, error) {
	return d.request(piccReqA)
}

// WakeupA transmits the WUPA command, which additionally wakes cards halted
// by HaltA. Poll loops that halt the card after each completed cycle use
// this to keep seeing it while it remains in the field.
func (d *Device) WakeupA() ([]byte, error) {
	return d.request(piccWupA)
}

func (d *Device) request(cmd byte) ([]byte, error) {
	res, err := d.transceive([]byte{cmd}, reqaTxBits, d.config.DetectTimeout)
	if err != nil {
		return nil, err
	}
	if len(res.Data) != 2 {
		return nil, nil
	}
	return res.Data, nil
}

// AntiCollision runs the cascade-level-1 anticollision loop and returns the
// 4-byte UID. The card's fifth response byte is the exclusive-or of the four
// UID bytes; a mismatch means a partial or corrupted read and yields a nil
// UID rather than an error, so the next poll cycle can retry cleanly.
func (d *Device) AntiCollision() ([]byte, error) {
	// All received bits are kept after a collision so the check byte stays
	// aligned with the UID bytes.
	if err := d.clearRegisterBits(regColl, collValuesAfterColl); err != nil {
		return nil, err
	}

	res, err := d.transceive([]byte{piccCascade1, piccNVBAnti}, 0, d.config.DetectTimeout)
	if err != nil {
		return nil, err
	}
	if len(res.Data) < uidCL1Size+1 {
		return nil, nil
	}

	uid := res.Data[:uidCL1Size]
	if checkByte(uid) != res.Data[uidCL1Size] {
		debugf("anticollision: check byte mismatch for % X", res.Data[:uidCL1Size+1])
		return nil, nil
	}
	return uid, nil
}

// checkByte computes the exclusive-or of the UID bytes (the BCC of
// ISO14443-3)
func checkByte(uid []byte) byte {
	var bcc byte
	for _, b := range uid {
		bcc ^= b
	}
	return bcc
}

// Select selects the card with the given 4-byte UID and returns its SAK.
// ok is false when the card did not answer with a SAK.
func (d *Device) Select(uid []byte) (sak byte, ok bool, err error) {
	if len(uid) != uidCL1Size {
		return 0, false, fmt.Errorf("%w: UID must be %d bytes", ErrInvalidParameter, uidCL1Size)
	}

	frame := make([]byte, 0, 9)
	frame = append(frame, piccCascade1, piccNVBSel)
	frame = append(frame, uid...)
	frame = append(frame, checkByte(uid))
	frame, err = d.appendCRC(frame)
	if err != nil {
		return 0, false, err
	}

	res, err := d.transceive(frame, 0, d.config.DetectTimeout)
	if err != nil {
		return 0, false, err
	}
	if len(res.Data) < 1 {
		return 0, false, nil
	}
	return res.Data[0], true, nil
}

// DetectCard runs one full detection cycle: REQA, anticollision, select.
// It returns nil when no card is present or the card dropped out midway;
// errors are reserved for transport and chip faults.
func (d *Device) DetectCard() (*DetectedCard, error) {
	atqa, err := d.RequestA()
	if err != nil {
		return nil, err
	}
	return d.resolveCard(atqa)
}

// DetectCardWakeup is DetectCard with WUPA instead of REQA, so cards halted
// after a previous cycle are still seen while they stay in the field.
func (d *Device) DetectCardWakeup() (*DetectedCard, error) {
	atqa, err := d.WakeupA()
	if err != nil {
		return nil, err
	}
	return d.resolveCard(atqa)
}

func (d *Device) resolveCard(atqa []byte) (*DetectedCard, error) {
	if atqa == nil {
		return nil, nil
	}

	uid, err := d.AntiCollision()
	if err != nil {
		return nil, err
	}
	if uid == nil {
		return nil, nil
	}

	sak, ok, err := d.Select(uid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &DetectedCard{
		UID:        uid,
		ATQA:       atqa,
		SAK:        sak,
		DetectedAt: time.Now(),
	}, nil
}

// HaltA puts the selected card into the halted state so it stops answering
// REQA until it leaves and re-enters the field (or receives WUPA). The card
// acknowledges HLTA by staying silent, so a timeout here is success.
func (d *Device) HaltA() error {
	frame, err := d.appendCRC([]byte{piccHaltA, 0x00})
	if err != nil {
		return err
	}
	res, err := d.transceive(frame, 0, d.config.DetectTimeout)
	if err != nil {
		return err
	}
	if res.Received() {
		// Any response to HLTA is a NAK
		debugf("halt: unexpected response % X", res.Data)
	}
	return nil
}
