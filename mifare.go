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
	"bytes"
	"fmt"
)

// MIFARE Classic commands
const (
	mifareCmdAuthA = 0x60
	mifareCmdAuthB = 0x61
	mifareCmdRead  = 0x30
	mifareCmdWrite = 0xA0
)

// MIFARE memory structure
const (
	// BlockSize is the MIFARE Classic block size in bytes
	BlockSize = 16
	// KeySize is the MIFARE Classic key size in bytes
	KeySize = 6

	sectorBlocks = 4 // blocks per sector on 1K layout

	// mifareAck is the 4-bit acknowledge code a card answers to a valid
	// write phase
	mifareAck = 0x0A
)

// IsTrailerBlock reports whether block is a sector trailer holding keys and
// access bits (every fourth block). Writing a trailer reconfigures the
// sector and can brick it; callers are expected to refuse such writes
// unless the risk is explicitly acknowledged.
func IsTrailerBlock(block byte) bool {
	return block%sectorBlocks == sectorBlocks-1
}

// ensure16Bytes normalizes data to exactly one block: shorter input is
// zero-padded on the right, longer input is truncated to the first 16 bytes.
func ensure16Bytes(data []byte) []byte {
	if len(data) == BlockSize {
		return data
	}
	block := make([]byte, BlockSize)
	copy(block, data)
	return block
}

// AuthenticateKeyA establishes the MIFARE crypto channel for the sector
// containing block, using Key A and the card's 4-byte UID from the current
// detection cycle.
//
// Authentication does not use the generic transceive success contract: the
// chip signals completion through the idle (or timer) interrupt, but the
// authoritative success criterion is the crypto-channel status bit. The
// session it establishes is implicit chip state, invalidated by a soft
// reset, StopCrypto, or the next authenticate call.
func (d *Device) AuthenticateKeyA(block byte, key, uid []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
	if len(uid) < uidCL1Size {
		return fmt.Errorf("%w: UID must be at least %d bytes", ErrInvalidParameter, uidCL1Size)
	}

	frame := make([]byte, 0, 2+KeySize+uidCL1Size)
	frame = append(frame, mifareCmdAuthA, block)
	frame = append(frame, key...)
	frame = append(frame, uid[:uidCL1Size]...)

	if err := d.writeRegister(regCommand, cmdIdle); err != nil {
		return err
	}
	if err := d.writeRegister(regComIrq, irqAllCom); err != nil {
		return err
	}
	if err := d.flushFIFO(); err != nil {
		return err
	}
	if err := d.writeRegisterBurst(regFIFOData, frame); err != nil {
		return err
	}
	if err := d.writeRegister(regCommand, cmdMFAuthent); err != nil {
		return err
	}

	// Idle and timer both just end the wait; neither implies success.
	if _, _, err := d.pollRegister(regComIrq, irqIdle|irqTimer, d.config.AuthTimeout); err != nil {
		return err
	}

	errReg, err := d.readRegister(regError)
	if err != nil {
		return err
	}
	if errReg&errProtocol != 0 {
		return fmt.Errorf("%w (error register 0x%02X)", ErrAuthError, errReg)
	}

	status, err := d.readRegister(regStatus2)
	if err != nil {
		return err
	}
	if status&status2MFCrypto1On == 0 {
		return ErrAuthFailed
	}
	return nil
}

// ReadBlock reads one 16-byte block from the authenticated sector
func (d *Device) ReadBlock(block byte) ([]byte, error) {
	frame, err := d.appendCRC([]byte{mifareCmdRead, block})
	if err != nil {
		return nil, err
	}

	res, err := d.transceive(frame, 0, d.config.ReadTimeout)
	if err != nil {
		return nil, err
	}
	if len(res.Data) < BlockSize {
		return nil, fmt.Errorf("%w: block %d returned %d bytes", ErrShortRead, block, len(res.Data))
	}
	return res.Data[:BlockSize], nil
}

// writePhase tracks the two-phase MIFARE write protocol. The phase-1
// acknowledge must be validated before any payload is sent; once phase 2 is
// on the air there is no rollback.
type writePhase int

const (
	phaseAwaitAck1 writePhase = iota
	phaseAwaitAck2
	phaseDone
)

// WriteBlock writes one 16-byte block to the authenticated sector using the
// card's two-phase protocol: command then payload, each acknowledged with a
// 4-bit ACK. data is normalized to exactly 16 bytes (zero-padded or
// truncated).
//
// A phase-1 failure aborts before any data is sent. A phase-2 failure
// leaves the block contents undefined from the driver's perspective;
// callers needing certainty must re-authenticate and read back (or use
// WriteBlockVerified).
func (d *Device) WriteBlock(block byte, data []byte) error {
	payload := ensure16Bytes(data)

	for phase := phaseAwaitAck1; phase != phaseDone; {
		switch phase {
		case phaseAwaitAck1:
			frame, err := d.appendCRC([]byte{mifareCmdWrite, block})
			if err != nil {
				return err
			}
			res, err := d.transceive(frame, 0, d.config.WriteAckTimeout)
			if err != nil {
				return err
			}
			if !isWriteAck(res) {
				return &WriteAckError{Phase: 1}
			}
			phase = phaseAwaitAck2

		case phaseAwaitAck2:
			frame, err := d.appendCRC(append([]byte(nil), payload...))
			if err != nil {
				return err
			}
			res, err := d.transceive(frame, 0, d.config.WriteDataTimeout)
			if err != nil {
				return err
			}
			if !isWriteAck(res) {
				return &WriteAckError{Phase: 2}
			}
			phase = phaseDone
		}
	}
	return nil
}

// isWriteAck validates the 4-bit MIFARE acknowledge. The low nibble of the
// single response byte must be 0xA, framed as either 4 or 0 valid bits in
// the last byte — both encodings are accepted (clone chips differ here).
func isWriteAck(res *TransceiveResult) bool {
	if len(res.Data) < 1 {
		return false
	}
	if res.ValidBits != 4 && res.ValidBits != 0 {
		return false
	}
	return res.Data[0]&0x0F == mifareAck
}

// WriteBlockVerified writes a block, re-authenticates the sector, reads the
// block back, and compares. It returns the read-back payload and whether it
// matched the written data byte for byte.
func (d *Device) WriteBlockVerified(block byte, data, key, uid []byte) (readback []byte, verified bool, err error) {
	payload := ensure16Bytes(data)
	if err := d.WriteBlock(block, payload); err != nil {
		return nil, false, err
	}

	// The write left the crypto session consumed on some cards; start a
	// fresh one before reading back.
	if err := d.AuthenticateKeyA(block, key, uid); err != nil {
		return nil, false, fmt.Errorf("read-back authentication: %w", err)
	}
	readback, err = d.ReadBlock(block)
	if err != nil {
		return nil, false, fmt.Errorf("read-back: %w", err)
	}
	return readback, bytes.Equal(readback, payload), nil
}
