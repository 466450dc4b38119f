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
	"time"
)

// Non-data transceive outcomes recorded in TransceiveResult.Note.
const (
	// noteTimerIRq marks a cycle ended by the chip's internal timeout timer
	noteTimerIRq = "TimerIRq"
	// noteTimeout marks a cycle ended by the wall-clock deadline
	noteTimeout = "Timeout"
)

// TransceiveResult holds the outcome of one combined transmit+receive cycle.
//
// Data is empty whenever the cycle did not reach a successful receive stage;
// Note then says why ("TimerIRq" or "Timeout"). Callers treat an empty-data
// result as "no card / no response", not as a fault.
type TransceiveResult struct {
	// Note annotates non-data outcomes; empty on a successful receive
	Note string
	// Data is the received byte sequence
	Data []byte
	// ValidBits is the number of meaningful bits in the last byte of Data;
	// 0 means all 8 bits are valid
	ValidBits byte
	// ErrorReg is the chip error-register snapshot after the cycle
	ErrorReg byte
	// IRQReg is the chip interrupt-register snapshot that ended the cycle
	IRQReg byte
}

// Received reports whether the cycle produced response data
func (r *TransceiveResult) Received() bool {
	return r.Note == "" && len(r.Data) > 0
}

// transceive runs the central exchange state machine: flush the FIFO, load
// the frame, start a combined transmit+receive cycle, and poll chip status
// until completion, chip timer expiry, or the wall-clock deadline.
// txLastBits is the number of valid bits in the last frame byte (0 = all 8),
// used for non-byte-aligned frames such as the 7-bit REQA.
//
// The engine never retries; retry policy belongs to the caller.
func (d *Device) transceive(frame []byte, txLastBits byte, timeout time.Duration) (*TransceiveResult, error) {
	if err := d.writeRegister(regCommand, cmdIdle); err != nil {
		return nil, err
	}
	if err := d.writeRegister(regComIrq, irqAllCom); err != nil {
		return nil, err
	}
	if err := d.flushFIFO(); err != nil {
		return nil, err
	}
	if err := d.writeRegisterBurst(regFIFOData, frame); err != nil {
		return nil, err
	}
	if err := d.writeRegister(regBitFraming, txLastBits&framingTxLastBits); err != nil {
		return nil, err
	}
	if err := d.writeRegister(regCommand, cmdTransceive); err != nil {
		return nil, err
	}
	if err := d.setRegisterBits(regBitFraming, framingStartSend); err != nil {
		return nil, err
	}

	irq, done, err := d.pollRegister(regComIrq, irqRx|irqTimer, timeout)
	if err != nil {
		return nil, err
	}

	result := &TransceiveResult{IRQReg: irq}
	switch {
	case !done:
		result.Note = noteTimeout
		return result, nil
	case irq&irqRx == 0:
		// Timer expired before the receiver saw a frame: no card answered
		result.Note = noteTimerIRq
		return result, nil
	}

	if err := d.clearRegisterBits(regBitFraming, framingStartSend); err != nil {
		return nil, err
	}

	errReg, err := d.readRegister(regError)
	if err != nil {
		return nil, err
	}
	result.ErrorReg = errReg
	if errReg&errTransceiveMask != 0 {
		return nil, &TransceiveError{Op: "transceive", ErrorReg: errReg}
	}

	level, err := d.fifoLevel()
	if err != nil {
		return nil, err
	}
	result.Data, err = d.readFIFO(int(level))
	if err != nil {
		return nil, err
	}

	control, err := d.readRegister(regControl)
	if err != nil {
		return nil, err
	}
	result.ValidBits = control & controlRxLastBits
	return result, nil
}
