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
	"fmt"
	"time"
)

// Register access primitives. Each call is one synchronous bus transaction;
// there is no buffering and no retry at this layer — transport faults
// propagate to the caller untouched.

// writeRegister writes a single value to a chip register
func (d *Device) writeRegister(reg, value byte) error {
	if _, err := d.transport.Exchange([]byte{regWriteAddr(reg), value}); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

// writeRegisterBurst writes a sequence of bytes to one register address.
// Used to load the FIFO in a single transaction.
func (d *Device) writeRegisterBurst(reg byte, data []byte) error {
	tx := make([]byte, 1+len(data))
	tx[0] = regWriteAddr(reg)
	copy(tx[1:], data)
	if _, err := d.transport.Exchange(tx); err != nil {
		return fmt.Errorf("burst write register 0x%02X: %w", reg, err)
	}
	return nil
}

// readRegister reads a single chip register. The reply byte after the
// address echo holds the value.
func (d *Device) readRegister(reg byte) (byte, error) {
	rx, err := d.transport.Exchange([]byte{regReadAddr(reg), 0x00})
	if err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	if len(rx) < 2 {
		return 0, fmt.Errorf("read register 0x%02X: %w", reg, ErrTransportRead)
	}
	return rx[1], nil
}

// setRegisterBits sets the masked bits of a register, leaving the rest
func (d *Device) setRegisterBits(reg, mask byte) error {
	value, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, value|mask)
}

// clearRegisterBits clears the masked bits of a register, leaving the rest
func (d *Device) clearRegisterBits(reg, mask byte) error {
	value, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, value&^mask)
}

// pollRegister reads a register until one of the masked bits is set or the
// deadline passes. It returns the last register value and whether a masked
// bit was seen. This single helper backs the CRC, transceive, and
// authentication waits so their loops stay identical.
func (d *Device) pollRegister(reg, mask byte, timeout time.Duration) (byte, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		value, err := d.readRegister(reg)
		if err != nil {
			return 0, false, err
		}
		if value&mask != 0 {
			return value, true, nil
		}
		if time.Now().After(deadline) {
			return value, false, nil
		}
	}
}

// flushFIFO discards any bytes buffered in the chip FIFO. Must run before
// loading a new command frame so stale data cannot corrupt the next receive.
func (d *Device) flushFIFO() error {
	return d.writeRegister(regFIFOLevel, fifoFlushBuffer)
}

// fifoLevel returns the number of bytes queued in the FIFO
func (d *Device) fifoLevel() (byte, error) {
	level, err := d.readRegister(regFIFOLevel)
	if err != nil {
		return 0, err
	}
	return level & fifoLevelMask, nil
}

// readFIFO drains n bytes from the FIFO, one register read per byte. Clone
// silicon returns corrupt data on multi-byte burst reads of the FIFO
// register, so the single-byte discipline is deliberate and must be kept
// even though it is slower.
func (d *Device) readFIFO(n int) ([]byte, error) {
	data := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := d.readRegister(regFIFOData)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}
