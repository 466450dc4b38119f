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
)

// calcCRC runs the chip's CRC16 coprocessor over data and returns the
// result low byte first, ready to append to an outgoing frame. The CRC
// preset (0x6363 for ISO14443A) is configured by Init via regMode.
func (d *Device) calcCRC(data []byte) ([]byte, error) {
	if err := d.writeRegister(regCommand, cmdIdle); err != nil {
		return nil, err
	}
	if err := d.writeRegister(regDivIrq, irqCRC); err != nil {
		return nil, err
	}
	if err := d.flushFIFO(); err != nil {
		return nil, err
	}
	if err := d.writeRegisterBurst(regFIFOData, data); err != nil {
		return nil, err
	}
	if err := d.writeRegister(regCommand, cmdCalcCRC); err != nil {
		return nil, err
	}

	_, done, err := d.pollRegister(regDivIrq, irqCRC, d.config.CRCTimeout)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w after %v", ErrCRCTimeout, d.config.CRCTimeout)
	}

	lo, err := d.readRegister(regCRCResultLo)
	if err != nil {
		return nil, err
	}
	hi, err := d.readRegister(regCRCResultHi)
	if err != nil {
		return nil, err
	}
	return []byte{lo, hi}, nil
}

// appendCRC returns frame with its CRC16 check bytes appended
func (d *Device) appendCRC(frame []byte) ([]byte, error) {
	crc, err := d.calcCRC(frame)
	if err != nil {
		return nil, err
	}
	return append(frame, crc...), nil
}
