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
	"errors"
	"testing"
)

func TestCalcCRCReadsResultLowByteFirst(t *testing.T) {
	t.Parallel()

	var loaded []byte
	mock := newChipMock()
	mock.onCalcCRC = func(m *chipMock, data []byte) {
		loaded = append([]byte(nil), data...)
		m.regs[regCRCResultLo] = 0x12
		m.regs[regCRCResultHi] = 0x34
		m.regs[regDivIrq] |= irqCRC
	}
	device := newTestDevice(mock)

	crc, err := device.calcCRC([]byte{0x50, 0x00})
	if err != nil {
		t.Fatalf("calcCRC() error = %v", err)
	}
	if !bytes.Equal(crc, []byte{0x12, 0x34}) {
		t.Errorf("calcCRC() = % X, want 12 34", crc)
	}
	if !bytes.Equal(loaded, []byte{0x50, 0x00}) {
		t.Errorf("coprocessor input = % X, want 50 00", loaded)
	}
}

func TestCalcCRCTimeout(t *testing.T) {
	t.Parallel()

	// Coprocessor never signals completion
	mock := newChipMock()
	mock.onCalcCRC = func(_ *chipMock, _ []byte) {}
	device := newTestDevice(mock)

	_, err := device.calcCRC([]byte{0x30, 0x08})
	if !errors.Is(err, ErrCRCTimeout) {
		t.Fatalf("calcCRC() error = %v, want ErrCRCTimeout", err)
	}
}

func TestAppendCRC(t *testing.T) {
	t.Parallel()

	mock := newChipMock()
	device := newTestDevice(mock)

	frame, err := device.appendCRC([]byte{0x30, 0x08})
	if err != nil {
		t.Fatalf("appendCRC() error = %v", err)
	}
	// The default mock CRC result is 0x57 0xCD
	want := []byte{0x30, 0x08, 0x57, 0xCD}
	if !bytes.Equal(frame, want) {
		t.Errorf("appendCRC() = % X, want % X", frame, want)
	}
}
