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
	"testing"
)

func TestRegisterAddressEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reg       byte
		wantWrite byte
		wantRead  byte
	}{
		{name: "command", reg: regCommand, wantWrite: 0x02, wantRead: 0x82},
		{name: "com irq", reg: regComIrq, wantWrite: 0x08, wantRead: 0x88},
		{name: "fifo data", reg: regFIFOData, wantWrite: 0x12, wantRead: 0x92},
		{name: "bit framing", reg: regBitFraming, wantWrite: 0x1A, wantRead: 0x9A},
		{name: "tx control", reg: regTxControl, wantWrite: 0x28, wantRead: 0xA8},
		{name: "version", reg: regVersion, wantWrite: 0x6E, wantRead: 0xEE},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := regWriteAddr(tt.reg); got != tt.wantWrite {
				t.Errorf("regWriteAddr(0x%02X) = 0x%02X, want 0x%02X", tt.reg, got, tt.wantWrite)
			}
			if got := regReadAddr(tt.reg); got != tt.wantRead {
				t.Errorf("regReadAddr(0x%02X) = 0x%02X, want 0x%02X", tt.reg, got, tt.wantRead)
			}
		})
	}
}

func TestRegisterAddressBitLayout(t *testing.T) {
	t.Parallel()

	// Bit 0 must always be clear and bit 7 distinguishes read from write,
	// for every addressable register.
	for reg := byte(0); reg < 0x40; reg++ {
		w := regWriteAddr(reg)
		r := regReadAddr(reg)
		if w&0x01 != 0 || r&0x01 != 0 {
			t.Fatalf("register 0x%02X: LSB must be zero (write 0x%02X, read 0x%02X)", reg, w, r)
		}
		if w&0x80 != 0 {
			t.Fatalf("register 0x%02X: write address has read bit set", reg)
		}
		if r&0x80 == 0 {
			t.Fatalf("register 0x%02X: read address missing read bit", reg)
		}
		if r&0x7F != w {
			t.Fatalf("register 0x%02X: read/write addresses disagree on index bits", reg)
		}
	}
}
