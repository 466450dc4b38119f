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

package simulator

// MIFARE Classic 1K layout.
const (
	blockSize    = 16
	blockCount   = 64
	sectorBlocks = 4
	sectorCount  = blockCount / sectorBlocks
	keySize      = 6
)

// Card is a virtual MIFARE Classic 1K card held in the simulated field
type Card struct {
	UID    []byte
	ATQA   [2]byte
	SAK    byte
	Blocks [blockCount][blockSize]byte
	KeysA  [sectorCount][keySize]byte
	KeysB  [sectorCount][keySize]byte

	// Halted is set by HLTA; a halted card ignores REQA but answers WUPA
	Halted bool
}

// NewMIFARE1K creates a virtual 1K card with the given 4-byte UID, factory
// default keys (all 0xFF) and default trailer access bytes. Block 0 carries
// the UID and check byte the way manufacturers burn it in.
func NewMIFARE1K(uid []byte) *Card {
	card := &Card{
		UID:  append([]byte(nil), uid...),
		ATQA: [2]byte{0x04, 0x00},
		SAK:  0x08,
	}

	copy(card.Blocks[0][:], uid)
	var bcc byte
	for _, b := range uid {
		bcc ^= b
	}
	card.Blocks[0][len(uid)] = bcc

	defaultKey := [keySize]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	for sector := 0; sector < sectorCount; sector++ {
		card.KeysA[sector] = defaultKey
		card.KeysB[sector] = defaultKey

		trailer := card.Blocks[sector*sectorBlocks+sectorBlocks-1][:]
		copy(trailer[:keySize], defaultKey[:])
		// Transport configuration access bytes
		trailer[6], trailer[7], trailer[8], trailer[9] = 0xFF, 0x07, 0x80, 0x69
		copy(trailer[10:], defaultKey[:])
	}

	return card
}

// SetBlock stores one block of card memory, zero-padding short data
func (c *Card) SetBlock(block byte, data []byte) {
	var buf [blockSize]byte
	copy(buf[:], data)
	c.Blocks[block] = buf
}

// keyForAuth returns the sector key selected by the MIFARE auth command byte
func (c *Card) keyForAuth(cmd, block byte) ([]byte, bool) {
	sector := int(block) / sectorBlocks
	if sector >= sectorCount {
		return nil, false
	}
	switch cmd {
	case 0x60:
		return c.KeysA[sector][:], true
	case 0x61:
		return c.KeysB[sector][:], true
	default:
		return nil, false
	}
}
