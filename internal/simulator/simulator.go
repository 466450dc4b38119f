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

// Package simulator implements a register-accurate MFRC522 chip model
// behind the rc522.Transport interface, with a virtual MIFARE Classic 1K
// card in the field. It lets the full driver stack run in tests without
// hardware: the driver's register writes drive the same command, FIFO and
// interrupt behavior a real chip shows.
package simulator

import (
	"sync"

	rc522 "github.com/ZaparooProject/go-rc522"
)

// Register and command numbers mirrored from the chip datasheet. The
// simulator keeps its own copies because the driver's constants are
// unexported, and the two sets agreeing is exactly what the end-to-end
// tests establish.
const (
	regCommand     = 0x01
	regComIrq      = 0x04
	regDivIrq      = 0x05
	regError       = 0x06
	regStatus2     = 0x08
	regFIFOData    = 0x09
	regFIFOLevel   = 0x0A
	regControl     = 0x0C
	regBitFraming  = 0x0D
	regCRCResultHi = 0x21
	regCRCResultLo = 0x22
	regVersion     = 0x37

	cmdIdle       = 0x00
	cmdCalcCRC    = 0x03
	cmdTransceive = 0x0C
	cmdMFAuthent  = 0x0E
	cmdSoftReset  = 0x0F

	irqRx    = 0x20
	irqIdle  = 0x10
	irqTimer = 0x01
	irqCRC   = 0x04

	errProtocol = 0x01

	status2Crypto1On = 0x08
	fifoFlush        = 0x80
	framingStartSend = 0x80
	framingLastBits  = 0x07

	chipVersion = 0x92 // MFRC522 v2.0
)

const (
	mifareAck  = 0x0A
	mifareNakI = 0x04 // invalid operation NAK
)

// Chip simulates one MFRC522 with an optional card in its field. It
// implements rc522.Transport, so rc522.New can be pointed straight at it.
//
// Unlike the driver, the simulator is safe for concurrent use; tests may
// mutate the field from another goroutine while a poll loop runs.
type Chip struct {
	mu   sync.Mutex
	regs [64]byte
	fifo []byte
	card *Card

	authedSector int
	pendingWrite int
	closed       bool

	// OverrideAnticollision, when non-nil, replaces the UID+check-byte
	// response of the anticollision step. Used to inject corrupted reads.
	OverrideAnticollision []byte

	// AuthProtocolError makes the next MFAuthent end with the protocol
	// error flag set instead of a timeout
	AuthProtocolError bool

	// AckFullByte frames write acknowledges as a full byte (valid bits 0)
	// instead of the standard 4-bit frame, the way some clone cards do
	AckFullByte bool

	forcedError byte
}

// New creates a simulated chip with an empty field
func New() *Chip {
	c := &Chip{}
	c.reset()
	return c
}

// NewWithCard creates a simulated chip with card already in the field
func NewWithCard(card *Card) *Chip {
	c := New()
	c.card = card
	return c
}

// SetCard places a card in the field (or empties it with nil)
func (c *Chip) SetCard(card *Card) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card
	c.authedSector = -1
	c.pendingWrite = -1
}

// Card returns the card currently in the field
func (c *Chip) Card() *Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.card
}

// ForceTransceiveError makes the next transceive complete with the given
// error register bits set
func (c *Chip) ForceTransceiveError(mask byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forcedError = mask
}

// reset restores power-on register state. The card keeps its own state; a
// reader reset does not touch the field.
func (c *Chip) reset() {
	c.regs = [64]byte{}
	c.regs[regVersion] = chipVersion
	c.fifo = nil
	c.authedSector = -1
	c.pendingWrite = -1
}

// Exchange performs one register transaction against the simulated chip
func (c *Chip) Exchange(tx []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, rc522.NewTransportWriteError("exchange", "simulator")
	}
	if len(tx) < 2 {
		return nil, rc522.NewTransportError("exchange", "simulator",
			rc522.ErrInvalidParameter, rc522.ErrorTypePermanent)
	}

	reg := (tx[0] >> 1) & 0x3F
	rx := make([]byte, len(tx))

	if tx[0]&0x80 != 0 {
		for i := 1; i < len(tx); i++ {
			rx[i] = c.readReg(reg)
		}
		return rx, nil
	}

	for _, value := range tx[1:] {
		c.writeReg(reg, value)
	}
	return rx, nil
}

// Close closes the transport. Safe to call more than once.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// IsConnected returns true if the transport is connected
func (c *Chip) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Type returns the transport type
func (*Chip) Type() rc522.TransportType {
	return rc522.TransportMock
}

func (c *Chip) readReg(reg byte) byte {
	switch reg {
	case regFIFOData:
		if len(c.fifo) == 0 {
			return 0
		}
		b := c.fifo[0]
		c.fifo = c.fifo[1:]
		return b
	case regFIFOLevel:
		return byte(len(c.fifo)) & 0x7F
	default:
		return c.regs[reg]
	}
}

func (c *Chip) writeReg(reg, value byte) {
	switch reg {
	case regCommand:
		c.execCommand(value)
	case regComIrq, regDivIrq:
		// Bit 7 selects set (1) or clear (0) for the marked bits
		if value&0x80 != 0 {
			c.regs[reg] |= value & 0x7F
		} else {
			c.regs[reg] &^= value & 0x7F
		}
	case regFIFOLevel:
		if value&fifoFlush != 0 {
			c.fifo = nil
		}
	case regFIFOData:
		c.fifo = append(c.fifo, value)
	case regBitFraming:
		c.regs[reg] = value
		if value&framingStartSend != 0 && c.regs[regCommand] == cmdTransceive {
			c.runTransceive()
		}
	case regStatus2:
		c.regs[reg] = value
		if value&status2Crypto1On == 0 {
			c.authedSector = -1
		}
	default:
		c.regs[reg] = value
	}
}

func (c *Chip) execCommand(cmd byte) {
	switch cmd {
	case cmdSoftReset:
		c.reset()
		c.regs[regCommand] = cmdIdle
	case cmdCalcCRC:
		lo, hi := crcA(c.fifo)
		c.fifo = nil
		c.regs[regCRCResultLo] = lo
		c.regs[regCRCResultHi] = hi
		c.regs[regDivIrq] |= irqCRC
		c.regs[regCommand] = cmdIdle
	case cmdMFAuthent:
		frame := c.fifo
		c.fifo = nil
		c.runAuthent(frame)
		c.regs[regCommand] = cmdIdle
	default:
		c.regs[regCommand] = cmd
	}
}

// runAuthent models the three-pass MIFARE authentication as a single key
// and UID comparison. On success the crypto status bit comes on; on a key
// mismatch the chip just times out, exactly like a real card staying silent
// in pass two.
func (c *Chip) runAuthent(frame []byte) {
	if c.AuthProtocolError {
		c.AuthProtocolError = false
		c.regs[regError] |= errProtocol
		c.regs[regComIrq] |= irqIdle
		return
	}

	if c.card == nil || len(frame) != 2+keySize+4 {
		c.regs[regComIrq] |= irqTimer
		return
	}

	block := frame[1]
	key := frame[2 : 2+keySize]
	uid := frame[2+keySize:]

	cardKey, ok := c.card.keyForAuth(frame[0], block)
	if !ok || !equalBytes(key, cardKey) || !equalBytes(uid, c.card.UID) {
		c.regs[regComIrq] |= irqTimer
		return
	}

	c.authedSector = int(block) / sectorBlocks
	c.regs[regStatus2] |= status2Crypto1On
	c.regs[regComIrq] |= irqIdle
}

// runTransceive executes the frame loaded in the FIFO against the card in
// the field and leaves the response (if any) in the FIFO with the matching
// interrupt bits.
func (c *Chip) runTransceive() {
	frame := c.fifo
	c.fifo = nil
	txLastBits := c.regs[regBitFraming] & framingLastBits
	c.regs[regError] = 0

	if c.forcedError != 0 {
		c.regs[regError] = c.forcedError
		c.forcedError = 0
		c.fifo = []byte{0x00}
		c.regs[regComIrq] |= irqRx | irqIdle
		return
	}

	if c.card == nil {
		c.noResponse()
		return
	}

	switch {
	case txLastBits == 7 && len(frame) == 1 && frame[0] == 0x26: // REQA
		if c.card.Halted {
			c.noResponse()
			return
		}
		c.respond(c.card.ATQA[:], 0)

	case txLastBits == 7 && len(frame) == 1 && frame[0] == 0x52: // WUPA
		c.card.Halted = false
		c.respond(c.card.ATQA[:], 0)

	case len(frame) == 2 && frame[0] == 0x93 && frame[1] == 0x20: // anticollision CL1
		if c.OverrideAnticollision != nil {
			c.respond(c.OverrideAnticollision, 0)
			return
		}
		response := append([]byte(nil), c.card.UID...)
		var bcc byte
		for _, b := range c.card.UID {
			bcc ^= b
		}
		c.respond(append(response, bcc), 0)

	case len(frame) == 9 && frame[0] == 0x93 && frame[1] == 0x70: // select CL1
		if !frameCRCValid(frame) || !equalBytes(frame[2:6], c.card.UID) {
			c.noResponse()
			return
		}
		lo, hi := crcA([]byte{c.card.SAK})
		c.respond([]byte{c.card.SAK, lo, hi}, 0)

	case c.pendingWrite >= 0: // phase-2 write payload
		c.finishWrite(frame)

	case len(frame) == 4 && frame[0] == 0x30: // MIFARE read
		c.readBlock(frame)

	case len(frame) == 4 && frame[0] == 0xA0: // MIFARE write, phase 1
		c.startWrite(frame)

	case len(frame) == 4 && frame[0] == 0x50 && frame[1] == 0x00: // HLTA
		if frameCRCValid(frame) {
			c.card.Halted = true
			c.authedSector = -1
		}
		c.noResponse()

	default:
		c.noResponse()
	}
}

func (c *Chip) readBlock(frame []byte) {
	block := frame[1]
	if !frameCRCValid(frame) || c.authedSector != int(block)/sectorBlocks {
		c.noResponse()
		return
	}
	data := c.card.Blocks[block][:]
	lo, hi := crcA(data)
	response := append(append([]byte(nil), data...), lo, hi)
	c.respond(response, 0)
}

func (c *Chip) startWrite(frame []byte) {
	block := frame[1]
	if !frameCRCValid(frame) || c.authedSector != int(block)/sectorBlocks {
		c.noResponse()
		return
	}
	if int(block) >= blockCount {
		c.ack(mifareNakI)
		return
	}
	c.pendingWrite = int(block)
	c.ack(mifareAck)
}

func (c *Chip) finishWrite(frame []byte) {
	block := c.pendingWrite
	c.pendingWrite = -1
	if len(frame) != blockSize+2 || !frameCRCValid(frame) {
		c.ack(mifareNakI)
		return
	}
	copy(c.card.Blocks[block][:], frame[:blockSize])
	c.ack(mifareAck)
}

// respond queues response data and raises the receive interrupt
func (c *Chip) respond(data []byte, rxLastBits byte) {
	c.fifo = append([]byte(nil), data...)
	c.regs[regControl] = rxLastBits & framingLastBits
	c.regs[regComIrq] |= irqRx | irqIdle
}

// ack sends a 4-bit MIFARE acknowledge code, or a full byte when the
// clone-style framing knob is on
func (c *Chip) ack(code byte) {
	if c.AckFullByte {
		c.respond([]byte{code & 0x0F}, 0)
		return
	}
	c.respond([]byte{code & 0x0F}, 4)
}

// noResponse models a silent field: only the chip timer ends the cycle
func (c *Chip) noResponse() {
	c.regs[regComIrq] |= irqTimer
}

// frameCRCValid checks the trailing CRC_A of a command frame
func frameCRCValid(frame []byte) bool {
	if len(frame) < 3 {
		return false
	}
	lo, hi := crcA(frame[:len(frame)-2])
	return frame[len(frame)-2] == lo && frame[len(frame)-1] == hi
}

// crcA computes the ISO14443-A CRC (initial value 0x6363, LSB first)
func crcA(data []byte) (lo, hi byte) {
	crc := uint16(0x6363)
	for _, b := range data {
		b ^= byte(crc)
		b ^= b << 4
		crc = (crc >> 8) ^ (uint16(b) << 8) ^ (uint16(b) << 3) ^ (uint16(b) >> 4)
	}
	return byte(crc), byte(crc >> 8)
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
