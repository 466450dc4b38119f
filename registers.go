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

// MFRC522 register map (datasheet section 9).
const (
	regCommand    = 0x01 // Starts and stops command execution
	regComIEn     = 0x02 // Interrupt request enable/disable
	regDivIEn     = 0x03 // Interrupt request enable/disable
	regComIrq     = 0x04 // Interrupt request bits
	regDivIrq     = 0x05 // Interrupt request bits
	regError      = 0x06 // Error bits of the last command executed
	regStatus1    = 0x07 // Communication status bits
	regStatus2    = 0x08 // Receiver and transmitter status bits
	regFIFOData   = 0x09 // Input and output of the 64-byte FIFO buffer
	regFIFOLevel  = 0x0A // Number of bytes stored in the FIFO buffer
	regWaterLevel = 0x0B // Level for FIFO underflow and overflow warning
	regControl    = 0x0C // Miscellaneous control registers
	regBitFraming = 0x0D // Adjustments for bit-oriented frames
	regColl       = 0x0E // First bit-collision position on the RF interface

	regMode        = 0x11 // General modes for transmitting and receiving
	regTxMode      = 0x12 // Transmission data rate and framing
	regRxMode      = 0x13 // Reception data rate and framing
	regTxControl   = 0x14 // Antenna driver pins TX1 and TX2 control
	regTxASK       = 0x15 // Transmission modulation setting
	regSel         = 0x16 // Internal antenna driver signal selection
	regCRCResultHi = 0x21 // MSB of the CRC calculation result
	regCRCResultLo = 0x22 // LSB of the CRC calculation result
	regModWidth    = 0x24 // Modulation width control
	regRFCfg       = 0x26 // Receiver gain configuration
	regTMode       = 0x2A // Timer mode and prescaler high bits
	regTPrescaler  = 0x2B // Timer prescaler low bits
	regTReloadHi   = 0x2C // Timer reload value, high byte
	regTReloadLo   = 0x2D // Timer reload value, low byte

	regVersion = 0x37 // Software version
)

// Chip commands (written to regCommand).
const (
	cmdIdle       = 0x00 // Cancels the running command
	cmdMem        = 0x01 // Stores 25 bytes into the internal buffer
	cmdCalcCRC    = 0x03 // Activates the CRC coprocessor
	cmdTransmit   = 0x04 // Transmits data from the FIFO buffer
	cmdReceive    = 0x08 // Activates the receiver circuits
	cmdTransceive = 0x0C // Transmits from FIFO and activates the receiver
	cmdMFAuthent  = 0x0E // Performs MIFARE Classic authentication
	cmdSoftReset  = 0x0F // Resets the chip
)

// regComIrq bits.
const (
	irqSet1    = 0x80 // 0 when writing clears the marked bits
	irqTx      = 0x40 // Last bit of transmitted data sent
	irqRx      = 0x20 // Receiver detected end of valid data stream
	irqIdle    = 0x10 // Command terminated, chip entered idle
	irqHiAlert = 0x08
	irqLoAlert = 0x04
	irqErr     = 0x02
	irqTimer   = 0x01 // Timer counted down to zero

	irqAllCom = 0x7F // All regComIrq request bits
)

// regDivIrq bits.
const (
	irqCRC    = 0x04 // CalcCRC command finished
	irqAllDiv = 0x7F
)

// regError bits.
const (
	errWr         = 0x40
	errTemp       = 0x20
	errBufferOvfl = 0x10
	errColl       = 0x08
	errCRC        = 0x04
	errParity     = 0x02
	errProtocol   = 0x01

	// Error bits that fail a completed transceive: protocol violation,
	// parity failure, or bit collision.
	errTransceiveMask = errProtocol | errParity | errColl
)

// Other register bit masks.
const (
	fifoFlushBuffer     = 0x80 // regFIFOLevel: immediately clears the FIFO
	fifoLevelMask       = 0x7F // regFIFOLevel: byte count field
	framingStartSend    = 0x80 // regBitFraming: starts the transmission
	framingTxLastBits   = 0x07 // regBitFraming: valid bits in the last TX byte
	controlRxLastBits   = 0x07 // regControl: valid bits in the last RX byte
	status2MFCrypto1On  = 0x08 // regStatus2: MIFARE crypto channel active
	txControlAntennaOn  = 0x03 // regTxControl: TX1/TX2 driver enable
	collValuesAfterColl = 0x80 // regColl: received bits cleared after collision
)

// regWriteAddr encodes a register address for a write transaction. The chip
// address byte places the 6-bit register index in bits 6..1; bit 7 is 0 for
// writes and bit 0 is always 0.
func regWriteAddr(reg byte) byte {
	return (reg << 1) & 0x7E
}

// regReadAddr encodes a register address for a read transaction (bit 7 set).
func regReadAddr(reg byte) byte {
	return ((reg << 1) & 0x7E) | 0x80
}
