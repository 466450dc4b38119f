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

// chipMock is a scripted register-level transport for driver unit tests.
// Command behavior is injected through the hooks, so each test controls
// exactly what the "chip" does when a transceive, authentication, or CRC
// run starts.
type chipMock struct {
	onTransceive func(m *chipMock, frame []byte, txLastBits byte)
	onAuthent    func(m *chipMock, frame []byte)
	onCalcCRC    func(m *chipMock, data []byte)

	regs [64]byte
	fifo []byte

	// fifoReadSizes records the payload length of every FIFO data read
	// transaction, to assert the one-byte-per-transaction discipline
	fifoReadSizes []int

	closed bool
}

// newChipMock returns a mock whose CRC engine completes instantly with
// fixed bytes; transceive and authentication stay inert until a test
// installs hooks.
func newChipMock() *chipMock {
	m := &chipMock{}
	m.regs[regVersion] = 0x92
	m.onCalcCRC = func(m *chipMock, _ []byte) {
		m.regs[regCRCResultLo] = 0x57
		m.regs[regCRCResultHi] = 0xCD
		m.regs[regDivIrq] |= irqCRC
	}
	return m
}

// newTestDevice wires a device to the mock with timeouts short enough that
// deadline paths finish quickly
func newTestDevice(m *chipMock) *Device {
	return &Device{
		transport: m,
		config: &DeviceConfig{
			SettleDelay:      0,
			CRCTimeout:       5 * time.Millisecond,
			AuthTimeout:      5 * time.Millisecond,
			DetectTimeout:    5 * time.Millisecond,
			ReadTimeout:      5 * time.Millisecond,
			WriteAckTimeout:  5 * time.Millisecond,
			WriteDataTimeout: 5 * time.Millisecond,
		},
	}
}

func (m *chipMock) Exchange(tx []byte) ([]byte, error) {
	if m.closed {
		return nil, NewTransportWriteError("exchange", "mock")
	}
	if len(tx) < 2 {
		return nil, NewTransportError("exchange", "mock", ErrInvalidParameter, ErrorTypePermanent)
	}

	reg := (tx[0] >> 1) & 0x3F
	rx := make([]byte, len(tx))

	if tx[0]&0x80 != 0 {
		if reg == regFIFOData {
			m.fifoReadSizes = append(m.fifoReadSizes, len(tx)-1)
		}
		for i := 1; i < len(tx); i++ {
			rx[i] = m.readReg(reg)
		}
		return rx, nil
	}

	for _, value := range tx[1:] {
		m.writeReg(reg, value)
	}
	return rx, nil
}

func (m *chipMock) Close() error {
	m.closed = true
	return nil
}

func (m *chipMock) IsConnected() bool { return !m.closed }

func (*chipMock) Type() TransportType { return TransportMock }

func (m *chipMock) readReg(reg byte) byte {
	switch reg {
	case regFIFOData:
		if len(m.fifo) == 0 {
			return 0
		}
		b := m.fifo[0]
		m.fifo = m.fifo[1:]
		return b
	case regFIFOLevel:
		return byte(len(m.fifo)) & fifoLevelMask
	default:
		return m.regs[reg]
	}
}

func (m *chipMock) writeReg(reg, value byte) {
	switch reg {
	case regCommand:
		m.execCommand(value)
	case regComIrq, regDivIrq:
		if value&irqSet1 != 0 {
			m.regs[reg] |= value & 0x7F
		} else {
			m.regs[reg] &^= value & 0x7F
		}
	case regFIFOLevel:
		if value&fifoFlushBuffer != 0 {
			m.fifo = nil
		}
	case regFIFOData:
		m.fifo = append(m.fifo, value)
	case regBitFraming:
		m.regs[reg] = value
		if value&framingStartSend != 0 && m.regs[regCommand] == cmdTransceive {
			frame := m.fifo
			m.fifo = nil
			if m.onTransceive != nil {
				m.onTransceive(m, frame, value&framingTxLastBits)
			}
		}
	default:
		m.regs[reg] = value
	}
}

func (m *chipMock) execCommand(cmd byte) {
	switch cmd {
	case cmdSoftReset:
		version := m.regs[regVersion]
		m.regs = [64]byte{}
		m.regs[regVersion] = version
		m.fifo = nil
	case cmdCalcCRC:
		data := m.fifo
		m.fifo = nil
		if m.onCalcCRC != nil {
			m.onCalcCRC(m, data)
		}
		m.regs[regCommand] = cmdIdle
	case cmdMFAuthent:
		frame := m.fifo
		m.fifo = nil
		if m.onAuthent != nil {
			m.onAuthent(m, frame)
		}
		m.regs[regCommand] = cmdIdle
	default:
		m.regs[regCommand] = cmd
	}
}

// respond queues response data and raises the receive interrupt, the way a
// completed exchange with a card would
func (m *chipMock) respond(data []byte, rxLastBits byte) {
	m.fifo = append([]byte(nil), data...)
	m.regs[regControl] = rxLastBits & controlRxLastBits
	m.regs[regComIrq] |= irqRx | irqIdle
}

// timerExpire ends the cycle with the chip timer, the silent-field outcome
func (m *chipMock) timerExpire() {
	m.regs[regComIrq] |= irqTimer
}
