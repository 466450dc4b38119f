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

// Package uart provides the UART transport for RC522 readers.
//
// In UART mode the MFRC522 speaks a half-duplex register protocol: a write
// sends the register address (bit 7 clear) followed by the value and the
// chip echoes the address byte as a handshake; a read sends the address
// with bit 7 set and the chip answers with the register value. The package
// translates the driver's SPI-style address encoding (register index in
// bits 6..1) into the UART framing.
package uart

import (
	"fmt"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"go.bug.st/serial"
)

// defaultBaudRate is the MFRC522 power-on serial speed
const defaultBaudRate = 9600

// Transport implements the rc522.Transport interface for UART communication
type Transport struct {
	port     serial.Port
	portName string
	timeout  time.Duration
}

// New creates a new UART transport on the named serial port
// (e.g. "/dev/ttyS0" or "COM3")
func New(portName string) (*Transport, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: defaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	t := &Transport{
		port:     port,
		portName: portName,
		timeout:  100 * time.Millisecond,
	}
	if err := port.SetReadTimeout(t.timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return t, nil
}

// Exchange performs one register transaction. The first tx byte carries the
// SPI-style encoded address; the remaining bytes are values to write or
// padding for reads. The returned buffer has the same length as tx, with
// read values starting at index 1.
func (t *Transport) Exchange(tx []byte) ([]byte, error) {
	if t.port == nil {
		return nil, rc522.NewTransportWriteError("exchange", t.portName)
	}
	if len(tx) < 2 {
		return nil, rc522.NewTransportError("exchange", t.portName,
			rc522.ErrInvalidParameter, rc522.ErrorTypePermanent)
	}

	reg := (tx[0] >> 1) & 0x3F
	isRead := tx[0]&0x80 != 0
	rx := make([]byte, len(tx))

	if isRead {
		// One address/value round trip per byte; the chip does not
		// auto-increment in UART mode.
		for i := 1; i < len(tx); i++ {
			if err := t.writeByte(0x80 | reg); err != nil {
				return nil, err
			}
			value, err := t.readByte()
			if err != nil {
				return nil, err
			}
			rx[i] = value
		}
		return rx, nil
	}

	// Each written byte is prefixed with the address; the chip echoes the
	// address back before accepting the value.
	for _, value := range tx[1:] {
		if err := t.writeByte(reg); err != nil {
			return nil, err
		}
		echo, err := t.readByte()
		if err != nil {
			return nil, err
		}
		if echo != reg {
			return nil, rc522.NewTransportError("exchange", t.portName,
				fmt.Errorf("%w: address echo 0x%02X, want 0x%02X",
					rc522.ErrTransportRead, echo, reg),
				rc522.ErrorTypeTransient)
		}
		if err := t.writeByte(value); err != nil {
			return nil, err
		}
	}
	return rx, nil
}

func (t *Transport) writeByte(b byte) error {
	n, err := t.port.Write([]byte{b})
	if err != nil || n != 1 {
		return rc522.NewTransportWriteError("write", t.portName)
	}
	return nil
}

func (t *Transport) readByte() (byte, error) {
	buf := make([]byte, 1)
	deadline := time.Now().Add(t.timeout)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			return 0, rc522.NewTransportReadError("read", t.portName)
		}
		if n == 1 {
			return buf[0], nil
		}
		if time.Now().After(deadline) {
			return 0, rc522.NewTimeoutError("read", t.portName)
		}
	}
}

// SetTimeout sets the read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	return nil
}

// Close closes the transport connection. Safe to call more than once.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	port := t.port
	t.port = nil
	if err := port.Close(); err != nil {
		return fmt.Errorf("serial close failed: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportUART
}
