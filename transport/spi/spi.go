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

// Package spi provides the SPI transport for RC522 readers
package spi

import (
	"fmt"

	rc522 "github.com/ZaparooProject/go-rc522"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// defaultFreq is a conservative clock; the MFRC522 tops out at 10 MHz
	defaultFreq = 1 * physic.MegaHertz

	// mode is CPOL=0, CPHA=0 per the MFRC522 SPI timing
	mode = spi.Mode0
)

// Transport implements the rc522.Transport interface for SPI communication.
// The chip's register protocol maps directly onto full-duplex SPI: each
// Exchange is one chip-select assertion.
type Transport struct {
	port     spi.PortCloser
	conn     spi.Conn
	portName string
}

// Option configures the SPI transport
type Option func(*config)

type config struct {
	freq physic.Frequency
}

// WithSpeed sets the SPI clock frequency
func WithSpeed(freq physic.Frequency) Option {
	return func(c *config) {
		c.freq = freq
	}
}

// New creates a new SPI transport on the named port (e.g. "SPI0.0" or
// "/dev/spidev0.0")
func New(portName string, opts ...Option) (*Transport, error) {
	cfg := &config{freq: defaultFreq}
	for _, opt := range opts {
		opt(cfg)
	}

	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	// Open SPI port
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", portName, err)
	}

	// Connect with SPI parameters
	conn, err := port.Connect(cfg.freq, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	return &Transport{
		port:     port,
		conn:     conn,
		portName: portName,
	}, nil
}

// NewBusDevice creates a new SPI transport addressed by bus and chip-select
// index, e.g. bus 0 device 0 for "SPI0.0"
func NewBusDevice(bus, device int, opts ...Option) (*Transport, error) {
	return New(fmt.Sprintf("SPI%d.%d", bus, device), opts...)
}

// Exchange performs one full-duplex SPI transaction
func (t *Transport) Exchange(tx []byte) ([]byte, error) {
	if t.conn == nil {
		return nil, rc522.NewTransportWriteError("exchange", t.portName)
	}
	rx := make([]byte, len(tx))
	if err := t.conn.Tx(tx, rx); err != nil {
		return nil, rc522.NewTransportError("exchange", t.portName, err, rc522.ErrorTypeTransient)
	}
	return rx, nil
}

// Close closes the transport connection. Safe to call more than once.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	port := t.port
	t.port = nil
	t.conn = nil
	if err := port.Close(); err != nil {
		return fmt.Errorf("SPI close failed: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.conn != nil
}

// Type returns the transport type
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportSPI
}
