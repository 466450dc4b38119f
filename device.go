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

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// SettleDelay is the wait after a soft reset before the chip is
	// guaranteed responsive again
	SettleDelay time.Duration
	// CRCTimeout bounds the wait for the CRC coprocessor
	CRCTimeout time.Duration
	// AuthTimeout bounds the wait for MFAuthent completion
	AuthTimeout time.Duration
	// DetectTimeout bounds each detection-stage exchange (REQA,
	// anticollision, select)
	DetectTimeout time.Duration
	// ReadTimeout bounds a block read exchange
	ReadTimeout time.Duration
	// WriteAckTimeout bounds the phase-1 write acknowledge exchange
	WriteAckTimeout time.Duration
	// WriteDataTimeout bounds the phase-2 payload exchange
	WriteDataTimeout time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		SettleDelay:      50 * time.Millisecond,
		CRCTimeout:       50 * time.Millisecond,
		AuthTimeout:      150 * time.Millisecond,
		DetectTimeout:    80 * time.Millisecond,
		ReadTimeout:      250 * time.Millisecond,
		WriteAckTimeout:  250 * time.Millisecond,
		WriteDataTimeout: 400 * time.Millisecond,
	}
}

// Device represents an RC522 reader chip on one transport handle.
//
// The chip holds no shadow state in the driver: every register value is read
// fresh, so the only synchronization requirement is the single-owner
// discipline described in the package documentation.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization; interleaved
// register writes from two callers would corrupt in-flight frames.
type Device struct {
	transport Transport
	config    *DeviceConfig
}

// New creates a new RC522 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Init establishes the chip state every card operation assumes: a soft
// reset, the internal timeout timer, 100% ASK modulation, and the antenna
// drivers. It must complete once per open transport handle before any
// protocol operation.
func (d *Device) Init() error {
	if err := d.SoftReset(); err != nil {
		return err
	}

	// Timer: TAuto, prescaler 0x0D3E, reload 30. Defines the chip-side
	// timeout used while a transceive waits for the card.
	timerSetup := []struct{ reg, value byte }{
		{regTMode, 0x8D},
		{regTPrescaler, 0x3E},
		{regTReloadLo, 30},
		{regTReloadHi, 0},
		{regTxASK, 0x40}, // Force100ASK
		{regMode, 0x3D},  // CRC preset 0x6363
	}
	for _, w := range timerSetup {
		if err := d.writeRegister(w.reg, w.value); err != nil {
			return err
		}
	}

	return d.AntennaOn()
}

// SoftReset issues the soft reset command and waits the settle delay. The
// chip is not guaranteed responsive immediately after reset, so no register
// access happens until the delay has passed. Any active crypto channel is
// invalidated.
func (d *Device) SoftReset() error {
	if err := d.writeRegister(regCommand, cmdSoftReset); err != nil {
		return err
	}
	time.Sleep(d.config.SettleDelay)
	return nil
}

// AntennaOn enables the antenna drivers. The enable bits are only written if
// not already set, to avoid a redundant register write glitching the field.
func (d *Device) AntennaOn() error {
	value, err := d.readRegister(regTxControl)
	if err != nil {
		return err
	}
	if value&txControlAntennaOn == txControlAntennaOn {
		return nil
	}
	return d.setRegisterBits(regTxControl, txControlAntennaOn)
}

// AntennaOff disables the antenna drivers
func (d *Device) AntennaOff() error {
	return d.clearRegisterBits(regTxControl, txControlAntennaOn)
}

// Version reads the chip version register. Known values are 0x91 (v1.0),
// 0x92 (v2.0) and assorted clone identifiers; useful for diagnostics only.
func (d *Device) Version() (byte, error) {
	return d.readRegister(regVersion)
}

// Close closes the underlying transport. It is idempotent and never fails
// the caller: close-time faults are logged and swallowed so shutdown paths
// can defer it unconditionally.
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}
	if err := d.transport.Close(); err != nil {
		debugf("close: %v", err)
	}
	return nil
}

// StopCrypto clears the MIFARE crypto channel so a new card (or a new
// authentication against the same card) starts from a known state.
func (d *Device) StopCrypto() error {
	if err := d.clearRegisterBits(regStatus2, status2MFCrypto1On); err != nil {
		return fmt.Errorf("failed to stop crypto channel: %w", err)
	}
	return nil
}
