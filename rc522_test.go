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

package rc522_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/internal/simulator"
)

var (
	testUID = []byte{0xDE, 0xAD, 0xBE, 0xEF}
	testKey = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
)

// newSimulatedDevice builds an initialized device over a simulated chip
func newSimulatedDevice(t *testing.T, chip *simulator.Chip) *rc522.Device {
	t.Helper()
	device, err := rc522.New(chip, rc522.WithSettleDelay(0))
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return device
}

func TestDetectCard(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	card, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, card)

	assert.Equal(t, testUID, card.UID)
	assert.Equal(t, []byte{0x04, 0x00}, card.ATQA)
	assert.Equal(t, byte(0x08), card.SAK)
	assert.Equal(t, "deadbeef", card.UIDHex())
	assert.False(t, card.DetectedAt.IsZero())
}

func TestDetectCardEmptyField(t *testing.T) {
	t.Parallel()

	device := newSimulatedDevice(t, simulator.New())

	card, err := device.DetectCard()
	require.NoError(t, err)
	assert.Nil(t, card, "empty field must be a nil result, not an error")
}

func TestDetectCardCorruptedCheckByte(t *testing.T) {
	t.Parallel()

	// Any single-bit corruption of the check byte must reject the UID
	for bit := 0; bit < 8; bit++ {
		chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
		bcc := byte(0xDE ^ 0xAD ^ 0xBE ^ 0xEF)
		chip.OverrideAnticollision = append(append([]byte(nil), testUID...), bcc^(1<<bit))
		device := newSimulatedDevice(t, chip)

		card, err := device.DetectCard()
		require.NoError(t, err)
		assert.Nil(t, card, "corrupted check byte (bit %d) must yield no card", bit)
	}
}

func TestAuthenticateAndReadBlock(t *testing.T) {
	t.Parallel()

	card := simulator.NewMIFARE1K(testUID)
	pattern := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}
	card.SetBlock(8, pattern)

	chip := simulator.NewWithCard(card)
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	require.NoError(t, device.AuthenticateKeyA(8, testKey, detected.UID))

	data, err := device.ReadBlock(8)
	require.NoError(t, err)
	assert.Equal(t, pattern, data)
}

func TestAuthenticateWrongKey(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	wrongKey := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	err = device.AuthenticateKeyA(8, wrongKey, detected.UID)
	assert.ErrorIs(t, err, rc522.ErrAuthFailed)
}

func TestAuthenticateProtocolError(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	chip.AuthProtocolError = true
	err = device.AuthenticateKeyA(8, testKey, detected.UID)
	assert.ErrorIs(t, err, rc522.ErrAuthError)
}

func TestReadBlockWithoutAuth(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	_, err = device.ReadBlock(8)
	assert.ErrorIs(t, err, rc522.ErrShortRead)
}

func TestWriteBlockVerified(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	require.NoError(t, device.AuthenticateKeyA(8, testKey, detected.UID))

	payload := []byte("hello rc522")
	readback, verified, err := device.WriteBlockVerified(8, payload, testKey, detected.UID)
	require.NoError(t, err)
	assert.True(t, verified)
	require.Len(t, readback, rc522.BlockSize)
	assert.Equal(t, payload, readback[:len(payload)])

	// The padding bytes must be zero
	for _, b := range readback[len(payload):] {
		assert.Equal(t, byte(0), b)
	}
}

func TestWriteBlockCloneAckFraming(t *testing.T) {
	t.Parallel()

	// Clone cards answer the acknowledge as a full byte instead of a 4-bit
	// frame; both must be accepted.
	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	chip.AckFullByte = true
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	require.NoError(t, device.AuthenticateKeyA(4, testKey, detected.UID))
	require.NoError(t, device.WriteBlock(4, []byte{0x42}))

	data, err := device.ReadBlock(4)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), data[0])
}

func TestHaltAndWakeup(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	require.NoError(t, device.HaltA())

	// A halted card ignores REQA
	card, err := device.DetectCard()
	require.NoError(t, err)
	assert.Nil(t, card)

	// but answers WUPA
	card, err = device.DetectCardWakeup()
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, testUID, card.UID)
}

func TestStopCryptoEndsSession(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	detected, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, detected)

	require.NoError(t, device.AuthenticateKeyA(8, testKey, detected.UID))
	require.NoError(t, device.StopCrypto())

	// The session is gone; the card no longer answers reads
	_, err = device.ReadBlock(8)
	assert.Error(t, err)
}

func TestTransceiveChipErrorPropagates(t *testing.T) {
	t.Parallel()

	chip := simulator.NewWithCard(simulator.NewMIFARE1K(testUID))
	device := newSimulatedDevice(t, chip)

	chip.ForceTransceiveError(0x02) // parity
	_, err := device.DetectCard()
	assert.ErrorIs(t, err, rc522.ErrTransceive)

	// One-shot: the next cycle is clean again
	card, err := device.DetectCard()
	require.NoError(t, err)
	require.NotNil(t, card)
}

func TestVersionRegister(t *testing.T) {
	t.Parallel()

	device := newSimulatedDevice(t, simulator.New())
	version, err := device.Version()
	require.NoError(t, err)
	assert.Equal(t, byte(0x92), version)
}
