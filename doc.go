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

/*
Package rc522 provides a pure Go driver for RC522-family (MFRC522) contactless
reader chips.

The MFRC522 is a register-addressed 13.56 MHz reader IC for ISO14443A cards.
Unlike frame-based controllers, every operation is built from raw register
reads and writes over a serial bus: the driver flushes the chip's 64-byte
FIFO, loads a frame, starts a transceive cycle, and polls interrupt and
status registers until completion, timeout, or a chip-reported fault. On top
of that engine the package implements the ISO14443A detection sequence (REQA,
cascade-level-1 anticollision, select) and MIFARE Classic Key-A
authentication plus 16-byte block read and write.

Basic Usage:

	import (
	    rc522 "github.com/ZaparooProject/go-rc522"
	    "github.com/ZaparooProject/go-rc522/transport/spi"
	)

	// Open the SPI port the reader is wired to
	transport, err := spi.New("SPI0.0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	// Create and initialize the RC522 device
	device, err := rc522.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	// One detection cycle
	card, err := device.DetectCard()
	if err != nil {
	    log.Fatal(err)
	}
	if card != nil {
	    fmt.Printf("Card detected: %s (SAK %s)\n", card.UIDHex(), card.SAKHex())

	    key := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	    if err := device.AuthenticateKeyA(8, key, card.UID); err != nil {
	        log.Fatal(err)
	    }
	    data, err := device.ReadBlock(8)
	    // ...
	    _ = data
	}

Card Absence:

The absence of a card is the common case during polling, not a fault.
DetectCard and the individual detection stages (RequestA, AntiCollision,
Select) return a nil result when no card answers; the error channel is
reserved for transport faults and chip-reported protocol errors.

Polling:

The driver performs no background polling of its own. The polling subpackage
provides a host-side monitor that runs one detection cycle per interval,
debounces card presence and removal, and emits card events.

Error Handling:

All operations return meaningful errors that can be inspected:

	if errors.Is(err, rc522.ErrAuthFailed) {
	    // Key rejected by the card
	}

Thread Safety:

Device operations are not thread-safe. The chip is a single stateful
peripheral; serialize access with a mutex or a single owning goroutine.
*/
package rc522
