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

// Package spi registers a detector for spidev device nodes
package spi

import (
	"github.com/ZaparooProject/go-rc522/detection"
)

type detector struct{}

// Transport returns the transport type name
func (detector) Transport() string {
	return "spi"
}

// Detect returns the accessible spidev nodes on this host
func (detector) Detect() ([]detection.DeviceInfo, error) {
	return detectSPIDevices()
}

func init() {
	detection.Register(detector{})
}
