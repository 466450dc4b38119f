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

//go:build linux

package spi

import (
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/go-rc522/detection"
	"golang.org/x/sys/unix"
)

// detectSPIDevices enumerates /dev/spidev* nodes the current user can
// access. Nodes that exist but are not readable and writable are skipped
// rather than reported, since opening them would only fail later.
func detectSPIDevices() ([]detection.DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/spidev*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan spidev nodes: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(paths))
	for _, path := range paths {
		if unix.Access(path, unix.R_OK|unix.W_OK) != nil {
			continue
		}
		devices = append(devices, detection.DeviceInfo{
			Path:      path,
			Transport: "spi",
			Name:      "SPI bus " + filepath.Base(path),
		})
	}
	return devices, nil
}
