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

// Package detection discovers candidate RC522 buses on the host.
//
// Detection is passive: it only enumerates accessible bus device nodes and
// never talks to the chip, so it is safe to run while a reader is in use.
// Transport packages register their detectors via blank imports:
//
//	import _ "github.com/ZaparooProject/go-rc522/detection/spi"
package detection

import (
	"sort"
	"sync"
)

// DeviceInfo describes one candidate device found during detection
type DeviceInfo struct {
	// Path is the bus device path or port name
	Path string
	// Transport is the transport type name ("spi", "uart")
	Transport string
	// Name is a human-readable device description
	Name string
}

// Detector enumerates candidate devices for one transport
type Detector interface {
	// Detect returns the candidate devices currently visible
	Detect() ([]DeviceInfo, error)
	// Transport returns the transport type name this detector covers
	Transport() string
}

var (
	registryMu sync.RWMutex
	registry   []Detector
)

// Register adds a detector to the global registry. It is called from the
// init functions of detector packages.
func Register(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, d)
}

// DetectAll runs every registered detector and returns the merged candidate
// list, sorted by path for stable output. Individual detector failures are
// skipped; an error is returned only when no detector could run at all.
func DetectAll() ([]DeviceInfo, error) {
	registryMu.RLock()
	detectors := make([]Detector, len(registry))
	copy(detectors, registry)
	registryMu.RUnlock()

	var (
		devices []DeviceInfo
		lastErr error
		ran     bool
	)
	for _, d := range detectors {
		found, err := d.Detect()
		if err != nil {
			lastErr = err
			continue
		}
		ran = true
		devices = append(devices, found...)
	}

	if !ran && lastErr != nil {
		return nil, lastErr
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})
	return devices, nil
}
