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

// rc522tag reads and writes MIFARE Classic cards on an RC522 reader.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-rc522/detection/spi"
	"github.com/ZaparooProject/go-rc522/polling"
	"github.com/ZaparooProject/go-rc522/transport/spi"
	"github.com/ZaparooProject/go-rc522/transport/uart"
)

type config struct {
	devicePath   *string
	action       *string
	keyHex       *string
	dataHex      *string
	timeout      *time.Duration
	pollInterval *time.Duration
	block        *uint
	verify       *bool
	list         *bool
	debug        *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "",
			"Device path (e.g., /dev/spidev0.0 or /dev/ttyUSB0). Leave empty for auto-detection."),
		action:  flag.String("action", "uid", "Action per card: uid, read or write"),
		block:   flag.Uint("block", 1, "Target block for read/write actions"),
		keyHex:  flag.String("key", "FFFFFFFFFFFF", "MIFARE Key A as 12 hex digits"),
		dataHex: flag.String("data", "", "Data to write as hex (padded to 16 bytes)"),
		verify:  flag.Bool("verify", false, "Read the block back after writing and compare"),
		timeout: flag.Duration("timeout", 30*time.Second, "How long to keep polling"),
		pollInterval: flag.Duration("poll-interval", 250*time.Millisecond,
			"Polling interval for card detection"),
		list:  flag.Bool("list", false, "List detected reader devices and exit"),
		debug: flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		rc522.SetDebugEnabled(true)
	}

	return cfg
}

// newTransport creates a transport from a device path. spidev nodes get the
// SPI transport; everything else is treated as a serial port.
func newTransport(path string) (rc522.Transport, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}

	if strings.Contains(strings.ToLower(path), "spi") {
		transport, err := spi.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SPI transport: %w", err)
		}
		return transport, nil
	}

	transport, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	return transport, nil
}

func listDevices() error {
	devices, err := detection.DetectAll()
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	if len(devices) == 0 {
		_, _ = fmt.Println("No reader devices found")
		return nil
	}
	for _, d := range devices {
		_, _ = fmt.Printf("%-20s %-6s %s\n", d.Path, d.Transport, d.Name)
	}
	return nil
}

func resolveDevicePath(cfg *config) (string, error) {
	if *cfg.devicePath != "" {
		return *cfg.devicePath, nil
	}

	_, _ = fmt.Println("Auto-detecting RC522 devices...")
	devices, err := detection.DetectAll()
	if err != nil {
		return "", fmt.Errorf("detection failed: %w", err)
	}
	if len(devices) == 0 {
		return "", errors.New("no reader devices found; pass -device explicitly")
	}
	return devices[0].Path, nil
}

func buildMonitorConfig(cfg *config) (*polling.Config, error) {
	action, err := polling.ParseAction(*cfg.action)
	if err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(*cfg.keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}

	monitorConfig := polling.DefaultConfig()
	monitorConfig.Action = action
	monitorConfig.Block = byte(*cfg.block)
	monitorConfig.KeyA = key
	monitorConfig.PollInterval = *cfg.pollInterval
	monitorConfig.VerifyWrite = *cfg.verify

	if action == polling.ActionWrite {
		data, err := hex.DecodeString(*cfg.dataHex)
		if err != nil {
			return nil, fmt.Errorf("invalid data hex: %w", err)
		}
		monitorConfig.WriteData = data
	}

	return monitorConfig, nil
}

func printEvent(event *polling.CardEvent) error {
	_, _ = fmt.Printf("Card detected: UID=%s ATQA=%s SAK=%s\n",
		event.UID, event.ATQA, event.SAK)

	switch event.Action {
	case polling.ActionRead:
		_, _ = fmt.Printf("Block %d: % X\n", event.Block, event.Data)
	case polling.ActionWrite:
		_, _ = fmt.Printf("Wrote block %d: % X\n", event.Block, event.Data)
		if event.ReadBack != nil {
			_, _ = fmt.Printf("Read back:      % X (verified: %v)\n",
				event.ReadBack, event.Verified)
		}
	case polling.ActionUID:
	}
	return nil
}

func run() error {
	cfg := parseFlags()

	if *cfg.list {
		return listDevices()
	}

	monitorConfig, err := buildMonitorConfig(cfg)
	if err != nil {
		return err
	}

	path, err := resolveDevicePath(cfg)
	if err != nil {
		return err
	}
	_, _ = fmt.Printf("Opening device: %s\n", path)

	transport, err := newTransport(path)
	if err != nil {
		return err
	}

	device, err := rc522.New(transport)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("failed to create device: %w", err)
	}
	if err := device.Init(); err != nil {
		_ = device.Close()
		return fmt.Errorf("failed to initialize device: %w", err)
	}

	if version, versionErr := device.Version(); versionErr == nil {
		_, _ = fmt.Printf("RC522 version: 0x%02X\n", version)
	}

	monitor, err := polling.NewMonitor(device, monitorConfig)
	if err != nil {
		_ = device.Close()
		return err
	}
	defer func() { _ = monitor.Close() }()

	monitor.OnCard = printEvent
	monitor.OnCardRemoved = func() {
		_, _ = fmt.Println("Card removed - ready for next card...")
	}
	monitor.OnError = func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	_, _ = fmt.Printf("Waiting for card (timeout: %s, poll interval: %s)...\n",
		*cfg.timeout, *cfg.pollInterval)

	ctx, cancel := context.WithTimeout(context.Background(), *cfg.timeout)
	defer cancel()

	if err := monitor.Start(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
