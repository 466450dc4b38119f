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
	"errors"
	"fmt"
)

// Transport-level errors. These indicate the bus below the driver failed;
// the enclosing card operation is aborted and not recovered here.
var (
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportTimeout = errors.New("transport operation timeout")
	ErrDeviceNotFound   = errors.New("RC522 device not found")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Chip- and protocol-level errors.
var (
	// ErrCRCTimeout indicates the CRC coprocessor did not signal completion
	// within its deadline.
	ErrCRCTimeout = errors.New("CRC calculation timeout")

	// ErrTransceive indicates the chip reported protocol, parity, or
	// collision error bits after a completed exchange.
	ErrTransceive = errors.New("transceive error")

	// ErrAuthFailed indicates authentication completed without activating
	// the crypto channel; the key was rejected by the card.
	ErrAuthFailed = errors.New("authentication failed: crypto channel not active")

	// ErrAuthError indicates the chip reported a protocol error during the
	// authentication attempt.
	ErrAuthError = errors.New("authentication error")

	// ErrInvalidKeyLength indicates a MIFARE key that is not 6 bytes.
	ErrInvalidKeyLength = errors.New("MIFARE key must be 6 bytes")

	// ErrShortRead indicates a block read returned fewer than 16 bytes.
	ErrShortRead = errors.New("short block read")

	// ErrWriteNotAcked indicates the card did not acknowledge a write phase.
	ErrWriteNotAcked = errors.New("write not acknowledged")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that will not resolve by retrying
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates an error that may resolve by retrying
	ErrorTypeTransient
	// ErrorTypeTimeout indicates a timeout that may resolve by retrying
	ErrorTypeTimeout
)

// TransportError wraps an error from the byte-level bus with operation
// context and a retryability classification
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("rc522: %s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("rc522: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a transport error for an operation that timed out
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewTransportReadError creates a transport error for a failed bus read
func NewTransportReadError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportRead, ErrorTypeTransient)
}

// NewTransportWriteError creates a transport error for a failed bus write
func NewTransportWriteError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportWrite, ErrorTypeTransient)
}

// TransceiveError reports error-register bits set after a completed
// transceive cycle. The register snapshot is preserved for diagnosis.
type TransceiveError struct {
	Op       string
	ErrorReg byte
}

// Error implements the error interface
func (e *TransceiveError) Error() string {
	return fmt.Sprintf("rc522: %s: transceive error (error register 0x%02X)", e.Op, e.ErrorReg)
}

// Unwrap allows errors.Is(err, ErrTransceive)
func (*TransceiveError) Unwrap() error {
	return ErrTransceive
}

// WriteAckError reports a missing or malformed MIFARE write acknowledge.
// Phase 1 fails before any data was sent; a phase 2 failure leaves the block
// contents undefined and callers needing certainty must read back.
type WriteAckError struct {
	Phase int
}

// Error implements the error interface
func (e *WriteAckError) Error() string {
	return fmt.Sprintf("rc522: write not acknowledged (phase %d)", e.Phase)
}

// Unwrap allows errors.Is(err, ErrWriteNotAcked)
func (*WriteAckError) Unwrap() error {
	return ErrWriteNotAcked
}

// IsRetryable returns true if the error may resolve when the operation is
// retried. The driver itself never retries; this classification is for the
// caller's poll loop.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCRCTimeout),
		errors.Is(err, ErrTransceive),
		errors.Is(err, ErrShortRead):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout), errors.Is(err, ErrCRCTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrTransceive),
		errors.Is(err, ErrShortRead):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
