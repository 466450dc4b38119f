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
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "transport timeout retryable",
			err:  ErrTransportTimeout,
			want: true,
		},
		{
			name: "transport read retryable",
			err:  ErrTransportRead,
			want: true,
		},
		{
			name: "transport write retryable",
			err:  ErrTransportWrite,
			want: true,
		},
		{
			name: "CRC timeout retryable",
			err:  ErrCRCTimeout,
			want: true,
		},
		{
			name: "transceive error retryable",
			err:  ErrTransceive,
			want: true,
		},
		{
			name: "wrapped transceive error retryable",
			err:  &TransceiveError{Op: "transceive", ErrorReg: 0x02},
			want: true,
		},
		{
			name: "short read retryable",
			err:  ErrShortRead,
			want: true,
		},
		{
			name: "device not found not retryable",
			err:  ErrDeviceNotFound,
			want: false,
		},
		{
			name: "auth failed not retryable",
			err:  ErrAuthFailed,
			want: false,
		},
		{
			name: "invalid key length not retryable",
			err:  ErrInvalidKeyLength,
			want: false,
		},
		{
			name: "invalid parameter not retryable",
			err:  ErrInvalidParameter,
			want: false,
		},
		{
			name: "write not acked not retryable",
			err:  &WriteAckError{Phase: 1},
			want: false,
		},
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "nil error", err: nil, want: ErrorTypePermanent},
		{name: "transport timeout", err: ErrTransportTimeout, want: ErrorTypeTimeout},
		{name: "CRC timeout", err: ErrCRCTimeout, want: ErrorTypeTimeout},
		{name: "transport read", err: ErrTransportRead, want: ErrorTypeTransient},
		{name: "transceive", err: &TransceiveError{Op: "transceive"}, want: ErrorTypeTransient},
		{name: "auth failed", err: ErrAuthFailed, want: ErrorTypePermanent},
		{
			name: "transport error carries its own type",
			err:  NewTransportError("read", "/dev/spidev0.0", ErrTransportRead, ErrorTypePermanent),
			want: ErrorTypePermanent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	t.Run("error message includes op and port", func(t *testing.T) {
		t.Parallel()
		err := NewTimeoutError("read", "/dev/ttyUSB0")
		msg := err.Error()
		if !strings.Contains(msg, "read") || !strings.Contains(msg, "/dev/ttyUSB0") {
			t.Errorf("Error() = %q, want op and port included", msg)
		}
	})

	t.Run("unwraps to sentinel", func(t *testing.T) {
		t.Parallel()
		err := NewTransportReadError("read", "sim")
		if !errors.Is(err, ErrTransportRead) {
			t.Error("expected errors.Is(err, ErrTransportRead)")
		}
	})

	t.Run("timeout constructor classification", func(t *testing.T) {
		t.Parallel()
		err := NewTimeoutError("poll", "sim")
		if err.Type != ErrorTypeTimeout {
			t.Errorf("Type = %v, want ErrorTypeTimeout", err.Type)
		}
		if !err.Retryable {
			t.Error("timeout errors should be retryable")
		}
	})

	t.Run("permanent errors not retryable", func(t *testing.T) {
		t.Parallel()
		err := NewTransportError("open", "sim", ErrDeviceNotFound, ErrorTypePermanent)
		if err.Retryable {
			t.Error("permanent errors should not be retryable")
		}
	})
}

func TestTransceiveErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := &TransceiveError{Op: "transceive", ErrorReg: 0x0B}
	if !errors.Is(err, ErrTransceive) {
		t.Error("expected errors.Is(err, ErrTransceive)")
	}
	if !strings.Contains(err.Error(), "0x0B") {
		t.Errorf("Error() = %q, want error register included", err.Error())
	}
}

func TestWriteAckErrorUnwrap(t *testing.T) {
	t.Parallel()

	for _, phase := range []int{1, 2} {
		err := &WriteAckError{Phase: phase}
		if !errors.Is(err, ErrWriteNotAcked) {
			t.Errorf("phase %d: expected errors.Is(err, ErrWriteNotAcked)", phase)
		}
	}
}
