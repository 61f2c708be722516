// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/serial_other.go
// Summary: Serial devices are only configured on Linux.

//go:build !linux

package link

import "fmt"

func openSerial(device string, baud int) (*Conn, error) {
	return nil, fmt.Errorf("open serial %s: not supported on this platform", device)
}
