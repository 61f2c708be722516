// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/link/stdin_other.go
// Summary: Stdin stays in cooked mode where termios is not configured.

//go:build !linux

package link

import "log"

func makeRawKeepSignals(fd int) (func() error, error) {
	log.Printf("Link: Raw stdin not supported on this platform, input stays line buffered")
	return func() error { return nil }, nil
}
