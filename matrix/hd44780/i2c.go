// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/hd44780/i2c.go
// Summary: Opens the expander on a host I2C bus via periph.io.

package hd44780

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the usual PCF8574 address with A0-A2 pulled high.
const DefaultAddr = 0x27

// OpenI2C initialises the host drivers and opens the expander at addr on
// the named bus ("" picks the first bus found). Close the returned closer
// when done.
func OpenI2C(busName string, addr uint16) (Bus, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	return &i2c.Dev{Addr: addr, Bus: bus}, bus, nil
}
