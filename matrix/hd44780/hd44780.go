// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/hd44780/hd44780.go
// Summary: HD44780 character LCD driven through a PCF8574 I2C expander.
// Usage: Open a bus with OpenI2C (or supply any Bus), then pass the LCD to term.New.
// Notes: The controller runs in 4-bit mode; R/W is held low and never read.

// Package hd44780 drives HD44780-compatible character modules behind the
// ubiquitous PCF8574 "backpack". The expander pins are wired as:
//
//	P0 RS, P1 R/W, P2 E, P3 backlight, P4..P7 D4..D7
//
// Bus errors never reach the caller of the matrix.Matrix methods. The
// first failure of a burst is logged and the latest one is kept for Err.
package hd44780

import (
	"log"
	"sync"
	"time"

	"github.com/framegrace/charterm/matrix"
)

// Expander pin flags.
const (
	flagRS        byte = 0x01
	flagRW        byte = 0x02
	flagEnable    byte = 0x04
	flagBacklight byte = 0x08
)

// HD44780 instruction set.
const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80
)

// Entry mode bits.
const (
	entryLeft           byte = 0x02
	entryShiftIncrement byte = 0x01
)

// Display control bits.
const (
	displayOn byte = 0x04
	cursorOn  byte = 0x02
	blinkOn   byte = 0x01
)

// Cursor/display shift bits.
const (
	displayMove byte = 0x08
	moveRight   byte = 0x04
)

// Function set bits.
const (
	mode8Bit  byte = 0x10
	mode2Line byte = 0x08
	font5x10  byte = 0x04
)

// DDRAM start address of each row on 1-4 row modules.
var rowOffsets = [...]byte{0x00, 0x40, 0x14, 0x54}

// Bus sends bytes to the expander. *i2c.Dev from periph.io satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// CharSize selects the font height.
type CharSize int

const (
	Font5x8 CharSize = iota
	// Font5x10 is only honoured on single-row modules.
	Font5x10
)

// Option configures an LCD.
type Option func(*LCD)

// WithCharSize selects the font height.
func WithCharSize(cs CharSize) Option {
	return func(l *LCD) { l.charSize = cs }
}

// WithSleep replaces time.Sleep for the controller's settle delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(l *LCD) { l.sleep = sleep }
}

// LCD implements matrix.Matrix for an HD44780 module.
type LCD struct {
	mu sync.Mutex

	bus        Bus
	rows, cols int
	charSize   CharSize
	sleep      func(time.Duration)

	backlight   byte
	displayMode byte
	entryMode   byte

	err     error
	failing bool
}

var _ matrix.Matrix = (*LCD)(nil)

// New returns a driver for a rows×cols module on bus. The backlight starts
// on; the module itself is not touched until Init.
func New(bus Bus, rows, cols int, opts ...Option) *LCD {
	l := &LCD{
		bus:       bus,
		rows:      rows,
		cols:      cols,
		sleep:     time.Sleep,
		backlight: flagBacklight,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init runs the 4-bit initialisation sequence and turns the display on
// with the cursor hidden.
func (l *LCD) Init() {
	l.mu.Lock()
	defer l.mu.Unlock()

	function := byte(0)
	if l.rows > 1 {
		function |= mode2Line
	}
	if l.charSize == Font5x10 && l.rows == 1 {
		function |= font5x10
	}

	l.sleep(50 * time.Millisecond)
	l.writeExpander(0)
	l.sleep(time.Second)

	// The module may power up in 8-bit mode or be left mid-byte in 4-bit
	// mode by a previous program. Three 8-bit function sets resynchronise
	// it either way before switching to 4-bit.
	l.write4bits(0x30)
	l.sleep(4500 * time.Microsecond)
	l.write4bits(0x30)
	l.sleep(4500 * time.Microsecond)
	l.write4bits(0x30)
	l.sleep(150 * time.Microsecond)
	l.write4bits(0x20)

	l.command(cmdFunctionSet | function)

	l.displayMode = displayOn
	l.command(cmdDisplayControl | l.displayMode)

	l.entryMode = entryLeft
	l.command(cmdEntryModeSet | l.entryMode)
}

func (l *LCD) Rows() int { return l.rows }
func (l *LCD) Cols() int { return l.cols }

// WriteCharAt writes c at (row, col). A zero byte is written as a space;
// positions outside the module are ignored.
func (l *LCD) WriteCharAt(row, col int, c byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		return
	}
	l.setCursorLocked(row, col)
	l.send(matrix.Glyph(c), flagRS)
}

func (l *LCD) SetCursor(row, col int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setCursorLocked(row, col)
}

func (l *LCD) setCursorLocked(row, col int) {
	if row < 0 || row >= l.rows || row >= len(rowOffsets) || col < 0 {
		return
	}
	l.command(cmdSetDDRAMAddr | (rowOffsets[row] + byte(col)))
}

// Clear blanks the display; the controller homes its own cursor.
func (l *LCD) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command(cmdClearDisplay)
	l.sleep(2 * time.Millisecond)
}

// Home returns the cursor and any display shift to the origin.
func (l *LCD) Home() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command(cmdReturnHome)
	l.sleep(2 * time.Millisecond)
}

// BacklightOn and BacklightOff set the backlight pin. The pin is carried
// on every expander write, so a single no-op write applies it.
func (l *LCD) BacklightOn() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backlight = flagBacklight
	l.writeExpander(0)
}

func (l *LCD) BacklightOff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backlight = 0
	l.writeExpander(0)
}

func (l *LCD) CursorOn()      { l.setDisplayBits(cursorOn, true) }
func (l *LCD) CursorOff()     { l.setDisplayBits(cursorOn, false) }
func (l *LCD) DisplayOn()     { l.setDisplayBits(displayOn, true) }
func (l *LCD) DisplayOff()    { l.setDisplayBits(displayOn, false) }
func (l *LCD) BlinkOn()       { l.setDisplayBits(blinkOn, true) }
func (l *LCD) BlinkOff()      { l.setDisplayBits(blinkOn, false) }
func (l *LCD) LeftToRight()   { l.setEntryBits(entryLeft, true) }
func (l *LCD) RightToLeft()   { l.setEntryBits(entryLeft, false) }
func (l *LCD) AutoscrollOn()  { l.setEntryBits(entryShiftIncrement, true) }
func (l *LCD) AutoscrollOff() { l.setEntryBits(entryShiftIncrement, false) }

// ScrollLeft and ScrollRight shift the whole display one position without
// changing DDRAM.
func (l *LCD) ScrollLeft() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command(cmdCursorShift | displayMove)
}

func (l *LCD) ScrollRight() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command(cmdCursorShift | displayMove | moveRight)
}

// Alert does nothing; the module has no way to attract attention.
func (l *LCD) Alert() {}

// CreateChar loads a 5x8 pattern into CGRAM slot 0-7. Bytes 1-7 then draw
// it. Slot 0 is not reachable from the terminal, which treats 0 as blank.
func (l *LCD) CreateChar(slot int, pattern [8]byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command(cmdSetCGRAMAddr | byte(slot&0x7)<<3)
	for _, b := range pattern {
		l.send(b&0x1F, flagRS)
	}
}

// Err returns the most recent bus error, if any.
func (l *LCD) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *LCD) setDisplayBits(bits byte, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on {
		l.displayMode |= bits
	} else {
		l.displayMode &^= bits
	}
	l.command(cmdDisplayControl | l.displayMode)
}

func (l *LCD) setEntryBits(bits byte, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on {
		l.entryMode |= bits
	} else {
		l.entryMode &^= bits
	}
	l.command(cmdEntryModeSet | l.entryMode)
}

func (l *LCD) command(value byte) { l.send(value, 0) }

// send clocks a byte out as two nibbles with RS set as given.
func (l *LCD) send(value, rs byte) {
	l.write4bits(value&0xF0 | rs)
	l.write4bits(value<<4&0xF0 | rs)
}

func (l *LCD) write4bits(value byte) {
	l.writeExpander(value)
	l.strobe(value)
}

// strobe pulses E so the controller latches the data pins.
func (l *LCD) strobe(value byte) {
	l.writeExpander(value | flagEnable)
	l.sleep(time.Microsecond)
	l.writeExpander(value &^ flagEnable)
	l.sleep(50 * time.Microsecond)
}

func (l *LCD) writeExpander(value byte) {
	err := l.bus.Tx([]byte{value | l.backlight}, nil)
	if err != nil {
		l.err = err
		if !l.failing {
			log.Printf("HD44780: Bus write failed: %v", err)
		}
		l.failing = true
		return
	}
	if l.failing {
		log.Printf("HD44780: Bus recovered")
	}
	l.failing = false
}
