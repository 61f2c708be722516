// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: matrix/panel/panel.go
// Summary: Character LCD simulated inside a tcell screen.
// Usage: Host a Panel in a tcell screen and hand it to term.New as a matrix.Matrix.
// Notes: Safe for use from the feeding goroutine and the screen event loop at once.

// Package panel draws a character-matrix display, bezel and all, on a
// terminal screen. It behaves like a small HD44780 module: fixed geometry,
// a backlight, an optional cursor indicator and no hardware scrolling.
package panel

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/charterm/matrix"
)

// Screen is the subset of tcell.Screen the panel draws with.
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	ShowCursor(x, y int)
	HideCursor()
	Show()
	Beep() error
}

// Styles used for the panel. Lit applies with the backlight on, Unlit
// with it off.
type Styles struct {
	Lit   tcell.Style
	Unlit tcell.Style
	Bezel tcell.Style
}

// DefaultStyles resemble the common yellow-green on dark module.
func DefaultStyles() Styles {
	return Styles{
		Lit:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellowGreen),
		Unlit: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorDarkOliveGreen),
		Bezel: tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

// Option configures a Panel.
type Option func(*Panel)

// WithOrigin places the top-left corner of the bezel at (x, y).
func WithOrigin(x, y int) Option {
	return func(p *Panel) { p.originX, p.originY = x, y }
}

// WithTitle prints a label on the top edge of the bezel.
func WithTitle(title string) Option {
	return func(p *Panel) { p.title = title }
}

// WithVisualBell flashes the panel in reverse video for d on Alert.
// Zero disables the flash.
func WithVisualBell(d time.Duration) Option {
	return func(p *Panel) { p.flashFor = d }
}

// WithStyles overrides DefaultStyles.
func WithStyles(s Styles) Option {
	return func(p *Panel) { p.styles = s }
}

// WithCharset overrides the glyph table.
func WithCharset(cs *Charset) Option {
	return func(p *Panel) { p.charset = cs }
}

// Panel implements matrix.Matrix on top of a Screen.
type Panel struct {
	mu sync.Mutex

	screen     Screen
	rows, cols int
	cells      []byte

	originX, originY     int
	title                string
	styles               Styles
	charset              *Charset
	flashFor             time.Duration
	flashing             bool
	flashTimer           *time.Timer
	backlight            bool
	cursorOn             bool
	cursorRow, cursorCol int

	held  int
	dirty bool
}

var _ matrix.Matrix = (*Panel)(nil)

// New returns a panel of rows×cols cells drawn on screen. Nothing is drawn
// until Init.
func New(screen Screen, rows, cols int, opts ...Option) *Panel {
	p := &Panel{
		screen:    screen,
		rows:      rows,
		cols:      cols,
		cells:     make([]byte, rows*cols),
		styles:    DefaultStyles(),
		backlight: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.charset == nil {
		p.charset = NewCharset(nil)
	}
	return p
}

// Move places the top-left corner of the bezel at (x, y). The caller
// clears the old area and calls Redraw.
func (p *Panel) Move(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.originX, p.originY = x, y
}

// Hold defers screen updates until the matching Flush, so a burst of
// writes reaches the host terminal as one frame. Calls nest.
func (p *Panel) Hold() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.held++
}

// Flush ends a Hold and shows whatever changed while it was held.
func (p *Panel) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held == 0 {
		return
	}
	p.held--
	if p.held == 0 && p.dirty {
		p.dirty = false
		p.screen.Show()
	}
}

// Bounds returns the screen area covered by the panel including its bezel.
func (p *Panel) Bounds() (x, y, w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.originX, p.originY, p.cols + 2, p.rows + 2
}

func (p *Panel) Init() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.cells)
	p.cursorRow, p.cursorCol = 0, 0
	p.drawLocked()
}

func (p *Panel) Rows() int { return p.rows }
func (p *Panel) Cols() int { return p.cols }

func (p *Panel) WriteCharAt(row, col int, c byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		return
	}
	p.cells[row*p.cols+col] = c
	p.drawCellLocked(row, col)
	// The controller advances its address counter after a data write.
	p.cursorRow, p.cursorCol = row, col+1
	p.placeCursorLocked()
	p.showLocked()
}

func (p *Panel) SetCursor(row, col int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursorRow, p.cursorCol = row, col
	p.placeCursorLocked()
	p.showLocked()
}

func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.cells)
	p.cursorRow, p.cursorCol = 0, 0
	p.drawCellsLocked()
	p.placeCursorLocked()
	p.showLocked()
}

func (p *Panel) BacklightOn()  { p.setBacklight(true) }
func (p *Panel) BacklightOff() { p.setBacklight(false) }

func (p *Panel) setBacklight(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backlight == on {
		return
	}
	p.backlight = on
	p.drawCellsLocked()
	p.showLocked()
}

func (p *Panel) CursorOn()  { p.setCursorVisible(true) }
func (p *Panel) CursorOff() { p.setCursorVisible(false) }

func (p *Panel) setCursorVisible(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursorOn = on
	p.placeCursorLocked()
	p.showLocked()
}

// Alert beeps the host terminal and, if enabled, flashes the panel.
func (p *Panel) Alert() {
	_ = p.screen.Beep()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flashFor <= 0 {
		return
	}
	p.flashing = true
	p.drawCellsLocked()
	p.showLocked()
	if p.flashTimer != nil {
		p.flashTimer.Stop()
	}
	p.flashTimer = time.AfterFunc(p.flashFor, p.endFlash)
}

func (p *Panel) endFlash() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flashing = false
	p.drawCellsLocked()
	p.showLocked()
}

// Redraw paints the bezel and every cell again, e.g. after the host
// screen was resized or cleared.
func (p *Panel) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawLocked()
}

// Text returns the panel contents as the runes it draws, one string per row.
func (p *Panel) Text() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, p.rows)
	for row := range out {
		line := make([]rune, p.cols)
		for col := range line {
			line[col] = p.charset.Rune(p.cells[row*p.cols+col])
		}
		out[row] = string(line)
	}
	return out
}

// Backlight reports whether the backlight is on.
func (p *Panel) Backlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlight
}

func (p *Panel) cellStyle() tcell.Style {
	style := p.styles.Lit
	if !p.backlight {
		style = p.styles.Unlit
	}
	if p.flashing {
		style = style.Reverse(true)
	}
	return style
}

func (p *Panel) drawLocked() {
	p.drawBezelLocked()
	p.drawCellsLocked()
	p.placeCursorLocked()
	p.showLocked()
}

func (p *Panel) showLocked() {
	if p.held > 0 {
		p.dirty = true
		return
	}
	p.screen.Show()
}

func (p *Panel) drawBezelLocked() {
	x0, y0 := p.originX, p.originY
	x1, y1 := x0+p.cols+1, y0+p.rows+1
	st := p.styles.Bezel
	for x := x0 + 1; x < x1; x++ {
		p.screen.SetContent(x, y0, tcell.RuneHLine, nil, st)
		p.screen.SetContent(x, y1, tcell.RuneHLine, nil, st)
	}
	for y := y0 + 1; y < y1; y++ {
		p.screen.SetContent(x0, y, tcell.RuneVLine, nil, st)
		p.screen.SetContent(x1, y, tcell.RuneVLine, nil, st)
	}
	p.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, st)
	p.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, st)
	p.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, st)
	p.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, st)

	for i, r := range []rune(p.title) {
		x := x0 + 2 + i
		if x >= x1 {
			break
		}
		p.screen.SetContent(x, y0, r, nil, st)
	}
}

func (p *Panel) drawCellsLocked() {
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			p.drawCellLocked(row, col)
		}
	}
}

func (p *Panel) drawCellLocked(row, col int) {
	r := p.charset.Rune(p.cells[row*p.cols+col])
	p.screen.SetContent(p.originX+1+col, p.originY+1+row, r, nil, p.cellStyle())
}

func (p *Panel) placeCursorLocked() {
	if !p.cursorOn || p.cursorRow < 0 || p.cursorRow >= p.rows ||
		p.cursorCol < 0 || p.cursorCol >= p.cols {
		p.screen.HideCursor()
		return
	}
	p.screen.ShowCursor(p.originX+1+p.cursorCol, p.originY+1+p.cursorRow)
}
