// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package preview shows an image in the terminal and lets the user grow
// selections by clicking on it.
//
// Pressing the mouse button grows a selection from the pixel under the
// cursor. The mask is tinted over the picture while the button is held and
// hidden on release. Keys: r selects everything, c clears, q or Esc quits.
package preview

import (
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/magicwand"
)

// Screen is the part of tcell.Screen a View needs.
type Screen interface {
	Canvas
	Show()
	PostEvent(ev tcell.Event) error
}

// View is an interactive selection preview.
type View struct {
	screen  Screen
	session *Session
	source  image.Image
	tint    color.NRGBA
	printer *message.Printer

	layout  Layout
	picture *image.NRGBA
	mask    *image.Alpha // full size, from the last accepted result
	thumb   *image.Alpha
	visible bool
	pressed bool
	status  string
}

// NewView creates a view of src backed by engine. The view owns engine
// and closes it in Close. Results from the selection worker reach the view
// as *tcell.EventInterrupt events posted to screen.
func NewView(screen Screen, engine *magicwand.Engine, src image.Image, tint color.NRGBA) *View {
	v := &View{
		screen:  screen,
		source:  src,
		tint:    tint,
		printer: message.NewPrinter(language.English),
		status:  "click to select, r: all, c: none, q: quit",
	}
	v.session = NewSession(engine, func(r Result) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(r))
	})
	v.resize()
	return v
}

// Close stops the selection worker and closes the engine.
func (v *View) Close() error {
	return v.session.Close()
}

// Run draws the view and processes events until the user quits or the
// screen is finalized.
func (v *View) Run(screen tcell.Screen) {
	v.draw()
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if v.Handle(ev) {
			return
		}
	}
}

// Handle processes one event and reports whether the view should quit.
func (v *View) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return true
			case 'r':
				v.session.Reset()
			case 'c':
				v.session.Clear()
			}
		}

	case *tcell.EventMouse:
		v.mouse(ev)

	case *tcell.EventResize:
		v.resize()
		v.draw()

	case *tcell.EventInterrupt:
		if r, ok := ev.Data().(Result); ok {
			v.apply(r)
		}
	}
	return false
}

func (v *View) mouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 != 0 {
		if v.pressed {
			return
		}
		v.pressed = true
		cx, cy := ev.Position()
		if x, y, ok := v.layout.CellToPixel(cx, cy); ok {
			v.session.Grow(x, y)
		}
		return
	}
	if v.pressed {
		v.pressed = false
		v.visible = false
		v.draw()
	}
}

// apply shows a worker result unless a newer command has been issued.
func (v *View) apply(r Result) {
	if v.session.Stale(r) {
		return
	}
	if r.Err != nil {
		v.status = r.Err.Error()
		v.draw()
		return
	}

	v.mask = r.Mask.ToAlpha()
	v.thumb = v.layout.MaskThumbnail(v.mask)
	v.visible = r.Op != OpGrow || v.pressed
	v.status = v.printer.Sprintf("MaskRect: [%d,%d][%d,%d]  %d px  %s %v",
		r.Rect.Min.X, r.Rect.Min.Y, r.Rect.Max.X, r.Rect.Max.Y,
		r.Count, r.Op, r.Elapsed.Round(time.Microsecond))
	v.draw()
}

func (v *View) resize() {
	w, h := v.screen.Size()
	b := v.source.Bounds()
	v.layout = NewLayout(b.Dx(), b.Dy(), w, h)
	v.picture = v.layout.Thumbnail(v.source)
	if v.mask != nil {
		v.thumb = v.layout.MaskThumbnail(v.mask)
	}
}

func (v *View) draw() {
	f := Frame{Picture: v.picture, Tint: v.tint, Status: v.status}
	if v.visible {
		f.Mask = v.thumb
	}
	Render(v.screen, f)
	v.screen.Show()
}

// Status returns the current status line.
func (v *View) Status() string { return v.status }

// MaskVisible reports whether the selection overlay is shown.
func (v *View) MaskVisible() bool { return v.visible }

// Layout returns the current picture layout.
func (v *View) Layout() Layout { return v.layout }
