// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package preview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
)

// halfBlock draws the upper pixel as foreground and the lower one as
// background, giving two image rows per terminal row.
const halfBlock = '▀'

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// Layout maps an image onto a terminal area. The last terminal row is
// reserved for the status line.
type Layout struct {
	ImageW, ImageH int // source image size
	PixelW, PixelH int // downscaled picture size
}

// NewLayout fits an imgW x imgH image into a cols x rows terminal,
// preserving the aspect ratio. Each cell shows one pixel column and two
// pixel rows. The picture is never enlarged.
func NewLayout(imgW, imgH, cols, rows int) Layout {
	l := Layout{ImageW: imgW, ImageH: imgH}
	rows-- // status line
	if imgW <= 0 || imgH <= 0 || cols <= 0 || rows <= 0 {
		return l
	}

	pw, ph := cols, rows*2
	if imgW*ph > imgH*pw {
		ph = max(1, imgH*pw/imgW)
	} else {
		pw = max(1, imgW*ph/imgH)
	}
	l.PixelW = min(pw, imgW)
	l.PixelH = min(ph, imgH)
	return l
}

// Cells returns the number of terminal columns and rows the picture uses.
func (l Layout) Cells() (int, int) {
	return l.PixelW, (l.PixelH + 1) / 2
}

// Empty reports whether the terminal is too small to show anything.
func (l Layout) Empty() bool { return l.PixelW == 0 || l.PixelH == 0 }

// CellToPixel maps the terminal cell (cx, cy) to the image pixel shown in
// its upper half. ok is false outside the picture.
func (l Layout) CellToPixel(cx, cy int) (x, y int, ok bool) {
	if l.Empty() || cx < 0 || cy < 0 || cx >= l.PixelW || cy*2 >= l.PixelH {
		return 0, 0, false
	}
	x = cx * l.ImageW / l.PixelW
	y = cy * 2 * l.ImageH / l.PixelH
	return x, y, true
}

// Thumbnail scales src to the layout's pixel size.
func (l Layout) Thumbnail(src image.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, l.PixelW, l.PixelH))
	if l.Empty() {
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// MaskThumbnail scales a full-size alpha mask to the layout's pixel size.
// Nearest-neighbour sampling keeps mask edges hard.
func (l Layout) MaskThumbnail(mask *image.Alpha) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, l.PixelW, l.PixelH))
	if l.Empty() || mask == nil {
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	return dst
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Picture *image.NRGBA
	Mask    *image.Alpha // nil hides the overlay
	Tint    color.NRGBA
	Status  string
}

// Render draws f onto c. The picture occupies the top-left corner and the
// status line the bottom row.
func Render(c Canvas, f Frame) {
	w, h := c.Size()
	blank := tcell.StyleDefault
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetContent(x, y, ' ', nil, blank)
		}
	}

	if f.Picture != nil {
		b := f.Picture.Bounds()
		for cy := 0; cy*2 < b.Dy() && cy < h-1; cy++ {
			for cx := 0; cx < b.Dx() && cx < w; cx++ {
				top := shade(f, cx, cy*2)
				bottom := top
				if cy*2+1 < b.Dy() {
					bottom = shade(f, cx, cy*2+1)
				}
				style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
				c.SetContent(cx, cy, halfBlock, nil, style)
			}
		}
	}

	if h > 0 {
		status := tcell.StyleDefault.Reverse(true)
		x := 0
		for _, r := range f.Status {
			if x >= w {
				break
			}
			c.SetContent(x, h-1, r, nil, status)
			x++
		}
	}
}

// shade returns the picture color at (x, y) with the tint mixed in where
// the mask covers it.
func shade(f Frame, x, y int) color.NRGBA {
	p := f.Picture.NRGBAAt(x, y)
	if f.Mask == nil {
		return p
	}
	cov := uint32(f.Mask.AlphaAt(x, y).A) * uint32(f.Tint.A) / 255
	if cov == 0 {
		return p
	}
	mix := func(a, b uint8) uint8 {
		return uint8((uint32(a)*(255-cov) + uint32(b)*cov) / 255)
	}
	return color.NRGBA{
		R: mix(p.R, f.Tint.R),
		G: mix(p.G, f.Tint.G),
		B: mix(p.B, f.Tint.B),
		A: 255,
	}
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
