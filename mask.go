// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package magicwand

import "image"

// Mask is an immutable snapshot of an engine's selection.
// Values are 255 for selected pixels and 0 elsewhere.
type Mask struct {
	width  int
	height int
	data   []uint8
	rect   image.Rectangle
	count  int64
}

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// At returns the mask value at (x, y).
// Returns 0 for coordinates outside the mask bounds.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Rect returns the bounding rectangle of the selected pixels.
func (m *Mask) Rect() image.Rectangle { return m.rect }

// Count returns the number of selected pixels.
func (m *Mask) Count() int64 { return m.count }

// Data returns a copy of the mask values, row-major.
func (m *Mask) Data() []uint8 {
	out := make([]uint8, len(m.data))
	copy(out, m.data)
	return out
}

// ToAlpha returns the mask as an *image.Alpha sharing no memory with m.
func (m *Mask) ToAlpha() *image.Alpha {
	return &image.Alpha{
		Pix:    m.Data(),
		Stride: m.width,
		Rect:   m.Bounds(),
	}
}
