// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bitplane implements a packed 1-bit-per-pixel membership plane.
//
// Bits are stored row-major in uint64 words: pixel (x, y) is bit
// (y*width + x). Bits past width*height in the last word are always zero,
// so Count and Bounds never see phantom pixels.
package bitplane

import (
	"image"
	"math/bits"
)

const wordBits = 64

// Plane is a width x height grid of membership flags.
//
// Plane is not safe for concurrent mutation.
type Plane struct {
	width  int
	height int
	n      int
	words  []uint64
}

// New creates an empty plane. Non-positive dimensions yield a zero-size plane.
func New(width, height int) *Plane {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	return &Plane{
		width:  width,
		height: height,
		n:      n,
		words:  make([]uint64, (n+wordBits-1)/wordBits),
	}
}

// Width returns the plane width.
func (p *Plane) Width() int { return p.width }

// Height returns the plane height.
func (p *Plane) Height() int { return p.height }

// Len returns the number of pixels in the plane.
func (p *Plane) Len() int { return p.n }

// Get reports whether pixel index i is set. i must be in [0, Len()).
func (p *Plane) Get(i int) bool {
	return p.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Set sets pixel index i. i must be in [0, Len()).
func (p *Plane) Set(i int) {
	p.words[i>>6] |= 1 << (uint(i) & 63)
}

// At reports whether (x, y) is set. Out-of-bounds coordinates report false.
func (p *Plane) At(x, y int) bool {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return false
	}
	return p.Get(y*p.width + x)
}

// SetSpan sets pixels left..right (inclusive) on row y.
// The span must lie inside the plane.
func (p *Plane) SetSpan(y, left, right int) {
	row := y * p.width
	p.setRange(row+left, row+right+1)
}

// setRange sets bits [lo, hi).
func (p *Plane) setRange(lo, hi int) {
	for lo < hi {
		w := lo >> 6
		off := uint(lo & 63)
		n := wordBits - int(off)
		if hi-lo < n {
			n = hi - lo
		}
		var m uint64
		if n == wordBits {
			m = ^uint64(0)
		} else {
			m = ((uint64(1) << uint(n)) - 1) << off
		}
		p.words[w] |= m
		lo += n
	}
}

// Fill sets every pixel.
func (p *Plane) Fill() {
	for i := range p.words {
		p.words[i] = ^uint64(0)
	}
	if tail := p.n & 63; tail != 0 {
		p.words[len(p.words)-1] = (uint64(1) << uint(tail)) - 1
	}
}

// Clear unsets every pixel.
func (p *Plane) Clear() {
	clear(p.words)
}

// Count returns the number of set pixels.
func (p *Plane) Count() int64 {
	var c int
	for _, w := range p.words {
		c += bits.OnesCount64(w)
	}
	return int64(c)
}

// Bounds returns the smallest rectangle enclosing every set pixel, or the
// zero rectangle when no pixel is set. Max is exclusive.
func (p *Plane) Bounds() image.Rectangle {
	minX, minY := p.width, p.height
	maxX, maxY := -1, -1

	for wi, w := range p.words {
		if w == 0 {
			continue
		}
		base := wi * wordBits
		for w != 0 {
			i := base + bits.TrailingZeros64(w)
			x, y := i%p.width, i/p.width
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			w &= w - 1
		}
	}

	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// CopyFrom overwrites p with the contents of src. Both planes must have the
// same dimensions.
func (p *Plane) CopyFrom(src *Plane) {
	copy(p.words, src.words)
}

// Equal reports whether p and o have the same dimensions and bits.
func (p *Plane) Equal(o *Plane) bool {
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.words {
		if p.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// AlphaInto writes one byte per pixel into dst: on for set pixels, 0 for
// unset ones. dst must hold at least Len() bytes. Returns the number of
// set pixels.
func (p *Plane) AlphaInto(dst []byte, on byte) int64 {
	if p.n == 0 {
		return 0
	}
	dst = dst[:p.n]
	var count int64
	for wi, w := range p.words {
		lo := wi * wordBits
		hi := lo + wordBits
		if hi > p.n {
			hi = p.n
		}
		out := dst[lo:hi]
		switch w {
		case 0:
			clear(out)
		case ^uint64(0):
			for i := range out {
				out[i] = on
			}
			count += int64(len(out))
		default:
			for i := range out {
				if w&(1<<uint(i)) != 0 {
					out[i] = on
					count++
				} else {
					out[i] = 0
				}
			}
		}
	}
	return count
}
