// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package maskstate holds the current selection of one source image.
//
// A State owns the mask bitplane, its bounding rectangle and pixel count,
// and a generation number that changes on every mutation. Mutations are
// GrowFrom (replace the selection with a grown region), Reset (select
// everything) and Clear (select nothing). A new State starts fully
// selected.
//
// State performs no locking. Callers serialize access.
package maskstate

import (
	"image"

	"github.com/gogpu/magicwand/internal/bitplane"
	"github.com/gogpu/magicwand/internal/pixel"
	"github.com/gogpu/magicwand/internal/region"
	"github.com/gogpu/magicwand/similarity"
)

// Opaque is the alpha value of a selected pixel in exported buffers.
const Opaque = 255

// Status is a coarse description of the selection content.
type Status uint8

const (
	// StatusEmpty means no pixel is selected.
	StatusEmpty Status = iota
	// StatusPartial means some but not all pixels are selected.
	StatusPartial
	// StatusFull means every pixel is selected.
	StatusFull
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPartial:
		return "partial"
	case StatusFull:
		return "full"
	default:
		return "unknown"
	}
}

// Option configures a State.
type Option func(*State)

// WithPredicate sets the similarity predicate used by GrowFrom.
// A nil predicate keeps the default.
func WithPredicate(p similarity.Predicate) Option {
	return func(s *State) {
		if p != nil {
			s.pred = p
		}
	}
}

// WithConnectivity sets the neighborhood used by GrowFrom.
func WithConnectivity(c region.Connectivity) Option {
	return func(s *State) {
		s.conn = c
	}
}

// State is the mutable selection over one pixel buffer.
type State struct {
	src    *pixel.Buffer
	plane  *bitplane.Plane
	grower *region.Grower
	pred   similarity.Predicate
	conn   region.Connectivity

	rect  image.Rectangle
	count int64
	gen   uint64

	lastSpans int
}

// New creates a fully selected state over src.
func New(src *pixel.Buffer, opts ...Option) *State {
	w, h := src.Size()
	s := &State{
		src:    src,
		plane:  bitplane.New(w, h),
		grower: region.NewGrower(w, h),
		pred:   similarity.Default(),
		conn:   region.Connect4,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Size returns the mask dimensions, which always equal the image's.
func (s *State) Size() (width, height int) {
	return s.plane.Width(), s.plane.Height()
}

// Valid reports whether (x, y) is a pixel of the image.
func (s *State) Valid(x, y int) bool {
	return x >= 0 && x < s.plane.Width() && y >= 0 && y < s.plane.Height()
}

// GrowFrom replaces the selection with the region grown from (x, y) and
// returns its pixel count. An invalid coordinate returns 0 and leaves the
// state unchanged.
func (s *State) GrowFrom(x, y int) int64 {
	if !s.Valid(x, y) {
		return 0
	}
	res := s.grower.Grow(s.src, x, y, s.pred, s.conn, s.plane)
	s.rect = res.Bounds
	s.count = res.Count
	s.lastSpans = res.Spans
	s.gen++
	return res.Count
}

// LastSpans returns the number of spans filled by the most recent GrowFrom.
func (s *State) LastSpans() int { return s.lastSpans }

// IsInMask reports whether (x, y) is selected. Invalid coordinates report
// false.
func (s *State) IsInMask(x, y int) bool {
	return s.plane.At(x, y)
}

// Reset selects every pixel.
func (s *State) Reset() {
	s.plane.Fill()
	w, h := s.Size()
	s.rect = image.Rect(0, 0, w, h)
	s.count = int64(w) * int64(h)
	s.gen++
}

// Clear deselects every pixel.
func (s *State) Clear() {
	s.plane.Clear()
	s.rect = image.Rectangle{}
	s.count = 0
	s.gen++
}

// BoundingRect returns the smallest rectangle enclosing the selection, or
// the zero rectangle when nothing is selected. Max is exclusive.
func (s *State) BoundingRect() image.Rectangle { return s.rect }

// Count returns the number of selected pixels.
func (s *State) Count() int64 { return s.count }

// Generation returns a number that changes whenever the selection changes.
func (s *State) Generation() uint64 { return s.gen }

// Status classifies the selection as empty, partial or full.
func (s *State) Status() Status {
	switch s.count {
	case 0:
		return StatusEmpty
	case int64(s.plane.Len()):
		return StatusFull
	default:
		return StatusPartial
	}
}

// ExportAlpha returns a new width*height buffer holding Opaque for every
// selected pixel and 0 elsewhere.
func (s *State) ExportAlpha() []byte {
	dst := make([]byte, s.plane.Len())
	s.ExportAlphaInto(dst)
	return dst
}

// ExportAlphaInto writes the alpha export into dst, which must hold at
// least width*height bytes, and returns the selected pixel count.
func (s *State) ExportAlphaInto(dst []byte) int64 {
	return s.plane.AlphaInto(dst, Opaque)
}

// ExportMaskedRGBA returns the source image as non-premultiplied RGBA with
// every unselected pixel made fully transparent.
func (s *State) ExportMaskedRGBA() []byte {
	dst := make([]byte, s.plane.Len()*4)
	s.ExportMaskedRGBAInto(dst)
	return dst
}

// ExportMaskedRGBAInto writes the masked image into dst, which must hold at
// least width*height*4 bytes, and returns the selected pixel count.
// Selected pixels keep their source alpha.
func (s *State) ExportMaskedRGBAInto(dst []byte) int64 {
	s.src.RGBAInto(dst)
	n := s.plane.Len()
	for i := 0; i < n; i++ {
		if !s.plane.Get(i) {
			dst[i*4+3] = 0
		}
	}
	return s.count
}

// Plane returns the live mask plane. The caller must not modify it.
func (s *State) Plane() *bitplane.Plane { return s.plane }
