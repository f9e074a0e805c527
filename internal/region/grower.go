// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package region grows connected pixel regions from a seed.
//
// The grower is a breadth-first scanline flood fill. Instead of queuing
// single pixels it fills the longest matching horizontal run around a
// pixel, marks it in the destination plane in one word-level operation and
// queues the run as a span. Each dequeued span scans the row above and the
// row below for unvisited matching pixels.
//
// Memory is bounded by two reusable structures sized for one image: a
// visited plane (one bit per pixel) and the span queue. Spans never
// overlap, so the queue never holds more than one image's worth of
// entries.
package region

import (
	"image"

	"github.com/gogpu/magicwand/internal/bitplane"
	"github.com/gogpu/magicwand/similarity"
)

// Connectivity selects which neighbors are adjacent to a pixel.
type Connectivity uint8

const (
	// Connect4 joins pixels that share an edge.
	Connect4 Connectivity = iota

	// Connect8 also joins pixels that share only a corner.
	Connect8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	if c == Connect8 {
		return "8"
	}
	return "4"
}

// ParseConnectivity parses "4" or "8".
func ParseConnectivity(s string) (Connectivity, bool) {
	switch s {
	case "4":
		return Connect4, true
	case "8":
		return Connect8, true
	default:
		return Connect4, false
	}
}

// Source provides pixel samples to the grower.
//
// Sample is called only with in-bounds coordinates.
type Source interface {
	Size() (width, height int)
	Sample(x, y int) similarity.Sample
}

// Result summarizes a grown region.
type Result struct {
	// Count is the number of pixels in the region.
	Count int64

	// Bounds is the smallest rectangle containing the region (Max exclusive).
	// It is the zero rectangle when Count is zero.
	Bounds image.Rectangle

	// Spans is the number of horizontal runs filled.
	Spans int
}

type span struct {
	left, right, y int
}

// Grower performs flood fills over images of one fixed size.
//
// A Grower is not safe for concurrent use. Its scratch state is reused by
// every call to Grow.
type Grower struct {
	width, height int
	visited       *bitplane.Plane
	queue         []span

	// per-call state
	src   Source
	match similarity.Matcher
	dst   *bitplane.Plane
	res   Result
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// NewGrower creates a grower for width x height images.
func NewGrower(width, height int) *Grower {
	return &Grower{
		width:   width,
		height:  height,
		visited: bitplane.New(width, height),
		queue:   make([]span, 0, height*2),
	}
}

// Size returns the image size the grower was created for.
func (g *Grower) Size() (width, height int) {
	return g.width, g.height
}

// Grow floods the region connected to (seedX, seedY) and writes it into
// dst, replacing whatever dst held.
//
// A candidate pixel joins the region when pred holds for the seed sample
// and the candidate sample. The seed pixel itself always joins. If pred
// rejects the seed sample (possible for absolute predicates such as
// similarity.ChannelBand) the region is the seed pixel alone.
//
// src and dst must match the grower size. A seed outside the image
// returns a zero Result and leaves dst untouched.
func (g *Grower) Grow(src Source, seedX, seedY int, pred similarity.Predicate, conn Connectivity, dst *bitplane.Plane) Result {
	if seedX < 0 || seedX >= g.width || seedY < 0 || seedY >= g.height {
		return Result{}
	}

	g.visited.Clear()
	dst.Clear()
	g.queue = g.queue[:0]

	seed := src.Sample(seedX, seedY)
	g.src = src
	g.dst = dst
	g.match = similarity.Bind(pred, seed)
	g.res = Result{}
	g.minX, g.minY = g.width, g.height
	g.maxX, g.maxY = -1, -1
	defer g.release()

	g.visited.Set(seedY*g.width + seedX)
	if !g.match(seed) {
		g.addSpan(seedX, seedX, seedY, false)
		return g.result()
	}
	g.fill(seedX, seedY)

	for head := 0; head < len(g.queue); head++ {
		s := g.queue[head]
		if s.y > 0 {
			g.scanRow(s, s.y-1, conn)
		}
		if s.y < g.height-1 {
			g.scanRow(s, s.y+1, conn)
		}
	}

	return g.result()
}

// release drops references to caller data so the grower does not pin it.
func (g *Grower) release() {
	g.src = nil
	g.dst = nil
	g.match = nil
}

func (g *Grower) result() Result {
	r := g.res
	if r.Count > 0 {
		r.Bounds = image.Rect(g.minX, g.minY, g.maxX+1, g.maxY+1)
	}
	return r
}

// scanRow looks for unvisited matching pixels on row y adjacent to s.
func (g *Grower) scanRow(s span, y int, conn Connectivity) {
	lo, hi := s.left, s.right
	if conn == Connect8 {
		if lo > 0 {
			lo--
		}
		if hi < g.width-1 {
			hi++
		}
	}

	row := y * g.width
	for x := lo; x <= hi; x++ {
		i := row + x
		if g.visited.Get(i) {
			continue
		}
		g.visited.Set(i)
		if !g.match(g.src.Sample(x, y)) {
			continue
		}
		// Pixels up to right+1 are now visited; the loop skips them.
		x = g.fill(x, y)
	}
}

// fill extends the run around (x, y), which is known to match and is
// already marked visited. It records the run and returns its right end.
func (g *Grower) fill(x, y int) int {
	row := y * g.width

	left := x
	for left > 0 {
		i := row + left - 1
		if g.visited.Get(i) {
			break
		}
		g.visited.Set(i)
		if !g.match(g.src.Sample(left-1, y)) {
			break
		}
		left--
	}

	right := x
	for right < g.width-1 {
		i := row + right + 1
		if g.visited.Get(i) {
			break
		}
		g.visited.Set(i)
		if !g.match(g.src.Sample(right+1, y)) {
			break
		}
		right++
	}

	g.addSpan(left, right, y, true)
	return right
}

func (g *Grower) addSpan(left, right, y int, enqueue bool) {
	g.dst.SetSpan(y, left, right)
	g.res.Count += int64(right - left + 1)
	g.res.Spans++

	if left < g.minX {
		g.minX = left
	}
	if right > g.maxX {
		g.maxX = right
	}
	if y < g.minY {
		g.minY = y
	}
	if y > g.maxY {
		g.maxY = y
	}

	if enqueue {
		g.queue = append(g.queue, span{left: left, right: right, y: y})
	}
}
