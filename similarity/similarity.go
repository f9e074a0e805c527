// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package similarity defines the color predicates that decide whether a
// pixel joins a selection grown from a seed pixel.
//
// A Predicate compares the seed sample against a candidate sample. The
// region grower binds a predicate to the seed once per grow (see Bind), so
// metrics that need per-seed preparation, such as a Lab conversion, pay
// for it only once.
//
// Built-in metrics:
//   - Euclidean: squared RGB distance against a tolerance (the default).
//   - Lab: CIE76 Delta-E in Lab space, closer to perceived difference.
//   - ChannelBand: absolute test of one channel against a [lo, hi] band,
//     independent of the seed.
package similarity

import (
	"image/color"
	"math"
)

// DefaultTolerance is the Euclidean RGB tolerance used when none is given.
// Two samples match when their squared RGB distance is at most
// DefaultTolerance*DefaultTolerance (alpha is ignored).
const DefaultTolerance = 32

// MaxTolerance is the largest meaningful Euclidean tolerance: the RGB
// distance between black and white is sqrt(3)*255 ~ 441.67.
const MaxTolerance = 442

// Sample is one 8-bit RGBA color sample, non-premultiplied.
type Sample struct {
	R, G, B, A uint8
}

// FromColor converts any color.Color to a Sample.
func FromColor(c color.Color) Sample {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Sample{R: n.R, G: n.G, B: n.B, A: n.A}
}

// NRGBA returns the sample as a color.NRGBA.
func (s Sample) NRGBA() color.NRGBA {
	return color.NRGBA{R: s.R, G: s.G, B: s.B, A: s.A}
}

// Channel returns the value of channel c.
func (s Sample) Channel(c Channel) uint8 {
	switch c {
	case Red:
		return s.R
	case Green:
		return s.G
	case Blue:
		return s.B
	default:
		return s.A
	}
}

// Predicate decides whether candidate belongs to the region seeded by seed.
type Predicate interface {
	Similar(seed, candidate Sample) bool
}

// Matcher reports whether a candidate belongs to the region of a bound seed.
type Matcher func(candidate Sample) bool

// Binder is implemented by predicates that precompute per-seed state.
type Binder interface {
	Bind(seed Sample) Matcher
}

// Func adapts an ordinary function to a Predicate.
type Func func(seed, candidate Sample) bool

// Similar calls f(seed, candidate).
func (f Func) Similar(seed, candidate Sample) bool { return f(seed, candidate) }

// Bind returns a Matcher for seed. Predicates implementing Binder are asked
// to prepare themselves; any other predicate is wrapped in a closure.
func Bind(p Predicate, seed Sample) Matcher {
	if b, ok := p.(Binder); ok {
		return b.Bind(seed)
	}
	return func(candidate Sample) bool {
		return p.Similar(seed, candidate)
	}
}

// euclidean matches samples whose squared RGB distance is within limit.
type euclidean struct {
	limit int32
}

// Euclidean returns a predicate matching candidates within tolerance of the
// seed in RGB space. Negative tolerances are treated as 0 (exact match).
func Euclidean(tolerance float64) Predicate {
	if tolerance < 0 || math.IsNaN(tolerance) {
		tolerance = 0
	}
	if tolerance > MaxTolerance {
		tolerance = MaxTolerance
	}
	return euclidean{limit: int32(tolerance * tolerance)}
}

// Default returns Euclidean(DefaultTolerance).
func Default() Predicate { return Euclidean(DefaultTolerance) }

func (e euclidean) Similar(seed, candidate Sample) bool {
	return rgbDistanceSq(seed, candidate) <= e.limit
}

func (e euclidean) Bind(seed Sample) Matcher {
	limit := e.limit
	return func(c Sample) bool {
		return rgbDistanceSq(seed, c) <= limit
	}
}

func rgbDistanceSq(a, b Sample) int32 {
	dr := int32(a.R) - int32(b.R)
	dg := int32(a.G) - int32(b.G)
	db := int32(a.B) - int32(b.B)
	return dr*dr + dg*dg + db*db
}

// Channel selects one component of a Sample.
type Channel uint8

// Sample channels.
const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Alpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// band is an absolute predicate that ignores the seed.
type band struct {
	channel Channel
	lo, hi  uint8
}

// ChannelBand returns a predicate matching every sample whose channel value
// lies in [lo, hi], whatever the seed. ChannelBand(Blue, 200, 255) selects
// near-white areas of line art, the classic coloring-book fill.
func ChannelBand(channel Channel, lo, hi uint8) Predicate {
	if lo > hi {
		lo, hi = hi, lo
	}
	return band{channel: channel, lo: lo, hi: hi}
}

func (b band) Similar(_, candidate Sample) bool {
	v := candidate.Channel(b.channel)
	return v >= b.lo && v <= b.hi
}

func (b band) Bind(Sample) Matcher {
	return func(c Sample) bool {
		v := c.Channel(b.channel)
		return v >= b.lo && v <= b.hi
	}
}
