// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package similarity

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultDeltaE is the Lab tolerance used by the CLI when none is given.
// A Delta-E around 2.3 is a just-noticeable difference; 10 keeps the
// selection inside areas that read as one color on a photo.
const DefaultDeltaE = 10

// lab matches samples whose CIE76 Delta-E to the seed is within deltaE.
type lab struct {
	deltaE float64
}

// Lab returns a predicate comparing samples in CIE Lab space (D65). Two
// samples match when their Euclidean Lab distance (CIE76 Delta-E, 0-100
// scale) is at most deltaE. Alpha is ignored.
func Lab(deltaE float64) Predicate {
	if deltaE < 0 || math.IsNaN(deltaE) {
		deltaE = 0
	}
	return lab{deltaE: deltaE}
}

func (p lab) Similar(seed, candidate Sample) bool {
	return p.Bind(seed)(candidate)
}

func (p lab) Bind(seed Sample) Matcher {
	l1, a1, b1 := toColorful(seed).Lab()
	// colorful reports L in [0,1]; scale to the usual 0-100 Delta-E range.
	limit := p.deltaE / 100
	limitSq := limit * limit
	return func(c Sample) bool {
		l2, a2, b2 := toColorful(c).Lab()
		dl, da, db := l1-l2, a1-a2, b1-b2
		return dl*dl+da*da+db*db <= limitSq
	}
}

func toColorful(s Sample) colorful.Color {
	return colorful.Color{
		R: float64(s.R) / 255,
		G: float64(s.G) / 255,
		B: float64(s.B) / 255,
	}
}
