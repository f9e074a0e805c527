// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package similarity

import (
	"image/color"
	"testing"
)

var (
	black = Sample{0, 0, 0, 255}
	white = Sample{255, 255, 255, 255}
	red   = Sample{255, 0, 0, 255}
)

func TestEuclidean(t *testing.T) {
	tests := []struct {
		name      string
		tolerance float64
		seed      Sample
		candidate Sample
		want      bool
	}{
		{"identical strict", 0, red, red, true},
		{"one step strict", 0, red, Sample{254, 0, 0, 255}, false},
		{"one step tolerance 1", 1, red, Sample{254, 0, 0, 255}, true},
		{"alpha ignored", 0, red, Sample{255, 0, 0, 0}, true},
		{"black white default", DefaultTolerance, black, white, false},
		{"black white permissive", MaxTolerance, black, white, true},
		{"negative tolerance is exact", -5, red, red, true},
		{"on the boundary", 5, Sample{0, 0, 0, 255}, Sample{3, 4, 0, 255}, true},
		{"just outside", 4.99, Sample{0, 0, 0, 255}, Sample{3, 4, 0, 255}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Euclidean(tt.tolerance)
			if got := p.Similar(tt.seed, tt.candidate); got != tt.want {
				t.Errorf("Similar() = %v, want %v", got, tt.want)
			}
			if got := Bind(p, tt.seed)(tt.candidate); got != tt.want {
				t.Errorf("Bind()() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLab(t *testing.T) {
	tests := []struct {
		name      string
		deltaE    float64
		seed      Sample
		candidate Sample
		want      bool
	}{
		{"identical strict", 0, red, red, true},
		{"black white below range", 90, black, white, false},
		{"black white above range", 110, black, white, true},
		{"near red", 5, red, Sample{254, 0, 0, 255}, true},
		{"red vs white", DefaultDeltaE, red, white, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Lab(tt.deltaE)
			if got := p.Similar(tt.seed, tt.candidate); got != tt.want {
				t.Errorf("Similar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChannelBandIgnoresSeed(t *testing.T) {
	p := ChannelBand(Blue, 200, 255)

	if !p.Similar(black, Sample{0, 0, 210, 255}) {
		t.Error("blue 210 should be inside [200,255]")
	}
	if p.Similar(white, Sample{255, 255, 199, 255}) {
		t.Error("blue 199 should be outside [200,255]")
	}

	m := Bind(p, black)
	if !m(white) {
		t.Error("bound matcher should accept white regardless of a black seed")
	}
}

func TestChannelBandSwapsBounds(t *testing.T) {
	p := ChannelBand(Red, 250, 10)
	if !p.Similar(black, Sample{100, 0, 0, 255}) {
		t.Error("reversed bounds should be normalized to [10,250]")
	}
}

func TestFuncPredicate(t *testing.T) {
	calls := 0
	p := Func(func(seed, c Sample) bool {
		calls++
		return seed == c
	})

	m := Bind(p, red)
	if !m(red) || m(black) {
		t.Error("Func predicate not forwarded")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if got.A != 128 {
		t.Errorf("A = %d, want 128", got.A)
	}
	if got.R != 255 {
		t.Errorf("R = %d, want 255 (un-premultiplied)", got.R)
	}
	if got.NRGBA() != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("NRGBA() = %v", got.NRGBA())
	}
}

func TestChannelString(t *testing.T) {
	for c, want := range map[Channel]string{Red: "red", Green: "green", Blue: "blue", Alpha: "alpha", 9: "unknown"} {
		if got := c.String(); got != want {
			t.Errorf("Channel(%d).String() = %q, want %q", c, got, want)
		}
	}
}
